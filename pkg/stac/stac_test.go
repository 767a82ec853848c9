package stac

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemForeignMembers(t *testing.T) {
	t.Run("unmarshal preserves foreign members", func(t *testing.T) {
		jsonData := `{
			"type": "Feature",
			"stac_version": "1.0.0",
			"id": "test-item",
			"geometry": {"type": "Point", "coordinates": [0, 0]},
			"properties": {"datetime": "2023-01-01T00:00:00Z"},
			"links": [],
			"assets": {},
			"custom_field": "custom_value",
			"another_field": 42
		}`

		var item Item
		err := json.Unmarshal([]byte(jsonData), &item)
		require.NoError(t, err)

		assert.Equal(t, "test-item", item.Id)
		assert.Equal(t, "1.0.0", item.Version)
		assert.Equal(t, "custom_value", item.AdditionalFields["custom_field"])
		assert.Equal(t, float64(42), item.AdditionalFields["another_field"])
	})

	t.Run("marshal includes foreign members", func(t *testing.T) {
		item := Item{
			Type:       "Feature",
			Version:    Version,
			Id:         "test-item",
			Geometry:   Polygon([][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}),
			Properties: map[string]any{"datetime": "2023-01-01T00:00:00Z"},
			Links:      []*Link{},
			Assets:     map[string]*Asset{},
			AdditionalFields: map[string]any{
				"custom_field": "custom_value",
			},
		}

		data, err := json.Marshal(item)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "custom_value", decoded["custom_field"])
	})

	t.Run("round-trip preserves all fields", func(t *testing.T) {
		original := `{
			"type": "Feature",
			"stac_version": "1.0.0",
			"id": "test-item",
			"geometry": null,
			"properties": {},
			"links": [],
			"assets": {},
			"foreign_member": {"nested": "value"}
		}`

		var item Item
		require.NoError(t, json.Unmarshal([]byte(original), &item))

		output, err := json.Marshal(item)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(output, &decoded))

		fm, ok := decoded["foreign_member"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "value", fm["nested"])
	})
}

func TestAssetForeignMembers(t *testing.T) {
	jsonData := `{
		"href": "https://example.com/image.tif",
		"type": "image/tiff",
		"eo:bands": [{"name": "B01"}],
		"proj:epsg": 32632
	}`

	var asset Asset
	require.NoError(t, json.Unmarshal([]byte(jsonData), &asset))

	assert.Equal(t, "https://example.com/image.tif", asset.Href)
	assert.Contains(t, asset.AdditionalFields, "eo:bands")
	assert.Equal(t, float64(32632), asset.AdditionalFields["proj:epsg"])

	data, err := json.Marshal(asset)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(32632), decoded["proj:epsg"])
}

func validItem() *Item {
	return &Item{
		Type:    "Feature",
		Version: Version,
		Id:      "scene-1",
		Geometry: Polygon([][]float64{
			{-58.4, -20.5}, {-50.1, -21.8}, {-48.7, -15.0}, {-56.6, -13.8}, {-58.4, -20.5},
		}),
		Bbox:       []float64{-58.5, -21.9, -48.6, -13.7},
		Properties: map[string]any{"datetime": "2022-08-11T14:01:37Z"},
		Assets: map[string]*Asset{
			"thumbnail": {Href: "https://example.com/q.png", Type: MediaTypePNG},
		},
	}
}

func TestItemValidate(t *testing.T) {
	t.Run("valid item passes", func(t *testing.T) {
		require.NoError(t, validItem().Validate())
	})

	t.Run("bbox must enclose geometry", func(t *testing.T) {
		item := validItem()
		item.Bbox = []float64{-50, -21.9, -48.6, -13.7}
		err := item.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enclose")
	})

	t.Run("missing datetime fails", func(t *testing.T) {
		item := validItem()
		delete(item.Properties, "datetime")
		require.Error(t, item.Validate())
	})

	t.Run("asset without href fails", func(t *testing.T) {
		item := validItem()
		item.Assets["broken"] = &Asset{Type: MediaTypeCOG}
		require.Error(t, item.Validate())
	})

	t.Run("unmarshaled geometry validates", func(t *testing.T) {
		data, err := json.Marshal(validItem())
		require.NoError(t, err)
		var item Item
		require.NoError(t, json.Unmarshal(data, &item))
		require.NoError(t, item.Validate())
	})
}

func TestExtentUpdate(t *testing.T) {
	t.Run("seeds empty extent", func(t *testing.T) {
		extent := &Extent{}
		extent.Update([]float64{-58, -21, -48, -13}, mustTime(t, "2022-08-11T14:01:37Z"))

		require.NotNil(t, extent.Spatial)
		assert.Equal(t, []float64{-58, -21, -48, -13}, extent.Spatial.Bbox[0])
		require.NotNil(t, extent.Temporal)
		assert.Equal(t, []any{"2022-08-11T14:01:37Z", "2022-08-11T14:01:37Z"}, extent.Temporal.Interval[0])
	})

	t.Run("grows spatial and temporal bounds", func(t *testing.T) {
		extent := &Extent{
			Spatial:  &SpatialExtent{Bbox: [][]float64{{-58, -21, -48, -13}}},
			Temporal: &TemporalExtent{Interval: [][]any{{"2022-08-11T14:01:37Z", "2022-08-11T14:01:37Z"}}},
		}
		extent.Update([]float64{-60, -10, -55, -5}, mustTime(t, "2022-09-01T10:00:00Z"))

		assert.Equal(t, []float64{-60, -21, -48, -5}, extent.Spatial.Bbox[0])
		assert.Equal(t, []any{"2022-08-11T14:01:37Z", "2022-09-01T10:00:00Z"}, extent.Temporal.Interval[0])
	})

	t.Run("open interval stays open", func(t *testing.T) {
		extent := &Extent{
			Temporal: &TemporalExtent{Interval: [][]any{{"2021-03-01T00:00:00Z", nil}}},
		}
		extent.Update(nil, mustTime(t, "2022-09-01T10:00:00Z"))
		assert.Nil(t, extent.Temporal.Interval[0][1])
	})
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}
