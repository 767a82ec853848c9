package stac

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the STAC specification version written into emitted documents.
const Version = "1.0.0"

// Item represents a STAC Item (GeoJSON Feature) with support for foreign members.
type Item struct {
	Type       string            `json:"type,omitempty"`
	Version    string            `json:"stac_version"`
	Extensions []string          `json:"stac_extensions,omitempty"`
	Id         string            `json:"id"`
	Geometry   any               `json:"geometry"`
	Bbox       []float64         `json:"bbox,omitempty"`
	Properties map[string]any    `json:"properties"`
	Links      []*Link           `json:"links"`
	Assets     map[string]*Asset `json:"assets"`
	Collection string            `json:"collection,omitempty"`

	// AdditionalFields holds foreign members not defined in the STAC spec.
	AdditionalFields map[string]any `json:"-"`
}

var knownItemFields = map[string]bool{
	"type": true, "stac_version": true, "stac_extensions": true,
	"id": true, "geometry": true, "bbox": true, "properties": true,
	"links": true, "assets": true, "collection": true,
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (item *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item
	var aux itemAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*item = Item(aux)

	extra, err := decodeForeign(data, knownItemFields)
	if err != nil {
		return err
	}
	item.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (item Item) MarshalJSON() ([]byte, error) {
	type itemAlias Item
	data, err := json.Marshal(itemAlias(item))
	if err != nil {
		return nil, err
	}
	return encodeForeign(data, item.AdditionalFields)
}

// Datetime returns the parsed "datetime" property, if present and valid.
func (item *Item) Datetime() (time.Time, bool) {
	raw, ok := item.Properties["datetime"].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks the structural invariants of an emitted Item: required
// fields are present, the datetime property parses, the bbox has 4 or 6
// coordinates, every asset carries an href, and the bbox encloses the
// geometry.
func (item *Item) Validate() error {
	if item.Id == "" {
		return fmt.Errorf("stac: item has no id")
	}
	if item.Version == "" {
		return fmt.Errorf("stac: item %s has no stac_version", item.Id)
	}
	if item.Type != "" && item.Type != "Feature" {
		return fmt.Errorf("stac: item %s has type %q, want Feature", item.Id, item.Type)
	}
	if _, ok := item.Datetime(); !ok {
		return fmt.Errorf("stac: item %s has no valid datetime property", item.Id)
	}
	if item.Geometry == nil {
		return fmt.Errorf("stac: item %s has no geometry", item.Id)
	}
	if n := len(item.Bbox); n != 4 && n != 6 {
		return fmt.Errorf("stac: item %s bbox has %d values, want 4 or 6", item.Id, n)
	}
	for key, asset := range item.Assets {
		if asset == nil || asset.Href == "" {
			return fmt.Errorf("stac: item %s asset %q has no href", item.Id, key)
		}
	}

	rings, err := polygonRings(item.Geometry)
	if err != nil {
		return fmt.Errorf("stac: item %s: %w", item.Id, err)
	}
	if err := bboxEncloses(item.Bbox, rings); err != nil {
		return fmt.Errorf("stac: item %s: %w", item.Id, err)
	}
	return nil
}

// Geometry represents a GeoJSON Polygon geometry.
type Geometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// Polygon builds a GeoJSON Polygon geometry from a single exterior ring.
func Polygon(ring [][]float64) *Geometry {
	return &Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}}
}

// polygonRings extracts polygon rings from the supported geometry
// representations: the typed Geometry produced by builders and the
// generic map produced by unmarshaling.
func polygonRings(geometry any) ([][][]float64, error) {
	switch g := geometry.(type) {
	case *Geometry:
		return g.Coordinates, nil
	case Geometry:
		return g.Coordinates, nil
	case map[string]any:
		coords, ok := g["coordinates"].([]any)
		if !ok {
			return nil, fmt.Errorf("geometry has no coordinates")
		}
		rings := make([][][]float64, 0, len(coords))
		for _, rawRing := range coords {
			ringVals, ok := rawRing.([]any)
			if !ok {
				return nil, fmt.Errorf("geometry ring is not an array")
			}
			ring := make([][]float64, 0, len(ringVals))
			for _, rawPos := range ringVals {
				posVals, ok := rawPos.([]any)
				if !ok {
					return nil, fmt.Errorf("geometry position is not an array")
				}
				pos := make([]float64, 0, len(posVals))
				for _, v := range posVals {
					f, ok := v.(float64)
					if !ok {
						return nil, fmt.Errorf("geometry coordinate is not a number")
					}
					pos = append(pos, f)
				}
				ring = append(ring, pos)
			}
			rings = append(rings, ring)
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("unsupported geometry representation %T", geometry)
	}
}

func bboxEncloses(bbox []float64, rings [][][]float64) error {
	if len(bbox) < 4 {
		return fmt.Errorf("bbox has %d values", len(bbox))
	}
	minLon, minLat := bbox[0], bbox[1]
	maxLon, maxLat := bbox[len(bbox)/2], bbox[len(bbox)/2+1]
	for _, ring := range rings {
		for _, pos := range ring {
			if len(pos) < 2 {
				return fmt.Errorf("geometry position has %d values", len(pos))
			}
			lon, lat := pos[0], pos[1]
			if lon < minLon || lon > maxLon || lat < minLat || lat > maxLat {
				return fmt.Errorf("bbox does not enclose geometry point [%v, %v]", lon, lat)
			}
		}
	}
	return nil
}
