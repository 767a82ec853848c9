package amazonia

import (
	"fmt"
	"math"
	"time"

	"github.com/amazonia-pds/amazonia-stac/pkg/stac"
)

// STAC extension schemas declared on emitted items.
const (
	projExtensionSchema = "https://stac-extensions.github.io/projection/v1.1.0/schema.json"
	viewExtensionSchema = "https://stac-extensions.github.io/view/v1.0.0/schema.json"
	satExtensionSchema  = "https://stac-extensions.github.io/sat/v1.0.0/schema.json"
)

// BuildItem maps parsed scene metadata into a STAC Item. The mapping is
// deterministic: the same metadata and configuration always produce the
// same document. Configuration only influences asset hrefs.
func BuildItem(meta *SceneMetadata, cfg Config) (*stac.Item, error) {
	constants, err := lookupConstants(meta.Mission, meta.Number, meta.Instrument)
	if err != nil {
		return nil, err
	}

	ring := [][]float64{
		{meta.Corners.LL.Lon, meta.Corners.LL.Lat},
		{meta.Corners.LR.Lon, meta.Corners.LR.Lat},
		{meta.Corners.UR.Lon, meta.Corners.UR.Lat},
		{meta.Corners.UL.Lon, meta.Corners.UL.Lat},
		{meta.Corners.LL.Lon, meta.Corners.LL.Lat},
	}

	bbox := quadBbox(meta.Bounding)
	// The stated bounding box can be tighter than the footprint corners
	// in reprocessed products; grow it so it always encloses the geometry.
	for _, pos := range ring {
		bbox = stac.UnionBbox(bbox, []float64{pos[0], pos[1], pos[0], pos[1]})
	}

	grid := projectGrid(meta)

	orbitState := "ascending"
	if meta.EphemerisVz < 0 {
		orbitState = "descending"
	}

	properties := map[string]any{
		"datetime":    meta.AcquisitionTime.Format(time.RFC3339),
		"platform":    constants.Platform,
		"instruments": []string{meta.Instrument},
		"gsd":         constants.GSD,

		"view:sun_elevation": meta.SunElevation,
		"view:sun_azimuth":   meta.SunAzimuth,
		"view:off_nadir":     math.Abs(meta.Roll),

		"sat:platform_international_designator": constants.Designator,
		"sat:orbit_state":                       orbitState,

		"proj:epsg":      grid.EPSG,
		"proj:shape":     grid.Shape,
		"proj:transform": grid.Transform,

		"amazonia-1:custom": collectionName(meta.Mission, meta.Number, meta.Instrument),
		"amazonia:data_type": "L" + meta.Level,
		"amazonia:path":      meta.Path,
		"amazonia:row":       meta.Row,
	}

	item := &stac.Item{
		Type:    "Feature",
		Version: stac.Version,
		Extensions: []string{
			projExtensionSchema,
			viewExtensionSchema,
			satExtensionSchema,
		},
		Id:         meta.SceneID(),
		Geometry:   stac.Polygon(ring),
		Bbox:       bbox,
		Properties: properties,
		Links:      []*stac.Link{},
		Assets:     buildAssets(meta, cfg),
		Collection: collectionName(meta.Mission, meta.Number, meta.Instrument),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func buildAssets(meta *SceneMetadata, cfg Config) map[string]*stac.Asset {
	productDir := meta.ProductDir()

	assets := map[string]*stac.Asset{
		"thumbnail": {
			Href: fmt.Sprintf("%s/%s/%s/%s.png",
				cfg.quicklookBase(), cfg.Buckets.Metadata, productDir, meta.noLevelID()),
			Type:  stac.MediaTypePNG,
			Roles: []string{"thumbnail"},
		},
		"metadata": {
			Href: fmt.Sprintf("s3://%s/%s/%s",
				cfg.Buckets.COG, productDir, meta.MetaFile),
			Type:  stac.MediaTypeXML,
			Roles: []string{"metadata"},
		},
	}

	for _, band := range meta.Bands {
		key := fmt.Sprintf("B%d", band.Number)
		asset := &stac.Asset{
			Href: fmt.Sprintf("s3://%s/%s/%s%s_BAND%d.tif",
				cfg.Buckets.COG, productDir, meta.SceneDir, meta.Optics, band.Number),
			Type:  stac.MediaTypeCOG,
			Title: fmt.Sprintf("Band %d", band.Number),
			Roles: []string{"data"},
		}
		if band.Gain != "" {
			asset.AdditionalFields = map[string]any{"amazonia:gain": band.Gain}
		}
		assets[key] = asset
	}

	return assets
}

func quadBbox(quad Quad) []float64 {
	minLon, maxLon := quad.UL.Lon, quad.UL.Lon
	minLat, maxLat := quad.UL.Lat, quad.UL.Lat
	for _, corner := range []Coord{quad.UR, quad.LR, quad.LL} {
		minLon = minFloat(minLon, corner.Lon)
		maxLon = maxFloat(maxLon, corner.Lon)
		minLat = minFloat(minLat, corner.Lat)
		maxLat = maxFloat(maxLat, corner.Lat)
	}
	return []float64{minLon, minLat, maxLon, maxLat}
}

// BuildCollection returns the static AMAZONIA1-WFI collection. The
// extent starts at the mission launch and grows via UpdateExtent.
func BuildCollection(cfg Config) *stac.Collection {
	return &stac.Collection{
		Type:        "Collection",
		Version:     stac.Version,
		Id:          "AMAZONIA1-WFI",
		Title:       "Amazonia-1 WFI",
		Description: "Amazonia-1 Wide Field Imager (WFI) Level 4 imagery, converted from INPE scene metadata.",
		Keywords:    []string{"amazonia", "inpe", "earth observation", "satellite"},
		License:     "CC-BY-SA-3.0",
		Providers: []*stac.Provider{
			{
				Name:  "Instituto Nacional de Pesquisas Espaciais, INPE",
				Roles: []string{"producer", "processor", "licensor"},
				Url:   "http://www.inpe.br/amazonia1",
			},
			{
				Name:  "Amazon Web Services",
				Roles: []string{"host"},
				Url:   "https://registry.opendata.aws/cbers/",
			},
		},
		Extent: &stac.Extent{
			Spatial: &stac.SpatialExtent{Bbox: [][]float64{{-180, -83, 180, 83}}},
			Temporal: &stac.TemporalExtent{
				Interval: [][]any{{"2021-02-28T00:00:00Z", nil}},
			},
		},
		Summaries: map[string]any{
			"platform":    []string{"amazonia-1"},
			"instruments": []string{"WFI"},
			"gsd":         []float64{64},
		},
		Links: []*stac.Link{},
	}
}

// UpdateExtent folds an item's bbox and datetime into the collection
// extent.
func UpdateExtent(col *stac.Collection, item *stac.Item) error {
	dt, ok := item.Datetime()
	if !ok {
		return fmt.Errorf("amazonia: item %s has no valid datetime to fold into the extent", item.Id)
	}
	if col.Extent == nil {
		col.Extent = &stac.Extent{}
	}
	col.Extent.Update(item.Bbox, dt)
	return nil
}
