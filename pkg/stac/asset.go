package stac

import "encoding/json"

// Common STAC asset media types.
const (
	MediaTypeCOG     = "image/tiff; application=geotiff; profile=cloud-optimized"
	MediaTypePNG     = "image/png"
	MediaTypeXML     = "application/xml"
	MediaTypeJSON    = "application/json"
	MediaTypeGeoJSON = "application/geo+json"
)

// Asset represents a STAC Asset with support for additional fields.
type Asset struct {
	Type        string   `json:"type,omitempty"`
	Href        string   `json:"href"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`

	// AdditionalFields holds foreign members from extensions (e.g., "eo:bands").
	AdditionalFields map[string]any `json:"-"`
}

var knownAssetFields = map[string]bool{
	"type": true, "href": true, "title": true, "description": true,
	"roles": true,
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (asset *Asset) UnmarshalJSON(data []byte) error {
	type assetAlias Asset
	var aux assetAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*asset = Asset(aux)

	extra, err := decodeForeign(data, knownAssetFields)
	if err != nil {
		return err
	}
	asset.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (asset Asset) MarshalJSON() ([]byte, error) {
	type assetAlias Asset
	data, err := json.Marshal(assetAlias(asset))
	if err != nil {
		return nil, err
	}
	return encodeForeign(data, asset.AdditionalFields)
}
