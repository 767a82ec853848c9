package stac

import (
	"encoding/json"
	"fmt"
)

// Provider identifies an organization credited on a Collection, e.g.
// the producing agency and the bucket host.
type Provider struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Url         string   `json:"url,omitempty"`
}

// Collection represents a STAC Collection with support for foreign members.
type Collection struct {
	Type        string            `json:"type,omitempty"`
	Version     string            `json:"stac_version"`
	Extensions  []string          `json:"stac_extensions,omitempty"`
	Id          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description"`
	Keywords    []string          `json:"keywords,omitempty"`
	License     string            `json:"license"`
	Providers   []*Provider       `json:"providers,omitempty"`
	Extent      *Extent           `json:"extent"`
	Summaries   map[string]any    `json:"summaries,omitempty"`
	Links       []*Link           `json:"links"`
	Assets      map[string]*Asset `json:"assets,omitempty"`

	// AdditionalFields holds foreign members not defined in the STAC spec.
	AdditionalFields map[string]any `json:"-"`
}

var knownCollectionFields = map[string]bool{
	"type": true, "stac_version": true, "stac_extensions": true,
	"id": true, "title": true, "description": true, "keywords": true,
	"license": true, "providers": true, "extent": true, "summaries": true,
	"links": true, "assets": true,
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (col *Collection) UnmarshalJSON(data []byte) error {
	type collectionAlias Collection
	var aux collectionAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*col = Collection(aux)

	extra, err := decodeForeign(data, knownCollectionFields)
	if err != nil {
		return err
	}
	col.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (col Collection) MarshalJSON() ([]byte, error) {
	type collectionAlias Collection
	data, err := json.Marshal(collectionAlias(col))
	if err != nil {
		return nil, err
	}
	return encodeForeign(data, col.AdditionalFields)
}

// Validate checks the structural invariants of an emitted Collection.
func (col *Collection) Validate() error {
	if col.Id == "" {
		return fmt.Errorf("stac: collection has no id")
	}
	if col.Version == "" {
		return fmt.Errorf("stac: collection %s has no stac_version", col.Id)
	}
	if col.Description == "" {
		return fmt.Errorf("stac: collection %s has no description", col.Id)
	}
	if col.License == "" {
		return fmt.Errorf("stac: collection %s has no license", col.Id)
	}
	if col.Extent == nil || col.Extent.Spatial == nil || len(col.Extent.Spatial.Bbox) == 0 {
		return fmt.Errorf("stac: collection %s has no spatial extent", col.Id)
	}
	if col.Extent.Temporal == nil || len(col.Extent.Temporal.Interval) == 0 {
		return fmt.Errorf("stac: collection %s has no temporal extent", col.Id)
	}
	return nil
}
