// Package stac provides the construction-side model for SpatioTemporal
// Asset Catalog (STAC) documents emitted by this tool.
//
// The types implement Item, Collection, Asset and Link with support for
// "foreign members" - additional JSON fields not defined in the STAC
// specification. Foreign members survive JSON round-trips through the
// AdditionalFields map on each type.
//
// Example usage:
//
//	var item stac.Item
//	json.Unmarshal(data, &item)
//
//	// Access standard fields
//	fmt.Println(item.Id)
//
//	// Access foreign members
//	if val, ok := item.AdditionalFields["custom_field"]; ok {
//	    fmt.Println(val)
//	}
package stac
