package amazonia

import "fmt"

// sceneConstants holds the per-platform values that do not appear in
// the scene metadata itself.
type sceneConstants struct {
	// Platform is the lowercase STAC "platform" property value.
	Platform string
	// Designator is the COSPAR international designator.
	Designator string
	// GSD is the nominal ground sample distance in meters.
	GSD float64
}

// sceneTable enumerates the supported satellite/instrument pairs. The
// INPE metadata format is shared across the Amazonia and CBERS series,
// so the CBERS entries come along for free.
var sceneTable = map[string]sceneConstants{
	"AMAZONIA1/WFI": {Platform: "amazonia-1", Designator: "2021-015A", GSD: 64},
	"CBERS4/MUX":    {Platform: "cbers-4", Designator: "2014-079A", GSD: 20},
	"CBERS4/AWFI":   {Platform: "cbers-4", Designator: "2014-079A", GSD: 64},
	"CBERS4/PAN5M":  {Platform: "cbers-4", Designator: "2014-079A", GSD: 5},
	"CBERS4/PAN10M": {Platform: "cbers-4", Designator: "2014-079A", GSD: 10},
	"CBERS4A/MUX":   {Platform: "cbers-4a", Designator: "2019-093E", GSD: 16.5},
	"CBERS4A/WFI":   {Platform: "cbers-4a", Designator: "2019-093E", GSD: 55},
	"CBERS4A/WPM":   {Platform: "cbers-4a", Designator: "2019-093E", GSD: 2},
}

// lookupConstants resolves the constants for a parsed scene. The lookup
// key mirrors the satellite directory layout, e.g. "AMAZONIA1/WFI".
func lookupConstants(mission, number, instrument string) (sceneConstants, error) {
	key := fmt.Sprintf("%s%s/%s", mission, number, instrument)
	constants, ok := sceneTable[key]
	if !ok {
		return sceneConstants{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, key)
	}
	return constants, nil
}

// collectionName builds the collection id for a satellite/camera pair,
// e.g. "AMAZONIA1-WFI".
func collectionName(mission, number, instrument string) string {
	if number == "" {
		return fmt.Sprintf("%s-%s", mission, instrument)
	}
	return fmt.Sprintf("%s%s-%s", mission, number, instrument)
}
