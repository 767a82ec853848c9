package stac

import "time"

// Extent represents the spatial and temporal extent of a STAC Collection.
type Extent struct {
	Spatial  *SpatialExtent  `json:"spatial,omitempty"`
	Temporal *TemporalExtent `json:"temporal,omitempty"`
}

// SpatialExtent represents the spatial extent of a STAC Collection.
type SpatialExtent struct {
	Bbox [][]float64 `json:"bbox"`
}

// TemporalExtent represents the temporal extent of a STAC Collection.
// Interval entries hold RFC 3339 strings or null for open bounds.
type TemporalExtent struct {
	Interval [][]any `json:"interval"`
}

// Update grows the extent so that its first spatial bbox covers bbox
// and its first temporal interval covers dt. Empty extents are seeded
// from the arguments.
func (e *Extent) Update(bbox []float64, dt time.Time) {
	if len(bbox) >= 4 {
		if e.Spatial == nil {
			e.Spatial = &SpatialExtent{}
		}
		if len(e.Spatial.Bbox) == 0 {
			e.Spatial.Bbox = [][]float64{append([]float64{}, bbox[:4]...)}
		} else {
			e.Spatial.Bbox[0] = UnionBbox(e.Spatial.Bbox[0], bbox)
		}
	}

	if dt.IsZero() {
		return
	}
	stamp := dt.UTC().Format(time.RFC3339)
	if e.Temporal == nil {
		e.Temporal = &TemporalExtent{}
	}
	if len(e.Temporal.Interval) == 0 {
		e.Temporal.Interval = [][]any{{stamp, stamp}}
		return
	}
	interval := e.Temporal.Interval[0]
	for len(interval) < 2 {
		interval = append(interval, nil)
	}
	if start, ok := interval[0].(string); !ok || stamp < start {
		interval[0] = stamp
	}
	// A nil end keeps the interval open; never close it.
	if end, ok := interval[1].(string); ok && stamp > end {
		interval[1] = stamp
	}
	e.Temporal.Interval[0] = interval
}

// UnionBbox returns the smallest 2D bbox covering both arguments.
func UnionBbox(a, b []float64) []float64 {
	if len(a) < 4 {
		return append([]float64{}, b[:4]...)
	}
	if len(b) < 4 {
		return append([]float64{}, a[:4]...)
	}
	out := []float64{a[0], a[1], a[2], a[3]}
	if b[0] < out[0] {
		out[0] = b[0]
	}
	if b[1] < out[1] {
		out[1] = b[1]
	}
	if b[2] > out[2] {
		out[2] = b[2]
	}
	if b[3] > out[3] {
		out[3] = b[3]
	}
	return out
}
