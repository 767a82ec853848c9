package stac

import "encoding/json"

// decodeForeign returns the members of data whose keys are not listed
// in known. Values that fail to decode are skipped.
func decodeForeign(data []byte, known map[string]bool) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	extra := make(map[string]any)
	for key, val := range raw {
		if known[key] {
			continue
		}
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			continue
		}
		extra[key] = decoded
	}
	return extra, nil
}

// encodeForeign merges extra members into an already-marshaled JSON
// object. Foreign members win over standard fields with the same key.
func encodeForeign(data []byte, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	for key, val := range extra {
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		obj[key] = encoded
	}

	return json.Marshal(obj)
}
