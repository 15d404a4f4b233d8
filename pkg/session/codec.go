package session

import (
	"encoding/json"
	"fmt"
)

// dataVersion is the current attribute envelope version. Bump it when
// the attrs encoding changes shape; DecodeData rejects versions it does
// not know instead of guessing.
const dataVersion = 1

type dataEnvelope struct {
	Version int            `json:"v"`
	Attrs   map[string]any `json:"attrs"`
}

// EncodeData serializes session attributes into the versioned storage
// envelope.
func EncodeData(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	payload, err := json.Marshal(dataEnvelope{Version: dataVersion, Attrs: attrs})
	if err != nil {
		return nil, fmt.Errorf("encode session data: %w", err)
	}
	return payload, nil
}

// DecodeData parses a stored attribute payload. Empty payloads decode to
// an empty attribute map.
func DecodeData(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return map[string]any{}, nil
	}

	var env dataEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	if env.Version != dataVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDataVersion, env.Version)
	}
	if env.Attrs == nil {
		env.Attrs = map[string]any{}
	}
	return env.Attrs, nil
}
