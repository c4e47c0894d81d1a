package connect

import (
	"encoding/json"
)

// Codec marshals messages with encoding/json. Registered under the "json"
// name it replaces Connect's protobuf JSON codec, so plain structs can be
// used as request and response types.
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
