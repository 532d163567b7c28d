package codec

import "encoding/json"

// JSONCodec serializes values with encoding/json. Used for human-editable
// inputs such as mount configuration files; prefer CBOR or Msgpack for
// binary asset bundles.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSONCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
