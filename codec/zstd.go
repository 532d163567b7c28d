package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd wraps another codec with zstd compression. Encode compresses the
// inner encoding; Decode decompresses before handing off. Asset bundles on
// disk are typically CBOR inside Zstd.
//
// The zero value is NOT ready to use; construct with NewZstd.
type Zstd[V any] struct {
	inner Codec[V]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

var _ Codec[struct{}] = (*Zstd[struct{}])(nil)

// NewZstd wraps inner. The encoder and decoder are reused across calls and
// are safe for concurrent use per the zstd package contract.
func NewZstd[V any](inner Codec[V]) (*Zstd[V], error) {
	if inner == nil {
		return nil, fmt.Errorf("codec: zstd inner codec is required")
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Zstd[V]{inner: inner, enc: enc, dec: dec}, nil
}

func (c *Zstd[V]) Encode(v V) ([]byte, error) {
	raw, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

func (c *Zstd[V]) Decode(b []byte) (V, error) {
	raw, err := c.dec.DecodeAll(b, nil)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("codec: zstd decompress: %w", err)
	}
	return c.inner.Decode(raw)
}
