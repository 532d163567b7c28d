// Package codec provides pluggable (de)serialization for structured VFS
// data: asset bundles loaded into a MemoryBackend and mount configuration
// files. Codecs compose; wrap a structured codec in Zstd for compressed
// bundles or in Limit to cap untrusted input sizes.
package codec

// Codec encodes and decodes values of type V to and from bytes.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
