package rescache

// Key is the 64-bit identity of a resource request: logical path plus every
// variant parameter that changes the derived artifact. Identical inputs in
// identical order always produce the same Key, which is what makes it
// usable as a map key across the cache strategies.
type Key uint64

// FNV-1a, 64 bit. Seeded fold over path bytes, then variant flags, then
// each define pair in call order. A non-cryptographic hash is fine here;
// keys never cross a trust boundary.
const (
	keySeed  Key = 14695981039346656037
	keyPrime Key = 1099511628211
)

func (k Key) fold(b []byte) Key {
	for _, c := range b {
		k ^= Key(c)
		k *= keyPrime
	}
	return k
}

func (k Key) foldByte(b byte) Key {
	k ^= Key(b)
	k *= keyPrime
	return k
}

func (k Key) foldBool(v bool) Key {
	if v {
		return k.foldByte(1)
	}
	return k.foldByte(0)
}

// foldString folds the string followed by a NUL terminator so that adjacent
// fields cannot alias each other ("ab"+"c" vs "a"+"bc").
func (k Key) foldString(s string) Key {
	k = k.fold([]byte(s))
	return k.foldByte(0)
}

// TextureKey derives the cache key for a texture request. The color-space
// and mip-generation flags are part of the identity: the same file loaded
// as sRGB and as linear are distinct cache entries.
func TextureKey(logicalPath string, srgb, generateMips bool) Key {
	k := keySeed.foldString(logicalPath)
	k = k.foldBool(srgb)
	k = k.foldBool(generateMips)
	return k
}

// ShaderKey derives the cache key for a shader request. The target profile
// and the ordered preprocessor defines are part of the identity. Order
// sensitivity is deliberate: two requests differing only in define order
// are distinct entries, matching what the preprocessor actually sees.
func ShaderKey(logicalPath string, stage ShaderStage, profile string, defines []ShaderDefine) Key {
	k := keySeed.foldString(logicalPath)
	k = k.foldByte(byte(stage))
	k = k.foldString(profile)
	for _, d := range defines {
		k = k.foldString(d.Name)
		k = k.foldString(d.Value)
	}
	return k
}
