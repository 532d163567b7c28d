package rescache

import (
	"github.com/driftworks/rescache/vfs"
)

// TextureManager loads textures through the VFS, decodes them with the
// external Decoder, constructs device objects with the TextureFactory, and
// caches the result per (path, color space, mip generation).
type TextureManager struct {
	*loader[Texture]
	decoder Decoder
	factory TextureFactory
}

// TextureManagerOptions extends the shared pipeline options with the
// texture collaborators. Decoder and Factory are required.
type TextureManagerOptions struct {
	Options[Texture]
	Decoder Decoder
	Factory TextureFactory
}

// NewTextureManager validates options and builds a manager.
func NewTextureManager(opts TextureManagerOptions) (*TextureManager, *vfs.Error) {
	if opts.Decoder == nil {
		return nil, vfs.NewError(vfs.CodeDecode, "decoder is required")
	}
	if opts.Factory == nil {
		return nil, vfs.NewError(vfs.CodeDecode, "texture factory is required")
	}
	l, err := newLoader(opts.Options)
	if err != nil {
		return nil, err
	}
	return &TextureManager{loader: l, decoder: opts.Decoder, factory: opts.Factory}, nil
}

// LoadTexture returns the cached texture for the request, loading and
// decoding on a miss. It returns nil when the load fails; the detail is
// available via LastError and the Logger.
func (m *TextureManager) LoadTexture(path string, srgb, generateMips bool) *Texture {
	key := TextureKey(path, srgb, generateMips)
	params := TextureParams{SRGB: srgb, GenerateMips: generateMips}

	tex, _ := m.load(key, path, func(data []byte) (*Texture, int64, *vfs.Error) {
		img, derr := m.decoder.Decode(data)
		if derr != nil {
			return nil, 0, vfs.WrapAs(vfs.CodeDecode, derr, path)
		}
		dev, cerr := m.factory.CreateTexture(img, params)
		if cerr != nil {
			return nil, 0, vfs.WrapAs(vfs.CodeDecode, cerr, "create texture: "+path)
		}
		size := textureSize(img, generateMips)
		return &Texture{
			Path:      path,
			Width:     img.Width,
			Height:    img.Height,
			Params:    params,
			Device:    dev,
			SizeBytes: size,
		}, size, nil
	})
	return tex
}

// textureSize estimates the GPU footprint. A full mip chain costs about a
// third extra on top of the base level.
func textureSize(img RawImage, mips bool) int64 {
	base := int64(len(img.Pixels))
	if base == 0 {
		base = int64(img.Width) * int64(img.Height) * int64(max(img.Channels, 1))
	}
	if mips {
		return base + base/3
	}
	return base
}
