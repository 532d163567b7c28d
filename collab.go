package rescache

// External collaborator contracts. The core never touches a graphics API:
// it shapes inputs for these interfaces and caches their outputs.

// RawImage is the decoder's output: tightly packed pixels plus dimensions.
type RawImage struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// Decoder turns encoded image bytes (PNG, DDS, ...) into raw pixel data.
type Decoder interface {
	Decode(data []byte) (RawImage, error)
}

// TextureParams are the variant flags a texture was requested with.
type TextureParams struct {
	SRGB         bool
	GenerateMips bool
}

// TextureFactory constructs the device object for a decoded image.
type TextureFactory interface {
	CreateTexture(img RawImage, params TextureParams) (any, error)
}

// ShaderStage identifies the pipeline stage a shader compiles for.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StagePixel
	StageCompute
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	}
	return "unknown"
}

// ShaderDefine is one preprocessor define. Order matters for cache
// identity; see ShaderKey.
type ShaderDefine struct {
	Name  string
	Value string
}

// Compiler turns shader source into bytecode for a target profile.
type Compiler interface {
	Compile(source []byte, profile, entryPoint string, defines []ShaderDefine) ([]byte, error)
}

// ShaderFactory constructs the device object for compiled bytecode.
type ShaderFactory interface {
	CreateShader(bytecode []byte, stage ShaderStage) (any, error)
}

// Texture is a cached, GPU-backed texture resource.
type Texture struct {
	Path      string
	Width     int
	Height    int
	Params    TextureParams
	Device    any
	SizeBytes int64
}

// Shader is a cached, GPU-backed shader program.
type Shader struct {
	Path      string
	Stage     ShaderStage
	Profile   string
	Defines   []ShaderDefine
	Device    any
	SizeBytes int64
}
