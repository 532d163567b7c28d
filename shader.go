package rescache

import (
	"github.com/driftworks/rescache/vfs"
)

// ShaderManager loads shader source through the VFS, compiles it with the
// external Compiler against the profile configured for the requested stage,
// and caches the program per (path, stage, profile, ordered defines).
type ShaderManager struct {
	*loader[Shader]
	compiler Compiler
	factory  ShaderFactory
	profiles map[ShaderStage]string
	entry    string
}

// ShaderManagerOptions extends the shared pipeline options with the shader
// collaborators. Compiler and Factory are required.
type ShaderManagerOptions struct {
	Options[Shader]
	Compiler Compiler
	Factory  ShaderFactory

	// Profiles maps a stage to its target profile string. Missing stages
	// fall back to shader model 5.0 defaults.
	Profiles map[ShaderStage]string
	// EntryPoint defaults to "main".
	EntryPoint string
}

var defaultProfiles = map[ShaderStage]string{
	StageVertex:  "vs_5_0",
	StagePixel:   "ps_5_0",
	StageCompute: "cs_5_0",
}

// NewShaderManager validates options and builds a manager.
func NewShaderManager(opts ShaderManagerOptions) (*ShaderManager, *vfs.Error) {
	if opts.Compiler == nil {
		return nil, vfs.NewError(vfs.CodeCompile, "compiler is required")
	}
	if opts.Factory == nil {
		return nil, vfs.NewError(vfs.CodeCompile, "shader factory is required")
	}
	l, err := newLoader(opts.Options)
	if err != nil {
		return nil, err
	}
	m := &ShaderManager{
		loader:   l,
		compiler: opts.Compiler,
		factory:  opts.Factory,
		profiles: opts.Profiles,
		entry:    coalesce(opts.EntryPoint, "main"),
	}
	return m, nil
}

// Profile returns the target profile used for a stage.
func (m *ShaderManager) Profile(stage ShaderStage) string {
	if p, ok := m.profiles[stage]; ok {
		return p
	}
	return defaultProfiles[stage]
}

// LoadShader returns the cached program for the request, compiling on a
// miss. Define order is part of the identity: the same defines in another
// order are a distinct cache entry, matching what the preprocessor sees.
// Returns nil when the load fails; detail via LastError and the Logger.
func (m *ShaderManager) LoadShader(path string, stage ShaderStage, defines []ShaderDefine) *Shader {
	profile := m.Profile(stage)
	key := ShaderKey(path, stage, profile, defines)

	sh, _ := m.load(key, path, func(source []byte) (*Shader, int64, *vfs.Error) {
		bytecode, cerr := m.compiler.Compile(source, profile, m.entry, defines)
		if cerr != nil {
			return nil, 0, vfs.WrapAs(vfs.CodeCompile, cerr, path)
		}
		dev, ferr := m.factory.CreateShader(bytecode, stage)
		if ferr != nil {
			return nil, 0, vfs.WrapAs(vfs.CodeCompile, ferr, "create shader: "+path)
		}
		size := int64(len(bytecode))
		defs := make([]ShaderDefine, len(defines))
		copy(defs, defines)
		return &Shader{
			Path:      path,
			Stage:     stage,
			Profile:   profile,
			Defines:   defs,
			Device:    dev,
			SizeBytes: size,
		}, size, nil
	})
	return sh
}
