package dynpipe

// Opaque GPU resource identifiers. IDs are allocated by the Device
// implementation; 0 is never a valid ID.
type (
	// ShaderModuleID identifies a compiled shader module.
	ShaderModuleID uint64
	// PipelineID identifies a compiled render pipeline.
	PipelineID uint64
)

// InvalidID is the zero value for all ID types, never a valid resource.
const InvalidID = 0

// ShaderStage marks which pipeline stage a shader module feeds.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "unknown"
}

// ShaderModuleDescriptor describes a shader module to compile. Source is
// WGSL text; translation to the device's native form (SPIR-V, MSL, ...) is
// the Device implementation's concern.
type ShaderModuleDescriptor struct {
	Label  string
	Stage  ShaderStage
	Source string
}

// RenderPipelineDescriptor carries everything a Device needs to build a
// render pipeline for a spec: the compiled shader modules plus the spec
// itself, from which the implementation derives vertex attribute formats,
// topology, rasterization state and binding layouts.
type RenderPipelineDescriptor struct {
	Label          string
	VertexShader   ShaderModuleID
	FragmentShader ShaderModuleID
	Spec           PipelineSpec
}

// Device is the narrow GPU interface the compiler drives. Implementations
// must be safe for use from a single goroutine at a time; the compiler
// serializes calls under its own lock.
type Device interface {
	// CreateShaderModule compiles a shader module and returns its ID.
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModuleID, error)
	// DestroyShaderModule releases a module. Destroying a module referenced
	// by a live pipeline is allowed; the pipeline stays valid.
	DestroyShaderModule(id ShaderModuleID)
	// CreateRenderPipeline builds a render pipeline and returns its ID.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (PipelineID, error)
	// DestroyRenderPipeline releases a pipeline.
	DestroyRenderPipeline(id PipelineID)
}
