package dynpipe

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/glbridge/internal/logging"
)

// Default shader-module cache capacities. Pipelines are not LRU-bounded;
// they are reference counted and reclaimed by Sweep.
const (
	DefaultVertexShaderCacheSize   = 64
	DefaultFragmentShaderCacheSize = 64
)

// ErrNilDevice is returned by NewCompiler when no device is supplied.
var ErrNilDevice = errors.New("dynpipe: nil device")

// CompilerOptions configures cache sizing. Zero values select defaults.
type CompilerOptions struct {
	VertexShaderCacheSize   int
	FragmentShaderCacheSize int
}

// CompiledPipeline is a reference-counted handle to a cached pipeline.
// Handles returned by Compile hold one reference; callers release it with
// Compiler.Release when the draw stream no longer needs the pipeline.
// The underlying GPU object is destroyed only by Sweep once no references
// remain.
type CompiledPipeline struct {
	Spec     PipelineSpec
	Pipeline PipelineID

	refs int32 // guarded by the owning compiler's mutex
}

// Stats is a snapshot of cache traffic counters.
type Stats struct {
	PipelineHits      uint64
	PipelineMisses    uint64
	ShaderHits        uint64
	ShaderMisses      uint64
	PipelinesSwept    uint64
	PipelinesResident int
}

// Compiler compiles and caches dynamic pipelines. It is the one shared
// resource across recording contexts: all cache mutation happens under a
// single coarse lock, which also covers the device calls. A second context
// compiling an identical spec therefore waits rather than duplicating work.
type Compiler struct {
	mu     sync.Mutex
	device Device

	pipelines       map[PipelineSpec]*CompiledPipeline
	vertexShaders   *lru.Cache[ShaderSpec, ShaderModuleID]
	fragmentShaders *lru.Cache[ShaderSpec, ShaderModuleID]

	pipelineHits   atomic.Uint64
	pipelineMisses atomic.Uint64
	shaderHits     atomic.Uint64
	shaderMisses   atomic.Uint64
	swept          atomic.Uint64
}

// NewCompiler creates a compiler driving the given device.
func NewCompiler(device Device, opts CompilerOptions) (*Compiler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	vsSize := opts.VertexShaderCacheSize
	if vsSize <= 0 {
		vsSize = DefaultVertexShaderCacheSize
	}
	fsSize := opts.FragmentShaderCacheSize
	if fsSize <= 0 {
		fsSize = DefaultFragmentShaderCacheSize
	}

	c := &Compiler{
		device:    device,
		pipelines: make(map[PipelineSpec]*CompiledPipeline),
	}

	// Evicted modules are destroyed immediately. Pipelines built from them
	// remain valid; the module is only needed at pipeline build time.
	var err error
	c.vertexShaders, err = lru.NewWithEvict(vsSize, func(_ ShaderSpec, id ShaderModuleID) {
		device.DestroyShaderModule(id)
	})
	if err != nil {
		return nil, fmt.Errorf("dynpipe: vertex shader cache: %w", err)
	}
	c.fragmentShaders, err = lru.NewWithEvict(fsSize, func(_ ShaderSpec, id ShaderModuleID) {
		device.DestroyShaderModule(id)
	})
	if err != nil {
		return nil, fmt.Errorf("dynpipe: fragment shader cache: %w", err)
	}
	return c, nil
}

// Compile returns the pipeline for spec, building it on a cache miss.
// The returned handle holds one reference; pair every Compile with a
// Release. Compile never returns a partially built pipeline: on any device
// error the cache is left unchanged and the error is returned.
func (c *Compiler) Compile(spec PipelineSpec) (*CompiledPipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[spec]; ok {
		c.pipelineHits.Add(1)
		p.refs++
		return p, nil
	}
	c.pipelineMisses.Add(1)

	shader := spec.Shader()
	vs, err := c.shaderModule(c.vertexShaders, shader, StageVertex)
	if err != nil {
		return nil, err
	}
	fs, err := c.shaderModule(c.fragmentShaders, shader, StageFragment)
	if err != nil {
		return nil, err
	}

	id, err := c.device.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:          fmt.Sprintf("dynpipe-%016x", spec.Hash()),
		VertexShader:   vs,
		FragmentShader: fs,
		Spec:           spec,
	})
	if err != nil {
		return nil, fmt.Errorf("dynpipe: pipeline build: %w", err)
	}

	p := &CompiledPipeline{Spec: spec, Pipeline: id, refs: 1}
	c.pipelines[spec] = p
	logging.Logger().Debug("compiled dynamic pipeline",
		slog.String("label", fmt.Sprintf("%016x", spec.Hash())),
		slog.Int("resident", len(c.pipelines)))
	return p, nil
}

// shaderModule fetches or compiles the module for one stage. Caller holds
// the compiler lock.
func (c *Compiler) shaderModule(cache *lru.Cache[ShaderSpec, ShaderModuleID], shader ShaderSpec, stage ShaderStage) (ShaderModuleID, error) {
	if id, ok := cache.Get(shader); ok {
		c.shaderHits.Add(1)
		return id, nil
	}
	c.shaderMisses.Add(1)

	var source string
	if stage == StageVertex {
		source = VertexWGSL(shader)
	} else {
		source = FragmentWGSL(shader)
	}
	id, err := c.device.CreateShaderModule(&ShaderModuleDescriptor{
		Label:  fmt.Sprintf("dynshader-%s-%016x", stage, shader.Hash()),
		Stage:  stage,
		Source: source,
	})
	if err != nil {
		return InvalidID, fmt.Errorf("dynpipe: %s shader compile: %w", stage, err)
	}
	cache.Add(shader, id)
	return id, nil
}

// Release drops one reference to a compiled pipeline. The pipeline stays
// cached until a later Sweep finds it unreferenced.
func (c *Compiler) Release(p *CompiledPipeline) {
	if p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.refs > 0 {
		p.refs--
	}
}

// Sweep destroys every cached pipeline with no outstanding references and
// returns how many were reclaimed. Call it between frames, after the
// command stream consuming the previous frame's handles has been retired.
func (c *Compiler) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for spec, p := range c.pipelines {
		if p.refs > 0 {
			continue
		}
		c.device.DestroyRenderPipeline(p.Pipeline)
		delete(c.pipelines, spec)
		n++
	}
	if n > 0 {
		c.swept.Add(uint64(n))
		logging.Logger().Debug("swept unreferenced pipelines",
			slog.Int("reclaimed", n),
			slog.Int("resident", len(c.pipelines)))
	}
	return n
}

// Close releases every cached pipeline and shader module regardless of
// reference counts. The compiler must not be used afterwards.
func (c *Compiler) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for spec, p := range c.pipelines {
		c.device.DestroyRenderPipeline(p.Pipeline)
		delete(c.pipelines, spec)
	}
	// Purge triggers the eviction callbacks, destroying the modules.
	c.vertexShaders.Purge()
	c.fragmentShaders.Purge()
}

// Stats returns a snapshot of cache counters.
func (c *Compiler) Stats() Stats {
	c.mu.Lock()
	resident := len(c.pipelines)
	c.mu.Unlock()
	return Stats{
		PipelineHits:      c.pipelineHits.Load(),
		PipelineMisses:    c.pipelineMisses.Load(),
		ShaderHits:        c.shaderHits.Load(),
		ShaderMisses:      c.shaderMisses.Load(),
		PipelinesSwept:    c.swept.Load(),
		PipelinesResident: resident,
	}
}
