package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/internal/logging"
)

// Device errors.
var (
	// ErrNilHALDevice is returned when constructing a Device without a HAL device.
	ErrNilHALDevice = errors.New("wgpu: nil HAL device")

	// ErrUnknownShaderModule is returned when a pipeline references a module
	// ID this device never issued or already destroyed.
	ErrUnknownShaderModule = errors.New("wgpu: unknown shader module")
)

// Options configures a Device.
type Options struct {
	// ColorFormat is the render target format. Zero defaults to
	// BGRA8Unorm, the common surface format.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the depth/stencil attachment format. Zero builds
	// pipelines without a depth/stencil state.
	DepthFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count. Zero defaults to 1.
	SampleCount uint32

	// PrecompileSPIRV lowers WGSL to SPIR-V through naga before module
	// creation instead of handing WGSL text to the HAL. Some HAL backends
	// only accept SPIR-V.
	PrecompileSPIRV bool
}

type pipelineEntry struct {
	pipeline hal.RenderPipeline
	layout   hal.PipelineLayout
}

// Device adapts a hal.Device to the dynpipe.Device interface.
//
// Draw data (the emulated push-constant block) binds at group 0, binding 0;
// the texture atlas and its sampler bind at group 1, bindings 0 and 1.
// Specs that place uniform sources elsewhere are not supported.
type Device struct {
	mu   sync.Mutex
	hal  hal.Device
	opts Options

	drawDataLayout hal.BindGroupLayout
	atlasLayout    hal.BindGroupLayout

	shaders   map[dynpipe.ShaderModuleID]hal.ShaderModule
	pipelines map[dynpipe.PipelineID]pipelineEntry

	nextShaderID   uint64
	nextPipelineID uint64

	topologyWarned map[insn.DrawMode]bool
	lineWidthOnce  sync.Once
}

// New wraps device. The bind group layouts shared by all pipelines are
// created up front so a layout failure surfaces before any draw work.
func New(device hal.Device, opts Options) (*Device, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	if opts.ColorFormat == 0 {
		opts.ColorFormat = gputypes.TextureFormatBGRA8Unorm
	}
	if opts.SampleCount == 0 {
		opts.SampleCount = 1
	}

	d := &Device{
		hal:            device,
		opts:           opts,
		shaders:        make(map[dynpipe.ShaderModuleID]hal.ShaderModule),
		pipelines:      make(map[dynpipe.PipelineID]pipelineEntry),
		topologyWarned: make(map[insn.DrawMode]bool),
	}

	drawDataLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glbridge_drawdata_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create draw data layout: %w", err)
	}
	d.drawDataLayout = drawDataLayout

	atlasLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glbridge_atlas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		device.DestroyBindGroupLayout(drawDataLayout)
		return nil, fmt.Errorf("wgpu: create atlas layout: %w", err)
	}
	d.atlasLayout = atlasLayout

	return d, nil
}

// CreateShaderModule compiles WGSL into a HAL shader module.
func (d *Device) CreateShaderModule(desc *dynpipe.ShaderModuleDescriptor) (dynpipe.ShaderModuleID, error) {
	source, err := d.shaderSource(desc.Source)
	if err != nil {
		return dynpipe.InvalidID, fmt.Errorf("wgpu: compile %s shader %q: %w", desc.Stage, desc.Label, err)
	}

	module, err := d.hal.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: source,
	})
	if err != nil {
		return dynpipe.InvalidID, fmt.Errorf("wgpu: create %s shader module %q: %w", desc.Stage, desc.Label, err)
	}

	id := dynpipe.ShaderModuleID(atomic.AddUint64(&d.nextShaderID, 1))
	d.mu.Lock()
	d.shaders[id] = module
	d.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases the module. Pipelines already built from it
// remain valid; WebGPU pipelines do not reference their source modules.
func (d *Device) DestroyShaderModule(id dynpipe.ShaderModuleID) {
	d.mu.Lock()
	module, ok := d.shaders[id]
	delete(d.shaders, id)
	d.mu.Unlock()
	if ok {
		d.hal.DestroyShaderModule(module)
	}
}

// CreateRenderPipeline builds a render pipeline for the descriptor's spec.
func (d *Device) CreateRenderPipeline(desc *dynpipe.RenderPipelineDescriptor) (dynpipe.PipelineID, error) {
	d.mu.Lock()
	vertexModule, vok := d.shaders[desc.VertexShader]
	fragmentModule, fok := d.shaders[desc.FragmentShader]
	d.mu.Unlock()
	if !vok || !fok {
		return dynpipe.InvalidID, fmt.Errorf("%w: pipeline %q", ErrUnknownShaderModule, desc.Label)
	}

	spec := desc.Spec
	buffers, err := vertexBuffers(&spec.Layout)
	if err != nil {
		return dynpipe.InvalidID, fmt.Errorf("wgpu: pipeline %q: %w", desc.Label, err)
	}

	layout, err := d.hal.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: d.bindGroupLayoutsFor(spec),
	})
	if err != nil {
		return dynpipe.InvalidID, fmt.Errorf("wgpu: create pipeline layout %q: %w", desc.Label, err)
	}

	topology := d.topologyFor(spec.Mode)
	d.warnLineWidth(spec.Raster)

	pipeline, err := d.hal.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vertexModule,
			EntryPoint: dynpipe.VertexEntryPoint,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     fragmentModule,
			EntryPoint: dynpipe.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.opts.ColorFormat,
					Blend:     blendFor(spec.Raster.Blend),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: depthStateFor(d.opts.DepthFormat),
		Primitive: gputypes.PrimitiveState{
			Topology:  topology,
			FrontFace: frontFaceFor(spec.Raster.FrontFace),
			CullMode:  cullModeFor(spec.Raster.Cull),
		},
		Multisample: gputypes.MultisampleState{
			Count: d.opts.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		d.hal.DestroyPipelineLayout(layout)
		return dynpipe.InvalidID, fmt.Errorf("wgpu: create render pipeline %q: %w", desc.Label, err)
	}

	id := dynpipe.PipelineID(atomic.AddUint64(&d.nextPipelineID, 1))
	d.mu.Lock()
	d.pipelines[id] = pipelineEntry{pipeline: pipeline, layout: layout}
	d.mu.Unlock()
	return id, nil
}

// DestroyRenderPipeline releases the pipeline and its layout.
func (d *Device) DestroyRenderPipeline(id dynpipe.PipelineID) {
	d.mu.Lock()
	entry, ok := d.pipelines[id]
	delete(d.pipelines, id)
	d.mu.Unlock()
	if ok {
		d.hal.DestroyRenderPipeline(entry.pipeline)
		d.hal.DestroyPipelineLayout(entry.layout)
	}
}

// Close destroys every resource the device still tracks. Pipelines go
// first, then the layouts and modules they were built from.
func (d *Device) Close() {
	d.mu.Lock()
	pipelines := d.pipelines
	shaders := d.shaders
	d.pipelines = make(map[dynpipe.PipelineID]pipelineEntry)
	d.shaders = make(map[dynpipe.ShaderModuleID]hal.ShaderModule)
	d.mu.Unlock()

	for _, entry := range pipelines {
		d.hal.DestroyRenderPipeline(entry.pipeline)
		d.hal.DestroyPipelineLayout(entry.layout)
	}
	for _, module := range shaders {
		d.hal.DestroyShaderModule(module)
	}
	if d.atlasLayout != nil {
		d.hal.DestroyBindGroupLayout(d.atlasLayout)
		d.atlasLayout = nil
	}
	if d.drawDataLayout != nil {
		d.hal.DestroyBindGroupLayout(d.drawDataLayout)
		d.drawDataLayout = nil
	}
}

// bindGroupLayoutsFor returns the group layout list for a spec. Group
// indices are positional, so the draw data layout is always present even
// for specs that only sample the atlas.
func (d *Device) bindGroupLayoutsFor(spec dynpipe.PipelineSpec) []hal.BindGroupLayout {
	if spec.Color.Kind == dynpipe.ColorTexture {
		return []hal.BindGroupLayout{d.drawDataLayout, d.atlasLayout}
	}
	return []hal.BindGroupLayout{d.drawDataLayout}
}

// topologyFor maps a draw mode to a WebGPU topology, warning once per
// mode when the mapping is approximate.
func (d *Device) topologyFor(mode insn.DrawMode) gputypes.PrimitiveTopology {
	topology, exact := primitiveTopology(mode)
	if exact {
		return topology
	}
	d.mu.Lock()
	warned := d.topologyWarned[mode]
	d.topologyWarned[mode] = true
	d.mu.Unlock()
	if !warned {
		logging.Logger().Warn("primitive topology not supported, approximating",
			slog.String("mode", mode.String()),
			slog.Uint64("using", uint64(topology)))
	}
	return topology
}

func (d *Device) warnLineWidth(raster dynpipe.Rasterization) {
	if raster.LineWidthTenths == 10 {
		return
	}
	d.lineWidthOnce.Do(func() {
		logging.Logger().Warn("line width not supported, drawing 1px lines",
			slog.Uint64("tenths", uint64(raster.LineWidthTenths)))
	})
}
