package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
)

// vertexBuffers converts a packed vertex layout into the single interleaved
// buffer layout all glbridge pipelines use. Attribute shader locations
// follow the layout's own location assignment.
func vertexBuffers(layout *dynpipe.VertexLayout) ([]gputypes.VertexBufferLayout, error) {
	locs := layout.InputLocations()
	var attrs []gputypes.VertexAttribute
	for input := dynpipe.VertexInput(0); input < dynpipe.NumVertexInputs; input++ {
		field, ok := layout.Field(input)
		if !ok {
			continue
		}
		format, err := vertexFormat(input, field)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(field.Offset),
			ShaderLocation: uint32(locs[input]),
		})
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: uint64(layout.Stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		},
	}, nil
}

// vertexFormat picks the WebGPU vertex format for a packed field. The
// texture index is a u16 followed by two alignment bytes; reading it as
// Uint16x2 keeps the attribute naturally aligned, and the shader uses
// only the x component.
func vertexFormat(input dynpipe.VertexInput, field dynpipe.VertexField) (gputypes.VertexFormat, error) {
	if input == dynpipe.InputTexIndex {
		if field.Type != insn.U16 || field.ElemCount != 1 {
			return 0, fmt.Errorf("unexpected %s field %v x%d", input, field.Type, field.ElemCount)
		}
		return gputypes.VertexFormatUint16x2, nil
	}
	if field.Type != insn.F32 {
		return 0, fmt.Errorf("unexpected %s field type %v", input, field.Type)
	}
	switch field.ElemCount {
	case 1:
		return gputypes.VertexFormatFloat32, nil
	case 2:
		return gputypes.VertexFormatFloat32x2, nil
	case 3:
		return gputypes.VertexFormatFloat32x3, nil
	case 4:
		return gputypes.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("unexpected %s element count %d", input, field.ElemCount)
}

// primitiveTopology maps a legacy draw mode to a WebGPU topology. The
// second result reports whether the mapping is exact; approximations
// (fans, loops, adjacency) render with the nearest topology and rely on
// the caller to re-index if exact semantics matter.
func primitiveTopology(mode insn.DrawMode) (gputypes.PrimitiveTopology, bool) {
	switch mode {
	case insn.Points:
		return gputypes.PrimitiveTopologyPointList, true
	case insn.Lines:
		return gputypes.PrimitiveTopologyLineList, true
	case insn.LineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case insn.LineLoop:
		// Drops the closing segment.
		return gputypes.PrimitiveTopologyLineStrip, false
	case insn.Triangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	case insn.TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	case insn.TriangleFan:
		return gputypes.PrimitiveTopologyTriangleList, false
	case insn.LinesAdjacency:
		return gputypes.PrimitiveTopologyLineList, false
	case insn.LineStripAdjacency:
		return gputypes.PrimitiveTopologyLineStrip, false
	case insn.TrianglesAdjacency:
		return gputypes.PrimitiveTopologyTriangleList, false
	case insn.TriangleStripAdjacency:
		return gputypes.PrimitiveTopologyTriangleStrip, false
	}
	return gputypes.PrimitiveTopologyTriangleList, false
}

func cullModeFor(cull dynpipe.CullMode) gputypes.CullMode {
	switch cull {
	case dynpipe.CullFront:
		return gputypes.CullModeFront
	case dynpipe.CullBack:
		return gputypes.CullModeBack
	}
	return gputypes.CullModeNone
}

func frontFaceFor(face dynpipe.FrontFace) gputypes.FrontFace {
	if face == dynpipe.FrontCW {
		return gputypes.FrontFaceCW
	}
	return gputypes.FrontFaceCCW
}

// blendFor returns the blend state for a mode, nil for unblended writes.
func blendFor(mode dynpipe.BlendMode) *gputypes.BlendState {
	if mode != dynpipe.BlendAlpha {
		return nil
	}
	blend := gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
	return &blend
}

// depthStateFor builds the fixed depth/stencil state: depth test on with
// less-than compare, stencil passthrough. A zero format disables the
// attachment entirely.
func depthStateFor(format gputypes.TextureFormat) *hal.DepthStencilState {
	if format == 0 {
		return nil
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}
