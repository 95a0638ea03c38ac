package dynpipe

import (
	"fmt"
	"strings"
)

// Shader source is synthesized from the ShaderSpec by plain string building.
// Generation is deterministic: equal specs yield byte-identical source, which
// is what makes the LRU shader caches and code-hash based pipeline labels
// sound. Vertex shader input locations are assigned sequentially over the
// present layout fields in canonical packing order; the backend walks the
// layout the same way when building vertex attribute descriptors.

// VertexEntryPoint and FragmentEntryPoint are the entry point names used by
// all generated shaders.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// packingOrder is the canonical field order shared with the vertex packer.
var packingOrder = [NumVertexInputs]VertexInput{
	InputPosition, InputNormal, InputColor, InputTexCoord, InputTexIndex,
}

// InputLocations returns the shader location assigned to each present field,
// walking fields in canonical order. Absent fields map to -1.
func (l *VertexLayout) InputLocations() [NumVertexInputs]int {
	var locs [NumVertexInputs]int
	next := 0
	for _, input := range packingOrder {
		if l.Fields[input].Present {
			locs[input] = next
			next++
		} else {
			locs[input] = -1
		}
	}
	return locs
}

// wgslScalar returns the WGSL scalar type a packed field is read as. Packed
// numeric conversion leaves every field float32 except the u16 texture index.
func wgslScalar(input VertexInput) string {
	if input == InputTexIndex {
		return "u32"
	}
	return "f32"
}

// wgslVec returns the WGSL type for count components of scalar.
func wgslVec(count int, scalar string) string {
	if count == 1 {
		return scalar
	}
	return fmt.Sprintf("vec%d<%s>", count, scalar)
}

// shaderElemCount returns the component count a field occupies in shader
// input terms. The u16 texture index is read as a two-component u32 vector
// (the field plus its alignment padding); only .x carries data.
func shaderElemCount(input VertexInput, f VertexField) int {
	if input == InputTexIndex {
		return 2
	}
	return int(f.ElemCount)
}

// usesDrawData reports whether the spec needs the push-constant block and,
// if so, which members it carries.
func (s ShaderSpec) usesDrawData() (matrix, color bool) {
	matrix = s.Matrix.MVP.Kind == SourcePushConstant ||
		(s.Matrix.Kind == MatrixVPM && s.Matrix.Model.Kind == SourcePushConstant)
	color = s.Color.Kind == ColorFlat && s.Color.Source.Kind == SourcePushConstant
	return matrix, color
}

// writeDrawData emits the DrawData block shared by both stages. The member
// layout must be identical in the vertex and fragment modules since both
// alias the same push-constant backing store.
func writeDrawData(b *strings.Builder, s ShaderSpec) {
	matrix, color := s.usesDrawData()
	if !matrix && !color {
		return
	}
	b.WriteString("struct DrawData {\n")
	if s.Matrix.MVP.Kind == SourcePushConstant {
		if s.Matrix.Kind == MatrixVPM {
			b.WriteString("    view_proj: mat4x4<f32>,\n")
		} else {
			b.WriteString("    mvp: mat4x4<f32>,\n")
		}
	}
	if s.Matrix.Kind == MatrixVPM && s.Matrix.Model.Kind == SourcePushConstant {
		b.WriteString("    model: mat4x4<f32>,\n")
	}
	if color {
		b.WriteString("    color: vec4<f32>,\n")
	}
	b.WriteString("}\n\n")
	b.WriteString("@group(0) @binding(0) var<uniform> draw: DrawData;\n\n")
}

// writeVaryings emits the inter-stage interface struct. The same text is
// emitted into both modules so locations always line up.
func writeVaryings(b *strings.Builder, s ShaderSpec) {
	b.WriteString("struct Varyings {\n")
	b.WriteString("    @builtin(position) clip_position: vec4<f32>,\n")
	loc := 0
	if s.Color.Kind == ColorTexture {
		fmt.Fprintf(b, "    @location(%d) uv: vec2<f32>,\n", loc)
		loc++
		fmt.Fprintf(b, "    @location(%d) @interpolate(flat) layer: u32,\n", loc)
		loc++
	}
	if s.Color.Kind == ColorPerVertex {
		fmt.Fprintf(b, "    @location(%d) color: vec4<f32>,\n", loc)
		loc++
	}
	if s.Layout.Fields[InputNormal].Present {
		fmt.Fprintf(b, "    @location(%d) normal: vec3<f32>,\n", loc)
		loc++
	}
	b.WriteString("}\n\n")
}

// expandVec4 returns an expression widening expr (count components) to a
// vec4 with the given fill for missing components and w for the last.
func expandVec4(expr string, count int, fill, w string) string {
	switch count {
	case 1:
		return fmt.Sprintf("vec4<f32>(%s, %s, %s, %s)", expr, fill, fill, w)
	case 2:
		return fmt.Sprintf("vec4<f32>(%s, %s, %s)", expr, fill, w)
	case 3:
		return fmt.Sprintf("vec4<f32>(%s, %s)", expr, w)
	default:
		return expr
	}
}

// VertexWGSL generates the vertex shader for the spec. The layout must
// contain a position field; the assembler guarantees this before any spec
// reaches the compiler.
func VertexWGSL(s ShaderSpec) string {
	var b strings.Builder
	locs := s.Layout.InputLocations()

	writeDrawData(&b, s)
	if s.Matrix.MVP.Kind == SourceUniform {
		fmt.Fprintf(&b, "@group(%d) @binding(%d) var<uniform> mvp_matrix: mat4x4<f32>;\n\n",
			s.Matrix.MVP.Set, s.Matrix.MVP.Binding)
	}
	if s.Matrix.Kind == MatrixVPM && s.Matrix.Model.Kind == SourceUniform {
		fmt.Fprintf(&b, "@group(%d) @binding(%d) var<uniform> model_matrix: mat4x4<f32>;\n\n",
			s.Matrix.Model.Set, s.Matrix.Model.Binding)
	}

	b.WriteString("struct VertexIn {\n")
	for _, input := range packingOrder {
		f := s.Layout.Fields[input]
		if !f.Present {
			continue
		}
		typ := wgslVec(shaderElemCount(input, f), wgslScalar(input))
		fmt.Fprintf(&b, "    @location(%d) %s: %s,\n", locs[input], input, typ)
	}
	b.WriteString("}\n\n")

	writeVaryings(&b, s)

	b.WriteString("@vertex\n")
	b.WriteString("fn vs_main(in: VertexIn) -> Varyings {\n")
	b.WriteString("    var out: Varyings;\n")

	pos := expandVec4("in.position", int(s.Layout.Fields[InputPosition].ElemCount), "0.0", "1.0")
	var mvp string
	switch {
	case s.Matrix.Kind == MatrixVPM:
		vp, model := "draw.view_proj", "draw.model"
		if s.Matrix.MVP.Kind == SourceUniform {
			vp = "mvp_matrix"
		}
		if s.Matrix.Model.Kind == SourceUniform {
			model = "model_matrix"
		}
		mvp = fmt.Sprintf("%s * %s", vp, model)
	case s.Matrix.MVP.Kind == SourceUniform:
		mvp = "mvp_matrix"
	default:
		mvp = "draw.mvp"
	}
	fmt.Fprintf(&b, "    out.clip_position = %s * %s;\n", mvp, pos)

	if s.Color.Kind == ColorTexture {
		b.WriteString("    out.uv = in.texcoord;\n")
		b.WriteString("    out.layer = in.texindex.x;\n")
	}
	if s.Color.Kind == ColorPerVertex {
		colorExpr := expandVec4("in.color", int(s.Layout.Fields[InputColor].ElemCount), "0.0", "1.0")
		fmt.Fprintf(&b, "    out.color = %s;\n", colorExpr)
	}
	if s.Layout.Fields[InputNormal].Present {
		normal := s.Layout.Fields[InputNormal]
		switch normal.ElemCount {
		case 3:
			b.WriteString("    out.normal = in.normal;\n")
		default:
			expr := expandVec4("in.normal", int(normal.ElemCount), "0.0", "0.0")
			fmt.Fprintf(&b, "    out.normal = (%s).xyz;\n", expr)
		}
	}
	b.WriteString("    return out;\n")
	b.WriteString("}\n")
	return b.String()
}

// FragmentWGSL generates the fragment shader for the spec.
func FragmentWGSL(s ShaderSpec) string {
	var b strings.Builder

	writeDrawData(&b, s)
	if s.Color.Kind == ColorFlat && s.Color.Source.Kind == SourceUniform {
		fmt.Fprintf(&b, "@group(%d) @binding(%d) var<uniform> flat_color: vec4<f32>;\n\n",
			s.Color.Source.Set, s.Color.Source.Binding)
	}
	if s.Color.Kind == ColorTexture {
		fmt.Fprintf(&b, "@group(%d) @binding(%d) var atlas: texture_2d_array<f32>;\n",
			s.Color.Set, s.Color.Binding)
		fmt.Fprintf(&b, "@group(%d) @binding(%d) var atlas_sampler: sampler;\n\n",
			s.Color.Set, s.Color.Binding+1)
	}

	writeVaryings(&b, s)

	b.WriteString("@fragment\n")
	b.WriteString("fn fs_main(in: Varyings) -> @location(0) vec4<f32> {\n")
	switch s.Color.Kind {
	case ColorTexture:
		b.WriteString("    return textureSample(atlas, atlas_sampler, in.uv, i32(in.layer));\n")
	case ColorPerVertex:
		b.WriteString("    return in.color;\n")
	default:
		if s.Color.Source.Kind == SourceUniform {
			b.WriteString("    return flat_color;\n")
		} else {
			b.WriteString("    return draw.color;\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}
