// Package dynpipe derives cacheable pipeline specifications from assembled
// draw state and compiles them into GPU pipeline objects on demand.
//
// The central type is PipelineSpec: a plain comparable value describing
// everything a draw needs from the GPU (vertex layout, color source, matrix
// supply, rasterization state). Two draws with identical requirements
// produce equal specs and share one compiled pipeline; any observable
// difference produces unequal specs. Shader modules are cached separately
// under ShaderSpec, which omits rasterization state since cull mode, line
// width and blending never change shader source.
package dynpipe

import "github.com/gogpu/glbridge/insn"

// VertexInput identifies a field slot in a packed vertex buffer. The
// numeric order is the canonical packing order.
type VertexInput uint8

const (
	InputPosition VertexInput = iota
	InputNormal
	InputColor
	InputTexCoord
	InputTexIndex

	NumVertexInputs = 5
)

var vertexInputNames = map[VertexInput]string{
	InputPosition: "position",
	InputNormal:   "normal",
	InputColor:    "color",
	InputTexCoord: "texcoord",
	InputTexIndex: "texindex",
}

func (v VertexInput) String() string {
	if s, ok := vertexInputNames[v]; ok {
		return s
	}
	return "unknown"
}

// VertexField describes one packed field: its element type after packing,
// component count and byte offset within the stride. Present distinguishes
// an absent field from a zero-valued one so VertexLayout stays comparable.
type VertexField struct {
	Present   bool
	Type      insn.DataType
	ElemCount uint8
	Offset    uint16
}

// VertexLayout is the packed interleaved layout of one vertex. Offsets
// strictly increase in input order and Stride is a multiple of 4.
type VertexLayout struct {
	Fields [NumVertexInputs]VertexField
	Stride uint16
}

// Set appends a field at the current stride offset and advances the stride
// by the field's packed size.
func (l *VertexLayout) Set(input VertexInput, typ insn.DataType, elemCount int) {
	l.Fields[input] = VertexField{
		Present:   true,
		Type:      typ,
		ElemCount: uint8(elemCount),
		Offset:    l.Stride,
	}
	l.Stride += uint16(typ.Size() * elemCount)
}

// AlignTo rounds the stride up to a multiple of width.
func (l *VertexLayout) AlignTo(width int) {
	if rem := int(l.Stride) % width; rem != 0 {
		l.Stride += uint16(width - rem)
	}
}

// Field returns the descriptor for input and whether it is present.
func (l *VertexLayout) Field(input VertexInput) (VertexField, bool) {
	f := l.Fields[input]
	return f, f.Present
}

// DataSourceKind says where a per-draw datum (matrix, flat color) comes from.
type DataSourceKind uint8

const (
	// SourcePushConstant supplies the datum inline with the draw command.
	SourcePushConstant DataSourceKind = iota
	// SourceUniform supplies the datum through a bound uniform buffer.
	SourceUniform
)

// DataSource locates a per-draw datum. Set and Binding are meaningful only
// for SourceUniform.
type DataSource struct {
	Kind    DataSourceKind
	Set     uint8
	Binding uint8
}

// PushConstant is the common push-constant data source.
func PushConstant() DataSource { return DataSource{Kind: SourcePushConstant} }

// Uniform is a uniform-buffer data source at the given set and binding.
func Uniform(set, binding uint8) DataSource {
	return DataSource{Kind: SourceUniform, Set: set, Binding: binding}
}

// ColorModeKind selects how fragments obtain their base color.
type ColorModeKind uint8

const (
	// ColorFlat uses a single draw-wide color from Source.
	ColorFlat ColorModeKind = iota
	// ColorTexture samples a texture array bound at Set/Binding using the
	// per-vertex texcoord and texindex fields.
	ColorTexture
	// ColorPerVertex reads the packed per-vertex color field.
	ColorPerVertex
)

// ColorMode is the color source portion of a pipeline spec.
type ColorMode struct {
	Kind    ColorModeKind
	Source  DataSource // ColorFlat only
	Set     uint8      // ColorTexture only
	Binding uint8      // ColorTexture only
}

// FlatColor is a flat color mode fed from source.
func FlatColor(source DataSource) ColorMode {
	return ColorMode{Kind: ColorFlat, Source: source}
}

// TextureColor is a textured color mode sampling at set/binding.
func TextureColor(set, binding uint8) ColorMode {
	return ColorMode{Kind: ColorTexture, Set: set, Binding: binding}
}

// PerVertexColor reads color from the vertex buffer.
func PerVertexColor() ColorMode { return ColorMode{Kind: ColorPerVertex} }

// MatrixModeKind selects how vertex transforms reach the shader.
type MatrixModeKind uint8

const (
	// MatrixMVP supplies one pre-composed model-view-projection matrix.
	MatrixMVP MatrixModeKind = iota
	// MatrixVPM supplies the view-projection and model matrices separately,
	// letting the model transform vary without recomposing. Reserved for a
	// batching optimization; the assembler currently always derives MatrixMVP.
	MatrixVPM
)

// MatrixMode is the matrix supply portion of a pipeline spec.
type MatrixMode struct {
	Kind  MatrixModeKind
	MVP   DataSource // MatrixMVP: the combined matrix; MatrixVPM: view-projection
	Model DataSource // MatrixVPM only
}

// MVPPushConstant is the steady-state matrix mode: one combined MVP matrix
// as a push constant.
func MVPPushConstant() MatrixMode {
	return MatrixMode{Kind: MatrixMVP, MVP: PushConstant()}
}

// CullMode selects which triangle faces are discarded.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FrontFace selects the winding order considered front-facing.
type FrontFace uint8

const (
	FrontCCW FrontFace = iota
	FrontCW
)

// BlendMode selects the color blend function.
type BlendMode uint8

const (
	// BlendNone writes source color unblended.
	BlendNone BlendMode = iota
	// BlendAlpha is classic src-alpha / one-minus-src-alpha blending.
	BlendAlpha
)

// Rasterization is the fixed-function portion of a pipeline spec. Line
// width is stored in tenths so the struct stays comparable without float
// equality concerns.
type Rasterization struct {
	Cull            CullMode
	FrontFace       FrontFace
	LineWidthTenths uint32
	Blend           BlendMode
}

// DefaultRasterization matches the legacy API's initial state: back-face
// culling, counter-clockwise front faces, line width 1.0, alpha blending.
func DefaultRasterization() Rasterization {
	return Rasterization{
		Cull:            CullBack,
		FrontFace:       FrontCCW,
		LineWidthTenths: 10,
		Blend:           BlendAlpha,
	}
}

// PipelineSpec is the cache key for a compiled pipeline. It is a plain
// comparable value: equality is structural and exhaustive.
type PipelineSpec struct {
	Mode   insn.DrawMode
	Layout VertexLayout
	Color  ColorMode
	Matrix MatrixMode
	Raster Rasterization
}

// ShaderSpec is the subset of PipelineSpec that determines shader source:
// vertex layout, color mode and matrix mode. Rasterization state and
// primitive topology do not affect generated shaders.
type ShaderSpec struct {
	Layout VertexLayout
	Color  ColorMode
	Matrix MatrixMode
}

// Shader projects the spec onto its shader-relevant subset.
func (s PipelineSpec) Shader() ShaderSpec {
	return ShaderSpec{Layout: s.Layout, Color: s.Color, Matrix: s.Matrix}
}

// PushConstantSize returns the byte size of the push-constant block implied
// by the spec: one mat4 per push-constant-sourced matrix plus a vec4 when
// the flat color is push-constant-sourced.
func (s PipelineSpec) PushConstantSize() int {
	size := 0
	if s.Matrix.MVP.Kind == SourcePushConstant {
		size += 64
	}
	if s.Matrix.Kind == MatrixVPM && s.Matrix.Model.Kind == SourcePushConstant {
		size += 64
	}
	if s.Color.Kind == ColorFlat && s.Color.Source.Kind == SourcePushConstant {
		size += 16
	}
	return size
}
