package insn

// MatrixMode selects which matrix stack subsequent matrix operations target.
type MatrixMode uint8

const (
	ModelView MatrixMode = iota
	Projection
	TextureMatrix
	ColorMatrix
)

var matrixModeNames = map[MatrixMode]string{
	ModelView:     "modelview",
	Projection:    "projection",
	TextureMatrix: "texture",
	ColorMatrix:   "color",
}

func (m MatrixMode) String() string {
	if s, ok := matrixModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// MatrixModeFromGL maps a legacy glMatrixMode enum value. The second return
// is false for values outside the four classic modes.
func MatrixModeFromGL(v uint32) (MatrixMode, bool) {
	switch v {
	case 0x1700:
		return ModelView, true
	case 0x1701:
		return Projection, true
	case 0x1702:
		return TextureMatrix, true
	case 0x1703:
		return ColorMatrix, true
	}
	return 0, false
}

// ArrayKind identifies a client vertex array slot. The numeric order is the
// slot order of the legacy API and doubles as the canonical processing order
// during buffer packing (vertex position is handled first regardless).
type ArrayKind uint8

const (
	ColorArray ArrayKind = iota
	EdgeFlagArray
	FogCoordArray
	ColorIndexArray
	NormalArray
	SecondaryColorArray
	TexCoordArray
	VertexArray

	NumArrayKinds = 8
)

var arrayKindNames = map[ArrayKind]string{
	ColorArray:          "color",
	EdgeFlagArray:       "edgeflag",
	FogCoordArray:       "fogcoord",
	ColorIndexArray:     "color_index",
	NormalArray:         "normal",
	SecondaryColorArray: "secondary_color",
	TexCoordArray:       "texcoord",
	VertexArray:         "pos",
}

func (k ArrayKind) String() string {
	if s, ok := arrayKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Supported reports whether the assembler packs this array kind into vertex
// buffers. Unsupported kinds are tracked but excluded from layouts with a
// warning.
func (k ArrayKind) Supported() bool {
	switch k {
	case ColorArray, NormalArray, TexCoordArray, VertexArray:
		return true
	}
	return false
}

// ArrayKindFromGL maps a legacy array enum (GL_COLOR_ARRAY etc.) to its slot.
func ArrayKindFromGL(v uint32) (ArrayKind, bool) {
	switch v {
	case 0x8076:
		return ColorArray, true
	case 0x8079:
		return EdgeFlagArray, true
	case 0x8457:
		return FogCoordArray, true
	case 0x8077:
		return ColorIndexArray, true
	case 0x8075:
		return NormalArray, true
	case 0x845E:
		return SecondaryColorArray, true
	case 0x8078:
		return TexCoordArray, true
	case 0x8074:
		return VertexArray, true
	}
	return 0, false
}

// DataType is the numeric element type of a client array.
type DataType uint8

const (
	U8 DataType = iota
	I8
	U16
	I16
	U32
	I32
	F32
	F64
)

var dataTypeNames = map[DataType]string{
	U8:  "u8",
	I8:  "i8",
	U16: "u16",
	I16: "i16",
	U32: "u32",
	I32: "i32",
	F32: "f32",
	F64: "f64",
}

func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Size returns the byte width of one element.
func (t DataType) Size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case F64:
		return 8
	}
	return 0
}

// Float reports whether the type is a floating-point kind.
func (t DataType) Float() bool { return t == F32 || t == F64 }

// DataTypeFromGL maps a legacy type enum (GL_UNSIGNED_BYTE etc.).
func DataTypeFromGL(v uint32) (DataType, bool) {
	switch v {
	case 0x1401:
		return U8, true
	case 0x1400:
		return I8, true
	case 0x1403:
		return U16, true
	case 0x1402:
		return I16, true
	case 0x1405:
		return U32, true
	case 0x1404:
		return I32, true
	case 0x1406:
		return F32, true
	case 0x140A:
		return F64, true
	}
	return 0, false
}

// DrawMode is the primitive topology of a draw call.
type DrawMode uint8

const (
	Points DrawMode = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
	LinesAdjacency
	LineStripAdjacency
	TrianglesAdjacency
	TriangleStripAdjacency
)

var drawModeNames = map[DrawMode]string{
	Points:                 "points",
	Lines:                  "lines",
	LineLoop:               "line_loop",
	LineStrip:              "line_strip",
	Triangles:              "triangles",
	TriangleStrip:          "triangle_strip",
	TriangleFan:            "triangle_fan",
	LinesAdjacency:         "lines_adjacency",
	LineStripAdjacency:     "line_strip_adjacency",
	TrianglesAdjacency:     "triangles_adjacency",
	TriangleStripAdjacency: "triangle_strip_adjacency",
}

func (m DrawMode) String() string {
	if s, ok := drawModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// DrawModeFromGL maps a legacy primitive enum (GL_TRIANGLES etc.).
func DrawModeFromGL(v uint32) (DrawMode, bool) {
	switch v {
	case 0x0000:
		return Points, true
	case 0x0001:
		return Lines, true
	case 0x0002:
		return LineLoop, true
	case 0x0003:
		return LineStrip, true
	case 0x0004:
		return Triangles, true
	case 0x0005:
		return TriangleStrip, true
	case 0x0006:
		return TriangleFan, true
	case 0x000A:
		return LinesAdjacency, true
	case 0x000B:
		return LineStripAdjacency, true
	case 0x000C:
		return TrianglesAdjacency, true
	case 0x000D:
		return TriangleStripAdjacency, true
	}
	return 0, false
}

// Capability is a legacy enable/disable flag, carried by its raw API value
// so unknown flags round-trip through the state set untouched.
type Capability uint32

// Capabilities the assembler inspects. Everything else is stored verbatim.
const (
	CapTexture2D Capability = 0x0DE1
	CapAlphaTest Capability = 0x0BC0
)

func (c Capability) String() string {
	switch c {
	case CapTexture2D:
		return "texture_2d"
	case CapAlphaTest:
		return "alpha_test"
	}
	return "unknown"
}
