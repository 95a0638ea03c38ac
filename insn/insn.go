// Package insn defines the render instruction stream: one value per legacy
// API call, constructed at the host boundary and consumed synchronously by
// the assembler. Instructions are plain data; all interpretation lives in
// the assembler package.
package insn

import "github.com/gogpu/glbridge/math32"

// Op identifies the kind of a render instruction.
type Op uint8

const (
	OpSetMatrixMode Op = iota
	OpPushMatrix
	OpPopMatrix
	OpLoadIdentity
	OpOrtho
	OpTranslate
	OpRotate
	OpScale
	OpEnable
	OpDisable
	OpSetClientState
	OpSetPointer
	OpDrawArrays
	OpSetActiveTexture
	OpBindTexture
	OpSetTexCoord
	OpSetColor
	OpAlphaFunc
	OpClearDepth
)

var opNames = map[Op]string{
	OpSetMatrixMode:    "SetMatrixMode",
	OpPushMatrix:       "PushMatrix",
	OpPopMatrix:        "PopMatrix",
	OpLoadIdentity:     "LoadIdentity",
	OpOrtho:            "Ortho",
	OpTranslate:        "Translate",
	OpRotate:           "Rotate",
	OpScale:            "Scale",
	OpEnable:           "Enable",
	OpDisable:          "Disable",
	OpSetClientState:   "SetClientState",
	OpSetPointer:       "SetPointer",
	OpDrawArrays:       "DrawArrays",
	OpSetActiveTexture: "SetActiveTexture",
	OpBindTexture:      "BindTexture",
	OpSetTexCoord:      "SetTexCoord",
	OpSetColor:         "SetColor",
	OpAlphaFunc:        "AlphaFunc",
	OpClearDepth:       "ClearDepth",
}

// String returns a human-readable name for the op.
func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "Unknown"
}

// Instruction is one decoded legacy API call.
type Instruction interface {
	Op() Op
}

// MatrixMutation is implemented by instructions that modify the currently
// selected matrix stack. The assembler uses it to invalidate the memoized
// MVP product.
type MatrixMutation interface {
	Instruction
	matrixMutation()
}

// SetMatrixMode selects the stack targeted by subsequent matrix operations.
// It is a mode switch only; it is not itself a matrix mutation.
type SetMatrixMode struct {
	Mode MatrixMode
}

func (SetMatrixMode) Op() Op { return OpSetMatrixMode }

// PushMatrix duplicates the top of the selected stack.
type PushMatrix struct{}

func (PushMatrix) Op() Op          { return OpPushMatrix }
func (PushMatrix) matrixMutation() {}

// PopMatrix discards the top of the selected stack, clamping at the base.
type PopMatrix struct{}

func (PopMatrix) Op() Op          { return OpPopMatrix }
func (PopMatrix) matrixMutation() {}

// LoadIdentity resets the top of the selected stack to identity.
type LoadIdentity struct{}

func (LoadIdentity) Op() Op          { return OpLoadIdentity }
func (LoadIdentity) matrixMutation() {}

// Ortho pre-multiplies an orthographic projection onto the selected stack.
type Ortho struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

func (Ortho) Op() Op          { return OpOrtho }
func (Ortho) matrixMutation() {}

// OrthoD narrows double-precision ortho parameters to the float32
// instruction. Lossy for coordinates beyond float32 range or precision.
func OrthoD(left, right, bottom, top, near, far float64) Ortho {
	return Ortho{
		Left: float32(left), Right: float32(right),
		Bottom: float32(bottom), Top: float32(top),
		Near: float32(near), Far: float32(far),
	}
}

// Translate post-multiplies a translation onto the selected stack.
type Translate struct {
	V math32.Vec3
}

func (Translate) Op() Op          { return OpTranslate }
func (Translate) matrixMutation() {}

// TranslateD narrows double-precision translation components. Lossy.
func TranslateD(x, y, z float64) Translate {
	return Translate{V: math32.V3(float32(x), float32(y), float32(z))}
}

// Rotate pre-multiplies an axis-angle rotation onto the selected stack.
// Angle is in degrees, matching the legacy API convention.
type Rotate struct {
	Angle float32
	Axis  math32.Vec3
}

func (Rotate) Op() Op          { return OpRotate }
func (Rotate) matrixMutation() {}

// RotateD narrows double-precision rotation parameters. Lossy.
func RotateD(angle, x, y, z float64) Rotate {
	return Rotate{
		Angle: float32(angle),
		Axis:  math32.V3(float32(x), float32(y), float32(z)),
	}
}

// Scale post-multiplies a per-axis scale onto the selected stack.
type Scale struct {
	V math32.Vec3
}

func (Scale) Op() Op          { return OpScale }
func (Scale) matrixMutation() {}

// ScaleD narrows double-precision scale components. Lossy.
func ScaleD(x, y, z float64) Scale {
	return Scale{V: math32.V3(float32(x), float32(y), float32(z))}
}

// Enable adds a capability flag to the state set.
type Enable struct {
	Cap Capability
}

func (Enable) Op() Op { return OpEnable }

// Disable removes a capability flag from the state set.
type Disable struct {
	Cap Capability
}

func (Disable) Op() Op { return OpDisable }

// SetClientState toggles whether an array kind participates in assembly.
type SetClientState struct {
	Kind    ArrayKind
	Enabled bool
}

func (SetClientState) Op() Op { return OpSetClientState }

// SetPointer binds a client array. Data is the raw source bytes; Stride is
// the source byte distance between consecutive vectors, with 0 meaning
// tightly packed. The vertex count is derived from len(Data) and the layout;
// strided input is de-interleaved into a tight copy at ingestion, so Data is
// not retained.
type SetPointer struct {
	Kind      ArrayKind
	ElemCount int
	Type      DataType
	Stride    int
	Data      []byte
}

func (SetPointer) Op() Op { return OpSetPointer }

// DrawArrays assembles the current state into a pipeline bind plus a draw
// covering Count vertices starting at First.
type DrawArrays struct {
	Mode  DrawMode
	First int
	Count int
}

func (DrawArrays) Op() Op { return OpDrawArrays }

// SetActiveTexture selects the texture unit targeted by BindTexture.
type SetActiveTexture struct {
	Unit int
}

func (SetActiveTexture) Op() Op { return OpSetActiveTexture }

// BindTexture binds a texture id to the active unit. ID 0 unbinds.
type BindTexture struct {
	ID uint32
}

func (BindTexture) Op() Op { return OpBindTexture }

// SetTexCoord sets the current texture coordinate used when no texcoord
// array drives per-vertex coordinates.
type SetTexCoord struct {
	S, T float32
}

func (SetTexCoord) Op() Op { return OpSetTexCoord }

// SetColor sets the current flat color.
type SetColor struct {
	R, G, B, A float32
}

func (SetColor) Op() Op { return OpSetColor }

// SetColorD narrows double-precision color components. Lossy.
func SetColorD(r, g, b, a float64) SetColor {
	return SetColor{float32(r), float32(g), float32(b), float32(a)}
}

// AlphaFunc records the legacy alpha-test comparison and reference value.
type AlphaFunc struct {
	Func uint32
	Ref  float32
}

func (AlphaFunc) Op() Op { return OpAlphaFunc }

// ClearDepth requests an immediate full-viewport depth clear.
type ClearDepth struct{}

func (ClearDepth) Op() Op { return OpClearDepth }
