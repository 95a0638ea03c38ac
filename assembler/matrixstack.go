package assembler

import "github.com/gogpu/glbridge/math32"

// MatrixStack is one legacy matrix stack: a growable sequence of 4x4
// matrices with a top index. Storage never shrinks; popped levels are
// reused by the next push.
//
// Invariant: 0 <= top < len(matrices).
type MatrixStack struct {
	top      int
	matrices []math32.Mat4
}

// NewMatrixStack returns a stack with a single identity level.
func NewMatrixStack() *MatrixStack {
	return &MatrixStack{matrices: []math32.Mat4{math32.Identity()}}
}

// Top returns the current top matrix.
func (s *MatrixStack) Top() math32.Mat4 { return s.matrices[s.top] }

// Depth returns the number of live levels (top index + 1).
func (s *MatrixStack) Depth() int { return s.top + 1 }

// Push duplicates the top onto a new level.
func (s *MatrixStack) Push() {
	s.top++
	if s.top == len(s.matrices) {
		s.matrices = append(s.matrices, s.matrices[s.top-1])
	} else {
		s.matrices[s.top] = s.matrices[s.top-1]
	}
}

// Pop discards the top level. At the base level it is a no-op returning
// false; the stack never underflows.
func (s *MatrixStack) Pop() bool {
	if s.top == 0 {
		return false
	}
	s.top--
	return true
}

// LoadIdentity resets the top level to the identity matrix.
func (s *MatrixStack) LoadIdentity() {
	s.matrices[s.top] = math32.Identity()
}

// Translate post-multiplies a translation: top = top * T(v). Subsequent
// geometry is translated in the current object space.
func (s *MatrixStack) Translate(v math32.Vec3) {
	s.matrices[s.top] = s.matrices[s.top].Mul(math32.Translation(v))
}

// Scale post-multiplies a per-axis scale: top = top * S(v).
func (s *MatrixStack) Scale(v math32.Vec3) {
	s.matrices[s.top] = s.matrices[s.top].Mul(math32.Scaling(v))
}

// Rotate pre-multiplies an axis-angle rotation: top = R * top. The angle is
// in radians.
func (s *MatrixStack) Rotate(axis math32.Vec3, angle float32) {
	s.matrices[s.top] = math32.Rotation(axis, angle).Mul(s.matrices[s.top])
}

// Ortho pre-multiplies an orthographic projection: top = O * top.
func (s *MatrixStack) Ortho(left, right, bottom, top, near, far float32) {
	s.matrices[s.top] = math32.Ortho(left, right, bottom, top, near, far).Mul(s.matrices[s.top])
}
