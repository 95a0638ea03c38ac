package insn

import "testing"

func TestOpString(t *testing.T) {
	if got := OpDrawArrays.String(); got != "DrawArrays" {
		t.Errorf("got %q, want %q", got, "DrawArrays")
	}
	if got := Op(200).String(); got != "Unknown" {
		t.Errorf("got %q, want %q", got, "Unknown")
	}
}

func TestMatrixMutationMarker(t *testing.T) {
	mutating := []Instruction{
		PushMatrix{}, PopMatrix{}, LoadIdentity{},
		Ortho{}, Translate{}, Rotate{}, Scale{},
	}
	for _, in := range mutating {
		if _, ok := in.(MatrixMutation); !ok {
			t.Errorf("%s should be a matrix mutation", in.Op())
		}
	}

	nonMutating := []Instruction{
		SetMatrixMode{}, Enable{}, Disable{}, SetClientState{},
		SetPointer{}, DrawArrays{}, BindTexture{}, SetColor{}, ClearDepth{},
	}
	for _, in := range nonMutating {
		if _, ok := in.(MatrixMutation); ok {
			t.Errorf("%s should not be a matrix mutation", in.Op())
		}
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		t    DataType
		size int
	}{
		{U8, 1}, {I8, 1}, {U16, 2}, {I16, 2},
		{U32, 4}, {I32, 4}, {F32, 4}, {F64, 8},
	}
	for _, tt := range tests {
		if got := tt.t.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.t, got, tt.size)
		}
	}
}

func TestArrayKindSupported(t *testing.T) {
	supported := map[ArrayKind]bool{
		ColorArray:          true,
		EdgeFlagArray:       false,
		FogCoordArray:       false,
		ColorIndexArray:     false,
		NormalArray:         true,
		SecondaryColorArray: false,
		TexCoordArray:       true,
		VertexArray:         true,
	}
	for k, want := range supported {
		if got := k.Supported(); got != want {
			t.Errorf("%s.Supported() = %v, want %v", k, got, want)
		}
	}
}

func TestGLMappings(t *testing.T) {
	if m, ok := MatrixModeFromGL(0x1700); !ok || m != ModelView {
		t.Errorf("0x1700: got %v/%v", m, ok)
	}
	if _, ok := MatrixModeFromGL(0x9999); ok {
		t.Error("0x9999 should not map to a matrix mode")
	}
	if k, ok := ArrayKindFromGL(0x8074); !ok || k != VertexArray {
		t.Errorf("0x8074: got %v/%v", k, ok)
	}
	if d, ok := DataTypeFromGL(0x1406); !ok || d != F32 {
		t.Errorf("0x1406: got %v/%v", d, ok)
	}
	if m, ok := DrawModeFromGL(0x0004); !ok || m != Triangles {
		t.Errorf("0x0004: got %v/%v", m, ok)
	}
}

func TestNarrowingConstructors(t *testing.T) {
	tr := TranslateD(1.5, 2.5, 3.5)
	if tr.V.X != 1.5 || tr.V.Y != 2.5 || tr.V.Z != 3.5 {
		t.Errorf("TranslateD: got %v", tr.V)
	}
	c := SetColorD(0.25, 0.5, 0.75, 1)
	if c.R != 0.25 || c.G != 0.5 || c.B != 0.75 || c.A != 1 {
		t.Errorf("SetColorD: got %v", c)
	}
}
