package dynpipe

import (
	"testing"

	"github.com/gogpu/glbridge/insn"
)

// testSpec builds a representative spec: float position plus texcoord and
// texture index, textured color, push-constant MVP.
func testSpec() PipelineSpec {
	var layout VertexLayout
	layout.Set(InputPosition, insn.F32, 3)
	layout.AlignTo(4)
	layout.Set(InputTexCoord, insn.F32, 2)
	layout.Set(InputTexIndex, insn.U16, 1)
	layout.AlignTo(4)

	return PipelineSpec{
		Mode:   insn.Triangles,
		Layout: layout,
		Color:  TextureColor(1, 0),
		Matrix: MVPPushConstant(),
		Raster: DefaultRasterization(),
	}
}

func TestLayoutOffsets(t *testing.T) {
	s := testSpec()

	pos, ok := s.Layout.Field(InputPosition)
	if !ok || pos.Offset != 0 {
		t.Errorf("position: %+v, ok=%v", pos, ok)
	}
	uv, ok := s.Layout.Field(InputTexCoord)
	if !ok || uv.Offset != 12 {
		t.Errorf("texcoord: %+v, ok=%v", uv, ok)
	}
	idx, ok := s.Layout.Field(InputTexIndex)
	if !ok || idx.Offset != 20 {
		t.Errorf("texindex: %+v, ok=%v", idx, ok)
	}
	// 22 bytes of payload rounded up to the next multiple of 4.
	if s.Layout.Stride != 24 {
		t.Errorf("stride = %d, want 24", s.Layout.Stride)
	}
	if _, ok := s.Layout.Field(InputNormal); ok {
		t.Error("normal should be absent")
	}
}

func TestSpecEquality(t *testing.T) {
	// Independently constructed specs with identical requirements must be
	// equal; this is what makes them work as cache keys.
	a, b := testSpec(), testSpec()
	if a != b {
		t.Error("structurally identical specs compare unequal")
	}
	if a.Hash() != b.Hash() {
		t.Error("structurally identical specs hash differently")
	}

	b.Raster.Cull = CullNone
	if a == b {
		t.Error("differing cull mode should compare unequal")
	}
	if a.Hash() == b.Hash() {
		t.Error("differing cull mode should hash differently")
	}

	// Rasterization is excluded from the shader projection.
	if a.Shader() != b.Shader() {
		t.Error("cull mode must not affect the shader spec")
	}
}

func TestShaderSpecExcludesTopology(t *testing.T) {
	a, b := testSpec(), testSpec()
	b.Mode = insn.Lines
	if a.Shader() != b.Shader() {
		t.Error("draw mode must not affect the shader spec")
	}
	if a == b {
		t.Error("draw mode must affect the pipeline spec")
	}
}

func TestPushConstantSize(t *testing.T) {
	tests := []struct {
		name string
		spec func() PipelineSpec
		want int
	}{
		{
			"mvp only (textured)",
			testSpec,
			64,
		},
		{
			"mvp plus flat color",
			func() PipelineSpec {
				s := testSpec()
				s.Color = FlatColor(PushConstant())
				return s
			},
			80,
		},
		{
			"uniform mvp, uniform color",
			func() PipelineSpec {
				s := testSpec()
				s.Matrix = MatrixMode{Kind: MatrixMVP, MVP: Uniform(0, 1)}
				s.Color = FlatColor(Uniform(0, 2))
				return s
			},
			0,
		},
		{
			"separate matrices",
			func() PipelineSpec {
				s := testSpec()
				s.Matrix = MatrixMode{
					Kind:  MatrixVPM,
					MVP:   PushConstant(),
					Model: PushConstant(),
				}
				return s
			},
			128,
		},
	}
	for _, tt := range tests {
		if got := tt.spec().PushConstantSize(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestInputLocations(t *testing.T) {
	s := testSpec()
	locs := s.Layout.InputLocations()
	if locs[InputPosition] != 0 {
		t.Errorf("position location = %d, want 0", locs[InputPosition])
	}
	if locs[InputTexCoord] != 1 {
		t.Errorf("texcoord location = %d, want 1", locs[InputTexCoord])
	}
	if locs[InputTexIndex] != 2 {
		t.Errorf("texindex location = %d, want 2", locs[InputTexIndex])
	}
	if locs[InputNormal] != -1 || locs[InputColor] != -1 {
		t.Error("absent fields should map to -1")
	}
}
