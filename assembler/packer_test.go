package assembler

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
)

func putU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func putU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestConvertNormalized(t *testing.T) {
	tests := []struct {
		name string
		typ  insn.DataType
		src  []byte
		want float32
	}{
		{"u8 max", insn.U8, []byte{255}, 1},
		{"u8 zero", insn.U8, []byte{0}, 0},
		{"u8 mid", insn.U8, []byte{51}, 51.0 / 255.0},
		{"u16 max", insn.U16, putU16(65535), 1},
		{"u16 mid", insn.U16, putU16(13107), 13107.0 / 65535.0},
		{"u32 max", insn.U32, putU32(math.MaxUint32), 1},
		{"i8 max", insn.I8, []byte{127}, 1},
		{"i16 max", insn.I16, putU16(32767), 1},
		{"f32 passthrough", insn.F32, putU32(math.Float32bits(0.625)), 0.625},
	}
	for _, tt := range tests {
		if got := convertComponent(tt.src, tt.typ, true); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConvertWidening(t *testing.T) {
	i16src := putU16(uint16(0xFFFF & int32(-1234)))
	f64src := make([]byte, 8)
	binary.LittleEndian.PutUint64(f64src, math.Float64bits(2.5))

	tests := []struct {
		name string
		typ  insn.DataType
		src  []byte
		want float32
	}{
		{"u8", insn.U8, []byte{200}, 200},
		{"i8", insn.I8, []byte{0x80}, -128},
		{"i16 negative", insn.I16, i16src, -1234},
		{"u32", insn.U32, putU32(70000), 70000},
		{"i32", insn.I32, putU32(uint32(0xFFFFFFFF)), -1},
		{"f64 narrows", insn.F64, f64src, 2.5},
	}
	for _, tt := range tests {
		if got := convertComponent(tt.src, tt.typ, false); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildLayoutUntextured(t *testing.T) {
	a := New(nil, nil)
	a.arrays[insn.VertexArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 3, Type: insn.F32, Data: make([]byte, 36)}
	a.arrays[insn.NormalArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 3, Type: insn.F32, Data: make([]byte, 36)}

	layout, textured := a.buildLayout()
	if textured {
		t.Error("no texturing expected")
	}
	if layout.Stride != 24 {
		t.Errorf("stride = %d, want 24", layout.Stride)
	}
	pos, _ := layout.Field(dynpipe.InputPosition)
	if pos.Offset != 0 {
		t.Errorf("position offset = %d", pos.Offset)
	}
	nrm, ok := layout.Field(dynpipe.InputNormal)
	if !ok || nrm.Offset != 12 {
		t.Errorf("normal offset = %d, ok=%v", nrm.Offset, ok)
	}
}

func TestBuildLayoutTexturedAddsIndex(t *testing.T) {
	a := New(nil, nil)
	a.arrays[insn.VertexArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 3, Type: insn.F32, Data: make([]byte, 36)}
	a.arrays[insn.TexCoordArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 2, Type: insn.F32, Data: make([]byte, 24)}
	_ = a.Feed(insn.Enable{Cap: insn.CapTexture2D})
	_ = a.Feed(insn.BindTexture{ID: 9})

	layout, textured := a.buildLayout()
	if !textured {
		t.Fatal("texturing expected")
	}
	idx, ok := layout.Field(dynpipe.InputTexIndex)
	if !ok {
		t.Fatal("texindex field missing")
	}
	if idx.Type != insn.U16 || idx.ElemCount != 1 {
		t.Errorf("texindex field = %+v", idx)
	}
	// position 12 -> texcoord at 12 (+8) -> texindex at 20, stride 22 -> 24.
	if idx.Offset != 20 || layout.Stride != 24 {
		t.Errorf("texindex offset = %d stride = %d, want 20/24", idx.Offset, layout.Stride)
	}
}

func TestBuildLayoutGatesBadTexCoord(t *testing.T) {
	a := New(nil, nil)
	a.arrays[insn.VertexArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 3, Type: insn.F32, Data: make([]byte, 36)}
	// Integer-typed texcoords do not qualify.
	a.arrays[insn.TexCoordArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 2, Type: insn.I16, Data: make([]byte, 12)}
	_ = a.Feed(insn.Enable{Cap: insn.CapTexture2D})
	_ = a.Feed(insn.BindTexture{ID: 9})

	layout, textured := a.buildLayout()
	if textured {
		t.Error("unusable texcoord array should disable texturing")
	}
	if _, ok := layout.Field(dynpipe.InputTexCoord); ok {
		t.Error("texcoord should be excluded from the layout")
	}
	if _, ok := layout.Field(dynpipe.InputTexIndex); ok {
		t.Error("texindex should be excluded without texcoord")
	}
}

func TestBuildLayoutNoBoundTexture(t *testing.T) {
	a := New(nil, nil)
	a.arrays[insn.VertexArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 3, Type: insn.F32, Data: make([]byte, 36)}
	a.arrays[insn.TexCoordArray] = ClientArray{Enabled: true, VertexCount: 3, ElemCount: 2, Type: insn.F32, Data: make([]byte, 24)}
	_ = a.Feed(insn.Enable{Cap: insn.CapTexture2D})
	// No BindTexture: unit 0 holds texture 0, i.e. nothing.

	if _, textured := a.buildLayout(); textured {
		t.Error("texturing requires a bound texture")
	}
}
