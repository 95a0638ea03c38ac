package assembler

import (
	"encoding/binary"
	"log/slog"
	"math"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/internal/logging"
)

// layoutSources maps packed vertex inputs to the client array feeding them,
// in canonical packing order. The texture index has no source array; it is
// synthesized from the texture lookup.
var layoutSources = []struct {
	input dynpipe.VertexInput
	kind  insn.ArrayKind
}{
	{dynpipe.InputPosition, insn.VertexArray},
	{dynpipe.InputNormal, insn.NormalArray},
	{dynpipe.InputColor, insn.ColorArray},
	{dynpipe.InputTexCoord, insn.TexCoordArray},
}

// packResult is an assembled draw buffer with its layout.
type packResult struct {
	layout      dynpipe.VertexLayout
	vertexCount int
	data        []byte
	textured    bool
}

// texCoordUsable reports whether the texcoord array qualifies for packing:
// float-typed 2-vectors only. Anything else is skipped with a warning, and
// the draw falls back to untextured.
func texCoordUsable(c *ClientArray) bool {
	return c.Type.Float() && c.ElemCount == 2
}

// buildLayout derives the packed vertex layout from the enabled arrays.
// Each included field is packed as float32; the trailing texture index,
// included only when the texcoord field is, is uint16. Stride realigns to 4
// bytes after every field.
func (a *Assembler) buildLayout() (layout dynpipe.VertexLayout, textured bool) {
	texturing := a.texturingActive()
	for _, src := range layoutSources {
		arr := &a.arrays[src.kind]
		if !arr.Enabled || !arr.valid() {
			continue
		}
		if src.kind == insn.TexCoordArray {
			if !texturing {
				continue
			}
			if !texCoordUsable(arr) {
				logging.Logger().Warn("texcoord array unusable for texturing, drawing untextured",
					slog.String("type", arr.Type.String()),
					slog.Int("elements", arr.ElemCount))
				continue
			}
			textured = true
		}
		layout.Set(src.input, insn.F32, arr.ElemCount)
		layout.AlignTo(4)
	}
	if textured {
		layout.Set(dynpipe.InputTexIndex, insn.U16, 1)
		layout.AlignTo(4)
	}
	return layout, textured
}

// pack assembles the packed vertex buffer for the current state. The
// position array must already be known valid. The vertex count is the
// minimum across included arrays; truncated arrays are reported once.
func (a *Assembler) pack() packResult {
	layout, textured := a.buildLayout()

	// Final vertex count: minimum across included arrays.
	vertexCount := -1
	shortest := insn.VertexArray
	for _, src := range layoutSources {
		if f, ok := layout.Field(src.input); !ok || !f.Present {
			continue
		}
		n := a.arrays[src.kind].VertexCount
		if vertexCount < 0 || n < vertexCount {
			vertexCount = n
			shortest = src.kind
		}
	}
	if vertexCount < 0 {
		vertexCount = 0
	}
	var truncated []string
	for _, src := range layoutSources {
		if f, ok := layout.Field(src.input); !ok || !f.Present {
			continue
		}
		if a.arrays[src.kind].VertexCount > vertexCount {
			truncated = append(truncated, src.kind.String())
		}
	}
	if len(truncated) > 0 {
		logging.Logger().Warn("client array length mismatch, truncating",
			slog.Any("truncated", truncated),
			slog.String("shortest", shortest.String()),
			slog.Int("vertex_count", vertexCount))
	}

	stride := int(layout.Stride)
	data := make([]byte, vertexCount*stride)

	for _, src := range layoutSources {
		field, ok := layout.Field(src.input)
		if !ok {
			continue
		}
		normalized := src.kind == insn.ColorArray || src.kind == insn.SecondaryColorArray
		packField(data, stride, field, &a.arrays[src.kind], vertexCount, normalized)
	}
	if textured {
		a.packTexIndices(data, stride, layout, vertexCount)
	}

	return packResult{
		layout:      layout,
		vertexCount: vertexCount,
		data:        data,
		textured:    textured,
	}
}

// packField converts one array into its packed field: every component
// becomes a little-endian float32 at its interleaved position.
func packField(dst []byte, stride int, field dynpipe.VertexField, src *ClientArray, vertexCount int, normalized bool) {
	elemSize := src.Type.Size()
	vecSize := elemSize * src.ElemCount
	for v := 0; v < vertexCount; v++ {
		base := v * vecSize
		out := v*stride + int(field.Offset)
		for e := 0; e < src.ElemCount; e++ {
			val := convertComponent(src.Data[base+e*elemSize:], src.Type, normalized)
			binary.LittleEndian.PutUint32(dst[out+e*4:], math.Float32bits(val))
		}
	}
}

// convertComponent reads one source component and converts it to float32.
// Normalized conversion maps integers onto [0,1] (or [-1,1] for signed) by
// dividing by the type's maximum; widening conversion is a plain cast.
// Floats pass through either way, float64 narrowing to float32.
func convertComponent(src []byte, typ insn.DataType, normalized bool) float32 {
	switch typ {
	case insn.U8:
		v := float32(src[0])
		if normalized {
			return v / math.MaxUint8
		}
		return v
	case insn.I8:
		v := float32(int8(src[0]))
		if normalized {
			return v / math.MaxInt8
		}
		return v
	case insn.U16:
		v := float32(binary.LittleEndian.Uint16(src))
		if normalized {
			return v / math.MaxUint16
		}
		return v
	case insn.I16:
		v := float32(int16(binary.LittleEndian.Uint16(src)))
		if normalized {
			return v / math.MaxInt16
		}
		return v
	case insn.U32:
		v := float32(binary.LittleEndian.Uint32(src))
		if normalized {
			return v / math.MaxUint32
		}
		return v
	case insn.I32:
		v := float32(int32(binary.LittleEndian.Uint32(src)))
		if normalized {
			return v / math.MaxInt32
		}
		return v
	case insn.F32:
		return math.Float32frombits(binary.LittleEndian.Uint32(src))
	case insn.F64:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(src)))
	}
	return 0
}

// packTexIndices resolves the atlas slot for every vertex through the
// texture lookup and writes it into the uint16 texture-index field. Without
// a lookup every vertex gets the sentinel slot.
func (a *Assembler) packTexIndices(dst []byte, stride int, layout dynpipe.VertexLayout, vertexCount int) {
	idxField, _ := layout.Field(dynpipe.InputTexIndex)
	uvField, _ := layout.Field(dynpipe.InputTexCoord)
	boundID := a.boundTextures[a.activeUnit]

	if a.lookup == nil {
		logging.Logger().Warn("texturing active with no texture lookup, using sentinel slot",
			slog.Uint64("texture", uint64(boundID)))
		for v := 0; v < vertexCount; v++ {
			binary.LittleEndian.PutUint16(dst[v*stride+int(idxField.Offset):], 0)
		}
		return
	}

	missing := false
	for v := 0; v < vertexCount; v++ {
		// The texcoord field was already packed as float32 pairs; read the
		// converted values back rather than re-decoding the source array.
		base := v*stride + int(uvField.Offset)
		u := math.Float32frombits(binary.LittleEndian.Uint32(dst[base:]))
		vv := math.Float32frombits(binary.LittleEndian.Uint32(dst[base+4:]))

		res := a.lookup.Resolve(boundID, u, vv)
		missing = missing || res.Missing
		binary.LittleEndian.PutUint32(dst[base:], math.Float32bits(res.U))
		binary.LittleEndian.PutUint32(dst[base+4:], math.Float32bits(res.V))
		binary.LittleEndian.PutUint16(dst[v*stride+int(idxField.Offset):], res.Slot)
	}
	if missing {
		logging.Logger().Warn("unresolved texture id, sentinel slot substituted",
			slog.Uint64("texture", uint64(boundID)))
	}
}
