package dynpipe

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Spec hashing uses FNV-1a over every field in declaration order. The hash
// is a stable debug identity (pipeline labels, log lines); cache lookups key
// on the spec values themselves, so hash collisions cannot produce a wrong
// pipeline.

// Hash returns a stable 64-bit identity for the spec.
func (s PipelineSpec) Hash() uint64 {
	h := fnv.New64a()
	hashWriteUint8(h, uint8(s.Mode))
	hashVertexLayout(h, &s.Layout)
	hashColorMode(h, s.Color)
	hashMatrixMode(h, s.Matrix)
	hashWriteUint8(h, uint8(s.Raster.Cull))
	hashWriteUint8(h, uint8(s.Raster.FrontFace))
	hashWriteUint32(h, s.Raster.LineWidthTenths)
	hashWriteUint8(h, uint8(s.Raster.Blend))
	return h.Sum64()
}

// Hash returns a stable 64-bit identity for the shader spec.
func (s ShaderSpec) Hash() uint64 {
	h := fnv.New64a()
	hashVertexLayout(h, &s.Layout)
	hashColorMode(h, s.Color)
	hashMatrixMode(h, s.Matrix)
	return h.Sum64()
}

func hashVertexLayout(h hash.Hash64, l *VertexLayout) {
	for i := range l.Fields {
		f := &l.Fields[i]
		hashWriteBool(h, f.Present)
		hashWriteUint8(h, uint8(f.Type))
		hashWriteUint8(h, f.ElemCount)
		hashWriteUint32(h, uint32(f.Offset))
	}
	hashWriteUint32(h, uint32(l.Stride))
}

func hashColorMode(h hash.Hash64, c ColorMode) {
	hashWriteUint8(h, uint8(c.Kind))
	hashDataSource(h, c.Source)
	hashWriteUint8(h, c.Set)
	hashWriteUint8(h, c.Binding)
}

func hashMatrixMode(h hash.Hash64, m MatrixMode) {
	hashWriteUint8(h, uint8(m.Kind))
	hashDataSource(h, m.MVP)
	hashDataSource(h, m.Model)
}

func hashDataSource(h hash.Hash64, s DataSource) {
	hashWriteUint8(h, uint8(s.Kind))
	hashWriteUint8(h, s.Set)
	hashWriteUint8(h, s.Binding)
}

func hashWriteUint8(h hash.Hash64, v uint8) {
	_, _ = h.Write([]byte{v})
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
