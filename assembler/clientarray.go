package assembler

import (
	"fmt"

	"github.com/gogpu/glbridge/insn"
)

// ClientArray is one stored vertex attribute array. Data is always a tight
// copy: any source stride was consumed at ingestion time, so packing never
// deals with interleaved input.
//
// Invariant: when Data is non-nil, len(Data) == VertexCount * ElemCount *
// Type.Size().
type ClientArray struct {
	Enabled     bool
	VertexCount int
	ElemCount   int
	Type        insn.DataType
	Data        []byte
}

// valid reports whether the array holds drawable data.
func (c *ClientArray) valid() bool {
	return c.Data != nil && c.VertexCount > 0
}

// ingestPointer validates a SetPointer instruction and produces the tight
// attribute copy. The vertex count is derived from the source length: for
// tight input it is len/vectorSize, for strided input len/stride. Trailing
// bytes that do not fill a whole vector are dropped.
func ingestPointer(p insn.SetPointer) (vertexCount int, data []byte, err error) {
	if p.ElemCount < 1 || p.ElemCount > 4 {
		return 0, nil, fmt.Errorf("assembler: %s pointer: element count %d out of range", p.Kind, p.ElemCount)
	}
	elemSize := p.Type.Size()
	if elemSize == 0 {
		return 0, nil, fmt.Errorf("assembler: %s pointer: unknown data type", p.Kind)
	}
	vecSize := elemSize * p.ElemCount

	stride := p.Stride
	if stride == 0 {
		stride = vecSize
	}
	if stride < vecSize {
		return 0, nil, fmt.Errorf("assembler: %s pointer: stride %d smaller than vector size %d", p.Kind, stride, vecSize)
	}

	vertexCount = len(p.Data) / stride
	// Tight input whose tail holds one more full vector than the strided
	// division sees: the final vector needs only vecSize bytes, not stride.
	if rem := len(p.Data) % stride; rem >= vecSize {
		vertexCount++
	}
	if vertexCount == 0 {
		return 0, nil, fmt.Errorf("assembler: %s pointer: %d bytes hold no complete vector", p.Kind, len(p.Data))
	}

	if stride == vecSize {
		data = make([]byte, vertexCount*vecSize)
		copy(data, p.Data)
		return vertexCount, data, nil
	}

	data = make([]byte, vertexCount*vecSize)
	for i := 0; i < vertexCount; i++ {
		copy(data[i*vecSize:(i+1)*vecSize], p.Data[i*stride:i*stride+vecSize])
	}
	return vertexCount, data, nil
}
