// Package command defines the render command stream produced by the
// instruction assembler and the sinks that consume it: an in-memory buffer
// for tests and alternate backends, an asynchronous channel queue, and a
// recorder that executes commands against a compiled-pipeline target.
package command

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/math32"
)

// Type identifies the kind of a render command.
type Type uint8

const (
	TypeBindPipeline Type = iota
	TypeDraw
	TypeClearDepth
)

var typeNames = map[Type]string{
	TypeBindPipeline: "BindPipeline",
	TypeDraw:         "Draw",
	TypeClearDepth:   "ClearDepth",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Command is one unit of work for a command consumer. Consumers apply
// commands strictly in FIFO order; a BindPipeline governs every Draw that
// follows it until the next bind.
type Command interface {
	Type() Type
}

// PushConstants is the per-draw inline data block: the combined MVP matrix
// plus, for flat-colored draws, the draw color. It is a comparable value so
// consumers can skip redundant re-binds.
type PushConstants struct {
	MVP      math32.Mat4
	Color    math32.Vec4
	HasColor bool
}

// Bytes serializes the block in the layout the generated shaders declare:
// the matrix column-major, then the color when present, all little-endian.
func (p PushConstants) Bytes() []byte {
	size := 64
	if p.HasColor {
		size += 16
	}
	buf := make([]byte, size)
	for i, v := range p.MVP {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	if p.HasColor {
		binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(p.Color.X))
		binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(p.Color.Y))
		binary.LittleEndian.PutUint32(buf[72:], math.Float32bits(p.Color.Z))
		binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(p.Color.W))
	}
	return buf
}

// BindPipeline selects the pipeline for subsequent draws and supplies its
// push-constant data.
type BindPipeline struct {
	Spec dynpipe.PipelineSpec
	Push PushConstants
}

func (BindPipeline) Type() Type { return TypeBindPipeline }

// Draw renders VertexCount vertices starting at StartVertex from the packed
// vertex buffer.
type Draw struct {
	StartVertex int
	VertexCount int
	Buffer      []byte
}

func (Draw) Type() Type { return TypeDraw }

// ClearDepth clears the depth attachment over the full viewport before any
// further draws.
type ClearDepth struct{}

func (ClearDepth) Type() Type { return TypeClearDepth }
