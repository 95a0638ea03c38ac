// Package assembler implements the render instruction state machine: it
// consumes a linear instruction stream, maintains the legacy matrix stacks
// and client array bindings, and turns draw calls into packed vertex
// buffers plus dynamic pipeline specifications pushed into a command queue.
//
// An Assembler is confined to one recording context. It performs no
// internal locking; callers serialize instruction delivery. The only shared
// collaborators are the pipeline compiler behind the command queue and the
// texture lookup, both of which synchronize internally.
package assembler

import (
	"log/slog"
	"math"

	"github.com/gogpu/glbridge/command"
	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/internal/logging"
	"github.com/gogpu/glbridge/math32"
	"github.com/gogpu/glbridge/texture"
)

// NumTextureUnits is the number of legacy texture units tracked.
const NumTextureUnits = 16

// Texture atlas binding location used by generated shaders.
const (
	atlasBindGroup = 1
	atlasBinding   = 0
)

// Assembler is the per-context instruction consumer.
type Assembler struct {
	queue  command.Queue
	lookup texture.Lookup

	stacks [4]*MatrixStack
	mode   insn.MatrixMode

	arrays [insn.NumArrayKinds]ClientArray

	activeUnit    int
	boundTextures [NumTextureUnits]uint32

	flatColor math32.Vec4
	texCoord  [2]float32
	caps      map[insn.Capability]struct{}
	alphaFunc uint32
	alphaRef  float32

	raster dynpipe.Rasterization

	mvp      math32.Mat4
	mvpValid bool
}

// New creates an assembler feeding finished commands into queue. The
// texture lookup may be nil; textured draws then pack the sentinel slot.
func New(queue command.Queue, lookup texture.Lookup) *Assembler {
	a := &Assembler{
		queue:     queue,
		lookup:    lookup,
		flatColor: math32.V4(1, 1, 1, 1),
		caps:      make(map[insn.Capability]struct{}),
		raster:    dynpipe.DefaultRasterization(),
	}
	for i := range a.stacks {
		a.stacks[i] = NewMatrixStack()
	}
	return a
}

// Stack returns the matrix stack for a mode.
func (a *Assembler) Stack(mode insn.MatrixMode) *MatrixStack {
	return a.stacks[mode]
}

// activeStack returns the stack selected by the current matrix mode.
func (a *Assembler) activeStack() *MatrixStack { return a.stacks[a.mode] }

// MVP returns the memoized projection * model-view product, recomputing it
// only after a mutation of either contributing stack.
func (a *Assembler) MVP() math32.Mat4 {
	if !a.mvpValid {
		a.mvp = a.stacks[insn.Projection].Top().Mul(a.stacks[insn.ModelView].Top())
		a.mvpValid = true
	}
	return a.mvp
}

// Enabled reports whether a capability flag is set.
func (a *Assembler) Enabled(c insn.Capability) bool {
	_, ok := a.caps[c]
	return ok
}

// texturingActive reports whether textured packing applies: the 2D
// texturing capability is on and the active unit has a texture bound.
func (a *Assembler) texturingActive() bool {
	return a.Enabled(insn.CapTexture2D) && a.boundTextures[a.activeUnit] != 0
}

// Feed applies one instruction. Protocol misuse degrades with a warning;
// Feed never panics on host-supplied input.
func (a *Assembler) Feed(in insn.Instruction) error {
	// Any mutation of the projection or model-view stack invalidates the
	// memoized MVP. The test selects on the current matrix mode, not on
	// which stack level ends up changing.
	if _, ok := in.(insn.MatrixMutation); ok {
		if a.mode == insn.Projection || a.mode == insn.ModelView {
			a.mvpValid = false
		}
	}

	switch c := in.(type) {
	case insn.SetMatrixMode:
		a.mode = c.Mode
	case insn.PushMatrix:
		a.activeStack().Push()
	case insn.PopMatrix:
		if !a.activeStack().Pop() {
			logging.Logger().Warn("matrix stack pop at base level",
				slog.String("mode", a.mode.String()))
		}
	case insn.LoadIdentity:
		a.activeStack().LoadIdentity()
	case insn.Ortho:
		a.activeStack().Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	case insn.Translate:
		a.activeStack().Translate(c.V)
	case insn.Rotate:
		a.activeStack().Rotate(c.Axis, c.Angle*math.Pi/180)
	case insn.Scale:
		a.activeStack().Scale(c.V)
	case insn.Enable:
		a.caps[c.Cap] = struct{}{}
	case insn.Disable:
		delete(a.caps, c.Cap)
	case insn.SetClientState:
		a.setClientState(c)
	case insn.SetPointer:
		a.setPointer(c)
	case insn.DrawArrays:
		return a.drawArrays(c)
	case insn.SetActiveTexture:
		if c.Unit < 0 || c.Unit >= NumTextureUnits {
			logging.Logger().Warn("texture unit out of range",
				slog.Int("unit", c.Unit))
			return nil
		}
		a.activeUnit = c.Unit
	case insn.BindTexture:
		a.boundTextures[a.activeUnit] = c.ID
	case insn.SetTexCoord:
		a.texCoord = [2]float32{c.S, c.T}
	case insn.SetColor:
		a.flatColor = math32.V4(c.R, c.G, c.B, c.A)
	case insn.AlphaFunc:
		a.alphaFunc = c.Func
		a.alphaRef = c.Ref
	case insn.ClearDepth:
		return a.queue.Push(command.ClearDepth{})
	default:
		logging.Logger().Warn("unhandled instruction",
			slog.String("op", in.Op().String()))
	}
	return nil
}

func (a *Assembler) setClientState(c insn.SetClientState) {
	if c.Enabled && !c.Kind.Supported() {
		logging.Logger().Warn("unsupported client array kind enabled, excluded from draws",
			slog.String("array", c.Kind.String()))
	}
	a.arrays[c.Kind].Enabled = c.Enabled
}

func (a *Assembler) setPointer(c insn.SetPointer) {
	vertexCount, data, err := ingestPointer(c)
	if err != nil {
		logging.Logger().Warn("rejecting client array pointer",
			slog.String("array", c.Kind.String()),
			slog.String("reason", err.Error()))
		a.arrays[c.Kind].VertexCount = 0
		a.arrays[c.Kind].Data = nil
		return
	}
	arr := &a.arrays[c.Kind]
	arr.VertexCount = vertexCount
	arr.ElemCount = c.ElemCount
	arr.Type = c.Type
	arr.Data = data
}

// colorMode derives the color source for the current draw: textured when
// texturing is active and a usable texcoord field was packed; per-vertex
// when a color array was packed; flat push-constant color otherwise.
func (a *Assembler) colorMode(layout dynpipe.VertexLayout, textured bool) dynpipe.ColorMode {
	if textured {
		return dynpipe.TextureColor(atlasBindGroup, atlasBinding)
	}
	if _, ok := layout.Field(dynpipe.InputColor); ok {
		return dynpipe.PerVertexColor()
	}
	return dynpipe.FlatColor(dynpipe.PushConstant())
}

// drawArrays assembles and emits one draw: pack the enabled arrays, derive
// the pipeline spec, then push a bind followed by the draw.
func (a *Assembler) drawArrays(c insn.DrawArrays) error {
	pos := &a.arrays[insn.VertexArray]
	if !pos.Enabled || !pos.valid() {
		logging.Logger().Warn("draw without enabled position array, skipping",
			slog.String("mode", c.Mode.String()),
			slog.Int("count", c.Count))
		return nil
	}

	packed := a.pack()
	if packed.vertexCount == 0 {
		logging.Logger().Warn("draw packs zero vertices, skipping",
			slog.String("mode", c.Mode.String()))
		return nil
	}

	first, count := c.First, c.Count
	if first < 0 || count < 0 {
		logging.Logger().Warn("negative draw range, skipping",
			slog.Int("first", first), slog.Int("count", count))
		return nil
	}
	if first+count > packed.vertexCount {
		logging.Logger().Warn("draw range exceeds packed vertices, clamping",
			slog.Int("first", first),
			slog.Int("count", count),
			slog.Int("packed", packed.vertexCount))
		if first >= packed.vertexCount {
			return nil
		}
		count = packed.vertexCount - first
	}

	color := a.colorMode(packed.layout, packed.textured)
	spec := dynpipe.PipelineSpec{
		Mode:   c.Mode,
		Layout: packed.layout,
		Color:  color,
		Matrix: dynpipe.MVPPushConstant(),
		Raster: a.raster,
	}

	push := command.PushConstants{MVP: a.MVP()}
	if color.Kind == dynpipe.ColorFlat && color.Source.Kind == dynpipe.SourcePushConstant {
		push.HasColor = true
		push.Color = a.flatColor
	}

	if err := a.queue.Push(command.BindPipeline{Spec: spec, Push: push}); err != nil {
		return err
	}
	return a.queue.Push(command.Draw{
		StartVertex: first,
		VertexCount: count,
		Buffer:      packed.data,
	})
}
