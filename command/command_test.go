package command

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/math32"
)

func TestTypeString(t *testing.T) {
	if got := TypeBindPipeline.String(); got != "BindPipeline" {
		t.Errorf("got %q", got)
	}
	if got := Type(99).String(); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}

func TestPushConstantsBytes(t *testing.T) {
	p := PushConstants{MVP: math32.Identity()}
	b := p.Bytes()
	if len(b) != 64 {
		t.Fatalf("len = %d, want 64", len(b))
	}
	// Column-major identity: 1.0 at offsets 0, 20, 40, 60.
	one := math.Float32bits(1)
	for _, off := range []int{0, 20, 40, 60} {
		if got := binary.LittleEndian.Uint32(b[off:]); got != one {
			t.Errorf("offset %d = %#x, want 1.0 bits", off, got)
		}
	}

	p.HasColor = true
	p.Color = math32.V4(0, 0.5, 0, 1)
	b = p.Bytes()
	if len(b) != 80 {
		t.Fatalf("len = %d, want 80 with color", len(b))
	}
	if got := binary.LittleEndian.Uint32(b[68:]); got != math.Float32bits(0.5) {
		t.Errorf("color.g bits = %#x", got)
	}
}

func TestBufferedQueueOrder(t *testing.T) {
	q := NewBuffered()
	_ = q.Push(ClearDepth{})
	_ = q.Push(Draw{VertexCount: 3})
	_ = q.Push(Draw{VertexCount: 6})

	cmds := q.Commands()
	if len(cmds) != 3 {
		t.Fatalf("len = %d, want 3", len(cmds))
	}
	if cmds[0].Type() != TypeClearDepth {
		t.Errorf("cmds[0] = %s", cmds[0].Type())
	}
	if d, ok := cmds[1].(Draw); !ok || d.VertexCount != 3 {
		t.Errorf("cmds[1] = %#v", cmds[1])
	}
	if d, ok := cmds[2].(Draw); !ok || d.VertexCount != 6 {
		t.Errorf("cmds[2] = %#v", cmds[2])
	}

	q.Reset()
	if q.Len() != 0 {
		t.Errorf("len after reset = %d", q.Len())
	}
}

func TestAsyncQueue(t *testing.T) {
	q := NewAsync(2)
	_ = q.Push(Draw{VertexCount: 1})
	_ = q.Push(Draw{VertexCount: 2})
	// Channel full: this push must not block.
	_ = q.Push(Draw{VertexCount: 3})

	got := []Command{<-q.Commands(), <-q.Commands()}
	if d := got[0].(Draw); d.VertexCount != 1 {
		t.Errorf("first = %d, want 1", d.VertexCount)
	}
	if d := got[1].(Draw); d.VertexCount != 2 {
		t.Errorf("second = %d, want 2", d.VertexCount)
	}

	q.Close()
	q.Close() // idempotent
	if _, ok := <-q.Commands(); ok {
		t.Error("channel should be closed and drained")
	}
}

// nullDevice satisfies dynpipe.Device with monotonically increasing IDs.
type nullDevice struct{ next uint64 }

func (d *nullDevice) CreateShaderModule(*dynpipe.ShaderModuleDescriptor) (dynpipe.ShaderModuleID, error) {
	d.next++
	return dynpipe.ShaderModuleID(d.next), nil
}
func (d *nullDevice) DestroyShaderModule(dynpipe.ShaderModuleID) {}
func (d *nullDevice) CreateRenderPipeline(*dynpipe.RenderPipelineDescriptor) (dynpipe.PipelineID, error) {
	d.next++
	return dynpipe.PipelineID(d.next), nil
}
func (d *nullDevice) DestroyRenderPipeline(dynpipe.PipelineID) {}

// countingTarget records executed calls.
type countingTarget struct {
	binds  int
	draws  int
	clears int
}

func (t *countingTarget) BindPipeline(*dynpipe.CompiledPipeline, []byte) error {
	t.binds++
	return nil
}
func (t *countingTarget) Draw(_, _ int, _ []byte) error { t.draws++; return nil }
func (t *countingTarget) ClearDepth() error             { t.clears++; return nil }

func flatSpec() dynpipe.PipelineSpec {
	var layout dynpipe.VertexLayout
	layout.Set(dynpipe.InputPosition, insn.F32, 3)
	layout.AlignTo(4)
	return dynpipe.PipelineSpec{
		Mode:   insn.Triangles,
		Layout: layout,
		Color:  dynpipe.FlatColor(dynpipe.PushConstant()),
		Matrix: dynpipe.MVPPushConstant(),
		Raster: dynpipe.DefaultRasterization(),
	}
}

func TestRecorderDedupesBinds(t *testing.T) {
	compiler, err := dynpipe.NewCompiler(&nullDevice{}, dynpipe.CompilerOptions{})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	target := &countingTarget{}
	r := NewRecorder(compiler, target)

	push := PushConstants{MVP: math32.Identity(), HasColor: true, Color: math32.V4(1, 1, 1, 1)}

	// Identical consecutive binds collapse to one.
	for i := 0; i < 3; i++ {
		if err := r.Push(BindPipeline{Spec: flatSpec(), Push: push}); err != nil {
			t.Fatalf("bind %d: %v", i, err)
		}
	}
	if target.binds != 1 {
		t.Errorf("binds = %d, want 1", target.binds)
	}

	// Same spec, changed push constants: re-bind, no recompile.
	push.Color = math32.V4(1, 0, 0, 1)
	if err := r.Push(BindPipeline{Spec: flatSpec(), Push: push}); err != nil {
		t.Fatalf("re-bind: %v", err)
	}
	if target.binds != 2 {
		t.Errorf("binds = %d, want 2", target.binds)
	}
	if st := compiler.Stats(); st.PipelineMisses != 1 {
		t.Errorf("pipeline misses = %d, want 1", st.PipelineMisses)
	}

	if err := r.Push(Draw{VertexCount: 3}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if target.draws != 1 {
		t.Errorf("draws = %d, want 1", target.draws)
	}

	// EndFrame releases every held handle; sweep can then reclaim.
	r.EndFrame()
	if n := compiler.Sweep(); n != 1 {
		t.Errorf("sweep = %d, want 1", n)
	}
}

func TestRecorderDrawBeforeBind(t *testing.T) {
	compiler, err := dynpipe.NewCompiler(&nullDevice{}, dynpipe.CompilerOptions{})
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	target := &countingTarget{}
	r := NewRecorder(compiler, target)

	if err := r.Push(Draw{VertexCount: 3}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if target.draws != 0 {
		t.Errorf("draws = %d, want 0 (dropped)", target.draws)
	}
	if err := r.Push(ClearDepth{}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if target.clears != 1 {
		t.Errorf("clears = %d, want 1", target.clears)
	}
}
