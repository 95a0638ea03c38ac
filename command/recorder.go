package command

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/glbridge/dynpipe"
	"github.com/gogpu/glbridge/internal/logging"
)

// Target executes recorded commands against the GPU: binds compiled
// pipelines, uploads and draws vertex data, clears attachments. It is the
// boundary to the frame recording machinery this package does not own.
type Target interface {
	BindPipeline(p *dynpipe.CompiledPipeline, pushConstants []byte) error
	Draw(startVertex, vertexCount int, buffer []byte) error
	ClearDepth() error
}

// Recorder consumes the command stream immediately, compiling pipelines on
// demand and forwarding work to a Target. It implements Queue, so the
// assembler can feed it directly.
//
// Consecutive binds of the same spec with unchanged push constants are
// dropped; same spec with new push constants re-binds without recompiling.
// Compiled pipeline handles are retained until EndFrame so the compiler's
// sweep cannot reclaim a pipeline the in-flight frame still uses.
type Recorder struct {
	compiler *dynpipe.Compiler
	target   Target

	current     *dynpipe.CompiledPipeline
	currentPush PushConstants
	held        []*dynpipe.CompiledPipeline
}

// NewRecorder returns a recorder executing against target, compiling
// through compiler.
func NewRecorder(compiler *dynpipe.Compiler, target Target) *Recorder {
	return &Recorder{compiler: compiler, target: target}
}

// Push consumes one command. Draw commands issued before any bind are
// dropped with a warning; a malformed stream must not take the process down.
func (r *Recorder) Push(cmd Command) error {
	switch c := cmd.(type) {
	case BindPipeline:
		return r.bind(c)
	case Draw:
		if r.current == nil {
			logging.Logger().Warn("draw before any pipeline bind, dropping")
			return nil
		}
		return r.target.Draw(c.StartVertex, c.VertexCount, c.Buffer)
	case ClearDepth:
		return r.target.ClearDepth()
	default:
		logging.Logger().Warn("unknown command type",
			slog.String("command", cmd.Type().String()))
		return nil
	}
}

func (r *Recorder) bind(c BindPipeline) error {
	if r.current != nil && r.current.Spec == c.Spec {
		if r.currentPush == c.Push {
			return nil
		}
		// Same pipeline, new push constants.
		r.currentPush = c.Push
		return r.target.BindPipeline(r.current, c.Push.Bytes())
	}

	p, err := r.compiler.Compile(c.Spec)
	if err != nil {
		return fmt.Errorf("command: bind: %w", err)
	}
	r.held = append(r.held, p)
	r.current = p
	r.currentPush = c.Push
	return r.target.BindPipeline(p, c.Push.Bytes())
}

// EndFrame releases every pipeline handle acquired during the frame and
// resets the bind state. Call after the frame's command buffer has been
// submitted.
func (r *Recorder) EndFrame() {
	for _, p := range r.held {
		r.compiler.Release(p)
	}
	r.held = r.held[:0]
	r.current = nil
	r.currentPush = PushConstants{}
}
