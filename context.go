package glbridge

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gogpu/glbridge/assembler"
	"github.com/gogpu/glbridge/command"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/internal/logging"
	"github.com/gogpu/glbridge/texture"
)

// RecordingContext owns one instruction assembler and the command sink its
// draws flow into. Each producer of legacy API calls (one host render
// thread, one replay stream) installs exactly one context and feeds its
// instructions through it; the context itself performs no locking, so a
// single context must not be shared between concurrently-feeding callers.
type RecordingContext struct {
	name  string
	queue command.Queue
	asm   *assembler.Assembler
}

// NewRecordingContext creates a context feeding commands into queue. The
// texture lookup may be nil; textured draws then pack the sentinel slot.
func NewRecordingContext(name string, queue command.Queue, lookup texture.Lookup) *RecordingContext {
	return &RecordingContext{
		name:  name,
		queue: queue,
		asm:   assembler.New(queue, lookup),
	}
}

// Name returns the registry name the context installs under.
func (c *RecordingContext) Name() string { return c.name }

// Feed applies one decoded instruction to the context's assembler.
func (c *RecordingContext) Feed(in insn.Instruction) error {
	return c.asm.Feed(in)
}

// Assembler exposes the underlying state machine, mainly for inspection
// and tests.
func (c *RecordingContext) Assembler() *assembler.Assembler { return c.asm }

// Queue returns the command sink the context was created with.
func (c *RecordingContext) Queue() command.Queue { return c.queue }

// Registry state - protected by mutex for thread-safe access.
var (
	contextMu sync.RWMutex
	contexts  = make(map[string]*RecordingContext)
)

// Install registers the context as the active one for its name. The
// boundary layer calls Install once when a producer attaches and Uninstall
// when it detaches.
//
// Installing over an already-installed name is a hard error: it means two
// producers believe they own the same instruction slot, and continuing
// would interleave their state machines.
func Install(ctx *RecordingContext) error {
	if ctx == nil {
		return fmt.Errorf("glbridge: Install nil context")
	}
	contextMu.Lock()
	defer contextMu.Unlock()
	if _, dup := contexts[ctx.name]; dup {
		return fmt.Errorf("glbridge: context %q already installed", ctx.name)
	}
	contexts[ctx.name] = ctx
	logging.Logger().Info("recording context installed", slog.String("name", ctx.name))
	return nil
}

// MustInstall installs the context, panicking on a duplicate. For boundary
// layers that treat double installation as a programming error.
func MustInstall(ctx *RecordingContext) {
	if err := Install(ctx); err != nil {
		panic(err)
	}
}

// Uninstall removes and returns the context installed under name.
func Uninstall(name string) (*RecordingContext, error) {
	contextMu.Lock()
	defer contextMu.Unlock()
	ctx, ok := contexts[name]
	if !ok {
		return nil, fmt.Errorf("glbridge: context %q not installed", name)
	}
	delete(contexts, name)
	logging.Logger().Info("recording context uninstalled", slog.String("name", name))
	return ctx, nil
}

// Current returns the context installed under name.
func Current(name string) (*RecordingContext, bool) {
	contextMu.RLock()
	defer contextMu.RUnlock()
	ctx, ok := contexts[name]
	return ctx, ok
}

// Contexts returns the installed context names, sorted for stable output.
func Contexts() []string {
	contextMu.RLock()
	defer contextMu.RUnlock()
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
