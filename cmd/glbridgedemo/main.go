// Command glbridgedemo feeds a synthetic legacy-API instruction stream
// through a recording context and dumps the render commands it produces.
// It exercises the full assembly path (matrix stacks, client arrays,
// vertex packing, pipeline spec derivation) without touching a GPU.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/glbridge"
	"github.com/gogpu/glbridge/command"
	"github.com/gogpu/glbridge/insn"
	"github.com/gogpu/glbridge/math32"
)

func main() {
	var (
		frames  = flag.Int("frames", 3, "number of frames to record")
		spokes  = flag.Int("spokes", 8, "triangles per frame")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		glbridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	queue := command.NewBuffered()
	ctx := glbridge.NewRecordingContext("demo", queue, nil)
	if err := glbridge.Install(ctx); err != nil {
		log.Fatalf("install context: %v", err)
	}
	defer func() {
		if _, err := glbridge.Uninstall("demo"); err != nil {
			log.Printf("uninstall context: %v", err)
		}
	}()

	feed(ctx, insn.SetMatrixMode{Mode: insn.Projection})
	feed(ctx, insn.LoadIdentity{})
	feed(ctx, insn.Ortho{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: -1, Far: 1})
	feed(ctx, insn.SetMatrixMode{Mode: insn.ModelView})
	feed(ctx, insn.LoadIdentity{})

	feed(ctx, insn.SetClientState{Kind: insn.VertexArray, Enabled: true})
	feed(ctx, insn.SetClientState{Kind: insn.ColorArray, Enabled: true})

	verts, colors := fan(*spokes)
	feed(ctx, insn.SetPointer{Kind: insn.VertexArray, ElemCount: 3, Type: insn.F32, Data: verts})
	feed(ctx, insn.SetPointer{Kind: insn.ColorArray, ElemCount: 4, Type: insn.U8, Data: colors})

	for frame := 0; frame < *frames; frame++ {
		feed(ctx, insn.ClearDepth{})
		feed(ctx, insn.PushMatrix{})
		feed(ctx, insn.Rotate{Angle: float32(frame) * 15, Axis: math32.V3(0, 0, 1)})
		feed(ctx, insn.DrawArrays{Mode: insn.Triangles, Count: *spokes * 3})
		feed(ctx, insn.PopMatrix{})
	}

	dump(queue.Commands())
}

func feed(ctx *glbridge.RecordingContext, in insn.Instruction) {
	if err := ctx.Feed(in); err != nil {
		log.Fatalf("feed %s: %v", in.Op(), err)
	}
}

// fan builds a triangle fan around the origin as independent triangles,
// with a color gradient around the hue circle.
func fan(spokes int) (verts, colors []byte) {
	put := func(x, y float32) {
		verts = binary.LittleEndian.AppendUint32(verts, math.Float32bits(x))
		verts = binary.LittleEndian.AppendUint32(verts, math.Float32bits(y))
		verts = binary.LittleEndian.AppendUint32(verts, math.Float32bits(0))
	}
	tint := func(i int) {
		t := float64(i) / float64(spokes)
		colors = append(colors,
			byte(255*(0.5+0.5*math.Cos(2*math.Pi*t))),
			byte(255*(0.5+0.5*math.Sin(2*math.Pi*t))),
			128, 255)
	}
	for i := 0; i < spokes; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(spokes)
		a1 := 2 * math.Pi * float64(i+1) / float64(spokes)
		put(0, 0)
		tint(i)
		put(0.8*float32(math.Cos(a0)), 0.8*float32(math.Sin(a0)))
		tint(i)
		put(0.8*float32(math.Cos(a1)), 0.8*float32(math.Sin(a1)))
		tint(i + 1)
	}
	return verts, colors
}

func dump(cmds []command.Command) {
	for i, cmd := range cmds {
		switch c := cmd.(type) {
		case command.BindPipeline:
			fmt.Printf("%3d bind_pipeline mode=%s stride=%d color=%d blend=%d\n",
				i, c.Spec.Mode, c.Spec.Layout.Stride, c.Spec.Color.Kind, c.Spec.Raster.Blend)
		case command.Draw:
			fmt.Printf("%3d draw start=%d count=%d bytes=%d\n",
				i, c.StartVertex, c.VertexCount, len(c.Buffer))
		case command.ClearDepth:
			fmt.Printf("%3d clear_depth\n", i)
		default:
			fmt.Printf("%3d %s\n", i, cmd.Type())
		}
	}
	fmt.Printf("total: %d commands\n", len(cmds))
}
