// Package glbridge translates a legacy immediate-mode graphics API into
// explicit GPU pipeline and draw commands.
//
// # Overview
//
// glbridge sits behind a foreign-function boundary: a host application
// issues classic state-machine calls (matrix stacks, enable/disable flags,
// client vertex arrays, draw calls) one at a time, and glbridge assembles
// them into packed vertex buffers, cacheable pipeline specifications and
// batched command submissions for a modern GPU backend.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glbridge"
//	    "github.com/gogpu/glbridge/command"
//	    "github.com/gogpu/glbridge/insn"
//	)
//
//	queue := command.NewBuffered()
//	ctx := glbridge.NewRecordingContext("main", queue, nil)
//	if err := glbridge.Install(ctx); err != nil {
//	    // a context is already installed under this name
//	}
//
//	ctx.Feed(insn.SetClientState{Kind: insn.VertexArray, Enabled: true})
//	ctx.Feed(insn.SetPointer{Kind: insn.VertexArray, ElemCount: 3, Type: insn.F32, Data: verts})
//	ctx.Feed(insn.DrawArrays{Mode: insn.Triangles, Count: 3})
//
// # Architecture
//
// The library is organized into:
//   - insn: the render instruction stream, one value per legacy call
//   - assembler: the state machine (matrix stacks, client arrays, packing)
//   - dynpipe: pipeline specification, shader generation and caching
//   - command: the render command stream and its queue variants
//   - texture: the atlas-based texture lookup collaborator
//   - backend/wgpu: the dynpipe.Device implementation over gogpu/wgpu
//
// A RecordingContext binds one assembler to one command sink. Contexts are
// installed into a process-wide registry by the boundary layer; installing
// two contexts under one name fails loudly rather than interleaving state.
//
// # Logging
//
// glbridge is silent by default. Protocol misuse from the host (draws
// without a position array, mismatched array lengths) degrades gracefully
// with warnings; call SetLogger to see them.
package glbridge

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
