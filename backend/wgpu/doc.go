// Package wgpu implements dynpipe.Device over the gogpu/wgpu HAL.
//
// The package translates pipeline specifications into WebGPU render
// pipelines: WGSL shader text is compiled directly or lowered to SPIR-V
// through gogpu/naga, vertex layouts become vertex buffer attribute
// tables, and push-constant data sources are emulated with a uniform
// binding at group 0, binding 0 since WebGPU has no push constants.
//
// Legacy primitive topologies WebGPU cannot express (triangle fans,
// line loops, adjacency variants) fall back to the nearest supported
// topology with a warning; callers that need exact fan semantics must
// re-index before submission.
package wgpu
