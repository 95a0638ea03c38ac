// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture implements the texture lookup collaborator used during
// vertex packing: it maps legacy texture ids onto slots of a layered atlas
// texture, so many small textures batch into one bindable GPU resource.
// Unknown ids resolve to a missing-texture sentinel instead of failing.
package texture

// Resolution is the result of resolving a texture id for one vertex.
type Resolution struct {
	// Array selects which atlas texture array holds the slot. A single
	// atlas always reports 0.
	Array int
	// Slot is the layer index within the array, packed per-vertex into the
	// texture-index vertex field.
	Slot uint16
	// Missing is set when the id was not registered and the sentinel slot
	// was substituted.
	Missing bool
	// U, V are the input coordinates transformed into the slot's UV space.
	U, V float32
}

// Lookup resolves bound texture ids during vertex packing.
type Lookup interface {
	// Resolve maps a texture id and vertex UV to an atlas location. It must
	// not fail: unresolved ids return the sentinel with Missing set.
	Resolve(textureID uint32, u, v float32) Resolution
}
