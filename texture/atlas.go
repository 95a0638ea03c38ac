// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/glbridge/internal/logging"
)

// Atlas defaults. Slots are square and uniform; sprites of other sizes are
// rescaled at registration time.
const (
	DefaultSlotSize = 64
	DefaultSlots    = 256
)

// MissingSlot is the reserved sentinel layer substituted for unresolved
// texture ids. It holds a magenta/black checkerboard so missing textures
// are visible rather than invisible.
const MissingSlot uint16 = 0

// ErrAtlasFull is returned by Register when no free slot remains.
var ErrAtlasFull = errors.New("texture: atlas full")

// AtlasOptions configures a new atlas. Zero values select defaults.
type AtlasOptions struct {
	SlotSize int
	Slots    int
}

// sprite is one registered texture: a static sprite has a single frame;
// animated sprites cycle through their frames every FrameTicks ticks.
type sprite struct {
	frames     []uint16
	frameTicks int
}

// Atlas is a layered texture holding many equally-sized sprites, one per
// layer. It implements Lookup. Safe for concurrent use: packing reads
// resolve concurrently with registration from loader goroutines.
type Atlas struct {
	mu       sync.RWMutex
	slotSize int
	slots    int
	sprites  map[uint32]*sprite
	nextSlot uint16
	pixels   []byte // slots * slotSize * slotSize * 4, RGBA8, layer-major
	dirty    bool
	tick     uint64
}

// NewAtlas creates an atlas with the sentinel slot initialized.
func NewAtlas(opts AtlasOptions) *Atlas {
	slotSize := opts.SlotSize
	if slotSize <= 0 {
		slotSize = DefaultSlotSize
	}
	slots := opts.Slots
	if slots <= 0 {
		slots = DefaultSlots
	}
	a := &Atlas{
		slotSize: slotSize,
		slots:    slots,
		sprites:  make(map[uint32]*sprite),
		nextSlot: MissingSlot + 1,
		pixels:   make([]byte, slots*slotSize*slotSize*4),
		dirty:    true,
	}
	a.writeCheckerboard(MissingSlot)
	return a
}

// writeCheckerboard fills a slot with the missing-texture pattern.
func (a *Atlas) writeCheckerboard(slot uint16) {
	base := int(slot) * a.slotSize * a.slotSize * 4
	half := a.slotSize / 2
	for y := 0; y < a.slotSize; y++ {
		for x := 0; x < a.slotSize; x++ {
			i := base + (y*a.slotSize+x)*4
			if (x < half) == (y < half) {
				a.pixels[i] = 0xFF // magenta
				a.pixels[i+2] = 0xFF
			}
			a.pixels[i+3] = 0xFF
		}
	}
}

// Register assigns a slot to id and uploads the sprite image into it,
// rescaling when the image is not exactly slot-sized. Re-registering an id
// replaces its pixels in place.
func (a *Atlas) Register(id uint32, img image.Image) error {
	return a.RegisterAnimated(id, []image.Image{img}, 0)
}

// RegisterAnimated registers an id whose sprite cycles through frames,
// advancing every frameTicks calls to Advance. Each frame occupies its own
// slot.
func (a *Atlas) RegisterAnimated(id uint32, frames []image.Image, frameTicks int) error {
	if len(frames) == 0 {
		return fmt.Errorf("texture: register %d: no frames", id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sp := a.sprites[id]
	if sp == nil || len(sp.frames) != len(frames) {
		slots := make([]uint16, len(frames))
		for i := range slots {
			if int(a.nextSlot) >= a.slots {
				return fmt.Errorf("texture: register %d: %w", id, ErrAtlasFull)
			}
			slots[i] = a.nextSlot
			a.nextSlot++
		}
		sp = &sprite{frames: slots}
		a.sprites[id] = sp
	}
	sp.frameTicks = frameTicks

	for i, img := range frames {
		a.blit(sp.frames[i], img)
	}
	a.dirty = true
	return nil
}

// blit scales img into the slot's pixel rectangle. Caller holds the lock.
func (a *Atlas) blit(slot uint16, img image.Image) {
	base := int(slot) * a.slotSize * a.slotSize * 4
	dst := &image.RGBA{
		Pix:    a.pixels[base : base+a.slotSize*a.slotSize*4],
		Stride: a.slotSize * 4,
		Rect:   image.Rect(0, 0, a.slotSize, a.slotSize),
	}
	bounds := img.Bounds()
	if bounds.Dx() == a.slotSize && bounds.Dy() == a.slotSize {
		draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
		return
	}
	logging.Logger().Debug("rescaling sprite into atlas slot",
		slog.Int("width", bounds.Dx()),
		slog.Int("height", bounds.Dy()),
		slog.Int("slot_size", a.slotSize))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, img, bounds, draw.Src, nil)
}

// Resolve implements Lookup. The UV transform is the identity for a
// one-sprite-per-layer atlas; coordinates outside [0,1] wrap, matching the
// legacy repeat addressing draws rely on.
func (a *Atlas) Resolve(textureID uint32, u, v float32) Resolution {
	a.mu.RLock()
	sp := a.sprites[textureID]
	tick := a.tick
	a.mu.RUnlock()

	if sp == nil {
		return Resolution{Slot: MissingSlot, Missing: true, U: wrap(u), V: wrap(v)}
	}
	slot := sp.frames[0]
	if sp.frameTicks > 0 && len(sp.frames) > 1 {
		slot = sp.frames[(tick/uint64(sp.frameTicks))%uint64(len(sp.frames))]
	}
	return Resolution{Slot: slot, U: wrap(u), V: wrap(v)}
}

// wrap maps a coordinate into [0,1) repeat-style, keeping 1.0 as 1.0 so
// edge-aligned quads don't fold onto the opposite edge.
func wrap(c float32) float32 {
	if c >= 0 && c <= 1 {
		return c
	}
	w := c - float32(int(c))
	if w < 0 {
		w++
	}
	return w
}

// Advance ticks the animation clock. Call once per frame.
func (a *Atlas) Advance() {
	a.mu.Lock()
	a.tick++
	a.mu.Unlock()
}

// Extent returns the GPU texture extent of the atlas: one layer per slot.
func (a *Atlas) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(a.slotSize),
		Height:             uint32(a.slotSize),
		DepthOrArrayLayers: uint32(a.slots),
	}
}

// Format returns the pixel format of the staging data.
func (a *Atlas) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns the staging pixel data, layer-major RGBA8, and whether it
// changed since the last MarkClean. The uploader copies the data to the GPU
// and then calls MarkClean.
func (a *Atlas) Pixels() (data []byte, dirty bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pixels, a.dirty
}

// MarkClean clears the dirty flag after an upload.
func (a *Atlas) MarkClean() {
	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()
}
