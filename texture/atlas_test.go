package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestResolveMissing(t *testing.T) {
	a := NewAtlas(AtlasOptions{SlotSize: 8, Slots: 4})

	res := a.Resolve(42, 0.25, 0.75)
	if !res.Missing {
		t.Error("unregistered id should resolve as missing")
	}
	if res.Slot != MissingSlot {
		t.Errorf("slot = %d, want sentinel %d", res.Slot, MissingSlot)
	}
	if res.U != 0.25 || res.V != 0.75 {
		t.Errorf("uv = (%v, %v), want (0.25, 0.75)", res.U, res.V)
	}
}

func TestRegisterAndResolve(t *testing.T) {
	a := NewAtlas(AtlasOptions{SlotSize: 8, Slots: 4})

	red := color.RGBA{R: 0xFF, A: 0xFF}
	if err := a.Register(7, solidImage(8, red)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res := a.Resolve(7, 0, 0)
	if res.Missing {
		t.Error("registered id resolved as missing")
	}
	if res.Slot == MissingSlot {
		t.Error("registered id resolved to the sentinel slot")
	}

	// The slot's pixels carry the sprite.
	pixels, dirty := a.Pixels()
	if !dirty {
		t.Error("atlas should be dirty after registration")
	}
	base := int(res.Slot) * 8 * 8 * 4
	if pixels[base] != 0xFF || pixels[base+1] != 0 || pixels[base+3] != 0xFF {
		t.Errorf("slot pixel = %v", pixels[base:base+4])
	}

	a.MarkClean()
	if _, dirty := a.Pixels(); dirty {
		t.Error("atlas should be clean after MarkClean")
	}
}

func TestRegisterRescales(t *testing.T) {
	a := NewAtlas(AtlasOptions{SlotSize: 8, Slots: 4})

	// 16x16 source scales down into an 8x8 slot.
	green := color.RGBA{G: 0xFF, A: 0xFF}
	if err := a.Register(1, solidImage(16, green)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res := a.Resolve(1, 0, 0)
	pixels, _ := a.Pixels()
	base := int(res.Slot) * 8 * 8 * 4
	if pixels[base+1] != 0xFF {
		t.Errorf("scaled pixel = %v, want green", pixels[base:base+4])
	}
}

func TestAtlasFull(t *testing.T) {
	// Slot 0 is the sentinel, so only one slot is assignable.
	a := NewAtlas(AtlasOptions{SlotSize: 4, Slots: 2})
	img := solidImage(4, color.RGBA{A: 0xFF})

	if err := a.Register(1, img); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := a.Register(2, img); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("got %v, want ErrAtlasFull", err)
	}
}

func TestAnimatedResolve(t *testing.T) {
	a := NewAtlas(AtlasOptions{SlotSize: 4, Slots: 8})
	frames := []image.Image{
		solidImage(4, color.RGBA{R: 0xFF, A: 0xFF}),
		solidImage(4, color.RGBA{B: 0xFF, A: 0xFF}),
	}
	if err := a.RegisterAnimated(5, frames, 2); err != nil {
		t.Fatalf("RegisterAnimated: %v", err)
	}

	first := a.Resolve(5, 0, 0).Slot
	a.Advance()
	if got := a.Resolve(5, 0, 0).Slot; got != first {
		t.Errorf("slot changed after 1 tick with frameTicks=2: %d -> %d", first, got)
	}
	a.Advance()
	if got := a.Resolve(5, 0, 0).Slot; got == first {
		t.Error("slot should advance after frameTicks ticks")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0}, {1, 1}, {0.5, 0.5}, {1.25, 0.25}, {-0.25, 0.75}, {2.5, 0.5},
	}
	for _, tt := range tests {
		if got := wrap(tt.in); got != tt.want {
			t.Errorf("wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtent(t *testing.T) {
	a := NewAtlas(AtlasOptions{SlotSize: 16, Slots: 32})
	e := a.Extent()
	if e.Width != 16 || e.Height != 16 || e.DepthOrArrayLayers != 32 {
		t.Errorf("extent = %+v", e)
	}
}
