package wgpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Provider errors.
var (
	// ErrNilProvider is returned by FromProvider for a nil provider.
	ErrNilProvider = errors.New("wgpu: nil device provider")

	// ErrNotHALDevice is returned when the provider's device is not backed
	// by the gogpu/wgpu HAL.
	ErrNotHALDevice = errors.New("wgpu: provider device is not a hal.Device")
)

// FromProvider builds a Device from a gpucontext device provider, the way
// windowing integrations hand GPU devices around in the gogpu family. The
// color format defaults to the provider's surface format.
func FromProvider(p gpucontext.DeviceProvider, opts Options) (*Device, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	device, ok := p.Device().(hal.Device)
	if !ok {
		return nil, ErrNotHALDevice
	}
	if opts.ColorFormat == 0 {
		opts.ColorFormat = p.SurfaceFormat()
	}
	return New(device, opts)
}
