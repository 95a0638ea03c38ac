package wgpu

import (
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// shaderSource wraps WGSL text for the HAL, lowering to SPIR-V through
// naga when the device was configured for it.
func (d *Device) shaderSource(wgsl string) (hal.ShaderSource, error) {
	if !d.opts.PrecompileSPIRV {
		return hal.ShaderSource{WGSL: wgsl}, nil
	}
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: spirvWords(spirv)}, nil
}

// spirvWords reassembles little-endian SPIR-V bytes into the word stream
// the HAL expects. A trailing partial word is dropped.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
