// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"encoding/binary"
	"math"
)

// SlotSize is the byte size of one uniform slot (a vec4).
const SlotSize = 16

// UniformBinding is the binding index of the uniform buffer in group 0.
const UniformBinding = 0

// TextureBindings returns the texture and sampler binding indices of the
// i-th texture uniform in declaration order.
func TextureBindings(i int) (texture, sampler uint32) {
	return uint32(1 + 2*i), uint32(2 + 2*i)
}

// BufferSize returns the uniform buffer size in bytes. It is never zero so
// that every pipeline has a valid binding 0.
func (u *Uniforms) BufferSize() int {
	slots := 0
	for _, un := range u.list {
		slots += un.Slots()
	}
	return max(slots, 1) * SlotSize
}

// Pack serializes the non-texture uniforms into dst in declaration order,
// one slot per scalar or vector and one slot per array element, and returns
// the extended slice. Integers are stored as their two's-complement bits.
func (u *Uniforms) Pack(dst []byte) []byte {
	start := len(dst)
	for _, un := range u.list {
		switch un.Kind {
		case KindTexture:
		case KindFloat:
			dst = appendSlot(dst, Vec4{un.Value.Float})
		case KindInt:
			var slot [SlotSize]byte
			binary.LittleEndian.PutUint32(slot[:], uint32(un.Value.Int))
			dst = append(dst, slot[:]...)
		case KindFloatArray:
			for _, f := range un.Value.Floats {
				dst = appendSlot(dst, Vec4{f})
			}
		case KindVec3Array:
			for _, v := range un.Value.Vecs {
				dst = appendSlot(dst, v)
			}
		default:
			dst = appendSlot(dst, un.Value.Vec)
		}
	}
	if len(dst) == start {
		dst = appendSlot(dst, Vec4{})
	}
	return dst
}

func appendSlot(dst []byte, v Vec4) []byte {
	for _, f := range v {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
