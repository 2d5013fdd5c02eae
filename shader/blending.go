// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "github.com/gogpu/gputypes"

// Blending selects how a material's output combines with the target.
type Blending uint8

const (
	// NoBlending overwrites the target.
	NoBlending Blending = iota

	// NormalBlending is straight-alpha "over" compositing.
	NormalBlending

	// AdditiveBlending adds source color to the target and leaves target
	// alpha untouched. A zero source leaves the target bit-identical.
	AdditiveBlending
)

func (b Blending) String() string {
	switch b {
	case NoBlending:
		return "none"
	case NormalBlending:
		return "normal"
	case AdditiveBlending:
		return "additive"
	default:
		return "unknown"
	}
}

// State returns the equivalent fixed-function blend state, or nil for
// NoBlending.
func (b Blending) State() *gputypes.BlendState {
	switch b {
	case NormalBlending:
		return &gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case AdditiveBlending:
		return &gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorZero,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}

// Blend evaluates the blend equation on the CPU.
func (b Blending) Blend(src, dst Vec4) Vec4 {
	switch b {
	case NormalBlending:
		ia := 1 - src[3]
		return Vec4{
			src[0]*src[3] + dst[0]*ia,
			src[1]*src[3] + dst[1]*ia,
			src[2]*src[3] + dst[2]*ia,
			src[3] + dst[3]*ia,
		}
	case AdditiveBlending:
		return Vec4{src[0] + dst[0], src[1] + dst[1], src[2] + dst[2], dst[3]}
	default:
		return src
	}
}
