// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/shader"
)

// State is the global render state a Device applies to clears and draws.
// It is a plain value: snapshots never alias the device's state.
type State struct {
	ClearColor   shader.Vec3
	ClearAlpha   float32
	ClearStencil uint8

	// AutoClear makes Device.Render clear color, depth and stencil first.
	AutoClear bool

	// ColorWrite and DepthWrite gate writes to the color and depth
	// buffers for every draw, on top of the material's own flags.
	ColorWrite bool
	DepthWrite bool

	Stencil StencilState
}

// StencilState configures the stencil test. When Test is false draws
// neither test nor modify the stencil buffer.
type StencilState struct {
	Test      bool
	Compare   gputypes.CompareFunction
	Ref       uint32
	ReadMask  uint32
	WriteMask uint32

	FailOp      gputypes.StencilOperation
	DepthFailOp gputypes.StencilOperation
	PassOp      gputypes.StencilOperation
}

// DefaultStencil returns a disabled stencil test with keep operations.
func DefaultStencil() StencilState {
	return StencilState{
		Compare:     gputypes.CompareFunctionAlways,
		ReadMask:    0xFF,
		WriteMask:   0xFF,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      gputypes.StencilOperationKeep,
	}
}

// DefaultState returns the state a new device starts with: opaque black
// clear color, auto-clear on, all writes enabled, no stencil test.
func DefaultState() State {
	return State{
		ClearAlpha: 1,
		AutoClear:  true,
		ColorWrite: true,
		DepthWrite: true,
		Stencil:    DefaultStencil(),
	}
}

// Acquire snapshots d's state and returns a function restoring it. Use it
// with defer so the restore runs on every exit path, errors included:
//
//	defer render.Acquire(dev)()
func Acquire(d Device) (restore func()) {
	saved := d.State()
	return func() { d.SetState(saved) }
}

// StencilFunc sets the stencil compare function and reference value,
// enabling the test, and returns the updated state.
func (s State) StencilFunc(compare gputypes.CompareFunction, ref uint32) State {
	s.Stencil.Test = true
	s.Stencil.Compare = compare
	s.Stencil.Ref = ref
	return s
}

// Compare evaluates a stencil or depth compare function for ref against
// the stored value.
func Compare(f gputypes.CompareFunction, ref, stored uint32) bool {
	switch f {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return ref < stored
	case gputypes.CompareFunctionEqual:
		return ref == stored
	case gputypes.CompareFunctionLessEqual:
		return ref <= stored
	case gputypes.CompareFunctionGreater:
		return ref > stored
	case gputypes.CompareFunctionNotEqual:
		return ref != stored
	case gputypes.CompareFunctionGreaterEqual:
		return ref >= stored
	default:
		return true
	}
}

// applyStencilOp computes the new stencil value for op.
func applyStencilOp(op gputypes.StencilOperation, cur uint8, ref uint32) uint8 {
	switch op {
	case gputypes.StencilOperationZero:
		return 0
	case gputypes.StencilOperationReplace:
		return uint8(ref)
	case gputypes.StencilOperationInvert:
		return ^cur
	case gputypes.StencilOperationIncrementClamp:
		if cur == 0xFF {
			return cur
		}
		return cur + 1
	case gputypes.StencilOperationDecrementClamp:
		if cur == 0 {
			return cur
		}
		return cur - 1
	case gputypes.StencilOperationIncrementWrap:
		return cur + 1
	case gputypes.StencilOperationDecrementWrap:
		return cur - 1
	default:
		return cur
	}
}
