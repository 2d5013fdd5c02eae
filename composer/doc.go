// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package composer drives a chain of post-processing passes.
//
// An EffectComposer owns two off-screen buffers of identical size and
// format. Each frame it hands every enabled pass the current write and read
// buffers, swaps their roles after passes that write a fresh image, and
// sends the last enabled pass to the screen.
//
// Stencil masks are tracked from pass roles: after a mask-begin pass, swaps
// first copy the unmasked region forward so both buffers stay complete.
//
// An EffectComposer is not safe for concurrent use.
package composer
