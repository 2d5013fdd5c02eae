// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pass provides the post-processing passes run by an effect
// composer, and the full-screen quad they draw with.
//
// Every pass implements Pass. A pass reads the previous pass's output from
// the read buffer and writes into the write buffer, or onto the screen when
// it is the last enabled pass. Passes that write in place, or only touch the
// stencil buffer, clear NeedsSwap so the composer keeps the buffer roles.
//
// Passes are not safe for concurrent use.
package pass
