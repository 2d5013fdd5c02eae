// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader defines uniform bags, shaders and materials for postfx.
//
// A Shader is a definition: default uniform values, WGSL source for GPU
// devices and a fragment program for the CPU reference device. A Material is
// an instance of a Shader with its own deep copy of the uniforms, so two
// passes built from the same Shader never share state.
//
// Uniforms are packed for the GPU in declaration order, one 16-byte slot per
// scalar or vector and one slot per array element, into binding 0 of group 0.
// Texture uniforms take a texture binding followed by a sampler binding,
// starting at binding 1. The built-in WGSL sources in shaders/ follow this
// layout.
package shader
