// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"sync"

	"github.com/chewxy/math32"
)

// MaxKernelRadius is the largest blur kernel radius the built-in blur
// shader accepts. The coefficient array in the WGSL source has this length.
const MaxKernelRadius = 11

// GaussianCoefficients returns the one-sided weights of a separable blur
// kernel: weight i is the normal density at distance i with sigma equal to
// kernelRadius, for i in [0, kernelRadius). The shader normalizes by the
// running weight sum, so the coefficients are not normalized here.
func GaussianCoefficients(kernelRadius int) []float32 {
	if kernelRadius <= 0 {
		return []float32{1}
	}
	sigma := float32(kernelRadius)
	coeffs := make([]float32, kernelRadius)
	for i := range coeffs {
		x := float32(i)
		coeffs[i] = 0.39894 * math32.Exp(-0.5*x*x/(sigma*sigma)) / sigma
	}
	return coeffs
}

// coefficientCache memoizes coefficient tables. Bloom passes rebuild their
// blur materials on every resize and always ask for the same few radii.
type coefficientCache struct {
	mu    sync.RWMutex
	cache map[int][]float32
}

var defaultCoefficientCache = &coefficientCache{cache: make(map[int][]float32)}

func (c *coefficientCache) get(kernelRadius int) []float32 {
	c.mu.RLock()
	if coeffs, ok := c.cache[kernelRadius]; ok {
		c.mu.RUnlock()
		return coeffs
	}
	c.mu.RUnlock()

	coeffs := GaussianCoefficients(kernelRadius)

	c.mu.Lock()
	c.cache[kernelRadius] = coeffs
	c.mu.Unlock()
	return coeffs
}

// CachedGaussianCoefficients returns a shared coefficient table for
// kernelRadius. Callers must not modify it; FloatArray copies it.
func CachedGaussianCoefficients(kernelRadius int) []float32 {
	return defaultCoefficientCache.get(kernelRadius)
}
