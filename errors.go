package postfx

import "errors"

// Configuration errors. A pass returning one of these has produced no
// output for the frame; the compositor stops and reports it rather than
// continuing with a partially composited image.
var (
	// ErrInvalidBuffer is returned when a pass receives a nil device or a
	// nil read/write buffer it needs.
	ErrInvalidBuffer = errors.New("postfx: invalid buffer")

	// ErrMissingUniform is returned when a shader does not declare a
	// uniform a pass binds by name.
	ErrMissingUniform = errors.New("postfx: missing uniform")

	// ErrNilMaterial is returned when a draw is issued without a material.
	ErrNilMaterial = errors.New("postfx: nil material")

	// ErrInvalidSize is returned for non-positive target dimensions or
	// pixel ratios.
	ErrInvalidSize = errors.New("postfx: invalid size")

	// ErrDisposed is returned when a disposed resource is used.
	ErrDisposed = errors.New("postfx: resource disposed")

	// ErrNoDevice is returned when a GPU device cannot be obtained from a
	// host provider.
	ErrNoDevice = errors.New("postfx: no device")
)
