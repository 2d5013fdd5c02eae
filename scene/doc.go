// Package scene provides the minimal scene content postfx needs to render a
// frame: a mesh list implementing render.Scene, orthographic and
// perspective cameras, and textured sprites.
//
// It is deliberately small. Real applications bring their own scene graph
// and adapt it to render.Scene; this package serves tests, examples and the
// postfxdemo command.
package scene
