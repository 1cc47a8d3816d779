// Package renderer drives a tracing backend: it owns the output buffers,
// the frame accumulation loop and (optionally) an interactive OpenGL view.
package renderer

type Renderer interface {
	// Render frames until done (frame budget reached, or window closed
	// for interactive renderers).
	Render() error

	// FrameBuffer exposes the tone-mapped RGBA8 pixels of the most
	// recent frame.
	FrameBuffer() []uint8

	// Get render statistics.
	Stats() FrameStats

	// Shutdown renderer and the attached tracer.
	Close()
}
