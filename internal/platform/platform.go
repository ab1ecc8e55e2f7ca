// Package platform defines the host platform capability the runtime core
// consumes (spec §6): window/input/vsync, modeled as a polymorphic handle
// the same way the PPU is, with concrete backends in ebitenplatform and
// sdlplatform.
package platform

// Platform is the capability contract consumed by the tick loop.
type Platform interface {
	Init(scale int) bool
	Shutdown()
	PollEvents() bool // false means a quit was requested
	RenderFrame(framebuffer []uint32)
	VSync()
	SetTitle(title string)
}

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)
