// Package ebitenplatform implements platform.Platform on top of ebiten,
// the teacher's windowing/input library. It bridges ebiten's push-style
// game loop (RunGame drives Update/Draw on its own goroutine, paced to the
// display) to the runtime core's pull-style tick loop by running RunGame on
// a separate goroutine and exchanging state through a mutex-guarded
// framebuffer handoff, the same shape the teacher's ebitenapp.go uses for
// its own emulation/UI split.
package ebitenplatform

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dmgcore/runtime/internal/machine"
	"github.com/dmgcore/runtime/internal/platform"
)

const (
	screenW = platform.ScreenWidth
	screenH = platform.ScreenHeight
)

// Platform is the ebiten-backed platform.Platform implementation.
type Platform struct {
	joypad *machine.JoypadState
	scale  int
	title  string

	mu        sync.Mutex
	pendingFB []uint32
	quit      bool

	frame *ebiten.Image
}

// New constructs a Platform driving input into joypad at the given window
// scale factor.
func New(joypad *machine.JoypadState, scale int) *Platform {
	if scale < 1 {
		scale = 1
	}
	return &Platform{
		joypad: joypad,
		scale:  scale,
		title:  "DMG Core",
		frame:  ebiten.NewImage(screenW, screenH),
	}
}

// Init starts the ebiten game loop on its own goroutine. ebiten.RunGame
// blocks its calling goroutine for the process lifetime, so it cannot run
// on the same goroutine the emulation tick loop drives.
func (p *Platform) Init(scale int) bool {
	p.scale = scale
	ebiten.SetWindowSize(screenW*p.scale, screenH*p.scale)
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowResizable(true)

	go func() {
		_ = ebiten.RunGame(p)
	}()
	return true
}

// Shutdown is a no-op; ebiten has no externally-triggerable stop short of
// Update returning ebiten.Termination, which PollEvents' quit flag drives.
func (p *Platform) Shutdown() {}

// Update implements ebiten.Game: poll keys into the joypad state, and
// request termination as soon as Escape has set the quit flag that
// PollEvents reports.
func (p *Platform) Update() error {
	p.pollKeys()
	p.mu.Lock()
	quit := p.quit
	p.mu.Unlock()
	if quit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game: blit the most recently handed-off
// framebuffer, scaled to the window.
func (p *Platform) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	fb := p.pendingFB
	p.mu.Unlock()

	if fb != nil {
		p.frame.WritePixels(argbToRGBA(fb))
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(p.scale), float64(p.scale))
	screen.DrawImage(p.frame, op)
}

// Layout implements ebiten.Game.
func (p *Platform) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW * p.scale, screenH * p.scale
}

var keyMap = [...]struct {
	key ebiten.Key
	btn machine.Button
}{
	{ebiten.KeyArrowRight, machine.ButtonRight},
	{ebiten.KeyArrowLeft, machine.ButtonLeft},
	{ebiten.KeyArrowUp, machine.ButtonUp},
	{ebiten.KeyArrowDown, machine.ButtonDown},
	{ebiten.KeyZ, machine.ButtonA},
	{ebiten.KeyX, machine.ButtonB},
	{ebiten.KeyBackspace, machine.ButtonSelect},
	{ebiten.KeyEnter, machine.ButtonStart},
}

func (p *Platform) pollKeys() {
	for _, m := range keyMap {
		p.joypad.SetPressed(m.btn, ebiten.IsKeyPressed(m.key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.mu.Lock()
		p.quit = true
		p.mu.Unlock()
	}
}

// PollEvents reports whether the platform should keep running.
func (p *Platform) PollEvents() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.quit
}

// RenderFrame hands off the framebuffer for the next Draw call to consume.
func (p *Platform) RenderFrame(framebuffer []uint32) {
	p.mu.Lock()
	p.pendingFB = framebuffer
	p.mu.Unlock()
}

// VSync is a no-op: ebiten's own RunGame loop already paces Draw calls to
// the display's refresh rate.
func (p *Platform) VSync() {}

// SetTitle updates the window title.
func (p *Platform) SetTitle(title string) {
	p.title = title
	ebiten.SetWindowTitle(title)
}

func argbToRGBA(fb []uint32) []byte {
	out := make([]byte, len(fb)*4)
	for i, px := range fb {
		out[i*4+0] = byte(px >> 16) // R
		out[i*4+1] = byte(px >> 8)  // G
		out[i*4+2] = byte(px)       // B
		out[i*4+3] = byte(px >> 24) // A
	}
	return out
}

var _ platform.Platform = (*Platform)(nil)
