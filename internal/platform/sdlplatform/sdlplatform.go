// Package sdlplatform implements platform.Platform on top of go-sdl2,
// mirroring the original C runtime's own platform_sdl.c almost line for
// line: an SDL2 window, an ARGB8888 streaming texture, and a scancode-keyed
// event loop driving joypad state.
package sdlplatform

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/dmgcore/runtime/internal/machine"
	"github.com/dmgcore/runtime/internal/platform"
)

const (
	screenW = platform.ScreenWidth
	screenH = platform.ScreenHeight

	frameTimeMs = 16 // target ~60 FPS, matching platform_sdl.c's vsync pacing
)

// Platform is the SDL2-backed platform.Platform implementation.
type Platform struct {
	joypad *machine.JoypadState

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	lastFrameTime uint32
}

// New constructs a Platform driving input into joypad.
func New(joypad *machine.JoypadState) *Platform {
	return &Platform{joypad: joypad}
}

// Init initializes SDL2, creates the window/renderer/streaming texture at
// scale (clamped 1-8, matching platform_sdl.c), and returns false if any
// step fails.
func (p *Platform) Init(scale int) bool {
	if scale < 1 {
		scale = 1
	}
	if scale > 8 {
		scale = 8
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return false
	}

	window, err := sdl.CreateWindow(
		"DMG Core",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(screenW*scale), int32(screenH*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return false
	}
	p.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return false
	}
	p.renderer = renderer

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "nearest")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, screenW, screenH)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return false
	}
	p.texture = texture

	p.lastFrameTime = sdl.GetTicks()
	return true
}

// Shutdown tears down the texture, renderer, window, and SDL subsystem, in
// that order; safe to call on a Platform whose Init never succeeded.
func (p *Platform) Shutdown() {
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
	if p.renderer != nil {
		p.renderer.Destroy()
		p.renderer = nil
	}
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	sdl.Quit()
}

var scancodeMap = map[sdl.Scancode]struct {
	btn machine.Button
}{
	sdl.SCANCODE_UP:        {machine.ButtonUp},
	sdl.SCANCODE_W:         {machine.ButtonUp},
	sdl.SCANCODE_DOWN:      {machine.ButtonDown},
	sdl.SCANCODE_S:         {machine.ButtonDown},
	sdl.SCANCODE_LEFT:      {machine.ButtonLeft},
	sdl.SCANCODE_A:         {machine.ButtonLeft},
	sdl.SCANCODE_RIGHT:     {machine.ButtonRight},
	sdl.SCANCODE_D:         {machine.ButtonRight},
	sdl.SCANCODE_Z:         {machine.ButtonA},
	sdl.SCANCODE_J:         {machine.ButtonA},
	sdl.SCANCODE_X:         {machine.ButtonB},
	sdl.SCANCODE_K:         {machine.ButtonB},
	sdl.SCANCODE_RSHIFT:    {machine.ButtonSelect},
	sdl.SCANCODE_BACKSPACE: {machine.ButtonSelect},
	sdl.SCANCODE_RETURN:    {machine.ButtonStart},
}

// PollEvents drains the SDL event queue, updating joypad state from key
// events and returning false on a quit request (window close or Escape).
func (p *Platform) PollEvents() bool {
	for {
		event := sdl.PollEvent()
		if event == nil {
			break
		}

		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			pressed := e.State == sdl.PRESSED
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return false
			}
			if m, ok := scancodeMap[e.Keysym.Scancode]; ok {
				p.joypad.SetPressed(m.btn, pressed)
			}
		}
	}
	return true
}

// RenderFrame uploads framebuffer (160x144 ARGB8888) into the streaming
// texture and presents it.
func (p *Platform) RenderFrame(framebuffer []uint32) {
	if p.texture == nil || p.renderer == nil {
		return
	}

	pixels := make([]byte, len(framebuffer)*4)
	for i, px := range framebuffer {
		pixels[i*4+0] = byte(px)       // B
		pixels[i*4+1] = byte(px >> 8)  // G
		pixels[i*4+2] = byte(px >> 16) // R
		pixels[i*4+3] = byte(px >> 24) // A
	}

	if err := p.texture.Update(nil, pixels, screenW*4); err != nil {
		return
	}

	p.renderer.Clear()
	p.renderer.Copy(p.texture, nil, nil)
	p.renderer.Present()
}

// VSync paces frames to ~60 FPS via SDL_Delay, matching platform_sdl.c.
func (p *Platform) VSync() {
	now := sdl.GetTicks()
	elapsed := now - p.lastFrameTime
	if elapsed < frameTimeMs {
		sdl.Delay(frameTimeMs - elapsed)
	}
	p.lastFrameTime = sdl.GetTicks()
}

// SetTitle updates the window title.
func (p *Platform) SetTitle(title string) {
	if p.window != nil {
		p.window.SetTitle(title)
	}
}

var _ platform.Platform = (*Platform)(nil)
