// Command gbcore runs a Game Boy ROM against the runtime core, either in a
// window (ebiten or SDL2 backend) or headless for automated checks.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/dmgcore/runtime/internal/machine"
	"github.com/dmgcore/runtime/internal/platform"
	"github.com/dmgcore/runtime/internal/platform/ebitenplatform"
	"github.com/dmgcore/runtime/internal/platform/sdlplatform"
)

type cliFlags struct {
	romPath  string
	scale    int
	headless bool
	frames   int
	pngOut   string
	backend  string
}

func parseFlags() cliFlags {
	f := cliFlags{}
	flag.StringVar(&f.romPath, "rom", "", "path to a Game Boy ROM image")
	flag.IntVar(&f.scale, "scale", 3, "window scale factor")
	flag.BoolVar(&f.headless, "headless", false, "run without a window for -frames frames, then exit")
	flag.IntVar(&f.frames, "frames", 60, "frames to run in headless mode")
	flag.StringVar(&f.pngOut, "png", "", "write the final framebuffer to this PNG path (headless mode)")
	flag.StringVar(&f.backend, "backend", "ebiten", "windowed platform backend: ebiten or sdl")
	flag.Parse()
	return f
}

func mustRead(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("gbcore: %v", err)
	}
	return data
}

func main() {
	f := parseFlags()
	if f.romPath == "" {
		log.Fatal("gbcore: -rom is required")
	}

	cfg := machine.Config{Scale: f.scale, SkipBootROM: true}.Defaults()
	ctx := machine.NewContext(cfg)
	if err := ctx.LoadROM(mustRead(f.romPath)); err != nil {
		log.Fatalf("gbcore: %v", err)
	}

	if f.headless {
		runHeadless(ctx, f)
		return
	}
	runWindowed(ctx, f)
}

func runWindowed(ctx *machine.Context, f cliFlags) {
	switch f.backend {
	case "sdl":
		ctx.AttachPlatform(sdlplatform.New(ctx.Joypad))
	default:
		ctx.AttachPlatform(ebitenplatform.New(ctx.Joypad, f.scale))
	}

	if !ctx.Platform.Init(f.scale) {
		log.Fatalf("gbcore: platform %q failed to initialize", f.backend)
	}
	defer ctx.Platform.Shutdown()

	for !ctx.CPU.Stopped {
		ctx.RunFrame()
	}
}

func runHeadless(ctx *machine.Context, f cliFlags) {
	for i := 0; i < f.frames && !ctx.CPU.Stopped; i++ {
		ctx.RunFrame()
	}

	fb := ctx.PPU.GetFramebuffer()
	sum := crc32.ChecksumIEEE(framebufferBytes(fb))
	fmt.Printf("frames=%d crc32=0x%08X\n", f.frames, sum)

	if f.pngOut != "" {
		if err := writePNG(f.pngOut, fb); err != nil {
			log.Fatalf("gbcore: %v", err)
		}
	}
}

func framebufferBytes(fb []uint32) []byte {
	out := make([]byte, len(fb)*4)
	for i, px := range fb {
		out[i*4+0] = byte(px >> 24)
		out[i*4+1] = byte(px >> 16)
		out[i*4+2] = byte(px >> 8)
		out[i*4+3] = byte(px)
	}
	return out
}

func writePNG(path string, fb []uint32) error {
	img := image.NewRGBA(image.Rect(0, 0, platform.ScreenWidth, platform.ScreenHeight))
	for i, px := range fb {
		img.Set(i%platform.ScreenWidth, i/platform.ScreenWidth, color.RGBA{
			R: byte(px >> 16),
			G: byte(px >> 8),
			B: byte(px),
			A: byte(px >> 24),
		})
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
