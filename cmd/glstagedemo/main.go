// Command glstagedemo draws a spinning torus and shows its pipeline stages
// in a row of five regions: attribute, vertex, geometry, culling and
// fragment.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/glstage"
	"github.com/gogpu/glstage/backend"
	_ "github.com/gogpu/glstage/backend/gl41"
	"github.com/gogpu/glstage/hal"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

var glslVersions = map[string]glsl.Version{
	"330": glsl.Version330,
	"400": glsl.Version400,
	"410": glsl.Version410,
}

type config struct {
	backend   string
	version   glsl.Version
	attribute string
	region    int
	geometry  bool
	cull      bool
	frames    int
	capture   string
}

func main() {
	var (
		backendName = flag.String("backend", "", "backend: gl41 or soft (default: best available)")
		version     = flag.String("glsl", "410", "GLSL version of the display shaders: 330, 400 or 410")
		attribute   = flag.String("attribute", "position", "vertex attribute shown in the attribute region")
		region      = flag.Int("region", glstage.DefaultRegionSize, "region size in pixels")
		geometry    = flag.Bool("geometry", false, "add a geometry stage that explodes the mesh")
		cull        = flag.Bool("cull", true, "enable back-face culling")
		frames      = flag.Int("frames", 0, "exit after this many frames (0: run until closed)")
		output      = flag.String("capture", "", "write the first frame to this BMP file and exit")
		verbose     = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	glstage.SetLogger(slog.New(glstage.NewOnceHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))))

	v, ok := glslVersions[*version]
	if !ok {
		log.Fatalf("unsupported -glsl %q", *version)
	}
	if *region <= 0 {
		log.Fatalf("-region must be positive, got %d", *region)
	}
	cfg := config{
		backend:   *backendName,
		version:   v,
		attribute: *attribute,
		region:    *region,
		geometry:  *geometry,
		cull:      *cull,
		frames:    *frames,
		capture:   *output,
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	win, err := glfw.CreateWindow(glstage.RegionCount*cfg.region, cfg.region, "glstage", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	dev, err := backend.Open(cfg.backend)
	if err != nil {
		return err
	}
	d, err := glstage.New(dev,
		glstage.WithRegionSize(int32(cfg.region)),
		glstage.WithGLSLVersion(cfg.version))
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := newScene(dev, torus(1, 0.4, 48, 24), cfg.geometry)
	if err != nil {
		return err
	}

	for frame := 0; !win.ShouldClose(); frame++ {
		if cfg.frames > 0 && frame >= cfg.frames {
			break
		}
		width, height := win.GetFramebufferSize()
		dev.Disable(hal.ScissorTest)
		dev.Viewport(0, 0, int32(width), int32(height))
		dev.ClearColor(0, 0, 0, 1)
		dev.Clear(hal.ColorBufferBit | hal.DepthBufferBit)

		s.bind(glfw.GetTime(), 1, cfg.cull)
		rep := d.DrawElements(hal.Triangles, s.count, hal.UnsignedShort, 0, cfg.attribute)
		if frame == 0 {
			logReport(rep)
		}

		if cfg.capture != "" {
			if err := capture(dev, width, height, cfg.capture); err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			glstage.Logger().Info("frame captured", "path", cfg.capture, "width", width, "height", height)
			return nil
		}
		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func logReport(rep glstage.Report) {
	logger := glstage.Logger()
	if rep.Err != nil {
		logger.Error("mosaic not drawn", "err", rep.Err)
		return
	}
	for _, r := range rep.Regions {
		if r.Err != nil {
			logger.Warn("region failed", "region", r.Region.String(), "err", r.Err)
			continue
		}
		logger.Info("region", "region", r.Region.String(), "outcome", r.Outcome.String())
	}
}
