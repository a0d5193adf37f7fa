package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/camera"
	"github.com/keshavsharma54126/goblackhole/encoder"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/glfwcontext"
	"github.com/keshavsharma54126/goblackhole/options"
	"github.com/keshavsharma54126/goblackhole/renderer"
	"github.com/keshavsharma54126/goblackhole/scene"
	"github.com/keshavsharma54126/goblackhole/shading"
	"github.com/keshavsharma54126/goblackhole/softrender"
	"github.com/keshavsharma54126/goblackhole/termview"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

func runWindow(ctx context.Context, opts *options.Options, cfg *scene.Config, cam *camera.Controller) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(*opts.Width, *opts.Height, "goblackhole - "+cfg.Name, cam.Handle)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()
	win.RegisterKeyCallback(glfw.KeyR, cam.Reset)

	r, err := renderer.NewRenderer(win)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	sc, err := renderer.LoadScene(r, win, cfg)
	if err != nil {
		return err
	}

	log.Println("Starting interactive render loop...")
	s := &frame.Scheduler{Camera: cam, Target: sc, Clock: frame.NewWallClock()}
	return s.Run(ctx)
}

func runRecord(ctx context.Context, opts *options.Options, model *shading.Model, cam *camera.Controller) error {
	output := *opts.OutputFile
	if output == "" {
		output = "blackhole.mp4"
	}
	enc, err := encoder.NewEncoder(encoder.Options{
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		OutputFile: output,
		FFmpegPath: *opts.FFMPEGPath,
		Codec:      *opts.Codec,
	})
	if err != nil {
		return err
	}

	r, err := softrender.New(model, *opts.Width, *opts.Height, *opts.Workers, enc)
	if err != nil {
		enc.Close()
		return err
	}
	defer r.Close()

	log.Printf("Rendering %d frames...", opts.TotalFrames())
	s := &frame.Scheduler{
		Camera:    cam,
		Target:    r,
		Clock:     frame.NewFixedClock(float64(*opts.FPS)),
		MaxFrames: opts.TotalFrames(),
	}
	runErr := s.Run(ctx)
	closeErr := enc.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	log.Printf("Successfully rendered %d frames to %s", enc.Frames(), output)
	return nil
}

func runTerm(ctx context.Context, opts *options.Options, model *shading.Model, cam *camera.Controller) error {
	screen, err := termview.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	v, err := termview.New(screen, model, cam, opts.FrameInterval(), *opts.Workers)
	if err != nil {
		screen.Fini()
		return err
	}
	defer v.Close()

	s := &frame.Scheduler{Camera: cam, Target: v, Clock: frame.NewWallClock()}
	return s.Run(ctx)
}

func runSnapshot(opts *options.Options, model *shading.Model, cam *camera.Controller) error {
	output := *opts.OutputFile
	if output == "" {
		output = "blackhole.png"
	}
	r, err := softrender.New(model, *opts.Width, *opts.Height, *opts.Workers, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	// A snapshot shows the settled camera, not the first damped step.
	st := cam.State()
	cam.Handle(camera.Resize{Width: *opts.Width, Height: *opts.Height})
	u := &frame.Uniforms{
		Resolution: mgl64.Vec2{float64(*opts.Width), float64(*opts.Height)},
		Time:       *opts.Time,
		Camera:     st.TargetPosition,
		Zoom:       st.TargetZoom,
		Mouse:      cam.PointerNDC(),
	}
	if err := r.Render(u); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := png.Encode(f, r.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %s", output)
	return nil
}

func main() {
	opts := options.Bind(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Black hole viewer/recorder")
		fmt.Println("Presets:", scene.Names())
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	cfg, err := scene.Lookup(*opts.Preset)
	if err != nil {
		log.Fatalf("Error loading preset: %v", err)
	}
	model, err := shading.New(cfg)
	if err != nil {
		log.Fatalf("Error building shading model: %v", err)
	}
	cam, err := camera.NewController(camera.DefaultSettings, mgl64.Vec2{*opts.CameraX, *opts.CameraY}, *opts.Zoom)
	if err != nil {
		log.Fatalf("Error creating camera: %v", err)
	}
	log.Printf("Using preset %s in %s mode", cfg.Name, *opts.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *opts.Mode {
	case options.ModeWindow:
		err = runWindow(ctx, opts, &cfg, cam)
	case options.ModeRecord:
		err = runRecord(ctx, opts, model, cam)
	case options.ModeTerm:
		err = runTerm(ctx, opts, model, cam)
	case options.ModeSnapshot:
		err = runSnapshot(opts, model, cam)
	}
	if errors.Is(err, context.Canceled) {
		log.Println("Interrupted")
		return
	}
	if err != nil {
		log.Fatalf("%s mode failed: %v", *opts.Mode, err)
	}
}
