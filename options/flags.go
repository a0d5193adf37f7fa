package options

import "flag"

// Bind defines every option on fs and returns the bound struct.
func Bind(fs *flag.FlagSet) *Options {
	return &Options{
		Help:       fs.Bool("help", false, "Show help message"),
		Mode:       fs.String("mode", ModeWindow, "window, record, term or snapshot"),
		Preset:     fs.String("preset", "photoreal", "Scene preset: photoreal, classic or cinematic"),
		Width:      fs.Int("width", 1280, "Width of the window or output"),
		Height:     fs.Int("height", 720, "Height of the window or output"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording and the terminal preview"),
		OutputFile: fs.String("output", "", "Output file (default blackhole.mp4, or blackhole.png for snapshot)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		Zoom:       fs.Float64("zoom", 1.0, "Initial zoom"),
		CameraX:    fs.Float64("camx", 0, "Initial camera x"),
		CameraY:    fs.Float64("camy", 0, "Initial camera y"),
		Time:       fs.Float64("time", 0, "Scene time for snapshot, in seconds"),
		Workers:    fs.Int("workers", 0, "CPU render workers (0 = one per CPU)"),
	}
}
