package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options configures a recording.
type Options struct {
	Width, Height int
	FPS           int
	OutputFile    string
	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string
	// Codec is CodecH264 (also the empty default) or CodecHEVC.
	Codec string
}

// Codecs accepted in Options.Codec.
const (
	CodecH264 = "h264"
	CodecHEVC = "hevc"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// numBuffers bounds how far rendering may run ahead of ffmpeg.
const numBuffers = 3

// Encoder streams raw RGBA frames to an ffmpeg process over a pipe. Frames
// are consumed on a separate goroutine; WriteFrame blocks once numBuffers
// frames are queued.
type Encoder struct {
	opts        Options
	videoFrames chan *Frame
	done        chan error
	failed      chan struct{}
	failOnce    sync.Once
	failErr     error
	nextPTS     int64
	closed      bool
}

// GetArgs returns the ffmpeg input and output arguments for opts.
func GetArgs(opts Options) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": fmt.Sprintf("%d", opts.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"crf":     "18",
	}
	if opts.Codec == CodecHEVC {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(opts.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

// NewEncoder validates opts and starts ffmpeg.
func NewEncoder(opts Options) (*Encoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid video size %dx%d", opts.Width, opts.Height)
	}
	if opts.Width%2 != 0 || opts.Height%2 != 0 {
		return nil, fmt.Errorf("yuv420p needs even dimensions, got %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FPS)
	}
	if opts.OutputFile == "" {
		return nil, errors.New("no output file")
	}
	switch opts.Codec {
	case "", CodecH264, CodecHEVC:
	default:
		return nil, fmt.Errorf("unsupported codec %q", opts.Codec)
	}

	e := &Encoder{
		opts:        opts,
		videoFrames: make(chan *Frame, numBuffers),
		done:        make(chan error, 1),
		failed:      make(chan struct{}),
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := GetArgs(opts)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits before reading everything.
		if err != nil {
			pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %w", err))
		} else {
			pipeReader.Close()
		}
		errc <- err
	}()

	go e.run(pipeWriter, errc)

	log.Printf("Recording %dx%d at %d fps to %s", opts.Width, opts.Height, opts.FPS, opts.OutputFile)
	return e, nil
}

// run is the consumer. It writes queued frames to ffmpeg's stdin.
func (e *Encoder) run(pipeWriter *io.PipeWriter, errc <-chan error) {
	for frame := range e.videoFrames {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			e.fail(fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err))
			break
		}
	}
	pipeWriter.Close()
	// Drain so a producer blocked on a full queue is released.
	for range e.videoFrames {
	}

	err := <-errc
	if err != nil {
		e.fail(fmt.Errorf("ffmpeg failed: %w", err))
	}
	e.done <- e.failErr
}

func (e *Encoder) fail(err error) {
	e.failOnce.Do(func() {
		e.failErr = err
		close(e.failed)
	})
}

// WriteFrame queues a copy of img. It returns an error once ffmpeg has
// failed; the recording cannot recover after that.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	if e.closed {
		return errors.New("encoder is closed")
	}
	b := img.Bounds()
	if b.Dx() != e.opts.Width || b.Dy() != e.opts.Height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), e.opts.Width, e.opts.Height)
	}

	pixels := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		pixels = append(pixels, img.Pix[i:i+b.Dx()*4]...)
	}
	frame := &Frame{Pixels: pixels, PTS: e.nextPTS}

	select {
	case <-e.failed:
		return e.failErr
	default:
	}
	select {
	case e.videoFrames <- frame:
		e.nextPTS++
		return nil
	case <-e.failed:
		return e.failErr
	}
}

// Frames returns the number of frames queued so far.
func (e *Encoder) Frames() int64 { return e.nextPTS }

// Close flushes queued frames and waits for ffmpeg to finish writing the
// file.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	close(e.videoFrames)
	return <-e.done
}
