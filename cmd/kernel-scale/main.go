// Command kernel-scale scales or descales an image with a kernel preset.
//
// Usage:
//
//	kernel-scale --width 1280 --height 720 input.png output.png
//	kernel-scale --preset sharp --width 3840 input.png output.png
//	kernel-scale --descale --width 1280 --height 720 --preset catrom input.png output.png
//
// Presets come from --config, $KERNELS_CONFIG or the standard config path.
// A .env file in the working directory may set KERNELS_CONFIG and
// KERNELS_LOG_LEVEL.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/joho/godotenv"
	logrusbackend "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/imagert"
	"github.com/tphakala/go-video-kernels/preset"
)

const (
	envConfig   = "KERNELS_CONFIG"
	envLogLevel = "KERNELS_LOG_LEVEL"

	minRequiredArgs = 2
)

type options struct {
	preset  string
	config  string
	width   int
	height  int
	shift   kernels.Shift
	descale bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input output\n\nOptions:\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	if v := os.Getenv(envLogLevel); v != "" {
		if err := loggerLevel.Set(v); err != nil {
			return fmt.Errorf("%s: %w", envLogLevel, err)
		}
	}
	var opts options
	pflag.Var(&loggerLevel, "log-level", "Log level")
	pflag.StringVar(&opts.preset, "preset", "", "Kernel preset (default: the config's default preset)")
	pflag.StringVar(&opts.config, "config", os.Getenv(envConfig), "Preset file (TOML or YAML)")
	pflag.IntVar(&opts.width, "width", 0, "Target width (0 keeps the aspect ratio, or the input width)")
	pflag.IntVar(&opts.height, "height", 0, "Target height (0 keeps the aspect ratio, or the input height)")
	pflag.Float64Var(&opts.shift.Left, "shift-left", 0, "Horizontal source shift in pixels")
	pflag.Float64Var(&opts.shift.Top, "shift-top", 0, "Vertical source shift in pixels")
	pflag.BoolVar(&opts.descale, "descale", false, "Invert an upscale from width x height instead of scaling")
	pflag.Parse()

	if pflag.NArg() < minRequiredArgs {
		pflag.Usage()
		return fmt.Errorf("insufficient arguments")
	}

	l := newLogger(os.Stderr, loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	return process(ctx, pflag.Arg(0), pflag.Arg(1), opts)
}

// newLogger writes timestamped text lines to w at the given level.
func newLogger(w io.Writer, level logger.Level) logger.Logger {
	backend := logrusbackend.New()
	backend.Out = w
	backend.Formatter = &logrusbackend.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.TimeOnly,
	}
	backend.Level = logrus.LevelToLogrus(level)
	return logrus.New(backend).WithLevel(level)
}

func loadPresets(path string) (*preset.Config, error) {
	if path == "" {
		return preset.Load()
	}
	return preset.LoadFromFile(path)
}

func process(ctx context.Context, inputPath, outputPath string, opts options) error {
	cfg, err := loadPresets(opts.config)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	p, err := cfg.Get(opts.preset)
	if err != nil {
		return err
	}
	k, reqOpts, err := p.Build()
	if err != nil {
		return err
	}

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	clip, err := imagert.FromImage(img)
	if err != nil {
		return err
	}
	width, height := targetSize(clip.Width(), clip.Height(), opts.width, opts.height)
	logger.Debugf(ctx, "%s: %dx%d -> %dx%d with %s", inputPath, clip.Width(), clip.Height(), width, height, k)

	start := time.Now()
	rt := imagert.New()
	var out kernels.Frame
	if opts.descale {
		out, err = k.Descale(ctx, rt, clip, width, height, opts.shift, reqOpts...)
	} else {
		out, err = k.Scale(ctx, rt, clip, width, height, opts.shift, reqOpts...)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	rendered, err := out.(*imagert.Clip).Image(0)
	if err != nil {
		return err
	}
	if err := imaging.Save(rendered, outputPath); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}

	var size string
	if fi, err := os.Stat(outputPath); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Printf("Scaled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  Kernel: %s (radius %d)\n", k, k.Radius())
	fmt.Printf("  %dx%d -> %dx%d (%s pixels)\n",
		clip.Width(), clip.Height(), out.Width(), out.Height(),
		humanize.Comma(int64(out.Width()*out.Height())))
	fmt.Printf("  Output: %s, Duration: %s\n", size, elapsed.Round(time.Millisecond))
	return nil
}

// targetSize fills a zero dimension from the other one, keeping the aspect
// ratio of the input.
func targetSize(srcWidth, srcHeight, width, height int) (int, int) {
	switch {
	case width == 0 && height == 0:
		return srcWidth, srcHeight
	case width == 0:
		return max(1, (srcWidth*height+srcHeight/2)/srcHeight), height
	case height == 0:
		return width, max(1, (srcHeight*width+srcWidth/2)/srcWidth)
	}
	return width, height
}
