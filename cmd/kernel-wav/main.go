// Command kernel-wav writes the impulse response of a kernel as a mono PCM
// WAV file, for inspection in audio tools.
//
// Usage:
//
//	kernel-wav --kernel lanczos --param taps=3 lanczos3.wav
//	kernel-wav --kernel catrom --oversample 256 --repeat 4 catrom.wav
package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/analysis"
)

const (
	defaultRate = 48000

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	maxInt16        = 32767.0
	maxInt24        = 8388607.0

	wavFormatPCM = 1
	monoChannels = 1
)

type config struct {
	oversample int
	rate       int
	bitDepth   int
	repeat     int
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("kernel-wav", pflag.ContinueOnError)
	name := fs.String("kernel", string(kernels.TypeCatrom), "Kernel name")
	params := fs.StringToString("param", nil, "Kernel construction parameter (name=value), repeatable")
	var cfg config
	fs.IntVar(&cfg.oversample, "oversample", analysis.DefaultOversample, "Samples per pixel")
	fs.IntVar(&cfg.rate, "rate", defaultRate, "Sample rate written to the header in Hz")
	fs.IntVar(&cfg.bitDepth, "bits", bitsPerSample16, "Bit depth: 16 or 24")
	fs.IntVar(&cfg.repeat, "repeat", 1, "Number of impulses, separated by silence")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: kernel-wav [options] output.wav")
	}

	typ, err := kernels.FromParam(*name)
	if err != nil {
		return err
	}
	kparams := kernels.Args{}
	for key, v := range *params {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("param %s: %w", key, err)
		}
		kparams[key] = f
	}
	k, err := kernels.NewKernel(typ, kparams)
	if err != nil {
		return err
	}

	f, err := os.Create(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	n, err := writeImpulse(f, k, cfg)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d samples of %s to %s\n", n, k, fs.Arg(0))
	return nil
}

func getMaxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	}
	return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
}

// writeImpulse encodes the impulse response of k, peak normalised, and
// returns the number of samples written.
func writeImpulse(w io.WriteSeeker, k *kernels.Kernel, cfg config) (int, error) {
	if cfg.repeat < 1 {
		return 0, fmt.Errorf("repeat must be at least 1, got %d", cfg.repeat)
	}
	maxVal, err := getMaxValue(cfg.bitDepth)
	if err != nil {
		return 0, err
	}
	imp, err := analysis.Impulse(k, cfg.oversample)
	if err != nil {
		return 0, err
	}

	var peak float64
	for _, v := range imp.Samples {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return 0, fmt.Errorf("%s has an all-zero impulse response", k)
	}

	period := 2 * len(imp.Samples)
	data := make([]int, period*cfg.repeat)
	for r := range cfg.repeat {
		for i, v := range imp.Samples {
			data[r*period+i] = int(math.Round(v / peak * maxVal))
		}
	}

	enc := wav.NewEncoder(w, cfg.rate, cfg.bitDepth, monoChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: monoChannels, SampleRate: cfg.rate},
		Data:           data,
		SourceBitDepth: cfg.bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return len(data), nil
}
