// Command analyze-kernel prints the phase gains and frequency response of a
// kernel.
//
// Usage:
//
//	analyze-kernel --kernel catrom
//	analyze-kernel --kernel lanczos --param taps=4 --phases 128
//	analyze-kernel --kernel spline36 --phases 32 --interp cubic
package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	kernels "github.com/tphakala/go-video-kernels"
	"github.com/tphakala/go-video-kernels/analysis"
)

const (
	// Display limits
	maxPhasesToShow   = 8
	responseRowsShown = 16

	// Cutoff levels in dB
	halfPowerDB = -3.0
	stopbandDB  = -40.0
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("analyze-kernel", pflag.ContinueOnError)
	name := fs.String("kernel", string(kernels.TypeCatrom), "Kernel name")
	params := fs.StringToString("param", nil, "Kernel construction parameter (name=value), repeatable")
	phases := fs.Int("phases", analysis.DefaultPhases, "Number of sub-pixel phases")
	points := fs.Int("points", analysis.DefaultPoints, "Frequency response resolution")
	oversample := fs.Int("oversample", analysis.DefaultOversample, "Impulse samples per pixel")
	interpName := fs.String("interp", "", "Report weight table accuracy with this phase interpolation (none, linear, cubic)")
	if err := fs.Parse(args); err != nil {
		return err
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

	fmt.Fprintf(w, "=== Analyzing %s ===\n", k)
	fmt.Fprintf(w, "  Radius: %d\n", k.Radius())
	fmt.Fprintf(w, "  Support: %g\n\n", k.Support())

	if err := printPhaseGains(w, k, *phases); err != nil {
		return err
	}
	if *interpName != "" {
		interp, err := analysis.ParseInterp(*interpName)
		if err != nil {
			return err
		}
		if err := printTable(w, k, *phases, interp); err != nil {
			return err
		}
	}
	return printResponse(w, k, *oversample, *points)
}

func printTable(w io.Writer, k *kernels.Kernel, phases int, interp analysis.Interp) error {
	acc, err := analysis.TableError(k, phases, interp, analysis.DefaultTableSamples)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Weight table (%d phases, %s interpolation):\n", acc.Phases, acc.Interp)
	fmt.Fprintf(w, "  Size: %s\n", humanize.Bytes(uint64(acc.Bytes)))
	fmt.Fprintf(w, "  Max weight error: %.3g (%.1f dB)\n\n", acc.MaxError, analysis.MagnitudeDB(acc.MaxError))
	return nil
}

func printPhaseGains(w io.Writer, k *kernels.Kernel, phases int) error {
	gains, err := analysis.PhaseGains(k, phases)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "DC gain per phase:")
	step := max(1, phases/maxPhasesToShow)
	for p := 0; p < phases; p += step {
		fmt.Fprintf(w, "  Phase %3d (offset %.4f): %.10f\n", p, float64(p)/float64(phases), gains[p])
	}

	minGain, maxGain := math.Inf(1), math.Inf(-1)
	for _, g := range gains {
		minGain = math.Min(minGain, g)
		maxGain = math.Max(maxGain, g)
	}
	fmt.Fprintf(w, "  Gain range: %.10f .. %.10f (ripple %.3g)\n\n", minGain, maxGain, maxGain-minGain)
	return nil
}

func printResponse(w io.Writer, k *kernels.Kernel, oversample, points int) error {
	resp, err := analysis.FrequencyResponse(k, oversample, points)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Frequency response (cycles/pixel):")
	step := max(1, points/responseRowsShown)
	for i := 0; i < points; i += step {
		fmt.Fprintf(w, "  %.4f: %8.3f dB\n", resp.Frequencies[i], analysis.MagnitudeDB(resp.Magnitude[i]))
	}

	fmt.Fprintf(w, "\n  -3 dB point: %s\n", crossing(resp, halfPowerDB))
	fmt.Fprintf(w, "  -40 dB point: %s\n", crossing(resp, stopbandDB))
	fmt.Fprintf(w, "  Gain at Nyquist: %.3f dB\n", analysis.MagnitudeDB(resp.Magnitude[len(resp.Magnitude)-1]))
	return nil
}

// crossing returns the first frequency at which the response falls below db.
func crossing(resp analysis.Response, db float64) string {
	for i, m := range resp.Magnitude {
		if analysis.MagnitudeDB(m) < db {
			return fmt.Sprintf("%.4f cycles/pixel", resp.Frequencies[i])
		}
	}
	return "not reached below Nyquist"
}
