// Package kernels provides resampling kernel descriptors for video scaling,
// descaling and format conversion.
//
// A [Kernel] evaluates its continuous kernel function and translates
// high-level requests into the argument maps a frame-processing [Runtime]
// executes. The package never touches pixels itself: the runtime owns the
// frames, and the kernels decide what to ask of it.
//
// # Features
//
//   - Bicubic family with the common presets (Catmull-Rom, Mitchell,
//     B-spline, Hermite, Robidoux variants) and b + 2c = target derivation
//   - Natural cubic spline kernels of any tap count (Spline16 to Spline256)
//   - Lanczos, windowed sinc (Hann, Hamming, Kaiser, Blackman, ...) and
//     Gaussian kernels
//   - EWA (elliptical weighted average) kernels for libplacebo-style runtimes
//   - Aspect ratio preserving crop, sample grid alignment and border padding
//   - Linear light and sigmoid processing around any scale or descale
//   - Field-based descaling of interlaced content
//   - Case-insensitive name registry for configuration-driven selection
//
// # Quick Start
//
// Scale with a kernel constructed directly:
//
//	out, err := kernels.NewCatrom().Scale(ctx, rt, clip, 1920, 1080, kernels.Shift{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or select one by name, for example from a configuration file:
//
//	k, err := kernels.DescalerFromName("  bicubic ")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	native, err := k.Descale(ctx, rt, clip, 1280, 720, kernels.Shift{},
//	    kernels.WithLinear(true),
//	    kernels.WithBorderHandling(kernels.BorderZero),
//	)
//
// # Request Pipeline
//
// Scale requests on kernels that support it run through these stages:
//
//  1. Linear light: convert to RGB linear light, optionally sigmoidised
//  2. Aspect ratio: crop the source window to keep the display aspect ratio
//  3. Sample grid: align edges or centers of the source and target grids
//  4. Border handling: pad the source for zero or repeat borders
//  5. Dispatch: build the runtime arguments and call the runtime
//
// Descale requests validate their geometry before any runtime call, work in
// 32-bit float and descale interlaced input one field at a time.
//
// # Request Arguments
//
// Every request is an argument map merged in a fixed order, later entries
// winning: the source shift, the kernel's own arguments that the runtime call
// accepts, the target size, the kernel family's parameters, and finally the
// caller's [WithArgs]. [Kernel.ScaleArgs], [Kernel.DescaleArgs] and
// [Kernel.ResampleArgs] return the map without calling the runtime.
//
// # Subpackages
//
//   - imagert: a software [Runtime] on planar float64 frames, with
//     conversion to and from image.Image
//   - interop: kernels as x/image/draw, imaging and bild filters
//   - preset: named kernel presets from TOML or YAML files
//   - analysis: impulse, frequency response and phase gain measurements
//
// # Thread Safety
//
// Kernels are immutable after construction and safe for concurrent use.
// The registry is safe for concurrent use. A [LinearLightSession] is not.
package kernels
