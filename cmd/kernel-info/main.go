// Command kernel-info lists the registered kernels or describes one.
//
// Usage:
//
//	kernel-info
//	kernel-info lanczos --param taps=4 --width 1920 --height 1080
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	kernels "github.com/tphakala/go-video-kernels"
)

const (
	defaultWidth  = 1920
	defaultHeight = 1080

	tabPadding = 2
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("kernel-info", pflag.ContinueOnError)
	params := fs.StringToString("param", nil, "Kernel construction parameter (name=value), repeatable")
	width := fs.Int("width", defaultWidth, "Target width of the example requests")
	height := fs.Int("height", defaultHeight, "Target height of the example requests")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return list(os.Stdout)
	}
	typ, err := kernels.FromParam(fs.Arg(0))
	if err != nil {
		return err
	}
	k, err := kernels.NewKernel(typ, parseParams(*params))
	if err != nil {
		return err
	}
	return describe(os.Stdout, k, *width, *height)
}

// parseParams converts numeric values to float64 and keeps the rest as strings.
func parseParams(in map[string]string) kernels.Args {
	out := make(kernels.Args, len(in))
	for name, v := range in {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[name] = f
			continue
		}
		out[name] = v
	}
	return out
}

func capabilities(k *kernels.Kernel) string {
	var caps []string
	if k.CanScale() {
		caps = append(caps, "scale")
	}
	if k.CanDescale() {
		caps = append(caps, "descale")
	}
	if k.CanResample() {
		caps = append(caps, "resample")
	}
	return strings.Join(caps, ",")
}

func list(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tRADIUS\tSUPPORT\tCAPABILITIES")
	for _, typ := range kernels.Types() {
		k, err := kernels.EnsureKernel(typ)
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t%v\n", typ, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%g\t%s\n", typ, k.Radius(), k.Support(), capabilities(k))
	}
	return tw.Flush()
}

func describe(w io.Writer, k *kernels.Kernel, width, height int) error {
	fmt.Fprintf(w, "Kernel: %s\n", k)
	fmt.Fprintf(w, "  Radius: %d\n", k.Radius())
	fmt.Fprintf(w, "  Support: %g\n", k.Support())
	fmt.Fprintf(w, "  Capabilities: %s\n", capabilities(k))
	if args := k.Args(); len(args) > 0 {
		fmt.Fprintf(w, "  Arguments: %v\n", args)
	}

	if k.CanScale() {
		args, err := k.ScaleArgs(kernels.Shift{}, width, height, nil)
		if err != nil {
			return err
		}
		printArgs(w, "Scale", args)
	}
	if k.CanDescale() {
		args, err := k.DescaleArgs(kernels.Shift{}, width, height, nil)
		if err != nil {
			return err
		}
		printArgs(w, "Descale", args)
	}
	return nil
}

func printArgs(w io.Writer, title string, args kernels.Args) {
	fmt.Fprintf(w, "  %s request:\n", title)
	for _, key := range args.Keys() {
		fmt.Fprintf(w, "    %s = %v\n", key, args[key])
	}
}
