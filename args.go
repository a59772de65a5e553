package kernels

import (
	"fmt"
	"maps"
	"slices"
)

// Args is a request argument map passed to the runtime.
type Args map[string]any

// Merge returns a new map holding a overlaid by every other map in order.
// Later maps win.
func (a Args) Merge(others ...Args) Args {
	out := make(Args, len(a))
	maps.Copy(out, a)
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Clone returns a copy of the map.
func (a Args) Clone() Args {
	return a.Merge()
}

// Keys returns the sorted keys of the map.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Float returns the value stored under key as a float64.
func (a Args) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns the value stored under key as an int.
func (a Args) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// without returns a copy of the map without the given keys.
func (a Args) without(keys ...string) Args {
	out := a.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// pop removes key and returns its value.
func (a Args) pop(key string) (any, bool) {
	v, ok := a[key]
	if ok {
		delete(a, key)
	}
	return v, ok
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T) is not a number", ErrInvalidConfig, v, v)
	}
}

// paramSet is the set of argument names a runtime call accepts.
type paramSet map[string]struct{}

func newParamSet(names ...string) paramSet {
	s := make(paramSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s paramSet) with(names ...string) paramSet {
	out := make(paramSet, len(s)+len(names))
	for n := range s {
		out[n] = struct{}{}
	}
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// clean keeps only the entries of a whose keys are in the set.
func (s paramSet) clean(a Args) Args {
	out := make(Args, len(a))
	for k, v := range a {
		if _, ok := s[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Accepted argument names of the runtime calls the kernels dispatch to.
var (
	resizeParams = newParamSet(
		"width", "height", "src_left", "src_top", "src_width", "src_height",
		"filter_param_a", "filter_param_b", "format", "matrix", "matrix_in",
		"transfer", "transfer_in", "primaries", "primaries_in", "range", "range_in",
		"chromaloc", "chromaloc_in", "dither_type", "cpu_type", "prefer_props",
		"nominal_luminance", "approximate_gamma",
	)

	descaleParams = newParamSet(
		"width", "height", "src_left", "src_top", "src_width", "src_height",
		"b", "c", "taps", "blur", "border_handling", "ignore_mask",
		"force", "force_h", "force_v", "opt",
	)

	customScaleParams = resizeParams.with("blur", "taps")

	fmtcParams = newParamSet(
		"w", "h", "sx", "sy", "sw", "sh", "kernel", "taps", "a1", "a2", "a3",
		"invks", "invkstaps", "fh", "fv", "center", "css", "csp", "planes",
		"bits", "flt", "cplace", "cplaces", "cplaced", "interlaced", "interlacedd",
		"tff", "tffd", "fulls", "fulld",
	)

	placeboParams = newParamSet(
		"width", "height", "sx", "sy", "filter", "radius", "clamp", "taper",
		"blur", "param1", "param2", "antiring", "trc", "linearize", "sigmoidize",
		"sigmoid_center", "sigmoid_slope", "lut_entries", "cutoff",
	)
)
