package kernels

// NoShift returns a copy of k that ignores every requested shift.
func NoShift(k *Kernel) *Kernel {
	c := k.clone()
	c.noShift = true
	return c
}

// NoScale returns a copy of k that keeps the input dimensions on scale
// requests, returning the input unchanged when the runtime call fails.
// Useful to run only the pipeline stages around a resize.
func NoScale(k *Kernel) *Kernel {
	c := k.clone()
	c.noScale = true
	return c
}
