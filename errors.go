package kernels

import "errors"

// Sentinel errors. Callers match them with errors.Is; the returned errors
// wrap them with the offending detail.
var (
	// ErrUnknownKernel indicates a kernel name that resolves to no registered type.
	ErrUnknownKernel = errors.New("unknown kernel")

	// ErrAbstractKernel indicates an attempt to instantiate a base kernel type.
	ErrAbstractKernel = errors.New("abstract kernel type")

	// ErrInvalidConfig indicates invalid kernel parameters or request options.
	ErrInvalidConfig = errors.New("invalid kernel configuration")

	// ErrDimension indicates dimensions that are incompatible with the request.
	ErrDimension = errors.New("invalid dimensions")

	// ErrNotSupported indicates the kernel lacks the requested capability.
	ErrNotSupported = errors.New("operation not supported")

	// ErrSessionState indicates a linear light session used out of order.
	ErrSessionState = errors.New("invalid linear light session state")
)
