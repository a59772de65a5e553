package kernels

// Default kernel parameters
const (
	defaultLanczosTaps  = 3
	defaultWindowTaps   = 4
	defaultSplineTaps   = 2
	defaultGaussianTaps = 2
	defaultKaiserBeta   = 4.0

	defaultGaussianSigma = 0.5

	// defaultEWATaps is the radius libplacebo uses for its jinc-based filters
	// (the third zero of the jinc function).
	defaultEWATaps = 3.2383154841662362076499

	// defaultAutoTarget is the B + 2C sum BicubicAuto derives the missing parameter from.
	defaultAutoTarget = 1.0

	// defaultCatromC is the C of the default bicubic (Catmull-Rom).
	defaultCatromC = 0.5

	// fallbackRadius is used when a kernel carries no radius information.
	fallbackRadius = 2
)

// Gaussian curve limits accepted by the runtime's gaussian filter.
const (
	gaussianCurveMin = 1.0
	gaussianCurveMax = 100.0

	gaussianCurveScale      = 10.0
	gaussianPlaceboFactor   = 4.0
	gaussianNormalizeFactor = 2.0

	// sqrtTwoPi is √(2π), the gaussian's unit-area normalisation.
	sqrtTwoPi = 2.5066282746310002
)

// Sigmoid curve defaults and limits
const (
	defaultSigmoidSlope  = 6.5
	defaultSigmoidCenter = 0.75

	minSigmoidSlope  = 1.0
	maxSigmoidSlope  = 20.0
	minSigmoidCenter = 0.0
	maxSigmoidCenter = 1.0
)

// Interlaced descale
const (
	// fieldShiftFactor is the vertical offset, in output-height units, between
	// the sample grids of the two fields.
	fieldShiftFactor = 0.125

	fieldCycle = 2
)

// Border padding
const (
	padAlignment = 8
)

// Resolution thresholds for matrix and transfer guessing
const (
	sdMaxWidth  = 1024
	sdMaxHeight = 576
	hdMaxWidth  = 2048
	hdMaxHeight = 1536
)

// floatBits is the working precision of descale requests.
const floatBits = 32
