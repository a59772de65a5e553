package imagert

// Luma coefficients (Kr, Kb) per matrix.
const (
	bt601Kr = 0.299
	bt601Kb = 0.114

	bt709Kr = 0.2126
	bt709Kb = 0.0722

	bt2020Kr = 0.2627
	bt2020Kb = 0.0593

	fccKr = 0.30
	fccKb = 0.11

	smpte240Kr = 0.212
	smpte240Kb = 0.087
)

// BT.709 OETF constants, shared by BT.601 and BT.2020.
const (
	rec709Alpha     = 1.09929682680944
	rec709Beta      = 0.018053968510807
	rec709Slope     = 4.5
	rec709Exponent  = 0.45
	rec709LinearCut = rec709Beta * rec709Slope
)

// sRGB constants.
const (
	srgbAlpha     = 1.055
	srgbBeta      = 0.0031308
	srgbSlope     = 12.92
	srgbExponent  = 1 / 2.4
	srgbLinearCut = srgbBeta * srgbSlope
)

// Pure power curves.
const (
	gamma22 = 2.2
	gamma28 = 2.8
)

// maxIntegerBits is the deepest integer sample the runtime quantises.
const maxIntegerBits = 16
