package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-video-kernels/internal/testutil"
)

func TestWindows_Endpoints(t *testing.T) {
	tests := []struct {
		name   string
		fn     Func
		center float64
		edge   float64
	}{
		{"Hann", Hann, 1, 0},
		{"Hamming", Hamming, 1, 0.08},
		{"Blackman", Blackman, 1, 0},
		{"BlackmanMinLobe", BlackmanMinLobe, 1, 0.0053188},
		{"Cosine", Cosine, 1, 0},
		{"Bohman", Bohman, 1, 0},
		{"Kaiser", Kaiser(4), 1, 1 / 11.30192217},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.center, tt.fn(0), 1e-6)
			assert.InDelta(t, tt.edge, tt.fn(1-1e-12), 1e-6)
		})
	}
}

func TestWindows_Decreasing(t *testing.T) {
	for name, fn := range map[string]Func{"Hann": Hann, "Blackman": Blackman, "Bohman": Bohman, "Kaiser": Kaiser(6)} {
		prev := fn(0)
		for x := 0.05; x < 1; x += 0.05 {
			v := fn(x)
			assert.LessOrEqual(t, v, prev, "%s at %v", name, x)
			prev = v
		}
	}
}

func TestSinc_Cutoff(t *testing.T) {
	fn := Sinc(Hann, 3)
	assert.InDelta(t, 1.0, fn(0), testutil.DefaultTolerance)
	testutil.AssertEven(t, fn, 3, testutil.DefaultTolerance)
	testutil.AssertZeroBeyond(t, fn, 3)
}
