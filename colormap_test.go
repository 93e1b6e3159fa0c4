package neurotoy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationColor_ClampsBelowMinStop(t *testing.T) {
	assert.Equal(t, ActivationColor(-1), ActivationColor(-5))
	assert.Equal(t, ActivationColor(-1), ActivationColor(-1000))

	c := ActivationColor(-1)
	assert.Equal(t, colorMapMin[0], c[0])
	assert.Equal(t, colorMapMin[1], c[1])
	assert.Equal(t, colorMapMin[2], c[2])
}

func TestActivationColor_ClampsAboveMaxStop(t *testing.T) {
	assert.Equal(t, ActivationColor(1), ActivationColor(10))
	assert.Equal(t, ActivationColor(1), ActivationColor(4096))

	c := ActivationColor(1)
	assert.Equal(t, colorMapMax[0], c[0])
	assert.Equal(t, colorMapMax[1], c[1])
	assert.Equal(t, colorMapMax[2], c[2])
}

func TestActivationColor_ContinuousAtZero(t *testing.T) {
	below := ActivationColor(-1e-6)
	at := ActivationColor(0)
	above := ActivationColor(1e-6)

	for i := 0; i < 3; i++ {
		assert.InDelta(t, at[i], below[i], 1e-4)
		assert.InDelta(t, at[i], above[i], 1e-4)
		assert.InDelta(t, colorMapMid[i], at[i], 1e-6)
	}
}

func TestActivationColor_LinearOnEachHalf(t *testing.T) {
	// Halfway points of both gradients.
	neg := ActivationColor(-0.5)
	pos := ActivationColor(0.5)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, (colorMapMin[i]+colorMapMid[i])/2, neg[i], 1e-6)
		assert.InDelta(t, (colorMapMid[i]+colorMapMax[i])/2, pos[i], 1e-6)
	}

	// Quarter point: three quarters of the way from min to mid.
	quarter := ActivationColor(-0.25)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, colorMapMin[i]+(colorMapMid[i]-colorMapMin[i])*0.75, quarter[i], 1e-6)
	}
}

func TestActivationColor_AlwaysOpaque(t *testing.T) {
	for _, v := range []float32{-100, -1, -0.5, 0, 0.5, 1, 100} {
		assert.Equal(t, float32(1), ActivationColor(v)[3], "alpha for %v", v)
	}
}
