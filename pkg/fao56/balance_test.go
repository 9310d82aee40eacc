package fao56

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoilWaterBalance(t *testing.T) {
	tests := []struct {
		name       string
		prev       float64
		etc        float64
		precip     float64
		irrigation float64
		want       float64
	}{
		{"deficit grows", 10, 5, 2, 0, 13},
		{"irrigation refills", 13, 3, 0, 1, 15},
		{"rain refills", 15, 4, 1, 0, 18},
		{"surplus floors at zero", 2, 0.5, 10, 0, 0},
		{"irrigation floors at zero", 5, 0.2, 0, 25, 0},
		{"no change", 7, 0, 0, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := SoilWaterBalance(tt.prev, tt.etc, tt.precip, tt.irrigation)
			assert.InDelta(t, tt.want, b.Depletion, 1e-12)
			assert.Equal(t, 1.0, b.Ks)
			assert.Equal(t, b.Depletion, b.StressIndex)
		})
	}
}

func TestSoilWaterBalanceMonotonic(t *testing.T) {
	const prev, etc = 20.0, 0.4

	last := SoilWaterBalance(prev, etc, 0, 0).Depletion
	for pe := 0.5; pe <= 30; pe += 0.5 {
		d := SoilWaterBalance(prev, etc, pe, 0).Depletion
		if last > 0 {
			assert.Less(t, d, last, "precipitation %.1f", pe)
		} else {
			assert.Equal(t, 0.0, d)
		}
		last = d
	}

	last = SoilWaterBalance(prev, etc, 0, 0).Depletion
	for irr := 0.5; irr <= 30; irr += 0.5 {
		d := SoilWaterBalance(prev, etc, 0, irr).Depletion
		assert.LessOrEqual(t, d, last, "irrigation %.1f", irr)
		last = d
	}

	last = SoilWaterBalance(prev, 0, 0, 0).Depletion
	for e := 0.1; e <= 2; e += 0.1 {
		d := SoilWaterBalance(prev, e, 0, 0).Depletion
		assert.Greater(t, d, last, "etc %.1f", e)
		last = d
	}
}

func TestCropET(t *testing.T) {
	assert.InDelta(t, 0.504, CropET(0.8, 0.63), 1e-12)
	assert.Equal(t, 0.0, CropET(1.15, 0))
}

func TestSoilWaterBalanceGoldenSequence(t *testing.T) {
	steps := []struct{ etc, precip, irrigation float64 }{
		{5, 2, 0},
		{3, 0, 1},
		{4, 1, 0},
	}
	want := []float64{13, 15, 18}

	depletion := 10.0
	for i, s := range steps {
		depletion = SoilWaterBalance(depletion, s.etc, s.precip, s.irrigation).Depletion
		assert.InDelta(t, want[i], depletion, 1e-12, "hour %d", i)
	}
}
