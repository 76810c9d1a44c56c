package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// FFT is the discrete Fourier transform of a real series. Any length is
// accepted.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum returns the magnitude spectrum of data with its mean
// removed, zero-padded to the next power of two. Bin k corresponds to a
// period of len(padded)/k samples.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, nextPow2(len(data)))
	mean := stat.Mean(data, nil)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := FFT(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod is the period, in samples, of the strongest non-constant
// component of data. It is 0 for constant or too short series.
func DominantPeriod(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak+1e-9 {
			best, peak = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(2*len(ps)) / float64(best)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
