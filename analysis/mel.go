package analysis

import "math"

// melFilterbank создаёт треугольные mel-фильтры
// Работает в Hz, совместимо с torchaudio/librosa (HTK formula)
func melFilterbank(nFFT, nMels, sampleRate int) [][]float64 {
	hzToMel := func(hz float64) float64 {
		return 2595.0 * math.Log10(1.0+hz/700.0)
	}
	melToHz := func(mel float64) float64 {
		return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
	}

	numBins := nFFT/2 + 1
	fMax := float64(sampleRate) / 2.0

	// Частоты для каждого FFT bin
	allFreqs := make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		allFreqs[i] = float64(i) * fMax / float64(numBins-1)
	}

	// Точки mel-шкалы: левый край, центры, правый край
	mMin := hzToMel(0)
	mMax := hzToMel(fMax)
	fPts := make([]float64, nMels+2)
	for i := 0; i < nMels+2; i++ {
		mel := mMin + float64(i)*(mMax-mMin)/float64(nMels+1)
		fPts[i] = melToHz(mel)
	}

	fDiff := make([]float64, nMels+1)
	for i := 0; i < nMels+1; i++ {
		fDiff[i] = fPts[i+1] - fPts[i]
	}

	filters := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		filters[m] = make([]float64, numBins)

		for k := 0; k < numBins; k++ {
			freq := allFreqs[k]

			lower := (freq - fPts[m]) / fDiff[m]
			upper := (fPts[m+2] - freq) / fDiff[m+1]

			val := math.Min(lower, upper)
			if val < 0 {
				val = 0
			}
			filters[m][k] = val
		}
	}

	return filters
}
