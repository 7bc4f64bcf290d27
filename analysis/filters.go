package analysis

import "math"

// highPass применяет IIR-фильтр высоких частот первого порядка.
// Убирает DC-смещение и низкочастотный гул перед спектральным анализом.
// Исходные семплы не изменяются
func highPass(samples []float64, sampleRate int, cutoffHz float64) []float64 {
	if len(samples) == 0 || cutoffHz <= 0 {
		return samples
	}

	// RC = 1 / (2 * PI * cutoff), alpha = RC / (RC + dt)
	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / float64(sampleRate)
	alpha := rc / (rc + dt)

	result := make([]float64, len(samples))
	result[0] = samples[0]

	prevInput := samples[0]
	prevOutput := samples[0]

	for i := 1; i < len(samples); i++ {
		// y[i] = alpha * (y[i-1] + x[i] - x[i-1])
		result[i] = alpha * (prevOutput + samples[i] - prevInput)
		prevInput = samples[i]
		prevOutput = result[i]
	}

	return result
}
