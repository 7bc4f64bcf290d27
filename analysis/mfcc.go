package analysis

import "math"

// dctMatrix создаёт матрицу DCT-II с ортонормальной нормализацией
// для перевода log-mel энергий в кепстральные коэффициенты
func dctMatrix(numCoeffs, nMels int) [][]float64 {
	matrix := make([][]float64, numCoeffs)
	for k := 0; k < numCoeffs; k++ {
		matrix[k] = make([]float64, nMels)
		for n := 0; n < nMels; n++ {
			matrix[k][n] = math.Cos(math.Pi * float64(k) * (float64(n) + 0.5) / float64(nMels))
			if k == 0 {
				matrix[k][n] *= math.Sqrt(1.0 / float64(nMels))
			} else {
				matrix[k][n] *= math.Sqrt(2.0 / float64(nMels))
			}
		}
	}
	return matrix
}

// applyDCT сворачивает log-mel спектр матрицей DCT
func applyDCT(matrix [][]float64, logMel []float64) []float64 {
	coeffs := make([]float64, len(matrix))
	for k := range matrix {
		var sum float64
		for n := 0; n < len(logMel) && n < len(matrix[k]); n++ {
			sum += logMel[n] * matrix[k][n]
		}
		coeffs[k] = sum
	}
	return coeffs
}
