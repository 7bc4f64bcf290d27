// Package analysis реализует потоковый анализатор тембра: из живого
// микрофонного сигнала извлекаются MFCC-векторы фиксированной размерности,
// а агрегатор сводит серию векторов слушающего окна к одному запросу
package analysis

import "math"

// hannWindow создаёт окно Ханна заданного размера
func hannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := 0; i < size; i++ {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return window
}
