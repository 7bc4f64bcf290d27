package analysis

import (
	"context"
	"fmt"
	"time"
)

// Clock минимальный интерфейс часов, нужный агрегатору для
// разбиения слушающего окна на временные доли
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Aggregator накапливает векторы признаков слушающего окна.
// Кольцо из numFrames векторов целиком перезаписывается каждый цикл
// и сводится к среднему арифметическому по каждому измерению.
// Никакой нормализации и отбраковки выбросов не делается
type Aggregator struct {
	frames [][]float64
	dim    int
	pos    int
}

// NewAggregator создаёт агрегатор на numFrames векторов размерности dim
func NewAggregator(numFrames, dim int) (*Aggregator, error) {
	if numFrames <= 0 {
		return nil, fmt.Errorf("number of frames must be positive, got %d", numFrames)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("feature dimension must be positive, got %d", dim)
	}

	frames := make([][]float64, numFrames)
	for i := range frames {
		frames[i] = make([]float64, dim)
	}
	return &Aggregator{frames: frames, dim: dim}, nil
}

// NumFrames возвращает размер кольца
func (g *Aggregator) NumFrames() int {
	return len(g.frames)
}

// Reset сбрасывает позицию записи к началу кольца
func (g *Aggregator) Reset() {
	g.pos = 0
}

// Add записывает вектор в следующую позицию кольца с заворотом
func (g *Aggregator) Add(v []float64) {
	dst := g.frames[g.pos%len(g.frames)]
	for i := 0; i < g.dim && i < len(v); i++ {
		dst[i] = v[i]
	}
	g.pos++
}

// Reduce возвращает среднее арифметическое всех хранимых векторов
func (g *Aggregator) Reduce() []float64 {
	mean := make([]float64, g.dim)
	for _, frame := range g.frames {
		for i := range mean {
			mean[i] += frame[i]
		}
	}
	n := float64(len(g.frames))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}

// Collect набирает ровно NumFrames векторов за одно слушающее окно:
// окно делится на равные доли, в конце каждой доли из source
// забирается свежий вектор. Бюджет доли window/NumFrames не
// корректируется по дрейфу, допустимое сползание не превышает доли
func (g *Aggregator) Collect(ctx context.Context, clk Clock, window time.Duration, source func() []float64) error {
	g.Reset()
	slice := window / time.Duration(len(g.frames))
	for i := 0; i < len(g.frames); i++ {
		if err := clk.Sleep(ctx, slice); err != nil {
			return err
		}
		g.Add(source())
	}
	return nil
}
