package synth

import (
	"math"
	"sync"
	"time"

	"antiphon/audio"
)

const clickDuration = 30 * time.Millisecond

// Click генератор щелчка метронома: короткий синусоидальный импульс
// с линейным затуханием. Повторный запуск обрывает предыдущий щелчок
type Click struct {
	mu sync.Mutex

	freq      float64
	gain      float32
	phase     float64
	remaining int
	total     int
}

// NewClick создаёт генератор щелчка
func NewClick() *Click {
	return &Click{}
}

// Trigger запускает щелчок с частотой freq и громкостью gain
func (c *Click) Trigger(freq float64, gain float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freq = freq
	c.gain = gain
	c.phase = 0
	c.total = int(float64(audio.SampleRate) * clickDuration.Seconds())
	c.remaining = c.total
}

// Render добавляет звучащий щелчок в out (интерлив стерео)
func (c *Click) Render(out []float32, frames int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining <= 0 {
		return
	}
	step := 2 * math.Pi * c.freq / float64(audio.SampleRate)
	for i := 0; i < frames && c.remaining > 0; i++ {
		fade := float32(c.remaining) / float32(c.total)
		s := float32(math.Sin(c.phase)) * c.gain * fade
		out[i*2] += s
		out[i*2+1] += s
		c.phase += step
		c.remaining--
	}
}
