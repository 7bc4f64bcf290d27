package synth

import "sync/atomic"

// Gate жёсткий гейт громкости синтеза. Закрытый гейт глушит весь
// грануляционный вывод, даже если голоса продолжают звучать
type Gate struct {
	open atomic.Bool
}

// NewGate создаёт гейт в указанном состоянии
func NewGate(open bool) *Gate {
	g := &Gate{}
	g.open.Store(open)
	return g
}

// SetOpen переключает гейт
func (g *Gate) SetOpen(open bool) {
	g.open.Store(open)
}

// IsOpen сообщает текущее состояние
func (g *Gate) IsOpen() bool {
	return g.open.Load()
}

// Apply глушит buf, если гейт закрыт
func (g *Gate) Apply(buf []float32) {
	if g.open.Load() {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
}
