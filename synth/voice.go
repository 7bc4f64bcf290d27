package synth

import (
	"math"
	"sync"
	"time"
)

// Voice один голос гранулятора: читает сегмент исходного файла,
// умножает на огибающую и раскладывает по фиксированной панораме
type Voice struct {
	mu sync.Mutex

	source []float32
	pos    int
	env    *Envelope

	panL float32
	panR float32
}

func newVoice(attack, release time.Duration, pan float64, sampleRate int) *Voice {
	// равномощностная панорама: pan из [-1, 1]
	angle := (pan + 1) * math.Pi / 4
	return &Voice{
		env:  NewEnvelope(attack, 0, release, 1, sampleRate),
		panL: float32(math.Cos(angle)),
		panR: float32(math.Sin(angle)),
	}
}

// Trigger перезапускает голос с нового сегмента. Если голос ещё звучал,
// прежняя грань обрывается, атака начинается с текущего уровня
func (v *Voice) Trigger(source []float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = source
	v.pos = 0
	v.env.KeyOn()
}

// Release отпускает голос, начиная спад
func (v *Voice) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.env.KeyOff()
}

// Render добавляет frames стереофреймов голоса в out
func (v *Voice) Render(out []float32, frames int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.env.Active() {
		return
	}
	for i := 0; i < frames; i++ {
		level := v.env.Next()
		if level == 0 && !v.env.Active() {
			return
		}
		var s float32
		if v.pos < len(v.source) {
			s = v.source[v.pos]
			v.pos++
		}
		out[i*2] += s * level * v.panL
		out[i*2+1] += s * level * v.panR
	}
}
