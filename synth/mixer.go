package synth

import (
	"antiphon/audio"
)

// Mixer сводит источники в выходной буфер воспроизведения: щелчки
// метронома и эхо-петля идут напрямую, голоса гранулятора проходят
// через реверберационную шину и гейт громкости
type Mixer struct {
	click  *Click
	loop   *audio.LoopBuffer
	pool   *Pool
	reverb *Reverb
	gate   *Gate

	scratch []float32
}

// NewMixer собирает тракт воспроизведения
func NewMixer(click *Click, loop *audio.LoopBuffer, pool *Pool, reverb *Reverb, gate *Gate) *Mixer {
	return &Mixer{
		click:  click,
		loop:   loop,
		pool:   pool,
		reverb: reverb,
		gate:   gate,
	}
}

// Render реализует audio.Renderer
func (m *Mixer) Render(out []float32, frames int) {
	m.click.Render(out, frames)
	m.loop.Render(out, frames)

	need := frames * 2
	if cap(m.scratch) < need {
		m.scratch = make([]float32, need)
	}
	grain := m.scratch[:need]
	for i := range grain {
		grain[i] = 0
	}
	m.pool.RenderVoices(grain, frames)
	m.reverb.ProcessBuffer(grain, frames)
	m.gate.Apply(grain)
	for i := range grain {
		out[i] += grain[i]
	}

	for i := range out[:need] {
		if out[i] > 1 {
			out[i] = 1
		} else if out[i] < -1 {
			out[i] = -1
		}
	}
}
