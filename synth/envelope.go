package synth

import "time"

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// Envelope линейный ADSR-генератор огибающей, продвигается по семплу
type Envelope struct {
	attackStep  float32
	decayStep   float32
	releaseStep float32
	sustain     float32

	stage envStage
	level float32
}

// NewEnvelope создаёт огибающую. Нулевые длительности дают мгновенные
// переходы, sustain задаёт уровень удержания [0, 1]
func NewEnvelope(attack, decay, release time.Duration, sustain float32, sampleRate int) *Envelope {
	step := func(d time.Duration) float32 {
		samples := float64(d) / float64(time.Second) * float64(sampleRate)
		if samples < 1 {
			return 1
		}
		return float32(1 / samples)
	}
	return &Envelope{
		attackStep:  step(attack),
		decayStep:   step(decay),
		releaseStep: step(release),
		sustain:     sustain,
	}
}

// KeyOn запускает атаку с текущего уровня
func (e *Envelope) KeyOn() {
	e.stage = envAttack
}

// KeyOff запускает спад с текущего уровня
func (e *Envelope) KeyOff() {
	e.stage = envRelease
}

// Active сообщает, звучит ли ещё огибающая
func (e *Envelope) Active() bool {
	return e.stage != envIdle
}

// Next продвигает огибающую на один семпл и возвращает уровень
func (e *Envelope) Next() float32 {
	switch e.stage {
	case envAttack:
		e.level += e.attackStep
		if e.level >= 1 {
			e.level = 1
			e.stage = envDecay
		}
	case envDecay:
		e.level -= e.decayStep
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = envSustain
		}
	case envSustain:
		e.level = e.sustain
	case envRelease:
		e.level -= e.releaseStep
		if e.level <= 0 {
			e.level = 0
			e.stage = envIdle
		}
	}
	return e.level
}
