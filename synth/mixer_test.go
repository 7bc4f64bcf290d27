package synth

import (
	"math"
	"testing"

	"antiphon/audio"
)

func TestGate_Apply(t *testing.T) {
	buf := []float32{0.5, -0.5, 1, -1}

	open := NewGate(true)
	open.Apply(buf)
	if buf[0] != 0.5 {
		t.Error("open gate must pass signal unchanged")
	}

	closed := NewGate(true)
	closed.SetOpen(false)
	closed.Apply(buf)
	for i, s := range buf {
		if s != 0 {
			t.Errorf("sample %d: expected silence through closed gate, got %f", i, s)
		}
	}
}

func TestVoice_FixedPan(t *testing.T) {
	// Панорама задаётся при создании и не зависит от сегмента
	v := newVoice(0, 0, -1, 48000)
	src := []float32{1, 1, 1, 1}
	v.Trigger(src)

	out := make([]float32, 8)
	v.Render(out, 4)
	if out[0] < 0.99 {
		t.Errorf("expected full left signal, got %f", out[0])
	}
	if math.Abs(float64(out[1])) > 1e-6 {
		t.Errorf("expected silent right channel, got %f", out[1])
	}
}

func TestClick_TriggerAndDecay(t *testing.T) {
	c := NewClick()
	c.Trigger(1760, 0.5)

	frames := int(float64(audio.SampleRate)*clickDuration.Seconds()) + 100
	out := make([]float32, frames*2)
	c.Render(out, frames)

	var peak float32
	for _, s := range out {
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		t.Fatal("expected audible click")
	}
	if peak > 0.5 {
		t.Errorf("click peak %f exceeds gain", peak)
	}

	// щелчок исчерпан, повторный рендер ничего не добавляет
	tail := make([]float32, 16)
	c.Render(tail, 8)
	for i, s := range tail {
		if s != 0 {
			t.Errorf("sample %d: expected silence after click end, got %f", i, s)
		}
	}
}

func TestReverb_ImpulseDecays(t *testing.T) {
	r := NewReverb(48000, 1)

	const chunk = 480
	buf := make([]float32, chunk*2)
	buf[0] = 1
	buf[1] = 1
	r.ProcessBuffer(buf, chunk)

	var late float32
	for i := 0; i < 300; i++ {
		for j := range buf {
			buf[j] = 0
		}
		r.ProcessBuffer(buf, chunk)
		if i > 280 {
			for _, s := range buf {
				if a := float32(math.Abs(float64(s))); a > late {
					late = a
				}
				if math.IsNaN(float64(s)) {
					t.Fatal("reverb produced NaN")
				}
			}
		}
	}
	if late > 0.01 {
		t.Errorf("reverb tail did not decay: %f", late)
	}
}

func TestMixer_GateSilencesVoices(t *testing.T) {
	clock := &fakeClock{}
	pool := buildTestPool(t, 1, clock)
	click := NewClick()
	loop := audio.NewLoopBuffer()
	reverb := NewReverb(48000, 0)
	gate := NewGate(false)
	mixer := NewMixer(click, loop, pool, reverb, gate)

	src := make([]float32, 1024)
	for i := range src {
		src[i] = 0.5
	}
	pool.voices[0].Trigger(src)

	out := make([]float32, 64)
	mixer.Render(out, 32)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d: expected silence through closed gate, got %f", i, s)
		}
	}

	gate.SetOpen(true)
	mixer.Render(out, 32)
	var sum float64
	for _, s := range out {
		sum += math.Abs(float64(s))
	}
	if sum == 0 {
		t.Error("expected audible voices through open gate")
	}
}

func TestMixer_ClipsOutput(t *testing.T) {
	clock := &fakeClock{}
	pool := buildTestPool(t, 1, clock)
	mixer := NewMixer(NewClick(), audio.NewLoopBuffer(), pool, NewReverb(48000, 0), NewGate(true))

	src := make([]float32, 256)
	for i := range src {
		src[i] = 10
	}
	pool.voices[0].Trigger(src)

	out := make([]float32, 32)
	mixer.Render(out, 16)
	for i, s := range out {
		if s > 1 || s < -1 {
			t.Errorf("sample %d: output %f outside [-1, 1]", i, s)
		}
	}
}
