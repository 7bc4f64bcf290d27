package audio

import (
	"testing"
	"time"
)

// TestLoopBuffer_RecordPlayback взведение, запись и дословное воспроизведение
func TestLoopBuffer_RecordPlayback(t *testing.T) {
	l := NewLoopBuffer()

	l.Arm(100)
	first := make([]float32, 60)
	for i := range first {
		first[i] = float32(i) / 100
	}
	l.Append(first)

	second := make([]float32, 60)
	for i := range second {
		second[i] = -0.5
	}
	l.Append(second)
	l.Disarm()

	// Вместимость 100: второй кусок обрезан до 40 семплов
	if l.RecordedLen() != 100 {
		t.Fatalf("Expected 100 recorded samples, got %d", l.RecordedLen())
	}

	wantDur := time.Duration(100) * time.Second / SampleRate
	if l.RecordedDuration() != wantDur {
		t.Errorf("Expected duration %v, got %v", wantDur, l.RecordedDuration())
	}

	l.StartPlayback()

	out := make([]float32, 50*2)
	l.Render(out, 50)
	for i := 0; i < 50; i++ {
		if out[i*2] != first[i] || out[i*2+1] != first[i] {
			t.Fatalf("Frame %d: expected %f in both channels, got L=%f R=%f",
				i, first[i], out[i*2], out[i*2+1])
		}
	}

	// Второй рендер: 10 хвостовых семплов первого куска, 40 из второго,
	// затем дубль исчерпан и остаётся тишина
	out2 := make([]float32, 60*2)
	l.Render(out2, 60)
	for i := 0; i < 10; i++ {
		if out2[i*2] != first[50+i] {
			t.Fatalf("Tail frame %d: expected %f, got %f", i, first[50+i], out2[i*2])
		}
	}
	for i := 10; i < 50; i++ {
		if out2[i*2] != -0.5 {
			t.Fatalf("Frame %d: expected -0.5, got %f", i, out2[i*2])
		}
	}
	for i := 50; i < 60; i++ {
		if out2[i*2] != 0 {
			t.Errorf("Frame %d after take end: expected silence, got %f", i, out2[i*2])
		}
	}
}

// TestLoopBuffer_AppendIgnoredWhenDisarmed запись вне взведения игнорируется
func TestLoopBuffer_AppendIgnoredWhenDisarmed(t *testing.T) {
	l := NewLoopBuffer()

	l.Append([]float32{1, 2, 3})
	if l.RecordedLen() != 0 {
		t.Errorf("Expected empty take, got %d samples", l.RecordedLen())
	}

	l.Arm(10)
	l.Append([]float32{1})
	l.Disarm()
	l.Append([]float32{2, 3})
	if l.RecordedLen() != 1 {
		t.Errorf("Expected 1 sample after disarm, got %d", l.RecordedLen())
	}
}

// TestLoopBuffer_StopSilences после остановки рендер ничего не добавляет
func TestLoopBuffer_StopSilences(t *testing.T) {
	l := NewLoopBuffer()
	l.Arm(4)
	l.Append([]float32{0.5, 0.5, 0.5, 0.5})
	l.Disarm()

	l.StartPlayback()
	l.StopPlayback()

	out := make([]float32, 4*2)
	l.Render(out, 4)
	for i, s := range out {
		if s != 0 {
			t.Errorf("Sample %d: expected silence, got %f", i, s)
		}
	}
}

// TestLoopBuffer_ReArm повторное взведение начинает новый дубль
func TestLoopBuffer_ReArm(t *testing.T) {
	l := NewLoopBuffer()
	l.Arm(8)
	l.Append([]float32{1, 1, 1})
	l.Disarm()

	l.Arm(8)
	l.Append([]float32{2})
	l.Disarm()

	if l.RecordedLen() != 1 {
		t.Fatalf("Expected fresh take of 1 sample, got %d", l.RecordedLen())
	}

	l.StartPlayback()
	out := make([]float32, 2)
	l.Render(out, 1)
	if out[0] != 2 {
		t.Errorf("Expected new take sample 2, got %f", out[0])
	}
}
