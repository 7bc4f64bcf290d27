package audio

import (
	"sync"
	"time"
)

// LoopBuffer петлевой буфер живого захвата для дословного эха.
// Планировщик взводит запись на фазу слушания, затем проигрывает
// взятый дубль ровно той же длительности. Запись и воспроизведение
// по построению циклов никогда не идут одновременно
type LoopBuffer struct {
	mu sync.Mutex

	buf       []float32
	maxLen    int
	recording bool

	playing bool
	playPos int
}

// NewLoopBuffer создаёт пустой петлевой буфер
func NewLoopBuffer() *LoopBuffer {
	return &LoopBuffer{}
}

// Arm начинает новый дубль. maxSamples ограничивает длину записи,
// лишние семплы молча отбрасываются
func (l *LoopBuffer) Arm(maxSamples int) {
	l.mu.Lock()
	l.buf = l.buf[:0]
	l.maxLen = maxSamples
	l.recording = true
	l.playing = false
	l.mu.Unlock()
}

// Disarm завершает дубль
func (l *LoopBuffer) Disarm() {
	l.mu.Lock()
	l.recording = false
	l.mu.Unlock()
}

// Append дописывает захваченные семплы в текущий дубль.
// Вне взведённого состояния вызов игнорируется
func (l *LoopBuffer) Append(samples []float32) {
	l.mu.Lock()
	if l.recording {
		room := l.maxLen - len(l.buf)
		if room > 0 {
			if len(samples) > room {
				samples = samples[:room]
			}
			l.buf = append(l.buf, samples...)
		}
	}
	l.mu.Unlock()
}

// StartPlayback начинает воспроизведение дубля с начала
func (l *LoopBuffer) StartPlayback() {
	l.mu.Lock()
	l.playPos = 0
	l.playing = true
	l.mu.Unlock()
}

// StopPlayback прекращает воспроизведение
func (l *LoopBuffer) StopPlayback() {
	l.mu.Lock()
	l.playing = false
	l.mu.Unlock()
}

// RecordedLen возвращает длину дубля в семплах
func (l *LoopBuffer) RecordedLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf)
}

// RecordedDuration возвращает длительность дубля
func (l *LoopBuffer) RecordedDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return time.Duration(len(l.buf)) * time.Second / SampleRate
}

// Render дописывает дубль в стерео-выход. Моно-дубль идёт в оба
// канала поровну; по исчерпании дубля воспроизведение замолкает
func (l *LoopBuffer) Render(out []float32, frames int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.playing {
		return
	}

	for i := 0; i < frames; i++ {
		if l.playPos >= len(l.buf) {
			l.playing = false
			return
		}
		s := l.buf[l.playPos]
		out[i*2] += s
		out[i*2+1] += s
		l.playPos++
	}
}
