package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"antiphon/audio"
)

// headerFlushEvery период обновления WAV-заголовка в пачках семплов
const headerFlushEvery = 200

// Recorder пишет сведённый выход сессии на диск: WAV всегда, MP3 по
// желанию. Семплы приходят из коллбэка воспроизведения через
// буферизованный канал; при переполнении пачки отбрасываются, чтобы
// не задерживать аудиотракт
type Recorder struct {
	wav *WAVWriter
	mp3 *MP3Writer

	data chan []float32
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewRecorder создаёт писателей выступления в dir. mp3 включает
// параллельную MP3-дорожку
func NewRecorder(dir, sessionID string, mp3 bool) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recordings dir: %w", err)
	}

	base := filepath.Join(dir, "performance_"+sessionID)
	wav, err := NewWAVWriter(base+".wav", audio.SampleRate, 2)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		wav:  wav,
		data: make(chan []float32, 1000),
		done: make(chan struct{}),
	}
	if mp3 {
		w, err := NewMP3Writer(base+".mp3", audio.SampleRate, 2)
		if err != nil {
			wav.Close()
			return nil, err
		}
		r.mp3 = w
	}

	go r.run()
	log.Printf("[Recorder] Started: %s.wav (mp3=%v)", base, mp3)
	return r, nil
}

// Feed принимает пачку интерлив-стерео семплов из аудиотракта.
// Пачка копируется, вызов не блокируется
func (r *Recorder) Feed(samples []float32) {
	buf := make([]float32, len(samples))
	copy(buf, samples)
	select {
	case r.data <- buf:
	default:
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	count := 0
	for samples := range r.data {
		if err := r.wav.Write(samples); err != nil {
			log.Printf("[Recorder] WAV write failed: %v", err)
		}
		if r.mp3 != nil {
			if err := r.mp3.Write(samples); err != nil {
				log.Printf("[Recorder] MP3 write failed: %v", err)
			}
		}
		count++
		if count%headerFlushEvery == 0 {
			r.wav.FlushHeader()
		}
	}
}

// Close завершает запись и закрывает файлы
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.data)
	<-r.done

	var firstErr error
	if err := r.wav.Close(); err != nil {
		firstErr = err
	}
	if r.mp3 != nil {
		if err := r.mp3.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	log.Printf("[Recorder] Stopped: %d samples", r.wav.SamplesWritten())
	return firstErr
}
