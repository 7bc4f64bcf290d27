// Сухой прогон полного планировщика на виртуальных часах
// Запуск: go run ./cmd/testfull -tempo 120 -beats 4 -measures 2 -cycles 2
//
// Аудио-устройства не нужны: собирается настоящий планировщик на
// крошечном синтетическом корпусе, виртуальные часы продвигаются по
// долям и печатается таймлайн событий. Удобно проверять темповую
// арифметику перед живой сессией

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"antiphon/audio"
	"antiphon/corpus"
	"antiphon/session"
	"antiphon/synth"
)

type staticFeatures struct {
	vec []float64
}

func (f *staticFeatures) Current() []float64 {
	return append([]float64(nil), f.vec...)
}

func (f *staticFeatures) Dim() int {
	return len(f.vec)
}

func main() {
	bpm := flag.Int("tempo", 120, "Tempo in BPM")
	beats := flag.Int("beats", 4, "Beats per measure")
	measures := flag.Int("measures", 2, "Measures per phrase")
	cycles := flag.Int("cycles", 2, "Full cycles to run")
	flag.Parse()

	log.Println("=== Сухой прогон планировщика ===")

	tempo, err := session.NewTempo(*bpm, *beats, *measures)
	if err != nil {
		log.Fatalf("Неверный темп: %v", err)
	}
	log.Printf("Темп: %s, циклов: %d", tempo, *cycles)

	dir, err := os.MkdirTemp("", "antiphon-testfull")
	if err != nil {
		log.Fatalf("Ошибка создания временной директории: %v", err)
	}
	defer os.RemoveAll(dir)

	if err := writeSource(filepath.Join(dir, "probe.wav")); err != nil {
		log.Fatalf("Ошибка записи синтетического исходника: %v", err)
	}

	data := "probe.wav 0.0 0 0\n" +
		"probe.wav 0.02 10 10\n" +
		"probe.wav 0.01 0 1\n"
	table, err := corpus.Parse(strings.NewReader(data))
	if err != nil {
		log.Fatalf("Ошибка разбора корпуса: %v", err)
	}
	bank, err := synth.LoadSourceBank(dir, table.Files())
	if err != nil {
		log.Fatalf("Ошибка загрузки исходников: %v", err)
	}

	start := time.Now()
	clock := session.NewVirtualClock(start)
	rng := rand.New(rand.NewSource(1))

	pool, err := synth.NewPool(table, bank, 4, rng, clock)
	if err != nil {
		log.Fatalf("Ошибка создания пула: %v", err)
	}

	sched, err := session.NewScheduler(
		session.SchedulerConfig{Tempo: tempo, K: 2, NumFrames: 1},
		clock, table, corpus.NewIndex(table),
		&staticFeatures{vec: []float64{0, 0.2}},
		pool, synth.NewClick(), synth.NewGate(false), audio.NewLoopBuffer(), rng)
	if err != nil {
		log.Fatalf("Ошибка создания планировщика: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range sched.Events() {
			log.Print(formatEvent(start, ev))
		}
	}()

	// Один шаг часов на долю; перед шагом ждём, пока все четыре задачи
	// снова встанут в очередь пробуждений
	beat := tempo.Beat()
	totalBeats := *cycles * tempo.BeatsPerPhrase() * 2
	for i := 0; i < totalBeats; i++ {
		if !clock.BlockUntilWaiters(4, time.Second) {
			log.Fatal("Задачи планировщика не вышли на ожидание часов")
		}
		time.Sleep(2 * time.Millisecond)
		clock.Advance(beat)
	}

	cancel()
	<-printed
	log.Println("Готово")
}

func formatEvent(start time.Time, ev session.Event) string {
	at := ev.Timestamp.Sub(start).Seconds()
	switch ev.Type {
	case session.EventBeat:
		side := "исполнитель"
		if ev.SystemTurn {
			side = "система"
		}
		accent := ""
		if ev.Downbeat {
			accent = ", сильная"
		}
		return fmt.Sprintf("%7.2fs  доля %d (%s%s)", at, ev.Beat, side, accent)
	case session.EventEcho:
		phase := "запись"
		if ev.Phase == session.EchoPhasePlayback {
			phase = "воспроизведение"
		}
		return fmt.Sprintf("%7.2fs  эхо: %s", at, phase)
	case session.EventResponse:
		return fmt.Sprintf("%7.2fs  ответ: окно %d (%s @ %.2fs) d=%.3f",
			at, ev.WindowID, ev.File, ev.StartTime, ev.Distance)
	case session.EventGate:
		state := "закрыт"
		if ev.GateOpen {
			state = "открыт"
		}
		return fmt.Sprintf("%7.2fs  гейт: %s", at, state)
	}
	return fmt.Sprintf("%7.2fs  %s", at, ev.Type)
}

func writeSource(path string) error {
	w, err := session.NewWAVWriter(path, audio.SampleRate, 1)
	if err != nil {
		return err
	}
	samples := make([]float32, audio.SampleRate/10)
	for i := range samples {
		samples[i] = 0.25
	}
	if err := w.Write(samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
