// Слуховой тест гранулятора: проигрывает случайные окна корпуса
// через пул голосов, реверберацию и воспроизведение
// Запуск: go run ./cmd/testvoice -corpus corpus.txt -n 16
// Остановка: Ctrl+C или после n нот

package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"antiphon/audio"
	"antiphon/corpus"
	"antiphon/session"
	"antiphon/synth"
)

func main() {
	corpusPath := flag.String("corpus", "corpus.txt", "Path to corpus feature file")
	audioDir := flag.String("audio-dir", "", "Directory with corpus source audio")
	voices := flag.Int("voices", 8, "Voice pool size")
	notes := flag.Int("n", 16, "Notes to play")
	noteDur := flag.Duration("dur", 400*time.Millisecond, "Note duration")
	flag.Parse()

	log.Println("=== Слуховой тест гранулятора ===")

	table, err := corpus.Load(*corpusPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки корпуса: %v", err)
	}

	baseDir := *audioDir
	if baseDir == "" {
		baseDir = filepath.Dir(*corpusPath)
	}
	bank, err := synth.LoadSourceBank(baseDir, table.Files())
	if err != nil {
		log.Fatalf("Ошибка загрузки исходников: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	clock := session.WallClock{}
	pool, err := synth.NewPool(table, bank, *voices, rng, clock)
	if err != nil {
		log.Fatalf("Ошибка создания пула: %v", err)
	}

	mixer := synth.NewMixer(synth.NewClick(), audio.NewLoopBuffer(), pool,
		synth.NewReverb(audio.SampleRate, 0.18), synth.NewGate(true))
	playback, err := audio.NewPlayback(mixer)
	if err != nil {
		log.Fatalf("Ошибка инициализации воспроизведения: %v", err)
	}
	defer playback.Close()

	if err := playback.Start(); err != nil {
		log.Fatalf("Ошибка запуска воспроизведения: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stopChan
		log.Println("Остановка...")
		cancel()
	}()

	for i := 0; i < *notes && ctx.Err() == nil; i++ {
		id := rng.Intn(table.Len())
		w, err := table.Window(id)
		if err != nil {
			log.Fatalf("Ошибка чтения окна %d: %v", id, err)
		}
		name, _ := table.FilePath(w.SourceFileIndex)
		log.Printf("Нота %d: окно %d (%s @ %.2f сек)", i+1, id, name, w.StartTime)

		if _, err := pool.Play(ctx, id, *noteDur); err != nil && ctx.Err() == nil {
			log.Fatalf("Ошибка воспроизведения: %v", err)
		}
	}

	// дать дозвучать хвосту реверберации
	time.Sleep(time.Second)
	playback.Stop()
	log.Println("Готово")
}
