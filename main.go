package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"antiphon/analysis"
	"antiphon/audio"
	"antiphon/corpus"
	"antiphon/internal/api"
	"antiphon/internal/config"
	"antiphon/internal/console"
	"antiphon/session"
	"antiphon/synth"
)

const reverbMix = 0.18

func main() {
	log.Println("Antiphon starting...")

	cfg := config.Load()

	// Initialize Audio
	log.Println("Initializing audio capture...")
	capture, err := audio.NewCapture()
	if err != nil {
		log.Fatalf("Failed to init audio: %v", err)
	}
	defer capture.Close()

	if cfg.ListDevices {
		devices, err := capture.ListDevices()
		if err != nil {
			log.Fatalf("Failed to list devices: %v", err)
		}
		for _, d := range devices {
			log.Printf("  %s (input=%v output=%v)", d.Name, d.IsInput, d.IsOutput)
		}
		return
	}
	if cfg.Device != "" {
		if err := capture.SetDeviceByName(cfg.Device); err != nil {
			log.Fatalf("Failed to select device %q: %v", cfg.Device, err)
		}
	}

	if cfg.Interactive {
		con := console.New(os.Stdin, os.Stdout)
		if cfg.BPM, err = con.AskInt("Tempo (BPM)", cfg.BPM); err != nil {
			log.Fatalf("Failed to read tempo: %v", err)
		}
		if cfg.BeatsPerMeasure, err = con.AskInt("Beats per measure", cfg.BeatsPerMeasure); err != nil {
			log.Fatalf("Failed to read beats: %v", err)
		}
		if cfg.MeasuresPerPhrase, err = con.AskInt("Measures per phrase", cfg.MeasuresPerPhrase); err != nil {
			log.Fatalf("Failed to read measures: %v", err)
		}
	}

	tempo, err := session.NewTempo(cfg.BPM, cfg.BeatsPerMeasure, cfg.MeasuresPerPhrase)
	if err != nil {
		log.Fatalf("Invalid tempo: %v", err)
	}
	log.Printf("Tempo: %s", tempo)

	// Initialize Corpus
	log.Println("Loading corpus...")
	table, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	index := corpus.NewIndex(table)

	audioDir := cfg.AudioDir
	if audioDir == "" {
		audioDir = filepath.Dir(cfg.CorpusPath)
	}
	log.Printf("Audio directory: %s", audioDir)
	bank, err := synth.LoadSourceBank(audioDir, table.Files())
	if err != nil {
		log.Fatalf("Failed to load source audio: %v", err)
	}

	// Initialize Analysis
	acfg := analysis.DefaultConfig()
	acfg.NumCoeffs = cfg.NumCoeffs
	analyzer, err := analysis.NewAnalyzer(acfg)
	if err != nil {
		log.Fatalf("Failed to init analyzer: %v", err)
	}

	// Initialize Synth
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	clock := session.WallClock{}
	pool, err := synth.NewPool(table, bank, cfg.Voices, rng, clock)
	if err != nil {
		log.Fatalf("Failed to init voice pool: %v", err)
	}

	click := synth.NewClick()
	gate := synth.NewGate(false)
	loop := audio.NewLoopBuffer()
	mixer := synth.NewMixer(click, loop, pool, synth.NewReverb(audio.SampleRate, reverbMix), gate)

	playback, err := audio.NewPlayback(mixer)
	if err != nil {
		log.Fatalf("Failed to init playback: %v", err)
	}
	defer playback.Close()

	// Initialize Session
	scheduler, err := session.NewScheduler(session.SchedulerConfig{
		Tempo:     tempo,
		K:         cfg.K,
		NumFrames: cfg.NumFrames,
	}, clock, table, index, analyzer, pool, click, gate, loop, rng)
	if err != nil {
		log.Fatalf("Failed to init scheduler: %v", err)
	}
	sess := session.New(tempo, scheduler)

	var recorder *session.Recorder
	if cfg.Record {
		recorder, err = session.NewRecorder(cfg.RecordDir, sess.ID, cfg.RecordMP3)
		if err != nil {
			log.Fatalf("Failed to init recorder: %v", err)
		}
		playback.SetTap(recorder.Feed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	// Monitor HTTP + control gRPC
	server := api.NewServer(cfg, sess, capture, gate, table, cancel)
	go server.Start()
	go server.PumpEvents(sess.Events())

	if err := capture.Start(); err != nil {
		log.Fatalf("Failed to start capture: %v", err)
	}
	if err := playback.Start(); err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}

	// Сбрасываем захваченное за время инициализации, сессия слушает
	// только свежий сигнал
	capture.ClearBuffers()

	// Горутина-вентилятор: микрофонные блоки уходят и в анализатор,
	// и в кольцо эха
	go func() {
		for samples := range capture.Data() {
			analyzer.Push(samples)
			loop.Append(samples)
		}
	}()

	sess.Run(ctx)

	log.Println("Stopping audio...")
	capture.Stop()
	playback.Stop()
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			log.Printf("Recorder close: %v", err)
		}
	}
	log.Println("Antiphon stopped")
}
