package session

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"antiphon/analysis"
	"antiphon/audio"
	"antiphon/corpus"
	"antiphon/synth"
)

// FeatureSource источник текущего вектора признаков живого входа
type FeatureSource interface {
	Current() []float64
	Dim() int
}

const (
	clickFreqSystem    = 1760.0
	clickFreqPerformer = 880.0
	clickGainStrong    = 0.5
	clickGainWeak      = 0.25
)

// SchedulerConfig параметры планировщика
type SchedulerConfig struct {
	Tempo     Tempo
	K         int
	NumFrames int
}

// Scheduler ведёт четыре вечные задачи сессии на общих часах:
// пульс метронома, запись/воспроизведение эха, анализ/ответ и
// фразовый гейт громкости синтеза. Задачи не завершаются сами,
// остановка только отменой контекста сессии
type Scheduler struct {
	tempo Tempo
	k     int

	clock    Clock
	index    *corpus.Index
	table    *corpus.Table
	features FeatureSource
	agg      *analysis.Aggregator
	pool     *synth.Pool
	click    *synth.Click
	gate     *synth.Gate
	loop     *audio.LoopBuffer
	rng      *rand.Rand

	events chan Event
	wg     sync.WaitGroup
}

// NewScheduler проверяет согласованность частей и собирает планировщик.
// Несовпадение размерности корпуса и анализатора и k вне [1, N]
// считаются фатальными ошибками конфигурации
func NewScheduler(cfg SchedulerConfig, clock Clock, table *corpus.Table, index *corpus.Index,
	features FeatureSource, pool *synth.Pool, click *synth.Click, gate *synth.Gate,
	loop *audio.LoopBuffer, rng *rand.Rand) (*Scheduler, error) {

	if clock == nil || table == nil || index == nil || features == nil ||
		pool == nil || click == nil || gate == nil || loop == nil || rng == nil {
		return nil, fmt.Errorf("all scheduler dependencies are required")
	}
	if features.Dim() != table.Dim() {
		return nil, fmt.Errorf("corpus dimension %d does not match analyzer dimension %d",
			table.Dim(), features.Dim())
	}
	if cfg.K < 1 || cfg.K > index.Len() {
		return nil, fmt.Errorf("k=%d outside [1, %d]", cfg.K, index.Len())
	}
	if cfg.NumFrames <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", cfg.NumFrames)
	}

	agg, err := analysis.NewAggregator(cfg.NumFrames, features.Dim())
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		tempo:    cfg.Tempo,
		k:        cfg.K,
		clock:    clock,
		index:    index,
		table:    table,
		features: features,
		agg:      agg,
		pool:     pool,
		click:    click,
		gate:     gate,
		loop:     loop,
		rng:      rng,
		events:   make(chan Event, 1000),
	}, nil
}

// Events возвращает канал событий таймлайна. Канал закрывается
// после остановки всех задач
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Run запускает все четыре задачи и блокируется до отмены контекста
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[Scheduler] Started: %s, k=%d, frames=%d", s.tempo, s.k, s.agg.NumFrames())

	s.wg.Add(4)
	go func() {
		defer s.wg.Done()
		s.runPulse(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runEcho(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runRespond(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runGate(ctx)
	}()

	s.wg.Wait()
	close(s.events)
	log.Printf("[Scheduler] Stopped")
}

func (s *Scheduler) emit(ev Event) {
	ev.Timestamp = s.clock.Now()
	select {
	case s.events <- ev:
	default:
	}
}

// runPulse отбивает доли. Системная и исполнительская половины цикла
// тикают на разной высоте, сильная доля такта громче
func (s *Scheduler) runPulse(ctx context.Context) {
	beat := s.tempo.Beat()
	cycleBeats := s.tempo.BeatsPerPhrase() * 2

	for i := 0; ; i++ {
		pos := i % cycleBeats
		system := pos < s.tempo.BeatsPerPhrase()
		downbeat := pos%s.tempo.BeatsPerMeasure == 0

		freq := clickFreqPerformer
		if system {
			freq = clickFreqSystem
		}
		gain := float32(clickGainWeak)
		if downbeat {
			gain = clickGainStrong
		}
		s.click.Trigger(freq, gain)
		s.emit(Event{Type: EventBeat, Beat: pos, Downbeat: downbeat, SystemTurn: system})

		if s.clock.Sleep(ctx, beat) != nil {
			return
		}
	}
}

// runEcho чередует две фазы по (фраза - доля) с затактом в одну долю
// перед каждой: захват дубля в петлевой буфер, затем его дословное
// воспроизведение. Задача пережидает первую фразу цикла, так захват
// приходится на фразу исполнителя, а воспроизведение дубля на
// следующее системное соло, одновременно с гранулярным ответом.
// На первом соло дубля ещё нет
func (s *Scheduler) runEcho(ctx context.Context) {
	beat := s.tempo.Beat()
	phase := s.tempo.Phrase() - beat
	maxSamples := int(phase.Seconds() * float64(audio.SampleRate))

	if s.clock.Sleep(ctx, s.tempo.Phrase()) != nil {
		return
	}
	for {
		if s.clock.Sleep(ctx, beat) != nil {
			return
		}
		s.loop.Arm(maxSamples)
		s.emit(Event{Type: EventEcho, Phase: EchoPhaseRecord})
		if s.clock.Sleep(ctx, phase) != nil {
			return
		}
		s.loop.Disarm()

		if s.clock.Sleep(ctx, beat) != nil {
			return
		}
		s.loop.StartPlayback()
		s.emit(Event{Type: EventEcho, Phase: EchoPhasePlayback})
		if s.clock.Sleep(ctx, phase) != nil {
			return
		}
		s.loop.StopPlayback()
	}
}

// runRespond слушает одну долю, сводит кадры в средний вектор, ищет
// k ближайших окон корпуса и запускает случайное из них неблокирующе.
// Цикл продолжается, не дожидаясь конца запущенной ноты
func (s *Scheduler) runRespond(ctx context.Context) {
	window := s.tempo.Beat()

	for {
		if err := s.agg.Collect(ctx, s.clock, window, s.features.Current); err != nil {
			return
		}
		query := s.agg.Reduce()

		matches, err := s.index.Search(query, s.k)
		if err != nil {
			log.Printf("[Scheduler] Search failed: %v", err)
			continue
		}
		pick := matches[s.rng.Intn(len(matches))]

		go func() {
			if _, err := s.pool.Play(ctx, pick.ID, window); err != nil && ctx.Err() == nil {
				log.Printf("[Scheduler] Play failed: %v", err)
			}
		}()

		w, err := s.table.Window(pick.ID)
		if err != nil {
			continue
		}
		name, _ := s.table.FilePath(w.SourceFileIndex)
		s.emit(Event{
			Type:      EventResponse,
			WindowID:  pick.ID,
			File:      name,
			StartTime: w.StartTime,
			Distance:  pick.Distance,
		})
	}
}

// runGate ведёт фразовый цикл громкости синтеза: открыт на системном
// соло (фраза без такта), закрыт на переходном такте, закрыт на всей
// исполнительской фразе
func (s *Scheduler) runGate(ctx context.Context) {
	solo := s.tempo.Measure() * time.Duration(s.tempo.MeasuresPerPhrase-1)

	for {
		s.gate.SetOpen(true)
		s.emit(Event{Type: EventGate, GateOpen: true})
		if s.clock.Sleep(ctx, solo) != nil {
			return
		}

		s.gate.SetOpen(false)
		s.emit(Event{Type: EventGate, GateOpen: false})
		if s.clock.Sleep(ctx, s.tempo.Measure()) != nil {
			return
		}
		if s.clock.Sleep(ctx, s.tempo.Phrase()) != nil {
			return
		}
	}
}
