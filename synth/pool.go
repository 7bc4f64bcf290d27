// Package synth реализует грануляционный синтезатор ответа: пул голосов
// с круговым курсором, общая реверберационная шина и гейт громкости.
// Голоса воспроизводят сегменты исходных файлов корпуса, найденные
// поиском по признакам
package synth

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"antiphon/audio"
	"antiphon/corpus"
)

// Clock абстракция ожидания для таймлайна грани
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

const (
	defaultAttack  = 5 * time.Millisecond
	defaultRelease = 50 * time.Millisecond
)

// Pool пул голосов гранулятора. Очередной голос выбирается круговым
// курсором независимо от занятости: если все голоса звучат, старейший
// перезапускается
type Pool struct {
	voices []*Voice
	cursor atomic.Uint64

	table *corpus.Table
	bank  *SourceBank
	clock Clock

	release time.Duration
}

// NewPool создаёт пул из numVoices голосов. Панорама каждого голоса
// выбирается один раз случайно и не меняется до конца сессии
func NewPool(table *corpus.Table, bank *SourceBank, numVoices int, rng *rand.Rand, clock Clock) (*Pool, error) {
	if numVoices <= 0 {
		return nil, fmt.Errorf("voice count must be positive, got %d", numVoices)
	}
	if table == nil || bank == nil {
		return nil, fmt.Errorf("corpus table and source bank are required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	p := &Pool{
		voices:  make([]*Voice, numVoices),
		table:   table,
		bank:    bank,
		clock:   clock,
		release: defaultRelease,
	}
	for i := range p.voices {
		pan := rng.Float64()*2 - 1
		p.voices[i] = newVoice(defaultAttack, p.release, pan, audio.SampleRate)
	}
	log.Printf("[Synth] Voice pool ready: %d voices", numVoices)
	return p, nil
}

// NumVoices возвращает размер пула
func (p *Pool) NumVoices() int {
	return len(p.voices)
}

// Play запускает окно корпуса windowID на очередном голосе и ведёт его
// таймлайн: duration звучания, затем спад. Слот выбирается синхронно до
// первого ожидания, поэтому последовательность слотов при
// последовательных вызовах детерминирована. Возвращает занятый слот
func (p *Pool) Play(ctx context.Context, windowID int, duration time.Duration) (int, error) {
	w, err := p.table.Window(windowID)
	if err != nil {
		return -1, err
	}
	segment, err := p.bank.Segment(w.SourceFileIndex, w.StartTime)
	if err != nil {
		return -1, err
	}

	slot := int(p.cursor.Add(1)-1) % len(p.voices)
	v := p.voices[slot]
	v.Trigger(segment)

	if err := p.clock.Sleep(ctx, duration); err != nil {
		return slot, err
	}
	v.Release()
	if err := p.clock.Sleep(ctx, p.release); err != nil {
		return slot, err
	}
	return slot, nil
}

// RenderVoices добавляет звучащие голоса в out (интерлив стерео)
func (p *Pool) RenderVoices(out []float32, frames int) {
	for _, v := range p.voices {
		v.Render(out, frames)
	}
}
