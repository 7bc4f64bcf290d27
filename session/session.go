package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status состояние сессии
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// Session одна сессия диалога с исполнителем
type Session struct {
	ID        string
	StartTime time.Time
	Tempo     Tempo

	scheduler *Scheduler

	mu     sync.RWMutex
	status Status
}

// Info снимок состояния сессии для внешних интерфейсов
type Info struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	Status    Status    `json:"status"`
	Tempo     Tempo     `json:"tempo"`
}

// New создаёт сессию вокруг готового планировщика
func New(tempo Tempo, scheduler *Scheduler) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Tempo:     tempo,
		scheduler: scheduler,
		status:    StatusIdle,
	}
}

// Events возвращает канал событий таймлайна сессии
func (s *Session) Events() <-chan Event {
	return s.scheduler.Events()
}

// Run ведёт сессию до отмены контекста
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	s.status = StatusRunning
	s.StartTime = time.Now()
	s.mu.Unlock()

	log.Printf("[Session] Started: id=%s, %s", s.ID, s.Tempo)
	s.scheduler.Run(ctx)

	s.mu.Lock()
	s.status = StatusStopped
	s.mu.Unlock()
	log.Printf("[Session] Stopped: id=%s", s.ID)
}

// Status возвращает текущее состояние
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot возвращает снимок состояния
func (s *Session) Snapshot() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:        s.ID,
		StartTime: s.StartTime,
		Status:    s.status,
		Tempo:     s.Tempo,
	}
}
