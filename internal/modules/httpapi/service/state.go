package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// CycleStat is the last observed run of a scheduled cycle.
type CycleStat struct {
	Finished time.Time `json:"finished"`
	Items    int       `json:"items"`
	Failed   int       `json:"failed"`
	Skipped  string    `json:"skipped,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	mu     sync.RWMutex
	cycles map[string]CycleStat
}

func NewState() *State {
	s := &State{startedAt: time.Now(), cycles: make(map[string]CycleStat)}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) RecordCycle(name string, stat CycleStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[name] = stat
}

func (s *State) Cycles() map[string]CycleStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]CycleStat, len(s.cycles))
	for k, v := range s.cycles {
		out[k] = v
	}
	return out
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
