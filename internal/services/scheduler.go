package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// sweepRunner is what the scheduler drives; satisfied by ReminderService.
type sweepRunner interface {
	RunExplicit(ctx context.Context) (int, error)
	RunDueSweep(ctx context.Context) (int, error)
}

// Scheduler is the single long-lived background process. One instance is
// constructed at process start and passed to whatever wires things up; it
// keeps no global state. Items within a tick run sequentially with
// per-item isolation inside the ReminderService.
type Scheduler struct {
	runner        sweepRunner
	explicitEvery time.Duration
	sweepEvery    time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewScheduler(runner sweepRunner, explicitEvery, sweepEvery time.Duration) *Scheduler {
	return &Scheduler{
		runner:        runner,
		explicitEvery: explicitEvery,
		sweepEvery:    sweepEvery,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
	log.Printf("[scheduler][start] explicit=%s sweep=%s", s.explicitEvery, s.sweepEvery)
}

// Stop halts scheduling of new ticks and waits for an in-flight tick to
// finish its current item. Whatever was not processed stays eligible for
// the next start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	log.Printf("[scheduler][stop] done")
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	explicit := time.NewTicker(s.explicitEvery)
	defer explicit.Stop()
	sweep := time.NewTicker(s.sweepEvery)
	defer sweep.Stop()

	for {
		select {
		case <-stop:
			return
		case <-explicit.C:
			if n, err := s.runner.RunExplicit(context.Background()); err != nil {
				log.Printf("[scheduler][explicit][err] %v", err)
			} else if n > 0 {
				log.Printf("[scheduler][explicit][ok] processed=%d", n)
			}
		case <-sweep.C:
			if n, err := s.runner.RunDueSweep(context.Background()); err != nil {
				log.Printf("[scheduler][sweep][err] %v", err)
			} else {
				log.Printf("[scheduler][sweep][ok] fired=%d", n)
			}
		}
	}
}
