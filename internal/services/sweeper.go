package services

import (
	"context"
	"log"
	"time"

	"github.com/Triostacksoftware/authkit/domain"
)

// PendingSweeper periodically deletes expired password-less registration
// records, so a challenge whose notification never arrived cannot wedge an
// email address forever.
type PendingSweeper struct {
	userRepo domain.UserRepository
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewPendingSweeper creates a sweeper for expired pending registrations.
func NewPendingSweeper(userRepo domain.UserRepository, interval time.Duration) *PendingSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PendingSweeper{
		userRepo: userRepo,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *PendingSweeper) Start() {
	go s.run()
}

// Stop halts the loop and waits for it to exit.
func (s *PendingSweeper) Stop() {
	close(s.stop)
	<-s.done
}

// Sweep performs a single pass.
func (s *PendingSweeper) Sweep(ctx context.Context) (int64, error) {
	return s.userRepo.DeleteExpiredPending(ctx, time.Now())
}

func (s *PendingSweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := s.Sweep(ctx)
			cancel()
			if err != nil {
				log.Printf("sweeper: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: removed %d expired pending registrations", n)
			}
		}
	}
}
