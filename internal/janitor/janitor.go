// Package janitor reclaims rooms whose owners walked away: any room
// untouched beyond the configured idle window is deleted on a periodic
// sweep.
package janitor

import (
	"context"
	"log"
	"time"

	"github.com/jmin/block-battle/internal/repository"
	"github.com/go-co-op/gocron/v2"
)

const sweepBatchSize = 100

type Janitor struct {
	roomRepo    repository.RoomRepository
	idleTimeout time.Duration
	scheduler   gocron.Scheduler
}

func New(roomRepo repository.RoomRepository, idleTimeout time.Duration) *Janitor {
	return &Janitor{
		roomRepo:    roomRepo,
		idleTimeout: idleTimeout,
	}
}

// Start schedules the sweep once a minute. It returns immediately.
func (j *Janitor) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	j.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(j.sweep),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

func (j *Janitor) Stop() {
	if j.scheduler != nil {
		_ = j.scheduler.Shutdown()
	}
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.idleTimeout)
	rooms, err := j.roomRepo.ListIdleBefore(ctx, cutoff, sweepBatchSize)
	if err != nil {
		log.Printf("ERROR [janitor] listing idle rooms: %v", err)
		return
	}

	for _, room := range rooms {
		if err := j.roomRepo.Delete(ctx, room.RoomID); err != nil {
			log.Printf("ERROR [janitor] deleting room %s: %v", room.RoomID, err)
			continue
		}
		log.Printf("janitor reclaimed idle room %s (status %s)", room.RoomID, room.Status)
	}
}
