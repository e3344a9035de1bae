package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"telegram-weather-stylist/internal/models"
)

const deliverTimeout = time.Minute

const textBadDeliveryTime = "Your delivery time is invalid. Send /start to set it up again."

type ProfileStore interface {
	GetProfile(chatID int64) (*models.Profile, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, chatID int64) error
}

type Sender interface {
	Send(chatID int64, text string) error
}

// Registry keeps at most one live daily delivery job per chat. Every cycle
// re-reads the profile from the store, so a deleted or rewritten profile
// takes effect no later than the next delivery; Cancel removes the job
// immediately without waiting for the cycle.
type Registry struct {
	sched    gocron.Scheduler
	profiles ProfileStore
	deliver  Deliverer
	sender   Sender
	zone     *time.Location
	clock    clockwork.Clock
	log      *zap.Logger

	mu   sync.Mutex
	jobs map[int64]uuid.UUID
}

func NewRegistry(profiles ProfileStore, deliver Deliverer, sender Sender, zone *time.Location, clock clockwork.Clock, log *zap.Logger) (*Registry, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(zone),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Registry{
		sched:    sched,
		profiles: profiles,
		deliver:  deliver,
		sender:   sender,
		zone:     zone,
		clock:    clock,
		log:      log,
		jobs:     make(map[int64]uuid.UUID),
	}, nil
}

func (r *Registry) Start() { r.sched.Start() }

func (r *Registry) Shutdown() error { return r.sched.Shutdown() }

// EnsureScheduled registers the delivery job for a chat with a daily
// profile. A second call while a job is live is a no-op.
func (r *Registry) EnsureScheduled(chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[chatID]; ok {
		return nil
	}
	return r.scheduleLocked(chatID)
}

// Cancel drops the live job for a chat, if any.
func (r *Registry) Cancel(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(chatID)
}

// Active reports whether the chat currently has a live job.
func (r *Registry) Active(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[chatID]
	return ok
}

func (r *Registry) dropLocked(chatID int64) {
	if id, ok := r.jobs[chatID]; ok {
		_ = r.sched.RemoveJob(id)
		delete(r.jobs, chatID)
	}
}

// scheduleLocked reads the profile and registers a one-shot job for the
// next occurrence of its time of day in the reference zone. Callers hold
// r.mu.
func (r *Registry) scheduleLocked(chatID int64) error {
	p, err := r.profiles.GetProfile(chatID)
	if err != nil {
		return fmt.Errorf("read profile %d: %w", chatID, err)
	}
	if p == nil || p.Frequency != models.FrequencyDaily {
		return nil
	}

	hour, minute, err := models.ParseTimeOfDay(p.TimeOfDay)
	if err != nil {
		r.log.Warn("unschedulable time of day", zap.Int64("chat_id", chatID), zap.Error(err))
		_ = r.sender.Send(chatID, textBadDeliveryTime)
		return nil
	}

	next := NextRun(r.clock.Now().In(r.zone), hour, minute)
	job, err := r.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(next)),
		gocron.NewTask(r.fire, chatID),
	)
	if err != nil {
		return fmt.Errorf("schedule delivery for %d: %w", chatID, err)
	}
	r.jobs[chatID] = job.ID()
	r.log.Info("delivery scheduled", zap.Int64("chat_id", chatID), zap.Time("next_run", next))
	return nil
}

// fire is one delivery cycle: re-check the profile, deliver, reschedule.
// A missing or no-longer-daily profile ends the loop.
func (r *Registry) fire(chatID int64) {
	r.Cancel(chatID) // the one-shot job has served its purpose

	p, err := r.profiles.GetProfile(chatID)
	if err != nil {
		r.log.Error("delivery cycle: read profile", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if p == nil || p.Frequency != models.FrequencyDaily {
		r.log.Info("delivery loop ended", zap.Int64("chat_id", chatID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()
	if err := r.deliver.Deliver(ctx, chatID); err != nil {
		r.log.Error("delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[chatID]; ok {
		// EnsureScheduled ran while this cycle was delivering and already
		// registered the next job; a second one would break the
		// one-job-per-chat invariant.
		return
	}
	if err := r.scheduleLocked(chatID); err != nil {
		r.log.Error("reschedule failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// NextRun is the next instant the wall clock in now's location reads
// hour:minute. A time of day that has already passed today lands on
// tomorrow.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
