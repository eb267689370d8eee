package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	"github.com/wuchris-ch/notification-app/internal/schedule"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const fireTimeout = 1 * time.Minute

// ReminderScheduler owns the in-memory trigger registry and the reconciliation
// loop that keeps it synchronized with the store. Each enabled reminder holds
// exactly one trigger, keyed by reminder id, so re-registration replaces
// rather than duplicates.
type ReminderScheduler struct {
	engine    *cron.Cron
	reminders reminder.Repository
	executor  *Executor
	logger    *logrus.Logger
	interval  time.Duration

	mu      sync.Mutex
	entries map[int64]cron.EntryID

	stop chan struct{}
	done chan struct{}
}

func NewReminderScheduler(
	reminders reminder.Repository,
	executor *Executor,
	logger *logrus.Logger,
	interval time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		engine:    cron.New(),
		reminders: reminders,
		executor:  executor,
		logger:    logger,
		interval:  interval,
		entries:   make(map[int64]cron.EntryID),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the trigger engine and the reconciliation loop. The first
// reconciliation pass runs immediately.
func (s *ReminderScheduler) Start() {
	s.logger.Info("Starting reminder scheduler...")
	s.engine.Start()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.reconcileOnce()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.reconcileOnce()
			}
		}
	}()
}

// Stop signals the reconciliation loop, waits for it, then drains the trigger
// engine, waiting for any in-flight fire to finish.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	close(s.stop)
	<-s.done
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler stopped.")
}

func (s *ReminderScheduler) reconcileOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	if err := s.Reconcile(ctx); err != nil {
		s.logger.Errorf("Reconciliation pass failed, will retry on next tick: %v", err)
	}
}

// Reconcile performs a full rebuild of the trigger registry from the enabled
// reminder set. Every reminder's registration is replaced unconditionally; a
// reminder whose cron or timezone no longer compiles is logged and left
// unscheduled for this pass. Only a store read failure aborts the whole pass.
//
// New registrations are added before old ones are removed, all under the
// registry lock, so a trigger elapsing mid-rebuild observes either the pre- or
// post-rebuild registration and the registry is never partially cleared.
func (s *ReminderScheduler) Reconcile(ctx context.Context) error {
	reminders, err := s.reminders.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list enabled reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(reminders))
	for _, rem := range reminders {
		trigger, err := schedule.Parse(rem.Cron, rem.Timezone)
		if err != nil {
			s.logger.Warnf("Failed to schedule reminder %d: %v", rem.ID, err)
			continue
		}

		id := rem.ID
		entryID := s.engine.Schedule(trigger, cron.FuncJob(func() {
			fireCtx, cancel := context.WithTimeout(context.Background(), fireTimeout)
			defer cancel()
			s.executor.Fire(fireCtx, id)
		}))
		if old, ok := s.entries[id]; ok {
			s.engine.Remove(old)
		}
		s.entries[id] = entryID
		seen[id] = true
		s.logger.Debugf("Scheduled reminder %d (%s, %s)", id, rem.Cron, rem.Timezone)
	}

	for id, entryID := range s.entries {
		if !seen[id] {
			s.engine.Remove(entryID)
			delete(s.entries, id)
			s.logger.Debugf("Unscheduled reminder %d", id)
		}
	}

	s.logger.Infof("Reconciliation complete: %d reminders scheduled", len(s.entries))
	return nil
}

// ScheduledIDs returns the ids of all currently registered reminders, sorted.
func (s *ReminderScheduler) ScheduledIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NextFire returns the next computed fire instant for a registered reminder.
// The zero time means the reminder is not scheduled.
func (s *ReminderScheduler) NextFire(reminderID int64) time.Time {
	s.mu.Lock()
	entryID, ok := s.entries[reminderID]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.engine.Entry(entryID).Next
}
