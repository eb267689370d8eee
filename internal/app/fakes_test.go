package app

import (
	"context"
	"errors"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type memChannelRepo struct {
	channels map[int64]*channel.Channel
	used     map[int64]bool // channel ids referenced by reminders
	nextID   int64
}

func newMemChannelRepo(channels ...*channel.Channel) *memChannelRepo {
	repo := &memChannelRepo{
		channels: make(map[int64]*channel.Channel),
		used:     make(map[int64]bool),
		nextID:   1,
	}
	for _, ch := range channels {
		repo.channels[ch.ID] = ch
		if ch.ID >= repo.nextID {
			repo.nextID = ch.ID + 1
		}
	}
	return repo
}

func (m *memChannelRepo) Create(ctx context.Context, ch *channel.Channel) error {
	for _, existing := range m.channels {
		if existing.Name == ch.Name {
			return idb.ErrDuplicateChannelName
		}
		if existing.Topic == ch.Topic {
			return idb.ErrDuplicateChannelTopic
		}
	}
	ch.ID = m.nextID
	m.nextID++
	m.channels[ch.ID] = ch
	return nil
}

func (m *memChannelRepo) GetByID(ctx context.Context, id int64) (*channel.Channel, error) {
	ch, ok := m.channels[id]
	if !ok {
		return nil, idb.ErrChannelNotFound
	}
	return ch, nil
}

func (m *memChannelRepo) GetByName(ctx context.Context, name string) (*channel.Channel, error) {
	for _, ch := range m.channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return nil, idb.ErrChannelNotFound
}

func (m *memChannelRepo) List(ctx context.Context) ([]*channel.Channel, error) {
	out := make([]*channel.Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		out = append(out, ch)
	}
	return out, nil
}

func (m *memChannelRepo) Update(ctx context.Context, ch *channel.Channel) error {
	if _, ok := m.channels[ch.ID]; !ok {
		return idb.ErrChannelNotFound
	}
	m.channels[ch.ID] = ch
	return nil
}

func (m *memChannelRepo) InUse(ctx context.Context, id int64) (bool, error) {
	return m.used[id], nil
}

func (m *memChannelRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.channels[id]; !ok {
		return idb.ErrChannelNotFound
	}
	delete(m.channels, id)
	return nil
}

type memReminderRepo struct {
	reminders map[int64]*reminder.Reminder
	links     map[int64][]int64
	nextID    int64
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{
		reminders: make(map[int64]*reminder.Reminder),
		links:     make(map[int64][]int64),
		nextID:    1,
	}
}

func (m *memReminderRepo) Create(ctx context.Context, r *reminder.Reminder, channelIDs []int64) error {
	r.ID = m.nextID
	m.nextID++
	m.reminders[r.ID] = r
	m.links[r.ID] = append([]int64(nil), channelIDs...)
	return nil
}

// GetByID returns a copy, as the Postgres repository scans a fresh struct per
// read; callers mutating the result must go through Update to persist.
func (m *memReminderRepo) GetByID(ctx context.Context, id int64) (*reminder.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok {
		return nil, idb.ErrReminderNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReminderRepo) List(ctx context.Context) ([]*reminder.Reminder, error) {
	out := make([]*reminder.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, r)
	}
	return out, nil
}

func (m *memReminderRepo) ListEnabled(ctx context.Context) ([]*reminder.Reminder, error) {
	out := []*reminder.Reminder{}
	for _, r := range m.reminders {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReminderRepo) Update(ctx context.Context, r *reminder.Reminder) error {
	if _, ok := m.reminders[r.ID]; !ok {
		return idb.ErrReminderNotFound
	}
	m.reminders[r.ID] = r
	return nil
}

func (m *memReminderRepo) ReplaceChannels(ctx context.Context, reminderID int64, channelIDs []int64) error {
	if _, ok := m.reminders[reminderID]; !ok {
		return idb.ErrReminderNotFound
	}
	m.links[reminderID] = append([]int64(nil), channelIDs...)
	return nil
}

func (m *memReminderRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.reminders[id]; !ok {
		return idb.ErrReminderNotFound
	}
	delete(m.reminders, id)
	delete(m.links, id)
	return nil
}

var errParserUnavailable = errors.New("parser unavailable")
