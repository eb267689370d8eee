package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders map[int64]*reminder.Reminder
	listErr   error
}

func newFakeReminderRepo(reminders ...*reminder.Reminder) *fakeReminderRepo {
	repo := &fakeReminderRepo{reminders: make(map[int64]*reminder.Reminder)}
	for _, rem := range reminders {
		repo.reminders[rem.ID] = rem
	}
	return repo
}

func (f *fakeReminderRepo) add(rem *reminder.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[rem.ID] = rem
}

func (f *fakeReminderRepo) setEnabled(id int64, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rem, ok := f.reminders[id]; ok {
		rem.Enabled = enabled
	}
}

func (f *fakeReminderRepo) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reminders, id)
}

func (f *fakeReminderRepo) Create(ctx context.Context, r *reminder.Reminder, channelIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[r.ID] = r
	return nil
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, id int64) (*reminder.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rem, ok := f.reminders[id]
	if !ok {
		return nil, idb.ErrReminderNotFound
	}
	return rem, nil
}

func (f *fakeReminderRepo) List(ctx context.Context) ([]*reminder.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*reminder.Reminder, 0, len(f.reminders))
	for _, rem := range f.reminders {
		out = append(out, rem)
	}
	return out, nil
}

func (f *fakeReminderRepo) ListEnabled(ctx context.Context) ([]*reminder.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*reminder.Reminder, 0, len(f.reminders))
	for _, rem := range f.reminders {
		if rem.Enabled {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, r *reminder.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reminders[r.ID]; !ok {
		return idb.ErrReminderNotFound
	}
	f.reminders[r.ID] = r
	return nil
}

func (f *fakeReminderRepo) ReplaceChannels(ctx context.Context, reminderID int64, channelIDs []int64) error {
	return errors.New("not supported in fake")
}

func (f *fakeReminderRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reminders, id)
	return nil
}

type fakeDeliveryRepo struct {
	mu        sync.Mutex
	appended  [][]*delivery.Log
	appendErr error
}

func (f *fakeDeliveryRepo) Append(ctx context.Context, logs []*delivery.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, logs)
	return nil
}

func (f *fakeDeliveryRepo) List(ctx context.Context, filter delivery.Filter) ([]*delivery.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*delivery.Log{}
	for _, batch := range f.appended {
		out = append(out, batch...)
	}
	return out, nil
}

func (f *fakeDeliveryRepo) batches() [][]*delivery.Log {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appended
}

type sendCall struct {
	topic string
	title string
	body  string
}

type fakeGateway struct {
	mu         sync.Mutex
	calls      []sendCall
	failTopics map[string]error
}

func (f *fakeGateway) Send(ctx context.Context, topic, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sendCall{topic: topic, title: title, body: body})
	if err, ok := f.failTopics[topic]; ok {
		return err
	}
	return nil
}

func (f *fakeGateway) sent() []sendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func enabledChannel(id int64, name, topic string) *channel.Channel {
	return &channel.Channel{ID: id, Name: name, Topic: topic, Timezone: "UTC", Enabled: true}
}

func disabledChannel(id int64, name, topic string) *channel.Channel {
	ch := enabledChannel(id, name, topic)
	ch.Enabled = false
	return ch
}
