package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wuchris-ch/notification-app/internal/app"
	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memChannelRepo struct {
	channels  map[int64]*channel.Channel
	reminders *memReminderRepo // set once the reminder repo exists; used for InUse
	nextID    int64
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{channels: make(map[int64]*channel.Channel), nextID: 1}
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
	ch.CreatedAt = time.Now()
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
	if m.reminders == nil {
		return false, nil
	}
	for _, channelIDs := range m.reminders.links {
		for _, chID := range channelIDs {
			if chID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memChannelRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.channels[id]; !ok {
		return idb.ErrChannelNotFound
	}
	delete(m.channels, id)
	return nil
}

// memReminderRepo resolves channel associations through the channel repo so
// read responses carry the channel list the same way the Postgres repo does.
type memReminderRepo struct {
	channels  *memChannelRepo
	reminders map[int64]*reminder.Reminder
	links     map[int64][]int64
	nextID    int64
}

func newMemReminderRepo(channels *memChannelRepo) *memReminderRepo {
	return &memReminderRepo{
		channels:  channels,
		reminders: make(map[int64]*reminder.Reminder),
		links:     make(map[int64][]int64),
		nextID:    1,
	}
}

func (m *memReminderRepo) resolve(r *reminder.Reminder) *reminder.Reminder {
	r.Channels = nil
	for _, id := range m.links[r.ID] {
		if ch, ok := m.channels.channels[id]; ok {
			r.Channels = append(r.Channels, ch)
		}
	}
	return r
}

func (m *memReminderRepo) Create(ctx context.Context, r *reminder.Reminder, channelIDs []int64) error {
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.nextID++
	m.reminders[r.ID] = r
	m.links[r.ID] = append([]int64(nil), channelIDs...)
	m.resolve(r)
	return nil
}

func (m *memReminderRepo) GetByID(ctx context.Context, id int64) (*reminder.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok {
		return nil, idb.ErrReminderNotFound
	}
	return m.resolve(r), nil
}

func (m *memReminderRepo) List(ctx context.Context) ([]*reminder.Reminder, error) {
	out := make([]*reminder.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, m.resolve(r))
	}
	return out, nil
}

func (m *memReminderRepo) ListEnabled(ctx context.Context) ([]*reminder.Reminder, error) {
	out := []*reminder.Reminder{}
	for _, r := range m.reminders {
		if r.Enabled {
			out = append(out, m.resolve(r))
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

type memDeliveryRepo struct {
	logs []*delivery.Log
}

func (m *memDeliveryRepo) Append(ctx context.Context, logs []*delivery.Log) error {
	m.logs = append(m.logs, logs...)
	return nil
}

func (m *memDeliveryRepo) List(ctx context.Context, f delivery.Filter) ([]*delivery.Log, error) {
	out := []*delivery.Log{}
	for _, l := range m.logs {
		if f.ReminderID != 0 && l.ReminderID != f.ReminderID {
			continue
		}
		out = append(out, l)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type stubGateway struct {
	topics []string
	err    error
}

func (g *stubGateway) Send(ctx context.Context, topic, title, body string) error {
	g.topics = append(g.topics, topic)
	return g.err
}

type testEnv struct {
	server     *Server
	channels   *memChannelRepo
	reminders  *memReminderRepo
	deliveries *memDeliveryRepo
	gateway    *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	channels := newMemChannelRepo()
	reminders := newMemReminderRepo(channels)
	channels.reminders = reminders
	deliveries := &memDeliveryRepo{}
	gw := &stubGateway{}

	channelSvc := app.NewChannelService(channels, "UTC")
	reminderSvc := app.NewReminderService(reminders, channels, "UTC")

	return &testEnv{
		server:     NewServer(channelSvc, reminderSvc, nil, deliveries, gw, log),
		channels:   channels,
		reminders:  reminders,
		deliveries: deliveries,
		gateway:    gw,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (e *testEnv) createChannel(t *testing.T, name, topic string) channelOut {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/channels", map[string]string{
		"name":       name,
		"ntfy_topic": topic,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[channelOut](t, rec)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestChannelCRUD(t *testing.T) {
	env := newTestEnv(t)

	created := env.createChannel(t, "family", "family-topic")
	assert.Equal(t, "family", created.Name)
	assert.Equal(t, "family-topic", created.Topic)
	assert.Equal(t, "UTC", created.Timezone)
	assert.True(t, created.Enabled)

	rec := env.do(t, http.MethodGet, "/channels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]channelOut](t, rec), 1)

	rec = env.do(t, http.MethodPut, "/channels/1", map[string]any{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[channelOut](t, rec).Enabled)

	rec = env.do(t, http.MethodDelete, "/channels/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/channels/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChannelDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.createChannel(t, "family", "a")

	rec := env.do(t, http.MethodPost, "/channels", map[string]string{
		"name":       "family",
		"ntfy_topic": "b",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteChannelRefusedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChannel(t, "family", "family-topic")

	rec := env.do(t, http.MethodPost, "/reminders", map[string]any{
		"channel_ids": []int64{ch.ID},
		"title":       "Water the plants",
		"cron":        "0 9 * * *",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/channels/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/reminders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/channels/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "delete succeeds once no reminder references the channel")
}

func TestChannelValidationError(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/channels", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReminderCRUD(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChannel(t, "family", "family-topic")

	rec := env.do(t, http.MethodPost, "/reminders", map[string]any{
		"channel_ids": []int64{ch.ID},
		"title":       "Water the plants",
		"body":        "Kitchen only",
		"cron":        "0 9 * * *",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[reminderOut](t, rec)
	assert.Equal(t, "Water the plants", created.Title)
	require.NotNil(t, created.Body)
	assert.Equal(t, "Kitchen only", *created.Body)
	require.Len(t, created.Channels, 1)
	assert.Equal(t, "family-topic", created.Channels[0].Topic)

	rec = env.do(t, http.MethodGet, "/reminders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	newCron := "30 20 * * 1-5"
	rec = env.do(t, http.MethodPut, "/reminders/1", map[string]any{"cron": newCron})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, newCron, decodeBody[reminderOut](t, rec).Cron)

	rec = env.do(t, http.MethodDelete, "/reminders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/reminders/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReminderInvalidCron(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/reminders", map[string]any{
		"title": "t",
		"cron":  "*/5 * * * *",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateReminderUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/reminders", map[string]any{
		"channel_ids": []int64{42},
		"title":       "t",
		"cron":        "0 9 * * *",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReminderInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/reminders", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIEndpointUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/reminders/ai", map[string]any{
		"natural_language": "water plants daily at 9",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListLogs(t *testing.T) {
	env := newTestEnv(t)
	env.deliveries.logs = []*delivery.Log{
		{ID: 1, ReminderID: 1, SentAt: time.Now(), Status: delivery.StatusSent},
		{ID: 2, ReminderID: 2, SentAt: time.Now(), Status: delivery.StatusError},
	}

	rec := env.do(t, http.MethodGet, "/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]deliveryLogOut](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/logs?reminder_id=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decodeBody[[]deliveryLogOut](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, "error", logs[0].Status)

	rec = env.do(t, http.MethodGet, "/logs?reminder_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/logs?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestNotification(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChannel(t, "family", "family-topic")

	rec := env.do(t, http.MethodPost, "/notifications/test", map[string]any{
		"channel_id": ch.ID,
		"title":      "Ping",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"family-topic"}, env.gateway.topics)
}

func TestTestNotificationGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChannel(t, "family", "family-topic")
	env.gateway.err = errors.New("connection refused")

	rec := env.do(t, http.MethodPost, "/notifications/test", map[string]any{
		"channel_id": ch.ID,
		"title":      "Ping",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTestNotificationUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/notifications/test", map[string]any{
		"channel_id": 42,
		"title":      "Ping",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
