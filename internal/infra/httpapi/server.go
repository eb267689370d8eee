// Package httpapi exposes the REST surface for managing channels and
// reminders. The scheduling core never depends on this package; both sides
// meet only at the store.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wuchris-ch/notification-app/internal/app"
	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
	"github.com/wuchris-ch/notification-app/internal/domain/notify"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	channels   *app.ChannelService
	reminders  *app.ReminderService
	parse      *app.ParseService // nil when no AI key is configured
	deliveries delivery.Repository
	gateway    notify.Gateway
	logger     *logrus.Logger
	router     *mux.Router
}

func NewServer(
	channels *app.ChannelService,
	reminders *app.ReminderService,
	parse *app.ParseService,
	deliveries delivery.Repository,
	gateway notify.Gateway,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		channels:   channels,
		reminders:  reminders,
		parse:      parse,
		deliveries: deliveries,
		gateway:    gateway,
		logger:     logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/channels", s.handleCreateChannel).Methods(http.MethodPost)
	r.HandleFunc("/channels", s.handleListChannels).Methods(http.MethodGet)
	r.HandleFunc("/channels/{id:[0-9]+}", s.handleGetChannel).Methods(http.MethodGet)
	r.HandleFunc("/channels/{id:[0-9]+}", s.handleUpdateChannel).Methods(http.MethodPut)
	r.HandleFunc("/channels/{id:[0-9]+}", s.handleDeleteChannel).Methods(http.MethodDelete)

	r.HandleFunc("/reminders", s.handleCreateReminder).Methods(http.MethodPost)
	r.HandleFunc("/reminders", s.handleListReminders).Methods(http.MethodGet)
	r.HandleFunc("/reminders/ai", s.handleCreateReminderFromText).Methods(http.MethodPost)
	r.HandleFunc("/reminders/{id:[0-9]+}", s.handleGetReminder).Methods(http.MethodGet)
	r.HandleFunc("/reminders/{id:[0-9]+}", s.handleUpdateReminder).Methods(http.MethodPut)
	r.HandleFunc("/reminders/{id:[0-9]+}", s.handleDeleteReminder).Methods(http.MethodDelete)

	r.HandleFunc("/logs", s.handleListLogs).Methods(http.MethodGet)
	r.HandleFunc("/notifications/test", s.handleTestNotification).Methods(http.MethodPost)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeError maps the application error taxonomy onto HTTP statuses:
// validation failures are 422, unknown entities 404, uniqueness conflicts 400.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: verr.Message})
	case errors.Is(err, idb.ErrChannelNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Detail: "channel not found"})
	case errors.Is(err, idb.ErrReminderNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Detail: "reminder not found"})
	case errors.Is(err, idb.ErrDuplicateChannelName):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "channel with this name already exists"})
	case errors.Is(err, idb.ErrDuplicateChannelTopic):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "channel with this topic already exists"})
	case errors.Is(err, app.ErrChannelInUse):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "channel is referenced by existing reminders"})
	default:
		s.logger.Errorf("Internal error handling request: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
