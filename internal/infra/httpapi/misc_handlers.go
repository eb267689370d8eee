package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	f := delivery.Filter{}
	if raw := r.URL.Query().Get("reminder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "reminder_id must be an integer"})
			return
		}
		f.ReminderID = id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "limit must be a positive integer"})
			return
		}
		f.Limit = limit
	}

	logs, err := s.deliveries.List(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]deliveryLogOut, 0, len(logs))
	for _, l := range logs {
		out = append(out, toDeliveryLogOut(l))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	var in testNotificationIn
	if !s.decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "title cannot be empty"})
		return
	}

	ch, err := s.channels.Get(r.Context(), in.ChannelID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.gateway.Send(r.Context(), ch.Topic, in.Title, in.Body); err != nil {
		s.logger.Errorf("Test notification to channel %d failed: %v", ch.ID, err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Detail: "delivery failed: " + err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
