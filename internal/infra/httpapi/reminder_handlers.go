package httpapi

import (
	"net/http"

	"github.com/wuchris-ch/notification-app/internal/app"
)

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var in reminderIn
	if !s.decode(w, r, &in) {
		return
	}
	rem, err := s.reminders.Create(r.Context(), app.ReminderInput{
		ChannelIDs: in.ChannelIDs,
		Title:      in.Title,
		Body:       in.Body,
		Cron:       in.Cron,
		Timezone:   in.Timezone,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toReminderOut(rem))
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.reminders.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]reminderOut, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, toReminderOut(rem))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.reminders.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toReminderOut(rem))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	var in reminderUpdateIn
	if !s.decode(w, r, &in) {
		return
	}
	rem, err := s.reminders.Update(r.Context(), pathID(r), app.ReminderUpdate{
		ChannelIDs: in.ChannelIDs,
		Title:      in.Title,
		Body:       in.Body,
		Cron:       in.Cron,
		Timezone:   in.Timezone,
		Enabled:    in.Enabled,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toReminderOut(rem))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.reminders.Delete(r.Context(), pathID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"detail": "reminder deleted"})
}

func (s *Server) handleCreateReminderFromText(w http.ResponseWriter, r *http.Request) {
	if s.parse == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "natural language parsing is not configured"})
		return
	}
	var in aiReminderIn
	if !s.decode(w, r, &in) {
		return
	}
	rem, parsed, err := s.parse.CreateFromText(r.Context(), in.ChannelIDs, in.NaturalLanguage, in.Timezone)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, aiReminderOut{
		Reminder:            toReminderOut(rem),
		ScheduleDescription: parsed.ScheduleDescription,
		Confidence:          parsed.Confidence,
		NextExecution:       parsed.NextExecution,
	})
}
