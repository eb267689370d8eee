package httpapi

import (
	"net/http"
	"strconv"

	"github.com/wuchris-ch/notification-app/internal/app"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var in channelIn
	if !s.decode(w, r, &in) {
		return
	}
	ch, err := s.channels.Create(r.Context(), app.ChannelInput{
		Name:        in.Name,
		Description: in.Description,
		Topic:       in.Topic,
		Timezone:    in.Timezone,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toChannelOut(ch))
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.channels.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]channelOut, 0, len(channels))
	for _, ch := range channels {
		out = append(out, toChannelOut(ch))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	ch, err := s.channels.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChannelOut(ch))
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	var in channelUpdateIn
	if !s.decode(w, r, &in) {
		return
	}
	ch, err := s.channels.Update(r.Context(), pathID(r), app.ChannelUpdate{
		Name:        in.Name,
		Description: in.Description,
		Topic:       in.Topic,
		Timezone:    in.Timezone,
		Enabled:     in.Enabled,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChannelOut(ch))
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	if err := s.channels.Delete(r.Context(), pathID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"detail": "channel deleted"})
}
