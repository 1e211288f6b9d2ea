package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvillareal/gamenight/internal/session"
	"github.com/mvillareal/gamenight/internal/store"
	"github.com/mvillareal/gamenight/internal/tracker"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func GetState(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := t.View()
		writeJSON(w, http.StatusOK, tracker.Snapshot{
			Version:   v.Version,
			CurrentID: v.CurrentID,
			Sessions:  v.Sessions,
		})
	}
}

func GetRankings(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, ok := t.View().Current()
		if !ok {
			writeError(w, tracker.ErrNoSession)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			SessionID string               `json:"sessionId"`
			Rankings  []session.PlayerStat `json:"rankings"`
		}{SessionID: cur.ID, Rankings: session.Rankings(cur)})
	}
}

func CreateSession(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badJSON(w)
			return
		}
		created, err := t.CreateSession(r.Context(), body.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func SelectSession(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badJSON(w)
			return
		}
		if err := t.SelectSession(body.ID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteSession(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := t.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AddPlayer(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badJSON(w)
			return
		}
		if err := t.AddPlayer(r.Context(), body.Name); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemovePlayer(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := t.RemovePlayer(r.Context(), chi.URLParam(r, "name")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RecordGame(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Game    string   `json:"game"`
			Winners []string `json:"winners"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			badJSON(w)
			return
		}
		if err := t.RecordGame(r.Context(), body.Game, body.Winners); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteGame(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := t.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errBody{Error: "bad json"})
}

type errBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case session.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracker.ErrBusy), errors.Is(err, tracker.ErrLastSession):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownPlayer),
		errors.Is(err, session.ErrUnknownGame),
		errors.Is(err, tracker.ErrUnknownSession),
		errors.Is(err, tracker.ErrNoSession):
		return http.StatusNotFound
	}
	var reqErr *store.RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
