package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
)

// defaultRunLimit bounds /runs when no limit is given.
const defaultRunLimit = 20

type handlers struct {
	calendars driving.CalendarService
	syncer    driving.SyncService
	version   string
}

// CalendarResponse is the JSON view of a calendar.
type CalendarResponse struct {
	ID             string  `json:"id"`
	RemoteID       string  `json:"remote_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Location       string  `json:"location,omitempty"`
	TimeZone       string  `json:"time_zone,omitempty"`
	SyncStatus     string  `json:"sync_status"`
	Syncing        bool    `json:"syncing"`
	HasToken       bool    `json:"has_token"`
	LastFullSyncAt *string `json:"last_full_sync_at,omitempty"`
	LatestSyncAt   *string `json:"latest_sync_at,omitempty"`
}

// EventResponse is the JSON view of a local event.
type EventResponse struct {
	ID            string `json:"id"`
	RemoteEventID string `json:"remote_event_id"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
	Visible       bool   `json:"visible"`
	OwnerID       string `json:"owner_id"`
	Location      string `json:"location,omitempty"`
	HTMLLink      string `json:"html_link,omitempty"`
	Organizer     string `json:"organizer,omitempty"` //nolint:misspell // JSON field mirrors provider naming
}

// RunResponse is the JSON view of a recorded sync run.
type RunResponse struct {
	ID         string        `json:"id"`
	StartedAt  string        `json:"started_at"`
	FinishedAt *string       `json:"finished_at,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Full       bool          `json:"full"`
	Status     string        `json:"status"`
	Stats      StatsResponse `json:"stats"`
}

// StatsResponse is the JSON view of run counters.
type StatsResponse struct {
	Received  int `json:"received"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Saved     int `json:"saved"`
	Cancelled int `json:"cancelled"`
	Pages     int `json:"pages"`
}

func toCalendarResponse(c *domain.Calendar) CalendarResponse {
	return CalendarResponse{
		ID:             c.ID,
		RemoteID:       c.RemoteID,
		Name:           c.Name,
		Description:    c.Description,
		Location:       c.Location,
		TimeZone:       c.TimeZone,
		SyncStatus:     c.SyncStatus.String(),
		Syncing:        c.Syncing,
		HasToken:       c.HasToken(),
		LastFullSyncAt: formatTime(c.LastFullSyncAt),
		LatestSyncAt:   formatTime(c.LatestSyncAt),
	}
}

func toEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		RemoteEventID: e.RemoteEventID,
		Title:         e.Title,
		Start:         e.Start().Format(time.RFC3339),
		End:           e.End().Format(time.RFC3339),
		Status:        string(e.Status),
		Visible:       e.LocalVisible,
		OwnerID:       e.OwnerID,
		Location:      e.Location,
		HTMLLink:      e.HTMLLink,
		Organizer:     e.Organizer.Email,
	}
}

func toRunResponse(r *domain.SyncRun) RunResponse {
	return RunResponse{
		ID:         r.ID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: formatTime(r.FinishedAt),
		DurationMS: r.Duration().Milliseconds(),
		Full:       r.Full,
		Status:     r.Status.String(),
		Stats: StatsResponse{
			Received:  r.Stats.Received,
			Created:   r.Stats.Created,
			Updated:   r.Stats.Updated,
			Saved:     r.Stats.Saved,
			Cancelled: r.Stats.Cancelled,
			Pages:     r.Stats.Pages,
		},
	}
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
}

func (h *handlers) listCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := h.calendars.List(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]CalendarResponse, 0, len(calendars))
	for i := range calendars {
		resp = append(resp, toCalendarResponse(&calendars[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) getCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.calendars.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarResponse(cal))
}

// syncCalendar runs a sync inside the request. Provider failures are
// reported through sync_status with 200; only local faults are errors.
func (h *handlers) syncCalendar(w http.ResponseWriter, r *http.Request) {
	full, err := parseBool(r, "full")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	cal, err := h.syncer.Sync(r.Context(), mux.Vars(r)["id"], full)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarResponse(cal))
}

func (h *handlers) listEvents(w http.ResponseWriter, r *http.Request) {
	visibleOnly, err := parseBool(r, "visible")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	cal, err := h.calendars.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	events, err := h.calendars.Events(r.Context(), cal.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for i := range events {
		if visibleOnly && !events[i].LocalVisible {
			continue
		}
		resp = append(resp, toEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	cal, err := h.calendars.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	runs, err := h.calendars.History(r.Context(), cal.ID, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, toRunResponse(&runs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) exportCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.calendars.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	// Buffer so a failed export can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.calendars.Export(r.Context(), cal.ID, &buf); err != nil {
		WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cal.ID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}
