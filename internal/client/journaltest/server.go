// Package journaltest provides an in-memory journal service for tests.
//
// The server speaks the same HTTP contract as the real service: bearer
// tokens from /register and /token, trips, events, and media with both
// media creation variants. Uploaded files are served back from /files.
package journaltest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/client/request"
)

type Options struct {
	// MediaPath and UploadPath mirror the client resolver options.
	MediaPath  string
	UploadPath string
	Secret     []byte
}

// Server is an httptest.Server backed by maps. It is safe for concurrent
// use.
type Server struct {
	*httptest.Server

	secret []byte

	mu       sync.Mutex
	users    map[string]string
	trips    map[int64]*record[models.Trip]
	events   map[int64]*record[models.Event]
	medias   map[int64]*record[models.Media]
	files    map[string][]byte
	nextID   int64
	failures map[string]int
	requests []Request
}

type record[T any] struct {
	owner string
	value T
}

// Request is what the server saw of one call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Accept        string
	ContentType   string
	Body          []byte
}

func NewServer(opts Options) *Server {
	if opts.MediaPath == "" {
		opts.MediaPath = "medias"
	}
	if opts.UploadPath == "" {
		opts.UploadPath = opts.MediaPath
	}
	if opts.Secret == nil {
		opts.Secret = []byte(uuid.NewString())
	}

	s := &Server{
		secret:   opts.Secret,
		users:    make(map[string]string),
		trips:    make(map[int64]*record[models.Trip]),
		events:   make(map[int64]*record[models.Event]),
		medias:   make(map[int64]*record[models.Media]),
		files:    make(map[string][]byte),
		failures: make(map[string]int),
	}

	media := "/" + strings.Trim(opts.MediaPath, "/")
	upload := "/" + strings.Trim(opts.UploadPath, "/")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.capture)
	r.Use(s.injectFailures)

	r.Post("/register", s.register)
	r.Post("/token", s.login)
	r.Get("/files/{name}", s.file)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/trips", s.listTrips)
		r.Post("/trips", s.createTrip)
		r.Get("/trips/{id}", s.getTrip)
		r.Put("/trips/{id}", s.updateTrip)
		r.Delete("/trips/{id}", s.deleteTrip)

		r.Post("/events", s.createEvent)
		r.Put("/events/{id}", s.updateEvent)
		r.Delete("/events/{id}", s.deleteEvent)

		if upload == media {
			r.Post(media, s.createOrUpload)
		} else {
			r.Post(media, s.createMedia)
			r.Post(upload, s.upload)
		}
		r.Delete(media+"/{id}", s.deleteMedia)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// FailNext makes the next request to path answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request to path.
func (s *Server) LastRequest(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

func (s *Server) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Accept:        r.Header.Get("Accept"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()

		if ok {
			writeJSON(w, status, map[string]string{"detail": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		user, err := UsernameFromToken(parts[1], s.secret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (s *Server) issue(w http.ResponseWriter, username string) {
	tok, err := GenerateToken(username, s.secret, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		unprocessable(w, "username and password are required")
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	if !exists {
		s.users[req.Username] = req.Password
	}
	s.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
		return
	}
	s.issue(w, req.Username)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		unprocessable(w, err.Error())
		return
	}
	if _, ok := r.PostForm["grant_type"]; !ok {
		unprocessable(w, "grant_type is required")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	want, ok := s.users[username]
	s.mu.Unlock()

	if !ok || want != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	s.issue(w, username)
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	s.mu.Lock()
	out := make([]models.Trip, 0)
	for _, rec := range s.trips {
		if rec.owner == user {
			out = append(out, s.tripView(rec.value))
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := decodeTrip(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	s.nextID++
	trip.ID = s.nextID
	s.trips[trip.ID] = &record[models.Trip]{owner: userFrom(r.Context()), value: trip}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.trips[id]
	var trip models.Trip
	if found && rec.owner == userFrom(r.Context()) {
		trip = s.tripView(rec.value)
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, ok := decodeTrip(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.trips[id]
	if found && rec.owner == userFrom(r.Context()) {
		trip.ID = id
		rec.value = trip
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.trips[id]
	if found && rec.owner == userFrom(r.Context()) {
		delete(s.trips, id)
		for eid, ev := range s.events {
			if ev.value.TripID == id {
				s.deleteEventLocked(eid)
			}
		}
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var p request.EventCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		unprocessable(w, err.Error())
		return
	}
	tripID, err := strconv.ParseInt(p.TripID, 10, 64)
	if err != nil {
		unprocessable(w, "trip_id must be a numeric string")
		return
	}
	ev, ok := eventFromPayload(w, p.EventPayload)
	if !ok {
		return
	}
	ev.TripID = tripID

	user := userFrom(r.Context())
	s.mu.Lock()
	trip, found := s.trips[tripID]
	if found && trip.owner == user {
		s.nextID++
		ev.ID = s.nextID
		s.events[ev.ID] = &record[models.Event]{owner: user, value: ev}
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p request.EventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		unprocessable(w, err.Error())
		return
	}
	ev, ok := eventFromPayload(w, p)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.events[id]
	if found && rec.owner == userFrom(r.Context()) {
		ev.ID = id
		ev.TripID = rec.value.TripID
		rec.value = ev
		ev = s.eventView(ev)
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.events[id]
	if found && rec.owner == userFrom(r.Context()) {
		s.deleteEventLocked(id)
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteEventLocked(id int64) {
	delete(s.events, id)
	for mid, m := range s.medias {
		if m.value.EventID == id {
			delete(s.medias, mid)
		}
	}
}

// createOrUpload serves a media path shared by both steps of the upload
// flow; multipart bodies are uploads.
func (s *Server) createOrUpload(w http.ResponseWriter, r *http.Request) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		s.upload(w, r)
		return
	}
	s.createMedia(w, r)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}

	url := s.store(data)
	writeJSON(w, http.StatusOK, models.UploadResponse{URL: &url})
}

type mediaCreate struct {
	EventID    int64   `json:"event_id"`
	URL        *string `json:"url"`
	Base64Data *string `json:"base64_data"`
}

func (s *Server) createMedia(w http.ResponseWriter, r *http.Request) {
	var p mediaCreate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		unprocessable(w, err.Error())
		return
	}

	var url string
	switch {
	case p.URL != nil && *p.URL != "":
		url = *p.URL
	case p.Base64Data != nil:
		data, err := base64.StdEncoding.DecodeString(*p.Base64Data)
		if err != nil {
			unprocessable(w, "base64_data is not valid base64")
			return
		}
		url = s.store(data)
	default:
		unprocessable(w, "url or base64_data is required")
		return
	}

	user := userFrom(r.Context())
	s.mu.Lock()
	ev, found := s.events[p.EventID]
	var m models.Media
	if found && ev.owner == user {
		s.nextID++
		m = models.Media{ID: s.nextID, EventID: p.EventID, URL: url}
		s.medias[m.ID] = &record[models.Media]{owner: user, value: m}
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec, found := s.medias[id]
	if found && rec.owner == userFrom(r.Context()) {
		delete(s.medias, id)
	} else {
		found = false
	}
	s.mu.Unlock()

	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) file(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.files[chi.URLParam(r, "name")]
	s.mu.Unlock()

	if !ok {
		notFound(w)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

// File returns uploaded bytes by their public URL.
func (s *Server) File(url string) ([]byte, bool) {
	name := strings.TrimPrefix(url, s.URL+"/files/")
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

func (s *Server) store(data []byte) string {
	name := uuid.NewString()
	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()
	return s.URL + "/files/" + name
}

// tripView embeds the trip's events. Callers hold s.mu.
func (s *Server) tripView(t models.Trip) models.Trip {
	t.Events = nil
	for _, ev := range s.events {
		if ev.value.TripID == t.ID {
			t.Events = append(t.Events, s.eventView(ev.value))
		}
	}
	sort.Slice(t.Events, func(i, j int) bool { return t.Events[i].ID < t.Events[j].ID })
	return t
}

// eventView embeds the event's media. Callers hold s.mu.
func (s *Server) eventView(e models.Event) models.Event {
	e.Medias = nil
	for _, m := range s.medias {
		if m.value.EventID == e.ID {
			e.Medias = append(e.Medias, m.value)
		}
	}
	sort.Slice(e.Medias, func(i, j int) bool { return e.Medias[i].ID < e.Medias[j].ID })
	return e
}

func decodeTrip(w http.ResponseWriter, r *http.Request) (models.Trip, bool) {
	var p request.TripPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		unprocessable(w, err.Error())
		return models.Trip{}, false
	}
	if p.Name == "" {
		unprocessable(w, "name is required")
		return models.Trip{}, false
	}
	start, err1 := time.Parse(time.RFC3339, p.StartDate)
	end, err2 := time.Parse(time.RFC3339, p.EndDate)
	if err1 != nil || err2 != nil {
		unprocessable(w, "dates must be RFC 3339")
		return models.Trip{}, false
	}
	return models.Trip{Name: p.Name, StartDate: start, EndDate: end}, true
}

func eventFromPayload(w http.ResponseWriter, p request.EventPayload) (models.Event, bool) {
	if p.Name == "" {
		unprocessable(w, "name is required")
		return models.Event{}, false
	}
	date, err := time.Parse(time.RFC3339, p.Date)
	if err != nil {
		unprocessable(w, "date must be RFC 3339")
		return models.Event{}, false
	}

	ev := models.Event{Name: p.Name, Date: date}
	if p.Note != "" {
		ev.Note = &p.Note
	}
	if p.TransitionFromPrevious != "" {
		ev.TransitionFromPrevious = &p.TransitionFromPrevious
	}
	if l := p.Location; l.Address != "" || l.Latitude != 0 || l.Longitude != 0 {
		ev.Location = &models.Location{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
	}
	return ev, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		unprocessable(w, fmt.Sprintf("invalid id %q", chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unprocessable(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": msg}}})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
}
