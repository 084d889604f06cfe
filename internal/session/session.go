// Package session holds per-browser workflow state on the server side. The
// browser only carries an opaque id.
package session

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workflow keys.
const (
	KeyClientSIREN       = "client_siren"
	KeyClientName        = "client_nom_entreprise"
	KeyClientCabinetID   = "client_cabinet_id"
	KeyClientComptableID = "client_comptable_id"
	KeyCollabSIREN       = "collab_siren"
	KeyCollabName        = "collab_nom_entreprise"
	KeyQuestionnaireID   = "questionnaire_id"
)

// Flash levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

const (
	DefaultCookieName = "sessionid"
	DefaultTTL        = 14 * 24 * time.Hour
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the mutable view of a Record during one request.
type Session struct {
	mu    sync.Mutex
	id    string
	rec   Record
	dirty bool
}

func newSession(id string, rec Record) *Session {
	if rec.Values == nil {
		rec.Values = map[string]string{}
	}
	return &Session{id: id, rec: rec}
}

// New returns an empty session not bound to any store, for tests and callers
// outside of the middleware.
func New() *Session {
	return newSession(uuid.NewString(), Record{})
}

func (s *Session) ID() string { return s.id }

func (s *Session) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Values[key]
}

// Lookup reports whether key is set, even to an empty value.
func (s *Session) Lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rec.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.rec.Values[key]; ok && cur == value {
		return
	}
	s.rec.Values[key] = value
	s.dirty = true
}

func (s *Session) Delete(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if _, ok := s.rec.Values[k]; ok {
			delete(s.rec.Values, k)
			s.dirty = true
		}
	}
}

func (s *Session) AddFlash(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Flashes = append(s.rec.Flashes, Flash{Level: level, Message: message})
	s.dirty = true
}

// Flashes returns and clears the pending flash messages.
func (s *Session) Flashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rec.Flashes) == 0 {
		return nil
	}
	out := s.rec.Flashes
	s.rec.Flashes = nil
	s.dirty = true
	return out
}

func (s *Session) snapshot() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.clone(), s.dirty
}

func (s *Session) markClean() {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session. Without the middleware it returns a
// fresh detached session, so handlers never see nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return New()
}

// Manager loads and saves sessions around each request.
type Manager struct {
	store      Store
	ttl        time.Duration
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		ttl:        DefaultTTL,
		cookieName: DefaultCookieName,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Middleware attaches the session to the request context and persists it,
// when modified, before the response headers are sent.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		sw := &saveWriter{ResponseWriter: w, m: m, s: s, ctx: r.Context()}
		next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), s)))
		sw.commit()
	})
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	s := FromContext(r.Context())
	if err := m.store.Delete(r.Context(), s.ID()); err != nil {
		m.logger.Warn("session delete failed", zap.Error(err))
	}
	s.mu.Lock()
	s.id = uuid.NewString()
	s.rec = Record{Values: map[string]string{}}
	s.dirty = false
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return newSession(uuid.NewString(), Record{})
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return newSession(uuid.NewString(), Record{})
	}
	rec, err := m.store.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("session load failed", zap.Error(err))
		}
		return newSession(uuid.NewString(), Record{})
	}
	return newSession(c.Value, rec)
}

func (m *Manager) save(ctx context.Context, w http.ResponseWriter, s *Session) {
	rec, dirty := s.snapshot()
	if !dirty {
		return
	}
	if err := m.store.Save(ctx, s.ID(), rec, m.ttl); err != nil {
		m.logger.Error("session save failed", zap.String("session_id", s.ID()), zap.Error(err))
		return
	}
	s.markClean()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

// saveWriter flushes the session just before the first header write.
type saveWriter struct {
	http.ResponseWriter
	m           *Manager
	s           *Session
	ctx         context.Context
	wroteHeader bool
}

func (w *saveWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.m.save(w.ctx, w.ResponseWriter, w.s)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *saveWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

func (w *saveWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (w *saveWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// commit handles handlers that never wrote anything.
func (w *saveWriter) commit() {
	if !w.wroteHeader {
		w.m.save(w.ctx, w.ResponseWriter, w.s)
	}
}
