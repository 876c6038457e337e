// Package handler exposes the shop over HTTP. Every request against a save
// slot runs under that slot's lock, and state is written back to the
// repository whenever a request changed it.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"haggle-shop/internal/bargain"
	"haggle-shop/internal/event"
	"haggle-shop/internal/i18n"
	"haggle-shop/internal/pkg/lock"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/progression"
	"haggle-shop/internal/repository"
)

const defaultLockTimeout = 5 * time.Second

// Options configure a Handler.
type Options struct {
	DefaultSlot string
	Locale      string
	Player      progression.Options
	// NewSource creates the random source of a newly opened slot.
	NewSource   func(slot string) rng.Source
	LockTimeout time.Duration
}

// Handler serves the game API for any number of save slots.
type Handler struct {
	repo       repository.SaveRepository
	translator i18n.Translator
	locks      *lock.SlotLock
	opts       Options

	mu    sync.Mutex
	games map[string]*game
}

// game is the live state of one opened slot.
type game struct {
	engine  *progression.Engine
	events  *event.Queue
	session *bargain.Session
	unsaved bool
}

// New creates a Handler.
func New(repo repository.SaveRepository, translator i18n.Translator, opts Options) *Handler {
	if opts.DefaultSlot == "" {
		opts.DefaultSlot = "default"
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.NewSource == nil {
		opts.NewSource = func(string) rng.Source { return rng.New() }
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	return &Handler{
		repo:       repo,
		translator: translator,
		locks:      lock.NewSlotLock(),
		opts:       opts,
		games:      make(map[string]*game),
	}
}

// Router returns the API routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.RecoveryMiddleware, LoggingMiddleware)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", h.HandleState).Methods(http.MethodGet)
	api.HandleFunc("/missions", h.HandleMissions).Methods(http.MethodGet)
	api.HandleFunc("/missions/{id}/claim", h.HandleClaimMission).Methods(http.MethodPost)
	api.HandleFunc("/skills/{id}/upgrade", h.HandleUpgradeSkill).Methods(http.MethodPost)
	api.HandleFunc("/customers/next", h.HandleNextCustomer).Methods(http.MethodPost)
	api.HandleFunc("/negotiations/counter", h.HandleCounter).Methods(http.MethodPost)
	api.HandleFunc("/negotiations/appraise", h.HandleAppraise).Methods(http.MethodPost)
	api.HandleFunc("/day/advance", h.HandleAdvanceDay).Methods(http.MethodPost)
	api.HandleFunc("/events", h.HandleEvents).Methods(http.MethodGet)
	return r
}

// apiError is a client-facing failure carrying a message key.
type apiError struct {
	status int
	code   string
}

func (e *apiError) Error() string { return e.code }

func failure(status int, code string) error {
	return &apiError{status: status, code: code}
}

func (h *Handler) slotOf(r *http.Request) string {
	if slot := r.URL.Query().Get("slot"); slot != "" {
		return slot
	}
	return h.opts.DefaultSlot
}

func (h *Handler) localeOf(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err == nil && len(tags) > 0 {
		return tags[0].String()
	}
	return h.opts.Locale
}

// open returns the live game of slot, loading or creating it on first use.
// The caller holds the slot lock.
func (h *Handler) open(ctx context.Context, slot string) *game {
	h.mu.Lock()
	g, ok := h.games[slot]
	h.mu.Unlock()
	if ok {
		return g
	}

	src := h.opts.NewSource(slot)
	state, loaded := progression.LoadOrNew(ctx, h.repo, slot, h.opts.Player, src)
	events := event.NewQueue()
	g = &game{
		engine:  progression.New(state, src, events),
		events:  events,
		unsaved: !loaded,
	}
	log.Info().Str("slot", slot).Bool("loaded", loaded).Int("day", state.Day).Msg("Slot opened")

	h.mu.Lock()
	h.games[slot] = g
	h.mu.Unlock()
	return g
}

func (h *Handler) persist(ctx context.Context, slot string, g *game) error {
	if !g.unsaved && !g.engine.Dirty() {
		return nil
	}
	if err := h.repo.Save(ctx, slot, g.engine.State()); err != nil {
		return err
	}
	g.engine.MarkSaved()
	g.unsaved = false
	return nil
}

// run executes fn on the slot's game under its lock, saves a changed state
// and writes the JSON result. The body is encoded before the lock is
// released so it never races a later mutation.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, fn func(g *game) (any, error)) {
	ctx := r.Context()
	slot := h.slotOf(r)

	var body []byte
	err := h.locks.WithLockContext(ctx, slot, h.opts.LockTimeout, func() error {
		g := h.open(ctx, slot)
		out, err := fn(g)
		if err != nil {
			return err
		}
		if err := h.persist(ctx, slot, g); err != nil {
			return err
		}
		body, err = json.Marshal(out)
		return err
	})
	if err != nil {
		h.writeError(w, r, slot, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, slot string, err error) {
	status, code := http.StatusInternalServerError, "api.internal"

	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		status, code = apiErr.status, apiErr.code
	case errors.Is(err, lock.ErrLockTimeout):
		status, code = http.StatusServiceUnavailable, "api.busy"
	default:
		log.Error().Err(err).Str("slot", slot).Str("path", r.URL.Path).Msg("Request failed")
	}

	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": h.translator.Translate(code, h.localeOf(r)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
