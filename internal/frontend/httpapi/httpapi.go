// Package httpapi exposes desks as a JSON API. Animated actions complete
// immediately on the server and return the animation plan alongside the
// outcome, so a client can replay the motion and land on the same result.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
	"github.com/cory-johannsen/fortune/internal/game/widget"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Handler serves the desk API.
type Handler struct {
	registry *widget.Registry
	health   HealthChecker
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a Handler.
//
// Precondition: registry, health and logger must be non-nil.
func NewHandler(registry *widget.Registry, health HealthChecker, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, health: health, logger: logger, now: time.Now}
}

// Router mounts every endpoint behind CORS for allowedOrigins.
func (h *Handler) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", h.Healthz)

	r.Route("/v1", func(rr chi.Router) {
		rr.Get("/locales", h.ListLocales)
		rr.Get("/locales/match", h.MatchLocale)
		rr.Get("/locales/{code}", h.GetLocale)

		rr.Route("/desks/{profile}", func(d chi.Router) {
			d.Get("/", h.GetDesk)
			d.Put("/language", h.SetLanguage)
			d.Post("/wheel/spin", h.Spin)
			d.Post("/wheel/again", h.Again)
			d.Post("/wheel/reset", h.ResetWheel)
			d.Post("/wheel/options", h.AddOption)
			d.Delete("/wheel/options/{index}", h.RemoveOption)
			d.Post("/coin/flip", h.Flip)
			d.Post("/coin/reset", h.ResetCoin)
			d.Post("/number", h.Generate)
		})
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Healthz reports storage reachability.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Health(r.Context(), 2*time.Second); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListLocales lists every supported language.
func (h *Handler) ListLocales(w http.ResponseWriter, r *http.Request) {
	t := h.registry.Table()
	out := make([]LocaleSummary, 0, len(t.Codes()))
	for _, code := range t.Codes() {
		out = append(out, summaryOf(t.Lookup(code)))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetLocale returns one language's full label set.
func (h *Handler) GetLocale(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	t := h.registry.Table()
	if !t.Has(code) {
		writeError(w, http.StatusNotFound, "unknown locale "+strconv.Quote(code))
		return
	}
	writeJSON(w, http.StatusOK, t.Lookup(code))
}

// MatchLocale picks the best supported language for the Accept-Language header.
func (h *Handler) MatchLocale(w http.ResponseWriter, r *http.Request) {
	t := h.registry.Table()
	writeJSON(w, http.StatusOK, summaryOf(t.Lookup(t.Match(r.Header.Get("Accept-Language")))))
}

// desk resolves the {profile} parameter, writing an error reply on failure.
func (h *Handler) desk(w http.ResponseWriter, r *http.Request) (string, *widget.Desk, bool) {
	profile := chi.URLParam(r, "profile")
	d, err := h.registry.Desk(r.Context(), profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", nil, false
	}
	// A spin started from another front end may have run out unticked.
	d.Settle(h.now())
	return profile, d, true
}

// GetDesk returns the desk snapshot.
func (h *Handler) GetDesk(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, deskOf(profile, d))
}

// SetLanguage switches the desk language.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	payload, err := decode[LanguageRequest](w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !d.Table().Has(payload.Code) {
		writeError(w, http.StatusUnprocessableEntity, "unknown locale "+strconv.Quote(payload.Code))
		return
	}
	d.SetLanguage(r.Context(), payload.Code)
	writeJSON(w, http.StatusOK, deskOf(profile, d))
}

// Spin spins the wheel and returns the settled outcome.
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	h.spin(w, d)
}

// Again removes the last winner and spins again.
func (h *Handler) Again(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	d.Wheel.RemoveSelectedAndContinue(r.Context())
	h.spin(w, d)
}

func (h *Handler) spin(w http.ResponseWriter, d *widget.Desk) {
	s, ok := d.Wheel.Spin(h.now())
	if !ok {
		h.refuse(w, d.Wheel.View().State == animation.Running, d.Locale().Wheel.Empty)
		return
	}
	_, res := d.Wheel.Tick(s.StartedAt.Add(s.Duration))
	if res == nil {
		writeError(w, http.StatusConflict, "spin was superseded")
		return
	}
	writeJSON(w, http.StatusOK, SpinResponse{
		Animation: planOf(s),
		Index:     res.Index,
		Label:     res.Label,
		Options:   d.Wheel.View().Labels,
	})
}

func (h *Handler) refuse(w http.ResponseWriter, running bool, emptyMsg string) {
	if running {
		writeError(w, http.StatusConflict, "animation already running")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, emptyMsg)
}

// ResetWheel restores the default options.
func (h *Handler) ResetWheel(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	d.Wheel.Reset(r.Context())
	writeJSON(w, http.StatusOK, deskOf(profile, d))
}

// AddOption appends a wheel option.
func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	payload, err := decode[OptionRequest](w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := d.Wheel.Add(r.Context(), payload.Label); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, choices.ErrEmptyLabel) || errors.Is(err, choices.ErrLabelTooLong) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, deskOf(profile, d))
}

// RemoveOption deletes the wheel option at {index}.
func (h *Handler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || !d.Wheel.RemoveAt(r.Context(), i) {
		writeError(w, http.StatusNotFound, "no option at index "+strconv.Quote(chi.URLParam(r, "index")))
		return
	}
	writeJSON(w, http.StatusOK, deskOf(profile, d))
}

// Flip flips the coin and returns the settled face.
func (h *Handler) Flip(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	s, ok := d.Coin.Flip(h.now())
	if !ok {
		writeError(w, http.StatusConflict, "animation already running")
		return
	}
	_, res := d.Coin.Tick(s.StartedAt.Add(s.Duration))
	if res == nil {
		writeError(w, http.StatusConflict, "flip was superseded")
		return
	}
	writeJSON(w, http.StatusOK, FlipResponse{Animation: planOf(s), Face: faceName(res.Index), Label: res.Label})
}

// ResetCoin returns the coin to heads.
func (h *Handler) ResetCoin(w http.ResponseWriter, r *http.Request) {
	profile, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	d.Coin.Reset()
	writeJSON(w, http.StatusOK, deskOf(profile, d))
}

// Generate draws a number in [min, max].
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.desk(w, r)
	if !ok {
		return
	}
	payload, err := decode[NumberRequest](w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Min == nil || payload.Max == nil {
		writeError(w, http.StatusBadRequest, "min and max are required")
		return
	}
	v, err := d.Number.Generate(*payload.Min, *payload.Max)
	if errors.Is(err, dice.ErrInvalidRange) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NumberResponse{Value: v})
}

func faceName(face int) string {
	if face == rotation.Tails {
		return "tails"
	}
	return "heads"
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var payload T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, errors.New("invalid request body: " + err.Error())
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
