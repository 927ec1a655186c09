package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

// Routes wires the handlers to their paths. Searches routes need a bearer identity, and an
// active subscription when RequireSubscription is set.
type Routes struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Searches *SearchHandler

	// Limiter throttles searches routes per caller. Nil disables it.
	Limiter *RateLimiter
	Ping    func(ctx context.Context) error
	Metrics http.Handler

	RequireSubscription bool
}

func (rt Routes) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/init", rt.private("POST /users/init", rt.Users.InitializeUser))

	mux.HandleFunc("POST /searches", rt.subscriber("POST /searches", rt.registered(rt.Searches.CreateSearch)))
	mux.HandleFunc("GET /searches", rt.subscriber("GET /searches", rt.Searches.ListSearches))
	mux.HandleFunc("GET /searches/{id}", rt.subscriber("GET /searches/{id}", rt.Searches.GetSearch))
	mux.HandleFunc("PUT /searches/{id}", rt.subscriber("PUT /searches/{id}", rt.Searches.UpdateSearch))
	mux.HandleFunc("DELETE /searches/{id}", rt.subscriber("DELETE /searches/{id}", rt.Searches.DeleteSearch))

	mux.HandleFunc("GET /healthz", public("GET /healthz", rt.health))
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	return withCORS(mux)
}

func (rt Routes) health(w http.ResponseWriter, r *http.Request) Result {
	if rt.Ping != nil {
		if err := rt.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			return Result{Code: http.StatusServiceUnavailable, Body: ErrorResponse{"unavailable"}}
		}
	}
	return Ok(map[string]string{"status": "ok"})
}

func (rt Routes) subscriber(route string, handler Handler) http.HandlerFunc {
	return rt.private(route, func(w http.ResponseWriter, r *http.Request) Result {
		user, res, ok := currentUser(r)
		if !ok {
			return res
		}
		if rt.RequireSubscription && !user.Subscribed {
			return Forbidden("An active subscription is required.")
		}
		if rt.Limiter != nil && !rt.Limiter.Allow(user.ID) {
			return TooManyRequests("Too many requests, please slow down.")
		}
		return handler(w, r)
	})
}

// registered upserts the caller before handing over, so a new search always has an owner row.
func (rt Routes) registered(handler Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) Result {
		user, res, ok := currentUser(r)
		if !ok {
			return res
		}
		if err := rt.Users.Register(r.Context(), user); err != nil {
			return InternalError(err, "register caller")
		}
		return handler(w, r)
	}
}

func (rt Routes) private(route string, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		result := rt.Auth.GetUser(r.Context(), r.Header.Get("Authorization"))
		if result.Code != http.StatusOK {
			slog.Debug("unauthorized request", "path", r.URL.Path)
			metrics.ObserveHTTP(route, result.Code, time.Since(ts))
			writeResult(w, result)
			return
		}

		ctx := WithUser(r.Context(), result.Body.(models.UserModel))
		public(route, handler)(w, r.WithContext(ctx))
	}
}

func public(route string, handler Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsed := time.Since(ts)
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsed.Milliseconds())
		metrics.ObserveHTTP(route, res.Code, elapsed)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError && res.Error != nil {
		slog.Error("internal error", "error", res.Error.Error())
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
