package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/davrev/openpoll/internal/db"
	"gitlab.com/davrev/openpoll/internal/models"
)

type ctxKey int

const (
	UserHCtxKey ctxKey = iota
	TokenCtxKey
)

type Routes struct {
	envConfig *models.EnvConfig
	db        *db.SharedDB
	logger    zerolog.Logger
}

func NewRouter(envConfig *models.EnvConfig, database *db.SharedDB, logger zerolog.Logger) chi.Router {
	routes := &Routes{
		envConfig: envConfig,
		db:        database,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("Request served")
	}))
	r.Use(routes.AuthCtx)

	r.Route("/polls", routes.PollRouter)
	r.Route("/users", routes.UserRouter)
	r.Route("/comments", routes.CommentRouter)
	r.Route("/tokens", routes.TokenRouter)
	return r
}

// AppHandler adapts handlers returning an AppError into http.HandlerFunc,
// rendering the wire error body and logging server faults.
func (routes *Routes) AppHandler(handler func(w http.ResponseWriter, r *http.Request) AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appErr := handler(w, r)
		if appErr == nil {
			return
		}
		if appErr.Status() >= http.StatusInternalServerError {
			hlog.FromRequest(r).
				Error().
				Str("request_id", middleware.GetReqID(r.Context())).
				Err(appErr.Unwrap()).
				Msg(appErr.Description())
		}
		respondJSON(w, appErr.Status(), ErrorBody{
			Code:        appErr.Status(),
			Message:     http.StatusText(appErr.Status()),
			Description: appErr.Description(),
		})
	}
}

// AuthCtx resolves a bearer token, if one is presented, into a *db.UserH
// stored on the request context. A presented but invalid token fails the
// request; absence of a token just leaves the request anonymous.
func (routes *Routes) AuthCtx(next http.Handler) http.Handler {
	return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		// Basic credentials (POST /tokens) and anonymous requests pass
		// through untouched.
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			next.ServeHTTP(w, r)
			return nil
		}

		userH, err := routes.db.GetUserH(r.Context(), token)
		if err == models.ErrInvalidCredentials {
			return &ErrUnauthorized{Cause: err}
		} else if err != nil {
			return &ErrInternal{Cause: err}
		}

		ctx := context.WithValue(r.Context(), UserHCtxKey, &userH)
		ctx = context.WithValue(ctx, TokenCtxKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

// EnforceCtx rejects requests missing a context value, e.g. unauthenticated
// requests to routes that require a user.
func (routes *Routes) EnforceCtx(key ctxKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
			if r.Context().Value(key) == nil {
				return &ErrUnauthorized{}
			}
			next.ServeHTTP(w, r)
			return nil
		})
	}
}
