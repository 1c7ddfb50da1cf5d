package parking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/binder"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/logger"
)

type bindFunc func(r *http.Request, v any) error

var (
	jsonBinder  bindFunc = binder.JSON()
	queryBinder bindFunc = binder.Query()
	pathBinder  bindFunc = binder.Path(chi.URLParam)
)

// handlerFunc serves a request already decoded into R.
type handlerFunc[R any] func(ctx context.Context, req R) response

// handle applies the binders in order, runs h and renders its response.
func handle[R any](m *module, h handlerFunc[R], binders ...bindFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req R
		resp := func() response {
			for _, bind := range binders {
				if err := bind(r, &req); err != nil {
					return fail(err)
				}
			}
			return h(r.Context(), req)
		}()

		if resp.err != nil && resp.status >= http.StatusInternalServerError {
			m.log.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.Error(resp.err),
			)
		}
		if err := resp.render(w); err != nil {
			m.log.WarnContext(r.Context(), "failed to write response", logger.Error(err))
		}
	}
}

func (m *module) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.log.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			logger.Duration(time.Since(start)),
		)
	})
}

var errPanic = errors.New("handler panic")

func (m *module) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				m.log.ErrorContext(r.Context(), "panic while serving request",
					slog.Any("panic", p),
					slog.String("path", r.URL.Path),
				)
				_ = fail(errPanic).render(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// upper normalizes an enum value given on the wire.
func upper[T ~string](v T) T {
	return T(strings.ToUpper(strings.TrimSpace(string(v))))
}

// optional returns nil for an empty enum value.
func optional[T ~string](v T) *T {
	if v = upper(v); v == "" {
		return nil
	}
	return &v
}
