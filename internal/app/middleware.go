package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/saep/inventory-console/internal/navigation"
	"github.com/saep/inventory-console/internal/observability"
	"github.com/saep/inventory-console/internal/platform/httpx"
	"github.com/saep/inventory-console/internal/shared"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRateLimit      = 120

	msgSessionUnavailable = "Sessão indisponível. Tente novamente em instantes."
	msgSessionExpired     = "Sessão expirada. Envie o formulário novamente."
	msgTooManyRequests    = "Muitas requisições. Aguarde um minuto."

	// contentSecurityPolicy admits only the console's own stylesheet and
	// script; templates carry no inline code.
	contentSecurityPolicy = "default-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'self'"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
}

// MiddlewareStack installs the console middleware chain. The access log wraps
// the session writer; CSRF runs inside the session so a rejected post can
// flash.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := defaultRequestTimeout
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		accessLog(logger),
		sessionMiddleware(cfg.SessionManager, logger),
		middleware.Recoverer,
		middleware.Timeout(timeout),
		secureHeaders(cfg.Config, logger),
		middleware.Compress(5),
		rateLimit(cfg.Config),
		csrfMiddleware(cfg.CSRFManager, logger),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	return middlewares
}

// accessLog writes one slog entry per console request.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			shared.RequestLogger(r.Context(), logger).Log(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(start)))
		})
	}
}

// sessionWriter commits the session once, right before the status line goes
// out, or when the handler returns without writing.
type sessionWriter struct {
	http.ResponseWriter
	once   sync.Once
	commit func()
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	w.once.Do(w.commit)
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	w.once.Do(w.commit)
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func sessionMiddleware(manager *shared.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := shared.RequestLogger(ctx, logger)
			sess, err := manager.Load(ctx, r)
			if err != nil {
				log.Error("load session", slog.Any("error", err))
				http.Error(w, msgSessionUnavailable, http.StatusServiceUnavailable)
				return
			}
			r = r.WithContext(shared.ContextWithSession(ctx, sess))

			sw := &sessionWriter{ResponseWriter: w}
			sw.commit = func() {
				// Commits even after the request context ended.
				if err := manager.Commit(context.WithoutCancel(ctx), w, r, sess); err != nil {
					log.Error("commit session", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
			}
			next.ServeHTTP(sw, r)
			sw.once.Do(sw.commit)
		})
	}
}

func secureHeaders(cfg *Config, logger *slog.Logger) func(http.Handler) http.Handler {
	headers := secure.New(secure.Options{
		FrameDeny:               true,
		ContentTypeNosniff:      true,
		ReferrerPolicy:          "same-origin",
		PermissionsPolicy:       "camera=(), microphone=(), geolocation=()",
		CrossOriginOpenerPolicy: "same-origin",
		ContentSecurityPolicy:   contentSecurityPolicy,
		SSLRedirect:             true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:           !cfg.IsProduction(),
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Process has already answered (redirect or bad host) when it errs.
			if err := headers.Process(w, r); err != nil {
				shared.RequestLogger(r.Context(), logger).Warn("secure headers stopped request", slog.Any("error", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimit caps requests per client IP per minute. /api/ callers get a
// problem document.
func rateLimit(cfg *Config) func(http.Handler) http.Handler {
	limit := defaultRateLimit
	if cfg != nil && cfg.AppRateLimit > 0 {
		limit = cfg.AppRateLimit
	}
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				httpx.Problem(w, http.StatusTooManyRequests, "too many requests", msgTooManyRequests)
				return
			}
			http.Error(w, msgTooManyRequests, http.StatusTooManyRequests)
		}),
	)
}

// csrfMiddleware rejects state-changing requests without the session's token.
// A rejected console form goes back to its section with a flash; anything
// else gets 403.
func csrfMiddleware(manager *shared.CSRFManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shared.CSRFExempt(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			sess := shared.SessionFromContext(r.Context())
			err := manager.VerifyToken(r.Context(), sess, shared.RequestToken(r))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			shared.RequestLogger(r.Context(), logger).Warn("csrf validation failed",
				slog.String("path", r.URL.Path), slog.Any("error", err))

			target, ok := csrfReturnPath(r)
			if !ok || sess == nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: msgSessionExpired})
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// csrfReturnPath maps a rejected form post to the page it came from. A
// submit to the section root reopens the section's form; spec sheet posts
// keep the selected product.
func csrfReturnPath(r *http.Request) (string, bool) {
	first, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	section, ok := navigation.Lookup(first)
	if !ok || section.Modal == "" {
		return "", false
	}
	target := section.Path()
	if rest == "" {
		target = navigation.Reopen(section)
	}
	if section.ID != navigation.SectionSpecSheets {
		return target, true
	}
	product := r.PostFormValue("produto")
	if product == "" {
		product = r.PostFormValue("produtoId")
	}
	if product == "" {
		return target, true
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + url.Values{"produto": {product}}.Encode(), true
}
