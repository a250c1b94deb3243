package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"

	"slugbin/cfg"
	"slugbin/svc/kv"
	"slugbin/svc/lim"
	"slugbin/svc/svc"
	"slugbin/svc/util"
)

type Server struct {
	router     *chi.Mux
	paste      *svc.Paste
	lim        *lim.Limiter
	cfg        *cfg.Cfg
	store      kv.Store
	httpServer *http.Server
}

func NewServer(c *cfg.Cfg, p *svc.Paste, l *lim.Limiter, store kv.Store) *Server {
	r := chi.NewRouter()
	mw := NewMw(l, p.Guard(), c)
	s := &Server{
		router: r,
		paste:  p,
		lim:    l,
		cfg:    c,
		store:  store,
		httpServer: &http.Server{
			Addr:           ":" + c.Port,
			Handler:        r,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 256 * 1024,
		},
	}
	// Root-level so preflight OPTIONS requests are answered even when
	// the matched route has no handler for the method.
	r.Use(mw.CORS)

	r.Group(func(r chi.Router) {
		r.Use(mw.Recoverer)
		r.Get("/health", s.Health)
		r.Get("/ready", s.Ready)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.Recoverer)
		r.Handle("/metrics", mw.BasicAuthMetrics(promhttp.Handler()))
	})

	hdl := &Hdl{paste: p, cfg: c}
	r.Group(func(r chi.Router) {
		r.Use(mw.Recoverer)
		r.Use(mw.RequestID)
		r.Use(hlog.NewHandler(util.GetLogger()))
		r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, dur time.Duration) {
			hlog.FromRequest(req).Info().
				Str("method", req.Method).
				Str("url", util.RedactSecret(req.URL.String())).
				Int("status", status).
				Int("size", size).
				Dur("duration", dur).
				Str("request_id", util.GetRequestID(req.Context())).
				Msg("http request")
		}))
		r.Use(mw.ContextTimeout)
		r.Use(mw.SecurityHeaders)

		r.Route("/api", func(r chi.Router) {
			r.Use(mw.JSONContentType)
			r.With(mw.APIAuth, mw.RateLimit("create")).Post("/create", hdl.CreatePaste)
			r.With(mw.RateLimit("view")).Get("/view", hdl.ViewOrList)
			r.With(mw.APIAuth, mw.RateLimit("list")).Get("/pastes", hdl.ListPastes)
			r.With(mw.RateLimit("view")).Get("/view/{slug}", hdl.ViewPaste)
			r.With(mw.APIAuth, mw.RateLimit("delete")).Delete("/delete", hdl.DeletePaste)
			r.With(mw.APIAuth).Get("/auth", hdl.AuthCheck)
		})
		r.With(mw.RateLimit("view")).Get("/{slug}", hdl.RawPaste)
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	util.Info().Str("port", s.cfg.Port).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		util.Error().Err(err).Str("port", s.cfg.Port).Msg("server failed to start")
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
