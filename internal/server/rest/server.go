// Package rest exposes the registry over an HTTP JSON API.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/dmitrijs2005/artledger/internal/logging"
	"github.com/dmitrijs2005/artledger/internal/server/services"
)

const shutdownGrace = 5 * time.Second

type Server struct {
	address        string
	logger         logging.Logger
	principals     *services.PrincipalService
	registry       *services.RegistryService
	content        *services.ContentService
	jwtSecret      []byte
	requestTimeout time.Duration
}

func NewServer(a string, l logging.Logger, ps *services.PrincipalService, rs *services.RegistryService, cs *services.ContentService, secretKey string, requestTimeout time.Duration) (*Server, error) {
	return &Server{
		address:        a,
		logger:         l.With("module", "rest_server"),
		principals:     ps,
		registry:       rs,
		content:        cs,
		jwtSecret:      []byte(secretKey),
		requestTimeout: requestTimeout,
	}, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/principals", s.handleRegisterPrincipal)
		r.Post("/session", s.handleLogin)

		r.Get("/files", s.handleListFiles)
		r.Get("/files/{hash}", s.handleGetFile)
		r.Get("/licenses/{key}", s.handleGetLicense)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticator)

			r.Post("/funds/deposit", s.handleDeposit)
			r.Get("/funds/balance", s.handleBalance)

			r.Post("/files", s.handleRegisterFile)
			r.Post("/files/{hash}/licenses", s.handlePurchaseLicense)

			r.Get("/files/{hash}/rights/author", s.handleVerifyAuthorRight)
			r.Get("/files/{hash}/rights/licenses/{key}", s.handleVerifyLicenseRight)

			r.Post("/files/{hash}/content/upload-url", s.handleUploadURL)
			r.Get("/files/{hash}/content/download-url", s.handleDownloadURL)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
