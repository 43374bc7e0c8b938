package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "OK"})
}

func (s *Server) handleRegisterPrincipal(w http.ResponseWriter, r *http.Request) {
	req := &RegisterPrincipalRequest{}
	if err := render.Bind(r, req); err != nil {
		renderBindError(w, r, err)
		return
	}

	principal, err := s.principals.Register(r.Context(), req.Username, []byte(req.Password))
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "error", err.Error())
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RegisterPrincipalResponse{ID: principal.ID, Username: principal.UserName})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := &LoginRequest{}
	if err := render.Bind(r, req); err != nil {
		renderBindError(w, r, err)
		return
	}

	token, err := s.principals.Login(r.Context(), req.Username, []byte(req.Password))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, LoginResponse{AccessToken: token})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	req := &DepositRequest{}
	if err := render.Bind(r, req); err != nil {
		renderBindError(w, r, err)
		return
	}

	balance, err := s.principals.Deposit(r.Context(), principalFromContext(r.Context()), req.AmountUnits)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, BalanceResponse{BalanceUnits: balance})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.principals.Balance(r.Context(), principalFromContext(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, BalanceResponse{BalanceUnits: balance})
}

func (s *Server) handleRegisterFile(w http.ResponseWriter, r *http.Request) {
	req := &RegisterFileRequest{}
	if err := render.Bind(r, req); err != nil {
		renderBindError(w, r, err)
		return
	}

	file, err := s.registry.RegisterFile(r.Context(), principalFromContext(r.Context()), req.Hash, req.Payload, req.PriceUnits)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, fileResponse(file))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	hashes, err := s.registry.ListFiles(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, ListFilesResponse{Hashes: hashes})
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	file, err := s.registry.GetFile(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, fileResponse(file))
}

func (s *Server) handlePurchaseLicense(w http.ResponseWriter, r *http.Request) {
	req := &PurchaseLicenseRequest{}
	if err := render.Bind(r, req); err != nil {
		renderBindError(w, r, err)
		return
	}

	key, change, err := s.registry.PurchaseLicense(r.Context(), principalFromContext(r.Context()), chi.URLParam(r, "hash"), req.FundsUnits)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, PurchaseLicenseResponse{LicenseKey: key, ChangeUnits: change})
}

func (s *Server) handleGetLicense(w http.ResponseWriter, r *http.Request) {
	license, err := s.registry.GetLicense(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, LicenseResponse{
		Key:       license.Key,
		Owner:     license.Owner,
		FileHash:  license.File.Hash,
		Index:     license.Index,
		CreatedAt: license.CreatedAt,
	})
}

func (s *Server) handleVerifyAuthorRight(w http.ResponseWriter, r *http.Request) {
	valid, err := s.registry.VerifyAuthorRight(r.Context(), principalFromContext(r.Context()), chi.URLParam(r, "hash"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, VerifyResponse{Valid: valid})
}

// handleVerifyLicenseRight keeps the service's verify-or-error contract:
// the body is always {"valid": true}; every negative outcome arrives as an
// error status (403 or 404).
func (s *Server) handleVerifyLicenseRight(w http.ResponseWriter, r *http.Request) {
	valid, err := s.registry.VerifyLicenseRight(r.Context(), principalFromContext(r.Context()),
		chi.URLParam(r, "hash"), chi.URLParam(r, "key"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, VerifyResponse{Valid: valid})
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.content.UploadURL(r.Context(), principalFromContext(r.Context()), chi.URLParam(r, "hash"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, ContentURLResponse{URL: url})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.content.DownloadURL(r.Context(), principalFromContext(r.Context()),
		chi.URLParam(r, "hash"), r.URL.Query().Get("license_key"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, ContentURLResponse{URL: url})
}
