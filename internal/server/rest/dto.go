package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/server/models"
	"github.com/dmitrijs2005/artledger/internal/server/services"
)

var validate = validator.New()

// ErrResponse is the uniform error envelope.
type ErrResponse struct {
	Error string `json:"error"`
}

// statusFromError maps the domain sentinels onto HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, common.ErrorOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorDuplicateFile), errors.Is(err, common.ErrorDuplicateName):
		return http.StatusConflict
	case errors.Is(err, services.ErrContentStorageDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// internals stay in the logs
		msg = common.ErrorInternal.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: msg})
}

func renderBindError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrResponse{Error: err.Error()})
}

type RegisterPrincipalRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (req *RegisterPrincipalRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

type RegisterPrincipalResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type DepositRequest struct {
	AmountUnits int64 `json:"amount_units" validate:"required,gt=0"`
}

func (req *DepositRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

type BalanceResponse struct {
	BalanceUnits int64 `json:"balance_units"`
}

type RegisterFileRequest struct {
	Hash       string `json:"hash" validate:"required,min=6,max=128"`
	Payload    []byte `json:"payload" validate:"required"`
	PriceUnits int64  `json:"price_units" validate:"gte=0"`
}

func (req *RegisterFileRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

type FileResponse struct {
	Hash        string    `json:"hash"`
	Author      string    `json:"author"`
	PriceUnits  int64     `json:"price_units"`
	PayloadSize int       `json:"payload_size"`
	Index       int64     `json:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

func fileResponse(f *models.OriginalFile) FileResponse {
	return FileResponse{
		Hash:        f.Hash,
		Author:      f.Author,
		PriceUnits:  models.ToUnits(f.Price),
		PayloadSize: len(f.Payload),
		Index:       f.Index,
		CreatedAt:   f.CreatedAt,
	}
}

type ListFilesResponse struct {
	Hashes []string `json:"hashes"`
}

type PurchaseLicenseRequest struct {
	FundsUnits int64 `json:"funds_units" validate:"gte=0"`
}

func (req *PurchaseLicenseRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

type PurchaseLicenseResponse struct {
	LicenseKey  string `json:"license_key"`
	ChangeUnits int64  `json:"change_units"`
}

type LicenseResponse struct {
	Key       string    `json:"key"`
	Owner     string    `json:"owner"`
	FileHash  string    `json:"file_hash"`
	Index     int64     `json:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

type ContentURLResponse struct {
	URL string `json:"url"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
