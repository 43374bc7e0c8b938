// Package client implements the HTTP API client used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIClient talks to the registry's JSON API. It is not safe for concurrent
// use: the CLI drives it from a single goroutine.
type APIClient struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetAccessToken installs the bearer token sent with authenticated calls.
func (c *APIClient) SetAccessToken(token string) {
	c.accessToken = token
}

// File mirrors the server's file representation.
type File struct {
	Hash        string    `json:"hash"`
	Author      string    `json:"author"`
	PriceUnits  int64     `json:"price_units"`
	PayloadSize int       `json:"payload_size"`
	Index       int64     `json:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

// License mirrors the server's license representation.
type License struct {
	Key       string    `json:"key"`
	Owner     string    `json:"owner"`
	FileHash  string    `json:"file_hash"`
	Index     int64     `json:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type errPayload struct {
	Error string `json:"error"`
}

// do sends the request and decodes the response into out (when out != nil).
// Non-2xx statuses are mapped onto the package sentinels.
func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *APIClient) mapError(resp *http.Response) error {
	var payload errPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, payload.Error)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, payload.Error)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrOwnershipMismatch, payload.Error)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, payload.Error)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, payload.Error)
	default:
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
}

// Ping checks server reachability via the health endpoint.
func (c *APIClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Register creates an account. The password travels once, over the session
// call path; the server stores only a salted verifier.
func (c *APIClient) Register(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}
	return c.do(ctx, http.MethodPost, "/api/v1/principals", body, nil)
}

// Login authenticates and stores the returned access token on the client.
func (c *APIClient) Login(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/session", body, &resp); err != nil {
		return err
	}
	c.accessToken = resp.AccessToken
	return nil
}

// Deposit credits the caller's account and returns the new balance.
func (c *APIClient) Deposit(ctx context.Context, amountUnits int64) (int64, error) {
	body := map[string]int64{"amount_units": amountUnits}
	var resp struct {
		BalanceUnits int64 `json:"balance_units"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/funds/deposit", body, &resp); err != nil {
		return 0, err
	}
	return resp.BalanceUnits, nil
}

// Balance returns the caller's current balance.
func (c *APIClient) Balance(ctx context.Context) (int64, error) {
	var resp struct {
		BalanceUnits int64 `json:"balance_units"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/funds/balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.BalanceUnits, nil
}

// RegisterFile publishes an artifact under its content hash.
func (c *APIClient) RegisterFile(ctx context.Context, hash string, payload []byte, priceUnits int64) (*File, error) {
	body := map[string]any{"hash": hash, "payload": payload, "price_units": priceUnits}
	var resp File
	if err := c.do(ctx, http.MethodPost, "/api/v1/files", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFiles returns all registered hashes in insertion order.
func (c *APIClient) ListFiles(ctx context.Context) ([]string, error) {
	var resp struct {
		Hashes []string `json:"hashes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/files", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Hashes, nil
}

// GetFile fetches a registered artifact record.
func (c *APIClient) GetFile(ctx context.Context, hash string) (*File, error) {
	var resp File
	if err := c.do(ctx, http.MethodGet, "/api/v1/files/"+url.PathEscape(hash), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PurchaseLicense buys a usage license and returns the minted key and the
// change refunded to the buyer.
func (c *APIClient) PurchaseLicense(ctx context.Context, hash string, fundsUnits int64) (string, int64, error) {
	body := map[string]int64{"funds_units": fundsUnits}
	var resp struct {
		LicenseKey  string `json:"license_key"`
		ChangeUnits int64  `json:"change_units"`
	}
	path := "/api/v1/files/" + url.PathEscape(hash) + "/licenses"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", 0, err
	}
	return resp.LicenseKey, resp.ChangeUnits, nil
}

// GetLicense fetches an issued license.
func (c *APIClient) GetLicense(ctx context.Context, key string) (*License, error) {
	var resp License
	if err := c.do(ctx, http.MethodGet, "/api/v1/licenses/"+url.PathEscape(key), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyAuthorRight reports whether the caller authored the artifact.
func (c *APIClient) VerifyAuthorRight(ctx context.Context, hash string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	path := "/api/v1/files/" + url.PathEscape(hash) + "/rights/author"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// VerifyLicenseRight checks the caller's license for the artifact. A negative
// outcome arrives as ErrNotFound or ErrOwnershipMismatch, never as (false, nil).
func (c *APIClient) VerifyLicenseRight(ctx context.Context, hash, licenseKey string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	path := "/api/v1/files/" + url.PathEscape(hash) + "/rights/licenses/" + url.PathEscape(licenseKey)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// UploadURL requests a presigned PUT URL for the artifact's content blob.
func (c *APIClient) UploadURL(ctx context.Context, hash string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/api/v1/files/" + url.PathEscape(hash) + "/content/upload-url"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// DownloadURL requests a presigned GET URL for the artifact's content blob.
// licenseKey may be empty when the caller is the author.
func (c *APIClient) DownloadURL(ctx context.Context, hash, licenseKey string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/api/v1/files/" + url.PathEscape(hash) + "/content/download-url"
	if licenseKey != "" {
		path += "?license_key=" + url.QueryEscape(licenseKey)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
