package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/artledger/internal/logging"
	sc "github.com/dmitrijs2005/artledger/internal/server/config"
	"github.com/dmitrijs2005/artledger/internal/server/events"
	"github.com/dmitrijs2005/artledger/internal/server/keygen"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artledger/internal/server/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &sc.Config{}
	cfg.LoadDefaults()

	m := repomanager.NewMemoryRepositoryManager()
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	logger := logging.NopLogger{}
	ps := services.NewPrincipalService(m, logger, cfg)
	rs := services.NewRegistryService(m, keygen.NewUnique(keygen.CryptoSource{}), bus, logger, cfg)
	cs := services.NewContentService(rs, cfg)

	s, err := NewServer(cfg.EndpointAddr, logger, ps, rs, cs, cfg.SecretKey, cfg.RequestTimeout)
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "password123"}

	if code := doJSON(t, ts, http.MethodPost, "/api/v1/principals", "", creds, nil); code != http.StatusCreated {
		t.Fatalf("register returned %d", code)
	}

	var login LoginResponse
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/session", "", creds, &login); code != http.StatusOK {
		t.Fatalf("login returned %d", code)
	}
	if login.AccessToken == "" {
		t.Fatalf("empty access token")
	}
	return login.AccessToken
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var health HealthResponse
	if code := doJSON(t, ts, http.MethodGet, "/health", "", nil, &health); code != http.StatusOK {
		t.Fatalf("health returned %d", code)
	}
	if health.Status != "OK" {
		t.Fatalf("health status = %s", health.Status)
	}
}

func TestRegisterPrincipalConflict(t *testing.T) {
	ts := newTestServer(t)

	creds := map[string]string{"username": "alice", "password": "password123"}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/principals", "", creds, nil); code != http.StatusCreated {
		t.Fatalf("first register returned %d", code)
	}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/principals", "", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate register returned %d, want 409", code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "alice")

	creds := map[string]string{"username": "alice", "password": "wrongpassword"}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/session", "", creds, nil); code != http.StatusUnauthorized {
		t.Fatalf("wrong password returned %d, want 401", code)
	}
}

func TestAuthenticatedEndpointsRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	if code := doJSON(t, ts, http.MethodGet, "/api/v1/funds/balance", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("missing token returned %d, want 401", code)
	}
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/funds/balance", "garbage-token", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("garbage token returned %d, want 401", code)
	}
}

func TestPurchaseFlow(t *testing.T) {
	ts := newTestServer(t)

	authorToken := registerAndLogin(t, ts, "author")
	buyerToken := registerAndLogin(t, ts, "buyer")

	// author lists the artifact at price 2
	var file FileResponse
	registerBody := map[string]any{"hash": "abc123", "payload": []byte("the artifact"), "price_units": 2}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files", authorToken, registerBody, &file); code != http.StatusCreated {
		t.Fatalf("register file returned %d", code)
	}
	if file.Index != 1 || file.PriceUnits != 2 {
		t.Fatalf("unexpected file response: %+v", file)
	}

	// buyer funds the account with 3
	var balance BalanceResponse
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/funds/deposit", buyerToken, map[string]int64{"amount_units": 3}, &balance); code != http.StatusOK {
		t.Fatalf("deposit returned %d", code)
	}
	if balance.BalanceUnits != 3 {
		t.Fatalf("balance = %d, want 3", balance.BalanceUnits)
	}

	// buyer purchases with 3, price is 2: change 1
	var purchase PurchaseLicenseResponse
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files/abc123/licenses", buyerToken, map[string]int64{"funds_units": 3}, &purchase); code != http.StatusCreated {
		t.Fatalf("purchase returned %d", code)
	}
	if purchase.LicenseKey == "" || purchase.ChangeUnits != 1 {
		t.Fatalf("unexpected purchase response: %+v", purchase)
	}

	// balances after settlement
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/funds/balance", buyerToken, nil, &balance); code != http.StatusOK || balance.BalanceUnits != 1 {
		t.Fatalf("buyer balance = %d (status %d), want 1", balance.BalanceUnits, code)
	}
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/funds/balance", authorToken, nil, &balance); code != http.StatusOK || balance.BalanceUnits != 2 {
		t.Fatalf("author balance = %d (status %d), want 2", balance.BalanceUnits, code)
	}

	// the buyer's license verifies
	var verify VerifyResponse
	verifyPath := fmt.Sprintf("/api/v1/files/abc123/rights/licenses/%s", purchase.LicenseKey)
	if code := doJSON(t, ts, http.MethodGet, verifyPath, buyerToken, nil, &verify); code != http.StatusOK || !verify.Valid {
		t.Fatalf("buyer verification: status %d valid %v", code, verify.Valid)
	}

	// the author holds no license: ownership mismatch
	if code := doJSON(t, ts, http.MethodGet, verifyPath, authorToken, nil, nil); code != http.StatusForbidden {
		t.Fatalf("author verification returned %d, want 403", code)
	}

	// authorship check
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/files/abc123/rights/author", authorToken, nil, &verify); code != http.StatusOK || !verify.Valid {
		t.Fatalf("author right: status %d valid %v", code, verify.Valid)
	}
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/files/abc123/rights/author", buyerToken, nil, &verify); code != http.StatusOK || verify.Valid {
		t.Fatalf("buyer claimed authorship: status %d valid %v", code, verify.Valid)
	}

	// public reads
	var list ListFilesResponse
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/files", "", nil, &list); code != http.StatusOK {
		t.Fatalf("list returned %d", code)
	}
	if len(list.Hashes) != 1 || list.Hashes[0] != "abc123" {
		t.Fatalf("unexpected listing: %v", list.Hashes)
	}

	var license LicenseResponse
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/licenses/"+purchase.LicenseKey, "", nil, &license); code != http.StatusOK {
		t.Fatalf("license lookup returned %d", code)
	}
	if license.FileHash != "abc123" {
		t.Fatalf("license file hash = %s", license.FileHash)
	}
}

func TestPurchaseErrors(t *testing.T) {
	ts := newTestServer(t)

	authorToken := registerAndLogin(t, ts, "author")
	buyerToken := registerAndLogin(t, ts, "buyer")

	registerBody := map[string]any{"hash": "abc123", "payload": []byte("x"), "price_units": 10}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files", authorToken, registerBody, nil); code != http.StatusCreated {
		t.Fatalf("register file returned %d", code)
	}

	// duplicate hash
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files", buyerToken, registerBody, nil); code != http.StatusConflict {
		t.Fatalf("duplicate file returned %d, want 409", code)
	}

	// unknown hash
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files/ffffff/licenses", buyerToken, map[string]int64{"funds_units": 10}, nil); code != http.StatusNotFound {
		t.Fatalf("unknown hash returned %d, want 404", code)
	}

	// submitted funds below the price
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files/abc123/licenses", buyerToken, map[string]int64{"funds_units": 5}, nil); code != http.StatusPaymentRequired {
		t.Fatalf("underfunded purchase returned %d, want 402", code)
	}

	// malformed body
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files", authorToken, map[string]any{"hash": "abc"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid body returned %d, want 400", code)
	}
}

func TestContentEndpointsDisabledWithoutS3(t *testing.T) {
	ts := newTestServer(t)

	authorToken := registerAndLogin(t, ts, "author")

	registerBody := map[string]any{"hash": "abc123", "payload": []byte("x"), "price_units": 0}
	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files", authorToken, registerBody, nil); code != http.StatusCreated {
		t.Fatalf("register file returned %d", code)
	}

	if code := doJSON(t, ts, http.MethodPost, "/api/v1/files/abc123/content/upload-url", authorToken, nil, nil); code != http.StatusNotImplemented {
		t.Fatalf("upload-url returned %d, want 501", code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	ts := newTestServer(t)

	// a token minted with a different secret must not pass
	if code := doJSON(t, ts, http.MethodGet, "/api/v1/funds/balance",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.invalid", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("forged token returned %d, want 401", code)
	}
}
