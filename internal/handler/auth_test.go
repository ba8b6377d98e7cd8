package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kashmirakothariai/Foundee/internal/authn"
	"github.com/kashmirakothariai/Foundee/internal/config"
	"github.com/kashmirakothariai/Foundee/internal/handler"
	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/utils"
)

type fakeVerifier struct {
	ident authn.GoogleIdentity
	err   error
}

func (f fakeVerifier) Verify(context.Context, string) (authn.GoogleIdentity, error) {
	return f.ident, f.err
}

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 15}
}

func decodeToken(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal token response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
	return resp.AccessToken
}

func TestGoogleLoginCreatesAccount(t *testing.T) {
	users := newFakeUsers()
	h := handler.NewAuthHandler(testCfg(), users, fakeVerifier{
		ident: authn.GoogleIdentity{Email: "new@example.com", Name: "New User"},
	}, nil)

	c, rec := newCtx(t, http.MethodPost, "/auth/google-login", `{"token":"good"}`, "")
	if err := h.GoogleLogin(c); err != nil {
		t.Fatalf("google login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	u, err := users.GetByEmail(t.Context(), "new@example.com")
	if err != nil {
		t.Fatalf("account not created: %v", err)
	}
	if u.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", u.Role, model.RoleUser)
	}
	if u.PasswordHash != nil {
		t.Errorf("google account got a password hash")
	}

	claims, err := utils.ParseAccessToken("test-secret", decodeToken(t, rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != u.Email || claims.Role != model.RoleUser {
		t.Errorf("claims = %+v", claims)
	}
}

func TestGoogleLoginExistingAccount(t *testing.T) {
	users := newFakeUsers()
	existing := users.add(model.User{Email: "old@example.com", Role: model.RoleAdmin})
	h := handler.NewAuthHandler(testCfg(), users, fakeVerifier{
		ident: authn.GoogleIdentity{Email: "old@example.com", Name: "Old"},
	}, nil)

	c, rec := newCtx(t, http.MethodPost, "/auth/google-login", `{"token":"good"}`, "")
	if err := h.GoogleLogin(c); err != nil {
		t.Fatalf("google login: %v", err)
	}
	claims, err := utils.ParseAccessToken("test-secret", decodeToken(t, rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != existing.ID || claims.Role != model.RoleAdmin {
		t.Errorf("claims = %+v, want existing admin account", claims)
	}
	if len(users.users) != 1 {
		t.Errorf("login created a duplicate account")
	}
}

func TestGoogleLoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		verifier fakeVerifier
		want     int
	}{
		{"missing token", `{}`, fakeVerifier{}, http.StatusBadRequest},
		{"blank token", `{"token":"  "}`, fakeVerifier{}, http.StatusBadRequest},
		{"invalid token", `{"token":"bad"}`, fakeVerifier{err: authn.ErrInvalidIDToken}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAuthHandler(testCfg(), newFakeUsers(), tt.verifier, nil)
			c, rec := newCtx(t, http.MethodPost, "/auth/google-login", tt.body, "")
			if err := h.GoogleLogin(c); err != nil {
				t.Fatalf("google login: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := newFakeUsers()
	users.add(model.User{Email: "pw@example.com", PasswordHash: &hash})
	users.add(model.User{Email: "oauth@example.com"}) // no password hash
	h := handler.NewAuthHandler(testCfg(), users, fakeVerifier{}, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"success", `{"email":"pw@example.com","password":"s3cret"}`, http.StatusOK},
		{"email case folded", `{"email":"  PW@Example.COM ","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"email":"pw@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"ghost@example.com","password":"s3cret"}`, http.StatusUnauthorized},
		{"oauth-only account", `{"email":"oauth@example.com","password":"s3cret"}`, http.StatusUnauthorized},
		{"empty password", `{"email":"pw@example.com","password":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newCtx(t, http.MethodPost, "/auth/login", tt.body, "")
			if err := h.Login(c); err != nil {
				t.Fatalf("login: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusUnauthorized && rec.Body.String() == "" {
				t.Fatalf("401 without body")
			}
		})
	}
}

// All 401 causes must share one body so login cannot be used to probe
// which emails are registered.
func TestLoginUniformRejection(t *testing.T) {
	hash, _ := utils.HashPassword("s3cret", 4)
	users := newFakeUsers()
	users.add(model.User{Email: "pw@example.com", PasswordHash: &hash})
	users.add(model.User{Email: "oauth@example.com"})
	h := handler.NewAuthHandler(testCfg(), users, fakeVerifier{}, nil)

	bodies := map[string]string{}
	for name, body := range map[string]string{
		"unknown": `{"email":"ghost@example.com","password":"x"}`,
		"no hash": `{"email":"oauth@example.com","password":"x"}`,
		"wrong":   `{"email":"pw@example.com","password":"x"}`,
	} {
		c, rec := newCtx(t, http.MethodPost, "/auth/login", body, "")
		if err := h.Login(c); err != nil {
			t.Fatalf("login: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		bodies[name] = rec.Body.String()
	}
	if bodies["unknown"] != bodies["no hash"] || bodies["no hash"] != bodies["wrong"] {
		t.Fatalf("rejection bodies differ: %v", bodies)
	}
}
