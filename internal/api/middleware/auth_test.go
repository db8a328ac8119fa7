package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

type stubIssuer struct {
	claims *ports.TokenClaims
}

func (s stubIssuer) Issue(account *domain.Account) (string, error) {
	return "unused", nil
}

func (s stubIssuer) Verify(token string) (*ports.TokenClaims, error) {
	if s.claims != nil && token == "good-token" {
		return s.claims, nil
	}
	return nil, domain.ErrInvalidToken
}

func runAuth(t *testing.T, issuer ports.TokenIssuer, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(issuer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestAuth_ValidToken(t *testing.T) {
	issuer := stubIssuer{claims: &ports.TokenClaims{
		AccountID: "acc-1",
		Username:  "alice",
		Role:      domain.RoleTeamLeader,
	}}

	rec, c := runAuth(t, issuer, "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := c.Get("username").(string); got != "alice" {
		t.Fatalf("username not injected, got %q", got)
	}
	if got, _ := c.Get("role").(domain.Role); got != domain.RoleTeamLeader {
		t.Fatalf("role not injected, got %q", got)
	}
}

func TestAuth_Rejections(t *testing.T) {
	issuer := stubIssuer{claims: &ports.TokenClaims{Username: "alice", Role: domain.RoleAdmin}}

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic Zm9vOmJhcg==",
		"no token part":  "Bearer",
		"invalid token":  "Bearer forged-token",
	}
	for name, header := range cases {
		rec, _ := runAuth(t, issuer, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuth_BearerIsCaseInsensitive(t *testing.T) {
	issuer := stubIssuer{claims: &ports.TokenClaims{Username: "alice", Role: domain.RoleAdmin}}

	rec, _ := runAuth(t, issuer, "bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for lowercase scheme, got %d", rec.Code)
	}
}
