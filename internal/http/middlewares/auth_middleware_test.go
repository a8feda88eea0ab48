package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAccounts struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (f *fakeAccounts) Exists(ctx context.Context, id int64) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, id)
	}
	return true, nil
}

func setupAuthRouter(accounts *fakeAccounts) *gin.Engine {
	manager := auth.NewManager("test-secret", time.Hour)

	mw := middlewares.NewAuthMiddleware(manager, accounts)

	r := gin.New()
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.AccountIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"accountId": id})
	})

	return r
}

func doProtected(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if token != "" {
		// raw token, no Bearer prefix
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestRequireAuthRejections(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)

	validToken, err := manager.Generate(1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	expiredToken, err := auth.NewManager("test-secret", -time.Hour).Generate(1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	tests := []struct {
		name     string
		token    string
		accounts *fakeAccounts
	}{
		{
			name:     "missing header",
			token:    "",
			accounts: &fakeAccounts{},
		},
		{
			name:     "malformed token",
			token:    "garbage",
			accounts: &fakeAccounts{},
		},
		{
			name:     "expired token",
			token:    expiredToken,
			accounts: &fakeAccounts{},
		},
		{
			name:  "account gone",
			token: validToken,
			accounts: &fakeAccounts{existsFn: func(ctx context.Context, id int64) (bool, error) {
				return false, nil
			}},
		},
		{
			name:  "store failure",
			token: validToken,
			accounts: &fakeAccounts{existsFn: func(ctx context.Context, id int64) (bool, error) {
				return false, errors.New("db down")
			}},
		},
	}

	var previousBody string

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doProtected(t, setupAuthRouter(tc.accounts), tc.token)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}

			// every rejection reads the same; callers cannot tell the
			// failure modes apart
			body := rec.Body.String()

			if previousBody != "" && body != previousBody {
				t.Fatalf("401 bodies differ between cases: %q vs %q", previousBody, body)
			}

			previousBody = body
		})
	}
}

func TestRequireAuthSuccess(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)

	token, err := manager.Generate(42)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	var lookedUp int64

	accounts := &fakeAccounts{existsFn: func(ctx context.Context, id int64) (bool, error) {
		lookedUp = id
		return true, nil
	}}

	rec := doProtected(t, setupAuthRouter(accounts), token)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	if lookedUp != 42 {
		t.Fatalf("expected middleware to look up account 42, got %d", lookedUp)
	}

	if got := rec.Body.String(); got != `{"accountId":42}` {
		t.Fatalf("unexpected body %q", got)
	}
}
