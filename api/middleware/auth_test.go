package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/paintdepot/inkstock-backend/pkg/auth"
	"github.com/paintdepot/inkstock-backend/pkg/config"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "issuer",
		ExpirationMinutes: 60,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-auth", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestAuthSeedsActorFromToken(t *testing.T) {
	cfg := testJWTConfig()
	want := pkgAuth.Actor{UserID: uuid.New(), Name: "Dana", Role: enums.ActorRoleWarehouse}
	token, err := pkgAuth.MintActorToken(cfg, time.Now(), want)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var got pkgAuth.Actor
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(cfg, testLogger())(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !found {
		t.Fatal("actor missing from context")
	}
	if got.UserID != want.UserID || got.Role != want.Role || got.Name != want.Name {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	Auth(testJWTConfig(), testLogger())(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	Auth(testJWTConfig(), testLogger())(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsTokenSignedWithWrongSecret(t *testing.T) {
	minted := testJWTConfig()
	minted.Secret = "other-secret"
	token, err := pkgAuth.MintActorToken(minted, time.Now(), pkgAuth.Actor{
		UserID: uuid.New(),
		Name:   "Dana",
		Role:   enums.ActorRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(testJWTConfig(), testLogger())(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireCapabilityBlocksViewer(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireCapability(pkgAuth.CapabilityApproveRequests, testLogger())

	viewer := pkgAuth.Actor{UserID: uuid.New(), Name: "Vi", Role: enums.ActorRoleViewer}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithActor(req.Context(), viewer))
	resp := httptest.NewRecorder()
	guard(next).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer got %d", resp.Code)
	}

	office := pkgAuth.Actor{UserID: uuid.New(), Name: "Olu", Role: enums.ActorRoleOffice}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithActor(req.Context(), office))
	resp = httptest.NewRecorder()
	guard(next).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for office got %d", resp.Code)
	}
}
