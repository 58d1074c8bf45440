package adminauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/barbershop-booking-site/internal/backend"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(backend.NewClient(backend.Options{BaseURL: ts.URL, PublicKey: "anon", Logger: logging.Default()}))
}

func TestClient_Login_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("login must use the public key, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","user":{"id":"u1","email":"milan@example.com"}}`))
	})

	sess, err := client.Login(context.Background(), " milan@example.com ", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.AccessToken != "tok-1" || sess.User.Email != "milan@example.com" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"Hibás email vagy jelszó"}`))
		})
		_, err := client.Login(context.Background(), "a@b.c", "bad")
		if !errors.Is(err, backend.ErrInvalidCredentials) {
			t.Fatalf("status %d: expected ErrInvalidCredentials, got %v", status, err)
		}
		if backend.Message(err, "") != "Hibás email vagy jelszó" {
			t.Fatalf("status %d: message = %q", status, backend.Message(err, ""))
		}
	}
}

func TestClient_Login_MissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"email":"x"}}`))
	})
	if _, err := client.Login(context.Background(), "a@b.c", "pw"); !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_ValidateToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"milan@example.com"}}`))
	})

	user, err := client.ValidateToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("user id = %s", user.ID)
	}
	if _, err := client.ValidateToken(context.Background(), "other"); !errors.Is(err, backend.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if _, err := client.ValidateToken(context.Background(), ""); !errors.Is(err, backend.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired for empty token, got %v", err)
	}
}

func TestClient_SignupFirstAdmin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.URL.Path != "/admin/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if string(body) != `{"email":"milan@example.com","name":"Ujfalussy Milán","password":"pw"}` {
			t.Errorf("body = %s", body)
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"milan@example.com","name":"Ujfalussy Milán"}}`))
	})

	user, err := client.SignupFirstAdmin(context.Background(), "Ujfalussy Milán", "milan@example.com", "pw")
	if err != nil {
		t.Fatalf("SignupFirstAdmin() error = %v", err)
	}
	if user.Name != "Ujfalussy Milán" {
		t.Fatalf("name = %q", user.Name)
	}
}

func TestClient_SignupFirstAdmin_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	_, err := client.SignupFirstAdmin(context.Background(), "n", "e", "p")
	if backend.Message(err, "") != MessageSignupFailed {
		t.Fatalf("message = %q", backend.Message(err, ""))
	}
}
