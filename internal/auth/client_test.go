package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/purpleschool/purpleschool/internal/auth"
	"github.com/purpleschool/purpleschool/internal/domain"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

func authStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Login_PersistsSession(t *testing.T) {
	ts := authStub(t, http.StatusOK, `{"token":"tok-123","user":{"id":"u1","name":"Ada","email":"ada@example.com"}}`)
	kv := store.NewMemory()
	c := auth.NewClient(ts.URL, kv)

	sess, err := c.Login(context.Background(), auth.Credentials{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-123" || sess.User.Name != "Ada" {
		t.Errorf("unexpected session %+v", sess)
	}

	data, found, _ := kv.Load(store.KeyAuthSession)
	if !found {
		t.Fatal("session not persisted")
	}
	var stored auth.Session
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("unmarshal stored session: %v", err)
	}
	if stored.Token != "tok-123" {
		t.Errorf("stored token %q", stored.Token)
	}

	got, ok := c.CurrentSession()
	if !ok || got.User.Email != "ada@example.com" {
		t.Errorf("CurrentSession: ok=%v sess=%+v", ok, got)
	}
}

func TestClient_Register_SendsProfileFields(t *testing.T) {
	var received map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"tok-9","user":{"id":"u2","name":"Bisi"}}`))
	}))
	t.Cleanup(ts.Close)

	c := auth.NewClient(ts.URL, store.NewMemory())
	_, err := c.Register(context.Background(), auth.RegisterInfo{
		Name: "Bisi", Email: "b@example.com", Password: "pw",
		School: "Unity College", Class: "SSS2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if received["school"] != "Unity College" || received["className"] != "SSS2" {
		t.Errorf("profile fields dropped: %v", received)
	}
}

func TestClient_Login_RejectedCredentials(t *testing.T) {
	ts := authStub(t, http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
	c := auth.NewClient(ts.URL, store.NewMemory())

	_, err := c.Login(context.Background(), auth.Credentials{Email: "x", Password: "y"})
	if !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if _, ok := c.CurrentSession(); ok {
		t.Error("rejected login left a session behind")
	}
}

func TestClient_Login_ServerDown(t *testing.T) {
	ts := authStub(t, http.StatusServiceUnavailable, `{}`)
	c := auth.NewClient(ts.URL, store.NewMemory())

	_, err := c.Login(context.Background(), auth.Credentials{Email: "x", Password: "y"})
	if !errors.Is(err, domain.ErrAuthUnavailable) {
		t.Fatalf("expected ErrAuthUnavailable, got %v", err)
	}
}

func TestClient_Logout(t *testing.T) {
	ts := authStub(t, http.StatusOK, `{"token":"tok","user":{"name":"Ada"}}`)
	kv := store.NewMemory()
	c := auth.NewClient(ts.URL, kv)

	if _, err := c.Login(context.Background(), auth.Credentials{Email: "a", Password: "b"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := c.CurrentSession(); ok {
		t.Error("session survived logout")
	}
}
