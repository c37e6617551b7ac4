package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newClientServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), srv
}

func TestRegister_ReturnsServerMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	msg, err := c.Register(context.Background(), "a@x.com", "pw123456", "Ann")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if msg != "ok" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if gotPath != "/v1/user/register" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["email"] != "a@x.com" || gotBody["name"] != "Ann" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestRegister_ServerError(t *testing.T) {
	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "email already exists"})
	})

	_, err := c.Register(context.Background(), "a@x.com", "pw123456", "Ann")
	if err == nil || err.Error() != "email already exists" {
		t.Fatalf("expected server error text, got %v", err)
	}
}

func TestLogin_StoresToken(t *testing.T) {
	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResult{
			AccessToken: "tok-123",
			User:        Profile{ID: "acc-1", Email: "a@x.com"},
		})
	})

	result, err := c.Login(context.Background(), "a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.AccessToken != "tok-123" {
		t.Fatalf("unexpected token: %q", result.AccessToken)
	}
	if c.Token() != "tok-123" {
		t.Fatalf("token not stored: %q", c.Token())
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	})

	_, err := c.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProfile_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/user/login" {
			json.NewEncoder(w).Encode(LoginResult{AccessToken: "tok-123"})
			return
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(AccountProfile{
			Profile:  Profile{ID: "acc-1", Email: "a@x.com", Name: "Ann"},
			Verified: true,
		})
	})

	ctx := context.Background()
	if _, err := c.Login(ctx, "a@x.com", "pw123456"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	profile, err := c.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if !profile.Verified || profile.Name != "Ann" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestUpdateProfile_MultipartUpload(t *testing.T) {
	avatar := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(avatar, []byte("png-bytes"), 0o600); err != nil {
		t.Fatalf("write avatar: %v", err)
	}

	var gotName, gotMime string
	var gotData []byte
	c, _ := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotName = r.FormValue("name")
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotMime = header.Header.Get("Content-Type")
		gotData, _ = io.ReadAll(file)
		json.NewEncoder(w).Encode(Profile{ID: "acc-1", Name: "Annie", Avatar: "http://s3/a"})
	})

	profile, err := c.UpdateProfile(context.Background(), "Annie", avatar)
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if profile.Avatar != "http://s3/a" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if gotName != "Annie" || gotMime != "image/png" || string(gotData) != "png-bytes" {
		t.Fatalf("server saw name=%q mime=%q data=%q", gotName, gotMime, gotData)
	}
}

func TestUpdateProfile_MissingAvatarFile(t *testing.T) {
	c := New("http://127.0.0.1:0", time.Second)

	_, err := c.UpdateProfile(context.Background(), "", "/no/such/file.png")
	if err == nil {
		t.Fatal("expected error for missing avatar file")
	}
}
