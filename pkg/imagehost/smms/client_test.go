package smms

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// fakeSMMS emulates the token, upload and delete endpoints
type fakeSMMS struct {
	t       *testing.T
	uploads [][]byte
	deleted []string
}

func (f *fakeSMMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/v2/token" && r.Method == http.MethodPost:
		if r.FormValue("username") != "alice" || r.FormValue("password") != "secret" {
			_, _ = io.WriteString(w, `{"success":false,"code":"error","message":"Username or password incorrect"}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"code":"success","data":{"token":"tok-123"}}`)

	case r.URL.Path == "/api/v2/upload" && r.Method == http.MethodPost:
		if r.Header.Get("Authorization") != "tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"code":"unauthorized","message":"Authorization required"}`)
			return
		}
		file, _, err := r.FormFile("smfile")
		if err != nil {
			f.t.Errorf("missing smfile field: %v", err)
			return
		}
		data, _ := io.ReadAll(file)
		f.uploads = append(f.uploads, data)
		_, _ = io.WriteString(w, `{"success":true,"code":"success","data":{"url":"https://s2.loli.net/2024/01/01/abc.png","hash":"h4sh"}}`)

	case len(r.URL.Path) > len("/api/v2/delete/") && r.URL.Path[:len("/api/v2/delete/")] == "/api/v2/delete/":
		if r.Header.Get("Authorization") != "tok-123" {
			_, _ = io.WriteString(w, `{"success":false,"message":"Authorization required"}`)
			return
		}
		f.deleted = append(f.deleted, r.URL.Path[len("/api/v2/delete/"):])
		_, _ = io.WriteString(w, `{"success":true,"code":"success","message":"File delete success."}`)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not found")
	}
}

func newTestClient(t *testing.T, username, password string) (*Client, *fakeSMMS) {
	t.Helper()
	fake := &fakeSMMS{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewClient(username, password, WithBaseURL(srv.URL+"/api/v2")), fake
}

func TestLoginUploadDelete(t *testing.T) {
	c, fake := newTestClient(t, "alice", "secret")
	ctx := context.Background()

	if err := c.Login(ctx); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	up, err := c.Upload(ctx, domain.Screenshot{Data: []byte("\x89PNG fake"), Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if up.URL != "https://s2.loli.net/2024/01/01/abc.png" || up.Handle != "h4sh" {
		t.Errorf("Upload() = %+v", up)
	}
	if len(fake.uploads) != 1 || string(fake.uploads[0]) != "\x89PNG fake" {
		t.Errorf("server received %q", fake.uploads)
	}

	if err := c.Delete(ctx, up.Handle); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "h4sh" {
		t.Errorf("deleted = %v", fake.deleted)
	}
}

func TestLogin_Rejected(t *testing.T) {
	c, _ := newTestClient(t, "alice", "wrong")
	err := c.Login(context.Background())
	if err == nil {
		t.Fatal("expected login to fail")
	}
}

func TestUpload_RequiresLogin(t *testing.T) {
	c, fake := newTestClient(t, "alice", "secret")
	_, err := c.Upload(context.Background(), domain.Screenshot{Data: []byte("x")})
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(fake.uploads) != 0 {
		t.Error("nothing should be uploaded without a token")
	}
}

func TestUpload_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, "alice", "secret")
	c.token = "expired"
	if _, err := c.Upload(context.Background(), domain.Screenshot{Data: []byte("x")}); err == nil {
		t.Fatal("expected upload with a bad token to fail")
	}
}

func TestDelete_EmptyHandleIsNoop(t *testing.T) {
	c, fake := newTestClient(t, "alice", "secret")
	if err := c.Delete(context.Background(), ""); err != nil {
		t.Fatalf("Delete(\"\") error: %v", err)
	}
	if len(fake.deleted) != 0 {
		t.Error("no request expected")
	}
}

func TestWithToken_SkipsLogin(t *testing.T) {
	fake := &fakeSMMS{t: t}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := NewClient("", "", WithBaseURL(srv.URL+"/api/v2/"), WithToken("tok-123"))
	if _, err := c.Upload(context.Background(), domain.Screenshot{Data: []byte("x")}); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
}

func TestNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	c := NewClient("u", "p", WithBaseURL(srv.URL))
	if err := c.Login(context.Background()); err == nil {
		t.Fatal("expected an error for a non-JSON response")
	}
}
