package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/verdra/cadesk/internal/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:   srv.URL,
		Token:     "test-token",
		SessionID: "sess-1",
	})
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotSession string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSession = r.Header.Get("X-Review-Session")
		json.NewEncoder(w).Encode([]models.User{})
	}))

	if _, err := c.ListPendingUsers(context.Background()); err != nil {
		t.Fatalf("ListPendingUsers() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotSession != "sess-1" {
		t.Errorf("X-Review-Session = %q", gotSession)
	}
}

func TestListPendingUsers(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.User{
			{ID: "u_1", Email: "a@example.com", KycStatus: models.KycPending},
			{ID: "u_2", Email: "b@example.com", KycStatus: models.KycInReview},
		})
	}))

	users, err := c.ListPendingUsers(context.Background())
	if err != nil {
		t.Fatalf("ListPendingUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != "u_1" {
		t.Errorf("users = %+v", users)
	}
}

func TestRejectUserSendsReason(t *testing.T) {
	var got map[string]string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/admin/users/u_1/reject" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.RejectUser(context.Background(), "u_1", "forged permit"); err != nil {
		t.Fatalf("RejectUser() error = %v", err)
	}
	if got["reason"] != "forged permit" {
		t.Errorf("reason = %q", got["reason"])
	}
}

func TestServerErrorSurfaced(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user already approved"})
	}))

	err := c.ApproveUser(context.Background(), "u_1")
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "user already approved" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestFetchAllGathersConcurrently(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/admin/users":
			json.NewEncoder(w).Encode([]models.User{{ID: "u_1"}})
		case "/admin/deposits":
			json.NewEncoder(w).Encode([]models.Deposit{{ID: "d_1"}, {ID: "d_2"}})
		case "/admin/contact-requests":
			json.NewEncoder(w).Encode([]models.ContactRequest{{ID: "c_1"}})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	data, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if len(data.Users) != 1 || len(data.Deposits) != 2 || len(data.Contacts) != 1 {
		t.Errorf("data = %+v", data)
	}
}

func TestFetchAllPropagatesFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin/deposits" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("[]"))
	}))

	if _, err := c.FetchAll(context.Background()); err == nil {
		t.Fatal("expected FetchAll to surface the failing listing")
	}
}

func TestUploadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "permit.pdf")
	content := []byte("pdf bytes")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("category"); got != "emission_permit" {
			t.Errorf("category = %q", got)
		}
		if got := r.FormValue("checksum"); got != Checksum(content) {
			t.Errorf("checksum = %q, want %q", got, Checksum(content))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "permit.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		json.NewEncoder(w).Encode(models.KycDocument{ID: "doc_1", Category: models.CategoryEmissionPermit})
	}))

	doc, err := c.UploadDocument(context.Background(), UploadRequest{
		UserID:   "u_1",
		Category: models.CategoryEmissionPermit,
		Title:    "Emission permit 2026",
		FilePath: path,
	})
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if doc.ID != "doc_1" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestUploadDocumentRejectsBadCategory(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})
	_, err := c.UploadDocument(context.Background(), UploadRequest{
		UserID:   "u_1",
		Category: "passport",
		FilePath: "/nonexistent",
	})
	if err == nil {
		t.Fatal("expected invalid category to fail before any I/O")
	}
}

func TestChecksumStable(t *testing.T) {
	a := Checksum([]byte("same"))
	b := Checksum([]byte("same"))
	other := Checksum([]byte("different"))
	if a != b {
		t.Error("checksum not deterministic")
	}
	if a == other {
		t.Error("different content produced the same checksum")
	}
	if len(a) != 64 {
		t.Errorf("checksum length = %d, want 64 hex chars", len(a))
	}
}
