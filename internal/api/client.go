package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdra/cadesk/internal/models"
)

// Client talks to the platform review API. It is a thin JSON wrapper: all
// business rules (pricing, KYC policy, settlement) live on the server.
type Client struct {
	baseURL   string
	token     string
	sessionID string
	http      *http.Client
}

// Config holds what the client needs to reach the server.
type Config struct {
	BaseURL   string
	Token     string
	SessionID string
	Timeout   time.Duration
}

// NewClient creates a review API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		sessionID: cfg.SessionID,
		http:      &http.Client{Timeout: timeout},
	}
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// ReviewData bundles everything the desk shows at once.
type ReviewData struct {
	Users    []models.User
	Deposits []models.Deposit
	Contacts []models.ContactRequest
}

// FetchAll gathers the three panel listings concurrently.
func (c *Client) FetchAll(ctx context.Context) (*ReviewData, error) {
	var data ReviewData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := c.ListPendingUsers(ctx)
		data.Users = users
		return err
	})
	g.Go(func() error {
		deposits, err := c.ListDeposits(ctx)
		data.Deposits = deposits
		return err
	})
	g.Go(func() error {
		contacts, err := c.ListContactRequests(ctx)
		data.Contacts = contacts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListPendingUsers returns users whose onboarding needs attention.
func (c *Client) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/admin/users?status=pending,in_review,rejected", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/admin/users/"+url.PathEscape(id), &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// ListUserDocuments returns the documents on a user's onboarding file.
func (c *Client) ListUserDocuments(ctx context.Context, userID string) ([]models.KycDocument, error) {
	var docs []models.KycDocument
	path := "/admin/users/" + url.PathEscape(userID) + "/documents"
	if err := c.get(ctx, path, &docs); err != nil {
		return nil, fmt.Errorf("list documents for %s: %w", userID, err)
	}
	return docs, nil
}

// ClaimUser moves a user from pending into review under this session.
func (c *Client) ClaimUser(ctx context.Context, id string) error {
	path := "/admin/users/" + url.PathEscape(id) + "/claim"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("claim user %s: %w", id, err)
	}
	return nil
}

// ApproveUser moves a user to approved.
func (c *Client) ApproveUser(ctx context.Context, id string) error {
	path := "/admin/users/" + url.PathEscape(id) + "/approve"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("approve user %s: %w", id, err)
	}
	return nil
}

// RejectUser moves a user to rejected with the given reason.
func (c *Client) RejectUser(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	path := "/admin/users/" + url.PathEscape(id) + "/reject"
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("reject user %s: %w", id, err)
	}
	return nil
}

// ListDeposits returns deposits awaiting review.
func (c *Client) ListDeposits(ctx context.Context) ([]models.Deposit, error) {
	var deposits []models.Deposit
	if err := c.get(ctx, "/admin/deposits?status=announced,received", &deposits); err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return deposits, nil
}

// ConfirmDeposit marks a deposit as confirmed.
func (c *Client) ConfirmDeposit(ctx context.Context, id string) error {
	path := "/admin/deposits/" + url.PathEscape(id) + "/confirm"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("confirm deposit %s: %w", id, err)
	}
	return nil
}

// CancelDeposit cancels a deposit with the given reason.
func (c *Client) CancelDeposit(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	path := "/admin/deposits/" + url.PathEscape(id) + "/cancel"
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("cancel deposit %s: %w", id, err)
	}
	return nil
}

// ListContactRequests returns open contact requests.
func (c *Client) ListContactRequests(ctx context.Context) ([]models.ContactRequest, error) {
	var contacts []models.ContactRequest
	if err := c.get(ctx, "/admin/contact-requests?status=open", &contacts); err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	return contacts, nil
}

// CloseContactRequest marks a contact request as handled.
func (c *Client) CloseContactRequest(ctx context.Context, id string) error {
	path := "/admin/contact-requests/" + url.PathEscape(id) + "/close"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("close contact request %s: %w", id, err)
	}
	return nil
}

// FetchDocumentPreview returns a text rendering of the document, or an
// error when the server has no preview for its content type. Callers fall
// back to a download affordance; a preview failure never closes anything.
func (c *Client) FetchDocumentPreview(ctx context.Context, docID string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/documents/"+url.PathEscape(docID)+"/preview", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read preview: %w", err)
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.sessionID != "" {
		req.Header.Set("X-Review-Session", c.sessionID)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	slog.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError reads the server's error envelope, falling back to the
// bare status code when the body is not the expected shape.
func responseError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Error
	}
	return apiErr
}
