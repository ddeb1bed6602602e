package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/verdra/cadesk/internal/models"
)

// maxUploadBytes caps what the desk will push in one request. The server
// enforces its own limit; this one just fails fast on obvious mistakes.
const maxUploadBytes = 32 << 20

// UploadRequest describes a document to attach to a user's file.
type UploadRequest struct {
	UserID   string
	Category models.DocumentCategory
	Title    string
	FilePath string
}

// Checksum returns the hex BLAKE2b-256 digest of the given content. The
// server compares it against its own digest to catch truncated uploads.
func Checksum(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// UploadDocument sends the file as multipart form data and returns the
// stored document record.
func (c *Client) UploadDocument(ctx context.Context, req UploadRequest) (*models.KycDocument, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("invalid document category %q", req.Category)
	}

	info, err := os.Stat(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", req.FilePath, err)
	}
	if info.Size() > maxUploadBytes {
		return nil, fmt.Errorf("%s is %d bytes, above the %d byte upload limit", req.FilePath, info.Size(), maxUploadBytes)
	}

	content, err := os.ReadFile(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"category": string(req.Category),
		"title":    req.Title,
		"checksum": Checksum(content),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	part, err := writer.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	path := "/admin/users/" + url.PathEscape(req.UserID) + "/documents"
	httpReq, err := c.newRequest(ctx, http.MethodPost, path, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var doc models.KycDocument
	if err := c.do(httpReq, &doc); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	return &doc, nil
}
