package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunrise-classroom/content-portal/internal/auth"
	"github.com/sunrise-classroom/content-portal/internal/catalog"
)

type fakeService struct {
	items   []catalog.Item
	fail    bool
	lastOp  string
	lastID  string
	lastMet catalog.Metadata
}

var errProvider = errors.New("provider down")

func (f *fakeService) List(context.Context) ([]catalog.Item, error) {
	if f.fail {
		return nil, errProvider
	}
	return f.items, nil
}

func (f *fakeService) Upload(_ context.Context, filename string, data []byte, meta catalog.Metadata) (*catalog.Item, error) {
	if f.fail {
		return nil, errProvider
	}
	f.lastOp, f.lastMet = "upload", meta
	item := catalog.Item{
		PublicID:     "sunrise_classroom/" + filename,
		SecureURL:    "https://cdn.example.test/" + filename,
		CreatedAt:    time.Now().UTC(),
		ResourceType: catalog.KindRaw,
		Bytes:        int64(len(data)),
	}
	item.SetMeta(meta)
	return &item, nil
}

func (f *fakeService) UpdateMetadata(_ context.Context, publicID string, meta catalog.Metadata) error {
	if f.fail {
		return errProvider
	}
	f.lastOp, f.lastID, f.lastMet = "update", publicID, meta
	return nil
}

func (f *fakeService) Delete(_ context.Context, publicID string) error {
	if f.fail {
		return errProvider
	}
	f.lastOp, f.lastID = "delete", publicID
	return nil
}

func newTestApp(t *testing.T, svc ContentService, authRequired bool) (*fiber.App, *auth.TokenIssuer) {
	t.Helper()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewHandler(svc, issuer, 50<<20, zap.NewNop().Sugar())
	app := fiber.New()
	h.Register(app, authRequired)
	return app, issuer
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{}, false)
	resp, body := doJSON(t, app, "GET", "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestListContent(t *testing.T) {
	item := catalog.Item{PublicID: "sunrise_classroom/a.pdf", ResourceType: catalog.KindRaw}
	item.SetMeta(catalog.Metadata{Title: "Algebra Notes"})
	app, _ := newTestApp(t, &fakeService{items: []catalog.Item{item}}, false)

	resp, body := doJSON(t, app, "GET", "/api/content", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resources, ok := body["resources"].([]any)
	require.True(t, ok)
	require.Len(t, resources, 1)
	first := resources[0].(map[string]any)
	assert.Equal(t, "sunrise_classroom/a.pdf", first["public_id"])
}

func TestListContentProviderFailure(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{fail: true}, false)
	resp, body := doJSON(t, app, "GET", "/api/content", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to fetch content", body["error"])
}

func multipartUpload(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		fw, err := w.CreateFormFile("file", "notes.pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 dummy"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc, false)

	fields := map[string]string{
		"title":       "Chapter 1",
		"teacher":     "Mr. Sharma",
		"subject":     "Physics",
		"className":   "Class 11",
		"description": "Notes",
		"fileType":    "PDF",
	}
	buf, ct := multipartUpload(t, fields, true)
	req := httptest.NewRequest("POST", "/api/upload", buf)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success  bool         `json:"success"`
		Resource catalog.Item `json:"resource"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Chapter 1", body.Resource.Meta().Title)
	assert.Equal(t, "Class 11", svc.lastMet.ClassName)
}

func TestUploadMissingFile(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{}, false)
	buf, ct := multipartUpload(t, map[string]string{"title": "X"}, false)
	req := httptest.NewRequest("POST", "/api/upload", buf)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateContent(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc, false)

	payload := map[string]string{
		"public_id":     "sunrise_classroom/a.pdf",
		"resource_type": "raw",
		"title":         "Renamed",
		"teacher":       "Ms. Rao",
		"className":     "Class 12",
		"subject":       "Biology",
		"description":   "",
		"fileType":      "PDF",
	}
	resp, body := doJSON(t, app, "PUT", "/api/content", payload, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "update", svc.lastOp)
	assert.Equal(t, "sunrise_classroom/a.pdf", svc.lastID)
	assert.Equal(t, "Class 12", svc.lastMet.ClassName)
}

func TestUpdateContentMissingID(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{}, false)
	resp, body := doJSON(t, app, "PUT", "/api/content", map[string]string{"title": "X"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing public_id", body["error"])
}

func TestDeleteContent(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc, false)
	resp, body := doJSON(t, app, "DELETE", "/api/content?public_id=sunrise_classroom%2Fa.pdf&resource_type=raw", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "delete", svc.lastOp)
	assert.Equal(t, "sunrise_classroom/a.pdf", svc.lastID)
}

func TestDeleteContentMissingID(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{}, false)
	resp, body := doJSON(t, app, "DELETE", "/api/content", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing public_id", body["error"])
}

func TestLogin(t *testing.T) {
	app, issuer := newTestApp(t, &fakeService{}, false)

	resp, body := doJSON(t, app, "POST", "/api/login", map[string]string{"id": "sunrise", "password": "password"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	tok, ok := body["token"].(string)
	require.True(t, ok)
	sub, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "sunrise", sub)

	resp, body = doJSON(t, app, "POST", "/api/login", map[string]string{"id": "sunrise", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestMutationsRequireToken(t *testing.T) {
	svc := &fakeService{}
	app, issuer := newTestApp(t, svc, true)

	// Reads stay open.
	resp, _ := doJSON(t, app, "GET", "/api/content", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Mutation without a token is rejected.
	resp, _ = doJSON(t, app, "DELETE", "/api/content?public_id=x", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, svc.lastOp)

	// With a valid token it goes through.
	tok, err := issuer.Issue(auth.TeacherID)
	require.NoError(t, err)
	resp, _ = doJSON(t, app, "DELETE", "/api/content?public_id=x", nil, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delete", svc.lastOp)

	// Garbage token is rejected.
	resp, _ = doJSON(t, app, "DELETE", "/api/content?public_id=x", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateContentInvalidBody(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{}, false)
	req := httptest.NewRequest("PUT", "/api/content", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
