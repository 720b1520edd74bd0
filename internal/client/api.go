package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sunrise-classroom/content-portal/internal/catalog"
)

const defaultTimeout = 30 * time.Second

// API is the HTTP client for the portal backend. It is safe for
// concurrent use; the bearer token is guarded separately so a login
// on one goroutine is picked up by in-flight callers.
type API struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := a.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// do runs the request and decodes the JSON body into out (when out is
// non-nil). Non-2xx responses are turned into errors carrying the
// server's error message where one is present.
func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, e.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Health pings the backend.
func (a *API) Health(ctx context.Context) error {
	req, err := a.newRequest(ctx, http.MethodGet, "/api/health", nil, "")
	if err != nil {
		return err
	}
	return a.do(req, nil)
}

// FetchContent retrieves the full catalog.
func (a *API) FetchContent(ctx context.Context) ([]catalog.Item, error) {
	req, err := a.newRequest(ctx, http.MethodGet, "/api/content", nil, "")
	if err != nil {
		return nil, err
	}
	var out struct {
		Resources []catalog.Item `json:"resources"`
	}
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// Upload sends a file plus its annotation as multipart form data and
// returns the created item.
func (a *API) Upload(ctx context.Context, filename string, data []byte, meta catalog.Metadata) (*catalog.Item, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"title":       meta.Title,
		"teacher":     meta.Teacher,
		"subject":     meta.Subject,
		"className":   meta.ClassName,
		"description": meta.Description,
		"fileType":    meta.FileType,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := a.newRequest(ctx, http.MethodPost, "/api/upload", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out struct {
		Success  bool         `json:"success"`
		Resource catalog.Item `json:"resource"`
	}
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return &out.Resource, nil
}

// UpdateContent rewrites an item's annotation.
func (a *API) UpdateContent(ctx context.Context, publicID, resourceType string, meta catalog.Metadata) error {
	payload := map[string]string{
		"public_id":     publicID,
		"resource_type": resourceType,
		"title":         meta.Title,
		"teacher":       meta.Teacher,
		"subject":       meta.Subject,
		"className":     meta.ClassName,
		"description":   meta.Description,
		"fileType":      meta.FileType,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := a.newRequest(ctx, http.MethodPut, "/api/content", bytes.NewReader(b), "application/json")
	if err != nil {
		return err
	}
	return a.do(req, nil)
}

// DeleteContent removes an item.
func (a *API) DeleteContent(ctx context.Context, publicID, resourceType string) error {
	q := url.Values{}
	q.Set("public_id", publicID)
	if resourceType != "" {
		q.Set("resource_type", resourceType)
	}
	req, err := a.newRequest(ctx, http.MethodDelete, "/api/content?"+q.Encode(), nil, "")
	if err != nil {
		return err
	}
	return a.do(req, nil)
}

// Login exchanges credentials for a bearer token and installs it on
// the client.
func (a *API) Login(ctx context.Context, id, password string) (string, error) {
	b, err := json.Marshal(map[string]string{"id": id, "password": password})
	if err != nil {
		return "", err
	}
	req, err := a.newRequest(ctx, http.MethodPost, "/api/login", bytes.NewReader(b), "application/json")
	if err != nil {
		return "", err
	}
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := a.do(req, &out); err != nil {
		return "", err
	}
	a.SetToken(out.Token)
	return out.Token, nil
}
