package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"photoshare/pkg/cache"
)

// ErrorFunc receives the user-facing message of every failed backend call.
type ErrorFunc func(ctx context.Context, message string)

type Config struct {
	// BaseURL is the backend address including the versioned prefix,
	// e.g. http://localhost:8000/api/v1.
	BaseURL    string
	Token      TokenFunc
	OnError    ErrorFunc
	HTTPClient *http.Client
	Cache      cache.Store
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// Backend is the set of calls services make against the PhotoShare API.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, query url.Values, body, out any) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
	Multipart(ctx context.Context, method, path string, query url.Values, fields map[string]string, files []File, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Client talks to the PhotoShare backend. It is built once and shared by
// all handlers.
type Client struct {
	baseURL  string
	token    TokenFunc
	onError  ErrorFunc
	client   *http.Client
	cache    cache.Store
	cacheTTL time.Duration
	logger   *slog.Logger
}

// File is an upload sent as one part of a multipart body.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

func New(cfg Config) *Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 60 * time.Second}
	}
	hc := *base
	hc.Transport = &Transport{Base: base.Transport, Token: cfg.Token}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		onError:  cfg.OnError,
		client:   &hc,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodDelete, path, nil, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, query, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.send(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

// Multipart sends fields and files as multipart/form-data with the given method.
func (c *Client) Multipart(ctx context.Context, method, path string, query url.Values, fields map[string]string, files []File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range files {
		part, err := createFilePart(mw, f)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return fmt.Errorf("copy part %s: %w", f.Field, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	return c.send(ctx, method, path, query, &buf, mw.FormDataContentType(), out)
}

func createFilePart(mw *multipart.Writer, f File) (io.Writer, error) {
	if f.ContentType == "" {
		return mw.CreateFormFile(f.Field, f.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Name)))
	h.Set("Content-Type", f.ContentType)
	return mw.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	reqURL := c.url(path, query)

	scope, signedIn := c.scope(ctx)

	// Anonymous GETs such as email confirmation have side effects and are
	// never served from the cache.
	cacheKey := ""
	if method == http.MethodGet && signedIn && c.cacheEnabled() {
		cacheKey = scope + reqURL
		data, ok, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			c.logger.Warn("cache get", "error", err)
		} else if ok {
			return decode(data, out)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("backend request", "method", method, "path", path, "error", err)
		c.fail(ctx, "")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.fail(ctx, "")
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: detailOf(data)}
		c.logger.Warn("backend request failed", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		c.fail(ctx, apiErr.Detail)
		return apiErr
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, data, c.cacheTTL); err != nil {
			c.logger.Warn("cache set", "error", err)
		}
	} else if method != http.MethodGet && signedIn && c.cacheEnabled() {
		if err := c.cache.DeletePrefix(ctx, scope); err != nil {
			c.logger.Warn("cache invalidate", "error", err)
		}
	}

	return decode(data, out)
}

func (c *Client) fail(ctx context.Context, detail string) {
	if c.onError != nil {
		c.onError(ctx, messageOf(detail))
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) cacheEnabled() bool {
	return c.cache != nil && c.cacheTTL > 0
}

// scope keeps cached responses of different sessions apart. ok is false
// when the call carries no session.
func (c *Client) scope(ctx context.Context) (prefix string, ok bool) {
	token := ""
	if c.token != nil {
		token = c.token(ctx)
	}
	if token == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8]) + ":", true
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
