// Package client is an HTTP client for the filevault API.
//
// Requests to protected routes carry the cached access token. When the
// server answers 401 the client refreshes the session once through the
// refresh cookie and repeats the request; a failed refresh drops the token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"filevault/internal/dto"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
)

const refreshCookieName = "refreshToken"

var ErrUnauthorized = errors.New("unauthorized")

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Details []UploadError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type UploadError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type UploadResult struct {
	Message string             `json:"message"`
	Files   []dto.FileResponse `json:"files"`
	Errors  []UploadError      `json:"errors"`
}

// Session is the part of the client state worth persisting between runs.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name    string
	Content io.Reader
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}

	c := &Client{baseURL: u, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// Session returns the current access token and refresh cookie.
func (c *Client) Session() Session {
	s := Session{AccessToken: c.token()}
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == refreshCookieName {
			s.RefreshToken = cookie.Value
		}
	}
	return s
}

// Restore loads a previously saved session into the client.
func (c *Client) Restore(s Session) {
	c.setToken(s.AccessToken)
	if s.RefreshToken != "" {
		c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
			Name:  refreshCookieName,
			Value: s.RefreshToken,
			Path:  "/",
		}})
	}
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*dto.UserResponse, error) {
	return c.startSession(ctx, "/api/auth/register", dto.RegisterRequest{Name: name, Email: email, Password: password})
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	return c.startSession(ctx, "/api/auth/login", dto.LoginRequest{Email: email, Password: password})
}

func (c *Client) startSession(ctx context.Context, path string, body any) (*dto.UserResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, path, payload, "application/json", false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res dto.SessionResponse
	if err := decode(resp, &res); err != nil {
		return nil, err
	}

	c.setToken(res.Data.AccessToken)

	return &res.Data.User, nil
}

// Refresh exchanges the refresh cookie for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, "", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var res dto.RefreshResponse
	if err := decode(resp, &res); err != nil {
		return err
	}

	c.setToken(res.Data.AccessToken)

	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil, "", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.setToken("")

	return decode(resp, &dto.StatusResponse{})
}

func (c *Client) ListFiles(ctx context.Context, limit int) ([]dto.FileResponse, error) {
	path := "/api/files"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil, "", true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res dto.FileListResponse
	if err := decode(resp, &res); err != nil {
		return nil, err
	}

	return res.Files, nil
}

// Upload sends files as one multipart batch. A partially failed batch is
// not an error: the failures are listed in the result.
func (c *Client) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/files/upload", buf.Bytes(), mw.FormDataContentType(), true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res UploadResult
	if err := decode(resp, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// Download writes the file content to w and returns the name the server suggests.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id), nil, "", true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decode(resp, nil)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", err
	}

	name := id
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return name, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.send(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, "", true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, &dto.StatusResponse{})
}

// send performs the request. Authed requests answered with 401 are retried
// exactly once after a successful refresh.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string, authed bool) (*http.Response, error) {
	resp, err := c.do(ctx, method, path, body, contentType, authed)
	if err != nil || !authed || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if err := c.Refresh(ctx); err != nil {
		c.setToken("")
		return resp, nil
	}
	resp.Body.Close()

	return c.do(ctx, method, path, body, contentType, authed)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, authed bool) (*http.Response, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); authed && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.accessToken
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = token
}

// decode reads a success body into v or turns a failure envelope into *APIError.
func decode(resp *http.Response, v any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if v == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var envelope struct {
		Error  string        `json:"error"`
		Errors []UploadError `json:"errors"`
	}
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
		apiErr.Details = envelope.Errors
	}

	return apiErr
}
