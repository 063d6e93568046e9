package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/relayroom/relayroom/internal/core"
)

// Client performs request/response calls against the auth and room
// endpoints. It holds no state beyond the base origin; the last directory
// snapshot lives with the session controller.
type Client struct {
	origin string
	http   *http.Client
	log    *zerolog.Logger
}

// New builds a client for the given API origin, e.g. http://localhost:8002.
func New(origin string, logger *zerolog.Logger) *Client {
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		http:   &http.Client{},
		log:    logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Register creates a new account. Any rejection, a taken username
// included, stops the caller's login flow.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(registerRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("marshal register request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/register", "application/json", "", bytes.NewReader(body))
	if err != nil {
		return core.NewChatError(core.ErrCodeAuth, "registration failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return failure(resp, core.ErrCodeAuth, "registration failed")
	}
	return nil
}

// Login exchanges credentials for a bearer token. The endpoint takes a
// form-encoded body, unlike the rest of the API.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", "", strings.NewReader(form.Encode()))
	if err != nil {
		return "", core.NewChatError(core.ErrCodeAuth, "login failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", failure(resp, core.ErrCodeAuth, "login failed")
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", core.NewChatError(core.ErrCodeAuth, "malformed login response", err)
	}
	if out.AccessToken == "" {
		return "", core.NewChatError(core.ErrCodeAuth, "login response missing access token", nil)
	}
	return out.AccessToken, nil
}

// ListRooms fetches the full directory. The result replaces any local
// snapshot wholesale.
func (c *Client) ListRooms(ctx context.Context, token string) ([]core.Room, error) {
	resp, err := c.do(ctx, http.MethodGet, "/rooms/", "", token, nil)
	if err != nil {
		return nil, core.NewChatError(core.ErrCodeDirectory, "list rooms failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, failure(resp, core.ErrCodeDirectory, "list rooms failed")
	}

	var rooms []core.Room
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return nil, core.NewChatError(core.ErrCodeDirectory, "malformed room list", err)
	}
	return rooms, nil
}

// CreateRoom creates a room. Blank names are rejected before any call is
// made.
func (c *Client) CreateRoom(ctx context.Context, token, name string) (core.Room, error) {
	if strings.TrimSpace(name) == "" {
		return core.Room{}, core.ErrBlankName
	}

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return core.Room{}, fmt.Errorf("marshal create room request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/rooms/", "application/json", token, bytes.NewReader(body))
	if err != nil {
		return core.Room{}, core.NewChatError(core.ErrCodeDirectory, "create room failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return core.Room{}, failure(resp, core.ErrCodeDirectory, "create room failed")
	}

	var room core.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return core.Room{}, core.NewChatError(core.ErrCodeDirectory, "malformed room response", err)
	}
	return room, nil
}

// DeleteRoom deletes a room by id.
func (c *Client) DeleteRoom(ctx context.Context, token, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(id), "", token, nil)
	if err != nil {
		return core.NewChatError(core.ErrCodeDirectory, "delete room failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return failure(resp, core.ErrCodeDirectory, "delete room failed")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.origin+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return nil, err
	}
	return resp, nil
}

// failure turns a non-2xx response into a coded error carrying the
// server-provided detail, with a generic fallback when the body has none.
func failure(resp *http.Response, code, fallback string) *core.ChatError {
	msg := fallback
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var er errorResponse
		if jsonErr := json.Unmarshal(data, &er); jsonErr == nil && er.Detail != "" {
			msg = er.Detail
		}
	}
	return core.NewChatError(code, msg, nil)
}
