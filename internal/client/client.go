// Package client talks to the remote admin API. Every request is sent once;
// nothing here retries or sets a timeout beyond the transport defaults.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// RequestOptions describes one call. Headers are applied after the default
// Authorization and Content-Type headers, so a caller header with the same
// name replaces the default.
type RequestOptions struct {
	Method  string
	Body    interface{}
	Headers http.Header
}

// Request sends opts to endpoint (relative to the base path) and decodes a
// successful JSON body into out, which may be nil.
func (c *Client) Request(ctx context.Context, token, endpoint string, opts RequestOptions, out interface{}) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(endpoint), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	for name, values := range opts.Headers {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("API request failed")
		return &core.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return core.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return core.ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &core.RequestError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// readDetail extracts the string "detail" field of an error body. FastAPI
// validation errors carry a list there; those fall back to the generic message.
func readDetail(r io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func (c *Client) Login(ctx context.Context, username, password string) (*core.LoginResponse, error) {
	var out core.LoginResponse
	err := c.Request(ctx, "", "login", RequestOptions{
		Method: http.MethodPost,
		Body:   core.LoginRequest{Username: username, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListQueries(ctx context.Context, token string) ([]core.QuerySummary, error) {
	var out core.QueryList
	if err := c.Request(ctx, token, "queries", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out.Queries, nil
}

func (c *Client) GetQuery(ctx context.Context, token, name string) (*core.QueryDetail, error) {
	var out core.QueryDetail
	if err := c.Request(ctx, token, "queries/"+url.PathEscape(name), RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDefaultQuery(ctx context.Context, token, name string) (*core.DefaultQuery, error) {
	var out core.DefaultQuery
	if err := c.Request(ctx, token, "queries/"+url.PathEscape(name)+"/default", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveQuery(ctx context.Context, token string, req core.SaveQueryRequest) (*core.Ack, error) {
	return c.ack(ctx, token, "queries", http.MethodPost, req)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]core.UserAccount, error) {
	var out []core.UserAccount
	if err := c.Request(ctx, token, "users", RequestOptions{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, req core.CreateUserRequest) (*core.Ack, error) {
	return c.ack(ctx, token, "users", http.MethodPost, req)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req core.UpdateUserRequest) (*core.Ack, error) {
	return c.ack(ctx, token, fmt.Sprintf("users/%d", id), http.MethodPut, req)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) (*core.Ack, error) {
	return c.ack(ctx, token, fmt.Sprintf("users/%d", id), http.MethodDelete, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token string, req core.ChangePasswordRequest) (*core.Ack, error) {
	return c.ack(ctx, token, "change-password", http.MethodPost, req)
}

func (c *Client) ack(ctx context.Context, token, endpoint, method string, body interface{}) (*core.Ack, error) {
	var out core.Ack
	if err := c.Request(ctx, token, endpoint, RequestOptions{Method: method, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ core.AdminAPI = (*Client)(nil)
