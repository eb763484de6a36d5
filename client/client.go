// Package client is the Go consumer of the notes API: an HTTP client, a
// session state container mirroring the single-page app's store, and the
// guard that gates authenticated views on locally cached credentials.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"memopad/models"
)

// APIError is any non-2xx response, carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the REST API. Token, when set, is attached as a bearer
// credential to every request.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.Token, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*models.Note, error) {
	var out struct {
		Data models.Note `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/api/notes", map[string]string{
		"title":   title,
		"content": content,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListNotes(ctx context.Context, page, pageSize int) ([]models.Note, models.Pagination, error) {
	var out struct {
		Data struct {
			Notes      []models.Note     `json:"notes"`
			Pagination models.Pagination `json:"pagination"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/api/notes?page=%d&pageSize=%d", page, pageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, models.Pagination{}, err
	}
	return out.Data.Notes, out.Data.Pagination, nil
}

func (c *Client) GetNote(ctx context.Context, id int) (*models.NoteContent, error) {
	var out struct {
		Data models.NoteContent `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int, title, content string) (*models.Note, error) {
	var out struct {
		Data models.Note `json:"data"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d", id), map[string]string{
		"title":   title,
		"content": content,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil, nil)
}

func (c *Client) BulkDeleteNotes(ctx context.Context, ids []int) error {
	return c.do(ctx, http.MethodPut, "/api/notes/bulk-delete", map[string]any{"ids": ids}, nil)
}

func (c *Client) ToggleArchive(ctx context.Context, id int, archived bool) (*models.Note, error) {
	var out struct {
		Data models.Note `json:"data"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/notes/archive/%d", id), map[string]bool{
		"archived": archived,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}
