//go:build e2e

// Package e2e drives a running Libretto server over HTTP.
// It requires a started server and a reachable database:
//
//	LIBRETTO_BASE_URL=http://localhost:8080 go test -tags e2e ./tests/e2e
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

type client struct {
	t       *testing.T
	baseURL string
	http    *http.Client
	token   string
}

func newClient(t *testing.T) *client {
	return &client{
		t:       t,
		baseURL: envOrDefault("LIBRETTO_BASE_URL", "http://localhost:8080"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestE2ESmoke(t *testing.T) {
	c := newClient(t)

	// The server must be up before anything else.
	status, _ := c.do(http.MethodGet, "/healthz", nil)
	if status != http.StatusOK {
		t.Fatalf("healthz status = %d; is the server running?", status)
	}

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())

	status, _ = c.do(http.MethodPost, "/signup", map[string]string{
		"email": email, "password": "Abcdef1", "name": "E2E",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d", status)
	}

	status, body := c.do(http.MethodPost, "/login", map[string]string{
		"email": email, "password": "Abcdef1",
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	token, _ := body["authToken"].(string)
	if token == "" {
		t.Fatal("login response missing authToken")
	}
	c.token = token

	status, body = c.do(http.MethodGet, "/verify", nil)
	if status != http.StatusOK || body["loggedIn"] != true {
		t.Fatalf("verify status = %d, body = %v", status, body)
	}

	status, body = c.do(http.MethodPost, "/books", map[string]any{
		"title": "Dune", "author": "Frank Herbert", "pages": 412,
	})
	if status != http.StatusCreated {
		t.Fatalf("create book status = %d", status)
	}
	bookID := int64(body["id"].(float64))

	status, body = c.do(http.MethodPost, "/libraries", map[string]any{"name": "E2E Shelf"})
	if status != http.StatusCreated {
		t.Fatalf("create library status = %d, body = %v", status, body)
	}
	libraryID := int64(body["id"].(float64))

	libraryPath := fmt.Sprintf("/libraries/%d", libraryID)

	status, body = c.do(http.MethodPut, libraryPath, map[string]any{"bookId": bookID})
	if status != http.StatusOK {
		t.Fatalf("add book status = %d, body = %v", status, body)
	}

	// Duplicate membership conflicts.
	status, _ = c.do(http.MethodPut, libraryPath, map[string]any{"bookId": bookID})
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate add status = %d", status)
	}

	status, _ = c.do(http.MethodPut, libraryPath+"/remove-book", map[string]any{"bookId": bookID})
	if status != http.StatusOK {
		t.Fatalf("remove book status = %d", status)
	}

	status, body = c.do(http.MethodPost, "/notes", map[string]any{
		"title": "E2E note", "description": "created by the smoke test",
	})
	if status != http.StatusCreated {
		t.Fatalf("create note status = %d", status)
	}
	noteID := int64(body["id"].(float64))

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/notes/%d", noteID), nil)
	if status != http.StatusOK {
		t.Fatalf("delete note status = %d", status)
	}

	status, body = c.do(http.MethodGet, "/user", nil)
	if status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	if body["email"] != email {
		t.Errorf("profile email = %v, want %s", body["email"], email)
	}
}
