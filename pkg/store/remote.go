package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/notekeep/notekeep/internal/utils"
	"github.com/notekeep/notekeep/pkg/notes"
)

// Remote routes every operation to the notes service at URL. Requests
// carry a cookie jar so session cookies set by the service are included
// on subsequent calls. Failures are never retried; a non-2xx response
// surfaces as a PersistenceError with the service's status code.
type Remote struct {
	URL    string
	client *http.Client
}

// NewRemote creates a client for the service at url. The url is expected
// to already be trimmed of trailing slashes.
func NewRemote(url string) *Remote {
	jar, _ := cookiejar.New(nil) // cannot fail with nil options
	return &Remote{
		URL:    url,
		client: &http.Client{Jar: jar},
	}
}

func (r *Remote) List(ctx context.Context) ([]*notes.Note, error) {
	resp, err := r.invoke(ctx, http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp, "failed to list notes")
	if err != nil {
		return nil, err
	}

	return notes.NormalizeList(respBytes)
}

func (r *Remote) Get(ctx context.Context, id string) (*notes.Note, error) {
	resp, err := r.invoke(ctx, http.MethodGet, notePath(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp, "failed to get note")
	if err != nil {
		return nil, err
	}

	return notes.Normalize(respBytes)
}

func (r *Remote) Create(ctx context.Context, patch notes.Patch) (*notes.Note, error) {
	resp, err := r.invoke(ctx, http.MethodPost, "/notes", patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp, "failed to create note")
	if err != nil {
		return nil, err
	}

	return notes.Normalize(respBytes)
}

func (r *Remote) Update(ctx context.Context, id string, patch notes.Patch) (*notes.Note, error) {
	resp, err := r.invoke(ctx, http.MethodPut, notePath(id), patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := validateResponse(resp, "failed to update note")
	if err != nil {
		return nil, err
	}

	return notes.Normalize(respBytes)
}

// Delete treats any 2xx as success and does not require a body.
func (r *Remote) Delete(ctx context.Context, id string) error {
	resp, err := r.invoke(ctx, http.MethodDelete, notePath(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = validateResponse(resp, "failed to delete note")
	return err
}

// Private functions

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func (r *Remote) invoke(ctx context.Context, method string, path string, payload any) (*http.Response, error) {
	requestUrl, err := url.JoinPath(r.URL, path)
	if err != nil {
		return nil, fmt.Errorf("error building URL path: %w", err)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error JSON-encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, body)
	if err != nil {
		return nil, fmt.Errorf("error building API request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error invoking API: %w", err)
	}
	return resp, nil
}

func validateResponse(resp *http.Response, failure string) ([]byte, error) {
	respBytes, err := utils.ReadToEnd(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &PersistenceError{Message: failure, Status: resp.StatusCode}
	}

	return respBytes, nil
}
