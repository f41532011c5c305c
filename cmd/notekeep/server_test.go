package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeep/notekeep/pkg/notes"
	"github.com/notekeep/notekeep/pkg/store"
)

func newTestApp(t *testing.T) (*testApp, *store.Local) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	local, err := store.NewLocal(filepath.Join(t.TempDir(), "notes.sqlite"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return &testApp{newServerApp(local)}, local
}

// testApp adds a JSON request helper around fiber's in-process tester.
type testApp struct {
	app *fiber.App
}

func (f *testApp) do(t *testing.T, method string, path string, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeNote(t *testing.T, resp *http.Response) *notes.Note {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var n notes.Note
	require.NoError(t, json.Unmarshal(data, &n))
	return &n
}

func TestServerRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	// create
	resp := app.do(t, http.MethodPost, "/notes", `{"title":"Groceries"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeNote(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Groceries", created.Title)

	// get
	resp = app.do(t, http.MethodGet, "/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeNote(t, resp)
	assert.Equal(t, created.ID, got.ID)

	// update
	resp = app.do(t, http.MethodPut, "/notes/"+created.ID, `{"content":"milk"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeNote(t, resp)
	assert.Equal(t, "Groceries", updated.Title)
	assert.Equal(t, "milk", updated.Content)

	// list
	resp = app.do(t, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var list []*notes.Note
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)

	// delete
	resp = app.do(t, http.MethodDelete, "/notes/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerUnknownIDIs404(t *testing.T) {
	app, _ := newTestApp(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		body := ""
		if method == http.MethodPut {
			body = `{"title":"x"}`
		}
		resp := app.do(t, method, "/notes/n_missing", body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s on unknown id", method)
	}
}

func TestServerBadJSONIs400(t *testing.T) {
	app, local := newTestApp(t)

	resp := app.do(t, http.MethodPost, "/notes", `{broken`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	created, err := local.Create(context.Background(), notes.Patch{})
	require.NoError(t, err)
	resp = app.do(t, http.MethodPut, "/notes/"+created.ID, `{broken`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
