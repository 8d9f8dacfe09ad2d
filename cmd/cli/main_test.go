package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	buf := make([]byte, 64*1024)
	n, _ := r.Read(buf)

	return string(buf[:n])
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(map[string]any{"balance": "1250.0000"})
	})

	assert.Contains(t, out, `"balance": "1250.0000"`)
}

func TestGetAndPrint(t *testing.T) {
	var gotPath, gotOwner, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOwner = r.Header.Get("X-Owner-ID")
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"owner_id":"owner-1","balance":"100.0000"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL
	ownerID = "owner-1"
	token = "secret-token"

	out := captureOutput(t, func() {
		getAndPrint("/api/v1/balance")
	})

	assert.Equal(t, "/api/v1/balance", gotPath)
	assert.Equal(t, "owner-1", gotOwner)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Contains(t, out, `"balance": "100.0000"`)
}

func TestPostAndPrint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"balance":"550.0000"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL
	ownerID = "owner-1"
	token = ""

	out := captureOutput(t, func() {
		postAndPrint("/api/v1/balance/recalculate")
	})

	assert.Contains(t, out, `"balance": "550.0000"`)
}
