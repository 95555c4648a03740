package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/emergencyassist/backend/internal/api/handlers"
)

func writeClient(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "js", "app.js"), []byte("console.log(1)"), 0o644))
	return root
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.Health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Server is running"}`, w.Body.String())
}

func TestStaticHandler(t *testing.T) {
	handler := handlers.NewStaticHandler(writeClient(t))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"root", "/", "<html>app</html>"},
		{"asset", "/js/app.js", "console.log(1)"},
		{"index by name", "/index.html", "<html>app</html>"},
		{"client route", "/emergency/sos", "<html>app</html>"},
		{"directory", "/js", "<html>app</html>"},
		{"traversal", "/../../etc/passwd", "<html>app</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestStaticHandler_MissingIndex(t *testing.T) {
	handler := handlers.NewStaticHandler(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Not found.", body["error"])
}
