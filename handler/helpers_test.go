package handler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tony-montemuro/webserver/message"
)

// newPublicDir lays out a content root with the pages the handlers expect.
func newPublicDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newStore(t *testing.T, files map[string]string) *ContentStore {
	t.Helper()
	return NewContentStore(newPublicDir(t, files), false, zerolog.Nop())
}

func get(t *testing.T, target string, headers ...string) *message.Request {
	t.Helper()

	raw := "GET " + target + " HTTP/1.1\r\n"
	for _, h := range headers {
		raw += h + "\r\n"
	}
	raw += "\r\n"

	req, err := message.ParseRequest([]byte(raw))
	require.NoError(t, err)
	return req
}

// cached reports whether name is held in the store cache.
func (s *ContentStore) cached(name string) bool {
	full, ok := s.resolve(name)
	if !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, hit := s.files[full]
	return hit
}
