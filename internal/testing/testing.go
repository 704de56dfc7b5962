// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/JavierDomi/spotify-explorer/internal/shared"
)

// FailingWriter rejects every write.
type FailingWriter struct{}

func (FailingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter forwards the first n writes to its target, then fails.
type LimitedWriter struct {
	remaining int
	target    io.Writer
}

func NewLimitedWriter(n int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{remaining: n, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, errors.New("write limit exceeded")
	}
	l.remaining--
	return l.target.Write(p)
}

// RoundTripFunc adapts a function to [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// StaticTransport answers every request with resp, or fails with err.
func StaticTransport(resp *http.Response, err error) RoundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return resp, err
	}
}

// JSONResponse builds a catalog-style JSON response.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FailingBody is a response body whose reads always fail.
type FailingBody struct{}

func (FailingBody) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (FailingBody) Close() error             { return nil }

// OpenTestDB returns a migrated in-memory favorites database, closed on cleanup.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
