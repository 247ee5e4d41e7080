// Package testutil provides shared test helpers: temporary stores and
// databases, captured loggers and in-memory fakes for the downloader and
// the record sink.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/sink"
	"github.com/starford/guru-sync/internal/storage"
)

// TestDB creates a temporary SQLite sink that is automatically cleaned up.
func TestDB(t *testing.T) *sink.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "guru-sync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := sink.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary directory with a storage.Provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a debug-level text logger writing into the returned buffer.
func Logger(t *testing.T) (*slog.Logger, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// SafeBuffer is a bytes.Buffer guarded for concurrent writers.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// DownloadCall records one request made to a FakeDownloader.
type DownloadCall struct {
	URL    string
	Header http.Header
}

// FakeDownloader serves canned files by URL. Unknown URLs fail.
type FakeDownloader struct {
	mu    sync.Mutex
	Files map[string]*models.RemoteFile
	Calls []DownloadCall
}

// NewFakeDownloader creates a FakeDownloader serving files.
func NewFakeDownloader(files map[string]*models.RemoteFile) *FakeDownloader {
	if files == nil {
		files = map[string]*models.RemoteFile{}
	}
	return &FakeDownloader{Files: files}
}

// Download implements attachment.Downloader.
func (d *FakeDownloader) Download(_ context.Context, rawURL string, header http.Header) (*models.RemoteFile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, DownloadCall{URL: rawURL, Header: header.Clone()})
	f, ok := d.Files[rawURL]
	if !ok {
		return nil, fmt.Errorf("download %s: 404 Not Found", rawURL)
	}
	return f, nil
}

// MemorySink keeps emitted records in order.
type MemorySink struct {
	mu      sync.Mutex
	Records []sink.Record
}

// Emit implements sink.Sink.
func (s *MemorySink) Emit(_ context.Context, rec sink.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, rec)
	return nil
}

// Kind returns the emitted records of one kind.
func (s *MemorySink) Kind(kind string) []sink.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sink.Record
	for _, r := range s.Records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
