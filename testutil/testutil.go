package testutil

import (
	"context"
	"errors"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/utils"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Logger returns a logger that discards output.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// DB opens a private in-memory SQLite database with every table migrated.
// A single connection serializes transactions the way row locks do on a
// server database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(db, logger.NewNop()); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// RecordingNotifier keeps every email it is asked to send.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []utils.Email
	Err  error
}

func (n *RecordingNotifier) Send(ctx context.Context, email utils.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	return n.Err
}

func (n *RecordingNotifier) Sent() []utils.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]utils.Email, len(n.sent))
	copy(out, n.sent)
	return out
}

// StubRenderer returns URL (or Err) and counts calls.
type StubRenderer struct {
	URL   string
	Err   error
	calls atomic.Int32

	mu   sync.Mutex
	docs []utils.CertificateDocument
}

var ErrRenderFailed = errors.New("render failed")

func (r *StubRenderer) Render(ctx context.Context, doc utils.CertificateDocument) (string, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.docs = append(r.docs, doc)
	r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	return r.URL + doc.Number, nil
}

func (r *StubRenderer) Calls() int { return int(r.calls.Load()) }

func (r *StubRenderer) Docs() []utils.CertificateDocument {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]utils.CertificateDocument, len(r.docs))
	copy(out, r.docs)
	return out
}
