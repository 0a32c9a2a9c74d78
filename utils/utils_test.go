package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"learnhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Intro to Go!":           "intro-to-go",
		"  Data   Science 101  ": "data-science-101",
		"C++ & Rust":             "c-rust",
		"Café Über":              "caf-ber",
		"!!!":                    "course",
		"":                       "course",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}

	long := Slugify(strings.Repeat("ab ", 100))
	assert.LessOrEqual(t, len(long), 120)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestShortID(t *testing.T) {
	id := ShortID(8)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, ShortID(8))
	assert.Len(t, ShortID(0), 32)
}

func TestSaveFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveFile(dir, "a.txt", []byte("hello"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = SaveFile(dir, "../escape.txt", []byte("x"))
	assert.Error(t, err)
	_, err = SaveFile(dir, "", []byte("x"))
	assert.Error(t, err)

	assert.Equal(t, "https://cdn.example.com/certificates/a.png", GetFileURL("https://cdn.example.com/", "/certificates/", "a.png"))
	assert.Empty(t, GetFileURL("https://cdn.example.com", "certificates", ""))
}

func testDocument() CertificateDocument {
	return CertificateDocument{
		Number:         "LH-1700000000000-000042-ABCDEF12",
		StudentName:    "Ada Lovelace",
		CourseTitle:    "Analytical Engines and the Art of Programming",
		InstructorName: "Charles Babbage",
		IssuedAt:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		VerifyURL:      "https://learnhub.example.com/verify-certificate/LH-1700000000000-000042-ABCDEF12",
	}
}

func TestLocalRendererDraw(t *testing.T) {
	r, err := NewLocalRenderer(t.TempDir(), "http://localhost:3000", "", logger.NewNop())
	require.NoError(t, err)

	out, err := r.Draw(testDocument())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, certWidth, img.Bounds().Dx())
	assert.Equal(t, certHeight, img.Bounds().Dy())
}

func TestLocalRendererRender(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLocalRenderer(dir, "http://localhost:3000/", "", logger.NewNop())
	require.NoError(t, err)

	doc := testDocument()
	url, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/certificates/certificate-"+doc.Number+".png", url)
	assert.FileExists(t, filepath.Join(dir, "certificate-"+doc.Number+".png"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalRendererErrors(t *testing.T) {
	_, err := NewLocalRenderer("", "", "", logger.NewNop())
	assert.Error(t, err)
	_, err = NewLocalRenderer(t.TempDir(), "", filepath.Join(t.TempDir(), "missing.ttf"), logger.NewNop())
	assert.Error(t, err)
}

func TestHTTPRenderer(t *testing.T) {
	var got CertificateDocument
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://files.example.com/` + got.Number + `.pdf"}`))
	}))
	defer srv.Close()

	r, err := NewHTTPRenderer(srv.URL, 5*time.Second, logger.NewNop())
	require.NoError(t, err)

	doc := testDocument()
	url, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/"+doc.Number+".pdf", url)
	assert.Equal(t, doc.StudentName, got.StudentName)
}

func TestHTTPRendererFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/empty" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad template"}`))
	}))
	defer srv.Close()

	r, err := NewHTTPRenderer(srv.URL+"/fail", 5*time.Second, logger.NewNop())
	require.NoError(t, err)
	_, err = r.Render(context.Background(), testDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad template")

	r, err = NewHTTPRenderer(srv.URL+"/empty", 5*time.Second, logger.NewNop())
	require.NoError(t, err)
	_, err = r.Render(context.Background(), testDocument())
	assert.Error(t, err)

	_, err = NewHTTPRenderer(" ", time.Second, logger.NewNop())
	assert.Error(t, err)
}

func TestInitializeSchedulers(t *testing.T) {
	log := logger.NewNop()

	_, err := InitializeSchedulers([]Job{{Name: "bad", Spec: "not a spec", Run: func(context.Context) error { return nil }}}, log)
	assert.Error(t, err)

	var runs atomic.Int32
	c, err := InitializeSchedulers([]Job{
		{Name: "tick", Spec: "@every 50ms", Run: func(context.Context) error { runs.Add(1); return nil }},
		{Name: "off", Spec: "", Run: func(context.Context) error { t.Error("disabled job ran"); return nil }},
	}, log)
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestEmailTemplatesEscapeInput(t *testing.T) {
	e := CertificateIssuedEmail("ada@example.com", "<Ada>", "Go & You", "LH-1-000001-ABCDEF12", "https://x/verify-certificate/LH-1-000001-ABCDEF12")
	assert.Equal(t, "ada@example.com", e.ToEmail)
	assert.Contains(t, e.HTML, "&lt;Ada&gt;")
	assert.Contains(t, e.HTML, "Go &amp; You")
	assert.Contains(t, e.HTML, "LH-1-000001-ABCDEF12")
	assert.NotContains(t, e.HTML, "<Ada>")
	assert.Contains(t, e.Text, "LH-1-000001-ABCDEF12")

	for _, msg := range []Email{
		WelcomeEmail("a@example.com", "A"),
		EnrollmentEmail("a@example.com", "A", "Course"),
		LoginNotificationEmail("a@example.com", "A", "10.0.0.1", "curl", "now"),
	} {
		assert.NotEmpty(t, msg.Subject)
		assert.Contains(t, msg.HTML, "LEARNHUB")
		assert.Equal(t, "a@example.com", msg.ToEmail)
	}
}

func TestNotifierConstructors(t *testing.T) {
	_, err := NewSendgridNotifier("", "from@example.com", "LearnHub", logger.NewNop())
	assert.Error(t, err)
	_, err = NewSendgridNotifier("key", "", "LearnHub", logger.NewNop())
	assert.Error(t, err)

	n, err := NewSendgridNotifier("key", "from@example.com", "LearnHub", logger.NewNop())
	require.NoError(t, err)
	assert.Error(t, n.Send(context.Background(), Email{Subject: "no recipient"}))

	assert.NoError(t, NewLogNotifier(logger.NewNop()).Send(context.Background(), WelcomeEmail("a@example.com", "A")))
}
