package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"learnhub/logger"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-resty/resty/v2"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// CertificateDocument is everything printed on a certificate.
type CertificateDocument struct {
	Number         string    `json:"certificate_number"`
	StudentName    string    `json:"student_name"`
	CourseTitle    string    `json:"course_title"`
	InstructorName string    `json:"instructor_name"`
	IssuedAt       time.Time `json:"issued_at"`
	VerifyURL      string    `json:"verify_url"`
}

const (
	certWidth  = 1754
	certHeight = 1240
)

// CertificateMount is the static path certificates are served under.
const CertificateMount = "certificates"

// LocalRenderer draws certificates as PNG files into a directory served statically.
type LocalRenderer struct {
	dir     string
	baseURL string
	regular *truetype.Font
	bold    *truetype.Font
	log     *logger.Logger
}

// NewLocalRenderer uses fontPath for all text when set, otherwise the Go fonts.
func NewLocalRenderer(dir, baseURL, fontPath string, log *logger.Logger) (*LocalRenderer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("certificate directory required")
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	if fontPath != "" {
		custom, err := loadFont(fontPath)
		if err != nil {
			return nil, err
		}
		regular, bold = custom, custom
	}
	return &LocalRenderer{
		dir:     dir,
		baseURL: baseURL,
		regular: regular,
		bold:    bold,
		log:     log.With("renderer", "LocalRenderer"),
	}, nil
}

func loadFont(fontPath string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return parsed, nil
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

func (r *LocalRenderer) Render(ctx context.Context, doc CertificateDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	png, err := r.Draw(doc)
	if err != nil {
		return "", err
	}
	name := "certificate-" + doc.Number + ".png"
	if _, err := SaveFile(r.dir, name, png); err != nil {
		return "", fmt.Errorf("save certificate: %w", err)
	}
	r.log.Debug("Certificate rendered", "certificate_number", doc.Number, "bytes", len(png))
	return GetFileURL(r.baseURL, CertificateMount, name), nil
}

// Draw returns the certificate as PNG bytes.
func (r *LocalRenderer) Draw(doc CertificateDocument) ([]byte, error) {
	const w, h = float64(certWidth), float64(certHeight)
	navy := color.RGBA{R: 0x1E, G: 0x2A, B: 0x78, A: 0xFF}
	accent := color.RGBA{R: 0xF2, G: 0xA5, B: 0x41, A: 0xFF}

	dc := gg.NewContext(certWidth, certHeight)
	dc.SetColor(color.White)
	dc.Clear()

	// Border
	dc.SetColor(navy)
	dc.SetLineWidth(12)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetColor(accent)
	dc.SetLineWidth(3)
	dc.DrawRectangle(70, 70, w-140, h-140)
	dc.Stroke()

	dc.SetColor(navy)
	dc.SetFontFace(face(r.bold, 84))
	dc.DrawStringAnchored("Certificate of Completion", w/2, 230, 0.5, 0.5)

	dc.SetFontFace(face(r.regular, 34))
	dc.DrawStringAnchored("This is to certify that", w/2, 360, 0.5, 0.5)

	dc.SetFontFace(face(r.bold, 68))
	dc.DrawStringAnchored(doc.StudentName, w/2, 460, 0.5, 0.5)

	dc.SetFontFace(face(r.regular, 34))
	dc.DrawStringAnchored("has successfully completed the course", w/2, 560, 0.5, 0.5)

	dc.SetFontFace(face(r.bold, 52))
	dc.DrawStringWrapped(doc.CourseTitle, w/2, 640, 0.5, 0, w-400, 1.3, gg.AlignCenter)

	dc.SetFontFace(face(r.regular, 28))
	dc.DrawStringAnchored("Issued on: "+doc.IssuedAt.Format("January 2, 2006"), w/2, 820, 0.5, 0.5)
	dc.SetFontFace(face(r.regular, 22))
	dc.DrawStringAnchored("Certificate No: "+doc.Number, w/2, 870, 0.5, 0.5)

	// Signature line
	dc.SetLineWidth(2)
	dc.DrawLine(200, h-220, 600, h-220)
	dc.Stroke()
	dc.SetFontFace(face(r.regular, 24))
	dc.DrawStringAnchored(doc.InstructorName, 400, h-250, 0.5, 0.5)
	dc.DrawStringAnchored("Instructor Signature", 400, h-190, 0.5, 0.5)

	// Verification link in place of a QR code
	dc.SetFontFace(face(r.regular, 20))
	dc.DrawStringAnchored("Verify at", w-400, h-250, 0.5, 0.5)
	dc.DrawStringAnchored(doc.VerifyURL, w-400, h-215, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// HTTPRenderer delegates rendering to an external service that answers
// {"url": "..."} for a posted CertificateDocument.
type HTTPRenderer struct {
	client   *resty.Client
	endpoint string
	log      *logger.Logger
}

func NewHTTPRenderer(endpoint string, timeout time.Duration, log *logger.Logger) (*HTTPRenderer, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("renderer url required")
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &HTTPRenderer{client: client, endpoint: endpoint, log: log.With("renderer", "HTTPRenderer")}, nil
}

type renderResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func (r *HTTPRenderer) Render(ctx context.Context, doc CertificateDocument) (string, error) {
	var out renderResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(doc).
		SetResult(&out).
		SetError(&out).
		Post(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("renderer request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("renderer http %d: %s", resp.StatusCode(), out.Error)
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", errors.New("renderer returned no url")
	}
	r.log.Debug("Certificate rendered remotely", "certificate_number", doc.Number, "status", resp.StatusCode())
	return out.URL, nil
}
