package services

import (
	"context"
	"errors"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"learnhub/utils"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Renderer produces the printable certificate and returns where it can be fetched.
type Renderer interface {
	Render(ctx context.Context, doc utils.CertificateDocument) (string, error)
}

// Notifier delivers transactional email.
type Notifier interface {
	Send(ctx context.Context, email utils.Email) error
}

type IssuerConfig struct {
	// VerifyBaseURL prefixes the public verification link printed on certificates.
	VerifyBaseURL     string
	RenderTimeout     time.Duration
	MaxRenderAttempts int
}

// CertificateIssuer issues at most one certificate per (user, course) once
// the enrollment reaches 100%.
type CertificateIssuer struct {
	store    repositories.Store
	renderer Renderer
	notifier Notifier
	cfg      IssuerConfig
	log      *logger.Logger
	now      func() time.Time

	inflight sync.WaitGroup
}

func NewCertificateIssuer(store repositories.Store, renderer Renderer, notifier Notifier, cfg IssuerConfig, log *logger.Logger) *CertificateIssuer {
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.MaxRenderAttempts <= 0 {
		cfg.MaxRenderAttempts = 5
	}
	cfg.VerifyBaseURL = strings.TrimRight(cfg.VerifyBaseURL, "/")
	return &CertificateIssuer{
		store:    store,
		renderer: renderer,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With("service", "CertificateIssuer"),
		now:      time.Now,
	}
}

// Issue returns the certificate for (userID, courseID), creating it when the
// enrollment is complete. created reports whether this call created it.
func (s *CertificateIssuer) Issue(ctx context.Context, userID, courseID uint) (cert *course.Certificate, created bool, err error) {
	enrollment, err := s.store.Enrollments().Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("not enrolled in course %d: %w", courseID, ErrNotEligible)
		}
		return nil, false, err
	}
	if enrollment.Percentage < 100 {
		return nil, false, fmt.Errorf("course %d is %.2f%% complete: %w", courseID, enrollment.Percentage, ErrNotEligible)
	}

	existing, err := s.store.Certificates().Get(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := s.now()
	cert = &course.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: newCertificateNumber(userID, now),
		IssuedAt:          now,
	}
	created, err = s.store.Certificates().CreateIfAbsent(ctx, cert)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// Lost the race; the winner's row is the certificate.
		winner, err := s.store.Certificates().Get(ctx, userID, courseID)
		if err != nil {
			return nil, false, err
		}
		return winner, false, nil
	}

	s.log.Info("Certificate issued",
		"certificate_id", cert.ID,
		"certificate_number", cert.CertificateNumber,
		"user_id", userID,
		"course_id", courseID,
	)
	s.dispatchRender(cert.ID)
	s.dispatchNotification(cert)
	return cert, true, nil
}

// newCertificateNumber formats LH-<unix millis>-<user id, 6 digits>-<8 hex>.
func newCertificateNumber(userID uint, at time.Time) string {
	return fmt.Sprintf("LH-%d-%06d-%s", at.UnixMilli(), userID%1000000, strings.ToUpper(utils.ShortID(8)))
}

func (s *CertificateIssuer) dispatchRender(certID uint) {
	if s.renderer == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RenderTimeout)
		defer cancel()
		if err := s.Render(ctx, certID); err != nil {
			s.log.Warn("Certificate render failed", "certificate_id", certID, "error", err)
		}
	}()
}

func (s *CertificateIssuer) dispatchNotification(cert *course.Certificate) {
	if s.notifier == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.store.Users().GetByID(ctx, cert.UserID)
		if err != nil {
			s.log.Warn("Certificate email skipped", "user_id", cert.UserID, "error", err)
			return
		}
		c, err := s.store.Courses().GetByID(ctx, cert.CourseID)
		if err != nil {
			s.log.Warn("Certificate email skipped", "course_id", cert.CourseID, "error", err)
			return
		}
		email := utils.CertificateIssuedEmail(user.Email, user.Name, c.Title, cert.CertificateNumber, s.verifyURL(cert.CertificateNumber))
		if err := s.notifier.Send(ctx, email); err != nil {
			s.log.Warn("Certificate email failed", "user_id", cert.UserID, "error", err)
		}
	}()
}

func (s *CertificateIssuer) verifyURL(number string) string {
	return s.cfg.VerifyBaseURL + "/verify-certificate/" + number
}

// Render produces the document for a certificate and attaches its URL. A
// failure is recorded on the certificate and never revokes it.
func (s *CertificateIssuer) Render(ctx context.Context, certID uint) error {
	if s.renderer == nil {
		return nil
	}
	cert, err := s.store.Certificates().GetByID(ctx, certID)
	if err != nil {
		return notFound(err, "certificate")
	}
	user, err := s.store.Users().GetByID(ctx, cert.UserID)
	if err != nil {
		return notFound(err, "user")
	}

	doc := utils.CertificateDocument{
		Number:      cert.CertificateNumber,
		StudentName: user.Name,
		IssuedAt:    cert.IssuedAt,
		VerifyURL:   s.verifyURL(cert.CertificateNumber),
	}
	if cert.Course != nil {
		doc.CourseTitle = cert.Course.Title
		if instructor, err := s.store.Users().GetByID(ctx, cert.Course.InstructorID); err == nil {
			doc.InstructorName = instructor.Name
		}
	}

	url, err := s.renderer.Render(ctx, doc)
	if err != nil {
		if recErr := s.store.Certificates().RecordRenderFailure(ctx, certID, err.Error()); recErr != nil {
			s.log.Error("Recording render failure failed", "certificate_id", certID, "error", recErr)
		}
		return err
	}
	return s.AttachDocument(ctx, certID, url)
}

// AttachDocument stores the rendered document location on the certificate.
func (s *CertificateIssuer) AttachDocument(ctx context.Context, certID uint, url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("empty document url: %w", ErrInvalidInput)
	}
	if err := s.store.Certificates().AttachDocument(ctx, certID, url, s.now()); err != nil {
		return notFound(err, "certificate")
	}
	s.log.Info("Certificate document attached", "certificate_id", certID, "document_url", url)
	return nil
}

// RetryPendingRenders renders certificates that still lack a document. It
// returns how many were rendered successfully.
func (s *CertificateIssuer) RetryPendingRenders(ctx context.Context) (int, error) {
	if s.renderer == nil {
		return 0, nil
	}
	pending, err := s.store.Certificates().ListPendingRender(ctx, s.cfg.MaxRenderAttempts, 50)
	if err != nil {
		return 0, err
	}
	rendered := 0
	for _, cert := range pending {
		if ctx.Err() != nil {
			return rendered, ctx.Err()
		}
		renderCtx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
		err := s.Render(renderCtx, cert.ID)
		cancel()
		if err != nil {
			s.log.Warn("Certificate render retry failed", "certificate_id", cert.ID, "error", err)
			continue
		}
		rendered++
	}
	return rendered, nil
}

// Wait blocks until every dispatched render and notification has finished.
func (s *CertificateIssuer) Wait() {
	s.inflight.Wait()
}

// Verify looks a certificate up by its public number.
func (s *CertificateIssuer) Verify(ctx context.Context, number string) (*course.Certificate, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("certificate number required: %w", ErrInvalidInput)
	}
	cert, err := s.store.Certificates().GetByNumber(ctx, number)
	if err != nil {
		return nil, notFound(err, "certificate")
	}
	return cert, nil
}

func (s *CertificateIssuer) ListForUser(ctx context.Context, userID uint) ([]course.Certificate, error) {
	return s.store.Certificates().ListByUser(ctx, userID)
}

// GetForUser returns a certificate owned by userID.
func (s *CertificateIssuer) GetForUser(ctx context.Context, userID, certID uint) (*course.Certificate, error) {
	cert, err := s.store.Certificates().GetByID(ctx, certID)
	if err != nil {
		return nil, notFound(err, "certificate")
	}
	if cert.UserID != userID {
		return nil, fmt.Errorf("certificate %d: %w", certID, ErrNotAuthorized)
	}
	return cert, nil
}
