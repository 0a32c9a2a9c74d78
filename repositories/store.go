package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories behind one handle. Repositories obtained from
// the Store passed to a Transaction callback run inside that transaction.
type Store interface {
	Users() UserRepo
	LoginHistory() LoginTrackingRepo
	Courses() CourseRepo
	Lessons() LessonRepo
	Enrollments() EnrollmentRepo
	Progress() ProgressRepo
	Certificates() CertificateRepo
	Quizzes() QuizRepo
	Reviews() ReviewRepo
	Notes() NoteRepo

	// Transaction runs fn in a single database transaction. A nested call
	// joins the outer transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepo                 { return &userRepo{db: s.db} }
func (s *gormStore) LoginHistory() LoginTrackingRepo { return &loginTrackingRepo{db: s.db} }
func (s *gormStore) Courses() CourseRepo             { return &courseRepo{db: s.db} }
func (s *gormStore) Lessons() LessonRepo             { return &lessonRepo{db: s.db} }
func (s *gormStore) Enrollments() EnrollmentRepo     { return &enrollmentRepo{db: s.db} }
func (s *gormStore) Progress() ProgressRepo          { return &progressRepo{db: s.db} }
func (s *gormStore) Certificates() CertificateRepo   { return &certificateRepo{db: s.db} }
func (s *gormStore) Quizzes() QuizRepo               { return &quizRepo{db: s.db} }
func (s *gormStore) Reviews() ReviewRepo             { return &reviewRepo{db: s.db} }
func (s *gormStore) Notes() NoteRepo                 { return &noteRepo{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
}

// Page is a 1-based page request. Zero values fall back to page 1, 10 per page.
type Page struct {
	Page  int
	Limit int
}

const maxPageSize = 100

func (p Page) normalize() (offset, limit int) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}
