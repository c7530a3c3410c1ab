package repository

import (
	"context"
	"errors"
	"time"

	"github.com/BigDee2008/FAQForge/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFaqRepository handles database operations for FAQ records
type PostgresFaqRepository struct {
	db *pgxpool.Pool
}

// NewPostgresFaqRepository creates a new FAQ repository
func NewPostgresFaqRepository(db *pgxpool.Pool) *PostgresFaqRepository {
	return &PostgresFaqRepository{db: db}
}

// Create inserts a FAQ record; id and created_at come from the database
func (r *PostgresFaqRepository) Create(ctx context.Context, faq *models.FaqRecord) error {
	query := `
		INSERT INTO faqs (
			user_id, business_type, business_description, website_url,
			faq_style, questions, html_code, css_code
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at`

	if faq.Questions == nil {
		faq.Questions = make(models.FaqQuestions, 0)
	}

	return r.db.QueryRow(
		ctx, query,
		faq.UserID,
		faq.BusinessType,
		faq.BusinessDescription,
		faq.WebsiteURL,
		string(faq.FaqStyle),
		faq.Questions,
		faq.HTMLCode,
		faq.CSSCode,
	).Scan(&faq.ID, &faq.CreatedAt)
}

// GetByID retrieves a FAQ record by ID
func (r *PostgresFaqRepository) GetByID(ctx context.Context, id int64) (*models.FaqRecord, error) {
	faq := &models.FaqRecord{}
	query := `
		SELECT id, user_id, business_type, business_description, website_url,
			faq_style, questions, html_code, css_code, created_at
		FROM faqs
		WHERE id = $1`

	var style string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&faq.ID,
		&faq.UserID,
		&faq.BusinessType,
		&faq.BusinessDescription,
		&faq.WebsiteURL,
		&style,
		&faq.Questions,
		&faq.HTMLCode,
		&faq.CSSCode,
		&faq.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	faq.FaqStyle = models.FaqStyle(style)

	return faq, nil
}

// CountByUserSince counts a user's records created in [since, since+QuotaWindow)
func (r *PostgresFaqRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM faqs
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`

	var count int
	err := r.db.QueryRow(ctx, query, userID, since, since.Add(QuotaWindow)).Scan(&count)
	return count, err
}
