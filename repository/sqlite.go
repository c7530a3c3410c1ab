package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BigDee2008/FAQForge/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS faqs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    business_type TEXT NOT NULL,
    business_description TEXT NOT NULL,
    website_url TEXT,
    faq_style TEXT NOT NULL DEFAULT 'accordion',
    questions TEXT NOT NULL DEFAULT '[]',
    html_code TEXT NOT NULL,
    css_code TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_faqs_user_created ON faqs (user_id, created_at);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
);`

// SQLiteStore is a single-file durable Store.
// created_at is stored as unix nanoseconds so window comparisons stay numeric.
type SQLiteStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		path = "./data/faqforge.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		now:    time.Now,
		logger: logger.With("component", "sqlite"),
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock overrides the clock used for created_at
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SQLiteStore) Faqs() FaqRepository   { return sqliteFaqs{s} }
func (s *SQLiteStore) Users() UserRepository { return sqliteUsers{s} }

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	s.logger.Debug("sqlite schema applied")
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteFaqs struct{ s *SQLiteStore }

func (r sqliteFaqs) Create(ctx context.Context, faq *models.FaqRecord) error {
	if faq.Questions == nil {
		faq.Questions = make(models.FaqQuestions, 0)
	}
	createdAt := r.s.now()

	res, err := r.s.db.ExecContext(ctx, `
		INSERT INTO faqs (
			user_id, business_type, business_description, website_url,
			faq_style, questions, html_code, css_code, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		faq.UserID,
		faq.BusinessType,
		faq.BusinessDescription,
		nullString(faq.WebsiteURL),
		string(faq.FaqStyle),
		faq.Questions,
		faq.HTMLCode,
		faq.CSSCode,
		createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert faq: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read faq id: %w", err)
	}
	faq.ID = id
	faq.CreatedAt = createdAt
	return nil
}

func (r sqliteFaqs) GetByID(ctx context.Context, id int64) (*models.FaqRecord, error) {
	faq := &models.FaqRecord{}
	var (
		style     string
		website   sql.NullString
		createdAt int64
	)
	err := r.s.db.QueryRowContext(ctx, `
		SELECT id, user_id, business_type, business_description, website_url,
			faq_style, questions, html_code, css_code, created_at
		FROM faqs
		WHERE id = ?`, id).Scan(
		&faq.ID,
		&faq.UserID,
		&faq.BusinessType,
		&faq.BusinessDescription,
		&website,
		&style,
		&faq.Questions,
		&faq.HTMLCode,
		&faq.CSSCode,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	faq.FaqStyle = models.FaqStyle(style)
	if website.Valid {
		faq.WebsiteURL = &website.String
	}
	faq.CreatedAt = time.Unix(0, createdAt)
	return faq, nil
}

func (r sqliteFaqs) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM faqs
		WHERE user_id = ? AND created_at >= ? AND created_at < ?`,
		userID, since.UnixNano(), since.Add(QuotaWindow).UnixNano(),
	).Scan(&count)
	return count, err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

type sqliteUsers struct{ s *SQLiteStore }

func (r sqliteUsers) Create(ctx context.Context, user *models.UserRecord) error {
	res, err := r.s.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		user.Username, user.Password,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r sqliteUsers) GetByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	return r.getOne(ctx, `SELECT id, username, password FROM users WHERE id = ?`, id)
}

func (r sqliteUsers) GetByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	return r.getOne(ctx, `SELECT id, username, password FROM users WHERE username = ?`, username)
}

func (r sqliteUsers) getOne(ctx context.Context, query string, arg interface{}) (*models.UserRecord, error) {
	user := &models.UserRecord{}
	err := r.s.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
