package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const domainSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                     TEXT PRIMARY KEY,
	full_name              TEXT NOT NULL,
	email                  TEXT NOT NULL UNIQUE,
	education_level        TEXT NOT NULL,
	preferred_career_track TEXT NOT NULL,
	skills                 TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	company      TEXT NOT NULL,
	job_type     TEXT NOT NULL,
	job_location TEXT
);
CREATE TABLE IF NOT EXISTS application_list (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users (id),
	job_id     TEXT NOT NULL REFERENCES jobs (id),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, job_id)
);
CREATE TABLE IF NOT EXISTS skill_gap_analysis_report (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users (id),
	report     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS career_roadmap_report (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users (id),
	report     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements ProfileStore, ApplicationStore and ReportStore on
// one embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the domain
// schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite at %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(domainSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLite wraps an existing database handle with the schema already applied.
func NewSQLite(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// GetProfile implements ProfileStore.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	var skills string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, education_level, preferred_career_track, skills
		 FROM users WHERE id = ?`, userID).
		Scan(&p.ID, &p.FullName, &p.Email, &p.EducationLevel, &p.PreferredCareerTrack, &skills)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get profile %q: %w", userID, err)
	}
	if skills != "" {
		p.Skills = strings.Split(skills, ",")
	}
	return &p, nil
}

// ListApplications implements ApplicationStore.
func (s *SQLiteStore) ListApplications(ctx context.Context, userID string) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, j.title, j.company, j.job_type, COALESCE(j.job_location, ''), a.created_at
		 FROM application_list a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = ?
		 ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list applications for %q: %w", userID, err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobTitle, &a.Company, &a.JobType, &a.Location, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("store: scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate applications: %w", err)
	}
	return apps, nil
}

// LatestSkillGapReport implements ReportStore.
func (s *SQLiteStore) LatestSkillGapReport(ctx context.Context, userID string) (*Report, error) {
	return s.latestReport(ctx, "skill_gap_analysis_report", userID)
}

// LatestCareerRoadmap implements ReportStore.
func (s *SQLiteStore) LatestCareerRoadmap(ctx context.Context, userID string) (*Report, error) {
	return s.latestReport(ctx, "career_roadmap_report", userID)
}

func (s *SQLiteStore) latestReport(ctx context.Context, table, userID string) (*Report, error) {
	var r Report
	// table is one of two compile-time constants, never caller input.
	query := fmt.Sprintf(
		`SELECT id, user_id, report, created_at FROM %s
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`, table)
	err := s.db.QueryRowContext(ctx, query, userID).
		Scan(&r.ID, &r.UserID, &r.Content, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: latest %s for %q: %w", table, userID, err)
	}
	return &r, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
