// Package store provides the read-side persistence collaborators the mentor
// tools consume: user profiles, job applications and pre-generated analysis
// reports. The chat core depends only on the interfaces; a SQLite
// implementation backs them in the server binary.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound marks an absent row. Tools translate it into a describable
// "nothing found" text rather than an error.
var ErrNotFound = errors.New("store: not found")

// Profile is a user's career profile.
type Profile struct {
	ID                   string
	FullName             string
	Email                string
	EducationLevel       string
	PreferredCareerTrack string
	Skills               []string
}

// Application is one job application joined with its job's details.
type Application struct {
	ID        string
	JobTitle  string
	Company   string
	JobType   string
	Location  string
	AppliedAt time.Time
}

// Report is a pre-generated analysis document for a user.
type Report struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// ProfileStore retrieves user profiles.
type ProfileStore interface {
	// GetProfile returns the profile for userID or ErrNotFound.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// ApplicationStore retrieves a user's job applications.
type ApplicationStore interface {
	// ListApplications returns the user's applications joined with job
	// details, newest first. No applications is an empty slice, not an error.
	ListApplications(ctx context.Context, userID string) ([]Application, error)
}

// ReportStore retrieves the most recent pre-generated reports.
type ReportStore interface {
	// LatestSkillGapReport returns the newest skill-gap analysis for the
	// user or ErrNotFound when none has been generated yet.
	LatestSkillGapReport(ctx context.Context, userID string) (*Report, error)

	// LatestCareerRoadmap returns the newest career roadmap for the user
	// or ErrNotFound when none has been generated yet.
	LatestCareerRoadmap(ctx context.Context, userID string) (*Report, error)
}
