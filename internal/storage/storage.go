package storage

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// User is a back-office account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore persists back-office accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserRole(ctx context.Context, userID, role string, updatedAt time.Time) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error
	DeleteUser(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int, error)
	CountUsersByRole(ctx context.Context, role string) (int, error)
	LookupRole(ctx context.Context, userID string) (string, error)
}

// Asset is a tracked bill or recurring expense.
type Asset struct {
	ID          string
	Name        string
	Category    string
	AmountCents int64
	Currency    string
	// DueDate is zero when the asset has no due date.
	DueDate   time.Time
	Paid      bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overdue reports whether the asset is unpaid past its due date.
func (a Asset) Overdue(now time.Time) bool {
	if a.Paid || a.DueDate.IsZero() {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return a.DueDate.Before(today)
}

// AssetFilter narrows ListAssets.
type AssetFilter struct {
	UnpaidOnly bool
	Category   string
}

// AssetSummary aggregates unpaid bills.
type AssetSummary struct {
	UnpaidCount      int
	OverdueCount     int
	UnpaidByCurrency map[string]int64
}

// AssetStore persists bills.
type AssetStore interface {
	CreateAsset(ctx context.Context, a Asset) error
	GetAsset(ctx context.Context, assetID string) (Asset, error)
	ListAssets(ctx context.Context, filter AssetFilter) ([]Asset, error)
	SetAssetPaid(ctx context.Context, assetID string, paid bool, updatedAt time.Time) error
	DeleteAsset(ctx context.Context, assetID string) error
	SummarizeAssets(ctx context.Context, now time.Time) (AssetSummary, error)
}

// FeedbackStatus is the triage state of a feedback entry.
type FeedbackStatus string

const (
	FeedbackNew      FeedbackStatus = "new"
	FeedbackResolved FeedbackStatus = "resolved"
	FeedbackArchived FeedbackStatus = "archived"
)

// FeedbackStatuses lists the triage states in display order.
var FeedbackStatuses = []FeedbackStatus{FeedbackNew, FeedbackResolved, FeedbackArchived}

// ParseFeedbackStatus validates a status name.
func ParseFeedbackStatus(raw string) (FeedbackStatus, error) {
	status := FeedbackStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case FeedbackNew, FeedbackResolved, FeedbackArchived:
		return status, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidArgument, "feedback status is not recognised",
		map[string]string{"Status": raw})
}

// Feedback is a message left by a site visitor.
type Feedback struct {
	ID        string
	Email     string
	Message   string
	Rating    int
	Page      string
	Locale    string
	Status    FeedbackStatus
	CreatedAt time.Time
}

const (
	maxFeedbackMessage = 2000
	maxFeedbackRating  = 5
)

// ValidateFeedback checks message length and rating range.
func ValidateFeedback(f Feedback) error {
	message := strings.TrimSpace(f.Message)
	if message == "" || len([]rune(message)) > maxFeedbackMessage {
		return apperrors.New(apperrors.CodeFeedbackMessageInvalid, "feedback message must be 1-2000 characters")
	}
	if f.Rating < 0 || f.Rating > maxFeedbackRating {
		return apperrors.New(apperrors.CodeFeedbackRatingInvalid, "feedback rating must be between 0 and 5")
	}
	return nil
}

// FeedbackStore persists visitor feedback.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f Feedback) error
	ListFeedback(ctx context.Context, status FeedbackStatus) ([]Feedback, error)
	SetFeedbackStatus(ctx context.Context, feedbackID string, status FeedbackStatus) error
	DeleteFeedback(ctx context.Context, feedbackID string) error
	CountFeedbackByStatus(ctx context.Context) (map[FeedbackStatus]int, error)
}

// SEOEntry holds the metadata rendered into a page head.
type SEOEntry struct {
	Path        string
	Title       string
	Description string
	Keywords    string
	OGImage     string
	UpdatedAt   time.Time
}

// NormalizeSEOPath validates a page path and strips a trailing slash.
func NormalizeSEOPath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.ContainsAny(path, " ?#") {
		return "", apperrors.WithMetadata(apperrors.CodeSEOPathInvalid, "path must start with /",
			map[string]string{"Path": raw})
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, nil
}

// SEOStore persists page metadata keyed by path.
type SEOStore interface {
	UpsertSEO(ctx context.Context, entry SEOEntry) error
	GetSEO(ctx context.Context, path string) (SEOEntry, error)
	ListSEO(ctx context.Context) ([]SEOEntry, error)
	DeleteSEO(ctx context.Context, path string) error
}

// EmailCampaign records one bulk email send.
type EmailCampaign struct {
	ID           string
	Subject      string
	BodyMarkdown string
	Audience     string
	Recipients   int
	Sent         int
	Failed       int
	CreatedBy    string
	CreatedAt    time.Time
}

// CampaignStore persists the bulk email history.
type CampaignStore interface {
	CreateCampaign(ctx context.Context, c EmailCampaign) error
	ListCampaigns(ctx context.Context, limit int) ([]EmailCampaign, error)
}

// UserSession is a login audit record.
type UserSession struct {
	SessionID string
	UserID    string
	CreatedAt time.Time
}

// SessionStore records back-office logins.
type SessionStore interface {
	PutUserSession(ctx context.Context, sessionID, userID string, createdAt time.Time) error
	ListUserSessions(ctx context.Context, limit int) ([]UserSession, error)
}

// Store is the full relational store.
type Store interface {
	UserStore
	AssetStore
	FeedbackStore
	SEOStore
	CampaignStore
	SessionStore
	Close() error
}
