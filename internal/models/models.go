package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a collaborator. Only active
// collaborators are exposed to the access gate; inactive and pending
// records stay visible through the management API.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Collaborator is a tenant record: an external party granted a
// password-gated content hub under /<slug> (or a dedicated subdomain).
//
// PasswordHash is a bcrypt hash and is never serialized. The plaintext
// credential exists only in the create/update request and in the welcome
// email generated while it is in hand.
type Collaborator struct {
	ID                 uuid.UUID               `json:"id"`
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Slug               string                  `json:"slug"`
	PasswordHash       string                  `json:"-"`
	Subdomain          string                  `json:"subdomain,omitempty"`
	ProjectName        string                  `json:"project_name"`
	ProjectDescription string                  `json:"project_description,omitempty"`
	Status             Status                  `json:"status"`
	Meetings           []MeetingRef            `json:"fathom_meetings"`
	CustomContent      []ContentSection        `json:"custom_content,omitempty"`
	Notifications      NotificationPreferences `json:"notification_preferences"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// MeetingRef points at an externally hosted recording — title plus share
// URL, not the recording itself. Ordered by insertion within a collaborator.
type MeetingRef struct {
	ID         uuid.UUID  `json:"id"`
	ShareURL   string     `json:"share_url"`
	Title      string     `json:"title"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	AddedAt    time.Time  `json:"added_at"`
}

// ContentSection is one free-form section rendered on the hub page.
type ContentSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationPreferences are advisory flags. AddMeeting consults
// EmailOnNewMeeting before sending a notification; nothing else reads them.
type NotificationPreferences struct {
	EmailOnNewMeeting bool `json:"email_on_new_meeting"`
	EmailOnUpdate     bool `json:"email_on_update"`
}

// GateEntry is one row of the access-gate snapshot: everything the
// middleware needs to gate an area, derived from an active collaborator.
type GateEntry struct {
	Slug         string `json:"slug"`
	Subdomain    string `json:"subdomain,omitempty"`
	PasswordHash string `json:"password_hash"`
	CookieName   string `json:"cookie_name"`
	LoginPath    string `json:"login_path"`
}

// GateEntryFor builds the snapshot row for a collaborator.
func GateEntryFor(c *Collaborator) GateEntry {
	return GateEntry{
		Slug:         c.Slug,
		Subdomain:    c.Subdomain,
		PasswordHash: c.PasswordHash,
		CookieName:   c.Slug + "-auth",
		LoginPath:    "/" + c.Slug + "/login",
	}
}
