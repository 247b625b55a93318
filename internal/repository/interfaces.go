package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/elijahbrown/collabhub/internal/models"
)

// CollaboratorRepository is the storage contract shared by the Postgres
// backend and the in-memory backend.
//
// Lookup methods return (nil, nil) when the record is absent — "not found"
// is a normal outcome, not an error. The only sentinel error a caller needs
// to branch on is ErrSlugTaken from Create, which the storage layer raises
// from its own uniqueness constraint (there is deliberately no separate
// check-then-insert; the constraint IS the conflict signal).
type CollaboratorRepository interface {
	List(ctx context.Context) ([]models.Collaborator, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error)

	// GetBySlug resolves the URL path segment a hub lives under.
	GetBySlug(ctx context.Context, slug string) (*models.Collaborator, error)

	// GetBySubdomain resolves the alternate addressing scheme.
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Collaborator, error)

	// Create persists a fully built record, meetings included.
	// Returns ErrSlugTaken when the slug (or subdomain) is already in use.
	Create(ctx context.Context, c *models.Collaborator) (*models.Collaborator, error)

	// Update shallow-merges the patch and refreshes UpdatedAt.
	Update(ctx context.Context, id uuid.UUID, patch CollaboratorPatch) (*models.Collaborator, error)

	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// AddMeeting appends to the collaborator's meeting list and returns the
	// updated record.
	AddMeeting(ctx context.Context, id uuid.UUID, m models.MeetingRef) (*models.Collaborator, error)

	// RemoveMeeting deletes one meeting by id. An unknown meeting id is a
	// no-op success — the collaborator comes back unchanged.
	RemoveMeeting(ctx context.Context, id uuid.UUID, meetingID uuid.UUID) (*models.Collaborator, error)

	// ActiveGateEntries returns the snapshot rows for the access gate:
	// active collaborators only, recomputed on every call.
	ActiveGateEntries(ctx context.Context) ([]models.GateEntry, error)
}

// CollaboratorPatch is a partial update. Nil fields are left untouched;
// UpdatedAt is refreshed regardless.
type CollaboratorPatch struct {
	Name               *string
	Email              *string
	PasswordHash       *string
	Subdomain          *string
	ProjectName        *string
	ProjectDescription *string
	Status             *models.Status
	CustomContent      *[]models.ContentSection
	Notifications      *models.NotificationPreferences
}
