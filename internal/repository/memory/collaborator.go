// Package memory is the development and test backend: the same repository
// contract as the Postgres store, held in a process-local map. State is
// lost on restart — production runs on Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/repository"
)

// CollaboratorStore guards every operation with one mutex, so the
// create-time uniqueness check and the insert are a single critical
// section — two concurrent creates with the same slug cannot both pass.
type CollaboratorStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.Collaborator
}

func NewCollaboratorStore() *CollaboratorStore {
	return &CollaboratorStore{
		records: make(map[uuid.UUID]*models.Collaborator),
	}
}

// clone returns a deep copy so callers never alias store-owned state.
func clone(c *models.Collaborator) *models.Collaborator {
	out := *c
	out.Meetings = append([]models.MeetingRef(nil), c.Meetings...)
	out.CustomContent = append([]models.ContentSection(nil), c.CustomContent...)
	return &out
}

func (s *CollaboratorStore) List(ctx context.Context) ([]models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Collaborator, 0, len(s.records))
	for _, c := range s.records {
		out = append(out, *clone(c))
	}
	return out, nil
}

func (s *CollaboratorStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

func (s *CollaboratorStore) GetBySlug(ctx context.Context, slug string) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBySlugLocked(slug), nil
}

func (s *CollaboratorStore) findBySlugLocked(slug string) *models.Collaborator {
	for _, c := range s.records {
		if c.Slug == slug {
			return clone(c)
		}
	}
	return nil
}

func (s *CollaboratorStore) GetBySubdomain(ctx context.Context, subdomain string) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subdomain == "" {
		return nil, nil
	}
	for _, c := range s.records {
		if c.Subdomain == subdomain {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (s *CollaboratorStore) Create(ctx context.Context, c *models.Collaborator) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Slug == c.Slug {
			return nil, repository.ErrSlugTaken
		}
		if c.Subdomain != "" && existing.Subdomain == c.Subdomain {
			return nil, repository.ErrSlugTaken
		}
	}

	s.records[c.ID] = clone(c)
	return clone(c), nil
}

func (s *CollaboratorStore) Update(ctx context.Context, id uuid.UUID, patch repository.CollaboratorPatch) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[id]
	if !ok {
		return nil, nil
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		c.PasswordHash = *patch.PasswordHash
	}
	if patch.Subdomain != nil {
		c.Subdomain = *patch.Subdomain
	}
	if patch.ProjectName != nil {
		c.ProjectName = *patch.ProjectName
	}
	if patch.ProjectDescription != nil {
		c.ProjectDescription = *patch.ProjectDescription
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.CustomContent != nil {
		c.CustomContent = append([]models.ContentSection(nil), *patch.CustomContent...)
	}
	if patch.Notifications != nil {
		c.Notifications = *patch.Notifications
	}
	c.UpdatedAt = time.Now().UTC()

	return clone(c), nil
}

func (s *CollaboratorStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *CollaboratorStore) AddMeeting(ctx context.Context, id uuid.UUID, m models.MeetingRef) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	c.Meetings = append(c.Meetings, m)
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (s *CollaboratorStore) RemoveMeeting(ctx context.Context, id uuid.UUID, meetingID uuid.UUID) (*models.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[id]
	if !ok {
		return nil, nil
	}

	// Filtering out an id that isn't there leaves the list unchanged —
	// removal is a no-op success in that case.
	kept := c.Meetings[:0]
	for _, m := range c.Meetings {
		if m.ID != meetingID {
			kept = append(kept, m)
		}
	}
	c.Meetings = kept
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (s *CollaboratorStore) ActiveGateEntries(ctx context.Context) ([]models.GateEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.GateEntry, 0)
	for _, c := range s.records {
		if c.Status != models.StatusActive {
			continue
		}
		entries = append(entries, models.GateEntryFor(c))
	}
	return entries, nil
}
