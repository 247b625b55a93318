// Package service is the single seam handlers depend on: it composes the
// repository, the generator, and the mailer behind one API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elijahbrown/collabhub/internal/generate"
	"github.com/elijahbrown/collabhub/internal/mail"
	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/repository"
)

type CollaboratorService struct {
	repo    repository.CollaboratorRepository
	mailer  mail.Mailer
	baseURL string
	logger  *zap.Logger
}

func NewCollaboratorService(
	repo repository.CollaboratorRepository,
	mailer mail.Mailer,
	baseURL string,
	logger *zap.Logger,
) *CollaboratorService {
	if baseURL == "" {
		baseURL = generate.DefaultBaseURL
	}
	return &CollaboratorService{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger,
	}
}

// CreateInput carries everything needed to onboard a collaborator.
// Field-presence and slug-pattern validation happen at the API boundary;
// the service assumes the shape is sound and owns the semantics.
type CreateInput struct {
	Name               string
	Email              string
	Slug               string
	Password           string
	ProjectName        string
	Subdomain          string
	ProjectDescription string
	FathomShareURLs    []string
	GenerateEmail      bool
}

// UpdateInput is a partial update; nil fields are untouched. A non-nil
// Password is re-hashed before storage.
type UpdateInput struct {
	Name               *string
	Email              *string
	Password           *string
	Subdomain          *string
	ProjectName        *string
	ProjectDescription *string
	Status             *models.Status
	CustomContent      *[]models.ContentSection
	Notifications      *models.NotificationPreferences
}

// AddMeetingInput references an externally hosted recording.
type AddMeetingInput struct {
	ShareURL         string
	Title            string
	RecordedAt       *time.Time
	SendNotification bool
}

// CreateCollaborator hashes the credential, builds the full record
// (active status, notification flags all on, meetings seeded one per
// supplied share URL), and persists it. The storage layer's uniqueness
// constraint is the conflict check — ErrSlugTaken on a duplicate slug or
// subdomain. When input.GenerateEmail is set the welcome email is returned
// and, if the collaborator has an address, delivered.
func (s *CollaboratorService) CreateCollaborator(ctx context.Context, input CreateInput) (*models.Collaborator, *generate.Email, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	c := &models.Collaborator{
		ID:                 uuid.New(),
		Name:               input.Name,
		Email:              input.Email,
		Slug:               input.Slug,
		PasswordHash:       string(hash),
		Subdomain:          input.Subdomain,
		ProjectName:        input.ProjectName,
		ProjectDescription: input.ProjectDescription,
		Status:             models.StatusActive,
		Meetings:           make([]models.MeetingRef, 0, len(input.FathomShareURLs)),
		Notifications: models.NotificationPreferences{
			EmailOnNewMeeting: true,
			EmailOnUpdate:     true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, shareURL := range input.FathomShareURLs {
		c.Meetings = append(c.Meetings, models.MeetingRef{
			ID:       uuid.New(),
			ShareURL: shareURL,
			Title:    fmt.Sprintf("Meeting Notes #%d", i+1),
			AddedAt:  now,
		})
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, nil, ErrSlugTaken
		}
		return nil, nil, err
	}

	var welcome *generate.Email
	if input.GenerateEmail {
		email, err := generate.WelcomeEmail(created, input.Password, s.baseURL)
		if err != nil {
			return nil, nil, err
		}
		welcome = &email
		s.deliver(created, email)
	}

	s.logger.Info("collaborator created",
		zap.String("slug", created.Slug),
		zap.String("id", created.ID.String()),
	)
	return created, welcome, nil
}

func (s *CollaboratorService) UpdateCollaborator(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Collaborator, error) {
	patch := repository.CollaboratorPatch{
		Name:               input.Name,
		Email:              input.Email,
		Subdomain:          input.Subdomain,
		ProjectName:        input.ProjectName,
		ProjectDescription: input.ProjectDescription,
		Status:             input.Status,
		CustomContent:      input.CustomContent,
		Notifications:      input.Notifications,
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		patch.PasswordHash = &hashStr
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *CollaboratorService) DeleteCollaborator(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("collaborator deleted", zap.String("id", id.String()))
	return nil
}

// AddMeeting appends a meeting reference. When input.SendNotification is
// set and the collaborator's email_on_new_meeting preference is on, the
// notification email is generated, returned, and delivered best-effort.
func (s *CollaboratorService) AddMeeting(ctx context.Context, idOrSlug string, input AddMeetingInput) (*models.Collaborator, *generate.Email, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return nil, nil, err
	}

	m := models.MeetingRef{
		ID:         uuid.New(),
		ShareURL:   input.ShareURL,
		Title:      input.Title,
		RecordedAt: input.RecordedAt,
		AddedAt:    time.Now().UTC(),
	}

	updated, err := s.repo.AddMeeting(ctx, c.ID, m)
	if err != nil {
		return nil, nil, err
	}
	if updated == nil {
		return nil, nil, ErrNotFound
	}

	var notification *generate.Email
	if input.SendNotification && updated.Notifications.EmailOnNewMeeting {
		email, err := generate.MeetingEmail(updated, input.Title, input.ShareURL, s.baseURL)
		if err != nil {
			return nil, nil, err
		}
		notification = &email
		s.deliver(updated, email)
	}
	return updated, notification, nil
}

func (s *CollaboratorService) RemoveMeeting(ctx context.Context, idOrSlug string, meetingID uuid.UUID) (*models.Collaborator, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.RemoveMeeting(ctx, c.ID, meetingID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// GetCollaborator resolves id-or-slug: UUID lookup first, slug fallback.
// Callers must not assume which match succeeded.
func (s *CollaboratorService) GetCollaborator(ctx context.Context, idOrSlug string) (*models.Collaborator, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}

	c, err := s.repo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// CollaboratorBySubdomain resolves a subdomain-addressed hub's record,
// for requests identified by Host rather than path.
func (s *CollaboratorService) CollaboratorBySubdomain(ctx context.Context, subdomain string) (*models.Collaborator, error) {
	if subdomain == "" {
		return nil, ErrNotFound
	}
	c, err := s.repo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CollaboratorService) ListCollaborators(ctx context.Context) ([]models.Collaborator, error) {
	return s.repo.List(ctx)
}

// VerifyPassword compares a candidate against the stored bcrypt hash.
// Unknown slug and wrong password are indistinguishable to the caller.
func (s *CollaboratorService) VerifyPassword(ctx context.Context, slug, password string) bool {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("password verification lookup failed",
			zap.String("slug", slug), zap.Error(err))
		return false
	}
	if c == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// GateEntries exposes the snapshot rows for the access gate: active
// collaborators only, straight from the repository.
func (s *CollaboratorService) GateEntries(ctx context.Context) ([]models.GateEntry, error) {
	return s.repo.ActiveGateEntries(ctx)
}

// WelcomeEmail regenerates the onboarding email. The plaintext password
// must be supplied — only the hash is stored.
func (s *CollaboratorService) WelcomeEmail(ctx context.Context, idOrSlug, password, baseURL string) (*generate.Email, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = s.baseURL
	}
	email, err := generate.WelcomeEmail(c, password, baseURL)
	if err != nil {
		return nil, err
	}
	return &email, nil
}

func (s *CollaboratorService) MeetingEmail(ctx context.Context, idOrSlug, title, shareURL string) (*generate.Email, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	email, err := generate.MeetingEmail(c, title, shareURL, s.baseURL)
	if err != nil {
		return nil, err
	}
	return &email, nil
}

// PageFor renders the hub page for a collaborator.
func (s *CollaboratorService) PageFor(ctx context.Context, idOrSlug string) (string, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return "", err
	}
	return generate.RenderPage(c, s.baseURL)
}

// LoginPageFor renders the password form for a collaborator's area.
func (s *CollaboratorService) LoginPageFor(ctx context.Context, idOrSlug, redirect string) (string, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return "", err
	}
	return generate.RenderLoginPage(c, redirect)
}

// HostLoginPageFor renders the password form for a subdomain-addressed
// area; the form posts to the host-root login route.
func (s *CollaboratorService) HostLoginPageFor(ctx context.Context, subdomain, redirect string) (string, error) {
	c, err := s.CollaboratorBySubdomain(ctx, subdomain)
	if err != nil {
		return "", err
	}
	return generate.RenderHostLoginPage(c, redirect)
}

// PageConfigFor returns the structured page artifact without rendering it.
func (s *CollaboratorService) PageConfigFor(ctx context.Context, idOrSlug string) (*generate.PageConfig, error) {
	c, err := s.GetCollaborator(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	cfg := generate.PageConfigFor(c, s.baseURL)
	return &cfg, nil
}

// deliver sends best-effort: a failed send never fails the calling flow.
func (s *CollaboratorService) deliver(c *models.Collaborator, email generate.Email) {
	if c.Email == "" || s.mailer == nil {
		return
	}
	if err := s.mailer.Send(c.Email, email); err != nil {
		s.logger.Error("email delivery failed",
			zap.String("slug", c.Slug),
			zap.String("subject", email.Subject),
			zap.Error(err),
		)
	}
}
