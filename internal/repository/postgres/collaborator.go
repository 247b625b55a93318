package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/repository"
)

// CollaboratorStore is the durable backend. Slug and subdomain uniqueness
// lives in the schema (unique indexes), so there is no check-then-insert
// window: concurrent creates with the same slug race at the index and the
// loser gets ErrSlugTaken.
type CollaboratorStore struct {
	pool *pgxpool.Pool
}

func NewCollaboratorStore(pool *pgxpool.Pool) *CollaboratorStore {
	return &CollaboratorStore{pool: pool}
}

const collaboratorColumns = `id, name, email, slug, password_hash, subdomain,
	project_name, project_description, status, custom_content,
	notification_preferences, created_at, updated_at`

// row abstracts pgx.Row / pgx.Rows for the shared scan helper.
type row interface {
	Scan(dest ...any) error
}

func scanCollaborator(r row) (*models.Collaborator, error) {
	var c models.Collaborator
	var statusStr string
	err := r.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Slug,
		&c.PasswordHash,
		&c.Subdomain,
		&c.ProjectName,
		&c.ProjectDescription,
		&statusStr,
		&c.CustomContent,
		&c.Notifications,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.Status(statusStr)
	return &c, nil
}

// loadMeetings fills in the collaborator's meeting list, insertion order.
func (s *CollaboratorStore) loadMeetings(ctx context.Context, c *models.Collaborator) error {
	query := `
		SELECT id, share_url, title, recorded_at, added_at
		FROM meetings
		WHERE collaborator_id = $1
		ORDER BY added_at, id`

	rows, err := s.pool.Query(ctx, query, c.ID)
	if err != nil {
		return fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	c.Meetings = make([]models.MeetingRef, 0)
	for rows.Next() {
		var m models.MeetingRef
		if err := rows.Scan(&m.ID, &m.ShareURL, &m.Title, &m.RecordedAt, &m.AddedAt); err != nil {
			return fmt.Errorf("scan meeting: %w", err)
		}
		c.Meetings = append(c.Meetings, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate meetings: %w", err)
	}
	return nil
}

func (s *CollaboratorStore) getBy(ctx context.Context, where string, arg any) (*models.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE ` + where

	c, err := scanCollaborator(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collaborator: %w", err)
	}
	if err := s.loadMeetings(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollaboratorStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	return s.getBy(ctx, "id = $1", id)
}

func (s *CollaboratorStore) GetBySlug(ctx context.Context, slug string) (*models.Collaborator, error) {
	return s.getBy(ctx, "slug = $1", slug)
}

func (s *CollaboratorStore) GetBySubdomain(ctx context.Context, subdomain string) (*models.Collaborator, error) {
	return s.getBy(ctx, "subdomain = $1 AND subdomain <> ''", subdomain)
}

func (s *CollaboratorStore) List(ctx context.Context) ([]models.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	collaborators := make([]models.Collaborator, 0)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		collaborators = append(collaborators, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collaborators: %w", err)
	}

	for i := range collaborators {
		if err := s.loadMeetings(ctx, &collaborators[i]); err != nil {
			return nil, err
		}
	}
	return collaborators, nil
}

func (s *CollaboratorStore) Create(ctx context.Context, c *models.Collaborator) (*models.Collaborator, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO collaborators (` + collaboratorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Slug, c.PasswordHash, c.Subdomain,
		c.ProjectName, c.ProjectDescription, string(c.Status),
		c.CustomContent, c.Notifications, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, classifyError(err)
	}

	for _, m := range c.Meetings {
		_, err = tx.Exec(ctx, `
			INSERT INTO meetings (id, collaborator_id, share_url, title, recorded_at, added_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, c.ID, m.ShareURL, m.Title, m.RecordedAt, m.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert meeting: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(ctx, c.ID)
}

func (s *CollaboratorStore) Update(ctx context.Context, id uuid.UUID, patch repository.CollaboratorPatch) (*models.Collaborator, error) {
	// COALESCE keeps the stored value wherever the patch field is nil.
	// updated_at always moves.
	query := `
		UPDATE collaborators SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			password_hash = COALESCE($4, password_hash),
			subdomain = COALESCE($5, subdomain),
			project_name = COALESCE($6, project_name),
			project_description = COALESCE($7, project_description),
			status = COALESCE($8, status),
			custom_content = COALESCE($9, custom_content),
			notification_preferences = COALESCE($10, notification_preferences),
			updated_at = now()
		WHERE id = $1`

	var statusArg *string
	if patch.Status != nil {
		str := string(*patch.Status)
		statusArg = &str
	}

	tag, err := s.pool.Exec(ctx, query, id,
		patch.Name, patch.Email, patch.PasswordHash, patch.Subdomain,
		patch.ProjectName, patch.ProjectDescription, statusArg,
		patch.CustomContent, patch.Notifications,
	)
	if err != nil {
		return nil, classifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

func (s *CollaboratorStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	// Meetings go with the collaborator via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM collaborators WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete collaborator: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *CollaboratorStore) AddMeeting(ctx context.Context, id uuid.UUID, m models.MeetingRef) (*models.Collaborator, error) {
	query := `
		INSERT INTO meetings (id, collaborator_id, share_url, title, recorded_at, added_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM collaborators WHERE id = $2)`

	tag, err := s.pool.Exec(ctx, query, m.ID, id, m.ShareURL, m.Title, m.RecordedAt, m.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	if _, err := s.pool.Exec(ctx, `UPDATE collaborators SET updated_at = now() WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("touch collaborator: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *CollaboratorStore) RemoveMeeting(ctx context.Context, id uuid.UUID, meetingID uuid.UUID) (*models.Collaborator, error) {
	// Deleting zero rows is fine — removing an unknown meeting id is a
	// no-op success. Only an unknown collaborator is "not found".
	_, err := s.pool.Exec(ctx,
		`DELETE FROM meetings WHERE id = $1 AND collaborator_id = $2`, meetingID, id)
	if err != nil {
		return nil, fmt.Errorf("delete meeting: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `UPDATE collaborators SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("touch collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

func (s *CollaboratorStore) ActiveGateEntries(ctx context.Context) ([]models.GateEntry, error) {
	query := `
		SELECT slug, subdomain, password_hash
		FROM collaborators
		WHERE status = 'active'`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list gate entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.GateEntry, 0)
	for rows.Next() {
		var c models.Collaborator
		if err := rows.Scan(&c.Slug, &c.Subdomain, &c.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan gate entry: %w", err)
		}
		entries = append(entries, models.GateEntryFor(&c))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gate entries: %w", err)
	}
	return entries, nil
}
