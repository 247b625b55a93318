package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/generate"
	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/repository/memory"
	"github.com/elijahbrown/collabhub/internal/service"
)

// recordingMailer captures deliveries instead of sending them.
type recordingMailer struct {
	sent []sentEmail
}

type sentEmail struct {
	to    string
	email generate.Email
}

func (m *recordingMailer) Send(to string, email generate.Email) error {
	m.sent = append(m.sent, sentEmail{to: to, email: email})
	return nil
}

func newTestService(t *testing.T) (*service.CollaboratorService, *recordingMailer) {
	t.Helper()
	mailer := &recordingMailer{}
	svc := service.NewCollaboratorService(memory.NewCollaboratorStore(), mailer, "", zap.NewNop())
	return svc, mailer
}

func createAna(t *testing.T, svc *service.CollaboratorService) *models.Collaborator {
	t.Helper()
	c, _, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:        "Ana",
		Slug:        "ana",
		Password:    "pw123",
		ProjectName: "X",
	})
	require.NoError(t, err)
	return c
}

func TestCreateCollaboratorDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	c := createAna(t, svc)

	assert.Equal(t, models.StatusActive, c.Status)
	assert.True(t, c.Notifications.EmailOnNewMeeting)
	assert.True(t, c.Notifications.EmailOnUpdate)
	assert.Empty(t, c.Meetings)
	assert.NotEmpty(t, c.PasswordHash)
	assert.NotEqual(t, "pw123", c.PasswordHash)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCreateCollaboratorDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	createAna(t, svc)

	_, _, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:        "Another Ana",
		Slug:        "ana",
		Password:    "other",
		ProjectName: "Y",
	})
	assert.ErrorIs(t, err, service.ErrSlugTaken)
}

func TestCreateCollaboratorSeedsMeetings(t *testing.T) {
	svc, _ := newTestService(t)

	c, _, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:            "Bruno",
		Slug:            "bruno",
		Password:        "pw",
		ProjectName:     "Y",
		FathomShareURLs: []string{"https://example.com/share/1", "https://example.com/share/2"},
	})
	require.NoError(t, err)

	require.Len(t, c.Meetings, 2)
	assert.Equal(t, "Meeting Notes #1", c.Meetings[0].Title)
	assert.Equal(t, "Meeting Notes #2", c.Meetings[1].Title)
}

func TestCreateCollaboratorWelcomeEmail(t *testing.T) {
	svc, mailer := newTestService(t)

	_, welcome, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:          "Ana",
		Email:         "ana@example.com",
		Slug:          "ana",
		Password:      "pw123",
		ProjectName:   "X",
		GenerateEmail: true,
	})
	require.NoError(t, err)
	require.NotNil(t, welcome)

	assert.Contains(t, welcome.Text, "pw123")
	assert.Contains(t, welcome.HTML, "pw123")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].to)
	assert.Equal(t, welcome.Subject, mailer.sent[0].email.Subject)
}

func TestGetCollaboratorByIDOrSlug(t *testing.T) {
	svc, _ := newTestService(t)
	created := createAna(t, svc)

	byID, err := svc.GetCollaborator(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	bySlug, err := svc.GetCollaborator(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = svc.GetCollaborator(context.Background(), "nobody")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteCollaboratorTwice(t *testing.T) {
	svc, _ := newTestService(t)
	c := createAna(t, svc)

	require.NoError(t, svc.DeleteCollaborator(context.Background(), c.ID))
	assert.ErrorIs(t, svc.DeleteCollaborator(context.Background(), c.ID), service.ErrNotFound)
}

func TestAddMeetingAndRenderPage(t *testing.T) {
	svc, _ := newTestService(t)
	createAna(t, svc)

	updated, _, err := svc.AddMeeting(context.Background(), "ana", service.AddMeetingInput{
		ShareURL: "https://example.com/share/1",
		Title:    "Kickoff",
	})
	require.NoError(t, err)
	require.Len(t, updated.Meetings, 1)

	html, err := svc.PageFor(context.Background(), "ana")
	require.NoError(t, err)
	assert.Contains(t, html, "Kickoff")
}

func TestAddMeetingNotification(t *testing.T) {
	svc, mailer := newTestService(t)

	_, _, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:        "Ana",
		Email:       "ana@example.com",
		Slug:        "ana",
		Password:    "pw",
		ProjectName: "X",
	})
	require.NoError(t, err)

	_, notification, err := svc.AddMeeting(context.Background(), "ana", service.AddMeetingInput{
		ShareURL:         "https://example.com/share/1",
		Title:            "Kickoff",
		SendNotification: true,
	})
	require.NoError(t, err)
	require.NotNil(t, notification)
	assert.Equal(t, "New meeting notes: Kickoff", notification.Subject)
	assert.Len(t, mailer.sent, 1)

	// Preference off — no email generated even when requested.
	off := false
	collab, err := svc.GetCollaborator(context.Background(), "ana")
	require.NoError(t, err)
	_, err = svc.UpdateCollaborator(context.Background(), collab.ID, service.UpdateInput{
		Notifications: &models.NotificationPreferences{EmailOnNewMeeting: off, EmailOnUpdate: true},
	})
	require.NoError(t, err)

	_, notification, err = svc.AddMeeting(context.Background(), "ana", service.AddMeetingInput{
		ShareURL:         "https://example.com/share/2",
		Title:            "Review",
		SendNotification: true,
	})
	require.NoError(t, err)
	assert.Nil(t, notification)
	assert.Len(t, mailer.sent, 1)
}

func TestRemoveMeetingUnknownIDIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	createAna(t, svc)

	updated, _, err := svc.AddMeeting(context.Background(), "ana", service.AddMeetingInput{
		ShareURL: "https://example.com/share/1",
		Title:    "Kickoff",
	})
	require.NoError(t, err)
	require.Len(t, updated.Meetings, 1)

	after, err := svc.RemoveMeeting(context.Background(), "ana", uuid.New())
	require.NoError(t, err)
	assert.Len(t, after.Meetings, 1)

	after, err = svc.RemoveMeeting(context.Background(), "ana", updated.Meetings[0].ID)
	require.NoError(t, err)
	assert.Empty(t, after.Meetings)
}

func TestVerifyPassword(t *testing.T) {
	svc, _ := newTestService(t)
	createAna(t, svc)

	assert.True(t, svc.VerifyPassword(context.Background(), "ana", "pw123"))
	assert.False(t, svc.VerifyPassword(context.Background(), "ana", "wrong"))
	assert.False(t, svc.VerifyPassword(context.Background(), "nobody", "pw123"))
}

func TestGateEntriesOnlyActive(t *testing.T) {
	svc, _ := newTestService(t)
	ana := createAna(t, svc)

	_, _, err := svc.CreateCollaborator(context.Background(), service.CreateInput{
		Name:        "Bruno",
		Slug:        "bruno",
		Password:    "pw",
		ProjectName: "Y",
	})
	require.NoError(t, err)

	inactive := models.StatusInactive
	_, err = svc.UpdateCollaborator(context.Background(), ana.ID, service.UpdateInput{Status: &inactive})
	require.NoError(t, err)

	entries, err := svc.GateEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bruno", entries[0].Slug)
	assert.Equal(t, "bruno-auth", entries[0].CookieName)
	assert.Equal(t, "/bruno/login", entries[0].LoginPath)
}

func TestUpdateRefreshesTimestampAndMergesFields(t *testing.T) {
	svc, _ := newTestService(t)
	c := createAna(t, svc)

	name := "Ana Maria"
	updated, err := svc.UpdateCollaborator(context.Background(), c.ID, service.UpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana", updated.Slug)
	assert.Equal(t, "X", updated.ProjectName)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt) || updated.UpdatedAt.Equal(c.UpdatedAt))

	_, err = svc.UpdateCollaborator(context.Background(), uuid.New(), service.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
