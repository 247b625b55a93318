package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/api"
	"github.com/elijahbrown/collabhub/internal/repository/memory"
	"github.com/elijahbrown/collabhub/internal/service"
)

// apiRouter wires the management handlers without the auth middleware —
// these tests exercise handler behavior, not token parsing.
func apiRouter(t *testing.T) (*gin.Engine, *service.CollaboratorService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewCollaboratorService(memory.NewCollaboratorStore(), nil, "", zap.NewNop())
	logger := zap.NewNop()

	collaboratorHandler := api.NewCollaboratorHandler(svc, logger)
	meetingHandler := api.NewMeetingHandler(svc, logger)
	emailHandler := api.NewEmailHandler(svc, logger)

	r := gin.New()
	g := r.Group("/api/collaborators")
	g.GET("", collaboratorHandler.List)
	g.POST("", collaboratorHandler.Create)
	g.GET("/:id", collaboratorHandler.GetByID)
	g.PUT("/:id", collaboratorHandler.Update)
	g.DELETE("/:id", collaboratorHandler.Delete)
	g.POST("/:id/meetings", meetingHandler.Add)
	g.DELETE("/:id/meetings", meetingHandler.Remove)
	g.GET("/:id/email", emailHandler.Generate)
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreateBody() map[string]any {
	return map[string]any{
		"name":         "Ana",
		"slug":         "ana",
		"password":     "pw123",
		"project_name": "X",
	}
}

func TestCreateCollaboratorValidation(t *testing.T) {
	r, _ := apiRouter(t)

	for _, missing := range []string{"name", "slug", "password", "project_name"} {
		body := validCreateBody()
		delete(body, missing)
		w := doJSON(r, http.MethodPost, "/api/collaborators", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s", missing)
	}

	body := validCreateBody()
	body["slug"] = "Not A Slug!"
	w := doJSON(r, http.MethodPost, "/api/collaborators", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = validCreateBody()
	body["slug"] = "api"
	w = doJSON(r, http.MethodPost, "/api/collaborators", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "reserved")
}

func TestCreateThenDuplicateSlug(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Slug already exists")
}

func TestResponsesNeverLeakCredentials(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "pw123")
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = doJSON(r, http.MethodGet, "/api/collaborators", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pw123")
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = doJSON(r, http.MethodGet, "/api/collaborators/ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pw123")
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestListShape(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/collaborators", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success       bool `json:"success"`
		Total         int  `json:"total"`
		Collaborators []struct {
			Slug         string `json:"slug"`
			MeetingCount int    `json:"meeting_count"`
		} `json:"collaborators"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Collaborators, 1)
	assert.Equal(t, "ana", resp.Collaborators[0].Slug)
	assert.Equal(t, 0, resp.Collaborators[0].MeetingCount)
}

func TestGetUnknownCollaborator(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodGet, "/api/collaborators/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTwice(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/collaborators/ana", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/collaborators/ana", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeetingEndpoints(t *testing.T) {
	r, svc := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	// Missing required fields.
	w = doJSON(r, http.MethodPost, "/api/collaborators/ana/meetings", map[string]any{"title": "Kickoff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/collaborators/ana/meetings", map[string]any{
		"share_url": "https://example.com/share/1",
		"title":     "Kickoff",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	collab, err := svc.GetCollaborator(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, collab.Meetings, 1)

	// Unknown collaborator.
	w = doJSON(r, http.MethodPost, "/api/collaborators/nobody/meetings", map[string]any{
		"share_url": "https://example.com/share/1",
		"title":     "Kickoff",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Removal needs the meetingId parameter.
	w = doJSON(r, http.MethodDelete, "/api/collaborators/ana/meetings", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/collaborators/ana/meetings?meetingId="+collab.Meetings[0].ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	collab, err = svc.GetCollaborator(context.Background(), "ana")
	require.NoError(t, err)
	assert.Empty(t, collab.Meetings)
}

func TestEmailEndpoint(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	// Welcome emails need the plaintext credential from the caller.
	w = doJSON(r, http.MethodGet, "/api/collaborators/ana/email?type=welcome", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/collaborators/ana/email?type=welcome&password=pw123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pw123")

	w = doJSON(r, http.MethodGet, "/api/collaborators/ana/email?type=meeting&meetingTitle=Kickoff&shareUrl=https%3A%2F%2Fexample.com%2Fshare%2F1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kickoff")

	w = doJSON(r, http.MethodGet, "/api/collaborators/ana/email?type=meeting", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/collaborators/nobody/email?type=meeting&meetingTitle=K&shareUrl=s", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/collaborators/ana/email?type=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCollaborator(t *testing.T) {
	r, _ := apiRouter(t)

	w := doJSON(r, http.MethodPost, "/api/collaborators", validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPut, "/api/collaborators/ana", map[string]any{"project_name": "Y"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project_name":"Y"`)

	w = doJSON(r, http.MethodPut, "/api/collaborators/ana", map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/collaborators/nobody", map[string]any{"project_name": "Y"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
