package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elijahbrown/collabhub/internal/gate"
	"github.com/elijahbrown/collabhub/internal/models"
	"github.com/elijahbrown/collabhub/internal/service"
)

// HubHandler serves the collaborator-facing pages. The gate middleware
// has already run by the time these execute. Non-active collaborators
// are invisible here: the gate ignores them, so serving their pages
// would mean serving them ungated — they 404 instead.
type HubHandler struct {
	svc    *service.CollaboratorService
	gate   *gate.Gate
	logger *zap.Logger
}

func NewHubHandler(svc *service.CollaboratorService, g *gate.Gate, logger *zap.Logger) *HubHandler {
	return &HubHandler{svc: svc, gate: g, logger: logger}
}

// activeCollaborator resolves the slug and filters out anything the gate
// wouldn't protect. Returns false after writing the response.
func (h *HubHandler) activeCollaborator(c *gin.Context, slug string) bool {
	collab, err := h.svc.GetCollaborator(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "not found")
			return false
		}
		h.logger.Error("failed to resolve collaborator", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return false
	}
	if collab.Status != models.StatusActive {
		c.String(http.StatusNotFound, "not found")
		return false
	}
	return true
}

// Show handles GET /:slug — the hub page itself.
func (h *HubHandler) Show(c *gin.Context) {
	slug := c.Param("slug")
	if !h.activeCollaborator(c, slug) {
		return
	}

	html, err := h.svc.PageFor(c.Request.Context(), slug)
	if err != nil {
		h.logger.Error("failed to render hub page", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ShowLogin handles GET /:slug/login — the password form.
func (h *HubHandler) ShowLogin(c *gin.Context) {
	slug := c.Param("slug")
	if !h.activeCollaborator(c, slug) {
		return
	}
	redirect := sanitizeRedirect(c.Query("redirect"), slug)

	html, err := h.svc.LoginPageFor(c.Request.Context(), slug, redirect)
	if err != nil {
		h.logger.Error("failed to render login page", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// hostCollaborator resolves the request Host's first label against the
// subdomain-addressed hubs, with the same active-only filter as the path
// form. Returns false after writing the response.
func (h *HubHandler) hostCollaborator(c *gin.Context) (*models.Collaborator, bool) {
	label := hostLabel(c.Request.Host)
	if label == "" {
		c.String(http.StatusNotFound, "not found")
		return nil, false
	}

	collab, err := h.svc.CollaboratorBySubdomain(c.Request.Context(), label)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "not found")
			return nil, false
		}
		h.logger.Error("failed to resolve collaborator by host", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return nil, false
	}
	if collab.Status != models.StatusActive {
		c.String(http.StatusNotFound, "not found")
		return nil, false
	}
	return collab, true
}

// ShowByHost handles GET / — the hub page for subdomain-addressed
// collaborators, who land at the host root from their advertised URL.
// Hosts that map to no subdomain (the apex included) 404.
func (h *HubHandler) ShowByHost(c *gin.Context) {
	collab, ok := h.hostCollaborator(c)
	if !ok {
		return
	}

	html, err := h.svc.PageFor(c.Request.Context(), collab.Slug)
	if err != nil {
		h.logger.Error("failed to render hub page", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ShowLoginByHost handles GET /login for subdomain-addressed hubs.
func (h *HubHandler) ShowLoginByHost(c *gin.Context) {
	collab, ok := h.hostCollaborator(c)
	if !ok {
		return
	}
	redirect := sanitizeRedirectTo(c.Query("redirect"), "/")

	html, err := h.svc.HostLoginPageFor(c.Request.Context(), collab.Subdomain, redirect)
	if err != nil {
		h.logger.Error("failed to render login page", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// LoginByHost handles POST /login — the host-form credential submission.
// Identical semantics to Login, with the slug resolved from the Host.
func (h *HubHandler) LoginByHost(c *gin.Context) {
	collab, ok := h.hostCollaborator(c)
	if !ok {
		return
	}
	redirect := sanitizeRedirectTo(c.PostForm("redirect"), "/")

	if !h.svc.VerifyPassword(c.Request.Context(), collab.Slug, c.PostForm("password")) {
		loginURL := gate.HostLoginPath
		if redirect != "/" {
			loginURL += "?redirect=" + url.QueryEscape(redirect)
		}
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	h.gate.SetSessionCookie(c, collab.Slug)
	c.Redirect(http.StatusFound, redirect)
}

// Login handles POST /:slug/login — form-body credential submission,
// the preferred path over the query-parameter one since the password
// never appears in a URL. A correct password yields the same session
// cookie the gate's query path sets; a wrong one lands back on the form
// with no further distinction.
func (h *HubHandler) Login(c *gin.Context) {
	slug := c.Param("slug")
	redirect := sanitizeRedirect(c.PostForm("redirect"), slug)

	if !h.svc.VerifyPassword(c.Request.Context(), slug, c.PostForm("password")) {
		loginURL := "/" + slug + "/login"
		if redirect != "/"+slug {
			loginURL += "?redirect=" + url.QueryEscape(redirect)
		}
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	h.gate.SetSessionCookie(c, slug)
	c.Redirect(http.StatusFound, redirect)
}

// sanitizeRedirect keeps post-login redirects on-site: relative paths
// only, defaulting to the hub root.
func sanitizeRedirect(redirect, slug string) string {
	return sanitizeRedirectTo(redirect, "/"+slug)
}

func sanitizeRedirectTo(redirect, fallback string) string {
	if redirect == "" || !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		return fallback
	}
	return redirect
}

// hostLabel extracts the first DNS label, the subdomain candidate.
// A bare or single-label host yields "".
func hostLabel(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	label, _, found := strings.Cut(host, ".")
	if !found {
		return ""
	}
	return label
}
