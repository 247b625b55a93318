// Package generate turns a collaborator record into its rendered
// artifacts: hub page, login page, and transactional emails. Everything
// here is pure — same record in, same text out. Pages are produced by
// generic templates consuming a structured PageConfig, so nothing is
// generated and persisted per tenant.
package generate

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/elijahbrown/collabhub/internal/models"
)

// DefaultBaseURL is the production origin hubs live under when no
// override is supplied.
const DefaultBaseURL = "https://elijahbrown.info"

// MeetingsPlaceholder is shown on the hub page until the first meeting
// is added.
const MeetingsPlaceholder = "Meeting notes will appear here after our first session."

// Email is a subject/html/text triplet. HTML and Text carry the same
// subject, access URL, and (for the welcome email) credential — the two
// representations must stay semantically in sync.
type Email struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// PageMeeting is one meeting as the page template consumes it.
type PageMeeting struct {
	ID       string
	Title    string
	ShareURL string
	Recorded string
}

// PageConfig is the structured artifact the hub templates render from.
type PageConfig struct {
	Slug               string
	Name               string
	ProjectName        string
	ProjectDescription string
	AccessURL          string
	Sections           []models.ContentSection
	Meetings           []PageMeeting
	Placeholder        string
}

// LoginConfig drives the login-page template.
type LoginConfig struct {
	Slug        string
	ProjectName string
	LoginPath   string
	Redirect    string
}

// AccessURL derives where a collaborator reaches their hub: the dedicated
// subdomain when one is set, otherwise a path under the base URL.
func AccessURL(c *models.Collaborator, baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if c.Subdomain != "" {
		scheme, host := "https", ""
		if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
			scheme, host = u.Scheme, u.Host
		} else {
			host = strings.TrimPrefix(baseURL, "https://")
		}
		return fmt.Sprintf("%s://%s.%s", scheme, c.Subdomain, host)
	}
	return baseURL + "/" + c.Slug
}

// PageConfigFor builds the structured page artifact from a record.
func PageConfigFor(c *models.Collaborator, baseURL string) PageConfig {
	cfg := PageConfig{
		Slug:               c.Slug,
		Name:               c.Name,
		ProjectName:        c.ProjectName,
		ProjectDescription: c.ProjectDescription,
		AccessURL:          AccessURL(c, baseURL),
		Sections:           c.CustomContent,
		Placeholder:        MeetingsPlaceholder,
	}
	for _, m := range c.Meetings {
		pm := PageMeeting{
			ID:       m.ID.String(),
			Title:    m.Title,
			ShareURL: m.ShareURL,
		}
		if m.RecordedAt != nil {
			pm.Recorded = m.RecordedAt.Format("January 2, 2006")
		}
		cfg.Meetings = append(cfg.Meetings, pm)
	}
	return cfg
}

// RenderPage renders the hub page HTML for a collaborator.
func RenderPage(c *models.Collaborator, baseURL string) (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, PageConfigFor(c, baseURL)); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// RenderLoginPage renders the password form for the path-addressed form
// of a collaborator's area. redirect is carried through the form so a
// successful login lands on the originally requested path.
func RenderLoginPage(c *models.Collaborator, redirect string) (string, error) {
	return renderLogin(c, "/"+c.Slug+"/login", redirect)
}

// RenderHostLoginPage is the subdomain-addressed variant: the form posts
// to the host-root login route since the slug is implied by the host.
func RenderHostLoginPage(c *models.Collaborator, redirect string) (string, error) {
	return renderLogin(c, "/login", redirect)
}

func renderLogin(c *models.Collaborator, loginPath, redirect string) (string, error) {
	var buf bytes.Buffer
	err := loginTmpl.Execute(&buf, LoginConfig{
		Slug:        c.Slug,
		ProjectName: c.ProjectName,
		LoginPath:   loginPath,
		Redirect:    redirect,
	})
	if err != nil {
		return "", fmt.Errorf("render login page: %w", err)
	}
	return buf.String(), nil
}

type emailData struct {
	Name         string
	ProjectName  string
	AccessURL    string
	Password     string
	MeetingTitle string
	ShareURL     string
}

// WelcomeEmail builds the onboarding email. The plaintext password is a
// parameter because only the hash is stored — this email can be produced
// only while the credential is in hand (at creation, or supplied by the
// caller).
func WelcomeEmail(c *models.Collaborator, password, baseURL string) (Email, error) {
	data := emailData{
		Name:        c.Name,
		ProjectName: c.ProjectName,
		AccessURL:   AccessURL(c, baseURL),
		Password:    password,
	}

	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("render welcome email: %w", err)
	}

	text := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your %s project hub is ready.\n\n"+
			"Access it here: %s\n"+
			"Password: %s\n\n"+
			"Meeting notes, project updates, and shared documents will all "+
			"live there as we go.\n\n"+
			"— Elijah",
		data.Name, data.ProjectName, data.AccessURL, data.Password,
	)

	return Email{
		Subject: fmt.Sprintf("Your %s project hub is ready", data.ProjectName),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

// MeetingEmail builds the new-meeting-notes notification.
func MeetingEmail(c *models.Collaborator, title, shareURL, baseURL string) (Email, error) {
	data := emailData{
		Name:         c.Name,
		ProjectName:  c.ProjectName,
		AccessURL:    AccessURL(c, baseURL),
		MeetingTitle: title,
		ShareURL:     shareURL,
	}

	var buf bytes.Buffer
	if err := meetingTmpl.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("render meeting email: %w", err)
	}

	text := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Notes from \"%s\" are up.\n\n"+
			"Watch the recording: %s\n"+
			"Or find it on your project hub: %s\n\n"+
			"— Elijah",
		data.Name, data.MeetingTitle, data.ShareURL, data.AccessURL,
	)

	return Email{
		Subject: fmt.Sprintf("New meeting notes: %s", title),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}
