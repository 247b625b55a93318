// Package gate is the request-time access control for collaborator hubs.
// Every request is matched against the snapshot of active collaborators
// and either passed through, accepted (password exchanged for a session
// cookie), or challenged with a redirect to the area's login page.
package gate

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CookieValue is the literal session marker. The session contract is the
// cookie's presence with this value; there is nothing to forge beyond
// what the password already grants.
const CookieValue = "authenticated"

// cookieMaxAge is seven days, in seconds.
const cookieMaxAge = 7 * 24 * 60 * 60

// HostLoginPath is where the login form lives when an area is addressed
// by its subdomain: the slug is implied by the host, so the path has no
// slug prefix.
const HostLoginPath = "/login"

type Gate struct {
	provider     *Provider
	cookieDomain string
	logger       *zap.Logger
}

func New(provider *Provider, cookieDomain string, logger *zap.Logger) *Gate {
	return &Gate{
		provider:     provider,
		cookieDomain: cookieDomain,
		logger:       logger,
	}
}

// Middleware evaluates one request against the gate table:
//
//  1. no matching area           → pass through
//  2. valid session cookie      → pass through
//  3. correct ?password= param  → set cookie, redirect to the clean URL
//  4. otherwise                 → redirect to the area's login page with
//     the original path carried in ?redirect= (loop-guarded on the login
//     path itself, so the form stays reachable)
//
// A wrong password is indistinguishable from no password — the request
// falls through to the challenge. No lockout, no attempt counting.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := g.provider.Get(c.Request.Context())
		if err != nil {
			// Fail closed: with no table we cannot tell protected from
			// public, and serving protected content is the worse failure.
			g.logger.Error("gate snapshot unavailable", zap.Error(err))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		path := c.Request.URL.Path
		entry, byHost := snap.LookupHost(c.Request.Host)
		if !byHost {
			var ok bool
			entry, ok = snap.LookupPath(path)
			if !ok {
				c.Next()
				return
			}
		}

		if cookie, err := c.Cookie(entry.CookieName); err == nil && cookie == CookieValue {
			c.Next()
			return
		}

		if password := c.Query("password"); password != "" {
			if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)) == nil {
				g.setAuthCookie(c, entry.CookieName)

				// Redirect to the same URL minus the credential so it
				// drops out of the location bar and referrer headers.
				q := c.Request.URL.Query()
				q.Del("password")
				clean := path
				if encoded := q.Encode(); encoded != "" {
					clean += "?" + encoded
				}
				c.Redirect(http.StatusFound, clean)
				c.Abort()
				return
			}
		}

		// The form must stay reachable without a session. A
		// subdomain-addressed area carries it at the host root; its
		// path form keeps working there too.
		loginPath := entry.LoginPath
		if byHost {
			loginPath = HostLoginPath
		}
		if path == loginPath || path == entry.LoginPath {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, loginPath+"?redirect="+url.QueryEscape(path))
		c.Abort()
	}
}

// SetSessionCookie marks the area as authenticated for this browser.
// Shared with the login POST handler so both credential paths produce
// the identical cookie.
func (g *Gate) SetSessionCookie(c *gin.Context, slug string) {
	g.setAuthCookie(c, slug+"-auth")
}

func (g *Gate) setAuthCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// HttpOnly and Secure; parent-domain scoped so a subdomain-addressed
	// hub shares the session with its path-addressed form.
	c.SetCookie(name, CookieValue, cookieMaxAge, "/", g.cookieDomain, true, true)
}
