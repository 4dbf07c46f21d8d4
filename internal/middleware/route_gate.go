package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/RichmondRamil/task-management/internal/constants"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// protectedPrefixes are page paths that require a signed-in session.
var protectedPrefixes = []string{"/projects", "/tasks", "/profile"}

// authPrefixes are the auth form pages a signed-in user is steered away from.
var authPrefixes = []string{"/login", "/signup", "/forgot-password"}

// RouteGate redirects unauthenticated visitors away from protected pages
// to the login page with a returnTo parameter, and signed-in visitors away
// from the auth forms to the project listing. API routes are untouched.
func RouteGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}

		session := sessions.Default(c)
		authenticated := session.Get(constants.ContextKeyUserID) != nil

		if !authenticated && hasPrefix(path, protectedPrefixes) {
			redirect := "/login?returnTo=" + url.QueryEscape(path)
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}

		if authenticated && hasPrefix(path, authPrefixes) {
			c.Redirect(http.StatusFound, "/projects")
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
