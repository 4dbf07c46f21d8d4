package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/RichmondRamil/task-management/internal/constants"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(RouteGate())

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/projects", ok)
	r.GET("/tasks/today", ok)
	r.GET("/profile", ok)
	r.GET("/login", ok)
	r.GET("/signup", ok)
	r.GET("/about", ok)
	r.GET("/api/tasks", ok)

	// Login helper to obtain a session cookie.
	r.GET("/test/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, uint64(1))
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})

	return r
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()
	w := get(r, "/test/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestRouteGate_RedirectsAnonymousFromProtectedPages(t *testing.T) {
	r := setupGateRouter(t)

	for _, path := range []string{"/projects", "/tasks/today", "/profile"} {
		w := get(r, path, nil)
		require.Equal(t, http.StatusFound, w.Code, path)
		require.Equal(t, "/login?returnTo="+url.QueryEscape(path), w.Header().Get("Location"))
	}
}

func TestRouteGate_ReturnToIsEscaped(t *testing.T) {
	r := setupGateRouter(t)

	w := get(r, "/tasks/today", nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login?returnTo=%2Ftasks%2Ftoday", w.Header().Get("Location"))
}

func TestRouteGate_RedirectsAuthenticatedFromAuthForms(t *testing.T) {
	r := setupGateRouter(t)
	cookies := login(t, r)

	for _, path := range []string{"/login", "/signup"} {
		w := get(r, path, cookies)
		require.Equal(t, http.StatusFound, w.Code, path)
		require.Equal(t, "/projects", w.Header().Get("Location"))
	}
}

func TestRouteGate_PassesThroughOtherwise(t *testing.T) {
	r := setupGateRouter(t)

	// Anonymous users may visit public pages and the auth forms.
	require.Equal(t, http.StatusOK, get(r, "/about", nil).Code)
	require.Equal(t, http.StatusOK, get(r, "/login", nil).Code)

	// Authenticated users may visit protected pages.
	cookies := login(t, r)
	require.Equal(t, http.StatusOK, get(r, "/projects", cookies).Code)
	require.Equal(t, http.StatusOK, get(r, "/about", cookies).Code)
}

func TestRouteGate_SkipsAPIRoutes(t *testing.T) {
	r := setupGateRouter(t)

	// API routes answer with status codes, never redirects.
	w := get(r, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
