package handler_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/middleware"
	"warbler/model"
	"warbler/routes"
	"warbler/service"
	"warbler/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testApp is the whole application served over httptest, with a
// cookie-jar client so the session behaves like a browser.
type testApp struct {
	srv    *httptest.Server
	client *http.Client
	db     *gorm.DB

	users    *service.UserService
	follows  *service.FollowService
	messages *service.MessageService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	middleware.InitSession("test-session-secret")
	middleware.InitAuth("test-jwt-secret")

	users := service.NewUserService(db)
	users.DefaultImageURL = "/static/images/default-pic.png"
	users.DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
	follows := service.NewFollowService(db)
	messages := service.NewMessageService(db)
	stats := service.NewStatsService(db, nil)

	r := routes.SetupRoutes(routes.Deps{
		Users:         users,
		Follows:       follows,
		Messages:      messages,
		Stats:         stats,
		TemplatesGlob: "../templates/*.html",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		srv:      srv,
		client:   &http.Client{Jar: jar},
		db:       db,
		users:    users,
		follows:  follows,
		messages: messages,
	}
}

// signup creates a user directly through the service; view tests log in
// through the real login form afterwards.
func (a *testApp) signup(t *testing.T, username, email string) *model.User {
	t.Helper()
	user, err := a.users.Signup(username, email, "password", "")
	require.NoError(t, err)
	return user
}

// login posts the login form; the session cookie lands in the jar.
func (a *testApp) login(t *testing.T, username string) {
	t.Helper()
	status, _ := a.postForm(t, "/login", url.Values{
		"username": {username},
		"password": {"password"},
	})
	require.Equal(t, http.StatusOK, status, "login should redirect to a 200 page")
}

// get follows redirects and returns the final status and body.
func (a *testApp) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := a.client.Post(a.srv.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}
