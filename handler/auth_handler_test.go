package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupFlow(t *testing.T) {
	app := newTestApp(t)

	status, body := app.postForm(t, "/signup", url.Values{
		"username": {"newbie"},
		"email":    {"newbie@email.com"},
		"password": {"password"},
	})
	require.Equal(t, http.StatusOK, status)
	// Signing up logs the user in; home shows the feed, not the anon
	// page.
	assert.Contains(t, body, "<!-- Test: home page -->")

	user, err := app.users.GetByUsername("newbie")
	require.NoError(t, err)
	assert.NotEqual(t, "password", user.PasswordHash)
}

func TestSignupDuplicateUsernameFlow(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "taken", "taken@email.com")

	status, body := app.postForm(t, "/signup", url.Values{
		"username": {"taken"},
		"email":    {"other@email.com"},
		"password": {"password"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "already taken")
	assert.Contains(t, body, "<!-- Test: signup page -->")
}

func TestSignupMissingPasswordFlow(t *testing.T) {
	app := newTestApp(t)

	status, body := app.postForm(t, "/signup", url.Values{
		"username": {"nopass"},
		"email":    {"nopass@email.com"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Password is required.")

	_, err := app.users.GetByUsername("nopass")
	assert.Error(t, err, "no user row may be created")
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "u1", "u1@email.com")

	// Wrong password stays on the login page.
	status, body := app.postForm(t, "/login", url.Values{
		"username": {"u1"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Invalid credentials.")
	assert.Contains(t, body, "<!-- Test: login page -->")

	// Correct credentials land on the authenticated home page.
	app.login(t, "u1")
	status, body = app.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<!-- Test: home page -->")

	// Logout drops the session.
	status, body = app.postForm(t, "/logout", url.Values{})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<!-- Test: login page -->")

	status, body = app.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<!-- Test: home-anon page -->")
}

func TestHomeAnonymous(t *testing.T) {
	app := newTestApp(t)

	status, body := app.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<!-- Test: home-anon page -->")
}
