package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/client/client/clienttest"
	"github.com/slidesmith/slidesmith/internal/client/services"
	"github.com/slidesmith/slidesmith/internal/common"
)

func TestLogin_StoresSession(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("ada@example.com", "secret1", "Ada")
	stubPassword(t, "secret1")

	out, err := env.run(t, "login", "-e", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ada <ada@example.com>")

	assert.NotEmpty(t, env.store.Token())
	u, ok := env.store.User()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, " (Ada)", env.app.getStatus())
}

func TestLogin_PromptsForEmail(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("ada@example.com", "secret1", "Ada")
	env.app.reader = rdr("ada@example.com\n")
	stubPassword(t, "secret1")

	out, err := env.run(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter email")
	assert.True(t, env.app.isLoggedIn())
}

func TestLogin_BackendDetailSurfaced(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("ada@example.com", "secret1", "Ada")
	stubPassword(t, "wrong-password")

	_, err := env.run(t, "login", "-e", "ada@example.com")
	require.Error(t, err)
	assert.Equal(t, "LOGIN_BAD_CREDENTIALS", ErrorText(err))
	assert.False(t, env.app.isLoggedIn())
	assert.Zero(t, env.backend.Hits(clienttest.RouteMe))
}

func TestLogin_ValidationNeverReachesNetwork(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{name: "email without at", email: "ada.example.com", password: "secret1", want: services.MsgInvalidEmail},
		{name: "short password", email: "ada@example.com", password: "12345", want: services.MsgShortPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			stubPassword(t, tc.password)

			_, err := env.run(t, "login", "-e", tc.email)
			require.Error(t, err)
			assert.Equal(t, tc.want, ErrorText(err))
			var verr *services.ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Zero(t, env.backend.TotalHits())
		})
	}
}

func TestRegister_ThenLogin(t *testing.T) {
	env := newTestEnv(t)
	stubPassword(t, "secret1")

	out, err := env.run(t, "register", "-e", "bob@example.com", "-n", "Bob")
	require.NoError(t, err)
	assert.Contains(t, out, services.MsgRegisterComplete)
	assert.False(t, env.app.isLoggedIn(), "registering does not log in")

	_, err = env.run(t, "register", "-e", "bob@example.com", "-n", "Bob")
	require.Error(t, err)
	assert.Equal(t, "REGISTER_USER_ALREADY_EXISTS", ErrorText(err))

	_, err = env.run(t, "login", "-e", "bob@example.com")
	require.NoError(t, err)
	assert.True(t, env.app.isLoggedIn())
}

func TestRegister_NameRequired(t *testing.T) {
	env := newTestEnv(t)
	env.app.reader = rdr("   \n")
	stubPassword(t, "secret1")

	_, err := env.run(t, "register", "-e", "bob@example.com")
	require.Error(t, err)
	assert.Equal(t, services.MsgNameRequired, ErrorText(err))
	assert.Zero(t, env.backend.TotalHits())
}

func TestWhoamiAndLogout(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "whoami")
	require.ErrorIs(t, err, common.ErrNoSession)
	assert.Equal(t, "Not logged in. Run 'login' first.", ErrorText(err))

	env.login(t)
	out, err := env.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Ada <ada@example.com>\n", out)

	out, err = env.run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out.\n", out)
	assert.False(t, env.app.isLoggedIn())
	assert.Empty(t, env.app.getStatus())
}

func TestWhoami_ExpiredSessionIsCleared(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.backend.Fail(clienttest.RouteMe, 401, `{"detail":"Unauthorized"}`)

	_, err := env.run(t, "whoami")
	require.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Equal(t, "Your session has expired. Please log in again.", ErrorText(err))
	assert.False(t, env.app.isLoggedIn())
}
