package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"researchhub/app"
	"researchhub/repository"
)

func newAuthService(t *testing.T) *app.AuthService {
	t.Helper()
	s := newTestStore(t)
	return app.NewAuthService(
		repository.NewUserRepository(s),
		repository.NewSessionRepository(s),
	)
}

func TestRegisterSignsIn(t *testing.T) {
	auth := newAuthService(t)

	su, err := auth.Register(app.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", su.Email)

	current, err := auth.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, su.ID, current.ID)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register(app.RegisterInput{FullName: "Ada", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = auth.Register(app.RegisterInput{FullName: "Eve", Email: "A@B.COM", Password: "longenough"})
	assert.ErrorIs(t, err, app.ErrEmailExists)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register(app.RegisterInput{FullName: "Ada", Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestLoginVerifiesPassword(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register(app.RegisterInput{FullName: "Ada", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	require.NoError(t, auth.Logout())

	su, err := auth.Login(app.LoginInput{Email: "A@b.cOm", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", su.Email)

	_, err = auth.Login(app.LoginInput{Email: "a@b.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, app.ErrInvalidCredential)

	_, err = auth.Login(app.LoginInput{Email: "nobody@b.com", Password: "longenough"})
	assert.ErrorIs(t, err, app.ErrInvalidCredential)
}

func TestLogoutClearsSession(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register(app.RegisterInput{FullName: "Ada", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout())

	current, err := auth.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)
}
