package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acaihouse/internal/apiclient"
	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

type fakeAPI struct {
	loginResult *apiclient.LoginResult
	loginErr    error
	profile     *domain.User
	profileErr  error
	logoutErr   error

	loginCalls   int
	profileCalls int
	logoutCalls  int
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*apiclient.LoginResult, error) {
	f.loginCalls++
	return f.loginResult, f.loginErr
}

func (f *fakeAPI) Logout(_ context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) GetProfile(_ context.Context) (*domain.User, error) {
	f.profileCalls++
	return f.profile, f.profileErr
}

func storedCredentials(t *testing.T, kv storage.Storage) (Credentials, bool) {
	t.Helper()
	var creds Credentials
	ok, err := kv.Get(storage.CredentialsKey, &creds)
	require.NoError(t, err)
	return creds, ok
}

func TestInitWithoutStoredCredentials(t *testing.T) {
	kv := storage.NewMemory()
	api := &fakeAPI{}
	sess := New(api, kv, nil)

	var notified []*domain.User
	sess.OnChange(func(_ context.Context, u *domain.User) { notified = append(notified, u) })

	require.NoError(t, sess.Init(context.Background()))
	assert.False(t, sess.IsAuthenticated())
	assert.Zero(t, api.profileCalls)
	require.Len(t, notified, 1)
	assert.Nil(t, notified[0])
}

func TestInitRestoresValidSession(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(storage.CredentialsKey, Credentials{Token: "tok-1"}))

	user := &domain.User{ID: "u1", Email: "a@b.com"}
	api := &fakeAPI{profile: user}
	sess := New(api, kv, nil)

	var notified []*domain.User
	sess.OnChange(func(_ context.Context, u *domain.User) { notified = append(notified, u) })

	require.NoError(t, sess.Init(context.Background()))
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "tok-1", sess.Token())
	assert.Equal(t, user, sess.User())
	require.Len(t, notified, 1)
	assert.Equal(t, user, notified[0])

	// The fetched profile is persisted alongside the token.
	creds, ok := storedCredentials(t, kv)
	require.True(t, ok)
	assert.Equal(t, user, creds.User)
}

func TestInitRejectedTokenClearsCredentials(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(storage.CredentialsKey, Credentials{Token: "stale"}))

	api := &fakeAPI{profileErr: apiclient.ErrUnauthorized}
	sess := New(api, kv, nil)

	require.NoError(t, sess.Init(context.Background()))
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())

	_, ok := storedCredentials(t, kv)
	assert.False(t, ok)
}

func TestInitNetworkErrorKeepsStoredIdentity(t *testing.T) {
	kv := storage.NewMemory()
	cached := &domain.User{ID: "u1", Email: "a@b.com"}
	require.NoError(t, kv.Set(storage.CredentialsKey, Credentials{Token: "tok-1", User: cached}))

	api := &fakeAPI{profileErr: errors.New("connection refused")}
	sess := New(api, kv, nil)

	err := sess.Init(context.Background())
	require.Error(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "tok-1", sess.Token())
	assert.Equal(t, cached, sess.User())

	// Credentials stay on disk for the next attempt.
	_, ok := storedCredentials(t, kv)
	assert.True(t, ok)
}

func TestLoginOrdering(t *testing.T) {
	kv := storage.NewMemory()
	user := &domain.User{ID: "u1", Email: "a@b.com"}
	api := &fakeAPI{
		loginResult: &apiclient.LoginResult{User: user, AccessToken: "tok-new"},
		profile:     user,
	}
	sess := New(api, kv, nil)

	var notified []*domain.User
	var tokenAtNotify string
	sess.OnChange(func(_ context.Context, u *domain.User) {
		notified = append(notified, u)
		tokenAtNotify = sess.Token()
	})

	got, err := sess.Login(context.Background(), "a@b.com", "Secret12")
	require.NoError(t, err)
	assert.Equal(t, user, got)
	assert.True(t, sess.IsAuthenticated())

	// The listener fires exactly once, after the token is in place.
	require.Len(t, notified, 1)
	assert.Equal(t, user, notified[0])
	assert.Equal(t, "tok-new", tokenAtNotify)

	creds, ok := storedCredentials(t, kv)
	require.True(t, ok)
	assert.Equal(t, "tok-new", creds.Token)
	assert.Equal(t, user, creds.User)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	kv := storage.NewMemory()
	api := &fakeAPI{loginErr: errors.New("invalid credentials")}
	sess := New(api, kv, nil)

	var notifications int
	sess.OnChange(func(_ context.Context, _ *domain.User) { notifications++ })

	_, err := sess.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Zero(t, notifications)

	_, ok := storedCredentials(t, kv)
	assert.False(t, ok)
}

func TestLoginProfileFailureRollsBack(t *testing.T) {
	kv := storage.NewMemory()
	api := &fakeAPI{
		loginResult: &apiclient.LoginResult{AccessToken: "tok-new"},
		profileErr:  errors.New("boom"),
	}
	sess := New(api, kv, nil)

	_, err := sess.Login(context.Background(), "a@b.com", "Secret12")
	require.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())

	// The partially persisted token is removed again.
	_, ok := storedCredentials(t, kv)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	kv := storage.NewMemory()
	user := &domain.User{ID: "u1"}
	api := &fakeAPI{
		loginResult: &apiclient.LoginResult{AccessToken: "tok-new"},
		profile:     user,
	}
	sess := New(api, kv, nil)

	_, err := sess.Login(context.Background(), "a@b.com", "Secret12")
	require.NoError(t, err)

	var notified []*domain.User
	sess.OnChange(func(_ context.Context, u *domain.User) { notified = append(notified, u) })

	sess.Logout(context.Background())
	assert.Equal(t, 1, api.logoutCalls)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
	require.Len(t, notified, 1)
	assert.Nil(t, notified[0])

	_, ok := storedCredentials(t, kv)
	assert.False(t, ok)
}

func TestLogoutRevokeFailureStillClears(t *testing.T) {
	kv := storage.NewMemory()
	user := &domain.User{ID: "u1"}
	api := &fakeAPI{
		loginResult: &apiclient.LoginResult{AccessToken: "tok-new"},
		profile:     user,
		logoutErr:   errors.New("server down"),
	}
	sess := New(api, kv, nil)

	_, err := sess.Login(context.Background(), "a@b.com", "Secret12")
	require.NoError(t, err)

	sess.Logout(context.Background())
	assert.False(t, sess.IsAuthenticated())
	_, ok := storedCredentials(t, kv)
	assert.False(t, ok)
}
