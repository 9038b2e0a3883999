package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kelly-ai-client/internal/constant"
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/internal/repository/implementation"
	"kelly-ai-client/internal/repository/memory"
	"kelly-ai-client/pkg/authapi"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	res   *authapi.Response
	err   error
	calls []authapi.Credentials
	modes []authapi.Mode
}

func (a *fakeAuthenticator) Authenticate(_ context.Context, mode authapi.Mode, creds authapi.Credentials) (*authapi.Response, error) {
	a.calls = append(a.calls, creds)
	a.modes = append(a.modes, mode)
	return a.res, a.err
}

func response(t *testing.T, status int, body string) *authapi.Response {
	t.Helper()
	res := &authapi.Response{StatusCode: status}
	require.NoError(t, json.Unmarshal([]byte(body), &res.Envelope))
	return res
}

func newAuthFixture(client authapi.Authenticator) (IAuthService, *memory.SecureStore, contract.CredentialRepository) {
	store := memory.NewSecureStore()
	creds := implementation.NewCredentialRepository(store)
	return NewAuthService(client, creds, logger.NewNopLogger()), store, creds
}

func TestAuthValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.AuthRequest
		wantText string
	}{
		{name: "missing email", req: dto.AuthRequest{Password: "secret1"}, wantText: "Please fill in all fields."},
		{name: "missing password", req: dto.AuthRequest{Email: "a@b.co"}, wantText: "Please fill in all fields."},
		{name: "bad email", req: dto.AuthRequest{Email: "not-an-email", Password: "secret1"}, wantText: "Please enter a valid email address."},
		{name: "short password", req: dto.AuthRequest{Email: "a@b.co", Password: "12345"}, wantText: "Password must be at least 6 characters long."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeAuthenticator{}
			svc, _, _ := newAuthFixture(client)

			_, err := svc.Login(context.Background(), &tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantText, verr.Message)
			assert.Empty(t, client.calls, "no request sent")
		})
	}
}

func TestLoginSessionShape(t *testing.T) {
	ctx := context.Background()
	client := &fakeAuthenticator{res: response(t, 200,
		`{"data":{"session":{"access_token":"at","refresh_token":"rt"},"user":{"id":"u1","email":"a@b.co"}}}`)}
	svc, store, _ := newAuthFixture(client)

	res, err := svc.Login(ctx, &dto.AuthRequest{Email: "  A@B.co ", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, authapi.Credentials{Email: "a@b.co", Password: "secret1"}, client.calls[0])
	assert.Equal(t, authapi.ModeLogin, client.modes[0])
	assert.True(t, res.HasToken)
	assert.Equal(t, "u1", res.UserId)
	assert.Empty(t, res.Message)

	for key, want := range map[string]string{
		constant.StoreKeyAccessToken:  "at",
		constant.StoreKeyRefreshToken: "rt",
		constant.StoreKeyUserId:       "u1",
		constant.StoreKeyUserEmail:    "a@b.co",
	} {
		got, found, _ := store.Get(ctx, key)
		assert.True(t, found, key)
		assert.Equal(t, want, got, key)
	}
}

func TestSignupFallbackShape(t *testing.T) {
	ctx := context.Background()
	client := &fakeAuthenticator{res: response(t, 200, `{"data":{"id":"u9","email":"new@b.co"}}`)}
	svc, store, _ := newAuthFixture(client)

	res, err := svc.Signup(ctx, &dto.AuthRequest{Email: "new@b.co", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, authapi.ModeSignup, client.modes[0])
	assert.False(t, res.HasToken)
	assert.Empty(t, res.Message)

	_, found, _ := store.Get(ctx, constant.StoreKeyAccessToken)
	assert.False(t, found)
	email, _, _ := store.Get(ctx, constant.StoreKeyUserEmail)
	assert.Equal(t, "new@b.co", email)
}

func TestSignupWithSessionWelcomes(t *testing.T) {
	client := &fakeAuthenticator{res: response(t, 200,
		`{"data":{"session":{"access_token":"at","refresh_token":"rt"},"user":{"id":"u1","email":"a@b.co"}}}`)}
	svc, _, _ := newAuthFixture(client)

	res, err := svc.Signup(context.Background(), &dto.AuthRequest{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message)
}

func TestAuthRefusals(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		signup    bool
		wantTitle string
		wantText  string
	}{
		{
			name:      "string error",
			status:    400,
			body:      `{"error":"Invalid login credentials"}`,
			wantTitle: "Login Failed",
			wantText:  "Invalid login credentials",
		},
		{
			name:      "object error",
			status:    422,
			body:      `{"error":{"message":"User already registered"}}`,
			signup:    true,
			wantTitle: "Signup Failed",
			wantText:  "User already registered",
		},
		{
			name:      "error without message",
			status:    400,
			body:      `{"error":{"code":1}}`,
			wantTitle: "Login Failed",
			wantText:  "Authentication failed",
		},
		{
			name:      "no error field",
			status:    500,
			body:      `{}`,
			wantTitle: "Login Failed",
			wantText:  "An error occurred",
		},
		{
			name:      "ok status with unusable data",
			status:    200,
			body:      `{"data":{}}`,
			wantTitle: "Error",
			wantText:  "Invalid response from server",
		},
		{
			name:      "ok status without data",
			status:    200,
			body:      `{}`,
			wantTitle: "Error",
			wantText:  "Invalid response from server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := &fakeAuthenticator{res: response(t, tt.status, tt.body)}
			svc, store, _ := newAuthFixture(client)
			req := &dto.AuthRequest{Email: "a@b.co", Password: "secret1"}

			var err error
			if tt.signup {
				_, err = svc.Signup(ctx, req)
			} else {
				_, err = svc.Login(ctx, req)
			}

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantTitle, authErr.Title)
			assert.Equal(t, tt.wantText, authErr.Message)

			_, found, _ := store.Get(ctx, constant.StoreKeyUserId)
			assert.False(t, found, "nothing stored")
		})
	}
}

func TestAuthConnectionError(t *testing.T) {
	client := &fakeAuthenticator{err: errors.New("dial tcp: connection refused")}
	svc, _, _ := newAuthFixture(client)

	_, err := svc.Login(context.Background(), &dto.AuthRequest{Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConnection)
}

func TestCheckExistingAuth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	token := func(exp time.Time) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u-from-token",
			"exp": exp.Unix(),
		}).SignedString([]byte("server-secret"))
		require.NoError(t, err)
		return s
	}

	t.Run("no token", func(t *testing.T) {
		svc, _, _ := newAuthFixture(&fakeAuthenticator{})
		status, err := svc.CheckExistingAuth(ctx)
		require.NoError(t, err)
		assert.False(t, status.Authenticated)
	})

	t.Run("opaque token", func(t *testing.T) {
		svc, store, _ := newAuthFixture(&fakeAuthenticator{})
		require.NoError(t, store.Set(ctx, constant.StoreKeyAccessToken, "opaque"))
		require.NoError(t, store.Set(ctx, constant.StoreKeyUserEmail, "a@b.co"))

		status, err := svc.CheckExistingAuth(ctx)
		require.NoError(t, err)
		assert.True(t, status.Authenticated)
		assert.Equal(t, "a@b.co", status.UserEmail)
		assert.Nil(t, status.ExpiresAt)
		assert.False(t, status.Expired)
	})

	t.Run("jwt expiry", func(t *testing.T) {
		svc, store, _ := newAuthFixture(&fakeAuthenticator{})
		svc.(*authService).now = func() time.Time { return now }

		require.NoError(t, store.Set(ctx, constant.StoreKeyAccessToken, token(now.Add(-time.Minute))))
		status, err := svc.CheckExistingAuth(ctx)
		require.NoError(t, err)
		assert.True(t, status.Authenticated)
		assert.True(t, status.Expired)
		require.NotNil(t, status.ExpiresAt)
		assert.Equal(t, now.Add(-time.Minute).Unix(), status.ExpiresAt.Unix())
		assert.Equal(t, "u-from-token", status.UserId)

		require.NoError(t, store.Set(ctx, constant.StoreKeyAccessToken, token(now.Add(time.Hour))))
		status, err = svc.CheckExistingAuth(ctx)
		require.NoError(t, err)
		assert.False(t, status.Expired)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, store, creds := newAuthFixture(&fakeAuthenticator{})
	require.NoError(t, creds.Save(ctx, &entity.AuthSession{AccessToken: "at", RefreshToken: "rt", UserId: "u1", UserEmail: "a@b.co"}))
	require.NoError(t, store.Set(ctx, constant.StoreKeyConversations, "[]"))

	require.NoError(t, svc.Logout(ctx))

	status, _ := svc.CheckExistingAuth(ctx)
	assert.False(t, status.Authenticated)
	assert.Empty(t, svc.Profile(ctx).Email)
	_, found, _ := store.Get(ctx, constant.StoreKeyConversations)
	assert.True(t, found, "conversations kept")

	// Logging out twice is fine.
	assert.NoError(t, svc.Logout(ctx))
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, creds := newAuthFixture(&fakeAuthenticator{})
	require.NoError(t, creds.Save(ctx, &entity.AuthSession{AccessToken: "at", RefreshToken: "rt", UserId: "u1", UserEmail: "a@b.co"}))

	assert.Equal(t, "a@b.co", svc.Profile(ctx).Email)
}
