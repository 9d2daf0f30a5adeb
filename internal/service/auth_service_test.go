package service

import (
	"testing"

	"heavysync/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq(username, email string) *RegisterRequest {
	return &RegisterRequest{
		FullName: "Jane Doe",
		Username: username,
		Email:    email,
		Password: "Secret1",
	}
}

func TestRegisterDefaultsRoleAndHashes(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "Jane@X.io"))
	require.NoError(t, err)

	assert.Equal(t, "user", string(user.Role))
	assert.Equal(t, "jane@x.io", user.Email)
	assert.NotEqual(t, "Secret1", user.Password)
	assert.True(t, user.CheckPassword("Secret1"))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "jane@x.io"))
	require.NoError(t, err)

	_, err = f.svc.Auth.Register(f.ctx, registerReq("jane", "other@x.io"))
	requireKind(t, err, apperror.KindConflict, msgUserExists)

	_, err = f.svc.Auth.Register(f.ctx, registerReq("other", "jane@x.io"))
	requireKind(t, err, apperror.KindConflict, msgUserExists)

	count, err := f.store.Users.Count(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "jane@x.io"))
	require.NoError(t, err)

	_, wrongPassword := f.svc.Auth.Login(f.ctx, &LoginRequest{Username: "jane", Password: "Wrong1"})
	_, unknownUser := f.svc.Auth.Login(f.ctx, &LoginRequest{Username: "ghost", Password: "Secret1"})

	requireKind(t, wrongPassword, apperror.KindValidation, msgInvalidCredentials)
	requireKind(t, unknownUser, apperror.KindValidation, msgInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "jane@x.io"))
	require.NoError(t, err)

	resp, err := f.svc.Auth.Login(f.ctx, &LoginRequest{Username: "jane", Password: "Secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "jane@x.io"))
	require.NoError(t, err)

	err = f.svc.Auth.ChangePassword(f.ctx, user.ID, &ChangePasswordRequest{OldPassword: "Nope1", NewPassword: "Newpass1"})
	requireKind(t, err, apperror.KindValidation, msgWrongPassword)

	stored, err := f.store.Users.FindByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Password, stored.Password)

	require.NoError(t, f.svc.Auth.ChangePassword(f.ctx, user.ID, &ChangePasswordRequest{OldPassword: "Secret1", NewPassword: "Newpass1"}))

	_, err = f.svc.Auth.Login(f.ctx, &LoginRequest{Username: "jane", Password: "Secret1"})
	requireKind(t, err, apperror.KindValidation, msgInvalidCredentials)
	_, err = f.svc.Auth.Login(f.ctx, &LoginRequest{Username: "jane", Password: "Newpass1"})
	assert.NoError(t, err)
}

func TestUserProfile(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Auth.Register(f.ctx, registerReq("jane", "jane@x.io"))
	require.NoError(t, err)

	me, err := f.svc.Users.Me(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", me.FullName)

	updated, err := f.svc.Users.UpdateProfile(f.ctx, user.ID, &UpdateProfileRequest{Phone: ptr("0771234567")})
	require.NoError(t, err)
	assert.Equal(t, "0771234567", updated.Phone)
	assert.Equal(t, "Jane Doe", updated.FullName)

	exists, err := f.svc.Users.UsernameExists(f.ctx, "jane")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.svc.Users.UsernameExists(f.ctx, "john")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	req := registerReq("jane", "jane@x.io")
	req.Role = ptr("root")

	_, err := f.svc.Auth.Register(f.ctx, req)
	requireKind(t, err, apperror.KindValidation, "Validation failed")

	count, err := f.store.Users.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
