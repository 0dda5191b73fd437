package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	user, token, err := svc.Register(service.RegisterInput{
		Email:    "  Jane@Example.COM ",
		Password: "s3cret!",
		Name:     "Jane Murphy",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	// Email normalize edilir
	assert.Equal(t, "jane@example.com", user.Email)

	claims, err := jwt.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	logged, loginToken, err := svc.Login(service.LoginInput{
		Email:    "jane@example.com",
		Password: "s3cret!",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	_, _, err := svc.Register(service.RegisterInput{
		Email:    "dup@test.com",
		Password: "password",
		Name:     "First",
	})
	assert.NoError(t, err)

	_, _, err = svc.Register(service.RegisterInput{
		Email:    "DUP@test.com",
		Password: "password",
		Name:     "Second",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterValidatesInput(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	_, _, err := svc.Register(service.RegisterInput{Email: "not-an-email", Password: "password", Name: "X"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, _, err = svc.Register(service.RegisterInput{Email: "ok@test.com", Password: "short", Name: "X"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, _, err = svc.Register(service.RegisterInput{Email: "ok@test.com", Password: "password", Name: ""})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLoginBadCredentials(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	_, _, err := svc.Register(service.RegisterInput{
		Email:    "jane@test.com",
		Password: "s3cret!",
		Name:     "Jane",
	})
	assert.NoError(t, err)

	_, _, err = svc.Login(service.LoginInput{Email: "jane@test.com", Password: "wrong"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))

	_, _, err = svc.Login(service.LoginInput{Email: "nobody@test.com", Password: "s3cret!"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestLoginRejectsFederatedAccount(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	providerID := "google-oauth2|12345"
	user := model.User{
		Email:      "sso@test.com",
		Name:       "SSO User",
		ProviderID: &providerID,
	}
	assert.NoError(t, db.Create(&user).Error)

	_, _, err := svc.Login(service.LoginInput{Email: "sso@test.com", Password: "anything"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestGetPublicProfileOmitsSecrets(t *testing.T) {
	jwt.SetSecret("test-secret")
	db := setupTestDB(t)
	svc := service.NewAuthService(db)

	user, _, err := svc.Register(service.RegisterInput{
		Email:    "profile@test.com",
		Password: "password",
		Name:     "Profile User",
	})
	assert.NoError(t, err)

	fetched, err := svc.GetUser(user.ID)
	assert.NoError(t, err)

	profile := fetched.GetPublicProfile()
	assert.Equal(t, "profile@test.com", profile["email"])
	assert.Equal(t, "Profile User", profile["name"])
	_, hasHash := profile["password_hash"]
	assert.False(t, hasHash)
}
