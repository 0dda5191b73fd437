package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(in RegisterInput) (*model.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return nil, "", apperr.Validation("A valid email is required")
	case len(in.Password) < 6:
		return nil, "", apperr.Validation("Password must be at least 6 characters")
	case in.Name == "":
		return nil, "", apperr.Validation("Name is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "Could not hash password", err)
	}

	user := model.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.Validation("Email already exists")
		}
		return nil, "", apperr.Wrap(apperr.KindInternal, "Could not create user", err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "Could not generate token", err)
	}

	return &user, token, nil
}

func (s *AuthService) Login(in LoginInput) (*model.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var user model.User
	if err := s.db.Where("email = ?", in.Email).First(&user).Error; err != nil {
		return nil, "", apperr.Auth("Invalid credentials")
	}

	// Federated hesapların şifre yolu yoktur
	if user.IsFederated() {
		return nil, "", apperr.Validation("This account uses federated sign-in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", apperr.Auth("Invalid credentials")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "Could not generate token", err)
	}

	return &user, token, nil
}

func (s *AuthService) GetUser(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch user", err)
	}
	return &user, nil
}
