package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/jmin/block-battle/internal/config"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	userIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9]{5,20}$`)
	passwordAlpha   = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	UserID   string
	Name     string
	Password string
}

type LoginInput struct {
	UserID   string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func validateRegisterInput(input RegisterInput) error {
	if !userIDPattern.MatchString(input.UserID) {
		return domain.ErrInvalidUserID
	}
	if n := len([]rune(input.Name)); n < 2 || n > 10 {
		return domain.ErrInvalidName
	}
	if len(input.Password) < 8 || len(input.Password) > 20 {
		return domain.ErrInvalidPassword
	}
	if !passwordAlpha.MatchString(input.Password) ||
		!passwordDigit.MatchString(input.Password) ||
		!passwordSpecial.MatchString(input.Password) {
		return domain.ErrInvalidPassword
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUserID(ctx, input.UserID)
	if err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserID:       input.UserID,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// One session per user
	_ = s.sessionRepo.DeleteByUserID(ctx, user.UserID)

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.UserID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        time.Now().Add(s.cfg.RefreshTokenTTL),
		CreatedAt:        time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.UserID,
		"name": user.Name,
		"ver":  user.TokenVersion,
		"exp":  time.Now().Add(s.cfg.AccessTokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks the signature and expiry of an access token and
// returns the user id it was issued for. Tokens issued before the user's
// last logout carry a stale version claim and are rejected.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", errors.New("missing sub claim")
	}

	version := 0
	if v, ok := claims["ver"].(float64); ok {
		version = int(v)
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	if version != user.TokenVersion {
		return "", domain.ErrTokenRevoked
	}

	return userID, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (string, error) {
	session, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if time.Now().After(session.ExpiresAt) {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(session.RefreshTokenHash), []byte(refreshToken)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", domain.ErrUserNotFound
	}

	return s.generateAccessToken(user)
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Logout deletes the user's session and bumps the token version so that
// outstanding access tokens stop validating.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.TokenVersion++
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, userID)
}
