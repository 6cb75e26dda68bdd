package service

import (
	"context"
	"errors"
	"time"

	"shopapi/internal/dto"
	"shopapi/internal/model"
	"shopapi/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const usernameTaken = "A user with that username already exists."

// bcryptCost is lowered by tests.
var bcryptCost = 12

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

// Identity is the authenticated caller, passed explicitly into every
// cart operation.
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer key into the identity that owns it.
	Authenticate(ctx context.Context, key string) (*Identity, error)
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	secret []byte
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, secret string) AuthService {
	return &authService{users: users, tokens: tokens, secret: []byte(secret)}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, fieldErr("username", usernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: req.Username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldErr("username", usernameTaken)
		}
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return authResponse(user, token), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return authResponse(user, token), nil
}

func (s *authService) Authenticate(ctx context.Context, key string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(key, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	// The signature only proves we minted it; the store decides it is live.
	t, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if t.UserID.String() != claims.Subject {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &Identity{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff}, nil
}

// issueToken returns the user's stored token, minting one on first use.
func (s *authService) issueToken(ctx context.Context, user *model.User) (string, error) {
	existing, err := s.tokens.FindByUserID(ctx, user.ID)
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:  user.ID.String(),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	stored, err := s.tokens.GetOrCreate(ctx, &model.AuthToken{Key: key, UserID: user.ID})
	if err != nil {
		return "", err
	}
	return stored.Key, nil
}

func authResponse(u *model.User, token string) *dto.AuthResponse {
	return &dto.AuthResponse{
		User:  dto.UserResponse{ID: u.ID.String(), Username: u.Username},
		Token: token,
	}
}
