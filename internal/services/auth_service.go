package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wishnest/internal/apperrors"
	"wishnest/internal/models"
	"wishnest/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login and token validation. The rest of the
// system only ever sees the resolved user identity, never credentials.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password and returns a
// fresh token so the client is logged in right after signup.
func (s *AuthService) RegisterUser(user *models.User) (string, error) {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)

	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return "", apperrors.New(apperrors.Conflict, fmt.Sprintf("username '%s' already taken", user.Username))
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return "", apperrors.New(apperrors.Conflict, fmt.Sprintf("email '%s' already registered", user.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Unexpected, "failed to hash password", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Lost the race against a concurrent signup for the same handle.
			return "", apperrors.New(apperrors.Conflict, "username or email already registered")
		}
		return "", apperrors.Wrap(apperrors.Unexpected, "failed to register user", err)
	}

	return s.issueToken(user)
}

// LoginUser authenticates with either email or username plus password.
// Both failure modes return the same generic error so the response never
// reveals which part was wrong.
func (s *AuthService) LoginUser(emailOrUsername, password string) (string, *models.User, error) {
	identifier := strings.ToLower(strings.TrimSpace(emailOrUsername))
	if identifier == "" || password == "" {
		return "", nil, errors.New("invalid credentials")
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(identifier)
	} else {
		user, err = s.userRepo.GetByUsername(identifier)
	}
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CurrentUser resolves the authenticated user's own record.
func (s *AuthService) CurrentUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, "failed to load user", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Unexpected, "failed to generate token", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
