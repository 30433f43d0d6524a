package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/mail"
	"reviewhub/internal/metrics"
	"reviewhub/internal/middleware/auth"
)

// reservedUsername collides with the /users/me route.
const reservedUsername = "me"

const mailTimeout = 10 * time.Second

// TokenClaims is the payload of an issued access token.
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup registers a user and dispatches the confirmation code.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges username + confirmation code for a signed token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mailer    mail.Mailer
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	mailer mail.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if strings.EqualFold(username, reservedUsername) {
		return nil, ErrReservedUsername
	}

	// only the email is normalized; username keeps its case but uniqueness
	// is checked case-insensitively
	email = strings.ToLower(email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}
	if _, err := s.userRepo.FindByUsernameFold(ctx, username); err == nil {
		return nil, ErrNameInUse
	}

	code := uuid.New().String()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// the unique indexes are the source of truth; the lookups above are
		// just the early rejection
		if repository.IsUniqueViolation(err) {
			if repository.UniqueConstraint(err) == repository.UserEmailIndex {
				return nil, ErrEmailInUse
			}
			return nil, ErrNameInUse
		}
		return nil, err
	}

	metrics.SignupsTotal.Inc()
	s.deliverCode(user, code)

	return user, nil
}

// deliverCode dispatches the confirmation mail off the request path. Failures
// are logged and counted, never surfaced to the signup caller.
func (s *authService) deliverCode(user *models.User, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := s.mailer.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
			metrics.MailFailures.Inc()
			s.logger.Error("confirmation mail delivery failed",
				"username", user.Username,
				"error", err,
			)
		}
	}()
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if err := auth.VerifyCode(user.ConfirmationCode, code); err != nil {
		return "", ErrInvalidConfirmationCode
	}

	return s.generateToken(user)
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
