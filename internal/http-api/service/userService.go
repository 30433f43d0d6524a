package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/mail"
	"reviewhub/internal/metrics"
	"reviewhub/internal/middleware/auth"
)

type UserService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error)
	// UpdateMe applies a self-edit; the role field is ignored unless the
	// actor is a superuser.
	UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	userRepo repository.UserRepository
	mailer   mail.Mailer
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, mailer mail.Mailer, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}

	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create is the admin-side variant of signup: same normalization and
// reservations, plus an optional role.
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if strings.EqualFold(req.Username, reservedUsername) {
		return nil, ErrReservedUsername
	}

	email := strings.ToLower(req.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}
	if _, err := s.userRepo.FindByUsernameFold(ctx, req.Username); err == nil {
		return nil, ErrNameInUse
	}

	role := models.RoleUser
	if req.Role != nil {
		role = *req.Role
	}

	code := uuid.New().String()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         req.Username,
		Email:            email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Bio:              req.Bio,
		Role:             role,
		ConfirmationCode: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			if repository.UniqueConstraint(err) == repository.UserEmailIndex {
				return nil, ErrEmailInUse
			}
			return nil, ErrNameInUse
		}
		return nil, err
	}

	// admin-created users still authenticate through the code exchange
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.SendConfirmationCode(mailCtx, user.Email, user.Username, code); err != nil {
			metrics.MailFailures.Inc()
			s.logger.Error("confirmation mail delivery failed",
				"username", user.Username,
				"error", err,
			)
		}
	}()

	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, user, req, true); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}

	// role stays read-only for a self-edit; a submitted role field is
	// ignored rather than rejected
	return user, s.applyUpdate(ctx, user, req, actor.IsSuperuser)
}

func (s *userService) applyUpdate(ctx context.Context, user *models.User, req dto.UpdateUserRequest, allowRole bool) error {
	if req.Username != nil && *req.Username != user.Username {
		if strings.EqualFold(*req.Username, reservedUsername) {
			return ErrReservedUsername
		}
		// a case-only change of one's own name passes the folded lookup
		if existing, err := s.userRepo.FindByUsernameFold(ctx, *req.Username); err == nil && existing.ID != user.ID {
			return ErrNameInUse
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
				return ErrEmailInUse
			}
			user.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Role != nil && allowRole {
		user.Role = *req.Role
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			if repository.UniqueConstraint(err) == repository.UserEmailIndex {
				return ErrEmailInUse
			}
			return ErrNameInUse
		}
		return err
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
