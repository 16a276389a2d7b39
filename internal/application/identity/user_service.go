package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/identity"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages staff and customer accounts
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewUserService creates a new user service. sessionTTL bounds how long a
// user-wide revocation must be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create registers an account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if input.RobawsClientID != "" || input.CustomerType != "" {
		user.LinkRobawsClient(input.RobawsClientID, input.CustomerType)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	dto := ToUserDTO(user)
	return &dto, nil
}

// GetByID returns one account
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns a page of accounts
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserDTO], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	users, total, err := s.userRepo.FindAll(ctx, f, identity.Role(filter.Role))
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = ToUserDTO(&users[i])
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// Update changes name, role or Robaws link. A role change ends the user's sessions.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil && identity.Role(*input.Role) != user.Role {
		if err := user.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
		roleChanged = true
	}
	if input.RobawsClientID != nil || input.CustomerType != nil {
		clientID, customerType := user.RobawsClientID, user.CustomerType
		if input.RobawsClientID != nil {
			clientID = *input.RobawsClientID
		}
		if input.CustomerType != nil {
			customerType = *input.CustomerType
		}
		user.LinkRobawsClient(clientID, customerType)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if roleChanged {
		s.endSessions(ctx, user.ID)
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Activate re-enables an account and clears its lock
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Deactivate blocks an account and ends its sessions. Admins cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, actorID, id uuid.UUID) (*UserDTO, error) {
	if actorID == id {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.endSessions(ctx, user.ID)
	s.logger.Info("User deactivated", zap.String("user_id", id.String()), zap.String("by", actorID.String()))
	dto := ToUserDTO(user)
	return &dto, nil
}

// ResetPassword sets a new password chosen by an admin
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	s.endSessions(ctx, user.ID)
	return nil
}

func (s *UserService) endSessions(ctx context.Context, id uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUser(ctx, id.String(), s.sessionTTL); err != nil {
		s.logger.Warn("Failed to end user sessions", zap.String("user_id", id.String()), zap.Error(err))
	}
}
