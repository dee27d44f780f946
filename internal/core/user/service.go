package user

import (
	"context"
	"log/slog"

	"github.com/kinora/kinora/internal/platform/apperr"
	"github.com/kinora/kinora/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListUsers(context context.Context) ([]*User, error) {
	return service.repo.List(context)
}

func (service *Service) GetUser(context context.Context, id int64) (*User, error) {
	return service.repo.Get(context, id)
}

// CreateUser validates the payload, backfills the id (when zero) and the
// display name (when blank), and persists the user.
func (service *Service) CreateUser(context context.Context, user *User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	if user.ID == 0 {
		id, err := service.repo.NextID(context)
		if err != nil {
			return err
		}
		user.ID = id
	}

	user.Normalize()

	if err := service.repo.Create(context, user); err != nil {
		return err
	}

	service.logger.Info("user_created",
		slog.Int64("user_id", user.ID),
		slog.String("login", user.Login),
	)
	return nil
}

// UpdateUser overwrites an existing user. The name backfill is re-applied,
// so blanking the display name reverts it to the login.
func (service *Service) UpdateUser(context context.Context, user *User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	// id 0 is "never assigned", which reads as a missing resource.
	if err := service.checkUserExists(context, user.ID); err != nil {
		return err
	}

	user.Normalize()

	if err := service.repo.Update(context, user); err != nil {
		return err
	}

	service.logger.Info("user_updated", slog.Int64("user_id", user.ID))
	return nil
}

func (service *Service) DeleteAllUsers(context context.Context) error {
	if err := service.repo.DeleteAll(context); err != nil {
		return err
	}

	service.logger.Warn("users_deleted_all")
	return nil
}

// # Friendship Operations

// AddFriend records a directed friendship edge. Both endpoints must exist.
// Re-adding an existing edge is a no-op.
func (service *Service) AddFriend(context context.Context, userID, friendID int64) error {
	if err := service.checkUserExists(context, userID); err != nil {
		return err
	}
	if err := service.checkUserExists(context, friendID); err != nil {
		return err
	}

	if err := service.repo.AddFriend(context, userID, friendID); err != nil {
		return err
	}

	service.logger.Info("friend_added",
		slog.Int64("user_id", userID),
		slog.Int64("friend_id", friendID),
	)
	return nil
}

// DeleteFriend removes a directed friendship edge. Removing an edge that
// does not exist is a no-op, but both users must exist.
func (service *Service) DeleteFriend(context context.Context, userID, friendID int64) error {
	if err := service.checkUserExists(context, userID); err != nil {
		return err
	}
	if err := service.checkUserExists(context, friendID); err != nil {
		return err
	}

	if err := service.repo.DeleteFriend(context, userID, friendID); err != nil {
		return err
	}

	service.logger.Info("friend_deleted",
		slog.Int64("user_id", userID),
		slog.Int64("friend_id", friendID),
	)
	return nil
}

// Friends resolves the user's outbound friend ids to full entities.
func (service *Service) Friends(context context.Context, userID int64) ([]*User, error) {
	if err := service.checkUserExists(context, userID); err != nil {
		return nil, err
	}
	return service.repo.ListFriends(context, userID)
}

// CommonFriends returns the intersection of two users' outbound friend
// sets, ordered by ascending user id.
func (service *Service) CommonFriends(context context.Context, userID, otherID int64) ([]*User, error) {
	if err := service.checkUserExists(context, userID); err != nil {
		return nil, err
	}
	if err := service.checkUserExists(context, otherID); err != nil {
		return nil, err
	}
	return service.repo.ListCommonFriends(context, userID, otherID)
}

// # Helpers

func (service *Service) checkUserExists(context context.Context, id int64) error {
	if id == 0 {
		return apperr.NotFoundID("User", id)
	}
	exists, err := service.repo.Exists(context, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundID("User", id)
	}
	return nil
}

func validateUser(user *User) error {
	validator := &validate.Validator{}

	validator.Required(FieldEmail, user.Email)
	if user.Email != "" {
		validator.Email(FieldEmail, user.Email)
	}
	validator.Required(FieldLogin, user.Login).NoSpaces(FieldLogin, user.Login)
	validator.PastOrPresent(FieldBirthday, user.Birthday.Time)

	return validator.Err()
}
