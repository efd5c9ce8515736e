package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/platform/logger"
	"github.com/phrazzld/overload-api/internal/service/auth"
	"github.com/phrazzld/overload-api/internal/store"
)

// UserService registers and authenticates users.
type UserService interface {
	// Register creates a user. Duplicate usernames or emails fail with
	// store.ErrUsernameExists or store.ErrEmailExists.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate resolves login as an email when it contains '@' and as a
	// username otherwise, then checks password. Any mismatch, including an
	// unknown login, fails with ErrInvalidCredentials.
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)

	// GetUser returns store.ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	db        *sql.DB
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) UserService {
	if db == nil {
		panic("db cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:        db,
		userStore: userStore,
		verifier:  verifier,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

func (s *userServiceImpl) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		log.Debug("rejected registration", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "invalid user", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration with existing username or email",
				slog.String("error", err.Error()))
		} else {
			log.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, NewServiceError("register", "could not create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	login, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	login = strings.TrimSpace(login)

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userStore.GetByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = s.userStore.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("login for unknown user")
			return nil, NewServiceError("authenticate", "unknown login", ErrInvalidCredentials)
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, NewServiceError("authenticate", "could not look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
			return nil, NewServiceError("authenticate", "password mismatch", ErrInvalidCredentials)
		}
		log.Error("failed to verify password",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, NewServiceError("authenticate", "could not verify password", err)
	}

	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, NewServiceError("get_user", "could not load user", err)
	}
	return user, nil
}
