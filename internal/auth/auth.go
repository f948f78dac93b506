package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shop_service/internal/lib/jwt"
	sl "shop_service/internal/lib/logger"
	"shop_service/internal/lib/passhash"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrNotOwner           = errors.New("requester does not own the account")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	secret      string
	tokenTTL    time.Duration

	// dummyHash is compared against on the unknown-email login path so
	// that path costs the same as a real password check.
	dummyHash []byte
}

type UserSaver interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (uid uuid.UUID, err error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	secret string,
	tokenTTL time.Duration,
) *Auth {
	dummyHash, err := passhash.Hash(uuid.NewString())
	if err != nil {
		// bcrypt only fails on oversized input; a fresh uuid never is.
		panic("auth: failed to prepare dummy hash: " + err.Error())
	}

	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		secret:      secret,
		tokenTTL:    tokenTTL,
		dummyHash:   dummyHash,
	}
}

// Register hashes the password and stores a new identity record.
func (a *Auth) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	passHash, err := passhash.Hash(password)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("uid", id.String()))

	return id, nil
}

// Login checks the credentials and mints an access token. Unknown email and
// wrong password both come back as ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.User(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			passhash.Verify(password, a.dummyHash)

			log.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !passhash.Verify(password, user.PassHash) {
		log.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewToken(user, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("uid", user.ID.String()))

	return token, nil
}

// DeleteAccount removes the target identity. Only the owner may delete it.
func (a *Auth) DeleteAccount(ctx context.Context, requesterID, targetID uuid.UUID) error {
	const op = "auth.DeleteAccount"

	log := a.log.With(slog.String("op", op))

	if requesterID != targetID {
		log.Warn("delete attempt by non-owner",
			slog.String("requester", requesterID.String()),
			slog.String("target", targetID.String()),
		)
		return fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	if err := a.usrSaver.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Error("failed to delete user", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account deleted", slog.String("uid", targetID.String()))

	return nil
}
