package auth

import (
	"context"
	"errors"

	"storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

// LogoutUsecase は token_version を上げて発行済みトークンを無効にする。
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, sess session.Session) error {
	userID, ok := sess.UserID()
	if !ok {
		return usecase.NewError(usecase.KindUnauthenticated, "unauthorized")
	}

	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.NewError(usecase.KindUnauthenticated, "unauthorized")
		}
		return usecase.WrapError(usecase.KindBackend, "db error", err)
	}
	return nil
}
