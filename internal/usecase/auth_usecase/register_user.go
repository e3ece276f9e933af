package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// パスワードの最小文字数
const minPasswordLength = 8

// 会員登録の入力
type RegisterUserInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

var (
	// 入力が不正
	ErrInvalidEmailFormat = usecase.NewError(usecase.KindValidation, "invalid email format")
	ErrPasswordTooShort   = usecase.NewError(usecase.KindValidation, "password too short")
	ErrWeakPassword       = usecase.NewError(usecase.KindValidation, "weak password")

	// 競合
	ErrEmailAlreadyExists = usecase.NewError(usecase.KindConflict, "email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		idGen:    idGen,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	email := normalizeEmail(in.Email)
	if err := checkRegistration(email, in.Password); err != nil {
		return RegisterUserOutput{}, err
	}

	// 先に引いて分かりやすいエラーにする（最終的には一意制約）
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return RegisterUserOutput{}, ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return RegisterUserOutput{}, usecase.WrapError(usecase.KindBackend, "db error", err)
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterUserOutput{}, usecase.WrapError(usecase.KindBackend, "hash error", err)
	}

	now := u.clock.Now()
	user := model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return RegisterUserOutput{}, ErrEmailAlreadyExists
		}
		return RegisterUserOutput{}, usecase.WrapError(usecase.KindBackend, "db error", err)
	}
	return RegisterUserOutput{User: user}, nil
}

func checkRegistration(email, password string) error {
	if addr, err := mail.ParseAddress(email); email == "" || err != nil || addr.Address != email {
		return ErrInvalidEmailFormat
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if _, weak := weakPasswords[strings.ToLower(strings.TrimSpace(password))]; weak {
		return ErrWeakPassword
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
