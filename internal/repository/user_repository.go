package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複は ErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければ ErrNotFound
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する。無ければ ErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最後のログインなど
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１（サインアウト）
	IncrementTokenVersion(ctx context.Context, userID string) error
}
