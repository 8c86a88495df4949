package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email/username重複はErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//ユーザー名から一件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// プロフィール更新（重複はErrConflict）
	Update(ctx context.Context, user *model.User) error
	//最終ログイン時刻だけを更新
	UpdateLastLogin(ctx context.Context, userID int64) error
}
