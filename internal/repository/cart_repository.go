package repository

import (
	"context"

	"app/internal/domain/model"
)

// カート明細の永続化。カートはユーザーごとに1つ（cart_itemsがuser_idを直接持つ）。
type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)

	// 同一(user, product)は数量加算、無ければ新規作成
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// 注文確定後のクリアにも使う
	DeleteByUserID(ctx context.Context, userID int64) error
}
