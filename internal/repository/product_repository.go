package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 一覧検索
type ProductListQuery struct {
	CategoryID *int64
	BrandID    *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Limit      int
	Offset     int
}

// 商品の永続化（保存・取得）だけを約束。論理削除済みは常に除外。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}

// 在庫の更新だけを約束。
type InventoryRepository interface {
	// 在庫が足りるときだけ減らす。減らせなかったらfalse。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
