package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, productRepo: productRepo}
}

// priceは今の商品価格（カートはスナップショットを持たない）
type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items       []CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (*CartResponse, error) {
	return u.buildCartResponse(ctx, userID)
}

// カートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, productID int64, qty int64) (*CartResponse, error) {
	if productID <= 0 || qty < 1 {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "Product ID and quantity are required")
	}

	//論理削除済み・存在しない商品は入れられない
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.UpsertByUserAndProduct(ctx, userID, productID, qty); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to add item to cart")
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更。0以下は削除扱い。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, qty int64) (*CartResponse, error) {
	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の明細は触れない
	if item.UserID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "Access denied")
	}

	if qty <= 0 {
		if err := u.cartRepo.DeleteByID(ctx, cartItemID); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
		}
		return u.buildCartResponse(ctx, userID)
	}

	if err := u.cartRepo.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (*CartResponse, error) {
	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.UserID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "Access denied")
	}

	if err := u.cartRepo.DeleteByID(ctx, cartItemID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to remove item from cart")
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if err := u.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to clear cart")
	}
	return nil
}

// 明細と今の商品情報をまとめてCartResponseを作る。
// 商品が消えている（論理削除済み）明細は表示しない。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (*CartResponse, error) {
	items, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(it.Quantity))

		respItems = append(respItems, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			SKU:       p.SKU,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})

		total = total.Add(subtotal)
	}

	return &CartResponse{
		Items:       respItems,
		TotalAmount: total,
		ItemCount:   len(respItems),
	}, nil
}
