package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	log         *zap.Logger
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, cartRepo: cartRepo, productRepo: productRepo, log: log}
}

type PlaceOrderInput struct {
	ShippingAddress model.Address
	BillingAddress  model.Address
	PaymentMethod   string
}

type OrderOutput struct {
	model.Order
	Items     []model.OrderItem `json:"items"`
	ItemCount int               `json:"item_count"`
}

// 確定対象の1行。priceはこの時点の単価で固定する。
type checkoutLine struct {
	productID int64
	quantity  int64
	price     decimal.Decimal
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (*OrderOutput, error) {
	if in.ShippingAddress.Empty() || in.BillingAddress.Empty() || in.PaymentMethod == "" {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "shipping_address, billing_address and payment_method are required")
	}

	//カート読み込み（論理削除済み商品の行は落とす）
	cartItems, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines := make([]checkoutLine, 0, len(cartItems))
	total := decimal.Zero

	for _, ci := range cartItems {
		p, err := u.productRepo.FindByID(ctx, ci.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines = append(lines, checkoutLine{
			productID: ci.ProductID,
			quantity:  ci.Quantity,
			price:     p.Price,
		})

		//total_amountはここで一度だけ計算する
		total = total.Add(p.Price.Mul(decimal.NewFromInt(ci.Quantity)))
	}

	if len(lines) == 0 {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "Cart is empty")
	}

	shippingJSON, err := json.Marshal(in.ShippingAddress)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to create order")
	}
	billingJSON, err := json.Marshal(in.BillingAddress)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to create order")
	}

	var out OrderOutput

	//注文行・明細行・在庫減算は1トランザクション。どれか失敗したら全部戻す。
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order := model.Order{
			OrderNumber:     uuid.NewString(),
			UserID:          userID,
			TotalAmount:     total,
			ShippingAddress: string(shippingJSON),
			BillingAddress:  string(billingJSON),
			PaymentMethod:   in.PaymentMethod,
			Status:          model.OrderStatusPending,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Failed to create order")
		}

		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, ln := range lines {
			//在庫が足りないならこの注文ごと失敗させる
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ln.productID, ln.quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "Failed to create order")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "Insufficient stock")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ln.productID,
				Quantity:  ln.quantity,
				Price:     ln.price,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Failed to create order")
		}

		order.ID = orderID
		out = OrderOutput{
			Order:     order,
			Items:     orderItems,
			ItemCount: len(orderItems),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	//カートのクリアはトランザクションの外。
	//失敗しても注文は成立済みなので巻き戻さず、警告ログだけ残す。
	if err := u.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		u.log.Warn("cart clear failed after order commit",
			zap.Int64("user_id", userID),
			zap.Int64("order_id", out.Order.ID),
			zap.Error(err))
	}

	return &out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, OrderOutput{Order: o, Items: items, ItemCount: len(items)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, orderID int64) (*OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文は403
		if o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Access denied")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{Order: o, Items: items, ItemCount: len(items)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// 管理者用。statusだけを差し替える。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*OrderOutput, error) {
	if !status.Valid() {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "Invalid order status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{Order: o, Items: items, ItemCount: len(items)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
