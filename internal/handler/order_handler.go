package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

var placeOrderRules = []validator.Ruleset{
	{Field: "shipping_address", Rules: "required"},
	{Field: "billing_address", Rules: "required"},
	{Field: "payment_method", Rules: "required|string|max:50"},
}

var updateStatusRules = []validator.Ruleset{
	{Field: "status", Rules: "required|string|max:20"},
}

func (h *OrderHandler) Index(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
	}

	orders, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHandler) Show(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
	}

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": out})
}

func (h *OrderHandler) Store(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
	}

	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, placeOrderRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		ShippingAddress: toAddress(data["shipping_address"]),
		BillingAddress:  toAddress(data["billing_address"]),
		PaymentMethod:   cast.ToString(data["payment_method"]),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   out,
	})
}

// 管理者専用。statusだけを差し替える。
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, updateStatusRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), id, model.OrderStatus(cast.ToString(data["status"])))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": out})
}

// bodyのネストしたオブジェクトをAddressにする
func toAddress(v interface{}) model.Address {
	var addr model.Address
	b, err := json.Marshal(v)
	if err != nil {
		return addr
	}
	_ = json.Unmarshal(b, &addr)
	return addr
}
