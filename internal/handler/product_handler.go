package handler

import (
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// /products のHTTP
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

var createProductRules = []validator.Ruleset{
	{Field: "name", Rules: "required|string|max:255"},
	{Field: "price", Rules: "required|numeric"},
	{Field: "category_id", Rules: "required|numeric"},
	{Field: "brand_id", Rules: "required|numeric"},
	{Field: "sku", Rules: "required|string|max:50"},
	{Field: "description", Rules: "nullable|string"},
	{Field: "stock_quantity", Rules: "nullable|numeric"},
	{Field: "horsepower", Rules: "nullable|numeric"},
	{Field: "fuel_type", Rules: "nullable|string|max:30"},
	{Field: "propulsion_type", Rules: "nullable|string|max:30"},
	{Field: "weight", Rules: "nullable|numeric"},
	{Field: "warranty_years", Rules: "nullable|numeric"},
}

func (h *ProductHandler) List(c echo.Context) error {
	q := repo.ProductListQuery{
		Search: c.QueryParam("search"),
		Limit:  20,
	}

	if v := c.QueryParam("category_id"); v != "" {
		id := cast.ToInt64(v)
		q.CategoryID = &id
	}
	if v := c.QueryParam("brand_id"); v != "" {
		id := cast.ToInt64(v)
		q.BrandID = &id
	}
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		q.MinPrice = &d
	}
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		q.MaxPrice = &d
	}
	if v := c.QueryParam("limit"); v != "" {
		q.Limit = cast.ToInt(v)
	}
	if v := c.QueryParam("offset"); v != "" {
		q.Offset = cast.ToInt(v)
	}

	out, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Show(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"product": p})
}

func (h *ProductHandler) Create(c echo.Context) error {
	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, createProductRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	price, err := toDecimal(data["price"])
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "price must be numeric"})
	}

	p := model.Product{
		Name:           cast.ToString(data["name"]),
		Description:    cast.ToString(data["description"]),
		Price:          price,
		CategoryID:     cast.ToInt64(data["category_id"]),
		BrandID:        cast.ToInt64(data["brand_id"]),
		SKU:            cast.ToString(data["sku"]),
		StockQuantity:  cast.ToInt64(data["stock_quantity"]),
		Horsepower:     cast.ToInt64(data["horsepower"]),
		FuelType:       cast.ToString(data["fuel_type"]),
		PropulsionType: cast.ToString(data["propulsion_type"]),
		Weight:         cast.ToFloat64(data["weight"]),
		WarrantyYears:  cast.ToInt(data["warranty_years"]),
	}
	if p.WarrantyYears == 0 {
		p.WarrantyYears = 1
	}

	created, err := h.uc.Create(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": created,
	})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.UpdateProductInput{
		Name:           strPtr(data, "name"),
		Description:    strPtr(data, "description"),
		SKU:            strPtr(data, "sku"),
		FuelType:       strPtr(data, "fuel_type"),
		PropulsionType: strPtr(data, "propulsion_type"),
	}

	if v, ok := data["price"]; ok {
		d, err := toDecimal(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "price must be numeric"})
		}
		in.Price = &d
	}
	if v, ok := data["category_id"]; ok {
		x := cast.ToInt64(v)
		in.CategoryID = &x
	}
	if v, ok := data["brand_id"]; ok {
		x := cast.ToInt64(v)
		in.BrandID = &x
	}
	if v, ok := data["stock_quantity"]; ok {
		x := cast.ToInt64(v)
		in.StockQuantity = &x
	}
	if v, ok := data["horsepower"]; ok {
		x := cast.ToInt64(v)
		in.Horsepower = &x
	}
	if v, ok := data["weight"]; ok {
		x := cast.ToFloat64(v)
		in.Weight = &x
	}
	if v, ok := data["warranty_years"]; ok {
		x := cast.ToInt(v)
		in.WarrantyYears = &x
	}

	updated, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"product": updated})
}

func (h *ProductHandler) Destroy(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// JSON経由の数値（float64）も文字列もdecimalにする
func toDecimal(v interface{}) (decimal.Decimal, error) {
	if s, ok := v.(string); ok {
		return decimal.NewFromString(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromFloat(f), nil
}
