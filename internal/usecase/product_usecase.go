package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

// GET /products
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (u *ProductUsecase) List(ctx context.Context, q repo.ProductListQuery) (*ProductListResponse, error) {
	products, err := u.products.List(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &ProductListResponse{Products: products, Count: len(products)}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (*model.Product, error) {
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &p, nil
}

func (u *ProductUsecase) Create(ctx context.Context, p model.Product) (*model.Product, error) {
	created, err := u.products.Create(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return nil, NewHTTPError(http.StatusConflict, "Product with this SKU already exists")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to create product")
	}
	return &created, nil
}

// 部分更新。nilのフィールドは今の値のまま。
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	CategoryID     *int64
	BrandID        *int64
	SKU            *string
	StockQuantity  *int64
	Horsepower     *int64
	FuelType       *string
	PropulsionType *string
	Weight         *float64
	WarrantyYears  *int
}

func (u *ProductUsecase) Update(ctx context.Context, id int64, in UpdateProductInput) (*model.Product, error) {
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		p.BrandID = *in.BrandID
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.Horsepower != nil {
		p.Horsepower = *in.Horsepower
	}
	if in.FuelType != nil {
		p.FuelType = *in.FuelType
	}
	if in.PropulsionType != nil {
		p.PropulsionType = *in.PropulsionType
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.WarrantyYears != nil {
		p.WarrantyYears = *in.WarrantyYears
	}

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, NewHTTPError(http.StatusConflict, "Product with this SKU already exists")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "Update failed")
	}

	updated, err := u.products.FindByID(ctx, id)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &updated, nil
}

func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.products.SoftDelete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Delete failed")
	}
	return nil
}
