package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testProduct(id int64, priceStr string) model.Product {
	return model.Product{
		ID:    id,
		Name:  "F150 Outboard",
		SKU:   "OB-F150",
		Price: price(priceStr),
	}
}

// 同じ商品を2回入れると行は増えず数量だけ加算される
func TestAddItemSameProductTwiceIncrements(t *testing.T) {
	cartRepo := newMemCartRepo()

	productRepo := new(mockProductRepo)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(testProduct(1, "10.00"), nil)

	u := NewCartUsecase(cartRepo, productRepo)
	ctx := context.Background()

	_, err := u.AddItem(ctx, testUserID, 1, 2)
	assert.NoError(t, err)

	resp, err := u.AddItem(ctx, testUserID, 1, 3)
	assert.NoError(t, err)

	if assert.Len(t, resp.Items, 1) {
		assert.Equal(t, int64(5), resp.Items[0].Quantity)
		assert.True(t, resp.Items[0].Subtotal.Equal(price("50.00")))
	}
	assert.Equal(t, 1, resp.ItemCount)
	assert.True(t, resp.TotalAmount.Equal(price("50.00")))
}

func TestAddItemUnknownProduct(t *testing.T) {
	productRepo := new(mockProductRepo)
	productRepo.On("FindByID", mock.Anything, int64(404)).
		Return(model.Product{}, repo.ErrNotFound)

	u := NewCartUsecase(newMemCartRepo(), productRepo)

	resp, err := u.AddItem(context.Background(), testUserID, 404, 1)

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusNotFound, "Product not found")
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	u := NewCartUsecase(newMemCartRepo(), new(mockProductRepo))

	resp, err := u.AddItem(context.Background(), testUserID, 1, 0)

	assert.Nil(t, resp)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
}

func TestGetCartComputesTotals(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 1))
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 2, 2))

	productRepo := new(mockProductRepo)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(testProduct(1, "5299.00"), nil)
	productRepo.On("FindByID", mock.Anything, int64(2)).Return(testProduct(2, "149.99"), nil)

	u := NewCartUsecase(cartRepo, productRepo)

	resp, err := u.GetCart(ctx, testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.ItemCount)
	assert.True(t, resp.TotalAmount.Equal(price("5598.98")),
		"total = %s", resp.TotalAmount.String())
}

// 商品が論理削除されていたらその明細は表示しない
func TestGetCartSkipsDeletedProducts(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 1))
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 2, 1))

	productRepo := new(mockProductRepo)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(testProduct(1, "100.00"), nil)
	productRepo.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{}, repo.ErrNotFound)

	u := NewCartUsecase(cartRepo, productRepo)

	resp, err := u.GetCart(ctx, testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ItemCount)
	assert.True(t, resp.TotalAmount.Equal(price("100.00")))
}

func TestUpdateItemWrongOwner(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	// 別ユーザーの明細（ID=1になる）
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, 8, 1, 2))

	u := NewCartUsecase(cartRepo, new(mockProductRepo))

	resp, err := u.UpdateItem(ctx, testUserID, 1, 5)

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusForbidden, "Access denied")

	// 数量は変わっていない
	item, err := cartRepo.FindByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), item.Quantity)
}

func TestUpdateItemChangesQuantity(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 2))

	productRepo := new(mockProductRepo)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(testProduct(1, "10.00"), nil)

	u := NewCartUsecase(cartRepo, productRepo)

	resp, err := u.UpdateItem(ctx, testUserID, 1, 7)

	assert.NoError(t, err)
	if assert.Len(t, resp.Items, 1) {
		assert.Equal(t, int64(7), resp.Items[0].Quantity)
	}
}

// 数量0以下は削除扱い
func TestUpdateItemZeroQuantityRemoves(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 2))

	u := NewCartUsecase(cartRepo, new(mockProductRepo))

	resp, err := u.UpdateItem(ctx, testUserID, 1, 0)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.ItemCount)

	_, err = cartRepo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUpdateItemNotFound(t *testing.T) {
	u := NewCartUsecase(newMemCartRepo(), new(mockProductRepo))

	resp, err := u.UpdateItem(context.Background(), testUserID, 999, 1)

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusNotFound, "Cart item not found")
}

func TestRemoveItemWrongOwner(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, 8, 1, 2))

	u := NewCartUsecase(cartRepo, new(mockProductRepo))

	resp, err := u.RemoveItem(ctx, testUserID, 1)

	assert.Nil(t, resp)
	assertHTTPError(t, err, http.StatusForbidden, "Access denied")
}

func TestRemoveItemDeletesRow(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 2))

	u := NewCartUsecase(cartRepo, new(mockProductRepo))

	resp, err := u.RemoveItem(ctx, testUserID, 1)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.ItemCount)
}

func TestClearEmptiesOnlyOwnCart(t *testing.T) {
	cartRepo := newMemCartRepo()
	ctx := context.Background()
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, testUserID, 1, 2))
	assert.NoError(t, cartRepo.UpsertByUserAndProduct(ctx, 8, 1, 1))

	u := NewCartUsecase(cartRepo, new(mockProductRepo))

	assert.NoError(t, u.Clear(ctx, testUserID))

	mine, _ := cartRepo.ListByUserID(ctx, testUserID)
	theirs, _ := cartRepo.ListByUserID(ctx, 8)
	assert.Empty(t, mine)
	assert.Len(t, theirs, 1)
}
