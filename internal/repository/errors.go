package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// unique制約違反（email / username / sku）
	ErrConflict = errors.New("conflict")

	// 在庫不足で減算できなかった
	ErrInsufficientStock = errors.New("insufficient stock")
)
