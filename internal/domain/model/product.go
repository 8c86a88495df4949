package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 船外機の商品。価格はnumeric(12,2)で保持する。
type Product struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CategoryID     int64           `gorm:"not null;index" json:"category_id"`
	BrandID        int64           `gorm:"not null;index" json:"brand_id"`
	SKU            string          `gorm:"column:sku;type:varchar(50);uniqueIndex;not null" json:"sku"`
	StockQuantity  int64           `gorm:"not null;default:0" json:"stock_quantity"`
	Horsepower     int64           `json:"horsepower"`
	FuelType       string          `gorm:"type:varchar(30)" json:"fuel_type"`
	PropulsionType string          `gorm:"type:varchar(30)" json:"propulsion_type"`
	Weight         float64         `gorm:"type:numeric(10,2)" json:"weight"`
	WarrantyYears  int             `gorm:"not null;default:1" json:"warranty_years"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
