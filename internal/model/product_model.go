package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Brand         string    `gorm:"type:varchar(255)"`
	Description   string    `gorm:"type:text"`
	SellPrice     int       `gorm:"not null"`
	StockQuantity int       `gorm:"not null;default:0;check:stock_quantity >= 0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
