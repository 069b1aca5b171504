package model

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	UsedPoint      int       `gorm:"not null;default:0"`
	TotalAmount    int       `gorm:"not null"`
	ShippingFee    int       `gorm:"not null;default:0"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	DeliveryStatus string    `gorm:"type:varchar(20);not null;default:'ORDERED'"`

	// Shipping snapshot, flattened.
	ShipRecipient     string `gorm:"type:varchar(100)"`
	ShipPhone         string `gorm:"type:varchar(50)"`
	ShipZoneCode      string `gorm:"type:varchar(20)"`
	ShipRoadAddress   string `gorm:"type:varchar(255)"`
	ShipDetailAddress string `gorm:"type:varchar(255)"`
	ShipMemo          string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Lines []OrderLine `gorm:"foreignKey:OrderId"`
	User  User        `gorm:"foreignKey:UserId"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderLine struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_order_product"`
	ProductId         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_order_product"`
	UnitPrice         int        `gorm:"not null"`
	Quantity          int        `gorm:"not null"`
	LineTotal         int        `gorm:"not null"`
	ConfirmedQuantity int        `gorm:"not null;default:0"`
	CartLineId        *uuid.UUID `gorm:"type:uuid"`

	Order   Order   `gorm:"foreignKey:OrderId"`
	Product Product `gorm:"foreignKey:ProductId"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
