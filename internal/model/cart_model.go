package model

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Lines []CartLine `gorm:"foreignKey:CartId"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartLine struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_cart_product"`
	ProductId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_cart_product"`
	Quantity  int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Cart    Cart    `gorm:"foreignKey:CartId"`
	Product Product `gorm:"foreignKey:ProductId"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}
