package model

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount     int       `gorm:"not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Tid        string    `gorm:"type:varchar(100);uniqueIndex"`
	Aid        string    `gorm:"type:varchar(100)"`
	ApprovedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Order Order `gorm:"foreignKey:OrderId"`
}

func (Payment) TableName() string {
	return "payments"
}
