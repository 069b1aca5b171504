package model

import (
	"time"

	"github.com/google/uuid"
)

type Refund struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId           uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId            uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentId         uuid.UUID `gorm:"type:uuid;not null"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	RequestedReason   string    `gorm:"type:text"`
	RejectedReason    string    `gorm:"type:text"`
	TotalRefundAmount int       `gorm:"not null;default:0"`
	RefundMileage     int       `gorm:"not null;default:0"`
	PgRefundId        string    `gorm:"type:varchar(100)"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	Lines   []RefundLine `gorm:"foreignKey:RefundId"`
	Order   Order        `gorm:"foreignKey:OrderId"`
	User    User         `gorm:"foreignKey:UserId"`
	Payment Payment      `gorm:"foreignKey:PaymentId"`
}

func (Refund) TableName() string {
	return "refunds"
}

type RefundLine struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefundId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_refund_order_line"`
	OrderLineId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_refund_order_line"`
	RequestedQty     int       `gorm:"not null"`
	ApprovedQty      int       `gorm:"not null;default:0"`
	UnitRefundAmount int       `gorm:"not null"`
	LineRefundAmount int       `gorm:"not null;default:0"`

	Refund    Refund    `gorm:"foreignKey:RefundId"`
	OrderLine OrderLine `gorm:"foreignKey:OrderLineId"`
}

func (RefundLine) TableName() string {
	return "refund_lines"
}
