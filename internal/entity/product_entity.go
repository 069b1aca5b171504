package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID
	Name        string
	Brand       string
	Description string
	// SellPrice is the live catalog price snapshotted onto order lines.
	SellPrice int
	// StockQuantity is the available-quantity counter of the stock ledger.
	// Mutated only through conditional reserve/release.
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
