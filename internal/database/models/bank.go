package models

import "time"

// Bank is the per-group vault that accumulates transfer taxes.
// It is mutated only by the transfer tax skim.
type Bank struct {
	GroupID           string    `bson:"group_id"`
	Balance           int64     `bson:"balance"`
	TotalTaxCollected int64     `bson:"total_tax_collected"`
	TotalTransfers    int64     `bson:"total_transfers"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}
