package entity

import "time"

// BrickSet is a catalog entry. Number, status, completeness and the three
// flags together identify a set globally.
type BrickSet struct {
	ID                   int64     `json:"id"`
	OwnerID              int64     `json:"owner_id"`
	Number               int       `json:"number"`
	ProductionStatus     string    `json:"production_status"`
	Completeness         string    `json:"completeness"`
	HasInstructions      bool      `json:"has_instructions"`
	HasBox               bool      `json:"has_box"`
	IsFactorySealed      bool      `json:"is_factory_sealed"`
	OwnerInitialEstimate *int      `json:"owner_initial_estimate"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// SameIdentity reports whether b and o describe the same physical set.
func (b BrickSet) SameIdentity(o BrickSet) bool {
	return b.Number == o.Number &&
		b.ProductionStatus == o.ProductionStatus &&
		b.Completeness == o.Completeness &&
		b.HasInstructions == o.HasInstructions &&
		b.HasBox == o.HasBox &&
		b.IsFactorySealed == o.IsFactorySealed
}

// Valuation is one user's price estimate for a brick set.
type Valuation struct {
	ID         int64     `json:"id"`
	BrickSetID int64     `json:"brickset_id"`
	UserID     int64     `json:"user_id"`
	Value      int       `json:"value"`
	Currency   string    `json:"currency"`
	Comment    *string   `json:"comment"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Like records that a user endorsed a valuation.
type Like struct {
	ValuationID int64     `json:"valuation_id"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
