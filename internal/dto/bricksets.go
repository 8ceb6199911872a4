package dto

import (
	"net/url"
	"strconv"
	"time"
)

// ProductionStatus tells whether a set is still manufactured.
type ProductionStatus string

// Production statuses.
const (
	ProductionActive  ProductionStatus = "ACTIVE"
	ProductionRetired ProductionStatus = "RETIRED"
)

// Valid reports whether s is a known status.
func (s ProductionStatus) Valid() bool {
	return s == ProductionActive || s == ProductionRetired
}

// Completeness tells whether all pieces are present.
type Completeness string

// Completeness values.
const (
	Complete   Completeness = "COMPLETE"
	Incomplete Completeness = "INCOMPLETE"
)

// Valid reports whether c is a known completeness value.
func (c Completeness) Valid() bool {
	return c == Complete || c == Incomplete
}

// Catalog defaults and limits.
const (
	DefaultOrdering = "-created_at"
	DefaultCurrency = "PLN"
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BrickSetOrderings lists the sort keys accepted by the brick set list.
var BrickSetOrderings = []string{
	"number", "-number",
	"created_at", "-created_at",
	"valuations_count", "-valuations_count",
	"total_likes", "-total_likes",
}

// OwnedBrickSetOrderings lists the sort keys accepted by the owned list.
var OwnedBrickSetOrderings = []string{
	"created_at", "-created_at",
	"valuations_count", "-valuations_count",
	"total_likes", "-total_likes",
}

// ValidOrdering reports whether ordering is one of allowed.
func ValidOrdering(ordering string, allowed []string) bool {
	for _, o := range allowed {
		if o == ordering {
			return true
		}
	}
	return false
}

// Error codes for catalog conflicts.
const (
	ConstraintBrickSetIdentity = "brickset_global_identity"
	ConstraintValuationUnique  = "valuation_unique_user_brickset"
)

// DuplicateErrorBody is the 409 body for catalog uniqueness violations.
type DuplicateErrorBody struct {
	Detail     string `json:"detail"`
	Constraint string `json:"constraint,omitempty"`
}

// Page is a paginated list response.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// BrickSetFilters are the list query parameters kept by the client. Flags
// filter only when true.
type BrickSetFilters struct {
	Q                string
	ProductionStatus ProductionStatus
	Completeness     Completeness
	HasInstructions  bool
	HasBox           bool
	IsFactorySealed  bool
	Ordering         string
	Page             int
	PageSize         int
}

// DefaultBrickSetFilters returns the filters of a fresh list.
func DefaultBrickSetFilters() BrickSetFilters {
	return BrickSetFilters{Ordering: DefaultOrdering, Page: 1, PageSize: DefaultPageSize}
}

// Values encodes the filters, leaving out every parameter at its default.
func (f BrickSetFilters) Values() url.Values {
	v := url.Values{}
	if f.Q != "" {
		v.Set("q", f.Q)
	}
	if f.ProductionStatus != "" {
		v.Set("production_status", string(f.ProductionStatus))
	}
	if f.Completeness != "" {
		v.Set("completeness", string(f.Completeness))
	}
	if f.HasInstructions {
		v.Set("has_instructions", "true")
	}
	if f.HasBox {
		v.Set("has_box", "true")
	}
	if f.IsFactorySealed {
		v.Set("is_factory_sealed", "true")
	}
	if f.Ordering != "" && f.Ordering != DefaultOrdering {
		v.Set("ordering", f.Ordering)
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 && f.PageSize != DefaultPageSize {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return v
}

// TopValuation is the most liked valuation shown on a list card.
type TopValuation struct {
	ID         int64  `json:"id"`
	Value      int    `json:"value"`
	Currency   string `json:"currency"`
	LikesCount int    `json:"likes_count"`
	UserID     int64  `json:"user_id"`
}

// BrickSetListItem is one entry of the brick set list.
type BrickSetListItem struct {
	ID                   int64            `json:"id"`
	Number               int              `json:"number"`
	ProductionStatus     ProductionStatus `json:"production_status"`
	Completeness         Completeness     `json:"completeness"`
	HasInstructions      bool             `json:"has_instructions"`
	HasBox               bool             `json:"has_box"`
	IsFactorySealed      bool             `json:"is_factory_sealed"`
	OwnerID              int64            `json:"owner_id"`
	OwnerInitialEstimate *int             `json:"owner_initial_estimate"`
	ValuationsCount      int              `json:"valuations_count"`
	TotalLikes           int              `json:"total_likes"`
	TopValuation         *TopValuation    `json:"top_valuation"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// BrickSetValuation is a valuation embedded in the brick set detail.
type BrickSetValuation struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Value      int       `json:"value"`
	Currency   string    `json:"currency"`
	Comment    *string   `json:"comment"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// BrickSetDetail is returned by GET /bricksets/{id}.
type BrickSetDetail struct {
	ID                   int64               `json:"id"`
	Number               int                 `json:"number"`
	ProductionStatus     ProductionStatus    `json:"production_status"`
	Completeness         Completeness        `json:"completeness"`
	HasInstructions      bool                `json:"has_instructions"`
	HasBox               bool                `json:"has_box"`
	IsFactorySealed      bool                `json:"is_factory_sealed"`
	OwnerID              int64               `json:"owner_id"`
	OwnerInitialEstimate *int                `json:"owner_initial_estimate"`
	ValuationsCount      int                 `json:"valuations_count"`
	TotalLikes           int                 `json:"total_likes"`
	Valuations           []BrickSetValuation `json:"valuations"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// CreateBrickSetRequest is the POST /bricksets payload.
type CreateBrickSetRequest struct {
	Number               int              `json:"number"`
	ProductionStatus     ProductionStatus `json:"production_status"`
	Completeness         Completeness     `json:"completeness"`
	HasInstructions      bool             `json:"has_instructions"`
	HasBox               bool             `json:"has_box"`
	IsFactorySealed      bool             `json:"is_factory_sealed"`
	OwnerInitialEstimate *int             `json:"owner_initial_estimate"`
}

// CreateValuationRequest is the POST /bricksets/{id}/valuations payload. An
// empty currency means PLN.
type CreateValuationRequest struct {
	Value    int    `json:"value"`
	Currency string `json:"currency,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// Valuation is returned after a valuation is created.
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

// Like is returned after a valuation is liked.
type Like struct {
	ValuationID int64     `json:"valuation_id"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBrickSet is one entry of GET /users/me/bricksets. Editable is false
// once someone else valued the set or the owner's valuation got a like.
type OwnedBrickSet struct {
	ID               int64            `json:"id"`
	Number           int              `json:"number"`
	ProductionStatus ProductionStatus `json:"production_status"`
	Completeness     Completeness     `json:"completeness"`
	ValuationsCount  int              `json:"valuations_count"`
	TotalLikes       int              `json:"total_likes"`
	Editable         bool             `json:"editable"`
}

// BrickSetRef identifies the set an owned valuation belongs to.
type BrickSetRef struct {
	ID     int64 `json:"id"`
	Number int   `json:"number"`
}

// OwnedValuation is one entry of GET /users/me/valuations.
type OwnedValuation struct {
	ID         int64       `json:"id"`
	BrickSet   BrickSetRef `json:"brickset"`
	Value      int         `json:"value"`
	Currency   string      `json:"currency"`
	LikesCount int         `json:"likes_count"`
	CreatedAt  time.Time   `json:"created_at"`
}
