package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/entity"
	"github.com/bricksvaluation/web/internal/repository"
)

const (
	maxSetNumber         = 9_999_999
	maxInitialEstimate   = 999_999
	maxValuation         = 999_999
	maxCurrencyLength    = 3
	msgFieldRequired     = "This field is required."
	msgInvalidInteger    = "A valid integer is required."
	msgInvalidBoolean    = "Must be a valid boolean."
	msgMinValueTemplate  = "Ensure this value is greater than or equal to %d."
	msgMaxValueTemplate  = "Ensure this value is less than or equal to %d."
	msgBadChoiceTemplate = "\"%s\" is not a valid choice."
)

var (
	ErrBrickSetNotFound  = errors.New("brick set not found")
	ErrBrickSetExists    = errors.New("brick set with this combination already exists")
	ErrValuationNotFound = errors.New("valuation not found")
	ErrValuationExists   = errors.New("valuation for this brick set already exists")
	ErrOwnValuation      = errors.New("cannot like own valuation")
	ErrLikeExists        = errors.New("like already exists")
)

// Pagination is a validated page request.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the index of the first item on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BrickSetQuery is a validated brick set list request.
type BrickSetQuery struct {
	Pagination
	Filter repository.BrickSetFilter
}

// ParsePagination reads page and page_size. Missing values take defaults.
func ParsePagination(values url.Values) (Pagination, error) {
	verr := &ValidationError{}
	p := parsePagination(values, verr)
	return p, verr.orNil()
}

// ParseBrickSetQuery validates the query string of the brick set list.
func ParseBrickSetQuery(values url.Values) (BrickSetQuery, error) {
	verr := &ValidationError{}
	q := BrickSetQuery{Pagination: parsePagination(values, verr)}
	f := &q.Filter

	f.Query = strings.TrimSpace(values.Get("q"))
	if s := values.Get("production_status"); s != "" {
		if !dto.ProductionStatus(s).Valid() {
			verr.add("production_status", fmt.Sprintf(msgBadChoiceTemplate, s))
		}
		f.ProductionStatus = s
	}
	if s := values.Get("completeness"); s != "" {
		if !dto.Completeness(s).Valid() {
			verr.add("completeness", fmt.Sprintf(msgBadChoiceTemplate, s))
		}
		f.Completeness = s
	}
	f.HasInstructions = parseFlag(values, "has_instructions", verr)
	f.HasBox = parseFlag(values, "has_box", verr)
	f.IsFactorySealed = parseFlag(values, "is_factory_sealed", verr)

	f.Ordering = dto.DefaultOrdering
	if s := values.Get("ordering"); s != "" {
		if !dto.ValidOrdering(s, dto.BrickSetOrderings) {
			verr.add("ordering", fmt.Sprintf(msgBadChoiceTemplate, s))
		}
		f.Ordering = s
	}

	f.Offset, f.Limit = q.Offset(), q.PageSize
	return q, verr.orNil()
}

func parsePagination(values url.Values, verr *ValidationError) Pagination {
	p := Pagination{Page: 1, PageSize: dto.DefaultPageSize}
	if n, ok := parseBounded(values, "page", 1, 0, verr); ok {
		p.Page = n
	}
	if n, ok := parseBounded(values, "page_size", 1, dto.MaxPageSize, verr); ok {
		p.PageSize = n
	}
	return p
}

// parseBounded reads an integer parameter; hi 0 means unbounded.
func parseBounded(values url.Values, key string, lo, hi int, verr *ValidationError) (int, bool) {
	s := values.Get(key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	switch {
	case err != nil:
		verr.add(key, msgInvalidInteger)
		return 0, false
	case n < lo:
		verr.add(key, fmt.Sprintf(msgMinValueTemplate, lo))
		return 0, false
	case hi > 0 && n > hi:
		verr.add(key, fmt.Sprintf(msgMaxValueTemplate, hi))
		return 0, false
	}
	return n, true
}

func parseFlag(values url.Values, key string, verr *ValidationError) *bool {
	s := values.Get(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		verr.add(key, msgInvalidBoolean)
		return nil
	}
	return &b
}

// CatalogService coordinates brick set browsing, creation and valuations.
type CatalogService struct {
	catalog repository.CatalogRepository
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListBrickSets returns one page of brick sets and the total match count.
func (s *CatalogService) ListBrickSets(ctx context.Context, q BrickSetQuery) ([]dto.BrickSetListItem, int, error) {
	summaries, total, err := s.catalog.ListBrickSets(ctx, q.Filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.BrickSetListItem, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, toListItem(sum))
	}
	return items, total, nil
}

// BrickSet returns the detail of one set with its valuations in creation order.
func (s *CatalogService) BrickSet(ctx context.Context, id int64) (*dto.BrickSetDetail, error) {
	b, err := s.catalog.FindBrickSet(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBrickSetNotFound) {
			return nil, ErrBrickSetNotFound
		}
		return nil, err
	}
	valuations, err := s.catalog.ListValuations(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.BrickSetDetail{
		ID:                   b.ID,
		Number:               b.Number,
		ProductionStatus:     dto.ProductionStatus(b.ProductionStatus),
		Completeness:         dto.Completeness(b.Completeness),
		HasInstructions:      b.HasInstructions,
		HasBox:               b.HasBox,
		IsFactorySealed:      b.IsFactorySealed,
		OwnerID:              b.OwnerID,
		OwnerInitialEstimate: b.OwnerInitialEstimate,
		Valuations:           make([]dto.BrickSetValuation, 0, len(valuations)),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
	for _, v := range valuations {
		detail.ValuationsCount++
		detail.TotalLikes += v.LikesCount
		detail.Valuations = append(detail.Valuations, dto.BrickSetValuation{
			ID:         v.ID,
			UserID:     v.UserID,
			Value:      v.Value,
			Currency:   v.Currency,
			Comment:    v.Comment,
			LikesCount: v.LikesCount,
			CreatedAt:  v.CreatedAt,
		})
	}
	return detail, nil
}

// CreateBrickSet validates the payload and stores the set for owner.
func (s *CatalogService) CreateBrickSet(ctx context.Context, ownerID int64, req dto.CreateBrickSetRequest) (*dto.BrickSetListItem, error) {
	if err := validateBrickSet(req); err != nil {
		return nil, err
	}

	created, err := s.catalog.CreateBrickSet(ctx, entity.BrickSet{
		OwnerID:              ownerID,
		Number:               req.Number,
		ProductionStatus:     string(req.ProductionStatus),
		Completeness:         string(req.Completeness),
		HasInstructions:      req.HasInstructions,
		HasBox:               req.HasBox,
		IsFactorySealed:      req.IsFactorySealed,
		OwnerInitialEstimate: req.OwnerInitialEstimate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrBrickSetDuplicate) {
			return nil, ErrBrickSetExists
		}
		return nil, err
	}

	item := toListItem(repository.BrickSetSummary{BrickSet: *created, Editable: true})
	return &item, nil
}

// CreateValuation validates the payload and stores userID's valuation.
func (s *CatalogService) CreateValuation(ctx context.Context, userID, brickSetID int64, req dto.CreateValuationRequest) (*dto.Valuation, error) {
	req.Currency = strings.TrimSpace(req.Currency)
	if req.Currency == "" {
		req.Currency = dto.DefaultCurrency
	}
	if err := validateValuation(req); err != nil {
		return nil, err
	}

	var comment *string
	if c := strings.TrimSpace(req.Comment); c != "" {
		comment = &c
	}

	v, err := s.catalog.CreateValuation(ctx, entity.Valuation{
		BrickSetID: brickSetID,
		UserID:     userID,
		Value:      req.Value,
		Currency:   req.Currency,
		Comment:    comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBrickSetNotFound):
			return nil, ErrBrickSetNotFound
		case errors.Is(err, repository.ErrValuationDuplicate):
			return nil, ErrValuationExists
		}
		return nil, err
	}

	return &dto.Valuation{
		ID:         v.ID,
		BrickSetID: v.BrickSetID,
		UserID:     v.UserID,
		Value:      v.Value,
		Currency:   v.Currency,
		Comment:    v.Comment,
		LikesCount: v.LikesCount,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}, nil
}

// LikeValuation records userID's like. Authors cannot like their own valuation.
func (s *CatalogService) LikeValuation(ctx context.Context, userID, valuationID int64) (*dto.Like, error) {
	v, err := s.catalog.FindValuation(ctx, valuationID)
	if err != nil {
		if errors.Is(err, repository.ErrValuationNotFound) {
			return nil, ErrValuationNotFound
		}
		return nil, err
	}
	if v.UserID == userID {
		return nil, ErrOwnValuation
	}

	like, err := s.catalog.CreateLike(ctx, valuationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrValuationNotFound):
			return nil, ErrValuationNotFound
		case errors.Is(err, repository.ErrLikeDuplicate):
			return nil, ErrLikeExists
		}
		return nil, err
	}
	return &dto.Like{ValuationID: like.ValuationID, UserID: like.UserID, CreatedAt: like.CreatedAt}, nil
}

// OwnedBrickSets lists the sets of ownerID. Unknown orderings fall back to
// the newest first.
func (s *CatalogService) OwnedBrickSets(ctx context.Context, ownerID int64, ordering string, page Pagination) ([]dto.OwnedBrickSet, int, error) {
	if !dto.ValidOrdering(ordering, dto.OwnedBrickSetOrderings) {
		ordering = dto.DefaultOrdering
	}
	summaries, total, err := s.catalog.ListBrickSets(ctx, repository.BrickSetFilter{
		OwnerID:  ownerID,
		Ordering: ordering,
		Offset:   page.Offset(),
		Limit:    page.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.OwnedBrickSet, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, dto.OwnedBrickSet{
			ID:               sum.ID,
			Number:           sum.Number,
			ProductionStatus: dto.ProductionStatus(sum.ProductionStatus),
			Completeness:     dto.Completeness(sum.Completeness),
			ValuationsCount:  sum.ValuationsCount,
			TotalLikes:       sum.TotalLikes,
			Editable:         sum.Editable,
		})
	}
	return items, total, nil
}

// OwnedValuations lists the valuations written by userID, newest first.
func (s *CatalogService) OwnedValuations(ctx context.Context, userID int64, page Pagination) ([]dto.OwnedValuation, int, error) {
	owned, total, err := s.catalog.ListValuationsByUser(ctx, userID, page.Offset(), page.PageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.OwnedValuation, 0, len(owned))
	for _, o := range owned {
		items = append(items, dto.OwnedValuation{
			ID:         o.ID,
			BrickSet:   dto.BrickSetRef{ID: o.BrickSetID, Number: o.BrickSetNumber},
			Value:      o.Value,
			Currency:   o.Currency,
			LikesCount: o.LikesCount,
			CreatedAt:  o.CreatedAt,
		})
	}
	return items, total, nil
}

func toListItem(s repository.BrickSetSummary) dto.BrickSetListItem {
	item := dto.BrickSetListItem{
		ID:                   s.ID,
		Number:               s.Number,
		ProductionStatus:     dto.ProductionStatus(s.ProductionStatus),
		Completeness:         dto.Completeness(s.Completeness),
		HasInstructions:      s.HasInstructions,
		HasBox:               s.HasBox,
		IsFactorySealed:      s.IsFactorySealed,
		OwnerID:              s.OwnerID,
		OwnerInitialEstimate: s.OwnerInitialEstimate,
		ValuationsCount:      s.ValuationsCount,
		TotalLikes:           s.TotalLikes,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if top := s.TopValuation; top != nil {
		item.TopValuation = &dto.TopValuation{
			ID:         top.ID,
			Value:      top.Value,
			Currency:   top.Currency,
			LikesCount: top.LikesCount,
			UserID:     top.UserID,
		}
	}
	return item
}

func validateBrickSet(req dto.CreateBrickSetRequest) error {
	verr := &ValidationError{}

	switch {
	case req.Number < 0:
		verr.add("number", fmt.Sprintf(msgMinValueTemplate, 0))
	case req.Number > maxSetNumber:
		verr.add("number", fmt.Sprintf(msgMaxValueTemplate, maxSetNumber))
	}

	switch {
	case req.ProductionStatus == "":
		verr.add("production_status", msgFieldRequired)
	case !req.ProductionStatus.Valid():
		verr.add("production_status", fmt.Sprintf(msgBadChoiceTemplate, req.ProductionStatus))
	}

	switch {
	case req.Completeness == "":
		verr.add("completeness", msgFieldRequired)
	case !req.Completeness.Valid():
		verr.add("completeness", fmt.Sprintf(msgBadChoiceTemplate, req.Completeness))
	}

	if e := req.OwnerInitialEstimate; e != nil {
		switch {
		case *e < 1:
			verr.add("owner_initial_estimate", fmt.Sprintf(msgMinValueTemplate, 1))
		case *e > maxInitialEstimate:
			verr.add("owner_initial_estimate", fmt.Sprintf(msgMaxValueTemplate, maxInitialEstimate))
		}
	}

	return verr.orNil()
}

func validateValuation(req dto.CreateValuationRequest) error {
	verr := &ValidationError{}

	switch {
	case req.Value < 1:
		verr.add("value", fmt.Sprintf(msgMinValueTemplate, 1))
	case req.Value > maxValuation:
		verr.add("value", fmt.Sprintf(msgMaxValueTemplate, maxValuation))
	}

	if utf8.RuneCountInString(req.Currency) > maxCurrencyLength {
		verr.add("currency", fmt.Sprintf("Ensure this field has no more than %d characters.", maxCurrencyLength))
	}

	return verr.orNil()
}
