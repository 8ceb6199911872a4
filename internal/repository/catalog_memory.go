package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bricksvaluation/web/internal/entity"
)

type likeKey struct {
	valuationID int64
	userID      int64
}

// MemoryCatalogRepository keeps the catalog in process memory with the same
// uniqueness rules as the PostgreSQL schema.
type MemoryCatalogRepository struct {
	mu              sync.RWMutex
	bricksets       map[int64]entity.BrickSet
	valuations      map[int64]entity.Valuation
	likes           map[likeKey]entity.Like
	nextBrickSetID  int64
	nextValuationID int64
	now             func() time.Time
}

// NewMemoryCatalogRepository returns an empty repository.
func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		bricksets:       make(map[int64]entity.BrickSet),
		valuations:      make(map[int64]entity.Valuation),
		likes:           make(map[likeKey]entity.Like),
		nextBrickSetID:  1,
		nextValuationID: 1,
		now:             time.Now,
	}
}

// ListBrickSets returns one page of summaries and the total match count.
func (r *MemoryCatalogRepository) ListBrickSets(ctx context.Context, f BrickSetFilter) ([]BrickSetSummary, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []BrickSetSummary
	for _, b := range r.bricksets {
		if matchesFilter(b, f) {
			matched = append(matched, r.summarize(b))
		}
	}
	sortSummaries(matched, f.Ordering)

	total := len(matched)
	if f.Offset >= total {
		return []BrickSetSummary{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

// FindBrickSet retrieves a brick set by identifier.
func (r *MemoryCatalogRepository) FindBrickSet(ctx context.Context, id int64) (*entity.BrickSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bricksets[id]
	if !ok {
		return nil, ErrBrickSetNotFound
	}
	return &b, nil
}

// CreateBrickSet stores a brick set unless an identical one exists.
func (r *MemoryCatalogRepository) CreateBrickSet(ctx context.Context, b entity.BrickSet) (*entity.BrickSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bricksets {
		if existing.SameIdentity(b) {
			return nil, ErrBrickSetDuplicate
		}
	}

	now := r.now().UTC()
	b.ID = r.nextBrickSetID
	b.CreatedAt, b.UpdatedAt = now, now
	r.bricksets[b.ID] = b
	r.nextBrickSetID++
	return &b, nil
}

// ListValuations returns the valuations of a set in creation order.
func (r *MemoryCatalogRepository) ListValuations(ctx context.Context, brickSetID int64) ([]entity.Valuation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.valuationsOf(brickSetID)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListValuationsByUser returns one page of a user's valuations, newest first.
func (r *MemoryCatalogRepository) ListValuationsByUser(ctx context.Context, userID int64, offset, limit int) ([]OwnedValuation, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []OwnedValuation
	for _, v := range r.valuations {
		if v.UserID == userID {
			owned = append(owned, OwnedValuation{Valuation: v, BrickSetNumber: r.bricksets[v.BrickSetID].Number})
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })

	total := len(owned)
	if offset >= total {
		return []OwnedValuation{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return owned[offset:end], total, nil
}

// FindValuation retrieves a valuation by identifier.
func (r *MemoryCatalogRepository) FindValuation(ctx context.Context, id int64) (*entity.Valuation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.valuations[id]
	if !ok {
		return nil, ErrValuationNotFound
	}
	return &v, nil
}

// CreateValuation stores a valuation. A user values each set at most once.
func (r *MemoryCatalogRepository) CreateValuation(ctx context.Context, v entity.Valuation) (*entity.Valuation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bricksets[v.BrickSetID]; !ok {
		return nil, ErrBrickSetNotFound
	}
	for _, existing := range r.valuations {
		if existing.BrickSetID == v.BrickSetID && existing.UserID == v.UserID {
			return nil, ErrValuationDuplicate
		}
	}

	now := r.now().UTC()
	v.ID = r.nextValuationID
	v.LikesCount = 0
	v.CreatedAt, v.UpdatedAt = now, now
	r.valuations[v.ID] = v
	r.nextValuationID++
	return &v, nil
}

// CreateLike records a like and bumps the valuation's counter.
func (r *MemoryCatalogRepository) CreateLike(ctx context.Context, valuationID, userID int64) (*entity.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.valuations[valuationID]
	if !ok {
		return nil, ErrValuationNotFound
	}
	key := likeKey{valuationID: valuationID, userID: userID}
	if _, ok := r.likes[key]; ok {
		return nil, ErrLikeDuplicate
	}

	now := r.now().UTC()
	like := entity.Like{ValuationID: valuationID, UserID: userID, CreatedAt: now}
	r.likes[key] = like
	v.LikesCount++
	v.UpdatedAt = now
	r.valuations[valuationID] = v
	return &like, nil
}

func (r *MemoryCatalogRepository) valuationsOf(brickSetID int64) []entity.Valuation {
	var out []entity.Valuation
	for _, v := range r.valuations {
		if v.BrickSetID == brickSetID {
			out = append(out, v)
		}
	}
	return out
}

func (r *MemoryCatalogRepository) summarize(b entity.BrickSet) BrickSetSummary {
	s := BrickSetSummary{BrickSet: b, Editable: true}
	for _, v := range r.valuationsOf(b.ID) {
		s.ValuationsCount++
		s.TotalLikes += v.LikesCount
		if v.UserID != b.OwnerID || v.LikesCount > 0 {
			s.Editable = false
		}
		if s.TopValuation == nil || topBefore(v, *s.TopValuation) {
			top := v
			s.TopValuation = &top
		}
	}
	return s
}

// topBefore orders valuations by likes, then newest first.
func topBefore(a, b entity.Valuation) bool {
	if a.LikesCount != b.LikesCount {
		return a.LikesCount > b.LikesCount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func matchesFilter(b entity.BrickSet, f BrickSetFilter) bool {
	switch {
	case f.Query != "" && !strings.Contains(strconv.Itoa(b.Number), f.Query):
		return false
	case f.ProductionStatus != "" && b.ProductionStatus != f.ProductionStatus:
		return false
	case f.Completeness != "" && b.Completeness != f.Completeness:
		return false
	case f.HasInstructions != nil && b.HasInstructions != *f.HasInstructions:
		return false
	case f.HasBox != nil && b.HasBox != *f.HasBox:
		return false
	case f.IsFactorySealed != nil && b.IsFactorySealed != *f.IsFactorySealed:
		return false
	case f.OwnerID != 0 && b.OwnerID != f.OwnerID:
		return false
	}
	return true
}

func sortSummaries(items []BrickSetSummary, ordering string) {
	field, desc := strings.TrimPrefix(ordering, "-"), strings.HasPrefix(ordering, "-")
	if _, ok := orderColumns[field]; !ok {
		field, desc = "created_at", true
	}

	key := func(s BrickSetSummary) int64 {
		switch field {
		case "number":
			return int64(s.Number)
		case "valuations_count":
			return int64(s.ValuationsCount)
		case "total_likes":
			return int64(s.TotalLikes)
		default:
			return s.CreatedAt.UnixNano()
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := key(items[i]), key(items[j])
		if ki == kj {
			ki, kj = items[i].ID, items[j].ID
		}
		if desc {
			return ki > kj
		}
		return ki < kj
	})
}

var _ CatalogRepository = (*MemoryCatalogRepository)(nil)
