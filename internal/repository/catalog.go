package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bricksvaluation/web/internal/entity"
)

// Lookup and uniqueness errors shared by every CatalogRepository.
var (
	ErrBrickSetNotFound   = errors.New("brick set not found")
	ErrBrickSetDuplicate  = errors.New("brick set already exists")
	ErrValuationNotFound  = errors.New("valuation not found")
	ErrValuationDuplicate = errors.New("valuation already exists")
	ErrLikeDuplicate      = errors.New("like already exists")
)

// BrickSetFilter selects and orders brick sets. Nil flags and empty strings
// do not filter; OwnerID 0 matches every owner.
type BrickSetFilter struct {
	Query            string
	ProductionStatus string
	Completeness     string
	HasInstructions  *bool
	HasBox           *bool
	IsFactorySealed  *bool
	OwnerID          int64
	Ordering         string
	Offset           int
	Limit            int
}

// BrickSetSummary is a brick set with its valuation aggregates. TopValuation
// is the most liked valuation, the newest one on ties.
type BrickSetSummary struct {
	entity.BrickSet
	ValuationsCount int
	TotalLikes      int
	TopValuation    *entity.Valuation
	Editable        bool
}

// OwnedValuation is a valuation together with the number of its set.
type OwnedValuation struct {
	entity.Valuation
	BrickSetNumber int
}

// CatalogRepository declares persistence operations for brick sets,
// valuations and likes.
type CatalogRepository interface {
	ListBrickSets(ctx context.Context, f BrickSetFilter) ([]BrickSetSummary, int, error)
	FindBrickSet(ctx context.Context, id int64) (*entity.BrickSet, error)
	CreateBrickSet(ctx context.Context, b entity.BrickSet) (*entity.BrickSet, error)
	ListValuations(ctx context.Context, brickSetID int64) ([]entity.Valuation, error)
	ListValuationsByUser(ctx context.Context, userID int64, offset, limit int) ([]OwnedValuation, int, error)
	FindValuation(ctx context.Context, id int64) (*entity.Valuation, error)
	CreateValuation(ctx context.Context, v entity.Valuation) (*entity.Valuation, error)
	CreateLike(ctx context.Context, valuationID, userID int64) (*entity.Like, error)
}

// orderColumns maps ordering keys to SQL expressions.
var orderColumns = map[string]string{
	"number":           "b.number",
	"created_at":       "b.created_at",
	"valuations_count": "agg.valuations_count",
	"total_likes":      "agg.total_likes",
}

func orderClause(ordering string) string {
	field, desc := strings.TrimPrefix(ordering, "-"), strings.HasPrefix(ordering, "-")
	column, ok := orderColumns[field]
	if !ok {
		column, desc = orderColumns["created_at"], true
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", b.id " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// brickSetWhere renders the filter as a WHERE clause with positional args.
func brickSetWhere(f BrickSetFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Query != "" {
		add(`b.number::text LIKE '%%' || $%d || '%%'`, likeEscaper.Replace(f.Query))
	}
	if f.ProductionStatus != "" {
		add("b.production_status = $%d", f.ProductionStatus)
	}
	if f.Completeness != "" {
		add("b.completeness = $%d", f.Completeness)
	}
	if f.HasInstructions != nil {
		add("b.has_instructions = $%d", *f.HasInstructions)
	}
	if f.HasBox != nil {
		add("b.has_box = $%d", *f.HasBox)
	}
	if f.IsFactorySealed != nil {
		add("b.is_factory_sealed = $%d", *f.IsFactorySealed)
	}
	if f.OwnerID != 0 {
		add("b.owner_id = $%d", f.OwnerID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type catalogPool interface {
	pgxPool
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ catalogPool = (*pgxpool.Pool)(nil)

const (
	brickSetColumns = `id, owner_id, number, production_status, completeness, has_instructions, has_box,
        is_factory_sealed, owner_initial_estimate, created_at, updated_at`
	valuationColumns = `id, brickset_id, user_id, value, currency, comment, likes_count, created_at, updated_at`

	brickSetSummarySelect = `
        SELECT b.id, b.owner_id, b.number, b.production_status, b.completeness, b.has_instructions,
               b.has_box, b.is_factory_sealed, b.owner_initial_estimate, b.created_at, b.updated_at,
               agg.valuations_count, agg.total_likes,
               tv.id, tv.user_id, tv.value, tv.currency, tv.likes_count,
               NOT EXISTS (
                   SELECT 1 FROM valuations v
                   WHERE v.brickset_id = b.id AND (v.user_id <> b.owner_id OR v.likes_count > 0)
               )
        FROM bricksets b
        CROSS JOIN LATERAL (
            SELECT COUNT(*)::int AS valuations_count, COALESCE(SUM(v.likes_count), 0)::int AS total_likes
            FROM valuations v WHERE v.brickset_id = b.id
        ) agg
        LEFT JOIN LATERAL (
            SELECT v.id, v.user_id, v.value, v.currency, v.likes_count
            FROM valuations v WHERE v.brickset_id = b.id
            ORDER BY v.likes_count DESC, v.created_at DESC
            LIMIT 1
        ) tv ON TRUE`
)

// PGXCatalogRepository implements CatalogRepository with pgx.
type PGXCatalogRepository struct {
	pool catalogPool
}

// NewPGXCatalogRepository instantiates a catalog repository.
func NewPGXCatalogRepository(pool *pgxpool.Pool) *PGXCatalogRepository {
	return &PGXCatalogRepository{pool: pool}
}

// ListBrickSets returns one page of summaries and the total match count.
func (r *PGXCatalogRepository) ListBrickSets(ctx context.Context, f BrickSetFilter) ([]BrickSetSummary, int, error) {
	where, args := brickSetWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bricksets b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count brick sets: %w", err)
	}

	page := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, brickSetSummarySelect+where+orderClause(f.Ordering)+page, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query brick sets: %w", err)
	}
	defer rows.Close()

	out := make([]BrickSetSummary, 0, f.Limit)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan brick set: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate brick sets: %w", err)
	}
	return out, total, nil
}

// FindBrickSet retrieves a brick set by identifier.
func (r *PGXCatalogRepository) FindBrickSet(ctx context.Context, id int64) (*entity.BrickSet, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+brickSetColumns+` FROM bricksets WHERE id = $1`, id)

	b, err := scanBrickSet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrickSetNotFound
		}
		return nil, fmt.Errorf("query brick set: %w", err)
	}
	return b, nil
}

// CreateBrickSet inserts a new brick set row.
func (r *PGXCatalogRepository) CreateBrickSet(ctx context.Context, b entity.BrickSet) (*entity.BrickSet, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO bricksets (owner_id, number, production_status, completeness, has_instructions,
                               has_box, is_factory_sealed, owner_initial_estimate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+brickSetColumns,
		b.OwnerID, b.Number, b.ProductionStatus, b.Completeness, b.HasInstructions,
		b.HasBox, b.IsFactorySealed, b.OwnerInitialEstimate)

	created, err := scanBrickSet(row)
	if err != nil {
		if constraintViolation(err, "23505", "brickset_global_identity") {
			return nil, fmt.Errorf("%w: %v", ErrBrickSetDuplicate, err)
		}
		return nil, fmt.Errorf("insert brick set: %w", err)
	}
	return created, nil
}

// ListValuations returns the valuations of a set in creation order.
func (r *PGXCatalogRepository) ListValuations(ctx context.Context, brickSetID int64) ([]entity.Valuation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+valuationColumns+`
        FROM valuations WHERE brickset_id = $1 ORDER BY created_at, id`, brickSetID)
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}
	defer rows.Close()

	var out []entity.Valuation
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate valuations: %w", err)
	}
	return out, nil
}

// ListValuationsByUser returns one page of a user's valuations, newest first.
func (r *PGXCatalogRepository) ListValuationsByUser(ctx context.Context, userID int64, offset, limit int) ([]OwnedValuation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM valuations WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count valuations: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
        SELECT v.id, v.brickset_id, v.user_id, v.value, v.currency, v.comment, v.likes_count,
               v.created_at, v.updated_at, b.number
        FROM valuations v JOIN bricksets b ON b.id = v.brickset_id
        WHERE v.user_id = $1
        ORDER BY v.created_at DESC, v.id DESC
        LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query valuations: %w", err)
	}
	defer rows.Close()

	out := make([]OwnedValuation, 0, limit)
	for rows.Next() {
		var o OwnedValuation
		v := &o.Valuation
		if err := rows.Scan(&v.ID, &v.BrickSetID, &v.UserID, &v.Value, &v.Currency, &v.Comment,
			&v.LikesCount, &v.CreatedAt, &v.UpdatedAt, &o.BrickSetNumber); err != nil {
			return nil, 0, fmt.Errorf("scan valuation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate valuations: %w", err)
	}
	return out, total, nil
}

// FindValuation retrieves a valuation by identifier.
func (r *PGXCatalogRepository) FindValuation(ctx context.Context, id int64) (*entity.Valuation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+valuationColumns+` FROM valuations WHERE id = $1`, id)

	v, err := scanValuation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrValuationNotFound
		}
		return nil, fmt.Errorf("query valuation: %w", err)
	}
	return v, nil
}

// CreateValuation inserts a valuation. A user values each set at most once.
func (r *PGXCatalogRepository) CreateValuation(ctx context.Context, v entity.Valuation) (*entity.Valuation, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO valuations (brickset_id, user_id, value, currency, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+valuationColumns, v.BrickSetID, v.UserID, v.Value, v.Currency, v.Comment)

	created, err := scanValuation(row)
	if err != nil {
		switch {
		case constraintViolation(err, "23505", "valuation_unique_user_brickset"):
			return nil, fmt.Errorf("%w: %v", ErrValuationDuplicate, err)
		case constraintViolation(err, "23503", "valuations_brickset_id_fkey"):
			return nil, fmt.Errorf("%w: %v", ErrBrickSetNotFound, err)
		}
		return nil, fmt.Errorf("insert valuation: %w", err)
	}
	return created, nil
}

// CreateLike records a like and bumps the valuation's counter in one statement.
func (r *PGXCatalogRepository) CreateLike(ctx context.Context, valuationID, userID int64) (*entity.Like, error) {
	row := r.pool.QueryRow(ctx, `
        WITH ins AS (
            INSERT INTO likes (valuation_id, user_id) VALUES ($1, $2)
            RETURNING valuation_id, user_id, created_at
        ), bump AS (
            UPDATE valuations SET likes_count = likes_count + 1, updated_at = NOW()
            WHERE id = (SELECT valuation_id FROM ins)
        )
        SELECT valuation_id, user_id, created_at FROM ins`, valuationID, userID)

	var like entity.Like
	if err := row.Scan(&like.ValuationID, &like.UserID, &like.CreatedAt); err != nil {
		switch {
		case constraintViolation(err, "23505", "likes_pkey"):
			return nil, fmt.Errorf("%w: %v", ErrLikeDuplicate, err)
		case constraintViolation(err, "23503", ""):
			return nil, fmt.Errorf("%w: %v", ErrValuationNotFound, err)
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return &like, nil
}

// constraintViolation matches a PostgreSQL error by SQLSTATE and, when
// constraint is not empty, by constraint name.
func constraintViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func scanBrickSet(row pgx.Row) (*entity.BrickSet, error) {
	var b entity.BrickSet
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Number, &b.ProductionStatus, &b.Completeness,
		&b.HasInstructions, &b.HasBox, &b.IsFactorySealed, &b.OwnerInitialEstimate,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanValuation(row pgx.Row) (*entity.Valuation, error) {
	var v entity.Valuation
	if err := row.Scan(&v.ID, &v.BrickSetID, &v.UserID, &v.Value, &v.Currency, &v.Comment,
		&v.LikesCount, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanSummary(row pgx.Row) (*BrickSetSummary, error) {
	var (
		s         BrickSetSummary
		b         = &s.BrickSet
		topID     *int64
		topUserID *int64
		topValue  *int
		topCur    *string
		topLikes  *int
	)
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Number, &b.ProductionStatus, &b.Completeness,
		&b.HasInstructions, &b.HasBox, &b.IsFactorySealed, &b.OwnerInitialEstimate,
		&b.CreatedAt, &b.UpdatedAt, &s.ValuationsCount, &s.TotalLikes,
		&topID, &topUserID, &topValue, &topCur, &topLikes, &s.Editable); err != nil {
		return nil, err
	}
	if topID != nil {
		s.TopValuation = &entity.Valuation{
			ID:         *topID,
			BrickSetID: b.ID,
			UserID:     deref(topUserID),
			Value:      deref(topValue),
			Currency:   deref(topCur),
			LikesCount: deref(topLikes),
		}
	}
	return &s, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

var _ CatalogRepository = (*PGXCatalogRepository)(nil)
