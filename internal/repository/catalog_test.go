package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bricksvaluation/web/internal/entity"
)

type stubCatalogPool struct {
	stubPool
	queryFunc func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (s *stubCatalogPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return &stubRows{}, nil
}

// stubRows yields one Scan per entry of scans.
type stubRows struct {
	scans  []func(dest ...any) error
	pos    int
	err    error
	closed bool
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.pos >= len(r.scans) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return r.scans[r.pos-1](dest...)
}

var catalogTime = time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

func fakeBrickSet() entity.BrickSet {
	return entity.BrickSet{OwnerID: 1, Number: 10179, ProductionStatus: "RETIRED", Completeness: "COMPLETE"}
}

func fakeValuation() entity.Valuation {
	return entity.Valuation{BrickSetID: 1, UserID: 2, Value: 300, Currency: "PLN"}
}

func fillBrickSet(id int64, number int) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = id
		*dest[1].(*int64) = 1
		*dest[2].(*int) = number
		*dest[3].(*string) = "RETIRED"
		*dest[4].(*string) = "COMPLETE"
		*dest[9].(*time.Time) = catalogTime
		*dest[10].(*time.Time) = catalogTime
		return nil
	}
}

func fillSummary(id int64, number int, topID *int64) func(dest ...any) error {
	return func(dest ...any) error {
		if err := fillBrickSet(id, number)(dest...); err != nil {
			return err
		}
		*dest[11].(*int) = 2
		*dest[12].(*int) = 5
		if topID != nil {
			userID, value, cur, likes := int64(3), 420, "PLN", 4
			*dest[13].(**int64) = topID
			*dest[14].(**int64) = &userID
			*dest[15].(**int) = &value
			*dest[16].(**string) = &cur
			*dest[17].(**int) = &likes
		}
		*dest[18].(*bool) = false
		return nil
	}
}

func TestBrickSetWhere(t *testing.T) {
	where, args := brickSetWhere(BrickSetFilter{})
	if where != "" || args != nil {
		t.Fatalf("expected no clause, got %q %v", where, args)
	}

	where, args = brickSetWhere(BrickSetFilter{
		Query:            "10_%",
		ProductionStatus: "RETIRED",
		HasBox:           boolPtr(false),
		OwnerID:          7,
	})
	want := ` WHERE b.number::text LIKE '%' || $1 || '%' AND b.production_status = $2 AND b.has_box = $3 AND b.owner_id = $4`
	if where != want {
		t.Fatalf("unexpected clause:\n got %q\nwant %q", where, want)
	}
	if len(args) != 4 || args[0] != `10\_\%` || args[1] != "RETIRED" || args[2] != false || args[3] != int64(7) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestOrderClause(t *testing.T) {
	tests := map[string]string{
		"number":            " ORDER BY b.number ASC, b.id ASC",
		"-valuations_count": " ORDER BY agg.valuations_count DESC, b.id DESC",
		"total_likes":       " ORDER BY agg.total_likes ASC, b.id ASC",
		"":                  " ORDER BY b.created_at DESC, b.id DESC",
		"password":          " ORDER BY b.created_at DESC, b.id DESC",
	}
	for ordering, want := range tests {
		if got := orderClause(ordering); got != want {
			t.Fatalf("orderClause(%q) = %q, want %q", ordering, got, want)
		}
	}
}

func TestPGXCatalogRepository_ListBrickSets(t *testing.T) {
	topID := int64(11)
	rows := &stubRows{scans: []func(dest ...any) error{fillSummary(1, 10179, &topID), fillSummary(2, 75192, nil)}}
	repo := &PGXCatalogRepository{pool: &stubCatalogPool{
		stubPool: stubPool{queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if !strings.HasPrefix(query, "SELECT COUNT(*) FROM bricksets b WHERE") || len(args) != 1 {
				t.Fatalf("unexpected count query %q %v", query, args)
			}
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*int) = 42
				return nil
			}}
		}},
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			if !strings.Contains(query, "LIMIT $2 OFFSET $3") || !strings.Contains(query, "ORDER BY b.number ASC") {
				t.Fatalf("unexpected list query %q", query)
			}
			if len(args) != 3 || args[1] != 20 || args[2] != 40 {
				t.Fatalf("unexpected args: %v", args)
			}
			return rows, nil
		},
	}}

	items, total, err := repo.ListBrickSets(context.Background(), BrickSetFilter{Completeness: "COMPLETE", Ordering: "number", Offset: 40, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 42 || len(items) != 2 || !rows.closed {
		t.Fatalf("unexpected result total=%d items=%d closed=%v", total, len(items), rows.closed)
	}
	if items[0].TopValuation == nil || items[0].TopValuation.ID != 11 || items[0].TopValuation.Value != 420 || items[0].TotalLikes != 5 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].TopValuation != nil {
		t.Fatalf("expected no top valuation, got %+v", items[1].TopValuation)
	}
}

func TestPGXCatalogRepository_FindBrickSet(t *testing.T) {
	repo := &PGXCatalogRepository{pool: &stubCatalogPool{stubPool: stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: fillBrickSet(5, 6080)}
		},
	}}}
	b, err := repo.FindBrickSet(context.Background(), 5)
	if err != nil || b.Number != 6080 || b.ProductionStatus != "RETIRED" {
		t.Fatalf("unexpected brick set %+v (%v)", b, err)
	}

	repo.pool = &stubCatalogPool{stubPool: stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}}
	if _, err := repo.FindBrickSet(context.Background(), 5); !errors.Is(err, ErrBrickSetNotFound) {
		t.Fatalf("expected ErrBrickSetNotFound, got %v", err)
	}
}

func TestPGXCatalogRepository_ConstraintErrors(t *testing.T) {
	failing := func(code, constraint string) *PGXCatalogRepository {
		return &PGXCatalogRepository{pool: &stubCatalogPool{stubPool: stubPool{
			queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
				return &stubRow{scan: func(dest ...any) error {
					return &pgconn.PgError{Code: code, ConstraintName: constraint}
				}}
			},
		}}}
	}
	ctx := context.Background()

	tests := map[string]struct {
		call func() error
		want error
	}{
		"duplicate brick set": {
			call: func() error {
				_, err := failing("23505", "brickset_global_identity").CreateBrickSet(ctx, fakeBrickSet())
				return err
			},
			want: ErrBrickSetDuplicate,
		},
		"duplicate valuation": {
			call: func() error {
				_, err := failing("23505", "valuation_unique_user_brickset").CreateValuation(ctx, fakeValuation())
				return err
			},
			want: ErrValuationDuplicate,
		},
		"valuation of missing set": {
			call: func() error {
				_, err := failing("23503", "valuations_brickset_id_fkey").CreateValuation(ctx, fakeValuation())
				return err
			},
			want: ErrBrickSetNotFound,
		},
		"duplicate like": {
			call: func() error {
				_, err := failing("23505", "likes_pkey").CreateLike(ctx, 1, 2)
				return err
			},
			want: ErrLikeDuplicate,
		},
		"like of missing valuation": {
			call: func() error {
				_, err := failing("23503", "likes_valuation_id_fkey").CreateLike(ctx, 1, 2)
				return err
			},
			want: ErrValuationNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPGXCatalogRepository_CreateLike(t *testing.T) {
	repo := &PGXCatalogRepository{pool: &stubCatalogPool{stubPool: stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if !strings.Contains(query, "likes_count = likes_count + 1") {
				t.Fatalf("expected counter bump in %q", query)
			}
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*int64) = args[0].(int64)
				*dest[1].(*int64) = args[1].(int64)
				*dest[2].(*time.Time) = catalogTime
				return nil
			}}
		},
	}}}

	like, err := repo.CreateLike(context.Background(), 9, 4)
	if err != nil || like.ValuationID != 9 || like.UserID != 4 {
		t.Fatalf("unexpected like %+v (%v)", like, err)
	}
}
