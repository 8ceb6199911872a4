package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/repository"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(repository.NewMemoryCatalogRepository())
}

func validBrickSet(number int) dto.CreateBrickSetRequest {
	return dto.CreateBrickSetRequest{
		Number:           number,
		ProductionStatus: dto.ProductionRetired,
		Completeness:     dto.Complete,
		HasBox:           true,
	}
}

func TestParseBrickSetQuery_Defaults(t *testing.T) {
	q, err := ParseBrickSetQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 1 || q.PageSize != dto.DefaultPageSize || q.Filter.Ordering != dto.DefaultOrdering {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	if q.Filter.HasBox != nil || q.Filter.Offset != 0 || q.Filter.Limit != dto.DefaultPageSize {
		t.Fatalf("unexpected filter: %+v", q.Filter)
	}
}

func TestParseBrickSetQuery_Filters(t *testing.T) {
	values := url.Values{
		"q":                 {" 101 "},
		"production_status": {"RETIRED"},
		"completeness":      {"COMPLETE"},
		"has_box":           {"false"},
		"is_factory_sealed": {"true"},
		"ordering":          {"-total_likes"},
		"page":              {"3"},
		"page_size":         {"10"},
	}
	q, err := ParseBrickSetQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := q.Filter
	if f.Query != "101" || f.ProductionStatus != "RETIRED" || f.Completeness != "COMPLETE" || f.Ordering != "-total_likes" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.HasBox == nil || *f.HasBox || f.IsFactorySealed == nil || !*f.IsFactorySealed || f.HasInstructions != nil {
		t.Fatalf("unexpected flags: %+v", f)
	}
	if f.Offset != 20 || f.Limit != 10 {
		t.Fatalf("unexpected window offset=%d limit=%d", f.Offset, f.Limit)
	}
}

func TestParseBrickSetQuery_Invalid(t *testing.T) {
	values := url.Values{
		"production_status": {"LOST"},
		"has_box":           {"maybe"},
		"ordering":          {"password"},
		"page":              {"0"},
		"page_size":         {"500"},
	}
	_, err := ParseBrickSetQuery(values)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"production_status", "has_box", "ordering", "page", "page_size"} {
		if len(verr.Fields[field]) == 0 {
			t.Fatalf("expected error for %s, got %+v", field, verr.Fields)
		}
	}
	if got := verr.Fields["ordering"][0]; got != `"password" is not a valid choice.` {
		t.Fatalf("unexpected ordering message %q", got)
	}
}

func TestCatalogService_CreateBrickSet(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	estimate := 350

	req := validBrickSet(10179)
	req.OwnerInitialEstimate = &estimate
	item, err := svc.CreateBrickSet(ctx, 7, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.OwnerID != 7 || item.Number != 10179 || item.ValuationsCount != 0 || item.TopValuation != nil || *item.OwnerInitialEstimate != 350 {
		t.Fatalf("unexpected item: %+v", item)
	}

	if _, err := svc.CreateBrickSet(ctx, 8, validBrickSet(10179)); !errors.Is(err, ErrBrickSetExists) {
		t.Fatalf("expected ErrBrickSetExists, got %v", err)
	}
}

func TestCatalogService_CreateBrickSetValidation(t *testing.T) {
	svc := newCatalogService(t)
	zero := 0

	_, err := svc.CreateBrickSet(context.Background(), 1, dto.CreateBrickSetRequest{
		Number:               10_000_000,
		Completeness:         "HALF",
		OwnerInitialEstimate: &zero,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"number":                 "Ensure this value is less than or equal to 9999999.",
		"production_status":      "This field is required.",
		"completeness":           `"HALF" is not a valid choice.`,
		"owner_initial_estimate": "Ensure this value is greater than or equal to 1.",
	}
	for field, msg := range want {
		if got := verr.Fields[field]; len(got) != 1 || got[0] != msg {
			t.Fatalf("%s: expected %q, got %v", field, msg, got)
		}
	}
}

func TestCatalogService_BrickSetDetail(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	if _, err := svc.BrickSet(ctx, 1); !errors.Is(err, ErrBrickSetNotFound) {
		t.Fatalf("expected ErrBrickSetNotFound, got %v", err)
	}

	item, _ := svc.CreateBrickSet(ctx, 1, validBrickSet(6080))
	detail, err := svc.BrickSet(ctx, item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Valuations == nil || len(detail.Valuations) != 0 {
		t.Fatalf("expected empty valuations slice, got %#v", detail.Valuations)
	}

	first, _ := svc.CreateValuation(ctx, 2, item.ID, dto.CreateValuationRequest{Value: 400, Comment: "  mint  "})
	svc.CreateValuation(ctx, 3, item.ID, dto.CreateValuationRequest{Value: 450})
	svc.LikeValuation(ctx, 3, first.ID)

	detail, _ = svc.BrickSet(ctx, item.ID)
	if detail.ValuationsCount != 2 || detail.TotalLikes != 1 || detail.Valuations[0].ID != first.ID {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if c := detail.Valuations[0].Comment; c == nil || *c != "mint" {
		t.Fatalf("expected trimmed comment, got %v", c)
	}
	if detail.Valuations[1].Comment != nil {
		t.Fatalf("expected nil comment, got %q", *detail.Valuations[1].Comment)
	}
}

func TestCatalogService_CreateValuation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	item, _ := svc.CreateBrickSet(ctx, 1, validBrickSet(75192))

	v, err := svc.CreateValuation(ctx, 2, item.ID, dto.CreateValuationRequest{Value: 3200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Currency != dto.DefaultCurrency || v.BrickSetID != item.ID || v.UserID != 2 || v.LikesCount != 0 {
		t.Fatalf("unexpected valuation: %+v", v)
	}

	if _, err := svc.CreateValuation(ctx, 2, item.ID, dto.CreateValuationRequest{Value: 1}); !errors.Is(err, ErrValuationExists) {
		t.Fatalf("expected ErrValuationExists, got %v", err)
	}
	if _, err := svc.CreateValuation(ctx, 2, 404, dto.CreateValuationRequest{Value: 1}); !errors.Is(err, ErrBrickSetNotFound) {
		t.Fatalf("expected ErrBrickSetNotFound, got %v", err)
	}

	_, err = svc.CreateValuation(ctx, 3, item.ID, dto.CreateValuationRequest{Value: 1_000_000, Currency: "EURO"})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["value"]) != 1 || len(verr.Fields["currency"]) != 1 {
		t.Fatalf("expected value and currency errors, got %v", err)
	}
}

func TestCatalogService_LikeValuation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	item, _ := svc.CreateBrickSet(ctx, 1, validBrickSet(21309))
	v, _ := svc.CreateValuation(ctx, 2, item.ID, dto.CreateValuationRequest{Value: 900})

	if _, err := svc.LikeValuation(ctx, 2, v.ID); !errors.Is(err, ErrOwnValuation) {
		t.Fatalf("expected ErrOwnValuation, got %v", err)
	}
	like, err := svc.LikeValuation(ctx, 3, v.ID)
	if err != nil || like.UserID != 3 || like.ValuationID != v.ID {
		t.Fatalf("unexpected like %+v (%v)", like, err)
	}
	if _, err := svc.LikeValuation(ctx, 3, v.ID); !errors.Is(err, ErrLikeExists) {
		t.Fatalf("expected ErrLikeExists, got %v", err)
	}
	if _, err := svc.LikeValuation(ctx, 3, 999); !errors.Is(err, ErrValuationNotFound) {
		t.Fatalf("expected ErrValuationNotFound, got %v", err)
	}
}

func TestCatalogService_OwnedLists(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	page := Pagination{Page: 1, PageSize: 10}

	mine, _ := svc.CreateBrickSet(ctx, 1, validBrickSet(100))
	locked, _ := svc.CreateBrickSet(ctx, 1, validBrickSet(200))
	svc.CreateBrickSet(ctx, 2, validBrickSet(300))
	svc.CreateValuation(ctx, 1, mine.ID, dto.CreateValuationRequest{Value: 10})
	svc.CreateValuation(ctx, 2, locked.ID, dto.CreateValuationRequest{Value: 20})

	owned, total, err := svc.OwnedBrickSets(ctx, 1, "number", page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || owned[0].ID != locked.ID {
		t.Fatalf("invalid ordering must fall back to newest first, got %+v", owned)
	}
	if owned[0].Editable || !owned[1].Editable {
		t.Fatalf("unexpected editable flags: %+v", owned)
	}

	valuations, total, err := svc.OwnedValuations(ctx, 2, page)
	if err != nil || total != 1 || valuations[0].BrickSet.Number != 200 {
		t.Fatalf("unexpected owned valuations %+v total=%d err=%v", valuations, total, err)
	}
}
