package view

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/store"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newBrickSetList(t *testing.T, status int, body any) *BrickSetList {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	cfg := config.Configuration{APIBaseURL: server.URL + "/api", APIVersion: "1", Timeout: time.Second}
	client, err := httpclient.New(cfg)
	require.NoError(t, err)

	v := NewBrickSetList(store.NewCatalogStore(cfg, client))
	v.now = func() time.Time { return fixedNow }
	return v
}

func TestNewBrickSetCard(t *testing.T) {
	item := dto.BrickSetListItem{
		ID:               4,
		Number:           375,
		ProductionStatus: dto.ProductionRetired,
		Completeness:     dto.Incomplete,
		HasBox:           true,
		ValuationsCount:  3,
		TotalLikes:       7,
		TopValuation:     &dto.TopValuation{ID: 9, Value: 1250, LikesCount: 5},
		CreatedAt:        fixedNow.Add(-3 * 24 * time.Hour),
	}

	card := NewBrickSetCard(item, fixedNow)
	assert.Equal(t, "00375", card.Number)
	assert.Equal(t, "Wycofany", card.ProductionStatus)
	assert.Equal(t, "Niekompletny", card.Completeness)
	assert.Equal(t, "1250 PLN", card.TopValue)
	assert.Equal(t, 5, card.TopLikes)
	assert.Equal(t, "3 dni temu", card.CreatedAgo)

	item.TopValuation = nil
	item.Number = 10179
	card = NewBrickSetCard(item, fixedNow)
	assert.Equal(t, "10179", card.Number)
	assert.Empty(t, card.TopValue)
}

func TestRelativeTime(t *testing.T) {
	tests := map[string]struct {
		ago  time.Duration
		want string
	}{
		"seconds": {30 * time.Second, "przed chwilą"},
		"future":  {-time.Hour, "przed chwilą"},
		"minute":  {time.Minute, "1 minutę temu"},
		"minutes": {45 * time.Minute, "45 minut temu"},
		"hour":    {90 * time.Minute, "1 godzinę temu"},
		"hours":   {23 * time.Hour, "23 godzin temu"},
		"day":     {36 * time.Hour, "1 dzień temu"},
		"days":    {10 * 24 * time.Hour, "10 dni temu"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(fixedNow.Add(-tt.ago), fixedNow))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Aktywny", ProductionStatusLabel(dto.ProductionActive))
	assert.Equal(t, "Kompletny", CompletenessLabel(dto.Complete))
	assert.Equal(t, "UNKNOWN", ProductionStatusLabel("UNKNOWN"))
}

func TestBrickSetList_RendersCards(t *testing.T) {
	page := dto.Page[dto.BrickSetListItem]{
		Count: 45,
		Results: []dto.BrickSetListItem{{
			ID:               1,
			Number:           10179,
			ProductionStatus: dto.ProductionRetired,
			Completeness:     dto.Complete,
			HasInstructions:  true,
			IsFactorySealed:  true,
			ValuationsCount:  2,
			TotalLikes:       4,
			TopValuation:     &dto.TopValuation{Value: 3800, LikesCount: 4},
			CreatedAt:        fixedNow.Add(-2 * time.Hour),
		}},
	}
	v := newBrickSetList(t, http.StatusOK, page)
	require.NoError(t, v.catalog.Search(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	text := buf.String()
	assert.Contains(t, text, "Zestawy LEGO\n45 zestawów dostępnych\n")
	assert.Contains(t, text, "#10179  Wycofany, Kompletny (Ma instrukcje, Zapieczętowany)  2 wycen, 4 lajków  3800 PLN  2 godzin temu\n")
	assert.Contains(t, text, "Strona 1 z 3  Następna >")
	assert.NotContains(t, text, "Poprzednia")
}

func TestBrickSetList_EmptyState(t *testing.T) {
	v := newBrickSetList(t, http.StatusOK, dto.Page[dto.BrickSetListItem]{Results: []dto.BrickSetListItem{}})
	require.NoError(t, v.catalog.Search(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), T("bricksets.noResults"))
	assert.NotContains(t, buf.String(), T("common.retry"))
}

func TestBrickSetList_ErrorStateAndRetry(t *testing.T) {
	v := newBrickSetList(t, http.StatusInternalServerError, dto.DetailBody{Detail: "boom"})
	require.Error(t, v.catalog.Search(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), store.MsgServerBusy)
	assert.Contains(t, buf.String(), "[ Spróbuj ponownie ]")
	assert.NotContains(t, buf.String(), T("bricksets.noResults"))

	v.PressRetry()
	select {
	case <-v.Retry():
	case <-time.After(time.Second):
		t.Fatal("expected a retry event")
	}
}

func TestBrickSetList_Cards(t *testing.T) {
	v := newBrickSetList(t, http.StatusOK, dto.Page[dto.BrickSetListItem]{Count: 2, Results: []dto.BrickSetListItem{
		{ID: 1, Number: 1, CreatedAt: fixedNow},
		{ID: 2, Number: 42, CreatedAt: fixedNow.Add(-time.Minute)},
	}})
	assert.Empty(t, v.Cards())

	require.NoError(t, v.catalog.Search(context.Background()))
	cards := v.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "00001", cards[0].Number)
	assert.Equal(t, "1 minutę temu", cards[1].CreatedAgo)
}
