package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/store"
)

// BrickSetCard is the display form of one list entry.
type BrickSetCard struct {
	ID               int64
	Number           string
	ProductionStatus string
	Completeness     string
	HasInstructions  bool
	HasBox           bool
	IsFactorySealed  bool
	ValuationsCount  int
	TotalLikes       int
	TopValue         string
	TopLikes         int
	CreatedAgo       string
}

// NewBrickSetCard maps a list item, measuring its age against now.
func NewBrickSetCard(item dto.BrickSetListItem, now time.Time) BrickSetCard {
	card := BrickSetCard{
		ID:               item.ID,
		Number:           fmt.Sprintf("%05d", item.Number),
		ProductionStatus: ProductionStatusLabel(item.ProductionStatus),
		Completeness:     CompletenessLabel(item.Completeness),
		HasInstructions:  item.HasInstructions,
		HasBox:           item.HasBox,
		IsFactorySealed:  item.IsFactorySealed,
		ValuationsCount:  item.ValuationsCount,
		TotalLikes:       item.TotalLikes,
		CreatedAgo:       RelativeTime(item.CreatedAt, now),
	}
	if top := item.TopValuation; top != nil {
		card.TopValue = FormatCurrency(top.Value)
		card.TopLikes = top.LikesCount
	}
	return card
}

// FormatCurrency renders a whole PLN amount.
func FormatCurrency(value int) string {
	return fmt.Sprintf("%d PLN", value)
}

// ProductionStatusLabel returns the display label of s.
func ProductionStatusLabel(s dto.ProductionStatus) string {
	switch s {
	case dto.ProductionActive:
		return T("bricksets.active")
	case dto.ProductionRetired:
		return T("bricksets.retired")
	}
	return string(s)
}

// CompletenessLabel returns the display label of c.
func CompletenessLabel(c dto.Completeness) string {
	switch c {
	case dto.Complete:
		return T("bricksets.complete")
	case dto.Incomplete:
		return T("bricksets.incomplete")
	}
	return string(c)
}

// RelativeTime describes how long before now t happened, in the largest
// whole unit. Future times count as just now.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	days := int(d / (24 * time.Hour))
	hours := int(d / time.Hour)
	minutes := int(d / time.Minute)

	switch {
	case days > 0:
		return plural(days, "time.day", "time.days")
	case hours > 0:
		return plural(hours, "time.hour", "time.hours")
	case minutes > 0:
		return plural(minutes, "time.minute", "time.minutes")
	}
	return T("time.justNow")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return T(one)
	}
	return fmt.Sprintf(T(many), n)
}

// BrickSetList renders the catalog store's list state.
type BrickSetList struct {
	catalog *store.CatalogStore
	now     func() time.Time

	errorState *ErrorState
}

// NewBrickSetList creates a list view over catalog.
func NewBrickSetList(catalog *store.CatalogStore) *BrickSetList {
	return &BrickSetList{catalog: catalog, now: time.Now, errorState: &ErrorState{}}
}

// Retry delivers an event whenever the user asks to reload after a failure.
func (v *BrickSetList) Retry() <-chan struct{} {
	return v.errorState.Retry()
}

// PressRetry requests a reload.
func (v *BrickSetList) PressRetry() {
	v.errorState.PressRetry()
}

// Cards maps the loaded items.
func (v *BrickSetList) Cards() []BrickSetCard {
	items := v.catalog.State().Items
	now := v.now()
	cards := make([]BrickSetCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, NewBrickSetCard(item, now))
	}
	return cards
}

// Render writes the header followed by the cards and pager, the error state
// when loading failed, or the empty state when nothing matched.
func (v *BrickSetList) Render(w io.Writer) error {
	st := v.catalog.State()
	if _, err := fmt.Fprintf(w, "%s\n%d %s\n", T("bricksets.title"), st.Count, T("bricksets.subtitle")); err != nil {
		return err
	}

	switch {
	case st.Error != "":
		v.errorState.Message = st.Error
		return v.errorState.Render(w)
	case len(st.Items) == 0:
		return EmptyState{}.Render(w)
	}

	for _, card := range v.Cards() {
		if err := renderCard(w, card); err != nil {
			return err
		}
	}
	return renderPager(w, st)
}

func renderCard(w io.Writer, c BrickSetCard) error {
	var attrs []string
	if c.HasInstructions {
		attrs = append(attrs, T("bricksets.hasInstructions"))
	}
	if c.HasBox {
		attrs = append(attrs, T("bricksets.hasBox"))
	}
	if c.IsFactorySealed {
		attrs = append(attrs, T("bricksets.sealed"))
	}

	line := fmt.Sprintf("#%s  %s, %s", c.Number, c.ProductionStatus, c.Completeness)
	if len(attrs) > 0 {
		line += " (" + strings.Join(attrs, ", ") + ")"
	}
	line += fmt.Sprintf("  %d %s, %d %s", c.ValuationsCount, T("bricksets.valuations"), c.TotalLikes, T("bricksets.likes"))
	if c.TopValue != "" {
		line += "  " + c.TopValue
	}
	_, err := fmt.Fprintf(w, "%s  %s\n", line, c.CreatedAgo)
	return err
}

func renderPager(w io.Writer, st store.CatalogState) error {
	pages := st.TotalPages()
	if pages <= 1 {
		return nil
	}
	page := st.Filters.Page
	parts := []string{fmt.Sprintf(T("bricksets.page"), page, pages)}
	if page > 1 {
		parts = append([]string{"< " + T("common.previous")}, parts...)
	}
	if page < pages {
		parts = append(parts, T("common.next")+" >")
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

// RenderBrickSetDetail writes a set and its valuations in creation order.
func RenderBrickSetDetail(w io.Writer, d *dto.BrickSetDetail, now time.Time) error {
	card := NewBrickSetCard(dto.BrickSetListItem{
		ID:               d.ID,
		Number:           d.Number,
		ProductionStatus: d.ProductionStatus,
		Completeness:     d.Completeness,
		HasInstructions:  d.HasInstructions,
		HasBox:           d.HasBox,
		IsFactorySealed:  d.IsFactorySealed,
		ValuationsCount:  d.ValuationsCount,
		TotalLikes:       d.TotalLikes,
		CreatedAt:        d.CreatedAt,
	}, now)
	if err := renderCard(w, card); err != nil {
		return err
	}
	if e := d.OwnerInitialEstimate; e != nil {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", T("bricksets.estimate"), FormatCurrency(*e)); err != nil {
			return err
		}
	}
	for _, v := range d.Valuations {
		line := fmt.Sprintf("  [%d] %d %s  %d %s", v.ID, v.Value, v.Currency, v.LikesCount, T("bricksets.likes"))
		if v.Comment != nil {
			line += "  " + *v.Comment
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
