package store

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/logging"
)

// Catalog failure messages shown to the user.
const (
	MsgInvalidFilters    = "Nieprawidłowe parametry filtrów – przywrócono domyślne sortowanie"
	MsgSessionExpired    = "Sesja wygasła – zaloguj się ponownie"
	MsgServerBusy        = "Błąd serwera – spróbuj później"
	MsgListFailed        = "Błąd podczas ładowania zestawów"
	MsgNetworkDown       = "Błąd połączenia – sprawdź swoją sieć"
	MsgBrickSetNotFound  = "Nie znaleziono zestawu"
	MsgDetailFailed      = "Błąd podczas ładowania zestawu"
	MsgInvalidForm       = "Popraw błędy w formularzu"
	MsgBrickSetExists    = "Zestaw o tych parametrach już istnieje"
	MsgValuationExists   = "Już wyceniłeś ten zestaw"
	MsgServerError       = "Wystąpił błąd serwera. Spróbuj ponownie później"
	MsgNetworkError      = "Brak połączenia z serwerem. Sprawdź połączenie internetowe"
	MsgOwnValuation      = "Nie możesz polajkować własnej wyceny"
	MsgAlreadyLiked      = "Już polajkowałeś tę wycenę"
	MsgValuationNotFound = "Wycena nie istnieje"
	MsgLikeSession       = "Sesja wygasła - zaloguj się ponownie"
	MsgLikeServer        = "Błąd serwera - spróbuj później"
	MsgLikeNetwork       = "Błąd połączenia - spróbuj ponownie"
)

// CatalogState is a snapshot of the catalog store. Slices and Detail are
// shared with other snapshots and must be treated as read-only.
type CatalogState struct {
	Filters   dto.BrickSetFilters
	Items     []dto.BrickSetListItem
	Count     int
	Detail    *dto.BrickSetDetail
	IsLoading bool
	Error     string
}

// TotalPages returns the number of list pages for the current count.
func (s CatalogState) TotalPages() int {
	size := s.Filters.PageSize
	if size <= 0 {
		size = dto.DefaultPageSize
	}
	return (s.Count + size - 1) / size
}

// CatalogStore owns the brick set list, the open detail and the catalog API calls.
type CatalogStore struct {
	cfg    config.Configuration
	client httpclient.Requester
	logger *zap.Logger

	state *observable[CatalogState]
}

// CatalogOption customises a CatalogStore.
type CatalogOption func(*CatalogStore)

// WithCatalogLogger sets the store logger.
func WithCatalogLogger(logger *zap.Logger) CatalogOption {
	return func(s *CatalogStore) {
		s.logger = logging.OrNop(logger)
	}
}

// NewCatalogStore creates a catalog store with default filters.
func NewCatalogStore(cfg config.Configuration, client httpclient.Requester, opts ...CatalogOption) *CatalogStore {
	s := &CatalogStore{
		cfg:    cfg,
		client: client,
		logger: zap.NewNop(),
		state:  newObservable(CatalogState{Filters: dto.DefaultBrickSetFilters()}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *CatalogStore) State() CatalogState {
	return s.state.snapshot()
}

// Subscribe registers fn to be called after every state transition. The
// returned function removes the subscription.
func (s *CatalogStore) Subscribe(fn func(CatalogState)) func() {
	return s.state.subscribe(fn)
}

// SetFilters replaces the list filters. Any change other than the page moves
// back to the first page. Unknown orderings become the default one.
func (s *CatalogStore) SetFilters(f dto.BrickSetFilters) {
	_ = s.state.update(func(st *CatalogState) error {
		f = normalizeFilters(f)
		prev := st.Filters
		prev.Page = f.Page
		if prev != f {
			f.Page = 1
		}
		st.Filters = f
		return nil
	})
}

// ResetFilters restores the default filters.
func (s *CatalogStore) ResetFilters() {
	_ = s.state.update(func(st *CatalogState) error {
		st.Filters = dto.DefaultBrickSetFilters()
		return nil
	})
}

// Search loads the list page selected by the current filters. A rejected
// ordering is reset to the default and the request retried once. On failure
// the list is emptied and Error describes the problem.
func (s *CatalogStore) Search(ctx context.Context) error {
	snapshot, err := s.begin(nil)
	if err != nil {
		return err
	}
	filters := snapshot.Filters
	var (
		page    dto.Page[dto.BrickSetListItem]
		failure string
	)
	defer func() {
		s.finish(func(st *CatalogState) {
			st.Filters = filters
			st.Error = failure
			st.Items = page.Results
			st.Count = page.Count
		})
	}()

	page, err = s.fetchList(ctx, filters)
	if statusOf(err) == http.StatusBadRequest && filters.Ordering != dto.DefaultOrdering {
		s.logger.Debug("ordering rejected, retrying with default", zap.String("ordering", filters.Ordering))
		filters.Ordering = dto.DefaultOrdering
		page, err = s.fetchList(ctx, filters)
	}
	if err != nil {
		page = dto.Page[dto.BrickSetListItem]{}
		failure = listMessage(err)
		s.logger.Debug("search failed", zap.Error(err))
		return err
	}
	return nil
}

// FetchBrickSet loads the detail of one set.
func (s *CatalogStore) FetchBrickSet(ctx context.Context, id int64) (*dto.BrickSetDetail, error) {
	if _, err := s.begin(nil); err != nil {
		return nil, err
	}
	var (
		detail  *dto.BrickSetDetail
		failure string
	)
	defer func() {
		s.finish(func(st *CatalogState) {
			st.Detail = detail
			st.Error = failure
		})
	}()

	resp, err := httpclient.Get[dto.BrickSetDetail](ctx, s.client, s.brickSetPath(id))
	if err != nil {
		failure = detailMessage(err)
		s.logger.Debug("fetch brick set failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	detail = &resp
	return detail, nil
}

// CreateBrickSet adds a set owned by the signed-in user. Errors are returned
// as *httpclient.ResponseError so callers can map field errors.
func (s *CatalogStore) CreateBrickSet(ctx context.Context, req dto.CreateBrickSetRequest) (*dto.BrickSetListItem, error) {
	if _, err := s.begin(nil); err != nil {
		return nil, err
	}
	var failure string
	defer func() { s.finish(func(st *CatalogState) { st.Error = failure }) }()

	item, err := httpclient.Post[dto.CreateBrickSetRequest, dto.BrickSetListItem](ctx, s.client, s.cfg.APIPath("bricksets"), req)
	if err != nil {
		failure = createMessage(err)
		s.logger.Debug("create brick set failed", zap.Int("number", req.Number), zap.Error(err))
		return nil, err
	}
	return &item, nil
}

// CreateValuation values a set. The open detail of that set gains the new
// valuation.
func (s *CatalogStore) CreateValuation(ctx context.Context, brickSetID int64, req dto.CreateValuationRequest) (*dto.Valuation, error) {
	if _, err := s.begin(nil); err != nil {
		return nil, err
	}
	var (
		created *dto.Valuation
		failure string
	)
	defer func() {
		s.finish(func(st *CatalogState) {
			st.Error = failure
			if created != nil && st.Detail != nil && st.Detail.ID == brickSetID {
				st.Detail = withValuation(st.Detail, *created)
			}
		})
	}()

	path := s.brickSetPath(brickSetID) + "/valuations"
	v, err := httpclient.Post[dto.CreateValuationRequest, dto.Valuation](ctx, s.client, path, req)
	if err != nil {
		failure = valuationMessage(err)
		s.logger.Debug("create valuation failed", zap.Int64("brickset_id", brickSetID), zap.Error(err))
		return nil, err
	}
	created = &v
	return created, nil
}

// LikeValuation likes a valuation of the open detail. The like counters are
// raised before the request and restored if it fails.
func (s *CatalogStore) LikeValuation(ctx context.Context, valuationID int64) (*dto.Like, error) {
	var applied bool
	_, err := s.begin(func(st *CatalogState) {
		if st.Detail != nil {
			st.Detail, applied = withLikeDelta(st.Detail, valuationID, 1)
		}
	})
	if err != nil {
		return nil, err
	}
	var failure string
	defer func() {
		s.finish(func(st *CatalogState) {
			st.Error = failure
			if failure != "" && applied && st.Detail != nil {
				st.Detail, _ = withLikeDelta(st.Detail, valuationID, -1)
			}
		})
	}()

	path := s.cfg.APIPath("valuations/" + strconv.FormatInt(valuationID, 10) + "/likes")
	like, err := httpclient.Post[struct{}, dto.Like](ctx, s.client, path, struct{}{})
	if err != nil {
		failure = likeMessage(err)
		s.logger.Debug("like failed", zap.Int64("valuation_id", valuationID), zap.Error(err))
		return nil, err
	}
	return &like, nil
}

// MyBrickSets loads one page of the signed-in user's sets.
func (s *CatalogStore) MyBrickSets(ctx context.Context, ordering string, page int) (*dto.Page[dto.OwnedBrickSet], error) {
	return ownedPage[dto.OwnedBrickSet](ctx, s, "users/me/bricksets", ordering, page)
}

// MyValuations loads one page of the signed-in user's valuations.
func (s *CatalogStore) MyValuations(ctx context.Context, page int) (*dto.Page[dto.OwnedValuation], error) {
	return ownedPage[dto.OwnedValuation](ctx, s, "users/me/valuations", "", page)
}

func ownedPage[T any](ctx context.Context, s *CatalogStore, path, ordering string, page int) (*dto.Page[T], error) {
	if _, err := s.begin(nil); err != nil {
		return nil, err
	}
	var failure string
	defer func() { s.finish(func(st *CatalogState) { st.Error = failure }) }()

	f := dto.BrickSetFilters{Ordering: ordering, Page: page}
	resp, err := httpclient.Get[dto.Page[T]](ctx, s.client, withQuery(s.cfg.APIPath(path), f))
	if err != nil {
		failure = listMessage(err)
		s.logger.Debug("owned list failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return &resp, nil
}

func (s *CatalogStore) fetchList(ctx context.Context, f dto.BrickSetFilters) (dto.Page[dto.BrickSetListItem], error) {
	return httpclient.Get[dto.Page[dto.BrickSetListItem]](ctx, s.client, withQuery(s.cfg.APIPath("bricksets"), f))
}

func (s *CatalogStore) brickSetPath(id int64) string {
	return s.cfg.APIPath("bricksets/" + strconv.FormatInt(id, 10))
}

// begin moves the store into the pending state, clearing the error and
// applying prepare. It returns the state the request starts from.
func (s *CatalogStore) begin(prepare func(*CatalogState)) (CatalogState, error) {
	var snapshot CatalogState
	err := s.state.update(func(st *CatalogState) error {
		if st.IsLoading {
			return ErrRequestInFlight
		}
		st.IsLoading = true
		st.Error = ""
		if prepare != nil {
			prepare(st)
		}
		snapshot = *st
		return nil
	})
	return snapshot, err
}

// finish applies mutate and leaves the pending state.
func (s *CatalogStore) finish(mutate func(*CatalogState)) {
	_ = s.state.update(func(st *CatalogState) error {
		mutate(st)
		st.IsLoading = false
		return nil
	})
}

func withQuery(path string, f dto.BrickSetFilters) string {
	if q := f.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

func normalizeFilters(f dto.BrickSetFilters) dto.BrickSetFilters {
	if !dto.ValidOrdering(f.Ordering, dto.BrickSetOrderings) {
		f.Ordering = dto.DefaultOrdering
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > dto.MaxPageSize {
		f.PageSize = dto.DefaultPageSize
	}
	if !f.ProductionStatus.Valid() {
		f.ProductionStatus = ""
	}
	if !f.Completeness.Valid() {
		f.Completeness = ""
	}
	return f
}

// withValuation returns a copy of d that includes v.
func withValuation(d *dto.BrickSetDetail, v dto.Valuation) *dto.BrickSetDetail {
	out := *d
	out.Valuations = append(append([]dto.BrickSetValuation(nil), d.Valuations...), dto.BrickSetValuation{
		ID:         v.ID,
		UserID:     v.UserID,
		Value:      v.Value,
		Currency:   v.Currency,
		Comment:    v.Comment,
		LikesCount: v.LikesCount,
		CreatedAt:  v.CreatedAt,
	})
	out.ValuationsCount++
	return &out
}

// withLikeDelta returns a copy of d with the likes of valuationID moved by
// delta. It reports false and returns d when the valuation is not listed.
func withLikeDelta(d *dto.BrickSetDetail, valuationID int64, delta int) (*dto.BrickSetDetail, bool) {
	for i, v := range d.Valuations {
		if v.ID != valuationID {
			continue
		}
		out := *d
		out.Valuations = append([]dto.BrickSetValuation(nil), d.Valuations...)
		out.Valuations[i].LikesCount += delta
		out.TotalLikes += delta
		return &out, true
	}
	return d, false
}

func isTransportError(err error) bool {
	var (
		respErr   *httpclient.ResponseError
		decodeErr *httpclient.DecodeError
	)
	return !errors.As(err, &respErr) && !errors.As(err, &decodeErr)
}

func listMessage(err error) string {
	switch status := statusOf(err); {
	case isTransportError(err):
		return MsgNetworkDown
	case status == http.StatusBadRequest:
		return MsgInvalidFilters
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status >= http.StatusInternalServerError:
		return MsgServerBusy
	default:
		return MsgListFailed
	}
}

func detailMessage(err error) string {
	switch status := statusOf(err); {
	case isTransportError(err):
		return MsgNetworkDown
	case status == http.StatusNotFound:
		return MsgBrickSetNotFound
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status >= http.StatusInternalServerError:
		return MsgServerBusy
	default:
		return MsgDetailFailed
	}
}

func createMessage(err error) string {
	switch status := statusOf(err); {
	case status == http.StatusBadRequest:
		return MsgInvalidForm
	case status == http.StatusConflict:
		var body dto.DuplicateErrorBody
		var respErr *httpclient.ResponseError
		if errors.As(err, &respErr) && respErr.Decode(&body) == nil && body.Detail != "" {
			return body.Detail
		}
		return MsgBrickSetExists
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status >= http.StatusInternalServerError:
		return MsgServerError
	default:
		return MsgNetworkError
	}
}

func valuationMessage(err error) string {
	switch status := statusOf(err); {
	case status == http.StatusBadRequest:
		return MsgInvalidForm
	case status == http.StatusConflict:
		return MsgValuationExists
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status == http.StatusNotFound:
		return MsgBrickSetNotFound
	case status >= http.StatusInternalServerError:
		return MsgServerError
	default:
		return MsgNetworkError
	}
}

func likeMessage(err error) string {
	switch status := statusOf(err); {
	case status == http.StatusForbidden:
		return MsgOwnValuation
	case status == http.StatusConflict:
		return MsgAlreadyLiked
	case status == http.StatusNotFound:
		return MsgValuationNotFound
	case status == http.StatusUnauthorized:
		return MsgLikeSession
	case status >= http.StatusInternalServerError:
		return MsgLikeServer
	default:
		return MsgLikeNetwork
	}
}
