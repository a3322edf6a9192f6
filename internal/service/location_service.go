package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"geolog/config"
	"geolog/internal/domain"
	"geolog/internal/metrics"
	"geolog/internal/models"
	"geolog/internal/repository"
	"geolog/pkg/timeago"

	"gorm.io/gorm"
)

// LocationStore is the append-only location table.
type LocationStore interface {
	Create(ctx context.Context, loc *models.UserLocationLog) error
	LatestPerUser(ctx context.Context, limit int) ([]models.UserLocationLog, error)
	ForUser(ctx context.Context, userID string, limit int) ([]models.UserLocationLog, error)
	History(ctx context.Context, userID string, from, to *time.Time, limit int) ([]models.UserLocationLog, error)
	Last(ctx context.Context, userID string) (*models.UserLocationLog, error)
}

// Directory lists users that can be tracked.
type Directory interface {
	TrackableUsers(ctx context.Context) ([]repository.Profile, error)
}

// Publisher receives every stored location. The live feed implements it.
type Publisher interface {
	Publish(loc *models.UserLocationLog)
}

// HistoryQuery holds the raw query parameters of a history request.
type HistoryQuery struct {
	UserID   string
	FromDate string
	ToDate   string
	Limit    string
}

type LocationService struct {
	cfg       config.LocationConfig
	store     LocationStore
	directory Directory
	presenter *Presenter
	errs      *ErrorChannel
	publisher Publisher
}

func NewLocationService(cfg config.LocationConfig, store LocationStore, directory Directory, presenter *Presenter, errs *ErrorChannel) *LocationService {
	return &LocationService{cfg: cfg, store: store, directory: directory, presenter: presenter, errs: errs}
}

// SetPublisher attaches the live feed.
func (s *LocationService) SetPublisher(p Publisher) {
	s.publisher = p
}

// Submit validates raw and stores one row for the caller.
func (s *LocationService) Submit(ctx context.Context, rc domain.RequestContext, raw RawReport) (*models.UserLocationLog, error) {
	if !rc.Authenticated() {
		metrics.LocationsRejected.WithLabelValues(domain.KindUnauthenticated.String()).Inc()
		return nil, domain.Unauthenticated()
	}
	report, err := ParseReport(raw)
	if err != nil {
		metrics.LocationsRejected.WithLabelValues(domain.KindOf(err).String()).Inc()
		return nil, err
	}
	loc := report.Record(rc)
	if err := s.store.Create(ctx, loc); err != nil {
		s.errs.Report(ctx, rc, "Location Tracking Error", err)
		return nil, domain.Internal("Failed to save location", err)
	}
	metrics.LocationsSaved.Inc()
	if s.publisher != nil {
		s.publisher.Publish(loc)
	}
	return loc, nil
}

// List returns the latest row per user for privileged callers with no
// filter, otherwise the target user's rows. The bool is the caller's
// view-all capability.
func (s *LocationService) List(ctx context.Context, rc domain.RequestContext, requestedUser, rawLimit string) ([]EnrichedLocation, bool, error) {
	if !rc.Authenticated() {
		return nil, false, domain.Unauthenticated()
	}
	limit := s.limit(rawLimit, s.cfg.DefaultListLimit)
	filter := ResolveListFilter(rc.Principal, strings.TrimSpace(requestedUser))

	var (
		rows []models.UserLocationLog
		err  error
	)
	if filter.Unrestricted() {
		metrics.LocationQueries.WithLabelValues("latest").Inc()
		rows, err = s.store.LatestPerUser(ctx, limit)
	} else {
		metrics.LocationQueries.WithLabelValues("user").Inc()
		rows, err = s.store.ForUser(ctx, filter.UserID, limit)
	}
	if err != nil {
		s.errs.Report(ctx, rc, "Get Locations Error", err)
		return nil, false, domain.Internal("Failed to load locations", err)
	}
	return s.presenter.Enrich(ctx, rows), CanViewAll(rc.Principal), nil
}

// History returns the target user's rows in the optional date window.
func (s *LocationService) History(ctx context.Context, rc domain.RequestContext, q HistoryQuery) ([]EnrichedLocation, error) {
	if !rc.Authenticated() {
		return nil, domain.Unauthenticated()
	}
	target, err := ResolveHistoryTarget(rc.Principal, strings.TrimSpace(q.UserID))
	if err != nil {
		return nil, err
	}
	from, err := ParseDate(q.FromDate, false)
	if err != nil {
		return nil, domain.InvalidArgument("Invalid from_date")
	}
	to, err := ParseDate(q.ToDate, true)
	if err != nil {
		return nil, domain.InvalidArgument("Invalid to_date")
	}
	limit := s.limit(q.Limit, s.cfg.DefaultHistoryLimit)

	metrics.LocationQueries.WithLabelValues("history").Inc()
	rows, err := s.store.History(ctx, target, from, to, limit)
	if err != nil {
		s.errs.Report(ctx, rc, "Location History Error", err)
		return nil, domain.Internal("Failed to load location history", err)
	}
	items := s.presenter.Enrich(ctx, rows)
	WithDistances(items)
	return items, nil
}

// Last returns the caller's own most recent location.
func (s *LocationService) Last(ctx context.Context, rc domain.RequestContext) (*EnrichedLocation, error) {
	if !rc.Authenticated() {
		return nil, domain.Unauthenticated()
	}
	metrics.LocationQueries.WithLabelValues("last").Inc()
	loc, err := s.store.Last(ctx, rc.Principal.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("No location found")
	}
	if err != nil {
		s.errs.Report(ctx, rc, "Get Last Location Error", err)
		return nil, domain.Internal("Failed to load last location", err)
	}
	items := s.presenter.Enrich(ctx, []models.UserLocationLog{*loc})
	return &items[0], nil
}

// TrackableUsers lists users a privileged caller can pick from.
func (s *LocationService) TrackableUsers(ctx context.Context, rc domain.RequestContext) ([]repository.Profile, error) {
	if !rc.Authenticated() {
		return nil, domain.Unauthenticated()
	}
	if !CanViewAll(rc.Principal) {
		return nil, domain.InsufficientPermission()
	}
	users, err := s.directory.TrackableUsers(ctx)
	if err != nil {
		s.errs.Report(ctx, rc, "Get Users Error", err)
		return nil, domain.Internal("Failed to load users", err)
	}
	if users == nil {
		users = []repository.Profile{}
	}
	return users, nil
}

func (s *LocationService) limit(raw string, def int) int {
	return CoerceLimit(raw, def, s.cfg.MaxLimit)
}

// CoerceLimit parses raw as a positive int. Missing, malformed or
// non-positive values give def; max caps the result when positive.
func CoerceLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

// ParseDate reads an optional date bound in UTC using timeago.Layouts. Empty
// input is an open bound. With endOfDay, a bare date extends to the last
// microsecond of that day.
func ParseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, ok := timeago.Parse(raw)
	if !ok {
		return nil, errors.New("unrecognised date " + strconv.Quote(raw))
	}
	t = t.UTC()
	if _, err := time.Parse(time.DateOnly, raw); endOfDay && err == nil {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return &t, nil
}
