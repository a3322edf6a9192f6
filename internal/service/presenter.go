package service

import (
	"context"
	"errors"
	"time"

	"geolog/internal/logging"
	"geolog/internal/metrics"
	"geolog/internal/models"
	"geolog/internal/repository"
	"geolog/pkg/location"
	"geolog/pkg/timeago"

	gobreaker "github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

// ProfileSource is the identity directory lookup used for enrichment.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*repository.Profile, error)
}

// ProfileCache sits in front of ProfileSource. Implementations swallow their
// own errors; a miss just falls through to the directory.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*repository.Profile, bool)
	Set(ctx context.Context, p *repository.Profile)
}

// EnrichedLocation is a stored row plus display fields.
type EnrichedLocation struct {
	models.UserLocationLog
	FullName               string   `json:"full_name,omitempty"`
	Avatar                 string   `json:"user_image,omitempty"`
	EmployeeName           string   `json:"employee_name,omitempty"`
	Department             string   `json:"department,omitempty"`
	Designation            string   `json:"designation,omitempty"`
	TimeAgo                string   `json:"time_ago"`
	DistanceFromPreviousKm *float64 `json:"distance_from_previous_km,omitempty"`
}

// TimeAgo labels ts relative to now.
func TimeAgo(ts, now time.Time) string {
	return timeago.Label(ts, now)
}

// Presenter turns rows into EnrichedLocation values.
type Presenter struct {
	profiles ProfileSource
	cache    ProfileCache
	breaker  *gobreaker.CircuitBreaker[*repository.Profile]
	now      func() time.Time
}

func NewPresenter(profiles ProfileSource, cache ProfileCache) *Presenter {
	settings := gobreaker.Settings{
		Name:        "profile-lookup",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		// a user without a directory entry is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, gorm.ErrRecordNotFound)
		},
	}
	return &Presenter{
		profiles: profiles,
		cache:    cache,
		breaker:  gobreaker.NewCircuitBreaker[*repository.Profile](settings),
		now:      time.Now,
	}
}

// WithClock fixes the reference time for time_ago; used by tests.
func (p *Presenter) WithClock(now func() time.Time) *Presenter {
	p.now = now
	return p
}

// Enrich merges profile fields into each row. A failed lookup leaves only
// time_ago set for that row. Lookups are memoised for the duration of the call.
func (p *Presenter) Enrich(ctx context.Context, rows []models.UserLocationLog) []EnrichedLocation {
	now := p.now()
	memo := make(map[string]*repository.Profile)
	out := make([]EnrichedLocation, 0, len(rows))
	for _, row := range rows {
		item := EnrichedLocation{
			UserLocationLog: row,
			TimeAgo:         TimeAgo(row.CreatedAt, now),
		}
		prof, seen := memo[row.UserID]
		if !seen {
			prof = p.lookup(ctx, row.UserID)
			memo[row.UserID] = prof
		}
		if prof != nil {
			item.FullName = prof.FullName
			item.Avatar = prof.Avatar
			item.EmployeeName = prof.EmployeeName
			item.Department = prof.Department
			item.Designation = prof.Designation
		}
		out = append(out, item)
	}
	return out
}

func (p *Presenter) lookup(ctx context.Context, userID string) *repository.Profile {
	if p.cache != nil {
		if prof, ok := p.cache.Get(ctx, userID); ok {
			metrics.ProfileCacheResults.WithLabelValues("hit").Inc()
			return prof
		}
		metrics.ProfileCacheResults.WithLabelValues("miss").Inc()
	}
	prof, err := p.breaker.Execute(func() (*repository.Profile, error) {
		return p.profiles.GetProfile(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.EnrichmentFailures.Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("user", userID).Msg("profile lookup failed")
		}
		return nil
	}
	if p.cache != nil {
		p.cache.Set(ctx, prof)
	}
	return prof
}

// WithDistances sets distance_from_previous_km on rows ordered newest first:
// each row is measured against the next older one. The oldest has none.
func WithDistances(items []EnrichedLocation) {
	for i := 0; i+1 < len(items); i++ {
		cur, prev := items[i], items[i+1]
		// kilometres, matching the _km suffix of the JSON field
		d := location.HaversineKm(cur.Latitude, cur.Longitude, prev.Latitude, prev.Longitude)
		items[i].DistanceFromPreviousKm = &d
	}
}
