package ws

import (
	"context"
	"errors"
	"time"

	"geolog/internal/logging"
	"geolog/internal/models"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// LocationEvent is pushed to live feed clients for every stored location.
type LocationEvent struct {
	ID            uint     `json:"id"`
	User          string   `json:"user"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	ManualRefresh bool     `json:"manual_refresh"`
	Creation      string   `json:"creation"`
}

// SnapshotStore reads the stored locations replayed to new connections.
type SnapshotStore interface {
	LatestPerUser(ctx context.Context, limit int) ([]models.UserLocationLog, error)
	Last(ctx context.Context, userID string) (*models.UserLocationLog, error)
}

// LocationHub fans new locations out to privileged viewers and to the
// reporting user's own connections.
type LocationHub struct {
	*Hub
	store SnapshotStore
	limit int
}

// NewLocationHub serves snapshots from store, at most limit users for a
// privileged viewer.
func NewLocationHub(store SnapshotStore, limit int) *LocationHub {
	return &LocationHub{Hub: NewHub(), store: store, limit: limit}
}

func eventFor(loc *models.UserLocationLog) LocationEvent {
	return LocationEvent{
		ID:            loc.ID,
		User:          loc.UserID,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		Accuracy:      loc.AccuracyMeters,
		ManualRefresh: loc.ManualRefresh,
		Creation:      loc.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Publish is called after a location is stored.
func (h *LocationHub) Publish(loc *models.UserLocationLog) {
	ev := eventFor(loc)
	h.Broadcast(map[string]interface{}{"type": "location", "location": ev}, func(c *Client) bool {
		return c.CanViewAll || c.UserID == ev.User
	})
}

// Snapshot reads the latest stored events c may see, newest first: one per
// user for a privileged viewer, otherwise the caller's own last location.
func (h *LocationHub) Snapshot(ctx context.Context, c *Client) ([]LocationEvent, error) {
	list := []LocationEvent{}
	if c.CanViewAll {
		rows, err := h.store.LatestPerUser(ctx, h.limit)
		if err != nil {
			return list, err
		}
		for i := range rows {
			list = append(list, eventFor(&rows[i]))
		}
		return list, nil
	}
	loc, err := h.store.Last(ctx, c.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return list, nil
	}
	if err != nil {
		return list, err
	}
	return append(list, eventFor(loc)), nil
}

// SendSnapshot queues the snapshot for c. A failed read is logged and an
// empty snapshot sent.
func (h *LocationHub) SendSnapshot(ctx context.Context, c *Client) {
	list, err := h.Snapshot(ctx, c)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user", c.UserID).Msg("live feed snapshot failed")
	}
	data, err := json.Marshal(map[string]interface{}{"type": "snapshot", "locations": list})
	if err != nil {
		return
	}
	c.trySend(data)
}
