package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserLocationLog is one reported position. Rows are append-only.
type UserLocationLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         string         `gorm:"size:140;not null;index:idx_location_user_created,priority:1" json:"user"`
	Latitude       float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude      float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	AccuracyMeters *float64       `gorm:"type:decimal(10,2)" json:"accuracy,omitempty"`
	Address        string         `gorm:"type:text" json:"address,omitempty"`
	DeviceInfo     datatypes.JSON `json:"device_info,omitempty"`
	ManualRefresh  bool           `gorm:"not null;default:false" json:"manual_refresh"`
	GeoFeature     datatypes.JSON `json:"location"`
	SessionID      string         `gorm:"size:140" json:"session_id,omitempty"`
	SourceIP       string         `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;precision:6;index:idx_location_user_created,priority:2;index" json:"creation"`
}

func (UserLocationLog) TableName() string {
	return "user_location_logs"
}

// BeforeSave rebuilds GeoFeature from the coordinates on every create or
// update, so the stored geometry can never drift from latitude/longitude.
func (l *UserLocationLog) BeforeSave(tx *gorm.DB) error {
	if l.UserID == "" {
		return fmt.Errorf("user is required")
	}
	feature, err := json.Marshal(l.Feature())
	if err != nil {
		return err
	}
	l.GeoFeature = datatypes.JSON(feature)
	return nil
}

// GeoJSON Feature with a Point geometry. Coordinates are [longitude, latitude].
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Point             `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ManualRefresh bool   `json:"manual_refresh"`
	Timestamp     string `json:"timestamp,omitempty"`
}

func (l *UserLocationLog) Feature() Feature {
	f := Feature{
		Type: "Feature",
		Geometry: Point{
			Type:        "Point",
			Coordinates: [2]float64{l.Longitude, l.Latitude},
		},
		Properties: FeatureProperties{
			Name:          "Location for " + l.UserID,
			Address:       l.Address,
			ManualRefresh: l.ManualRefresh,
		},
	}
	if !l.CreatedAt.IsZero() {
		f.Properties.Timestamp = l.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return f
}
