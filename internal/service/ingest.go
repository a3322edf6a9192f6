package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"geolog/internal/domain"
	"geolog/internal/models"
	"geolog/pkg/location"

	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// RawReport is the unvalidated body of a location submission. Numeric
// fields accept JSON numbers or numeric strings.
type RawReport struct {
	Latitude      any             `json:"latitude"`
	Longitude     any             `json:"longitude"`
	Accuracy      any             `json:"accuracy"`
	Address       any             `json:"address"`
	DeviceInfo    json.RawMessage `json:"device_info"`
	ManualRefresh any             `json:"manual_refresh"`
}

// Report is a validated submission, ready to be stored.
type Report struct {
	Latitude      float64
	Longitude     float64
	Accuracy      *float64
	Address       string
	DeviceInfo    datatypes.JSON
	ManualRefresh bool
}

// DeviceInfo is the normalised device blob. Raw is only set when the client
// sent something that could not be decoded.
type DeviceInfo struct {
	Browser   string `json:"browser,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Language  string `json:"language,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

var validate = validator.New()

const (
	latitudeRange  = "gte=-90,lte=90"
	longitudeRange = "gte=-180,lte=180"
)

// ParseReport validates coordinates and normalises the optional fields.
// Only coordinate problems are errors; bad optional values are dropped.
func ParseReport(raw RawReport) (*Report, error) {
	if isMissing(raw.Latitude) || isMissing(raw.Longitude) {
		return nil, domain.InvalidCoordinate("Latitude and Longitude are required")
	}
	lat, ok := toFloat(raw.Latitude)
	if !ok {
		return nil, domain.InvalidCoordinate("Latitude must be a number")
	}
	lng, ok := toFloat(raw.Longitude)
	if !ok {
		return nil, domain.InvalidCoordinate("Longitude must be a number")
	}
	if math.IsNaN(lat) || validate.Var(lat, latitudeRange) != nil {
		return nil, domain.InvalidCoordinate("Latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || validate.Var(lng, longitudeRange) != nil {
		return nil, domain.InvalidCoordinate("Longitude must be between -180 and 180")
	}

	r := &Report{
		Latitude:      location.RoundCoordinate(lat),
		Longitude:     location.RoundCoordinate(lng),
		Accuracy:      parseAccuracy(raw.Accuracy),
		Address:       truncate(strings.TrimSpace(toString(raw.Address)), domain.MaxAddressLen),
		ManualRefresh: parseBool(raw.ManualRefresh),
	}
	if info := ParseDeviceInfo(raw.DeviceInfo); info != nil {
		b, err := gojson.Marshal(info)
		if err == nil {
			r.DeviceInfo = datatypes.JSON(b)
		}
	}
	return r, nil
}

// Record builds the row for rc's principal. The user always comes from the
// request context, never from the payload.
func (r *Report) Record(rc domain.RequestContext) *models.UserLocationLog {
	return &models.UserLocationLog{
		UserID:         rc.Principal.UserID,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		AccuracyMeters: r.Accuracy,
		Address:        r.Address,
		DeviceInfo:     r.DeviceInfo,
		ManualRefresh:  r.ManualRefresh,
		SessionID:      rc.SessionID,
		SourceIP:       rc.SourceIP,
	}
}

// ParseDeviceInfo accepts an object or a JSON string holding an object.
// Anything else is kept as a truncated raw string.
func ParseDeviceInfo(data json.RawMessage) *DeviceInfo {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	original := string(data)
	if data[0] == '"' {
		var s string
		if err := gojson.Unmarshal(data, &s); err != nil {
			return &DeviceInfo{Raw: truncate(original, domain.MaxRawDeviceLen)}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		original = s
		data = []byte(s)
	}

	var fields map[string]any
	if err := gojson.Unmarshal(data, &fields); err != nil {
		return &DeviceInfo{Raw: truncate(original, domain.MaxRawDeviceLen)}
	}
	return &DeviceInfo{
		Browser:   truncate(toString(fields["browser"]), domain.MaxBrowserLen),
		Platform:  truncate(toString(fields["platform"]), domain.MaxPlatformLen),
		Language:  truncate(toString(fields["language"]), domain.MaxLanguageLen),
		Timestamp: truncate(toString(fields["timestamp"]), domain.MaxTimestampLen),
	}
}

func isMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func parseAccuracy(v any) *float64 {
	if isMissing(v) {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case nil:
		return false
	}
	f, ok := toFloat(v)
	return ok && f == 1
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
