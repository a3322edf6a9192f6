package repository_test

import (
	"errors"
	"testing"
	"time"

	"geolog/internal/models"
	"geolog/internal/repository"
	"geolog/internal/testutil"

	"gorm.io/gorm"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newLocationRepo(t *testing.T) (*repository.LocationRepository, *gorm.DB) {
	db := testutil.NewDB(t)
	clock := repository.NewMonotonicClock(testutil.StepClock(t0, time.Minute))
	return repository.NewLocationRepository(db).WithClock(clock), db
}

func insert(t *testing.T, repo *repository.LocationRepository, user string, lat, lng float64) *models.UserLocationLog {
	t.Helper()
	loc := &models.UserLocationLog{UserID: user, Latitude: lat, Longitude: lng}
	if err := repo.Create(testutil.Ctx(t), loc); err != nil {
		t.Fatalf("create: %v", err)
	}
	return loc
}

func TestCreateAssignsIDAndIncreasingTimestamps(t *testing.T) {
	repo, _ := newLocationRepo(t)
	a := insert(t, repo, "a@example.com", 1, 1)
	b := insert(t, repo, "a@example.com", 2, 2)

	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("ids not assigned: %d %d", a.ID, b.ID)
	}
	if !b.CreatedAt.After(a.CreatedAt) {
		t.Errorf("created_at not increasing: %v then %v", a.CreatedAt, b.CreatedAt)
	}
	if len(a.GeoFeature) == 0 {
		t.Error("geo feature not populated on insert")
	}
}

func TestLatestPerUser(t *testing.T) {
	repo, _ := newLocationRepo(t)
	// a reports at t1 and t2, b at t3
	insert(t, repo, "a@example.com", 10, 10)
	a2 := insert(t, repo, "a@example.com", 11, 11)
	b3 := insert(t, repo, "b@example.com", 20, 20)

	rows, err := repo.LatestPerUser(testutil.Ctx(t), 50)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ID != b3.ID {
		t.Errorf("first row = %d, want b's t3 row %d", rows[0].ID, b3.ID)
	}
	if rows[1].ID != a2.ID {
		t.Errorf("second row = %d, want a's t2 row %d", rows[1].ID, a2.ID)
	}
}

func TestLatestPerUserRespectsLimit(t *testing.T) {
	repo, _ := newLocationRepo(t)
	insert(t, repo, "a@example.com", 1, 1)
	insert(t, repo, "b@example.com", 1, 1)
	c := insert(t, repo, "c@example.com", 1, 1)

	rows, err := repo.LatestPerUser(testutil.Ctx(t), 1)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != c.ID {
		t.Fatalf("got %+v, want only c's row", rows)
	}
}

func TestLatestPerUserTiedTimestampsFillLimit(t *testing.T) {
	db := testutil.NewDB(t)
	fixed := func(at time.Time) *repository.MonotonicClock {
		return repository.NewMonotonicClock(func() time.Time { return at })
	}
	t1 := t0.Add(time.Minute)
	ctx := testutil.Ctx(t)
	b := &models.UserLocationLog{UserID: "b@example.com", Latitude: 1, Longitude: 1}
	if err := repository.NewLocationRepository(db).WithClock(fixed(t0)).Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	// two server instances stamp the same instant for one user
	var a *models.UserLocationLog
	for i := 0; i < 2; i++ {
		a = &models.UserLocationLog{UserID: "a@example.com", Latitude: 2, Longitude: 2}
		if err := repository.NewLocationRepository(db).WithClock(fixed(t1)).Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repository.NewLocationRepository(db).LatestPerUser(ctx, 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}
	if rows[0].ID != a.ID || rows[1].ID != b.ID {
		t.Errorf("rows = [%d %d], want [%d %d]", rows[0].ID, rows[1].ID, a.ID, b.ID)
	}
}

func TestForUserNewestFirst(t *testing.T) {
	repo, _ := newLocationRepo(t)
	first := insert(t, repo, "a@example.com", 1, 1)
	insert(t, repo, "b@example.com", 1, 1)
	second := insert(t, repo, "a@example.com", 2, 2)
	third := insert(t, repo, "a@example.com", 3, 3)

	rows, err := repo.ForUser(testutil.Ctx(t), "a@example.com", 50)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	want := []uint{third.ID, second.ID, first.ID}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("row %d = %d, want %d", i, rows[i].ID, id)
		}
	}

	rows, _ = repo.ForUser(testutil.Ctx(t), "a@example.com", 2)
	if len(rows) != 2 {
		t.Errorf("limit ignored: got %d rows", len(rows))
	}
}

func TestHistoryWindow(t *testing.T) {
	repo, _ := newLocationRepo(t)
	var locs []*models.UserLocationLog
	for i := 0; i < 5; i++ { // t0, t0+1m, ... t0+4m
		locs = append(locs, insert(t, repo, "a@example.com", float64(i), float64(i)))
	}
	at := func(m int) *time.Time { v := t0.Add(time.Duration(m) * time.Minute); return &v }
	ctx := testutil.Ctx(t)

	tests := []struct {
		name     string
		from, to *time.Time
		want     []uint
	}{
		{"open", nil, nil, []uint{locs[4].ID, locs[3].ID, locs[2].ID, locs[1].ID, locs[0].ID}},
		{"from only", at(3), nil, []uint{locs[4].ID, locs[3].ID}},
		{"to only", nil, at(1), []uint{locs[1].ID, locs[0].ID}},
		{"both inclusive", at(1), at(3), []uint{locs[3].ID, locs[2].ID, locs[1].ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.History(ctx, "a@example.com", tt.from, tt.to, 100)
			if err != nil {
				t.Fatalf("history: %v", err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, id := range tt.want {
				if rows[i].ID != id {
					t.Errorf("row %d = %d, want %d", i, rows[i].ID, id)
				}
			}
		})
	}
}

func TestLastNotFound(t *testing.T) {
	repo, _ := newLocationRepo(t)
	_, err := repo.Last(testutil.Ctx(t), "nobody@example.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestMonotonicClockNeverRepeats(t *testing.T) {
	fixed := func() time.Time { return t0 }
	c := repository.NewMonotonicClock(fixed)
	prev := c.Now()
	for i := 0; i < 100; i++ {
		next := c.Now()
		if !next.After(prev) {
			t.Fatalf("clock went from %v to %v", prev, next)
		}
		prev = next
	}
}
