package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inditech/rfa/internal/models"
	"github.com/inditech/rfa/internal/quota"
)

// UsageStore is a quota.Store over the usage_counters table.
type UsageStore struct {
	db *gorm.DB
}

func NewUsageStore(conn *gorm.DB) *UsageStore {
	return &UsageStore{db: conn}
}

func (s *UsageStore) Get(ctx context.Context, k quota.Key) (int, error) {
	var c models.UsageCounter
	err := s.db.WithContext(ctx).
		Where("subject = ? AND day = ? AND action = ?", k.Subject, k.Day, string(k.Action)).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return c.Count, err
}

// IncrementBelow is a single upsert: insert at 1, or bump the existing row
// only while it is below limit. No affected row means the cap was reached.
func (s *UsageStore) IncrementBelow(ctx context.Context, k quota.Key, limit int) (int, bool, error) {
	row := models.UsageCounter{Subject: k.Subject, Day: k.Day, Action: string(k.Action), Count: 1}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}, {Name: "day"}, {Name: "action"}},
		DoUpdates: clause.Assignments(map[string]any{"count": gorm.Expr("usage_counters.count + 1")}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("usage_counters.count < ?", limit),
		}},
	}).Create(&row)
	if res.Error != nil {
		return 0, false, res.Error
	}
	n, err := s.Get(ctx, k)
	if err != nil {
		return 0, false, err
	}
	return n, res.RowsAffected > 0, nil
}

func (s *UsageStore) Purge(ctx context.Context, before time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Where("day < ?", before.Format("2006-01-02")).
		Delete(&models.UsageCounter{})
	return int(res.RowsAffected), res.Error
}
