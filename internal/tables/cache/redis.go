package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebook/pkg/model"
)

// ReportCache caches the daily availability report per date. A nil *ReportCache
// is valid and disables caching, so services can run without Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(addr, password string, ttl time.Duration) *ReportCache {
	if addr == "" {
		return nil
	}
	return &ReportCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

func (c *ReportCache) GetReport(ctx context.Context, date time.Time) ([]*model.TableDayReport, error) {
	if c == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, reportKey(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var report []*model.TableDayReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return report, nil
}

func (c *ReportCache) SetReport(ctx context.Context, date time.Time, report []*model.TableDayReport) error {
	if c == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportKey(date), payload, c.ttl).Err()
}

// InvalidateDate drops the cached report after a ledger write for that date.
func (c *ReportCache) InvalidateDate(ctx context.Context, date time.Time) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, reportKey(date)).Err()
}

func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func reportKey(date time.Time) string {
	return fmt.Sprintf("cache:availability:%s", date.Format("2006-01-02"))
}
