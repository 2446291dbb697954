package store

import (
	"context"
	"encoding/json"

	"github.com/fgiraldo/ragapi/internal/adapter/utils"
	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/data/redisStore"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

const consumptionListKey = "consumption:recent"

type RedisConsumptionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisConsumptionStore returns nil when redis is unreachable; callers
// fall back to the in-memory store.
func GetRedisConsumptionStore(ctx context.Context) *RedisConsumptionStore {
	redisClient := redisStore.GetRedisStore(ctx, config.RedisConsumptionStore)
	if redisClient == nil {
		return nil
	}
	return &RedisConsumptionStore{
		store:  redisClient,
		logger: logger_i.NewLogger("ConsumptionStore"),
	}
}

// Only in a _test.go file or behind a build tag
func TestConsumptionStore(internal *redisStore.Store) *RedisConsumptionStore {
	return &RedisConsumptionStore{
		store:  internal,
		logger: logger_i.NewLogger("ConsumptionStore"),
	}
}

func (s *RedisConsumptionStore) Record(ctx context.Context, rec ragModel.ConsumptionRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	data, err := json.Marshal(rec)
	if err != nil {
		log.Error("Error marshalling consumption record", "error", err)
		return err
	}

	if err := s.store.ListPush(ctx, consumptionListKey, data); err != nil {
		log.Error("Error saving consumption record", "error", err)
		return err
	}
	if err := s.store.ListTrimLast(ctx, consumptionListKey, recentConsumptionCap); err != nil {
		log.Error("Error trimming consumption history", "error", err)
	}
	log.Debug("Consumption record saved", "session", rec.SessionId)
	return nil
}

func (s *RedisConsumptionStore) Recent(ctx context.Context, n int) ([]ragModel.ConsumptionRecord, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	raw, err := s.store.ListGetRecent(ctx, consumptionListKey, int64(n))
	if err != nil && !s.store.IsNil(err) {
		log.Error("Error reading consumption history", "error", err)
		return nil, err
	}

	raw = utils.ReverseStringArray(raw)
	records := make([]ragModel.ConsumptionRecord, 0, len(raw))
	for _, entry := range raw {
		var rec ragModel.ConsumptionRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			log.Error("Skipping malformed consumption record", "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
