package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/data/redisStore"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

func sampleRecord(query string, tokens int64) ragModel.ConsumptionRecord {
	cost := float64(tokens) * config.CostPerToken
	return ragModel.ConsumptionRecord{
		SessionId:     "session-" + query,
		Timestamp:     time.Date(2026, 5, 10, 12, 30, 0, 0, time.UTC),
		Query:         query,
		TokensUsed:    &tokens,
		CostEstimated: &cost,
		LatencySec:    1.25,
	}
}

func TestRedisConsumptionStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	consumptionStore := TestConsumptionStore(redisStore.NewTestStore(client))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	t.Run("Record and Recent Roundtrip", func(t *testing.T) {
		if err := consumptionStore.Record(ctx, sampleRecord("primera", 100)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if err := consumptionStore.Record(ctx, sampleRecord("segunda", 200)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		records, err := consumptionStore.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		// newest first
		if records[0].Query != "segunda" || records[1].Query != "primera" {
			t.Errorf("wrong order: %s, %s", records[0].Query, records[1].Query)
		}
		if records[0].TokensUsed == nil || *records[0].TokensUsed != 200 {
			t.Errorf("tokens lost in roundtrip: %v", records[0].TokensUsed)
		}
	})

	t.Run("Recent Caps Result Size", func(t *testing.T) {
		records, err := consumptionStore.Recent(ctx, 1)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(records) != 1 || records[0].Query != "segunda" {
			t.Errorf("expected only the newest record, got %v", records)
		}
	})

	t.Run("Recent Returns Only The Tail", func(t *testing.T) {
		for _, query := range []string{"tercera", "cuarta", "quinta"} {
			if err := consumptionStore.Record(ctx, sampleRecord(query, 50)); err != nil {
				t.Fatalf("Record failed: %v", err)
			}
		}

		records, err := consumptionStore.Recent(ctx, 3)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 of 5 records, got %d", len(records))
		}
		if records[0].Query != "quinta" || records[2].Query != "tercera" {
			t.Errorf("wrong window: %s .. %s", records[0].Query, records[2].Query)
		}
	})

	t.Run("History Is Trimmed", func(t *testing.T) {
		for i := 0; i < recentConsumptionCap+10; i++ {
			if err := consumptionStore.Record(ctx, sampleRecord(fmt.Sprintf("q%d", i), 1)); err != nil {
				t.Fatalf("Record failed: %v", err)
			}
		}
		records, err := consumptionStore.Recent(ctx, recentConsumptionCap*2)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(records) > recentConsumptionCap {
			t.Errorf("history not trimmed: %d records", len(records))
		}
	})
}

func TestInMemoryConsumptionStore(t *testing.T) {
	s := InitConsumptionStore()
	ctx := context.Background()

	if err := s.Record(ctx, sampleRecord("uno", 10)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(ctx, sampleRecord("dos", 20)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, err := s.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 || records[0].Query != "dos" {
		t.Errorf("expected newest first, got %v", records)
	}

	one, err := s.Recent(ctx, 1)
	if err != nil || len(one) != 1 || one[0].Query != "dos" {
		t.Errorf("Recent(1) mismatch: %v, %v", one, err)
	}
}

func TestCSVLogger_AppendsRowsWithSingleHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "consumo_logs.csv")
	logger := NewCSVLogger(path)

	if err := logger.Append(sampleRecord("primera pregunta", 150)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := logger.Append(sampleRecord("segunda pregunta", 300)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "session_id" || rows[0][5] != "latency_sec" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][2] != "primera pregunta" || rows[1][3] != "150" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][5] != "1.25" {
		t.Errorf("latency badly formatted: %v", rows[2])
	}
}

func TestCSVLogger_NilUsageFieldsAreEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consumo_logs.csv")
	logger := NewCSVLogger(path)

	rec := ragModel.ConsumptionRecord{
		SessionId:  "s1",
		Timestamp:  time.Now(),
		Query:      "sin tokens",
		LatencySec: 0.5,
	}
	if err := logger.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if rows[1][3] != "" || rows[1][4] != "" {
		t.Errorf("nil usage should serialize as empty, got %v", rows[1])
	}
}
