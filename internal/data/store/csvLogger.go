package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

var csvHeader = []string{"session_id", "timestamp", "query", "tokens_used", "cost_estimated", "latency_sec"}

// CSVLogger appends consumption rows to a local audit file. It complements
// the ConsumptionStore: the store serves recent-history reads, the CSV file
// is the durable log.
type CSVLogger struct {
	path   string
	mu     sync.Mutex
	logger *logger_i.Logger
}

func NewCSVLogger(path string) *CSVLogger {
	return &CSVLogger{
		path:   path,
		logger: logger_i.NewLogger("Consumption CSV"),
	}
}

func (l *CSVLogger) Append(rec ragModel.ConsumptionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.logger.Error("Error creating log directory", "error", err)
		return err
	}

	writeHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("Error opening consumption log", "error", err)
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}

	tokens := ""
	if rec.TokensUsed != nil {
		tokens = strconv.FormatInt(*rec.TokensUsed, 10)
	}
	cost := ""
	if rec.CostEstimated != nil {
		cost = strconv.FormatFloat(*rec.CostEstimated, 'f', -1, 64)
	}

	row := []string{
		rec.SessionId,
		rec.Timestamp.Format("2006-01-02 15:04:05"),
		rec.Query,
		tokens,
		cost,
		strconv.FormatFloat(rec.LatencySec, 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
