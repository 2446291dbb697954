package handlers

import (
	"net/http"
	"strconv"

	"github.com/fgiraldo/ragapi/internal/adapter"
	"github.com/fgiraldo/ragapi/internal/data/store"
)

const defaultConsumptionLimit = 20

var consumptionStore store.ConsumptionStore

// InitConsumptionHandler wires the history store. A nil store keeps the
// endpoint up with an empty history.
func InitConsumptionHandler(s store.ConsumptionStore) {
	consumptionStore = s
}

// ConsumptionHandler godoc
// @Summary      Recent consumption history
// @Description  Returns the most recent answered-question consumption records, newest first.
// @Tags         Operations
// @Produce      json
// @Param        limit  query     int  false  "Maximum records to return (default 20)"
// @Success      200    {object}  api.ConsumptionResponse
// @Failure      400    {object}  api.ErrorResponse  "Bad limit parameter"
// @Failure      500    {object}  api.ErrorResponse
// @Router       /consumption [get]
func ConsumptionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	limit := defaultConsumptionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	if consumptionStore == nil {
		writeJsonResponse(w, http.StatusOK, adapter.ToConsumptionResponse(nil))
		return
	}

	records, err := consumptionStore.Recent(r.Context(), limit)
	if err != nil {
		logRH.Error("Could not read consumption history", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Could not read consumption history")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToConsumptionResponse(records))
}
