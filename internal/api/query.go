package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/querysmith/querysmith/internal/observability"
	"github.com/querysmith/querysmith/internal/sqlcheck"
)

type queryRequest struct {
	SQL         string `json:"sql"`
	AllowUnsafe bool   `json:"allow_unsafe"`
}

var guard sqlcheck.Guardrail

// handleQuery executes caller-supplied SQL after it passes the validation and
// safety gates. The row limit is enforced by the engine.
func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Engine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ENGINE_NOT_CONFIGURED", "query engine is not configured", false, nil)
		return
	}

	var req queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	cleaned := guard.Sanitize(req.SQL)
	if verdict := sqlcheck.Validate(cleaned, req.AllowUnsafe); !verdict.OK {
		observability.IncrementValidationRejected(verdict.Rule)
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "QUERY_REJECTED", verdict.Reason, false, nil)
		return
	}
	if verdict := guard.CheckSafety(cleaned); !verdict.OK {
		observability.IncrementGuardrailRejected(verdict.Rule)
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "QUERY_REJECTED", verdict.Reason, false, nil)
		return
	}

	started := time.Now()
	result, err := deps.Engine.Execute(r.Context(), cleaned)
	observability.ObserveExecution(time.Since(started))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "EXECUTION_FAILED", err.Error(), false, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sql":                cleaned,
		"columns":            result.Columns,
		"rows":               result.Rows,
		"row_count":          len(result.Rows),
		"execution_time_sec": result.Duration.Seconds(),
	})
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Engine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ENGINE_NOT_CONFIGURED", "query engine is not configured", false, nil)
		return
	}
	schema, err := deps.Engine.Schema(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schema": schema})
}
