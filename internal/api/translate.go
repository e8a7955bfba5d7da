package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/querysmith/querysmith/internal/config"
	"github.com/querysmith/querysmith/internal/observability"
)

type translateRequest struct {
	Question string `json:"question"`
	Execute  bool   `json:"execute"`
}

// handleTranslate turns a natural language question into guarded SQL via the
// retry orchestrator and optionally executes it in the same request.
func handleTranslate(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Orchestrator == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", "query translation is not configured", false, nil)
		return
	}

	var req translateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid translation request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}
	observability.IncrementTranslateRequests()

	schema := ""
	if deps.Engine != nil {
		loaded, err := deps.Engine.Schema(r.Context())
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
			return
		}
		schema = loaded
	}

	generation := deps.Orchestrator.GenerateSafe(r.Context(), req.Question, schema)
	if !generation.Success {
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "GENERATION_FAILED", generation.Diagnostic, true, map[string]any{
			"attempts": generation.Attempts,
		})
		return
	}

	response := map[string]any{
		"sql":      generation.SQL,
		"attempts": generation.Attempts,
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	}

	if req.Execute {
		if deps.Engine == nil {
			writeError(r.Context(), w, http.StatusNotImplemented, "ENGINE_NOT_CONFIGURED", "query engine is not configured", false, nil)
			return
		}
		started := time.Now()
		result, err := deps.Engine.Execute(r.Context(), generation.SQL)
		observability.ObserveExecution(time.Since(started))
		if err != nil {
			response["execution_error"] = err.Error()
		} else {
			response["columns"] = result.Columns
			response["rows"] = result.Rows
			response["row_count"] = len(result.Rows)
			response["execution_time_sec"] = result.Duration.Seconds()
		}
	}

	writeJSON(w, http.StatusOK, response)
}
