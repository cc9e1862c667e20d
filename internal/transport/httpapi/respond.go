package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lukebdev/termlink/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the pipeline's failure taxonomy onto HTTP statuses.
// Internal detail stays in the logs; clients get the category.
func writeError(w http.ResponseWriter, err error) {
	var rle *core.RateLimitError
	if errors.As(err, &rle) {
		secs := int((rle.Reset + time.Second - 1) / time.Second)
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":        "rate limit exceeded",
			"resetSeconds": secs,
		})
		return
	}

	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, core.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "feature unavailable"})
	case errors.Is(err, core.ErrProvider):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream provider failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeNDJSON appends one JSON line to an open stream.
func writeNDJSON(w http.ResponseWriter, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func readBody(r *http.Request, out any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return core.ErrValidation
	}
	return nil
}
