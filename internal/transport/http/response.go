package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	apierrors "procdash/internal/errors"
)

// fallbackNote is attached to responses served from the synthetic dataset.
const fallbackNote = "Using fallback mock data"

// Envelope is the standard success response body.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

// respond writes the success envelope. A non-empty note flags degraded data.
func respond(w http.ResponseWriter, r *http.Request, data interface{}, note string) {
	render.JSON(w, r, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Note:      note,
	})
}

// respondError maps an APIError onto the error envelope with its status code.
func respondError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apierrors.NewErrorResponse(apiErr))
}
