package response

import "github.com/user/css-purge-service/internal/entity"

// Messages returned by the purge endpoint.
const (
	MessageProcessed    = "CSS files processed successfully."
	MessageFetchFailed  = "Error fetching HTML."
	MessageNoStylesheet = "No CSS files found."
)

// PurgeResponse is the success body of the purge endpoint. Files is always
// present, possibly empty.
type PurgeResponse struct {
	Message string              `json:"message"`
	Files   []entity.Artifact   `json:"files"`
	Skipped []entity.SkippedRef `json:"skipped,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
