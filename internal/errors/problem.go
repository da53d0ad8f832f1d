package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails is an RFC 7807 error body. Extensions are written as
// top-level members next to the standard ones.
type ProblemDetails struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]interface{}
}

// NewProblemDetails creates a problem with no extensions
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: map[string]interface{}{},
	}
}

// WithExtension sets an extension member
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// Render implements render.Renderer
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON writes the standard members over any extension of the same name
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	body := make(map[string]interface{}, len(pd.Extensions)+5)
	for k, v := range pd.Extensions {
		body[k] = v
	}
	body["type"], body["title"], body["status"] = pd.Type, pd.Title, pd.Status
	if pd.Detail != "" {
		body["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		body["instance"] = pd.Instance
	}
	return json.Marshal(body)
}
