// Package todo holds the single persisted entity of the application.
package todo

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultContent pre-fills the content field of the creation form.
const DefaultContent = "I built an Amplify app with Next.js!"

// Item is a todo entry as stored by the data service ("Blog" in the GraphQL schema).
// Identifiers are assigned by the service and never change.
type Item struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreateItemInput is what the creation form submits.
// Content is collected from the form but the schema has no field for it.
type CreateItemInput struct {
	Name    string
	Content string
}

// Normalize trims surrounding whitespace from the user-supplied fields.
func (in CreateItemInput) Normalize() CreateItemInput {
	return CreateItemInput{
		Name:    strings.TrimSpace(in.Name),
		Content: strings.TrimSpace(in.Content),
	}
}

// Validate checks the input after normalization.
func (in CreateItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("title is required"),
		),
	)
}

// DefaultTitle is the title suggested by the creation form at time now.
func DefaultTitle(now time.Time) string {
	return "Today, " + now.Format("3:04:05 PM")
}
