package model

import (
	"encoding/json"
	"time"
)

// Content is one item of a site section (projects, skills, certificates...).
// Data holds the item's JSON document as submitted by the admin client.
type Content struct {
	ID        int64           `json:"id"`
	Section   string          `json:"section"`
	Slug      *string         `json:"slug"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
