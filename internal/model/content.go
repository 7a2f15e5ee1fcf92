package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Block is one tagged node of a jsonb body document (hero, about, gallery...).
// Data keeps every field as raw JSON so a rewrite of one image field leaves
// the rest of the block byte-identical.
type Block struct {
	Type string                     `json:"type"`
	Data map[string]json.RawMessage `json:"data"`
}

type Blocks []Block

func (b Blocks) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal Blocks: %w", err)
	}
	return data, nil
}
func (b *Blocks) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("Blocks.Scan: expected []byte or string, got %T", src)
	}
	if err := json.Unmarshal(data, b); err != nil {
		return fmt.Errorf("unmarshal Blocks: %w", err)
	}
	return nil
}

// ProjectImage is one row of the projects gallery. ProjectSlug is joined in on
// read so the pipeline can build storage keys without a second query.
type ProjectImage struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectSlug string    `json:"project_slug"`
	URL         string    `json:"url"`
	Alt         string    `json:"alt"`
	Srcset      string    `json:"srcset"`
	Sizes       string    `json:"sizes"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Position    int       `json:"position"`
}

type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      Blocks    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PageSection struct {
	ID          uuid.UUID `json:"id"`
	Page        string    `json:"page"`
	SectionType string    `json:"section_type"`
	Position    int       `json:"position"`
	Content     Blocks    `json:"content"`
}

// Profile is the admin-panel identity a bearer token resolves to.
type Profile struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// CanManageMedia reports whether the profile may upload or replace images.
func (p *Profile) CanManageMedia() bool {
	return p.Role == RoleAdmin || p.Role == RoleEditor
}
