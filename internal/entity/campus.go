package entity

import "github.com/uptrace/bun"

// Campus is a reference entity; the directory is read fresh per request.
type Campus struct {
	bun.BaseModel `bun:"table:campus"`

	ID   string `json:"id" bun:"campus_id,pk"`
	Name string `json:"name" bun:"name"`
}
