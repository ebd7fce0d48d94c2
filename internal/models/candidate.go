package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Award categories are a fixed set; candidates outside of it are rejected at
// the API boundary.
const (
	CategoryStartup     = "start-up"
	CategoryEstablished = "established-company"
	CategoryGovernance  = "governance-politics"
	CategoryResearch    = "research-institution"
)

type Candidate struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name                string         `gorm:"type:text;not null" json:"name"`
	Organization        string         `gorm:"type:text" json:"organization"`
	Position            string         `gorm:"type:text" json:"position"`
	Category            string         `gorm:"type:text;index" json:"category"`
	DescriptionSections datatypes.JSON `gorm:"type:jsonb" json:"description_sections,omitempty"`
	CreatedAt           time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Eligible reports whether the candidate may enter a distribution round.
func (c *Candidate) Eligible() bool {
	return c.Name != "" && c.Category != ""
}
