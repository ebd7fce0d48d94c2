package models

import (
	"time"

	"github.com/google/uuid"
)

// JuryMember links exactly one platform user account to the jury. Members are
// deactivated rather than deleted so historical evaluations keep their owner.
type JuryMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"type:text;not null" json:"display_name"`
	Email       string    `gorm:"type:text" json:"email"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JuryMember) TableName() string {
	return "jury_members"
}
