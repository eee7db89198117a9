package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission represents one user's artwork entry for a competition. The
// unique index on (competition_id, author) is the authoritative guard
// against duplicate entries by the same author.
type Submission struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	Image         string     `gorm:"type:varchar(255);not null" json:"image"`
	CompetitionID string     `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_competition_author" json:"competition_id"`
	Author        string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_submissions_competition_author" json:"author"`
	Score         float64    `gorm:"not null;default:0" json:"score"`
	ScoredBy      *string    `gorm:"type:varchar(255)" json:"scored_by"`
	ScoredAt      *time.Time `json:"scored_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Competition *Competition `gorm:"foreignKey:CompetitionID" json:"competition,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
