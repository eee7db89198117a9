package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Artwork is a denormalized snapshot of a submission selected for an
// exhibition. Snapshots are taken at curation time and do not track the
// source submission afterwards.
type Artwork struct {
	Image        string `json:"image"`
	Author       string `json:"author"`
	SubmissionID string `json:"submission_id"`
}

// Exhibition represents a curated showcase of selected submissions. It has
// no scoring or winner logic.
type Exhibition struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Location         string    `gorm:"type:varchar(255);not null" json:"location"`
	Background       string    `gorm:"type:varchar(255)" json:"background"`
	Start            time.Time `gorm:"column:start_date;not null" json:"start"`
	End              time.Time `gorm:"column:end_date;not null" json:"end"`
	Artwork          []Artwork `gorm:"serializer:json" json:"artwork"`
	TotalSubmissions int       `gorm:"not null;default:0" json:"totalSubmissions"`
	IsHide           bool      `gorm:"not null;default:false" json:"isHide"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (e *Exhibition) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Status classifies the exhibition against the given instant.
func (e *Exhibition) Status(now time.Time) string {
	switch {
	case now.Before(e.Start):
		return StatusUpcoming
	case now.Before(e.End):
		return StatusInProgress
	default:
		return StatusEnded
	}
}
