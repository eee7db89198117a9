package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition status values derived from the date window
const (
	StatusUpcoming   = "upcoming"
	StatusInProgress = "in_progress"
	StatusEnded      = "ended"
)

// Winner is a denormalized snapshot of a winning submission, taken at the
// moment the competition was processed.
type Winner struct {
	Email        string  `json:"email"`
	Score        float64 `json:"score"`
	SubmissionID string  `json:"submission_id"`
	Image        string  `json:"image"`
}

// Competition represents a timed contest accepting one image submission per
// user. Once the end date passes, the lifecycle engine computes the winner
// set exactly once until an invalidating mutation resets IsProcessed.
type Competition struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Start            time.Time `gorm:"column:start_date;not null" json:"start"`
	End              time.Time `gorm:"column:end_date;not null" json:"end"`
	Background       string    `gorm:"type:varchar(255);not null" json:"background"`
	IsHide           bool      `gorm:"not null;default:false" json:"isHide"`
	TotalSubmissions int       `gorm:"not null;default:0" json:"totalSubmissions"`
	Awards           string    `gorm:"type:text;not null" json:"awards"`
	Winners          []Winner  `gorm:"serializer:json" json:"winners"`
	IsProcessed      bool      `gorm:"not null;default:false" json:"isProcessed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Status classifies the competition against the given instant. The status is
// derived from the stored dates and never persisted.
func (c *Competition) Status(now time.Time) string {
	switch {
	case now.Before(c.Start):
		return StatusUpcoming
	case now.Before(c.End):
		return StatusInProgress
	default:
		return StatusEnded
	}
}
