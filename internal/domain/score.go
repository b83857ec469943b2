package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Score is the active score for a chapter. Recording a new score replaces
// the old row and its whole revision schedule; history is not kept.
type Score struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChapterID        uuid.UUID      `gorm:"index;not null;column:chapter_id" json:"chapter_id"`
	Chapter          *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"-"`
	ScorePercentage  float64        `gorm:"not null;column:score_percentage" json:"score_percentage"`
	PerformanceLevel string         `gorm:"not null;column:performance_level" json:"performance_level"`
	Deadline         time.Time      `gorm:"type:date;not null;column:deadline" json:"deadline"`
	AIStrategy       datatypes.JSON `gorm:"column:ai_strategy" json:"ai_strategy"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Score) TableName() string { return "scores" }
