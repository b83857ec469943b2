package domain

import (
	"time"

	"github.com/google/uuid"
)

// Revision is one scheduled review date for a score. Rows are regenerated
// wholesale whenever the owning score is written.
type Revision struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScoreID      uuid.UUID `gorm:"index;not null;column:score_id" json:"score_id"`
	Score        *Score    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScoreID;references:ID" json:"-"`
	RevisionDate time.Time `gorm:"type:date;not null;column:revision_date" json:"revision_date"`
	Completed    bool      `gorm:"not null;default:false;column:completed" json:"completed"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Revision) TableName() string { return "revisions" }

// RevisionItem is the dashboard row shape: a revision joined with the
// chapter and subject it belongs to.
type RevisionItem struct {
	ID           uuid.UUID `json:"id"`
	RevisionDate time.Time `json:"revision_date"`
	Completed    bool      `json:"completed"`
	ChapterName  string    `json:"chapter_name"`
	SubjectName  string    `json:"subject_name"`
}
