package types

import (
	"time"

	"github.com/google/uuid"
)

// Response is an immutable per-learner answer to a Question. The unique
// index enforces first-answer-is-final; rows are never updated, only read or
// removed by cascade.
type Response struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null;index;uniqueIndex:uq_response_question_student" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	StudentID  uuid.UUID `gorm:"column:student_id;type:uuid;not null;uniqueIndex:uq_response_question_student" json:"student_id"`

	Selected     string    `gorm:"column:selected;type:char(1);not null" json:"selected"`
	IsCorrect    bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	PointsEarned float64   `gorm:"column:points_earned;not null" json:"points_earned"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Response) TableName() string { return "response" }
