package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionSource string

const (
	QuestionSourceManual    QuestionSource = "manual"
	QuestionSourceGenerated QuestionSource = "generated"
)

// QuestionOption is one labeled choice. Labels run A through E, in order.
type QuestionOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is a multiple-choice item bound to a Content. Position is a
// positive integer unique within the content, assigned from the current
// maximum when unspecified.
type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContentID uuid.UUID `gorm:"column:content_id;type:uuid;not null;index;uniqueIndex:uq_question_content_position" json:"content_id"`
	Content   *Content  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`

	Text     string         `gorm:"column:text;type:text;not null" json:"text"`
	Options  datatypes.JSON `gorm:"column:options;type:jsonb;not null" json:"options"`
	Correct  string         `gorm:"column:correct;type:char(1);not null" json:"correct"`
	Points   float64        `gorm:"column:points;not null;default:1" json:"points"`
	Position int            `gorm:"column:position;not null;uniqueIndex:uq_question_content_position" json:"position"`
	Source   QuestionSource `gorm:"column:source;not null;default:'manual'" json:"source"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

func (q *Question) OptionList() []QuestionOption {
	var opts []QuestionOption
	if len(q.Options) == 0 {
		return opts
	}
	_ = json.Unmarshal(q.Options, &opts)
	return opts
}

func (q *Question) SetOptionList(opts []QuestionOption) error {
	b, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(b)
	return nil
}

// HasOptionLabel reports whether label is one of the present option labels.
func (q *Question) HasOptionLabel(label string) bool {
	for _, o := range q.OptionList() {
		if o.Label == label {
			return true
		}
	}
	return false
}
