package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MediaKind classifies an uploaded artifact for extraction dispatch.
type MediaKind string

const (
	MediaKindImage     MediaKind = "image"
	MediaKindPDF       MediaKind = "pdf"
	MediaKindDocument  MediaKind = "document"
	MediaKindPlainText MediaKind = "plain_text"
)

// AdaptedSummarySet is the atomic adaptation result: a generic rewrite plus
// one variant per accessibility category. It is stored as a single jsonb
// column so the four variants can only ever be written or cleared together.
type AdaptedSummarySet struct {
	Generic      string `json:"generic"`
	Visual       string `json:"visual"`
	Auditory     string `json:"auditory"`
	Motor        string `json:"motor"`
	Intellectual string `json:"intellectual"`
}

// Complete reports whether every member of the set is non-empty.
func (s AdaptedSummarySet) Complete() bool {
	for _, v := range []string{s.Generic, s.Visual, s.Auditory, s.Motor, s.Intellectual} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func (s AdaptedSummarySet) Empty() bool {
	return s.Generic == "" && s.Visual == "" && s.Auditory == "" && s.Motor == "" && s.Intellectual == ""
}

func (s AdaptedSummarySet) ByCategory(cat AccessibilityCategory) string {
	switch cat {
	case CategoryVisual:
		return s.Visual
	case CategoryAuditory:
		return s.Auditory
	case CategoryMotor:
		return s.Motor
	case CategoryIntellectual:
		return s.Intellectual
	default:
		return ""
	}
}

// Content is a unit of instructional material bound to a subject and a time
// window. Summary holds the raw text the pipeline resolved for it; the
// adapted variants are only ever mutated through the pipeline.
type Content struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID   uuid.UUID `gorm:"column:subject_id;type:uuid;not null;index" json:"subject_id"`
	Subject     *Subject  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	StartDate   time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;not null" json:"end_date"`

	Summary          string         `gorm:"column:summary;type:text" json:"summary"`
	AdaptedSummaries datatypes.JSON `gorm:"column:adapted_summaries;type:jsonb" json:"adapted_summaries,omitempty"`

	ArtifactKey  string    `gorm:"column:artifact_key" json:"artifact_key,omitempty"`
	ArtifactURL  string    `gorm:"column:artifact_url" json:"artifact_url,omitempty"`
	ArtifactName string    `gorm:"column:artifact_name" json:"artifact_name,omitempty"`
	ArtifactKind MediaKind `gorm:"column:artifact_kind" json:"artifact_kind,omitempty"`

	Active    bool           `gorm:"column:active;not null;default:true" json:"active"`
	CreatedBy uuid.UUID      `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Content) TableName() string { return "content" }

func (c *Content) HasArtifact() bool { return c.ArtifactKey != "" }

// AdaptedSet decodes the stored variant bundle. A null or malformed column
// decodes to the empty set.
func (c *Content) AdaptedSet() AdaptedSummarySet {
	var s AdaptedSummarySet
	if len(c.AdaptedSummaries) == 0 {
		return s
	}
	_ = json.Unmarshal(c.AdaptedSummaries, &s)
	return s
}

// SetAdaptedSet stores a complete bundle. Partial bundles are refused so the
// all-or-nothing invariant holds structurally.
func (c *Content) SetAdaptedSet(s AdaptedSummarySet) error {
	if !s.Complete() {
		return ErrIncompleteAdaptedSet
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.AdaptedSummaries = datatypes.JSON(b)
	return nil
}

func (c *Content) ClearAdaptedSet() {
	c.AdaptedSummaries = nil
}
