package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialKind string

const (
	MaterialKindLink  MaterialKind = "link"
	MaterialKindFile  MaterialKind = "file"
	MaterialKindVideo MaterialKind = "video"
)

// SupplementaryMaterial is an auxiliary resource attached to a Content,
// tagged with a target accessibility category or "all". Its lifecycle is
// independent of the content pipeline except cascade delete.
type SupplementaryMaterial struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContentID uuid.UUID `gorm:"column:content_id;type:uuid;not null;index" json:"content_id"`
	Content   *Content  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`

	Kind           MaterialKind          `gorm:"column:kind;not null" json:"kind"`
	Title          string                `gorm:"column:title;not null" json:"title"`
	URL            string                `gorm:"column:url" json:"url,omitempty"`
	StorageKey     string                `gorm:"column:storage_key" json:"storage_key,omitempty"`
	TargetCategory AccessibilityCategory `gorm:"column:target_category;not null;default:'all'" json:"target_category"`

	CreatedBy uuid.UUID      `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SupplementaryMaterial) TableName() string { return "supplementary_material" }
