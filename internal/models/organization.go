package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Logo      *string   `gorm:"size:1024" json:"logo"`
	Metadata  *string   `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type Invitation struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"organizationId"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"organization"`
	Email          string       `gorm:"size:255;not null;index" json:"email"`
	Role           string       `gorm:"size:20;not null;default:'member'" json:"role"`
	Status         string       `gorm:"size:20;not null;default:'pending'" json:"status"`
	ExpiresAt      time.Time    `gorm:"not null" json:"expiresAt"`
	InviterID      uuid.UUID    `gorm:"type:uuid;not null" json:"inviterId"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
