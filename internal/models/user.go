package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Email              string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password           string     `gorm:"not null" json:"-"`
	EmailVerified      bool       `gorm:"default:false" json:"emailVerified"`
	Image              *string    `gorm:"size:1024" json:"image"`
	Role               string     `gorm:"size:20;not null;default:'user'" json:"role"`
	Banned             bool       `gorm:"default:false" json:"banned"`
	BanReason          *string    `gorm:"size:500" json:"banReason"`
	BanExpires         *time.Time `json:"banExpires"`
	Locale             *string    `gorm:"size:10" json:"locale"`
	PaymentsCustomerID *string    `gorm:"size:255;index" json:"paymentsCustomerId"`
	OnboardingComplete bool       `gorm:"default:false" json:"onboardingComplete"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsBanned reports whether the ban is in effect at now. A ban without an
// expiry never lapses.
func (u *User) IsBanned(now time.Time) bool {
	if !u.Banned {
		return false
	}
	return u.BanExpires == nil || u.BanExpires.After(now)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
