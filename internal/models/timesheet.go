package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timesheet struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string     `gorm:"size:120;index;not null" json:"name"`
	CompanyName string     `gorm:"size:255;index" json:"companyName"`
	PunchIn     *time.Time `json:"punchIn,omitempty"`
	PunchOut    *time.Time `json:"punchOut,omitempty"`
	TotalHours  float64    `gorm:"type:decimal(5,2)" json:"totalHours"`
	Date        string     `gorm:"size:10;index" json:"date"`
	FileURL     *string    `gorm:"size:512" json:"fileUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
