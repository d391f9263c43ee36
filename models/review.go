package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID     string    `gorm:"size:36;index;not null" json:"productId"`
	UserID        string    `gorm:"size:36;index;not null" json:"userId"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"size:300;not null" json:"comment"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail"`
	Date          time.Time `gorm:"index" json:"date"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
