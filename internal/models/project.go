package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Project groups tasks under optional date bounds. Start/end ordering is
// checked at input validation, not here.
type Project struct {
	ID     uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`

	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`

	CreatedDate   time.Time  `json:"created_date"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	CompletedDate *time.Time `json:"completed_date"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}
