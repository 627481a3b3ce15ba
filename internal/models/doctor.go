package models

import "time"

// Doctor is reference data for a practitioner
type Doctor struct {
	ID        DoctorID  `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Specialty string    `gorm:"type:varchar(255)" json:"specialty"`
	Initials  string    `gorm:"type:varchar(8)" json:"initials"`
	Color     string    `gorm:"type:varchar(32)" json:"color"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (Doctor) TableName() string {
	return "doctors"
}
