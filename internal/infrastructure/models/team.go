package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);not null"`
	CoachLabel  *string `gorm:"column:coach_label;type:varchar(150)"`
	Category    *string `gorm:"type:varchar(100)"`
	Phone       *string `gorm:"type:varchar(20)"`
	Description *string `gorm:"type:text"`
	Status      string  `gorm:"type:varchar(20);not null;default:'Active'"`
	TeamType    string  `gorm:"column:team_type;type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Members []TeamMember `gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string {
	return "teams"
}
