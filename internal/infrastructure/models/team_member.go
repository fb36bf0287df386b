package models

import "time"

// TeamMember links a team to exactly one of athlete, employee or temporary
// person. The CHECK constraint lives in the migration.
type TeamMember struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	TeamID            uint      `gorm:"not null;index"`
	AthleteID         *uint     `gorm:"index"`
	EmployeeID        *uint     `gorm:"index"`
	TemporaryPersonID *uint     `gorm:"column:temporary_person_id;index"`
	Role              string    `gorm:"type:varchar(20);not null;default:'Miembro'"`
	IsActive          bool      `gorm:"not null;default:true"`
	JoinedAt          time.Time `gorm:"not null"`

	Athlete         *Athlete         `gorm:"foreignKey:AthleteID"`
	Employee        *Employee        `gorm:"foreignKey:EmployeeID"`
	TemporaryPerson *TemporaryPerson `gorm:"foreignKey:TemporaryPersonID"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
