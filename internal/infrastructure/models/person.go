package models

import "time"

type Athlete struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	FirstName      string `gorm:"type:varchar(100);not null"`
	LastName       string `gorm:"type:varchar(100);not null"`
	Identification string `gorm:"type:varchar(30);not null;uniqueIndex"`
	Category       string `gorm:"type:varchar(100);not null"`
	Status         string `gorm:"type:varchar(20);not null;default:'Active'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Athlete) TableName() string {
	return "athletes"
}

type Employee struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	FirstName      string `gorm:"type:varchar(100);not null"`
	LastName       string `gorm:"type:varchar(100);not null"`
	Identification string `gorm:"type:varchar(30);not null;uniqueIndex"`
	Position       string `gorm:"type:varchar(100)"`
	Status         string `gorm:"type:varchar(20);not null;default:'Active'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}

type TemporaryPerson struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"`
	FirstName      string  `gorm:"type:varchar(100);not null"`
	LastName       string  `gorm:"type:varchar(100);not null"`
	Identification string  `gorm:"type:varchar(30);not null"`
	PersonType     string  `gorm:"column:person_type;type:varchar(20);not null"`
	Status         string  `gorm:"type:varchar(20);not null;default:'Active'"`
	Category       *string `gorm:"type:varchar(100)"`
	Team           *string `gorm:"type:varchar(100)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TemporaryPerson) TableName() string {
	return "temporary_persons"
}
