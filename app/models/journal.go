package models

import "time"

// Journal is the coach's progress journal for a student.
type Journal struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID  string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CoachID    string    `json:"coach_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date       time.Time `json:"date" gorm:"not null;index;type:date" validate:"required"`
	Attendance bool      `json:"attendance" gorm:"default:true"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	Student    *User     `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Coach      *User     `json:"coach,omitempty" gorm:"foreignKey:CoachID;references:ID"`
}

type ProgressNote struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CoachID   string    `json:"coach_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date      time.Time `json:"date" gorm:"not null;type:date" validate:"required"`
	Category  string    `json:"category" gorm:"not null;type:varchar(100)" validate:"required"`
	Content   string    `json:"content" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	Student   *User     `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

type TechniqueRecord struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID    string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Technique    string    `json:"technique" gorm:"not null;type:varchar(200)" validate:"required"`
	MasteryLevel int       `json:"mastery_level" gorm:"not null" validate:"required,min=1,max=10"`
	Notes        string    `json:"notes"`
	DateRecorded time.Time `json:"date_recorded" gorm:"autoCreateTime;type:date"`
	Student      *User     `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
