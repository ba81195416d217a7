package models

import "time"

// Training is a single session of a group. Times are stored as "HH:MM".
type Training struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	GroupID   string    `json:"group_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date      time.Time `json:"date" gorm:"not null;index;type:date" validate:"required"`
	TimeStart string    `json:"time_start" gorm:"not null;type:time" validate:"required"`
	TimeEnd   string    `json:"time_end" gorm:"not null;type:time" validate:"required"`
	Topic     *string   `json:"topic,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Group     *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;references:ID"`
}

type Homework struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	TrainingID string   `json:"training_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CoachID   string    `json:"coach_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TaskText  string    `json:"task_text" gorm:"not null" validate:"required"`
	Deadline  time.Time `json:"deadline" gorm:"not null;type:date" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	Training  *Training `json:"training,omitempty" gorm:"foreignKey:TrainingID;references:ID"`
	Student   *User     `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

type Attendance struct {
	ID         string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	TrainingID string           `json:"training_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID  string           `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Status     AttendanceStatus `json:"status" gorm:"not null;type:varchar(10)" validate:"required,oneof=present absent late excused"`
	Notes      string           `json:"notes"`
	CreatedAt  time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	Training   *Training        `json:"training,omitempty" gorm:"foreignKey:TrainingID;references:ID"`
	Student    *User            `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
