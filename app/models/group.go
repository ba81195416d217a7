package models

import "time"

// Gym is a training location run by the club.
type Gym struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	CoachID   *string   `json:"coach_id,omitempty" gorm:"index;type:uuid"`
	Address   string    `json:"address" gorm:"not null" validate:"required"`
	WorkTime  string    `json:"work_time" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Coach     *User     `json:"coach,omitempty" gorm:"foreignKey:CoachID;references:ID"`
}

// Group is a set of students trained by one coach in one gym.
// A coach may run many groups.
type Group struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	CoachID      string    `json:"coach_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	GymID        string    `json:"gym_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name         string    `json:"name" gorm:"not null" validate:"required"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	StudentCount int       `json:"student_count" gorm:"-"`
	Coach        *User     `json:"coach,omitempty" gorm:"foreignKey:CoachID;references:ID"`
	Gym          *Gym      `json:"gym,omitempty" gorm:"foreignKey:GymID;references:ID"`
}

// GroupStudent links a student to a group. Rows are never hard-deleted:
// removal flips is_active to false so that attendance and homework history
// keeps resolving. A student has at most one active row at any time.
type GroupStudent struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	GroupID   string    `json:"group_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	JoinedAt  time.Time `json:"joined_at" gorm:"type:date"`
	Group     *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;references:ID"`
	Student   *User     `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
