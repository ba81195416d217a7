package models

import "time"

type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password    string     `json:"-" gorm:"not null" validate:"required,min=8"`
	FirstName   string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName    string     `json:"last_name" gorm:"not null" validate:"required"`
	Patronymic  *string    `json:"patronymic,omitempty"`
	Phone       *string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	IsStudent   bool       `json:"is_student" gorm:"default:true"`
	IsCoach     bool       `json:"is_coach" gorm:"default:false"`
	IsStaff     bool       `json:"is_staff" gorm:"default:false"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// FullName is used in API responses and notification texts.
func (u *User) FullName() string {
	if u.Patronymic != nil && *u.Patronymic != "" {
		return u.FirstName + " " + *u.Patronymic + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}
