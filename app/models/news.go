package models

import "time"

// News items are published by staff and readable without authentication.
type News struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AuthorID  string    `json:"author_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Title     string    `json:"title" gorm:"not null" validate:"required"`
	Content   string    `json:"content" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}

type Achievement struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID      string    `json:"user_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Title       string    `json:"title" gorm:"not null" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" gorm:"not null;type:date" validate:"required"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
