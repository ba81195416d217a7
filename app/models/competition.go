package models

import "time"

// Competition may be restricted to a set of groups. An empty set means the
// competition is visible to everyone.
type Competition struct {
	ID            string                 `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name          string                 `json:"name" gorm:"not null" validate:"required"`
	Location      string                 `json:"location" gorm:"not null" validate:"required"`
	Date          time.Time              `json:"date" gorm:"not null;index;type:date" validate:"required"`
	Description   string                 `json:"description"`
	IsActive      bool                   `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
	VisibleGroups []string               `json:"visible_groups" gorm:"-"`
	Categories    []*CompetitionCategory `json:"categories,omitempty" gorm:"-"`
}

type CompetitionCategory struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	CompetitionID string `json:"competition_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Name          string `json:"name" gorm:"not null" validate:"required"`
	WeightMin     *int   `json:"weight_min,omitempty"`
	WeightMax     *int   `json:"weight_max,omitempty"`
	AgeMin        *int   `json:"age_min,omitempty"`
	AgeMax        *int   `json:"age_max,omitempty"`
}

type CompetitionRegistration struct {
	ID            string               `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID        string               `json:"user_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CompetitionID string               `json:"competition_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	CategoryID    *string              `json:"category_id,omitempty" gorm:"index;type:uuid"`
	IsConfirmed   bool                 `json:"is_confirmed" gorm:"default:false"`
	RegisteredAt  time.Time            `json:"registered_at" gorm:"autoCreateTime"`
	User          *User                `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Competition   *Competition         `json:"competition,omitempty" gorm:"foreignKey:CompetitionID;references:ID"`
	Category      *CompetitionCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
}

type CompetitionResult struct {
	ID             string                   `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	RegistrationID string                   `json:"registration_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	Place          int                      `json:"place" gorm:"not null" validate:"required,min=1"`
	Score          *int                     `json:"score,omitempty"`
	Notes          string                   `json:"notes"`
	Registration   *CompetitionRegistration `json:"registration,omitempty" gorm:"foreignKey:RegistrationID;references:ID"`
}

type TeamCompetitionResult struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	CompetitionID string `json:"competition_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TeamName      string `json:"team_name" gorm:"not null" validate:"required"`
	Place         int    `json:"place" gorm:"not null" validate:"required,min=1"`
	Achievements  string `json:"achievements"`
}
