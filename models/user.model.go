package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
)

type User struct {
	gorm.Model
	Name         string     `json:"name"`
	Email        string     `json:"email" gorm:"unique;not null"`
	Password     string     `json:"-"`
	Role         string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR
	Bio          string     `json:"bio"`
	AvatarURL    string     `json:"avatar_url"`
	LastActiveAt *time.Time `json:"last_active_at"`
	IsDeleted    bool       `gorm:"default:false"`
}
