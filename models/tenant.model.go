package models

import "gorm.io/gorm"

// Tenant is a platform-scoped directory record for one school.
// Each tenant owns an isolated database described by the connection fields.
type Tenant struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Subdomain  string `json:"subdomain" gorm:"unique;not null"` // immutable after creation; routing key
	DBDriver   string `json:"-" gorm:"default:'postgres'"`      // postgres, mysql
	DBHost     string `json:"-" gorm:"default:'localhost'"`
	DBPort     string `json:"-" gorm:"default:'5432'"`
	DBDatabase string `json:"-" gorm:"not null"`
	DBUsername string `json:"-"`
	DBPassword string `json:"-"`
}
