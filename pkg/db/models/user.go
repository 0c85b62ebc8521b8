package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eatwise/eatwise-backend/pkg/enums"
)

// User represents an account. PasswordHash is only set for the credentials
// provider; AuthProviderID only for federated providers.
type User struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username       string             `gorm:"column:username;not null;uniqueIndex:uq_users_username"`
	Email          string             `gorm:"column:email;not null;uniqueIndex:uq_users_email"`
	PasswordHash   *string            `gorm:"column:password_hash"`
	AuthProvider   enums.AuthProvider `gorm:"column:auth_provider;not null;default:'credentials'"`
	AuthProviderID *string            `gorm:"column:auth_provider_id;uniqueIndex:uq_users_auth_provider_id"`
	IsMuslim       bool               `gorm:"column:is_muslim;not null;default:false"`
	IsVegan        bool               `gorm:"column:is_vegan;not null;default:false"`
	IsVegetarian   bool               `gorm:"column:is_vegetarian;not null;default:false"`
	IsDiabetic     bool               `gorm:"column:is_diabetic;not null;default:false"`
	IsPregnant     bool               `gorm:"column:is_pregnant;not null;default:false"`
	AvoidsGluten   bool               `gorm:"column:avoids_gluten;not null;default:false"`
	Allergies      pq.StringArray     `gorm:"column:allergies;type:text[];not null;default:'{}'"`
	Role           enums.UserRole     `gorm:"column:role;not null;default:'user'"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
