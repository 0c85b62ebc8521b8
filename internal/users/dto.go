package users

import (
	"time"

	"github.com/eatwise/eatwise-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID           uuid.UUID          `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	AuthProvider enums.AuthProvider `json:"authProvider"`
	Role         enums.UserRole     `json:"role"`
	Preferences  Preferences        `json:"preferences"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// UpdatePreferencesRequest carries a partial preference update. Nil fields are
// left unchanged.
type UpdatePreferencesRequest struct {
	IsMuslim     *bool     `json:"isMuslim"`
	IsVegan      *bool     `json:"isVegan"`
	IsVegetarian *bool     `json:"isVegetarian"`
	IsDiabetic   *bool     `json:"isDiabetic"`
	IsPregnant   *bool     `json:"isPregnant"`
	AvoidsGluten *bool     `json:"avoidsGluten"`
	Allergies    *[]string `json:"allergies" validate:"omitempty,max=50,dive,max=60"`
}

func FromAccount(a *Account) *UserDTO {
	if a == nil {
		return nil
	}
	dto := &UserDTO{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		Preferences: a.Preferences,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Identity != nil {
		dto.AuthProvider = a.Identity.Provider()
	}
	if dto.Preferences.Allergies == nil {
		dto.Preferences.Allergies = []string{}
	}
	return dto
}

func (r UpdatePreferencesRequest) apply(p *Preferences) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.IsMuslim, r.IsMuslim)
	set(&p.IsVegan, r.IsVegan)
	set(&p.IsVegetarian, r.IsVegetarian)
	set(&p.IsDiabetic, r.IsDiabetic)
	set(&p.IsPregnant, r.IsPregnant)
	set(&p.AvoidsGluten, r.AvoidsGluten)
	if r.Allergies != nil {
		p.Allergies = *r.Allergies
	}
}
