package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// UserDTO is the transport shape of an account.
type UserDTO struct {
	ID                uuid.UUID  `json:"id"`
	IdentityID        string     `json:"identityId"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Photo             string     `json:"photo,omitempty"`
	Mobile            string     `json:"mobile,omitempty"`
	Address           string     `json:"address,omitempty"`
	WardNumber        int        `json:"wardNumber,omitempty"`
	AadharPhoto       string     `json:"aadharPhoto,omitempty"`
	Role              enums.Role `json:"role"`
	IsVerified        bool       `json:"isVerified"`
	IsProfileComplete bool       `json:"isProfileComplete"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Identity is the verified triple handed over by the identity provider.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// UpdateProfileInput carries the profile fields a caller may set. Nil leaves
// the stored value untouched.
type UpdateProfileInput struct {
	Name        *string
	Mobile      *string
	Address     *string
	WardNumber  *int
	Photo       *string
	AadharPhoto *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		IdentityID:        u.IdentityID,
		Email:             u.Email,
		Name:              u.Name,
		Photo:             u.Photo,
		Mobile:            u.Mobile,
		Address:           u.Address,
		WardNumber:        u.WardNumber,
		AadharPhoto:       u.AadharPhoto,
		Role:              u.Role,
		IsVerified:        u.IsVerified,
		IsProfileComplete: u.IsProfileComplete,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// FromModels maps a list, always returning a non-nil slice.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (i Identity) toModel(role enums.Role) *models.User {
	user := &models.User{
		IdentityID: i.Subject,
		Email:      i.Email,
		Name:       i.Name,
		Photo:      i.Picture,
		Role:       role,
	}
	if role == enums.RoleAdmin {
		user.PromoteToAdmin()
	}
	return user
}
