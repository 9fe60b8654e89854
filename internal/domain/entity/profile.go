package entity

import "time"

const (
	RoleClient   = "client"
	RoleMerchant = "merchant"
)

type Profile struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	Role        string    `json:"role" firestore:"role"`
	AvatarURL   string    `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Identity is the signed-in principal. Core operations take it explicitly
// instead of reading an ambient auth context.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (i Identity) IsMerchant() bool {
	return i.Role == RoleMerchant
}
