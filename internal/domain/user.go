package domain

type UserRole string

const (
	UserRoleRestaurant   UserRole = "RESTAURANT"
	UserRoleOrganization UserRole = "ORGANIZATION"
	UserRoleAdmin        UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleRestaurant, UserRoleOrganization, UserRoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          int32    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        UserRole `json:"role"`
	DeviceToken string   `json:"-"` // FCM registration token, empty when push is off
}
