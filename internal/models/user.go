package models

type User struct {
	ID       string `bson:"_id" json:"id"`
	FullName string `bson:"fullName" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`  // Hide from JSON responses
	Role     string `bson:"role" json:"role"`   // "dentist", "assistant", "staff"
	Phone    string `bson:"phone" json:"phone"` // Optional, can be empty
}

const (
	RoleDentist   = "dentist"
	RoleAssistant = "assistant"
	RoleStaff     = "staff"
)
