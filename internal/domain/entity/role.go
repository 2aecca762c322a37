package entity

// Role represents a user role
type Role struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// Role IDs match the seeded roles table
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)
