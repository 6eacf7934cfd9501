package model

import (
	"strings"
	"time"
)

// Role is the single capability tag carried by every profile
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	}
	return false
}

type Department string

const (
	DepartmentScience         Department = "science"
	DepartmentMathematics     Department = "mathematics"
	DepartmentArts            Department = "arts"
	DepartmentCommerce        Department = "commerce"
	DepartmentComputerScience Department = "computer_science"
	DepartmentAdministration  Department = "administration"
)

// UserProfile represents a registered member of the institution
type UserProfile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FirstName    string     `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150)" json:"last_name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Department   Department `gorm:"type:varchar(50)" json:"department"`
	Designation  string     `gorm:"type:varchar(100)" json:"designation"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	PasswordHash string     `gorm:"not null" json:"-"`  // Never expose password in JSON
	TokenVersion int        `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Registrations  []EventRegistration `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Feedbacks      []Feedback          `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for UserProfile
func (UserProfile) TableName() string {
	return "users"
}

// FullName joins first and last name the way roster snapshots store it
func (u UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
