package model

import "time"

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is a denormalized record of an authenticated identity's email and role,
// keyed by the external auth id. Kept up to date best-effort during submission
// intake.
type User struct {
	ID        string    `gorm:"primarykey" json:"id"`
	Email     string    `json:"email" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"` // teacher, student
	CreatedAt time.Time `json:"created_at"`
}
