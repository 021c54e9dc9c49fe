package domain

import "time"

// Role enumerates identity roles in the clinic platform.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleDoctor     Role = "DOCTOR"
	RolePatient    Role = "PATIENT"
)

// Gender is derived from the national id, never supplied by callers.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Language is the user's preferred language.
type Language string

const (
	LanguageEnglish Language = "EN"
	LanguageArabic  Language = "AR"
)

// User is the root identity record. Every user owns exactly one role
// profile; the profile tables reference users.id.
type User struct {
	ID          int64
	GlobalID    string
	FirstName   string
	LastName    string
	Role        Role
	Gender      Gender
	Language    Language
	DateOfBirth time.Time
	NationalID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// DisplayName joins first and last name for token bundles and notifications.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Active reports whether the user has not been soft-deleted.
func (u *User) Active() bool {
	return u.DeletedAt == nil
}
