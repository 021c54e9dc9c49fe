package domain

import "time"

// Profile is the tagged union over role-specific records. Each variant
// references exactly one User via UserID.
type Profile interface {
	ProfileRole() Role
}

// AdminProfile holds credentials and contact details for an administrator.
type AdminProfile struct {
	ID           int64
	GlobalID     string
	UserID       int64
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileRole implements Profile.
func (*AdminProfile) ProfileRole() Role { return RoleAdmin }

// DoctorProfile holds credentials plus speciality and approval state.
// Doctors start unapproved and are approved once by a privileged actor.
type DoctorProfile struct {
	ID           int64
	GlobalID     string
	UserID       int64
	Email        string
	Phone        string
	PasswordHash string
	Speciality   string
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileRole implements Profile.
func (*DoctorProfile) ProfileRole() Role { return RoleDoctor }

// PatientProfile carries no credentials; patients cannot authenticate.
type PatientProfile struct {
	ID        int64
	GlobalID  string
	UserID    int64
	Address   *string
	Job       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRole implements Profile.
func (*PatientProfile) ProfileRole() Role { return RolePatient }
