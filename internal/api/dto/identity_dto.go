package dto

import (
	"time"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// CreateAdminRequest payload for admin registration.
type CreateAdminRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Language   string `json:"language,omitempty"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

// CreateDoctorRequest payload for doctor registration. PreApproved is
// only honored for privileged callers.
type CreateDoctorRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Language    string `json:"language,omitempty"`
	NationalID  string `json:"national_id"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Speciality  string `json:"speciality"`
	PreApproved bool   `json:"pre_approved,omitempty"`
}

// CreatePatientRequest payload for patient registration.
type CreatePatientRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Language   string  `json:"language,omitempty"`
	NationalID string  `json:"national_id"`
	Address    *string `json:"address,omitempty"`
	Job        *string `json:"job,omitempty"`
}

// RegistrationResponse confirms a created profile.
type RegistrationResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// DoctorRegistrationResponse additionally reports approval state.
type DoctorRegistrationResponse struct {
	Message    string `json:"message"`
	ID         string `json:"id"`
	IsApproved bool   `json:"is_approved"`
}

// UserResponse is the external view of a root identity. The internal
// id stays internal; only the global id is exposed.
type UserResponse struct {
	GlobalID    string          `json:"global_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Role        domain.Role     `json:"role"`
	Gender      domain.Gender   `json:"gender"`
	Language    domain.Language `json:"language"`
	DateOfBirth string          `json:"date_of_birth"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewUserResponse maps the domain record.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		GlobalID:    user.GlobalID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		Gender:      user.Gender,
		Language:    user.Language,
		DateOfBirth: user.DateOfBirth.Format("2006-01-02"),
		CreatedAt:   user.CreatedAt,
	}
}

// AdminResponse is the external view of an admin profile.
type AdminResponse struct {
	GlobalID string `json:"global_id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// NewAdminResponse maps the domain record.
func NewAdminResponse(admin *domain.AdminProfile) AdminResponse {
	return AdminResponse{GlobalID: admin.GlobalID, Email: admin.Email, Phone: admin.Phone}
}

// DoctorResponse is the external view of a doctor profile.
type DoctorResponse struct {
	GlobalID   string `json:"global_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Speciality string `json:"speciality"`
	IsApproved bool   `json:"is_approved"`
}

// NewDoctorResponse maps the domain record.
func NewDoctorResponse(doctor *domain.DoctorProfile) DoctorResponse {
	return DoctorResponse{
		GlobalID:   doctor.GlobalID,
		Email:      doctor.Email,
		Phone:      doctor.Phone,
		Speciality: doctor.Speciality,
		IsApproved: doctor.IsApproved,
	}
}

// PatientResponse is the external view of a patient profile.
type PatientResponse struct {
	GlobalID string  `json:"global_id"`
	Address  *string `json:"address,omitempty"`
	Job      *string `json:"job,omitempty"`
}

// NewPatientResponse maps the domain record.
func NewPatientResponse(patient *domain.PatientProfile) PatientResponse {
	return PatientResponse{GlobalID: patient.GlobalID, Address: patient.Address, Job: patient.Job}
}
