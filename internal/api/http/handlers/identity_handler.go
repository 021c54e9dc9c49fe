package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-identity/internal/api/dto"
	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/domain"
	"github.com/spec-kit/clinic-identity/internal/service"
)

// Upstream format contract for national ids; semantic derivation
// happens in the registration service.
var nationalIDPattern = regexp.MustCompile(`^[23]\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])\d{7}$`)

// IdentityHandler exposes registration, lookup and approval endpoints.
type IdentityHandler struct {
	registration *service.RegistrationService
	identity     *service.IdentityService
}

// NewIdentityHandler constructs handler.
func NewIdentityHandler(registration *service.RegistrationService, identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{registration: registration, identity: identity}
}

// CreateAdmin handles POST /identity/admins.
func (h *IdentityHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, last_name, email, phone, password required")
	}
	if !nationalIDPattern.MatchString(req.NationalID) {
		return fiber.NewError(http.StatusBadRequest, "national_id must be a valid 14-digit identifier")
	}

	result, err := h.registration.CreateAdmin(c.UserContext(), service.CreateAdminInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Language:   domain.Language(req.Language),
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegistrationResponse{
		Message: "admin created",
		ID:      result.ProfileGlobalID,
	})
}

// CreateDoctor handles POST /identity/doctors.
func (h *IdentityHandler) CreateDoctor(c *fiber.Ctx) error {
	var req dto.CreateDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.Password == "" || req.Speciality == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, last_name, email, phone, password, speciality required")
	}
	if !nationalIDPattern.MatchString(req.NationalID) {
		return fiber.NewError(http.StatusBadRequest, "national_id must be a valid 14-digit identifier")
	}

	// Pre-approval is honored only for privileged callers; anonymous
	// registrations always start pending.
	preApproved := false
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if principal.Role == domain.RoleSuperAdmin || principal.Role == domain.RoleAdmin {
			preApproved = req.PreApproved
		}
	}

	result, err := h.registration.CreateDoctor(c.UserContext(), service.CreateDoctorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Language:    domain.Language(req.Language),
		NationalID:  req.NationalID,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Speciality:  req.Speciality,
		PreApproved: preApproved,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.DoctorRegistrationResponse{
		Message:    "doctor created",
		ID:         result.ProfileGlobalID,
		IsApproved: result.IsApproved,
	})
}

// CreatePatient handles POST /identity/patients.
func (h *IdentityHandler) CreatePatient(c *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.LastName == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, last_name required")
	}
	if !nationalIDPattern.MatchString(req.NationalID) {
		return fiber.NewError(http.StatusBadRequest, "national_id must be a valid 14-digit identifier")
	}

	result, err := h.registration.CreatePatient(c.UserContext(), service.CreatePatientInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Language:   domain.Language(req.Language),
		NationalID: req.NationalID,
		Address:    req.Address,
		Job:        req.Job,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegistrationResponse{
		Message: "patient created",
		ID:      result.ProfileGlobalID,
	})
}

// GetUser handles GET /identity/users/:id.
func (h *IdentityHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.identity.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// GetAdminByUser handles GET /identity/admins/by-user/:userId.
func (h *IdentityHandler) GetAdminByUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	admin, err := h.identity.GetAdminByUserID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(admin))
}

// GetDoctorByUser handles GET /identity/doctors/by-user/:userId.
func (h *IdentityHandler) GetDoctorByUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	doctor, err := h.identity.GetDoctorByUserID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDoctorResponse(doctor))
}

// GetAdmin handles GET /identity/admins/:globalId.
func (h *IdentityHandler) GetAdmin(c *fiber.Ctx) error {
	admin, err := h.identity.GetAdminByGlobalID(c.UserContext(), c.Params("globalId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(admin))
}

// GetDoctor handles GET /identity/doctors/:globalId.
func (h *IdentityHandler) GetDoctor(c *fiber.Ctx) error {
	doctor, err := h.identity.GetDoctorByGlobalID(c.UserContext(), c.Params("globalId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDoctorResponse(doctor))
}

// GetPatient handles GET /identity/patients/:globalId.
func (h *IdentityHandler) GetPatient(c *fiber.Ctx) error {
	patient, err := h.identity.GetPatientByGlobalID(c.UserContext(), c.Params("globalId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPatientResponse(patient))
}

// ApproveDoctor handles POST /identity/doctors/:globalId/approve.
func (h *IdentityHandler) ApproveDoctor(c *fiber.Ctx) error {
	doctor, err := h.identity.ApproveDoctor(c.UserContext(), c.Params("globalId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDoctorResponse(doctor))
}
