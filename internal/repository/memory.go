package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// MemoryStore is an in-memory implementation of every store interface.
// It mirrors the database's uniqueness rules (national id across
// users, email and phone per profile table) so service behavior can be
// exercised without Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*domain.User
	admins   map[int64]*domain.AdminProfile
	doctors  map[int64]*domain.DoctorProfile
	patients map[int64]*domain.PatientProfile

	// ProfileInsertErr, when set, fails the profile insert after the
	// user insert inside CreateUserWithProfile. Used by tests to
	// verify that registration leaves no orphaned user row behind.
	ProfileInsertErr error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]*domain.User),
		admins:   make(map[int64]*domain.AdminProfile),
		doctors:  make(map[int64]*domain.DoctorProfile),
		patients: make(map[int64]*domain.PatientProfile),
	}
}

// UserCount reports stored active users.
func (m *MemoryStore) UserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.users {
		if u.Active() {
			n++
		}
	}
	return n
}

// ProfileCount reports stored profiles for the given role.
func (m *MemoryStore) ProfileCount(role domain.Role) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch role {
	case domain.RoleAdmin:
		return len(m.admins)
	case domain.RoleDoctor:
		return len(m.doctors)
	case domain.RolePatient:
		return len(m.patients)
	}
	return 0
}

func (m *MemoryStore) CreateUserWithProfile(_ context.Context, user *domain.User, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Active() && existing.NationalID == user.NationalID {
			return ErrDuplicateNationalID
		}
	}
	if err := m.checkProfileUniqueness(profile); err != nil {
		return err
	}
	if m.ProfileInsertErr != nil {
		return m.ProfileInsertErr
	}

	now := time.Now()
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user

	m.nextID++
	switch p := profile.(type) {
	case *domain.AdminProfile:
		p.ID = m.nextID
		p.UserID = user.ID
		p.CreatedAt = now
		p.UpdatedAt = now
		m.admins[p.ID] = p
	case *domain.DoctorProfile:
		p.ID = m.nextID
		p.UserID = user.ID
		p.CreatedAt = now
		p.UpdatedAt = now
		m.doctors[p.ID] = p
	case *domain.PatientProfile:
		p.ID = m.nextID
		p.UserID = user.ID
		p.CreatedAt = now
		p.UpdatedAt = now
		m.patients[p.ID] = p
	}
	return nil
}

func (m *MemoryStore) checkProfileUniqueness(profile domain.Profile) error {
	switch p := profile.(type) {
	case *domain.AdminProfile:
		for _, existing := range m.admins {
			if existing.Email == p.Email {
				return ErrDuplicateEmail
			}
			if existing.Phone == p.Phone {
				return ErrDuplicatePhone
			}
		}
	case *domain.DoctorProfile:
		for _, existing := range m.doctors {
			if existing.Email == p.Email {
				return ErrDuplicateEmail
			}
			if existing.Phone == p.Phone {
				return ErrDuplicatePhone
			}
		}
	}
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok || !user.Active() {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) GetByNationalID(_ context.Context, nationalID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Active() && user.NationalID == nationalID {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

// Admins returns a view implementing AdminRepository.
func (m *MemoryStore) Admins() AdminRepository { return (*memoryAdmins)(m) }

// Doctors returns a view implementing DoctorRepository.
func (m *MemoryStore) Doctors() DoctorRepository { return (*memoryDoctors)(m) }

// Patients returns a view implementing PatientRepository.
func (m *MemoryStore) Patients() PatientRepository { return (*memoryPatients)(m) }

type memoryAdmins MemoryStore

func (m *memoryAdmins) find(match func(*domain.AdminProfile) bool) (*domain.AdminProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, admin := range m.admins {
		user, ok := m.users[admin.UserID]
		if !ok || !user.Active() {
			continue
		}
		if match(admin) {
			return admin, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryAdmins) GetByEmail(_ context.Context, email string) (*domain.AdminProfile, error) {
	return m.find(func(a *domain.AdminProfile) bool { return a.Email == email })
}

func (m *memoryAdmins) GetByUserID(_ context.Context, userID int64) (*domain.AdminProfile, error) {
	return m.find(func(a *domain.AdminProfile) bool { return a.UserID == userID })
}

func (m *memoryAdmins) GetByGlobalID(_ context.Context, globalID string) (*domain.AdminProfile, error) {
	return m.find(func(a *domain.AdminProfile) bool { return a.GlobalID == globalID })
}

type memoryDoctors MemoryStore

func (m *memoryDoctors) find(match func(*domain.DoctorProfile) bool) (*domain.DoctorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doctor := range m.doctors {
		user, ok := m.users[doctor.UserID]
		if !ok || !user.Active() {
			continue
		}
		if match(doctor) {
			return doctor, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryDoctors) GetByEmail(_ context.Context, email string) (*domain.DoctorProfile, error) {
	return m.find(func(d *domain.DoctorProfile) bool { return d.Email == email })
}

func (m *memoryDoctors) GetByUserID(_ context.Context, userID int64) (*domain.DoctorProfile, error) {
	return m.find(func(d *domain.DoctorProfile) bool { return d.UserID == userID })
}

func (m *memoryDoctors) GetByGlobalID(_ context.Context, globalID string) (*domain.DoctorProfile, error) {
	return m.find(func(d *domain.DoctorProfile) bool { return d.GlobalID == globalID })
}

func (m *memoryDoctors) Approve(_ context.Context, globalID string) (*domain.DoctorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doctor := range m.doctors {
		user, ok := m.users[doctor.UserID]
		if !ok || !user.Active() {
			continue
		}
		if doctor.GlobalID == globalID {
			doctor.IsApproved = true
			doctor.UpdatedAt = time.Now()
			return doctor, nil
		}
	}
	return nil, ErrNotFound
}

type memoryPatients MemoryStore

func (m *memoryPatients) find(match func(*domain.PatientProfile) bool) (*domain.PatientProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, patient := range m.patients {
		user, ok := m.users[patient.UserID]
		if !ok || !user.Active() {
			continue
		}
		if match(patient) {
			return patient, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryPatients) GetByUserID(_ context.Context, userID int64) (*domain.PatientProfile, error) {
	return m.find(func(p *domain.PatientProfile) bool { return p.UserID == userID })
}

func (m *memoryPatients) GetByGlobalID(_ context.Context, globalID string) (*domain.PatientProfile, error) {
	return m.find(func(p *domain.PatientProfile) bool { return p.GlobalID == globalID })
}
