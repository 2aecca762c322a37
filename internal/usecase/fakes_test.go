package usecase

import (
	"context"
	"sort"
	"sync"

	"clinic-appointment-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. The appointment fake enforces the same
// uniqueness rule as the partial index in Postgres: at most one occupying
// row per (doctor, date, time), checked and inserted under one lock.

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.appointments {
		if existing.DoctorID == appointment.DoctorID &&
			existing.Date.Equal(appointment.Date) &&
			existing.Time == appointment.Time &&
			existing.OccupiesSlot() {
			return gorm.ErrDuplicatedKey
		}
	}

	stored := *appointment
	f.appointments[appointment.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeAppointmentRepo) Find(_ context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Appointment
	for _, a := range f.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Date != "" && a.Date.Format("2006-01-02") != filter.Date {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.UnseenOnly && a.SeenByPatient {
			continue
		}
		result = append(result, *a)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.appointments[id]
	if !ok || stored.Status != from {
		return 0, nil
	}
	stored.Status = to
	stored.SeenByPatient = false
	return 1, nil
}

func (f *fakeAppointmentRepo) Acknowledge(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.appointments[id]
	if !ok {
		return 0, nil
	}
	stored.SeenByPatient = true
	return 1, nil
}

func (f *fakeAppointmentRepo) CountUnseen(_ context.Context, patientID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, a := range f.appointments {
		if a.PatientID == patientID && !a.SeenByPatient {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) add(user *entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*entity.Service)}
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	return f.services[id], nil
}

func (f *fakeServiceRepo) FindAllActive(_ context.Context) ([]entity.Service, error) {
	var result []entity.Service
	for _, svc := range f.services {
		if svc.IsActive {
			result = append(result, *svc)
		}
	}
	return result, nil
}

type fakeWorkingHoursRepo struct {
	mu    sync.Mutex
	hours map[uuid.UUID]*entity.WorkingHours
}

func newFakeWorkingHoursRepo() *fakeWorkingHoursRepo {
	return &fakeWorkingHoursRepo{hours: make(map[uuid.UUID]*entity.WorkingHours)}
}

func (f *fakeWorkingHoursRepo) FindByDoctorID(_ context.Context, doctorID uuid.UUID) (*entity.WorkingHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hours[doctorID], nil
}

func (f *fakeWorkingHoursRepo) Upsert(_ context.Context, hours *entity.WorkingHours) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours[hours.DoctorID] = hours
	return nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditService) Record(_ context.Context, _ *uuid.UUID, action string, _ entity.JSON) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeAuditService) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

// fakeBadgeCache answers badge reads straight from the appointment fake and
// counts invalidations.
type fakeBadgeCache struct {
	mu            sync.Mutex
	repo          *fakeAppointmentRepo
	invalidations int
}

func (f *fakeBadgeCache) UnseenCount(ctx context.Context, patientID uuid.UUID) (int64, error) {
	return f.repo.CountUnseen(ctx, patientID)
}

func (f *fakeBadgeCache) Invalidate(_ context.Context, _ uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}
