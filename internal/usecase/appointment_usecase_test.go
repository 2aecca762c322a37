package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-appointment-platform/config"
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/delivery/http/middleware"
	"clinic-appointment-platform/internal/domain/entity"
	"clinic-appointment-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentTestEnv struct {
	uc           *appointmentUsecase
	appointments *fakeAppointmentRepo
	users        *fakeUserRepo
	workingHours *fakeWorkingHoursRepo
	audit        *fakeAuditService
	badge        *fakeBadgeCache

	admin   *entity.User
	doctor  *entity.User
	patient *entity.User
	svc     *entity.Service
}

// The fixed clock is Monday 2026-03-02 10:00; bookings target the following
// Monday 2026-03-09 unless a test says otherwise.
func newAppointmentTestEnv(t *testing.T) *appointmentTestEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	appointments := newFakeAppointmentRepo()
	users := newFakeUserRepo()
	services := newFakeServiceRepo()
	workingHours := newFakeWorkingHoursRepo()
	audit := &fakeAuditService{}
	badge := &fakeBadgeCache{repo: appointments}

	env := &appointmentTestEnv{
		appointments: appointments,
		users:        users,
		workingHours: workingHours,
		audit:        audit,
		badge:        badge,
		admin:        &entity.User{ID: uuid.New(), RoleID: entity.RoleIDAdmin, Email: "admin@clinic.test", FullName: "Admin", IsActive: true},
		doctor:       &entity.User{ID: uuid.New(), RoleID: entity.RoleIDDoctor, Email: "doc@clinic.test", FullName: "Dr. Gray", IsActive: true},
		patient:      &entity.User{ID: uuid.New(), RoleID: entity.RoleIDPatient, Email: "pat@clinic.test", FullName: "Pat", IsActive: true},
		svc:          &entity.Service{ID: uuid.New(), Name: "Consultation", IsActive: true},
	}
	users.add(env.admin)
	users.add(env.doctor)
	users.add(env.patient)
	services.services[env.svc.ID] = env.svc

	workingHours.hours[env.doctor.ID] = &entity.WorkingHours{
		DoctorID:  env.doctor.ID,
		Days:      entity.WeekdaySet{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		StartTime: "09:00",
		EndTime:   "17:00",
		Available: true,
	}

	availability := service.NewAvailabilityService(log, workingHours, config.SchedulingConfig{
		SlotMinutes:      30,
		DefaultDays:      []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		DefaultStartTime: "08:00",
		DefaultEndTime:   "16:00",
	})
	auditSvc := service.AuditService(audit)

	uc := NewAppointmentUsecase(log, appointments, users, services, availability, auditSvc, badge).(*appointmentUsecase)
	uc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	env.uc = uc

	return env
}

func (env *appointmentTestEnv) ctxFor(user *entity.User) context.Context {
	return middleware.WithUser(context.Background(), user.ID, user.RoleID)
}

func (env *appointmentTestEnv) book(t *testing.T, date, slot string) *dto.AppointmentResponse {
	t.Helper()
	resp, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     date,
		Time:     slot,
	})
	require.NoError(t, err)
	return resp
}

func TestRequestAppointmentSuccess(t *testing.T) {
	env := newAppointmentTestEnv(t)

	resp, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID:  env.doctor.ID,
		ServiceID: &env.svc.ID,
		Date:      "2026-03-09",
		Time:      "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, env.patient.ID, resp.PatientID)
	assert.Equal(t, "2026-03-09", resp.Date)
	assert.Equal(t, "09:30", resp.Time)
	assert.False(t, resp.SeenByPatient)
	assert.Contains(t, env.audit.recorded(), entity.AuditActionAppointmentRequest)
}

func TestRequestAppointmentPastDate(t *testing.T) {
	env := newAppointmentTestEnv(t)

	_, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-02-27",
		Time:     "09:30",
	})
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestRequestAppointmentSameDayAllowed(t *testing.T) {
	env := newAppointmentTestEnv(t)

	_, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-03-02",
		Time:     "16:30",
	})
	assert.NoError(t, err)
}

func TestRequestAppointmentOutsideAvailability(t *testing.T) {
	env := newAppointmentTestEnv(t)

	cases := []struct {
		name string
		date string
		slot string
	}{
		{"before opening", "2026-03-09", "07:00"},
		{"at closing", "2026-03-09", "17:00"},
		{"not on slot boundary", "2026-03-09", "09:15"},
		{"weekend", "2026-03-08", "10:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
				DoctorID: env.doctor.ID,
				Date:     tc.date,
				Time:     tc.slot,
			})
			assert.ErrorIs(t, err, ErrOutsideAvailability)
		})
	}
}

func TestRequestAppointmentBadInput(t *testing.T) {
	env := newAppointmentTestEnv(t)
	ctx := env.ctxFor(env.patient)

	_, err := env.uc.RequestAppointment(ctx, &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID, Date: "09/03/2026", Time: "09:30",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = env.uc.RequestAppointment(ctx, &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID, Date: "2026-03-09", Time: "half past nine",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = env.uc.RequestAppointment(ctx, &dto.RequestAppointmentRequest{
		DoctorID: uuid.New(), Date: "2026-03-09", Time: "09:30",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	unknownService := uuid.New()
	_, err = env.uc.RequestAppointment(ctx, &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID, ServiceID: &unknownService, Date: "2026-03-09", Time: "09:30",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRequestAppointmentSlotTaken(t *testing.T) {
	env := newAppointmentTestEnv(t)
	env.book(t, "2026-03-09", "09:30")

	_, err := env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-03-09",
		Time:     "09:30",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRequestAppointmentConcurrentSameSlot(t *testing.T) {
	env := newAppointmentTestEnv(t)
	const contenders = 8

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
				DoctorID: env.doctor.ID,
				Date:     "2026-03-09",
				Time:     "10:00",
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case err == ErrSlotTaken:
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one contender may win the slot")
	assert.Equal(t, contenders-1, lost)
}

func TestCanceledSlotCanBeRebooked(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "11:00")

	_, err := env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionCancel)
	require.NoError(t, err)

	_, err = env.uc.RequestAppointment(env.ctxFor(env.patient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-03-09",
		Time:     "11:00",
	})
	assert.NoError(t, err, "a canceled appointment frees its slot")
}

func TestTransitionLifecycle(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	approved, err := env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.False(t, approved.SeenByPatient, "a status change resets the seen flag")

	// Completion is gated on the appointment time having passed.
	_, err = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionComplete)
	assert.ErrorIs(t, err, ErrAppointmentNotDue)

	env.uc.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }
	completed, err := env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	// Completed is terminal.
	_, err = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionFromTerminalState(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	_, err := env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionCancel)
	require.NoError(t, err)

	_, err = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionApprove)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cancel is not idempotent on a canceled appointment")
}

func TestTransitionAuthorization(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	otherDoctor := &entity.User{ID: uuid.New(), RoleID: entity.RoleIDDoctor, Email: "other@clinic.test", FullName: "Dr. Other", IsActive: true}
	env.users.add(otherDoctor)

	// Patients cannot approve, other doctors cannot touch the booking.
	_, err := env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionApprove)
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	_, err = env.uc.Transition(env.ctxFor(otherDoctor), booked.ID, entity.ActionApprove)
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	// Admins may approve any booking.
	_, err = env.uc.Transition(env.ctxFor(env.admin), booked.ID, entity.ActionApprove)
	assert.NoError(t, err)

	// Once approved, the patient may no longer cancel.
	_, err = env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionCancel)
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	// The treating doctor still may.
	_, err = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionCancel)
	assert.NoError(t, err)
}

func TestTransitionPatientCancelsOwnPending(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	resp, err := env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, "canceled", resp.Status)
}

func TestTransitionConcurrentApproveCancel(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	var wg sync.WaitGroup
	var approveErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, approveErr = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionApprove)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionCancel)
	}()
	wg.Wait()

	winners := 0
	for _, err := range []error{approveErr, cancelErr} {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent transition may win")
}

func TestAcknowledge(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")

	// Only the owning patient may acknowledge.
	_, err := env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionAcknowledge)
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	resp, err := env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionAcknowledge)
	require.NoError(t, err)
	assert.True(t, resp.SeenByPatient)
	assert.Equal(t, "pending", resp.Status, "acknowledge never changes status")

	// The next status change clears the flag again.
	approved, err := env.uc.Transition(env.ctxFor(env.doctor), booked.ID, entity.ActionApprove)
	require.NoError(t, err)
	assert.False(t, approved.SeenByPatient)
}

func TestUnseenCount(t *testing.T) {
	env := newAppointmentTestEnv(t)
	booked := env.book(t, "2026-03-09", "09:30")
	env.book(t, "2026-03-09", "10:30")

	count, err := env.uc.UnseenCount(env.ctxFor(env.patient))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	_, err = env.uc.Transition(env.ctxFor(env.patient), booked.ID, entity.ActionAcknowledge)
	require.NoError(t, err)

	count, err = env.uc.UnseenCount(env.ctxFor(env.patient))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)
}

func TestListAppointmentsRoleScoping(t *testing.T) {
	env := newAppointmentTestEnv(t)
	env.book(t, "2026-03-09", "09:30")

	otherPatient := &entity.User{ID: uuid.New(), RoleID: entity.RoleIDPatient, Email: "other-pat@clinic.test", FullName: "Other", IsActive: true}
	env.users.add(otherPatient)
	_, err := env.uc.RequestAppointment(env.ctxFor(otherPatient), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-03-09",
		Time:     "10:00",
	})
	require.NoError(t, err)

	// A patient sees only their own, even when filtering for someone else.
	list, err := env.uc.ListAppointments(env.ctxFor(env.patient), &entity.AppointmentFilter{PatientID: &otherPatient.ID})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, env.patient.ID, list.Appointments[0].PatientID)

	// The doctor sees both, ordered by time.
	list, err = env.uc.ListAppointments(env.ctxFor(env.doctor), nil)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "09:30", list.Appointments[0].Time)
	assert.Equal(t, "10:00", list.Appointments[1].Time)
}

func TestGetAvailability(t *testing.T) {
	env := newAppointmentTestEnv(t)

	resp, err := env.uc.GetAvailability(env.ctxFor(env.patient), env.doctor.ID, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.Slots[0])
	assert.Equal(t, "16:30", resp.Slots[len(resp.Slots)-1])

	_, err = env.uc.GetAvailability(env.ctxFor(env.patient), uuid.New(), "2026-03-09")
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = env.uc.GetAvailability(env.ctxFor(env.patient), env.doctor.ID, "next monday")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestAdminBooksOnBehalfOfPatient(t *testing.T) {
	env := newAppointmentTestEnv(t)

	resp, err := env.uc.RequestAppointment(env.ctxFor(env.admin), &dto.RequestAppointmentRequest{
		DoctorID:  env.doctor.ID,
		PatientID: &env.patient.ID,
		Date:      "2026-03-09",
		Time:      "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, env.patient.ID, resp.PatientID)

	// Admin bookings without a patient are rejected.
	_, err = env.uc.RequestAppointment(env.ctxFor(env.admin), &dto.RequestAppointmentRequest{
		DoctorID: env.doctor.ID,
		Date:     "2026-03-09",
		Time:     "10:00",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
