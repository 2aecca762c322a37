package usecase

import (
	"context"

	"clinic-appointment-platform/internal/converter"
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DoctorUsecase is the read-only directory patients browse before booking.
type DoctorUsecase interface {
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.UserResponse, error)
	ListServices(ctx context.Context) (*dto.ServiceListResponse, error)
}

type doctorUsecase struct {
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	serviceRepo       repository.ServiceRepository
}

func NewDoctorUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	serviceRepo repository.ServiceRepository,
) DoctorUsecase {
	return &doctorUsecase{
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		serviceRepo:       serviceRepo,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, ErrStoreUnavailable
	}

	doctors := make([]dto.UserResponse, 0, len(profiles))
	for i := range profiles {
		user := profiles[i].User
		user.DoctorProfile = &profiles[i]
		if resp := converter.UserToResponse(&user); resp != nil {
			doctors = append(doctors, *resp)
		}
	}

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.UserResponse, error) {
	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", doctorID, err)
		return nil, ErrStoreUnavailable
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	return converter.UserToResponse(doctor), nil
}

func (u *doctorUsecase) ListServices(ctx context.Context) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAllActive(ctx)
	if err != nil {
		u.log.Warnf("Failed to list services: %+v", err)
		return nil, ErrStoreUnavailable
	}

	responses := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		responses = append(responses, dto.ServiceResponse{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
		})
	}

	return &dto.ServiceListResponse{
		Services: responses,
		Total:    len(responses),
	}, nil
}
