package converter

import (
	"clinic-appointment-platform/internal/delivery/dto"
	"clinic-appointment-platform/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		RoleID:   user.RoleID,
		IsActive: user.IsActive,
	}

	if user.DoctorProfile != nil {
		response.Specialization = user.DoctorProfile.Specialization
		response.Biography = user.DoctorProfile.Biography
	}

	return response
}
