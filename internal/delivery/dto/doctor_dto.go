package dto

// Response DTOs

type DoctorListResponse struct {
	Doctors []UserResponse `json:"doctors"`
	Total   int            `json:"total"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}
