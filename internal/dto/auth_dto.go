package dto

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,contains=@"`
}

type VerifyCodeRequest struct {
	Email    string `json:"email" validate:"required"`
	Code     string `json:"code" validate:"required"`
	DeviceId string `json:"deviceId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type UserDTO struct {
	Email string `json:"email"`
}

// MeResponse carries a nil User for anonymous callers, which encodes as null.
type MeResponse struct {
	User *UserDTO `json:"user"`
}
