package http

import (
	"time"

	"github.com/residesk/amenity-booking-backend/internal/pkg/request"
	"github.com/residesk/amenity-booking-backend/internal/user"
)

type RegisterBody struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required"`
	DisplayName *string `json:"display_name"`
	UnitNumber  *string `json:"unit_number"`
}

type LoginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserBody struct {
	DisplayName *string `json:"display_name"`
	UnitNumber  *string `json:"unit_number"`
	Role        *string `json:"role" binding:"omitempty,oneof=resident manager sysadmin"`
	IsActive    *bool   `json:"is_active"`
}

type ListUsersRequest struct {
	request.ListParams
	Email    string `form:"email" binding:"omitempty,email"`
	Role     string `form:"role" binding:"omitempty,oneof=resident manager sysadmin"`
	IsActive *bool  `form:"is_active"`
}

// UserTag is the minimal user reference embedded in other responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	UnitNumber  *string    `json:"unit_number"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		UnitNumber:  u.UnitNumber,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}
