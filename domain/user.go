package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessRegister         = "register success"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetDetail        = "success get detail"
	MessageSuccessSendVerification = "verification email sent"
	MessageSuccessVerifyEmail      = "email verified"
	MessageSuccessForgotPassword   = "password reset email sent"
	MessageSuccessResetPassword    = "password reset success"
	MessageSuccessSaveDetails      = "user details saved"
	MessageSuccessGetDetails       = "success get user details"

	MessageFailedRegister         = "failed to register"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetDetail        = "failed to get detail"
	MessageFailedSendVerification = "failed to send verification email"
	MessageFailedVerifyEmail      = "failed to verify email"
	MessageFailedForgotPassword   = "failed to send password reset email"
	MessageFailedResetPassword    = "failed to reset password"
	MessageFailedSaveDetails      = "failed to save user details"
	MessageFailedGetDetails       = "failed to get user details"

	ErrUserNotFound         = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrEmailAlreadyExists   = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrCredentialsNotMatch  = fmt.Errorf("email or password does not match: %w", ErrForbidden)
	ErrEmailNotVerified     = fmt.Errorf("email not verified: %w", ErrForbidden)
	ErrEmailAlreadyVerified = fmt.Errorf("email already verified: %w", ErrConflict)
	ErrLinkNotFound         = fmt.Errorf("link not found: %w", ErrNotFound)
	ErrLinkExpired          = fmt.Errorf("link expired or already used: %w", ErrValidation)
	ErrUserDetailsNotFound  = fmt.Errorf("user details not found: %w", ErrNotFound)
	ErrUserDetailsExists    = fmt.Errorf("user details already exist: %w", ErrConflict)
	ErrHashPassword         = fmt.Errorf("failed to hash password: %w", ErrUnavailable)
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserResponse struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		Email          string    `json:"email"`
		Role           string    `json:"role"`
		EmailConfirmed bool      `json:"email_confirmed"`
		CreatedAt      time.Time `json:"created_at"`
	}

	SendVerificationRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Code     string `json:"code" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserDetailsRequest struct {
		Age         int     `json:"age" validate:"gte=0"`
		Gender      string  `json:"gender" validate:"required,oneof=F M X"`
		Height      float64 `json:"height" validate:"gte=0"`
		Weight      float64 `json:"weight" validate:"gte=0"`
		KcalGoal    float64 `json:"kcal_goal" validate:"gte=0"`
		FatGoal     float64 `json:"fat_goal" validate:"gte=0"`
		ProteinGoal float64 `json:"protein_goal" validate:"gte=0"`
		CarbGoal    float64 `json:"carb_goal" validate:"gte=0"`
	}

	UserDetailsResponse struct {
		UserID      string  `json:"user_id"`
		Age         int     `json:"age"`
		Gender      string  `json:"gender"`
		Height      float64 `json:"height"`
		Weight      float64 `json:"weight"`
		KcalGoal    float64 `json:"kcal_goal"`
		FatGoal     float64 `json:"fat_goal"`
		ProteinGoal float64 `json:"protein_goal"`
		CarbGoal    float64 `json:"carb_goal"`
	}
)
