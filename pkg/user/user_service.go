package user

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/internal/utils/mailing"
	"Nutrition-Tracker/pkg/authz"
	"Nutrition-Tracker/pkg/jwt"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	confirmLinkTTL = 24 * time.Hour
	resetLinkTTL   = time.Hour
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		SendVerificationEmail(ctx context.Context, req domain.SendVerificationRequest) error
		VerifyEmail(ctx context.Context, code string) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error

		CreateUserDetails(ctx context.Context, req domain.UserDetailsRequest, userID string) (domain.UserDetailsResponse, error)
		GetUserDetails(ctx context.Context, callerID, userID string) (domain.UserDetailsResponse, error)
		UpdateUserDetails(ctx context.Context, req domain.UserDetailsRequest, userID string) (domain.UserDetailsResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		appURL         string
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer, appURL string) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
		appURL:         appURL,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.userRepository.EmailExists(ctx, email)
	if err != nil {
		return domain.UserResponse{}, domain.Unavailable(err)
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Role:     domain.RoleUser,
		Active:   false,
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.UserResponse{}, domain.Unavailable(err)
	}

	// registration stands even if the mail cannot be delivered; send_verify can be retried
	if err := s.sendLink(ctx, user, entities.LinkConfirmEmail); err != nil {
		utils.Log.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent")
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsNotMatch
		}
		return domain.LoginResponse{}, domain.Unavailable(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsNotMatch
	}
	if !user.EmailConfirmed {
		return domain.LoginResponse{}, domain.ErrEmailNotVerified
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	utils.Log.WithField("user_id", user.ID).Info("user logged in")
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) SendVerificationEmail(ctx context.Context, req domain.SendVerificationRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return domain.Unavailable(err)
	}
	if user.EmailConfirmed {
		return domain.ErrEmailAlreadyVerified
	}
	return s.sendLink(ctx, user, entities.LinkConfirmEmail)
}

func (s *userService) VerifyEmail(ctx context.Context, code string) error {
	link, err := s.openLink(ctx, code, entities.LinkConfirmEmail)
	if err != nil {
		return err
	}
	if err := s.userRepository.ConfirmEmail(ctx, link.ID, link.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLinkExpired
		}
		return domain.Unavailable(err)
	}
	utils.Log.WithField("user_id", link.UserID).Info("email verified")
	return nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return domain.Unavailable(err)
	}
	return s.sendLink(ctx, user, entities.LinkResetPassword)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	link, err := s.openLink(ctx, req.Code, entities.LinkResetPassword)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrHashPassword
	}
	if err := s.userRepository.ResetPassword(ctx, link.ID, link.UserID, string(hashed)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLinkExpired
		}
		return domain.Unavailable(err)
	}
	return nil
}

func (s *userService) CreateUserDetails(ctx context.Context, req domain.UserDetailsRequest, userID string) (domain.UserDetailsResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.UserDetailsResponse{}, err
	}
	_, err = s.userRepository.GetUserDetails(ctx, user.ID)
	if err == nil {
		return domain.UserDetailsResponse{}, domain.ErrUserDetailsExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserDetailsResponse{}, domain.Unavailable(err)
	}

	details := detailsFromRequest(user.ID, req)
	if err := s.userRepository.CreateUserDetails(ctx, details); err != nil {
		return domain.UserDetailsResponse{}, domain.Unavailable(err)
	}
	return toDetailsResponse(details), nil
}

func (s *userService) GetUserDetails(ctx context.Context, callerID, userID string) (domain.UserDetailsResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserDetailsResponse{}, domain.ErrParseUUID
	}
	if err := authz.RequireOwner(id, callerID, domain.ErrUserNotAllowed); err != nil {
		return domain.UserDetailsResponse{}, err
	}
	details, err := s.userRepository.GetUserDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserDetailsResponse{}, domain.ErrUserDetailsNotFound
		}
		return domain.UserDetailsResponse{}, domain.Unavailable(err)
	}
	return toDetailsResponse(details), nil
}

func (s *userService) UpdateUserDetails(ctx context.Context, req domain.UserDetailsRequest, userID string) (domain.UserDetailsResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserDetailsResponse{}, domain.ErrParseUUID
	}
	current, err := s.userRepository.GetUserDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserDetailsResponse{}, domain.ErrUserDetailsNotFound
		}
		return domain.UserDetailsResponse{}, domain.Unavailable(err)
	}

	details := detailsFromRequest(id, req)
	details.CreatedAt = current.CreatedAt
	if err := s.userRepository.UpdateUserDetails(ctx, details); err != nil {
		return domain.UserDetailsResponse{}, domain.Unavailable(err)
	}
	return toDetailsResponse(details), nil
}

// sendLink stores a signed one-time code for the user and mails it.
func (s *userService) sendLink(ctx context.Context, user *entities.User, kind string) error {
	ttl := confirmLinkTTL
	subject, body := mailing.SubjectConfirmEmail, mailing.ConfirmEmailBody
	if kind == entities.LinkResetPassword {
		ttl = resetLinkTTL
		subject, body = mailing.SubjectResetPassword, mailing.ResetPasswordBody
	}

	code, err := s.jwtService.GenerateTokenLink(map[string]any{
		"user_id": user.ID.String(),
		"type":    kind,
		"nonce":   uuid.NewString(),
	}, ttl)
	if err != nil {
		return domain.Unavailable(err)
	}

	link := &entities.UserLink{
		ID:       uuid.New(),
		UserID:   user.ID,
		Code:     code,
		Type:     kind,
		ExpireAt: time.Now().Add(ttl).UTC(),
	}
	if err := s.userRepository.CreateLink(ctx, link); err != nil {
		return domain.Unavailable(err)
	}

	if err := s.mailer.SendMail(user.Email, subject, body(s.appURL, code)); err != nil {
		return domain.Unavailable(err)
	}
	utils.Log.WithFields(logrus.Fields{"user_id": user.ID, "type": kind}).Info("link sent")
	return nil
}

// openLink checks the signature, the kind and the stored state of a link code.
func (s *userService) openLink(ctx context.Context, code string, kind string) (*entities.UserLink, error) {
	claims, err := s.jwtService.ValidateTokenLink(code)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrLinkExpired
		}
		return nil, domain.ErrLinkNotFound
	}
	if t, _ := claims["type"].(string); t != kind {
		return nil, domain.ErrLinkNotFound
	}

	link, err := s.userRepository.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.Unavailable(err)
	}
	if uid, _ := claims["user_id"].(string); uid != link.UserID.String() {
		return nil, domain.ErrLinkNotFound
	}
	if link.Used || time.Now().After(link.ExpireAt) {
		return nil, domain.ErrLinkExpired
	}
	return link, nil
}

func (s *userService) loadUser(ctx context.Context, userID string) (*entities.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Unavailable(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func detailsFromRequest(userID uuid.UUID, req domain.UserDetailsRequest) *entities.UserDetails {
	return &entities.UserDetails{
		UserID:      userID,
		Age:         req.Age,
		Gender:      req.Gender,
		Height:      req.Height,
		Weight:      req.Weight,
		KcalGoal:    req.KcalGoal,
		FatGoal:     req.FatGoal,
		ProteinGoal: req.ProteinGoal,
		CarbGoal:    req.CarbGoal,
	}
}

func toUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}

func toDetailsResponse(d *entities.UserDetails) domain.UserDetailsResponse {
	return domain.UserDetailsResponse{
		UserID:      d.UserID.String(),
		Age:         d.Age,
		Gender:      d.Gender,
		Height:      d.Height,
		Weight:      d.Weight,
		KcalGoal:    d.KcalGoal,
		FatGoal:     d.FatGoal,
		ProteinGoal: d.ProteinGoal,
		CarbGoal:    d.CarbGoal,
	}
}
