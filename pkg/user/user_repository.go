package user

import (
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		EmailExists(ctx context.Context, email string) (bool, error)

		CreateLink(ctx context.Context, link *entities.UserLink) error
		GetLinkByCode(ctx context.Context, code string) (*entities.UserLink, error)
		ConfirmEmail(ctx context.Context, linkID, userID uuid.UUID) error
		ResetPassword(ctx context.Context, linkID, userID uuid.UUID, hashed string) error

		CreateUserDetails(ctx context.Context, details *entities.UserDetails) error
		GetUserDetails(ctx context.Context, userID uuid.UUID) (*entities.UserDetails, error)
		UpdateUserDetails(ctx context.Context, details *entities.UserDetails) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CreateLink(ctx context.Context, link *entities.UserLink) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
}

func (r *userRepository) GetLinkByCode(ctx context.Context, code string) (*entities.UserLink, error) {
	var link entities.UserLink
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// useLink flips the used flag. A link that was already used reports gorm.ErrRecordNotFound.
func useLink(tx *gorm.DB, linkID uuid.UUID) error {
	res := tx.Model(&entities.UserLink{}).
		Where("id = ? AND used = ?", linkID, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) ConfirmEmail(ctx context.Context, linkID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := useLink(tx, linkID); err != nil {
			return err
		}
		return tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{"email_confirmed": true, "active": true}).Error
	})
}

func (r *userRepository) ResetPassword(ctx context.Context, linkID, userID uuid.UUID, hashed string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := useLink(tx, linkID); err != nil {
			return err
		}
		return tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Update("password", hashed).Error
	})
}

func (r *userRepository) CreateUserDetails(ctx context.Context, details *entities.UserDetails) error {
	return r.db.WithContext(ctx).Create(details).Error
}

func (r *userRepository) GetUserDetails(ctx context.Context, userID uuid.UUID) (*entities.UserDetails, error) {
	var details entities.UserDetails
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&details).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *userRepository) UpdateUserDetails(ctx context.Context, details *entities.UserDetails) error {
	return r.db.WithContext(ctx).Save(details).Error
}
