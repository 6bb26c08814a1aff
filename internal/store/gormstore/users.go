package gormstore

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

func (s *Store) CreateUser(user *models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrUsernameTaken
	}
	return s.db.Create(user).Error
}

func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByPhone(countryCode, phoneNumber string) (*models.User, error) {
	var user models.User
	normalized := strings.ReplaceAll(phoneNumber, " ", "")
	err := s.db.Where("country_code = ? AND phone_number = ?", countryCode, normalized).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := s.db.
		Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern, pattern).
		Where("is_active = ?", true).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *Store) TouchLastLogin(userID uint, at time.Time) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

func (s *Store) UpdateAccountType(userID uint, accountType models.AccountType) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("account_type", accountType)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (s *Store) CreateProfile(profile *models.UserProfile) error {
	return s.db.Create(profile).Error
}

func (s *Store) GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, err
	}
	return &profile, nil
}

// PatchProfile applies only the fields present in the patch, leaving the rest
// untouched. Presence is an explicit per-field check, not reflection.
func (s *Store) PatchProfile(userID uint, patch store.ProfilePatch) (*models.UserProfile, error) {
	updates := map[string]any{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.ProfileImageURL != nil {
		updates["profile_image_url"] = *patch.ProfileImageURL
	}

	if len(updates) > 0 {
		res := s.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, apperr.NotFound("profile not found")
		}
	}
	return s.GetProfile(userID)
}

func (s *Store) CreateOTP(otp *models.OTP) error {
	return s.db.Create(otp).Error
}

// VerifyOTP checks the most recent unverified code for the phone/purpose pair,
// counting failed attempts. Codes expire and are single-use.
func (s *Store) VerifyOTP(countryCode, phoneNumber, code, purpose string) error {
	var otp models.OTP
	err := s.db.
		Where("country_code = ? AND phone_number = ? AND purpose = ? AND is_verified = ?",
			countryCode, phoneNumber, purpose, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOTPInvalid
		}
		return err
	}
	if time.Now().UTC().After(otp.ExpiresAt) {
		return apperr.ErrOTPInvalid
	}
	if otp.Code != code {
		if err := s.db.Model(&otp).Update("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			return err
		}
		return apperr.ErrOTPInvalid
	}
	return s.db.Model(&otp).Update("is_verified", true).Error
}

func (s *Store) CreateRefreshToken(token *models.RefreshToken) error {
	return s.db.Create(token).Error
}

func (s *Store) GetRefreshToken(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.db.Where("token = ? AND is_valid = ?", token, true).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}
	if time.Now().UTC().After(rt.ExpiresAt) {
		return nil, apperr.ErrInvalidToken
	}
	return &rt, nil
}

func (s *Store) RevokeRefreshToken(token string) error {
	return s.db.Model(&models.RefreshToken{}).Where("token = ?", token).Update("is_valid", false).Error
}
