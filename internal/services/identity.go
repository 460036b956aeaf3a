package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/models"
)

// ValidationError carries a caller-facing message and unwraps to
// ErrValidation for status mapping.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// Identity is what the external provider asserts about a caller.
type Identity struct {
	Key   string
	Email string
	Name  string
}

// SyncInput carries the optional profile fields a first sync may supply.
// Nil means "not provided" and never overwrites a stored value.
type SyncInput struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// ProfileInput is the partial profile-update payload.
type ProfileInput struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
}

// IdentityService maps external identities to local user rows and owns
// profile mutations.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// FindByIdentityKey returns the local user for an identity key, or
// ErrNotFound.
func (s *IdentityService) FindByIdentityKey(key string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("identity_key = ?", key).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Sync resolves an external identity to a local user, creating the row on
// first sight. Concurrent first syncs for the same key race on the unique
// identity_key index; the loser re-fetches instead of erroring.
func (s *IdentityService) Sync(identity Identity, input SyncInput) (*models.User, error) {
	if identity.Key == "" {
		return nil, invalid("Missing identity key")
	}

	existing, err := s.FindByIdentityKey(identity.Key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var errs []error
	if input.Name != nil {
		if err := helpers.ValidateName(strings.TrimSpace(*input.Name)); err != nil {
			errs = append(errs, err)
		}
	}
	if input.Age != nil {
		if err := helpers.ValidateAge(*input.Age); err != nil {
			errs = append(errs, err)
		}
	}
	if input.Phone != nil {
		if err := helpers.ValidatePhone(strings.TrimSpace(*input.Phone)); err != nil {
			errs = append(errs, err)
		}
	} else if existing == nil {
		errs = append(errs, errors.New("Phone is required"))
	}
	if input.Location != nil {
		if err := helpers.ValidateLocation(strings.TrimSpace(*input.Location)); err != nil {
			errs = append(errs, err)
		}
	} else if existing == nil {
		errs = append(errs, errors.New("Location is required"))
	}
	if len(errs) > 0 {
		return nil, invalid(helpers.JoinErrors(errs))
	}

	if existing != nil {
		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Age != nil {
			updates["age"] = *input.Age
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Location != nil {
			updates["location"] = strings.TrimSpace(*input.Location)
		}
		if identity.Email != "" {
			updates["email"] = identity.Email
		}
		if len(updates) > 0 {
			if err := s.db.Model(existing).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return s.FindByIdentityKey(identity.Key)
	}

	user := models.User{
		IdentityKey: identity.Key,
		Email:       identity.Email,
		Role:        models.RoleUser,
		IsActive:    true,
		Age:         input.Age,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		user.Name = &trimmed
	} else if identity.Name != "" {
		name := identity.Name
		user.Name = &name
	}
	if input.Phone != nil {
		trimmed := strings.TrimSpace(*input.Phone)
		user.Phone = &trimmed
	}
	if input.Location != nil {
		trimmed := strings.TrimSpace(*input.Location)
		user.Location = &trimmed
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return s.FindByIdentityKey(identity.Key)
		}
		return nil, err
	}

	return &user, nil
}

// UpdateProfile applies a partial profile update. Fields absent from the
// payload keep their stored values.
func (s *IdentityService) UpdateProfile(userID uuid.UUID, input ProfileInput) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var errs []error
	updates := map[string]interface{}{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := helpers.ValidateName(name); err != nil {
			errs = append(errs, err)
		} else if name != "" {
			updates["name"] = name
		}
	}
	if input.Age != nil {
		if err := helpers.ValidateAge(*input.Age); err != nil {
			errs = append(errs, err)
		} else {
			updates["age"] = *input.Age
		}
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if err := helpers.ValidatePhone(phone); err != nil {
			errs = append(errs, err)
		} else {
			updates["phone"] = phone
		}
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if err := helpers.ValidateLocation(location); err != nil {
			errs = append(errs, err)
		} else {
			updates["location"] = location
		}
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if err := helpers.ValidateBio(bio); err != nil {
			errs = append(errs, err)
		} else {
			updates["bio"] = bio
		}
	}

	if len(errs) > 0 {
		return nil, invalid(helpers.JoinErrors(errs))
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount hard-deletes the user and everything they own.
func (s *IdentityService) DeleteAccount(userID uuid.UUID) error {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// UpdateRole reassigns a user's role. Callers gate this behind the owner
// check.
func (s *IdentityService) UpdateRole(userID uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("Invalid role")
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
