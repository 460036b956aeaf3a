package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfinder/eventfinder/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestSyncCreatesUserOnFirstSight(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)

	user, err := identities.Sync(
		Identity{Key: "auth0|abc123", Email: "ana@example.com", Name: "Ana"},
		SyncInput{Phone: strPtr("+49 30 1234567"), Location: strPtr("Berlin, DE")},
	)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", user.IdentityKey)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Ana", *user.Name, "provider name fills in when no payload name")
}

func TestSyncIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)

	first, err := identities.Sync(
		Identity{Key: "auth0|abc123", Email: "ana@example.com"},
		SyncInput{Phone: strPtr("+49 30 1234567"), Location: strPtr("Berlin, DE")},
	)
	require.NoError(t, err)

	second, err := identities.Sync(Identity{Key: "auth0|abc123", Email: "ana@example.com"}, SyncInput{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSyncValidation(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)

	_, err := identities.Sync(Identity{}, SyncInput{})
	assert.ErrorIs(t, err, ErrValidation)

	// First sync demands phone and location.
	_, err = identities.Sync(Identity{Key: "auth0|new"}, SyncInput{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Phone is required")
	assert.Contains(t, err.Error(), "Location is required")

	_, err = identities.Sync(
		Identity{Key: "auth0|new"},
		SyncInput{Age: intPtr(12), Phone: strPtr("+49 30 1234567"), Location: strPtr("Berlin, DE")},
	)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = identities.Sync(
		Identity{Key: "auth0|new"},
		SyncInput{Phone: strPtr("031234"), Location: strPtr("Berlin, DE")},
	)
	assert.ErrorIs(t, err, ErrValidation, "phone must carry a leading +")
}

func TestSyncDoesNotEraseAbsentFields(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)

	_, err := identities.Sync(
		Identity{Key: "auth0|abc123", Email: "ana@example.com", Name: "Ana"},
		SyncInput{Age: intPtr(30), Phone: strPtr("+49 30 1234567"), Location: strPtr("Berlin, DE")},
	)
	require.NoError(t, err)

	user, err := identities.Sync(Identity{Key: "auth0|abc123", Email: "ana@new.example.com"}, SyncInput{})
	require.NoError(t, err)
	assert.Equal(t, "ana@new.example.com", user.Email, "email follows the provider")
	require.NotNil(t, user.Phone)
	assert.Equal(t, "+49 30 1234567", *user.Phone)
	require.NotNil(t, user.Age)
	assert.Equal(t, 30, *user.Age)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)
	user := newTestUser(t, db, models.RoleUser)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"name": "Ana", "phone": "+49 30 1234567",
	}).Error)

	updated, err := identities.UpdateProfile(user.ID, ProfileInput{Bio: strPtr("  Organizer and fan.  ")})
	require.NoError(t, err)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Organizer and fan.", *updated.Bio)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Ana", *updated.Name, "untouched fields keep their values")
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+49 30 1234567", *updated.Phone)
}

func TestUpdateProfileValidation(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)
	user := newTestUser(t, db, models.RoleUser)

	_, err := identities.UpdateProfile(user.ID, ProfileInput{Age: intPtr(121)})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Age")

	_, err = identities.UpdateProfile(user.ID, ProfileInput{Location: strPtr("12345")})
	assert.ErrorIs(t, err, ErrValidation, "location needs at least one letter")
}

func TestDeleteAccountCascades(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)
	ledger := NewRegistrationService(db)
	user := newTestUser(t, db, models.RoleUser)
	event := newTestEvent(t, db, 5)

	require.NoError(t, ledger.Register(user.ID, event.ID))
	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, EventID: event.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{EventID: event.ID, UserID: user.ID, Body: "count me in"}).Error)

	require.NoError(t, identities.DeleteAccount(user.ID))

	_, err := identities.FindByIdentityKey(user.IdentityKey)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, identities.DeleteAccount(user.ID), ErrNotFound)
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	identities := NewIdentityService(db)
	user := newTestUser(t, db, models.RoleUser)

	updated, err := identities.UpdateRole(user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, models.RoleAdmin, func() models.Role {
		var u models.User
		require.NoError(t, db.Where("id = ?", user.ID).First(&u).Error)
		return u.Role
	}())

	_, err = identities.UpdateRole(user.ID, "superuser")
	assert.ErrorIs(t, err, ErrValidation)
}
