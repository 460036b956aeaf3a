package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfinder/eventfinder/internal/models"
)

func TestGetProfileReturnsCaller(t *testing.T) {
	r, db := newTestRouter(t)
	user := newTestUser(t, db, models.RoleUser)

	body := requireSuccess(t, doJSON(t, r, http.MethodGet, "/v1/me", tokenFor(t, user), nil), http.StatusOK)
	me, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), me["id"])
	assert.Nil(t, me["password_hash"], "hash never leaves the server")

	requireError(t, doJSON(t, r, http.MethodGet, "/v1/me", "", nil), http.StatusUnauthorized)
}

func TestUpdateProfilePartialPayload(t *testing.T) {
	r, db := newTestRouter(t)
	user := newTestUser(t, db, models.RoleUser)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"name": "Ana", "phone": "+49 30 1234567",
	}).Error)
	token := tokenFor(t, user)

	body := requireSuccess(t, doJSON(t, r, http.MethodPost, "/v1/profile", token, map[string]interface{}{
		"bio": "Organizer and fan.",
	}), http.StatusOK)

	updated, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Organizer and fan.", updated["bio"])
	assert.Equal(t, "Ana", updated["name"], "absent fields survive the update")
	assert.Equal(t, "+49 30 1234567", updated["phone"])

	message := requireError(t, doJSON(t, r, http.MethodPost, "/v1/profile", token, map[string]interface{}{
		"age": 12,
	}), http.StatusUnprocessableEntity)
	assert.NotEmpty(t, message)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	event := newTestEvent(t, db, 5)
	user := newTestUser(t, db, models.RoleUser)
	token := tokenFor(t, user)

	requireSuccess(t, doJSON(t, r, http.MethodPost, "/v1/registrations", token, map[string]interface{}{
		"event_id": event.ID,
	}), http.StatusOK)

	requireSuccess(t, doJSON(t, r, http.MethodDelete, "/v1/account", token, nil), http.StatusOK)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Registration{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// The token now points at a deleted user.
	requireError(t, doJSON(t, r, http.MethodGet, "/v1/me", token, nil), http.StatusUnauthorized)
}
