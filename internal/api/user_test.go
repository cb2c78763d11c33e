package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/models"
)

func TestCreateUser(t *testing.T) {
	a := setupTestAPI(t)

	w := a.doJSON(t, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "testpass123",
		"name":     "Test Name",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "test@example.com", body["email"])
	assert.Equal(t, "Test Name", body["name"])
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)

	var user models.User
	require.NoError(t, a.DB.Where("email = ?", "test@example.com").First(&user).Error)
	assert.NotEqual(t, "testpass123", user.PasswordHash)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	a := setupTestAPI(t)
	a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "otherpass",
		"name":     "Other Name",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserPasswordTooShort(t *testing.T) {
	a := setupTestAPI(t)

	w := a.doJSON(t, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw",
		"name":     "Test Name",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, a.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateToken(t *testing.T) {
	a := setupTestAPI(t)
	a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodPost, "/api/v1/users/token", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "testpass123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.NotEmpty(t, body["token"])
}

func TestCreateTokenBadCredentials(t *testing.T) {
	a := setupTestAPI(t)
	a.createUser(t, "test@example.com", "goodpass")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "test@example.com", "badpass"},
		{"unknown email", "nobody@example.com", "goodpass"},
		{"blank password", "test@example.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.doJSON(t, http.MethodPost, "/api/v1/users/token", "", map[string]interface{}{
				"email":    tc.email,
				"password": tc.password,
			})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeJSON(t, w)
			_, hasToken := body["token"]
			assert.False(t, hasToken)
		})
	}
}

func TestMeRequiresAuth(t *testing.T) {
	a := setupTestAPI(t)

	w := a.doJSON(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	a := setupTestAPI(t)
	user, token := a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodGet, "/api/v1/users/me", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, user.Name, body["name"])
}

func TestPostMeNotAllowed(t *testing.T) {
	a := setupTestAPI(t)
	_, token := a.createUser(t, "test@example.com", "testpass123")

	w := a.doJSON(t, http.MethodPost, "/api/v1/users/me", token, map[string]interface{}{})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPatchMe(t *testing.T) {
	a := setupTestAPI(t)
	_, token := a.createUser(t, "test@example.com", "oldpassword")

	w := a.doJSON(t, http.MethodPatch, "/api/v1/users/me", token, map[string]interface{}{
		"name":     "Updated Name",
		"password": "newpassword",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Updated Name", body["name"])

	// New credentials must work, old ones must not
	w = a.doJSON(t, http.MethodPost, "/api/v1/users/token", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.doJSON(t, http.MethodPost, "/api/v1/users/token", "", map[string]interface{}{
		"email":    "test@example.com",
		"password": "oldpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
