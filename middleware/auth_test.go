package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/me", ValidateToken(db, testSecret), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "user not resolved"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"email": user.Email}})
	})
	r.GET("/admin-only", ValidateToken(db, testSecret), RequireAdmin, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true})
	})
	return r
}

func request(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestValidateTokenMissingHeader(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := request(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token required")

	// A non-bearer scheme counts as missing too.
	w = request(r, "/me", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenGarbage(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := request(r, "/me", "Bearer not.a.token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	user := seedUser(t, db, "alice@example.com", models.RoleUser)

	token, err := utils.GenerateJWT(user, "some-other-secret", 1)
	require.NoError(t, err)

	w := request(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidateTokenExpired(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	user := seedUser(t, db, "alice@example.com", models.RoleUser)

	token, err := utils.GenerateJWT(user, testSecret, -1)
	require.NoError(t, err)

	w := request(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidateTokenDeletedUser(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	user := seedUser(t, db, "alice@example.com", models.RoleUser)

	token, err := utils.GenerateJWT(user, testSecret, 1)
	require.NoError(t, err)
	require.NoError(t, db.Delete(user).Error)

	w := request(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidateTokenResolvesUser(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	user := seedUser(t, db, "alice@example.com", models.RoleUser)

	token, err := utils.GenerateJWT(user, testSecret, 1)
	require.NoError(t, err)

	w := request(r, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireAdmin(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	user := seedUser(t, db, "alice@example.com", models.RoleUser)
	admin := seedUser(t, db, "root@example.com", models.RoleAdmin)

	userToken, err := utils.GenerateJWT(user, testSecret, 1)
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT(admin, testSecret, 1)
	require.NoError(t, err)

	w := request(r, "/admin-only", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	w = request(r, "/admin-only", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
