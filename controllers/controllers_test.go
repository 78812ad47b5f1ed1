package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"platform/config"
	"platform/controllers"
	"platform/routes"
	"platform/services"
	"platform/services/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	config.DB = db
	config.RedisClient = nil

	media, err := services.NewMediaService(t.TempDir(), "", logger.NewDefaultLogger(logger.ErrorLevel))
	require.NoError(t, err)
	controllers.Init(media, logger.NewDefaultLogger(logger.ErrorLevel))

	router := gin.New()
	routes.SetupRoutes(router)
	return router, mock
}

func userRows(t *testing.T, id uint, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := services.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "email", "password", "is_host", "image"}).
		AddRow(id, time.Now(), time.Now(), "Ana", email, hash, true, "")
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := services.GenerateToken(services.UserInfo{UserId: userID, IsHost: true}, 60)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 1, "ana@example.com", "secret1"))

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"email":"ana@example.com","password":"secret1","name":"Ana"}`, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"email":"ana@example.com","password":"abc","name":"Ana"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFailureShapeDoesNotLeakExistence(t *testing.T) {
	router, mock := setupRouter(t)

	// Unknown email.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	unknown := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`, "")

	// Known email, wrong password.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 1, "ana@example.com", "secret1"))
	wrongPassword := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"not-it"}`, "")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknown.Body.String(), wrongPassword.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccessReturnsToken(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 1, "ana@example.com", "secret1"))

	w := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Code)
	assert.NotEmpty(t, body.Data.Token)
	assert.Equal(t, "ana@example.com", body.Data.User.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestHostEndpointsRejectMissingToken(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/host/stays", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/host/stays", "", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateStayNonOwnerGetsUniformNotFound(t *testing.T) {
	router, mock := setupRouter(t)

	// Token resolves fine; the stay belongs to someone else.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 42, "ana@example.com", "secret1"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "stays"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	req := httptest.NewRequest(http.MethodPut, "/api/host/stays/9",
		strings.NewReader("title=Taken+over"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", bearerToken(t, 42))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Stay not found or unauthorized")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHostStayMissingSameShapeAsForeign(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 42, "ana@example.com", "secret1"))
	mock.ExpectQuery(`FROM stays s`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	w := doJSON(router, http.MethodGet, "/api/host/stays/9", "", bearerToken(t, 42))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Stay not found or unauthorized")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHostStaysEmptyImagesArray(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 42, "ana@example.com", "secret1"))
	mock.ExpectQuery(`FROM stays s`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price_per_night", "status",
			"image_data", "amenity_data", "availability_data"}).
			AddRow(5, "Loft", 120.0, "draft", "", "", ""))

	w := doJSON(router, http.MethodGet, "/api/host/stays", "", bearerToken(t, 42))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int                      `json:"total"`
		Data  []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Total)

	// Missing image files surface as an empty array, never null.
	images, ok := body.Data[0]["images"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, images)

	amenities, ok := body.Data[0]["amenities"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, amenities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublicStaysQueriesPublishedOnly(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery(`FROM stays s`).
		WithArgs("published", 0.0, 1000.0, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price_per_night", "status",
			"host_name", "rating", "review_count", "image_data", "amenity_data"}).
			AddRow(1, "Loft", 150.0, "published", "Ana", 4.5, 2, "", "WiFi,Kitchen"))

	w := doJSON(router, http.MethodGet, "/api/stays", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int `json:"total"`
		Data  []struct {
			Title     string   `json:"title"`
			Amenities []string `json:"amenities"`
			Host      struct {
				Name   string  `json:"name"`
				Rating float64 `json:"rating"`
			} `json:"host"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Loft", body.Data[0].Title)
	assert.Equal(t, []string{"WiFi", "Kitchen"}, body.Data[0].Amenities)
	assert.Equal(t, 4.5, body.Data[0].Host.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFeaturedStaysIgnoresPriceBounds(t *testing.T) {
	router, mock := setupRouter(t)

	// A featured stay above the browse's 1000 default ceiling must still
	// surface on the rail.
	mock.ExpectQuery(`is_featured = TRUE`).
		WithArgs("published", 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price_per_night", "status",
			"host_name", "rating", "review_count", "image_data", "amenity_data"}).
			AddRow(7, "Penthouse", 1500.0, "published", "Ana", 5.0, 1, "", ""))

	w := doJSON(router, http.MethodGet, "/api/featured-stays", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int `json:"total"`
		Data  []struct {
			Title         string  `json:"title"`
			PricePerNight float64 `json:"price_per_night"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Penthouse", body.Data[0].Title)
	assert.Equal(t, 1500.0, body.Data[0].PricePerNight)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// putStayImages drives one images-only update and returns the stored image
// entries from the response.
func putStayImages(t *testing.T, router *gin.Engine, mock sqlmock.Sqlmock) []map[string]interface{} {
	t.Helper()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 42, "ana@example.com", "secret1"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "stays"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "stay_images"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "stay_images"`).
		WithArgs(9, "a.jpg", 0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "stay_images"`).
		WithArgs(9, "b.jpg", 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM stays s`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price_per_night", "status",
			"image_data", "amenity_data", "availability_data"}).
			AddRow(9, "Loft", 120.0, "draft", "a.jpg:0,b.jpg:1", "", ""))

	req := httptest.NewRequest(http.MethodPut, "/api/host/stays/9",
		strings.NewReader("images=a.jpg,b.jpg"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", bearerToken(t, 42))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Images []map[string]interface{} `json:"images"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data.Images
}

func TestUpdateStayImageReplacementIdempotent(t *testing.T) {
	router, mock := setupRouter(t)

	// The files must exist on disk to be surfaced.
	for _, name := range []string{"a.jpg", "b.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(controllers.Media.Root(), name), []byte("x"), 0o644))
	}

	first := putStayImages(t, router, mock)
	second := putStayImages(t, router, mock)

	// The stored collection is exactly the submitted ordered set, and
	// resubmitting the same set reproduces it row for row.
	require.Len(t, first, 2)
	assert.Equal(t, "/uploads/a.jpg", first[0]["url"])
	assert.Equal(t, float64(0), first[0]["order"])
	assert.Equal(t, "/uploads/b.jpg", first[1]["url"])
	assert.Equal(t, float64(1), first[1]["order"])
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublicStaysRejectsMalformedNumeric(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/stays?min_price=cheap", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "min_price")
}

func TestGetNearbyListingsRequiresCenter(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/listings/nearby", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/listings/nearby?lat=37.7&lng=bad", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	router, mock := setupRouter(t)

	// Token must resolve first, so mock the user lookup.
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(t, 42, "ana@example.com", "secret1"))

	body := &strings.Builder{}
	boundary := "testboundary"
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"image\"; filename=\"evil.php\"\r\n")
	body.WriteString("Content-Type: application/octet-stream\r\n\r\n")
	body.WriteString("<?php ?>\r\n")
	body.WriteString("--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Authorization", bearerToken(t, 42))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file type not allowed")
}
