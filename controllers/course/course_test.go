package courseController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB, models.User, models.User) {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	instructor := models.User{Name: "Instructor", Email: "teacher@example.com", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)
	student := models.User{Name: "Student", Email: "student@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	app := fiber.New()
	app.Get("/course/published", middleware.JWTMiddleware, GetPublishedCourses)
	app.Get("/course/search", middleware.JWTMiddleware, SearchCourses)
	app.Get("/course/:courseId", middleware.JWTMiddleware, courseValidator.CourseID(), GetCourseDetails)
	app.Get("/course/:courseId/lectures", middleware.JWTMiddleware, courseValidator.CourseID(), GetCourseLectures)
	app.Post("/course/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), courseValidator.CreateCourse(), CreateCourse)
	app.Post("/course/:courseId/lectures", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), courseValidator.AddLecture(), AddLecture)

	return app, db, instructor, student
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestCreateCourseRequiresInstructorRole(t *testing.T) {
	app, _, _, student := setupTest(t)

	payload := map[string]interface{}{"title": "New Course", "category": "programming", "price": 100}
	resp, _ := jsonRequest(t, app, http.MethodPost, "/course/", tokenFor(t, student), payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateCourse(t *testing.T) {
	app, db, instructor, _ := setupTest(t)

	payload := map[string]interface{}{"title": "New Course", "category": "programming", "level": "beginner", "price": 100}
	resp, body := jsonRequest(t, app, http.MethodPost, "/course/", tokenFor(t, instructor), payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "New Course", data["title"])

	var course models.Course
	require.NoError(t, db.Where("title = ?", "New Course").First(&course).Error)
	assert.Equal(t, instructor.ID, course.InstructorID)
	assert.False(t, course.IsPublished)
}

func TestCreateCourseValidation(t *testing.T) {
	app, _, instructor, _ := setupTest(t)

	payload := map[string]interface{}{"title": "ab", "price": -5}
	resp, _ := jsonRequest(t, app, http.MethodPost, "/course/", tokenFor(t, instructor), payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSearchAndPublishedListing(t *testing.T) {
	app, db, instructor, student := setupTest(t)

	courses := []models.Course{
		{Title: "Go Basics", Category: "programming", Level: "BEGINNER", Price: 100, IsPublished: true, InstructorID: instructor.ID},
		{Title: "Advanced Go Patterns", Category: "programming", Level: "ADVANCED", Price: 900, IsPublished: true, InstructorID: instructor.ID},
		{Title: "Watercolor Painting", Category: "art", Level: "BEGINNER", Price: 50, IsPublished: true, InstructorID: instructor.ID},
		{Title: "Unpublished Draft", Category: "programming", Price: 10, IsPublished: false, InstructorID: instructor.ID},
	}
	for i := range courses {
		require.NoError(t, db.Create(&courses[i]).Error)
	}

	token := tokenFor(t, student)

	resp, body := jsonRequest(t, app, http.MethodGet, "/course/published?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["courses"], 2)
	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"]) // drafts excluded

	resp, body = jsonRequest(t, app, http.MethodGet, "/course/search?query=go&category=programming", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])

	resp, body = jsonRequest(t, app, http.MethodGet, "/course/search?maxPrice=60", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
}

func TestGetCourseLecturesPreviewFiltering(t *testing.T) {
	app, db, instructor, student := setupTest(t)

	course := models.Course{Title: "Go Basics", Category: "programming", Price: 100, IsPublished: true, InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Intro", VideoURL: "v1", IsPreview: true, OrderIndex: 1}).Error)
	require.NoError(t, db.Create(&models.Lecture{CourseID: course.ID, Title: "Deep Dive", VideoURL: "v2", OrderIndex: 2}).Error)

	// Non-enrolled student only sees previews
	resp, body := jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d/lectures", course.ID), tokenFor(t, student), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["lectures"], 1)
	assert.Equal(t, false, data["isEnrolled"])

	// The instructor sees everything
	resp, body = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d/lectures", course.ID), tokenFor(t, instructor), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Len(t, data["lectures"], 2)
	assert.Equal(t, true, data["isInstructor"])

	// Enrollment unlocks the full list
	require.NoError(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: course.ID, Status: "ENROLLED"}).Error)
	resp, body = jsonRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d/lectures", course.ID), tokenFor(t, student), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Len(t, data["lectures"], 2)
	assert.Equal(t, true, data["isEnrolled"])
}

func TestAddLectureOrderIndex(t *testing.T) {
	app, db, instructor, _ := setupTest(t)

	course := models.Course{Title: "Go Basics", Category: "programming", Price: 100, IsPublished: true, InstructorID: instructor.ID}
	require.NoError(t, db.Create(&course).Error)

	token := tokenFor(t, instructor)
	for i, title := range []string{"One", "Two"} {
		payload := map[string]interface{}{"title": title, "videoUrl": "https://videos.example/" + title}
		resp, body := jsonRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/lectures", course.ID), token, payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, float64(i+1), data["order_index"])
	}
}
