package handlers_test

// End-to-end flow against a real Postgres instance. Set TEST_DATABASE_DSN to
// run, e.g.:
//
//	TEST_DATABASE_DSN="host=localhost user=postgres password=postgres dbname=scooty_test port=5432 sslmode=disable" go test ./internal/handlers/
//
// Without the variable the suite is skipped.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/database"
	"github.com/priyank071/scooty-rental/internal/handlers"
	"github.com/priyank071/scooty-rental/internal/middleware"
	"github.com/priyank071/scooty-rental/internal/models"
	"github.com/priyank071/scooty-rental/internal/services"
)

func setupTestServer(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping handler integration tests")
	}

	t.Setenv("JWT_SECRET", "integration-test-secret")
	t.Setenv("AWS_REGION", "")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("BASE_URL", "http://localhost:8080")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	require.NoError(t, db.Exec(`TRUNCATE users, scooties, bookings, notifications, chat_messages, owner_applications, notification_preferences RESTART IDENTITY CASCADE`).Error)

	require.NoError(t, services.InitStorage())

	gin.SetMode(gin.TestMode)

	hub := services.NewHub()
	go hub.Run()
	dispatch := services.NewDispatcher(db, hub, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", handlers.Register(db))
	api.POST("/auth/login", handlers.Login(db))

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/scooties", handlers.ListAvailableScooties(db))
		protected.POST("/scooties", handlers.RegisterScooty(db))
		protected.GET("/scooties/mine", handlers.GetOwnerFleet(db))
		protected.PATCH("/scooties/:id/availability", handlers.ToggleAvailability(db))

		protected.POST("/bookings", handlers.CreateBooking(db, dispatch))
		protected.GET("/bookings/rider", handlers.GetRiderBookings(db))
		protected.PATCH("/bookings/:id/status", handlers.UpdateBookingStatus(db, dispatch))
		protected.GET("/bookings/:id/chat", handlers.GetThread(db))
		protected.POST("/bookings/:id/chat/messages", handlers.PostMessage(db, dispatch))
		protected.POST("/bookings/:id/chat/attachments", handlers.PostAttachment(db, dispatch))

		protected.GET("/notifications", handlers.GetNotifications(db))
		protected.GET("/notifications/unread-count", handlers.GetUnreadCount(db))
		protected.POST("/notifications/:id/read", handlers.MarkNotificationRead(db))
		protected.GET("/notifications/preferences", handlers.GetNotificationPreferences(db))
		protected.PUT("/notifications/preferences", handlers.UpdateNotificationPreferences(db))

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		admin.GET("/owners/pending", handlers.GetPendingOwnerApplications(db))
		admin.POST("/owners/:id/approve", handlers.ApproveOwnerApplication(db, dispatch))
		admin.POST("/announcements", handlers.BroadcastAnnouncement(db, dispatch))
	}

	return db, r
}

func sendJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, email, userType string) string {
	t.Helper()

	body := map[string]interface{}{
		"username": username,
		"email":    email,
		"password": "secret123",
		"phone":    "+91 9876543210",
		"userType": userType,
	}
	if userType == "owner" {
		body["businessAddress"] = "MG Road, Bangalore"
		body["fleetSize"] = 2
	}

	w := sendJSON(t, r, "POST", "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return login(t, r, email)
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := sendJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createAdmin(t *testing.T, db *gorm.DB, r *gin.Engine) string {
	t.Helper()

	admin := models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "secret123",
		UserType: models.UserTypeAdmin,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, admin.HashPassword())
	require.NoError(t, db.Create(&admin).Error)

	return login(t, r, admin.Email)
}

func TestMarketplaceFlow(t *testing.T) {
	db, r := setupTestServer(t)

	adminToken := createAdmin(t, db, r)
	ownerToken := registerAndLogin(t, r, "rajesh", "rajesh@example.com", "owner")
	riderToken := registerAndLogin(t, r, "john", "john@example.com", "rider")

	// Owner cannot list scooties before approval
	scootyBody := map[string]interface{}{
		"model":       "Honda Activa 6G",
		"plateNumber": "KA01AB1234",
		"hourlyRate":  80,
		"location":    "MG Road",
		"fuelType":    "petrol",
	}
	w := sendJSON(t, r, "POST", "/api/scooties", ownerToken, scootyBody)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Admin approves the pending application
	w = sendJSON(t, r, "GET", "/api/admin/owners/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending struct {
		Applications []models.OwnerApplication `json:"applications"`
	}
	decodeBody(t, w, &pending)
	require.Len(t, pending.Applications, 1)

	w = sendJSON(t, r, "POST", fmt.Sprintf("/api/admin/owners/%d/approve", pending.Applications[0].ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Approval must be re-read on next login
	ownerToken = login(t, r, "rajesh@example.com")

	w = sendJSON(t, r, "POST", "/api/scooties", ownerToken, scootyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var scooty models.Scooty
	decodeBody(t, w, &scooty)
	assert.True(t, scooty.Available)

	w = sendJSON(t, r, "POST", "/api/scooties", ownerToken, map[string]interface{}{
		"model":       "TVS Jupiter",
		"plateNumber": "KA02CD5678",
		"hourlyRate":  75,
		"location":    "Brigade Road",
		"fuelType":    "petrol",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Case-insensitive substring search over model and location
	w = sendJSON(t, r, "GET", "/api/scooties?search=activa", riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Scooties []models.Scooty `json:"scooties"`
		Total    int             `json:"total"`
	}
	decodeBody(t, w, &listing)
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, "Honda Activa 6G", listing.Scooties[0].ScootyModel)

	// Empty registration fields are rejected
	w = sendJSON(t, r, "POST", "/api/scooties", ownerToken, map[string]interface{}{
		"model":       "",
		"plateNumber": "KA03EF9999",
		"hourlyRate":  80,
		"location":    "HSR",
		"fuelType":    "petrol",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Rider books the Activa for four hours at rate 80
	w = sendJSON(t, r, "POST", "/api/bookings", riderToken, map[string]interface{}{
		"scootyId":  scooty.ID,
		"startTime": "2030-01-16T10:00:00Z",
		"endTime":   "2030-01-16T14:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking models.Booking
	decodeBody(t, w, &booking)
	assert.Equal(t, 320.0, booking.Amount)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	// Owner got a booking notification on top of the approval one
	w = sendJSON(t, r, "GET", "/api/notifications", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ownerNotifs struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	decodeBody(t, w, &ownerNotifs)
	require.Len(t, ownerNotifs.Notifications, 2)
	assert.Equal(t, "New Booking Request", ownerNotifs.Notifications[0].Title)
	assert.Equal(t, 2, ownerNotifs.UnreadCount)

	var unread struct {
		UnreadCount int `json:"unreadCount"`
	}

	// Zero-length window is rejected
	w = sendJSON(t, r, "POST", "/api/bookings", riderToken, map[string]interface{}{
		"scootyId":  scooty.ID,
		"startTime": "2030-01-16T10:00:00Z",
		"endTime":   "2030-01-16T10:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Rider may not confirm their own booking
	statusPath := fmt.Sprintf("/api/bookings/%d/status", booking.ID)
	w = sendJSON(t, r, "PATCH", statusPath, riderToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Skipping confirmed is an illegal transition
	w = sendJSON(t, r, "PATCH", statusPath, ownerToken, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = sendJSON(t, r, "PATCH", statusPath, ownerToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Retrying the same target status is rejected too
	w = sendJSON(t, r, "PATCH", statusPath, ownerToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusConflict, w.Code)

	// The decision notified the rider
	w = sendJSON(t, r, "GET", "/api/notifications", riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var riderNotifs struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	decodeBody(t, w, &riderNotifs)
	require.NotEmpty(t, riderNotifs.Notifications)
	assert.Equal(t, "Booking Confirmed", riderNotifs.Notifications[0].Title)

	// markRead is idempotent
	readPath := fmt.Sprintf("/api/notifications/%d/read", riderNotifs.Notifications[0].ID)
	w = sendJSON(t, r, "POST", readPath, riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = sendJSON(t, r, "POST", readPath, riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = sendJSON(t, r, "GET", "/api/notifications/unread-count", riderToken, nil)
	decodeBody(t, w, &unread)
	assert.Equal(t, 0, unread.UnreadCount)

	// Turning message alerts off must not stop notification rows from being
	// written; preferences gate only push and SMS
	w = sendJSON(t, r, "PUT", "/api/notifications/preferences", ownerToken, map[string]bool{"messageAlerts": false})
	require.Equal(t, http.StatusOK, w.Code)
	var prefs models.NotificationPreference
	decodeBody(t, w, &prefs)
	assert.False(t, prefs.MessageAlerts)
	assert.True(t, prefs.BookingAlerts)

	// Chat thread opens lazily with the system seed
	chatPath := fmt.Sprintf("/api/bookings/%d/chat", booking.ID)
	w = sendJSON(t, r, "GET", chatPath, riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decodeBody(t, w, &thread)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, models.SenderRoleSystem, thread.Messages[0].SenderRole)

	// Two messages on top of the seed make a thread of three, in order
	w = sendJSON(t, r, "POST", chatPath+"/messages", riderToken, map[string]string{"content": "Uploading my license now"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = sendJSON(t, r, "POST", chatPath+"/messages", ownerToken, map[string]string{"content": "Thanks, checking"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = sendJSON(t, r, "GET", chatPath, ownerToken, nil)
	decodeBody(t, w, &thread)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, models.SenderRoleSystem, thread.Messages[0].SenderRole)
	assert.Equal(t, "Uploading my license now", thread.Messages[1].Content)
	assert.Equal(t, "Thanks, checking", thread.Messages[2].Content)

	// The rider's message still produced an owner notification row even with
	// message alerts disabled
	w = sendJSON(t, r, "GET", "/api/notifications", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &ownerNotifs)
	messageRows := 0
	for _, n := range ownerNotifs.Notifications {
		if n.Title == "New Message" {
			messageRows++
		}
	}
	assert.Equal(t, 1, messageRows)

	// Blank messages are rejected
	w = sendJSON(t, r, "POST", chatPath+"/messages", riderToken, map[string]string{"content": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Attachment validation: wrong type, oversize, then a valid image
	w = postAttachment(t, r, chatPath+"/attachments", riderToken, "malware.exe", "application/x-msdownload", make([]byte, 100))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postAttachment(t, r, chatPath+"/attachments", riderToken, "license.pdf", "application/pdf", make([]byte, 6<<20))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postAttachment(t, r, chatPath+"/attachments", riderToken, "license.png", "image/png", make([]byte, 2048))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var attachment models.ChatMessage
	decodeBody(t, w, &attachment)
	assert.Equal(t, models.MessageKindImage, attachment.Kind)
	assert.NotEmpty(t, attachment.FileURL)

	// Posting to a fresh booking's thread seeds it first: two messages with no
	// prior read still make a thread of three with the seed on top
	w = sendJSON(t, r, "POST", "/api/bookings", riderToken, map[string]interface{}{
		"scootyId":  scooty.ID,
		"startTime": "2030-01-18T09:00:00Z",
		"endTime":   "2030-01-18T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var secondBooking models.Booking
	decodeBody(t, w, &secondBooking)

	freshChatPath := fmt.Sprintf("/api/bookings/%d/chat", secondBooking.ID)
	w = sendJSON(t, r, "POST", freshChatPath+"/messages", riderToken, map[string]string{"content": "Is the scooty free tomorrow?"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = sendJSON(t, r, "POST", freshChatPath+"/messages", ownerToken, map[string]string{"content": "Yes, it is"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = sendJSON(t, r, "GET", freshChatPath, riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &thread)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, models.SenderRoleSystem, thread.Messages[0].SenderRole)
	assert.Equal(t, "Is the scooty free tomorrow?", thread.Messages[1].Content)
	assert.Equal(t, "Yes, it is", thread.Messages[2].Content)

	// Admin announcement lands as a notification row for the audience
	w = sendJSON(t, r, "POST", "/api/admin/announcements", adminToken, map[string]string{
		"title":    "Scheduled maintenance",
		"message":  "Bookings will pause tonight between 2 and 3 AM.",
		"audience": "rider",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sent struct {
		Recipients int `json:"recipients"`
	}
	decodeBody(t, w, &sent)
	assert.Equal(t, 1, sent.Recipients)

	w = sendJSON(t, r, "GET", "/api/notifications", riderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &riderNotifs)
	require.NotEmpty(t, riderNotifs.Notifications)
	assert.Equal(t, "Scheduled maintenance", riderNotifs.Notifications[0].Title)

	// Toggling the scooty off gates new bookings
	w = sendJSON(t, r, "PATCH", fmt.Sprintf("/api/scooties/%d/availability", scooty.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = sendJSON(t, r, "POST", "/api/bookings", riderToken, map[string]interface{}{
		"scootyId":  scooty.ID,
		"startTime": "2030-01-17T10:00:00Z",
		"endTime":   "2030-01-17T12:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func postAttachment(t *testing.T, r *gin.Engine, path, token, filename, contentType string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
