package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bloomday/gala/internal/auth"
	"github.com/bloomday/gala/internal/config"
	"github.com/bloomday/gala/internal/models"
	"github.com/bloomday/gala/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingMailer captures sent links instead of calling SES
type recordingMailer struct {
	sentTo     []string
	sentTokens []string
}

func (m *recordingMailer) SendSignInLink(ctx context.Context, toEmail, token string) error {
	m.sentTo = append(m.sentTo, toEmail)
	m.sentTokens = append(m.sentTokens, token)
	return nil
}

type testEnv struct {
	handlers *Handlers
	router   *gin.Engine
	store    *storage.MemoryStore
	db       *gorm.DB
	mailer   *recordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Guest{}, &models.SignInToken{}, &models.PhotoUpload{}))

	store := storage.NewMemoryStore()
	mailer := &recordingMailer{}
	authService := auth.NewService(db, mailer, []byte("test-secret"))

	cfg := &config.Config{
		PageSize:    24,
		MaxPageSize: 100,
		URLExpiry:   time.Hour,
		Upload: config.UploadPolicy{
			Enabled:           true,
			MaxSizeBytes:      50 * 1024 * 1024,
			AllowedMediaTypes: []string{"image", "video"},
		},
	}

	h := NewHandlers(cfg, db, store, authService)

	router := gin.New()
	router.GET("/health", h.Health)
	router.POST("/auth/link", h.RequestSignInLink)
	router.POST("/auth/exchange", h.ExchangeSignInLink)

	protected := router.Group("/", h.AuthMiddleware())
	protected.GET("/auth/me", h.Me)
	protected.GET("/photos", h.ListPhotos)
	protected.POST("/photos", h.UploadPhoto)
	protected.GET("/photos/:name/download", h.DownloadPhoto)
	protected.DELETE("/photos/:name", h.DeletePhoto)

	return &testEnv{
		handlers: h,
		router:   router,
		store:    store,
		db:       db,
		mailer:   mailer,
	}
}

// invite seeds a guest row
func (e *testEnv) invite(t *testing.T, email string, host bool) *models.Guest {
	t.Helper()
	guest := &models.Guest{Email: email, DisplayName: "Guest", IsHost: host}
	require.NoError(t, e.db.Create(guest).Error)
	return guest
}

// signIn runs the full link request plus exchange and returns a session token
func (e *testEnv) signIn(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.handlers.auth.RequestSignInLink(ctx, email))
	token := e.mailer.sentTokens[len(e.mailer.sentTokens)-1]
	resp, err := e.handlers.auth.ExchangeLink(ctx, email, token)
	require.NoError(t, err)
	return resp.Token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartUpload builds a multipart request with one "photo" part
func multipartUpload(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="photo"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/photos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
