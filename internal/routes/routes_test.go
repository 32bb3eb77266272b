package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/csshost/csshost/internal/app"
	"github.com/csshost/csshost/internal/config"
	"github.com/csshost/csshost/internal/feed"
	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
	"github.com/csshost/csshost/internal/service"
	"github.com/csshost/csshost/internal/storage"
	"github.com/csshost/csshost/internal/testutil"
)

type testServer struct {
	srv    *httptest.Server
	client *http.Client
	db     *sqlx.DB
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	fileRepo := repository.NewFileRepository(db)

	store := storage.NewMemory("https://cdn.example.com")
	broker := feed.NewBroker()

	cfg := &config.Config{
		AppName:       "csshost",
		AppEnv:        "development",
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		StorageQuota:  1 << 30,
		MaxUploadSize: 1 << 20,
	}

	a := &app.App{
		Cfg:            cfg,
		DB:             db,
		Feed:           broker,
		AuthService:    service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret, false, cfg.JWTExpiry),
		UserService:    service.NewUserService(userRepo, profileRepo),
		FileService:    service.NewFileService(fileRepo, profileRepo, store, broker, cfg.StorageQuota, cfg.MaxUploadSize),
		ContentService: service.NewContentService(fileRepo, profileRepo, store, broker, cfg.StorageQuota, cfg.MaxUploadSize),
		AdminService:   service.NewAdminService(userRepo, profileRepo, fileRepo),
	}

	srv := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &testServer{
		srv:    srv,
		client: &http.Client{Jar: jar},
		db:     db,
	}
}

func (s *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := s.client.Post(s.srv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func (s *testServer) uploadFile(t *testing.T, name, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("failed to write form: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	resp, err := s.client.Post(s.srv.URL+"/api/files", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	return resp
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, s.srv.URL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()

	resp := s.postJSON(t, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": "a-long-enough-password",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from signup, got %d", resp.StatusCode)
	}
	var session struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &session)
	return session.ID
}

func TestAnonymousUploadFlow(t *testing.T) {
	s := setupServer(t)

	resp := s.uploadFile(t, "style.css", ".a { color: red; }")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var uploaded struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	}
	decodeBody(t, resp, &uploaded)
	if uploaded.Size != 13 {
		t.Errorf("expected minified size 13, got %d", uploaded.Size)
	}
	if !strings.HasPrefix(uploaded.URL, "https://cdn.example.com/") {
		t.Errorf("unexpected url %s", uploaded.URL)
	}

	resp = s.do(t, http.MethodGet, "/api/files", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", resp.StatusCode)
	}
	var files []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &files)
	if len(files) != 1 || files[0].ID != uploaded.ID {
		t.Fatalf("expected the uploaded file in the listing, got %+v", files)
	}

	resp = s.do(t, http.MethodGet, "/api/files/"+uploaded.ID+"/content", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from content, got %d", resp.StatusCode)
	}
	var content struct {
		Content string `json:"content"`
	}
	decodeBody(t, resp, &content)
	if content.Content != ".a{color:red}" {
		t.Errorf("expected minified content, got %q", content.Content)
	}

	resp = s.do(t, http.MethodGet, "/api/usage", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from usage, got %d", resp.StatusCode)
	}
	var usage struct {
		Used  int64 `json:"used"`
		Files int64 `json:"files"`
	}
	decodeBody(t, resp, &usage)
	if usage.Used != 13 || usage.Files != 1 {
		t.Errorf("expected used 13 across 1 file, got %+v", usage)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	s := setupServer(t)

	resp := s.uploadFile(t, "notes.txt", "hello")
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSignupUploadEditDelete(t *testing.T) {
	s := setupServer(t)
	s.signup(t, "flow@example.com")

	resp := s.uploadFile(t, "app.css", ".a { color: red; }")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var uploaded struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &uploaded)

	body := strings.NewReader(`{"content": ".body { margin: 0 auto; }"}`)
	resp = s.do(t, http.MethodPut, "/api/files/"+uploaded.ID+"/content", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from edit save, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/files/"+uploaded.ID+"/content", nil)
	var content struct {
		Content string `json:"content"`
	}
	decodeBody(t, resp, &content)
	if content.Content != ".body{margin:0 auto}" {
		t.Errorf("expected re-minified edited content, got %q", content.Content)
	}

	resp = s.do(t, http.MethodDelete, "/api/files/"+uploaded.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/files", nil)
	var files []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &files)
	if len(files) != 0 {
		t.Errorf("expected empty listing after delete, got %d entries", len(files))
	}
}

func TestFilesAreScopedToOwner(t *testing.T) {
	s := setupServer(t)

	// Anonymous upload first, then a fresh signed-in session.
	resp := s.uploadFile(t, "anon.css", "p{}")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var anon struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &anon)

	s.signup(t, "scoped@example.com")

	resp = s.do(t, http.MethodGet, "/api/files", nil)
	var files []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &files)
	if len(files) != 0 {
		t.Errorf("expected no files for the new account, got %d", len(files))
	}

	// The other owner's file is not readable either.
	resp = s.do(t, http.MethodGet, "/api/files/"+anon.ID+"/content", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 reading another owner's file, got %d", resp.StatusCode)
	}
}

func TestAdminSurfaceAuthorization(t *testing.T) {
	s := setupServer(t)

	resp := s.do(t, http.MethodGet, "/api/admin/stats", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without a session, got %d", resp.StatusCode)
	}

	userID := s.signup(t, "plain@example.com")

	resp = s.do(t, http.MethodGet, "/api/admin/stats", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a standard account, got %d", resp.StatusCode)
	}

	// Promote and retry; the role is read per request, not from the token.
	_, err := s.db.Exec(`UPDATE profiles SET role = $1 WHERE user_id = $2`, model.RoleSuperadmin, userID)
	if err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}

	resp = s.do(t, http.MethodGet, "/api/admin/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for a superadmin, got %d", resp.StatusCode)
	}
	var stats struct {
		Users int64 `json:"users"`
	}
	decodeBody(t, resp, &stats)
	if stats.Users < 2 {
		t.Errorf("expected at least 2 accounts in stats, got %d", stats.Users)
	}
}

func TestSuspendedAccountBlocked(t *testing.T) {
	s := setupServer(t)
	userID := s.signup(t, "frozen@example.com")

	_, err := s.db.Exec(`UPDATE profiles SET suspended = $1 WHERE user_id = $2`, true, userID)
	if err != nil {
		t.Fatalf("failed to suspend user: %v", err)
	}

	resp := s.uploadFile(t, "blocked.css", "p{}")
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a suspended account, got %d", resp.StatusCode)
	}
}

func TestAdminCanSuspendAndDeleteFiles(t *testing.T) {
	s := setupServer(t)

	// Victim uploads anonymously so there is a foreign file to manage.
	resp := s.uploadFile(t, "target.css", "p{}")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var target struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &target)

	adminID := s.signup(t, "root@example.com")
	_, err := s.db.Exec(`UPDATE profiles SET role = $1 WHERE user_id = $2`, model.RoleSuperadmin, adminID)
	if err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}

	body := strings.NewReader(`{"suspended": true}`)
	resp = s.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s/suspended", model.OwnerAnonymous), body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 suspending the anonymous account, got %d", resp.StatusCode)
	}

	resp = s.do(t, http.MethodDelete, "/api/admin/files/"+target.ID, nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 deleting a foreign file as admin, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s := setupServer(t)
	s.signup(t, "bye@example.com")

	resp := s.do(t, http.MethodPost, "/api/auth/logout", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", resp.StatusCode)
	}

	// Back to the anonymous namespace.
	resp = s.do(t, http.MethodGet, "/api/admin/stats", nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
