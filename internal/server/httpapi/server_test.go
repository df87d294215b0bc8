package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/blobstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type harness struct {
	t         *testing.T
	server    *Server
	uploadDir string
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	root := t.TempDir()

	rm, err := repomanager.NewJSONRepositoryManager(filepath.Join(root, "data"))
	require.NoError(t, err)
	blobs, err := blobstore.NewLocal(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	log := logging.Nop()
	directory := services.NewDirectory(rm.Users(), log)
	ledger := services.NewLedger(rm.HealthFiles(), blobs, log)
	intake := services.NewIntake(ledger, blobs, log)
	issuer := auth.NewIssuer("test-secret", time.Hour)

	if opts.MaxUploadSize == 0 {
		opts.MaxUploadSize = 1 << 20
	}
	if opts.LoginRate == 0 {
		opts.LoginRate, opts.LoginBurst = 100, 100
	}

	return &harness{
		t:         t,
		server:    NewServer(":0", log, directory, ledger, intake, issuer, opts),
		uploadDir: blobs.Dir(),
	}
}

func (h *harness) do(req *http.Request, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func (h *harness) form(method, path string, values url.Values, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req, token)
}

func (h *harness) get(path, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (h *harness) upload(name, content, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(h.t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.do(req, token)
}

func (h *harness) signup(name, email, password string) string {
	h.t.Helper()
	w := h.form(http.MethodPost, "/signup", url.Values{"name": {name}, "email": {email}, "password": {password}}, "")
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(h.t, w)["token"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHealthzAndRequestID(t *testing.T) {
	h := newHarness(t, Options{})

	w := h.get("/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeaderName))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(common.RequestIDHeaderName, "req-123")
	w = h.do(req, "")
	assert.Equal(t, "req-123", w.Header().Get(common.RequestIDHeaderName))
}

func TestIndex(t *testing.T) {
	h := newHarness(t, Options{})

	w := h.get("/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	token := h.signup("Alice", "a@x.com", "p1")
	w = h.get("/", token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSignup(t *testing.T) {
	h := newHarness(t, Options{})

	w := h.form(http.MethodPost, "/signup", url.Values{"name": {"Alice"}, "email": {"a@x.com"}, "password": {"p1"}}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "Alice", decode(t, w)["user_name"])

	w = h.form(http.MethodPost, "/signup", url.Values{"name": {"Eve"}, "email": {"a@x.com"}, "password": {"x"}}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w)["error"])

	w = h.form(http.MethodPost, "/signup", url.Values{"name": {"Bob"}, "email": {"b@x.com"}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decode(t, w)["error"])
}

func TestSignupWithProfileJSON(t *testing.T) {
	h := newHarness(t, Options{})

	body := `{"name":"Carol","email":"c@x.com","password":"pw","age":"30","sex":"female"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := h.do(req, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	token := decode(t, w)["token"].(string)
	w = h.get("/profile", token)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.EqualValues(t, 30, user["age"])
	assert.Equal(t, "female", user["sex"])
	assert.Nil(t, user["race"])
	assert.NotContains(t, user, "password")
}

func TestSignupWithNumericAgeJSON(t *testing.T) {
	h := newHarness(t, Options{})

	tests := []struct {
		name, body string
		code       int
		age        any
		err        string
	}{
		{"number", `{"name":"A","email":"a@x.com","password":"p","age":30}`, http.StatusCreated, float64(30), ""},
		{"null", `{"name":"B","email":"b@x.com","password":"p","age":null}`, http.StatusCreated, nil, ""},
		{"fraction", `{"name":"C","email":"c@x.com","password":"p","age":30.5}`, http.StatusBadRequest, nil, "Please enter a valid age"},
		{"out of range", `{"name":"D","email":"d@x.com","password":"p","age":200}`, http.StatusBadRequest, nil, "Please enter a valid age between 1 and 150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := h.do(req, "")
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.err != "" {
				assert.Equal(t, tt.err, decode(t, w)["error"])
				return
			}

			token := decode(t, w)["token"].(string)
			user := decode(t, h.get("/profile", token))["user"].(map[string]any)
			assert.Equal(t, tt.age, user["age"])
		})
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t, Options{})
	h.signup("Alice", "a@x.com", "p1")

	w := h.form(http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"p1"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sessionCookie(w))

	wrong := h.form(http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"nope"}}, "")
	unknown := h.form(http.MethodPost, "/login", url.Values{"email": {"z@x.com"}, "password": {"p1"}}, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t, Options{LoginRate: 0.001, LoginBurst: 2})
	h.signup("Alice", "a@x.com", "p1")

	creds := url.Values{"email": {"a@x.com"}, "password": {"wrong"}}
	assert.Equal(t, http.StatusUnauthorized, h.form(http.MethodPost, "/login", creds, "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.form(http.MethodPost, "/login", creds, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, h.form(http.MethodPost, "/login", creds, "").Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newHarness(t, Options{})

	routes := []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/profile"},
		{http.MethodPost, "/upload"},
		{http.MethodPost, "/delete_file/x.pdf"},
		{http.MethodGet, "/files/x.pdf"},
	}
	for _, r := range routes {
		w := h.do(httptest.NewRequest(r.method, r.path, nil), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)

		w = h.do(httptest.NewRequest(r.method, r.path, nil), "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
	}
}

func TestBearerToken(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.signup("Alice", "a@x.com", "p1")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := h.do(req, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerTokenWithStaleCookie(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.signup("Alice", "a@x.com", "p1")

	stale, err := auth.NewIssuer("rotated-secret", time.Hour).Issue("a@x.com", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := h.do(req, stale)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	w = h.do(req, stale)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, Options{})

	w := h.get("/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestDashboardProfilePrompt(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.signup("Alice", "a@x.com", "p1")

	body := decode(t, h.get("/dashboard", token))
	assert.Equal(t, "Alice", body["user_name"])
	assert.Empty(t, body["files"])
	assert.Equal(t, false, body["show_profile_prompt"])

	require.Equal(t, http.StatusCreated, h.upload("scan.pdf", "pdf", token).Code)

	body = decode(t, h.get("/dashboard", token))
	assert.Len(t, body["files"], 1)
	assert.Equal(t, true, body["show_profile_prompt"])

	w := h.form(http.MethodPost, "/profile", url.Values{"age": {"34"}, "sex": {"female"}, "race": {"asian"}}, token)
	require.Equal(t, http.StatusOK, w.Code)

	body = decode(t, h.get("/dashboard", token))
	assert.Equal(t, false, body["show_profile_prompt"])
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.signup("Alice", "a@x.com", "p1")

	tests := []struct {
		age  string
		code int
		msg  string
	}{
		{"abc", http.StatusBadRequest, "Please enter a valid age"},
		{"0", http.StatusBadRequest, "Please enter a valid age between 1 and 150"},
		{"200", http.StatusBadRequest, "Please enter a valid age between 1 and 150"},
	}
	for _, tt := range tests {
		w := h.form(http.MethodPost, "/profile", url.Values{"age": {tt.age}}, token)
		assert.Equal(t, tt.code, w.Code, tt.age)
		assert.Equal(t, tt.msg, decode(t, w)["error"], tt.age)
	}

	w := h.form(http.MethodPost, "/profile", url.Values{"age": {""}, "sex": {"male"}, "race": {""}}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Profile updated successfully!", body["message"])
	user := body["user"].(map[string]any)
	assert.Nil(t, user["age"])
	assert.Equal(t, "male", user["sex"])
	assert.Nil(t, user["race"])
	assert.NotEmpty(t, user["updated_at"])
}

func TestUploadDownloadDelete(t *testing.T) {
	h := newHarness(t, Options{})
	alice := h.signup("Alice", "a@x.com", "p1")
	bob := h.signup("Bob", "b@x.com", "p2")

	w := h.upload("scan.pdf", "%PDF-1.4", alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := decode(t, w)["file"].(map[string]any)
	stored := file["filename"].(string)
	assert.Equal(t, "scan.pdf", file["original_filename"])
	assert.True(t, strings.HasSuffix(stored, "_scan.pdf"))
	assert.FileExists(t, filepath.Join(h.uploadDir, stored))

	w = h.get("/files/"+stored, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename=scan.pdf`)

	assert.Equal(t, http.StatusNotFound, h.get("/files/"+stored, bob).Code)
	assert.Equal(t, http.StatusNotFound, h.form(http.MethodPost, "/delete_file/"+stored, nil, bob).Code)

	w = h.form(http.MethodPost, "/delete_file/"+stored, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "File deleted successfully!", decode(t, w)["message"])
	assert.NoFileExists(t, filepath.Join(h.uploadDir, stored))

	w = h.form(http.MethodPost, "/delete_file/"+stored, nil, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Error deleting file. File may not exist.", decode(t, w)["error"])
}

func TestUploadErrors(t *testing.T) {
	h := newHarness(t, Options{MaxUploadSize: 512})
	token := h.signup("Alice", "a@x.com", "p1")

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := h.do(req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file selected", decode(t, w)["error"])

	w = h.upload("big.bin", strings.Repeat("x", 4096), token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	entries, err := os.ReadDir(h.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
