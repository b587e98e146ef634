package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"caseiq/pkg/relay"
	"caseiq/pkg/upload"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// setupTestServer wires the whole router against an in-memory database. The
// relay stays disabled unless a test points relayClient at its own server.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg = Config{
		BaseURL:             "http://test.local",
		JWTSecret:           []byte("test-secret"),
		TokenTTL:            time.Hour,
		UploadDir:           t.TempDir(),
		FrontendURL:         "http://frontend.local",
		SuperAdminEmail:     "admin@caseiq.local",
		SuperAdminPassword:  "Admin@124",
		DefaultUserPassword: "Test@123",

		DefaultCountryCode:    "+1",
		DefaultClientProvided: "No",
		DefaultRelationship:   "Relative",

		RelayEmailsPath:     "/webhook/bulk-emails",
		RelayPhonesPath:     "/webhook/bulk-phones",
		RelayUsernamesPath:  "/webhook/bulk-usernames",
		RelayAddressesPath:  "/webhook/bulk-addresses",
		RelayFacialURLsPath: "/webhook/facial-recognition-urls",
	}
	logger = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	var err error
	db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	migrateAndSeed()

	uploads, err = upload.New(cfg.UploadDir, cfg.BaseURL+"/uploads/client_images", logger)
	require.NoError(t, err)
	relayClient = relay.New("", time.Second, logger)

	r := gin.New()
	setupRoutes(r)
	return r
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": email, "password": password}), "", "application/json")
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())
	token, _ := decodeJSON(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func adminToken(t *testing.T, r *gin.Engine) string {
	return login(t, r, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
}

// addUser provisions an active account through the admin endpoint and logs it
// in with the default password.
func addUser(t *testing.T, r *gin.Engine, admin, name, email, role string) string {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/admin/add-user",
		jsonBody(t, gin.H{"full_name": name, "email": email, "role": role, "status": "Active"}),
		admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, r, email, cfg.DefaultUserPassword)
}

func createClient(t *testing.T, r *gin.Engine, admin string, fields map[string]string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	rec := performRequest(r, http.MethodPost, "/clients", buf, admin, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := decodeJSON(t, rec)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func assignClient(t *testing.T, r *gin.Engine, admin, clientID, analystEmail string) {
	t.Helper()
	rec := performRequest(r, http.MethodPut, "/clients/"+clientID+"/assign",
		jsonBody(t, gin.H{"analyst_email": analystEmail}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSignupActivationLoginFlow(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(r, http.MethodPost, "/signup", jsonBody(t, gin.H{
		"full_name":        "New Analyst",
		"email":            "new@example.com",
		"password":         "Str0ng!pass",
		"confirm_password": "Str0ng!pass",
	}), "", "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// weak password rejected
	rec = performRequest(r, http.MethodPost, "/signup", jsonBody(t, gin.H{
		"full_name":        "Weak",
		"email":            "weak@example.com",
		"password":         "password",
		"confirm_password": "password",
	}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// fresh accounts are inactive and cannot log in
	rec = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "new@example.com", "password": "Str0ng!pass"}), "", "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := adminToken(t, r)

	// find the account id and activate it
	rec = performRequest(r, http.MethodGet, "/users", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	var uid float64
	for _, u := range users {
		if u["email"] == "new@example.com" {
			uid = u["id"].(float64)
		}
	}
	require.NotZero(t, uid)

	rec = performRequest(r, http.MethodPut, fmt.Sprintf("/users/%d", int(uid)), jsonBody(t, gin.H{
		"full_name": "New Analyst",
		"email":     "new@example.com",
		"role":      "Analyst",
		"status":    "Active",
	}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := login(t, r, "new@example.com", "Str0ng!pass")

	rec = performRequest(r, http.MethodGet, "/profile", nil, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	prof := decodeJSON(t, rec)
	assert.Equal(t, "Analyst", prof["role"])
	assert.Equal(t, "Active", prof["status"])

	// no token
	rec = performRequest(r, http.MethodGet, "/profile", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// analysts cannot reach admin surface
	rec = performRequest(r, http.MethodGet, "/users", nil, token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(r, http.MethodPost, "/reset-password-request",
		jsonBody(t, gin.H{"email": cfg.SuperAdminEmail}), "", "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// unknown account
	rec = performRequest(r, http.MethodPost, "/reset-password-request",
		jsonBody(t, gin.H{"email": "ghost@example.com"}), "", "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the raw token travels by email in production; mint one directly here
	raw, err := createResetToken(cfg.SuperAdminEmail)
	require.NoError(t, err)

	rec = performRequest(r, http.MethodPost, "/reset-password",
		jsonBody(t, gin.H{"token": raw, "new_password": "N3w!Secret"}), "", "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login(t, r, cfg.SuperAdminEmail, "N3w!Secret")

	// single use
	rec = performRequest(r, http.MethodPost, "/reset-password",
		jsonBody(t, gin.H{"token": raw, "new_password": "An0ther!One"}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientIntakeSplitsContacts(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)

	id := createClient(t, r, admin, map[string]string{
		"full_name":     "Jordan Case",
		"emails":        "a@x.com\na@x.com\nb@x.com",
		"phone_numbers": "(555) 123-4567\n555.123.4567\n+44 20 7946 0958",
		"date_of_birth": "1980-05-17",
	})

	rec := performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var emails []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emails))
	assert.Len(t, emails, 2, "duplicate intake lines collapse to one row")

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/phone-numbers", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var phones []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phones))
	require.Len(t, phones, 2, "two formattings of one number collapse after normalization")
	for _, p := range phones {
		assert.Equal(t, "Yes", p["client_provided"], "intake rows are client provided")
	}
}

func TestOwnershipScoping(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)

	owner := addUser(t, r, admin, "Owner Analyst", "owner@example.com", "Analyst")
	other := addUser(t, r, admin, "Other Analyst", "other@example.com", "Analyst")

	id := createClient(t, r, admin, map[string]string{"full_name": "Scoped Client"})
	assignClient(t, r, admin, id, "owner@example.com")

	// owner sees the client
	rec := performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, owner, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(r, http.MethodGet, "/analyst/clients", nil, owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	// a different analyst is denied
	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, other, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/government-records",
		jsonBody(t, gin.H{"record_type": "court", "record": "case 42"}), other, "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admins pass regardless of assignment
	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// unknown and malformed ids both read as absent
	rec = performRequest(r, http.MethodGet, "/clients/6d9e2bd2-0a5c-4b4a-9e6c-0f8f8f8f8f8f/emails", nil, owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = performRequest(r, http.MethodGet, "/clients/not-a-uuid/emails", nil, owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignUnassign(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	addUser(t, r, admin, "An Analyst", "an@example.com", "Analyst")

	id := createClient(t, r, admin, map[string]string{"full_name": "Assignable"})

	// unassigning an unassigned client fails
	rec := performRequest(r, http.MethodPut, "/clients/"+id+"/unassign", nil, admin, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown analyst email
	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/assign",
		jsonBody(t, gin.H{"analyst_email": "ghost@example.com"}), admin, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assignClient(t, r, admin, id, "an@example.com")

	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/unassign", nil, admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmailUniquenessConflict(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Dup Client"})

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/emails",
		jsonBody(t, gin.H{"email": "Dup@Example.com"}), admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// case-insensitive duplicate
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/emails",
		jsonBody(t, gin.H{"email": "dup@example.com"}), admin, "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClientPatchTriState(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{
		"full_name":   "Patch Client",
		"other_names": "PC",
	})

	rec := performRequest(r, http.MethodPut, "/clients/"+id,
		jsonBody(t, gin.H{"organization": "Acme", "other_names": nil}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Equal(t, "Acme", body["organization"])
	assert.Equal(t, "", body["other_names"], "explicit null clears the field")
	assert.Equal(t, "Patch Client", body["full_name"], "absent field untouched")

	// empty full name rejected
	rec = performRequest(r, http.MethodPut, "/clients/"+id,
		jsonBody(t, gin.H{"full_name": "  "}), admin, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkUploadFallbackDedup(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Bulk Client"})

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/emails/bulk-upload",
		jsonBody(t, gin.H{"emails_text": "a@x.com\na@x.com\nb@x.com"}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Contains(t, body["message"], "webhook inactive")

	// resubmitting adds nothing
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/emails/bulk-upload",
		jsonBody(t, gin.H{"emails_text": "a@x.com\nb@x.com"}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeJSON(t, rec)["count"])
}

func TestBulkUploadViaRelay(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Relay Client"})

	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"3 emails imported","count":3}`))
	}))
	defer srv.Close()
	relayClient = relay.New(srv.URL, time.Second, logger)

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/emails/bulk-upload",
		jsonBody(t, gin.H{"emails_text": "a@x.com\nb@x.com\nc@x.com"}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, id, gotPayload["client_id"], "payload carries the client id")

	// no local rows were written: the relay owned the import
	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var emails []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emails))
	assert.Empty(t, emails)
}

func brokerScreenForm(t *testing.T, fields map[string]string, imageNames []string) (io.Reader, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range imageNames {
		w, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = w.Write([]byte("fake image bytes for " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestBrokerScreenImageReconciliation(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Broker Client"})

	body, ct := brokerScreenForm(t, map[string]string{"broker_name": "Spokeo"}, []string{"a.jpg", "b.jpg", "c.jpg"})
	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/broker-screen-records", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decodeJSON(t, rec)["record"].(map[string]any)
	recordID := record["id"].(string)
	images := record["images"].([]any)
	require.Len(t, images, 3)
	urlA, urlB, urlC := images[0].(string), images[1].(string), images[2].(string)
	for _, u := range []string{urlA, urlB, urlC} {
		assert.True(t, uploads.Exists(u), "blob for %s missing", path.Base(u))
	}

	// keep a and c, drop b, add d
	data, _ := json.Marshal(gin.H{"broker_name": "Spokeo", "remaining_images": []string{urlA, urlC}})
	body, ct = brokerScreenForm(t, map[string]string{"data": string(data)}, []string{"d.jpg"})
	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/broker-screen-records/"+recordID, body, admin, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	images = decodeJSON(t, rec)["images"].([]any)
	require.Len(t, images, 3)
	assert.Equal(t, urlA, images[0])
	assert.Equal(t, urlC, images[1])
	urlD := images[2].(string)
	assert.NotEqual(t, urlB, urlD)

	assert.False(t, uploads.Exists(urlB), "dropped blob should be deleted")
	assert.True(t, uploads.Exists(urlD))

	// deleting the record removes the remaining blobs
	rec = performRequest(r, http.MethodDelete, "/clients/"+id+"/broker-screen-records/"+recordID, nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, u := range []string{urlA, urlC, urlD} {
		assert.False(t, uploads.Exists(u))
	}
}

// A failed update must not touch blobs the committed row references: the
// dropped image stays on disk and only the freshly stored upload is rolled
// back.
func TestBrokerScreenUpdateFailureKeepsBlobs(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Broker Client"})

	body, ct := brokerScreenForm(t, map[string]string{"broker_name": "Spokeo"}, []string{"a.jpg", "b.jpg"})
	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/broker-screen-records", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decodeJSON(t, rec)["record"].(map[string]any)
	recordID := record["id"].(string)
	images := record["images"].([]any)
	require.Len(t, images, 2)
	urlA, urlB := images[0].(string), images[1].(string)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("reject_updates", func(tx *gorm.DB) {
		tx.AddError(errors.New("update rejected"))
	}))

	// keep a, drop b, add c — while every UPDATE fails
	data, _ := json.Marshal(gin.H{"broker_name": "Spokeo", "remaining_images": []string{urlA}})
	body, ct = brokerScreenForm(t, map[string]string{"data": string(data)}, []string{"c.jpg"})
	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/broker-screen-records/"+recordID, body, admin, ct)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

	require.NoError(t, db.Callback().Update().Remove("reject_updates"))

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/broker-screen-records", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	images = rows[0]["images"].([]any)
	require.Len(t, images, 2)
	assert.Equal(t, urlA, images[0])
	assert.Equal(t, urlB, images[1])
	assert.True(t, uploads.Exists(urlA))
	assert.True(t, uploads.Exists(urlB), "blob referenced by the committed row must survive a failed update")

	// the upload stored during the failed request was rolled back
	entries, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// An item id only resolves under the client that owns it; reaching it
// through another client's path reads as absent and changes nothing.
func TestCrossTenantItemLookup(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	ownerID := createClient(t, r, admin, map[string]string{"full_name": "Owner Client"})
	otherID := createClient(t, r, admin, map[string]string{"full_name": "Other Client"})

	rec := performRequest(r, http.MethodPost, "/clients/"+ownerID+"/emails",
		jsonBody(t, gin.H{"email": "kept@example.com"}), admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emailID := decodeJSON(t, rec)["id"].(string)

	rec = performRequest(r, http.MethodPut, "/clients/"+otherID+"/emails/"+emailID,
		jsonBody(t, gin.H{"email": "hijacked@example.com"}), admin, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodDelete, "/clients/"+otherID+"/emails/"+emailID, nil, admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// still present and unchanged under its owner
	rec = performRequest(r, http.MethodGet, "/clients/"+ownerID+"/emails", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "kept@example.com", rows[0]["email"])

	rec = performRequest(r, http.MethodPost, "/clients/"+otherID+"/government-records",
		jsonBody(t, gin.H{"record_type": "court", "record": "case 7"}), admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	govID := decodeJSON(t, rec)["id"].(string)

	rec = performRequest(r, http.MethodDelete, "/clients/"+ownerID+"/government-records/"+govID, nil, admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeatmapImagesOneRowPerFile(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Heatmap Client"})

	body, ct := brokerScreenForm(t, map[string]string{"image_type": "Heatmap"}, []string{"one.png", "two.png"})
	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/residential-heatmap-images", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/residential-heatmap-images", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "Heatmap", row["image_type"])
		assert.True(t, uploads.Exists(row["image_url"].(string)))
	}

	// delete one row, its blob goes with it
	victim := rows[0]
	rec = performRequest(r, http.MethodDelete, "/clients/"+id+"/residential-heatmap-images/"+victim["id"].(string), nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uploads.Exists(victim["image_url"].(string)))
}

func TestFacialRecognitionURLs(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Facial Client"})

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/facial-recognition-urls",
		jsonBody(t, gin.H{"url": "  https://pimeyes.com/result/1  "}), admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeJSON(t, rec)
	assert.Equal(t, "https://pimeyes.com/result/1", created["url"])
	urlID := created["id"].(string)

	// blank urls are rejected
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/facial-recognition-urls",
		jsonBody(t, gin.H{"url": "   "}), admin, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/facial-recognition-urls/"+urlID,
		jsonBody(t, gin.H{"url": "https://pimeyes.com/result/2"}), admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://pimeyes.com/result/2", decodeJSON(t, rec)["url"])

	// bulk upload falls back to direct inserts when the webhook is inactive,
	// skipping duplicate lines and urls already on file
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/facial-recognition-urls/bulk-upload",
		jsonBody(t, gin.H{"urls_text": "https://a.example/x\nhttps://a.example/x\nhttps://pimeyes.com/result/2\nhttps://b.example/y"}),
		admin, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeJSON(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/facial-recognition-urls", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 3)

	rec = performRequest(r, http.MethodDelete, "/clients/"+id+"/facial-recognition-urls/"+urlID, nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = performRequest(r, http.MethodDelete, "/clients/"+id+"/facial-recognition-urls/"+urlID, nil, admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFacialRecognitionSites(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Facial Client"})

	// one row per uploaded file, all under the same site name
	body, ct := brokerScreenForm(t, map[string]string{"site_name": "facecheck.id"}, []string{"hit1.jpg", "hit2.jpg"})
	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/facial-recognition-sites", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	records := decodeJSON(t, rec)["records"].([]any)
	require.Len(t, records, 2)

	first := records[0].(map[string]any)
	firstID := first["id"].(string)
	firstURL := first["image_url"].(string)
	assert.Equal(t, "facecheck.id", first["site_name"])
	assert.True(t, uploads.Exists(firstURL))

	// update swaps the image and renames the site; the old blob goes away
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("site_name", "search4faces.com"))
	w, err := mw.CreateFormFile("image", "hit3.jpg")
	require.NoError(t, err)
	_, err = w.Write([]byte("fake image bytes for hit3.jpg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/facial-recognition-sites/"+firstID, buf, admin, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON(t, rec)
	assert.Equal(t, "search4faces.com", updated["site_name"])
	newURL := updated["image_url"].(string)
	assert.NotEqual(t, firstURL, newURL)
	assert.False(t, uploads.Exists(firstURL), "replaced blob should be deleted")
	assert.True(t, uploads.Exists(newURL))

	// a missing image file is a client error
	buf = &bytes.Buffer{}
	mw = multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("site_name", "renamed-only"))
	require.NoError(t, mw.Close())
	rec = performRequest(r, http.MethodPut, "/clients/"+id+"/facial-recognition-sites/"+firstID, buf, admin, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(r, http.MethodDelete, "/clients/"+id+"/facial-recognition-sites/"+firstID, nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uploads.Exists(newURL))
}

func TestDonorCSVImport(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Donor Client"})

	csv := "contributor_name,recipient,recipient_date,amount\n" +
		"Jane Doe,Campaign A,2023-10-01,250.00\n" +
		"Jane Doe,Campaign B,2024-02-15,1000.00\n"
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, err := mw.CreateFormFile("file", "contributions.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/donor-records/csv-upload", buf, admin, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), decodeJSON(t, rec)["count"])

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/donor-records", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "contributions.csv", rows[0]["csv_file"])
}

func TestDeleteClientCascades(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{
		"full_name": "Doomed Client",
		"emails":    "gone@x.com",
	})

	body, ct := brokerScreenForm(t, map[string]string{"broker_name": "Whitepages"}, []string{"shot.jpg"})
	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/broker-screen-records", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	record := decodeJSON(t, rec)["record"].(map[string]any)
	blob := record["images"].([]any)[0].(string)
	require.True(t, uploads.Exists(blob))

	body, ct = brokerScreenForm(t, map[string]string{"site_name": "facecheck.id"}, []string{"hit.jpg"})
	rec = performRequest(r, http.MethodPost, "/clients/"+id+"/facial-recognition-sites", body, admin, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decodeJSON(t, rec)["records"].([]any)[0].(map[string]any)
	siteBlob := site["image_url"].(string)
	require.True(t, uploads.Exists(siteBlob))

	rec = performRequest(r, http.MethodDelete, "/clients/"+id, nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/emails", nil, admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = performRequest(r, http.MethodGet, "/clients/"+id+"/facial-recognition-sites", nil, admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, uploads.Exists(blob), "client deletion removes its blobs")
	assert.False(t, uploads.Exists(siteBlob))
}

func TestGeneratedDocuments(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	id := createClient(t, r, admin, map[string]string{"full_name": "Documented Client"})

	rec := performRequest(r, http.MethodPost, "/clients/"+id+"/generated-documents", jsonBody(t, gin.H{
		"file_name": "exposure-report.pdf",
		"view_url":  "https://drive.example.com/view/abc",
	}), admin, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decodeJSON(t, rec)
	assert.Equal(t, "Documented Client", doc["client_name"])
	assert.Equal(t, doc["view_url"], doc["download_url"], "download falls back to view url")

	rec = performRequest(r, http.MethodGet, "/admin/all-documents", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	docs := decodeJSON(t, rec)["documents"].([]any)
	require.Len(t, docs, 1)
	entry := docs[0].(map[string]any)
	client := entry["client"].(map[string]any)
	assert.Equal(t, id, client["id"])
}

func TestExportClientsXLSX(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t, r)
	createClient(t, r, admin, map[string]string{"full_name": "Export Client"})

	rec := performRequest(r, http.MethodGet, "/admin/clients/export", nil, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clients.xlsx")
	// xlsx files are zip archives
	assert.Equal(t, "PK", rec.Body.String()[:2])
}
