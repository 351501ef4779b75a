package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/db/sqlite"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/filestore"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/hasher"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	handler http.Handler
	svc     *application.RecordsService
	chief   domain.Officer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := sqlite.Open(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(ctx, db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	uploads := filepath.Join(dir, "uploads")
	files, err := filestore.NewLocal(uploads)
	require.NoError(t, err)

	repo := sqlite.NewRecordsRepository(db)
	reg := prometheus.NewRegistry()
	logger := zaptest.NewLogger(t)
	svc := application.NewRecordsService(repo, hasher.NewBcrypt(bcrypt.MinCost), files, logger, metrics.New(reg))

	_, err = svc.BootstrapChief(ctx, application.BootstrapInput{Badge: "0001", Name: "Chief Rocha", Password: "chief-pass", RankName: "Chief", RankLevel: 100})
	require.NoError(t, err)
	chief, err := repo.GetOfficerByBadge(ctx, "0001")
	require.NoError(t, err)

	handler := NewRouter(svc, Options{Logger: logger, Gatherer: reg, UploadDir: uploads, SessionTTL: time.Hour})
	return &testServer{handler: handler, svc: svc, chief: chief}
}

func (s *testServer) token(t *testing.T, badge, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"badge": badge, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAPIRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/officers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/officers", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"badge": "0001", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/announcements", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "announcement board is public")
}

func TestWhoAmIReportsRank(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "0001", "chief-pass")

	rec := s.do(t, http.MethodGet, "/api/auth/whoami", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	who := decode[map[string]any](t, rec)
	assert.Equal(t, "Chief", who["rank"])
	assert.Equal(t, float64(100), who["level"])
	assert.Equal(t, true, who["admin"])
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t)
	chief := s.token(t, "0001", "chief-pass")

	rec := s.do(t, http.MethodPost, "/api/ranks", chief, map[string]any{"name": "Officer", "level": 20})
	require.Equal(t, http.StatusCreated, rec.Code)
	rank := decode[domain.Rank](t, rec)

	rec = s.do(t, http.MethodPost, "/api/ranks", chief, map[string]any{"name": "Officer", "level": 30})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/officers", chief, map[string]any{"name": "Ana", "badge": "1001", "password": "pw", "rank_id": rank.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	officer := s.token(t, "1001", "pw")

	rec = s.do(t, http.MethodPost, "/api/ranks", officer, map[string]any{"name": "Cadet", "level": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/items", chief, map[string]any{"collection": "Weapons", "category": "x", "model": "y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/items/999", chief, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/items/abc", chief, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/audit/logs", officer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCustodyOverAPI(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "0001", "chief-pass")

	rec := s.do(t, http.MethodPost, "/api/items", token, map[string]any{"collection": "Asset", "category": "Pistol", "model": "G17", "serial": "P-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[domain.SeizedItem](t, rec)
	assert.Equal(t, domain.StatusAvailable, item.Status)

	rec = s.do(t, http.MethodPost, "/api/items/"+itoa(item.ID)+"/movements", token, map[string]any{"movement_type": "Withdraw", "selector": "Patrol Car 3"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	moved := decode[struct {
		Item     domain.SeizedItem
		Movement domain.MovementRecord
	}](t, rec)
	assert.Equal(t, domain.StatusInUse, moved.Item.Status)
	assert.Equal(t, "Patrol Car 3", moved.Movement.Destination)

	rec = s.do(t, http.MethodGet, "/api/items/"+itoa(item.ID)+"/movements", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Movements []domain.MovementRecord `json:"movements"`
	}](t, rec)
	require.Len(t, history.Movements, 2)
	assert.Equal(t, domain.MovementWithdraw, history.Movements[0].MovementType)

	rec = s.do(t, http.MethodGet, "/api/items?collection=Evidence", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestReportAttachmentUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "0001", "chief-pass")

	rec := s.do(t, http.MethodPost, "/api/reports", token, map[string]any{"complainant": "Maria", "nature": "Theft", "description": "wallet"})
	require.Equal(t, http.StatusCreated, rec.Code)
	report := decode[domain.IncidentReport](t, rec)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "scene.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports/"+itoa(report.ID)+"/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	up := httptest.NewRecorder()
	s.handler.ServeHTTP(up, req)
	require.Equal(t, http.StatusCreated, up.Code, up.Body.String())
	attachment := decode[domain.ReportAttachment](t, up)
	assert.Equal(t, application.AttachmentImage, attachment.Kind)

	req = httptest.NewRequest(http.MethodGet, "/files/"+attachment.File, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	file := httptest.NewRecorder()
	s.handler.ServeHTTP(file, req)
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "png-bytes", file.Body.String())
}

func TestLoginFormSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	form := url.Values{"badge": {"0001"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")

	form.Set("password", "chief-pass")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCommandsRenderFlashFragments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	item, err := s.svc.RegisterItem(ctx, s.chief, application.RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Phone", Model: "X1"})
	require.NoError(t, err)

	token := s.token(t, "0001", "chief-pass")

	rec := s.do(t, http.MethodPost, "/commands/items/"+itoa(item.ID)+"/move", token, map[string]any{
		"moveType":     "Withdraw",
		"moveSelector": "other",
		"moveFreeText": "Forensics <Lab>",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "Movement recorded")
	assert.Contains(t, body, "InTransit")
	assert.Contains(t, body, "Forensics &lt;Lab&gt;")

	rec = s.do(t, http.MethodPost, "/commands/items/"+itoa(item.ID)+"/move", token, map[string]any{"moveDestination": "Vault"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "flash-error")

	rec = s.do(t, http.MethodPost, "/commands/officers/"+itoa(s.chief.ID)+"/discipline", token, map[string]any{"disciplineCategory": "Warning", "disciplineDescription": "late"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "nobody disciplines themselves")

	req := httptest.NewRequest(http.MethodPost, "/commands/items/1/move", nil)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "0001", "chief-pass")
	rec := s.do(t, http.MethodPost, "/api/items", token, map[string]any{"collection": "Asset", "category": "Radio", "model": "HT"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pcesp_seized_items_registered_total{collection="Asset"} 1`)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
