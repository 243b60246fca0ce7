package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/common"
	"binderkeeper/internal/logging"
	"binderkeeper/internal/server/auth"
	"binderkeeper/internal/server/models"
	"binderkeeper/internal/server/services"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

type fakeUsers struct {
	regResp     *models.User
	regErr      error
	loginResp   *services.TokenPair
	loginErr    error
	refreshResp *services.TokenPair
	refreshErr  error
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

type fakeBinders struct {
	cards      []binder.CardEntry
	cardsErr   error
	saved      []binder.CardEntry
	savedTo    string
	prefs      json.RawMessage
	prefsErr   error
	savedPrefs json.RawMessage
}

func (f *fakeBinders) Cards(ctx context.Context, userID, binderID string) ([]binder.CardEntry, error) {
	return f.cards, f.cardsErr
}
func (f *fakeBinders) SaveCard(ctx context.Context, userID, binderID string, card binder.CardEntry) error {
	f.saved = append(f.saved, card)
	f.savedTo = binderID
	return nil
}
func (f *fakeBinders) DeleteCard(ctx context.Context, userID, binderID, cardID string) error {
	return nil
}
func (f *fakeBinders) Preferences(ctx context.Context, userID, binderID string) (json.RawMessage, error) {
	return f.prefs, f.prefsErr
}
func (f *fakeBinders) SavePreferences(ctx context.Context, userID, binderID string, payload json.RawMessage) error {
	f.savedPrefs = payload
	return nil
}

const testSecret = "test-secret"

func newTestServer(users *fakeUsers, binders *fakeBinders) *Server {
	return NewServer(":0", nopLogger{}, users, binders, testSecret)
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	users := &fakeUsers{regResp: &models.User{ID: "u1", UserName: "ash"}}
	h := newTestServer(users, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/register", "",
		map[string]string{"username": "ash", "password": "pikachu"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	users := &fakeUsers{regErr: common.ErrorAlreadyExists}
	h := newTestServer(users, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/register", "",
		map[string]string{"username": "ash", "password": "pikachu"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	h := newTestServer(&fakeUsers{}, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/register", "",
		map[string]string{"username": "ash"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	users := &fakeUsers{loginResp: &services.TokenPair{
		UserID: "u1", AccessToken: "at", RefreshToken: "rt",
	}}
	h := newTestServer(users, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/login", "",
		map[string]string{"username": "ash", "password": "pikachu"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserID       string `json:"user_id"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "at", resp.AccessToken)
	assert.Equal(t, "rt", resp.RefreshToken)
}

func TestLoginUnauthorized(t *testing.T) {
	users := &fakeUsers{loginErr: common.ErrorUnauthorized}
	h := newTestServer(users, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/login", "",
		map[string]string{"username": "ash", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshExpired(t *testing.T) {
	users := &fakeUsers{refreshErr: common.ErrRefreshTokenExpired}
	h := newTestServer(users, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/refresh", "",
		map[string]string{"refresh_token": "old"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBinderEndpointsRequireToken(t *testing.T) {
	h := newTestServer(&fakeUsers{}, &fakeBinders{}).Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/binders/b1/cards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/binders/b1/cards", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCards(t *testing.T) {
	binders := &fakeBinders{cards: []binder.CardEntry{
		{ID: "c1", Position: binder.Position{Page: 1, Slot: 3}},
	}}
	h := newTestServer(&fakeUsers{}, binders).Handler()

	token, err := auth.GenerateToken("u1", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/api/binders/b1/cards", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cards []binder.CardEntry `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "c1", resp.Cards[0].ID)
}

func TestPutCardIDFromPath(t *testing.T) {
	binders := &fakeBinders{}
	h := newTestServer(&fakeUsers{}, binders).Handler()

	token, err := auth.GenerateToken("u1", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	entry := binder.CardEntry{ID: "spoofed", Position: binder.Position{Page: 2, Slot: 5}}
	rec := doRequest(t, h, http.MethodPut, "/api/binders/b1/cards/c9", token, entry)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, binders.saved, 1)
	assert.Equal(t, "c9", binders.saved[0].ID)
	assert.Equal(t, "b1", binders.savedTo)
}

func TestGetPreferencesAbsent(t *testing.T) {
	binders := &fakeBinders{prefsErr: common.ErrorNotFound}
	h := newTestServer(&fakeUsers{}, binders).Handler()

	token, err := auth.GenerateToken("u1", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/api/binders/b1/preferences", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Preferences json.RawMessage `json:"preferences"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, len(resp.Preferences) == 0 || string(resp.Preferences) == "null")
}

func TestPutPreferences(t *testing.T) {
	binders := &fakeBinders{}
	h := newTestServer(&fakeUsers{}, binders).Handler()

	token, err := auth.GenerateToken("u1", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	prefs := binder.DefaultPreferences()
	prefs.GridSize = "4x4"
	rec := doRequest(t, h, http.MethodPut, "/api/binders/b1/preferences", token, prefs)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, string(binders.savedPrefs), `"4x4"`)
}
