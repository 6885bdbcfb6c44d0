package group

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Join(t *testing.T) {
	service, _, _ := newTestService(t, newFakeRemoteStore())
	handler := NewHandler(service)

	req := httptest.NewRequest("POST", "/group/join",
		strings.NewReader(`{"groupCode": " Team-Alpha ", "displayName": "Mika"}`))
	rr := httptest.NewRecorder()
	handler.HandleJoin(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var profile Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "team-alpha", profile.GroupCode)
	assert.Equal(t, "mika", profile.DisplayName)
}

func TestHandler_Join_BadRequest(t *testing.T) {
	service, _, _ := newTestService(t, newFakeRemoteStore())
	handler := NewHandler(service)

	for name, body := range map[string]string{
		"short code":   `{"groupCode": "ab", "displayName": "mika"}`,
		"empty name":   `{"groupCode": "team-alpha", "displayName": " "}`,
		"invalid json": `nope`,
	} {
		req := httptest.NewRequest("POST", "/group/join", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleJoin(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
	}
}

func TestHandler_Join_RemoteDown(t *testing.T) {
	store := newFakeRemoteStore()
	store.unavailable = true
	service, _, _ := newTestService(t, store)
	handler := NewHandler(service)

	req := httptest.NewRequest("POST", "/group/join",
		strings.NewReader(`{"groupCode": "team-alpha", "displayName": "mika"}`))
	rr := httptest.NewRecorder()
	handler.HandleJoin(rr, req)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "try again")
}

func TestHandler_CurrentAndLeave(t *testing.T) {
	service, _, _ := newTestService(t, newFakeRemoteStore())
	handler := NewHandler(service)

	rr := httptest.NewRecorder()
	handler.HandleCurrent(rr, httptest.NewRequest("GET", "/group", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req := httptest.NewRequest("POST", "/group/join",
		strings.NewReader(`{"groupCode": "team-alpha", "displayName": "mika"}`))
	rr = httptest.NewRecorder()
	handler.HandleJoin(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.HandleCurrent(rr, httptest.NewRequest("GET", "/group", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.HandleLeave(rr, httptest.NewRequest("POST", "/group/leave", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "left", rr.Body.String())

	rr = httptest.NewRecorder()
	handler.HandleLeave(rr, httptest.NewRequest("POST", "/group/leave", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
