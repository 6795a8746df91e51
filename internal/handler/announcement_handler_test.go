package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/notify-admin-api/internal/dto"
	"github.com/noah-isme/notify-admin-api/internal/middleware"
	"github.com/noah-isme/notify-admin-api/internal/models"
	appErrors "github.com/noah-isme/notify-admin-api/pkg/errors"
	"github.com/noah-isme/notify-admin-api/pkg/response"
)

type announcementServiceMock struct {
	pageResp   []dto.AnnouncementItem
	pagination *models.Pagination
	result     bool
	err        error

	lastQuery dto.AnnouncementQuery
	lastReq   dto.AnnouncementRequest
	lastID    int64
	lastActor *models.JWTClaims
	called    string
}

func (m *announcementServiceMock) SelectPageVo(ctx context.Context, query dto.AnnouncementQuery) ([]dto.AnnouncementItem, *models.Pagination, error) {
	m.called = "page"
	m.lastQuery = query
	return m.pageResp, m.pagination, m.err
}

func (m *announcementServiceMock) AddAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error) {
	m.called = "add"
	m.lastReq, m.lastActor = req, actor
	return m.result, m.err
}

func (m *announcementServiceMock) UpdateAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error) {
	m.called = "update"
	m.lastReq, m.lastActor = req, actor
	return m.result, m.err
}

func (m *announcementServiceMock) RemoveByID(ctx context.Context, id int64) (bool, error) {
	m.called = "remove"
	m.lastID = id
	return m.result, m.err
}

func (m *announcementServiceMock) Publish(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error) {
	m.called = "publish"
	m.lastID, m.lastActor = id, actor
	return m.result, m.err
}

func (m *announcementServiceMock) Close(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error) {
	m.called = "close"
	m.lastID, m.lastActor = id, actor
	return m.result, m.err
}

var testActor = &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}

func newTestContext(method, target, body string, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = params
	c.Set(middleware.ContextUserKey, testActor)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestAnnouncementHandlerPage(t *testing.T) {
	svc := &announcementServiceMock{
		pageResp:   []dto.AnnouncementItem{{ID: 3, Title: "Maintenance"}},
		pagination: &models.Pagination{Page: 2, PageSize: 5, TotalCount: 6},
	}
	c, w := newTestContext(http.MethodGet, "/notify/announcement/page?page=2&page_size=5&title=main&status=1&status=2&recipient_filter_type=3", "")

	NewAnnouncementHandler(svc).Page(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.lastQuery.Page)
	assert.Equal(t, 5, svc.lastQuery.PageSize)
	assert.Equal(t, "main", svc.lastQuery.Title)
	assert.Equal(t, []int{1, 2}, svc.lastQuery.Status)
	require.NotNil(t, svc.lastQuery.RecipientFilterType)
	assert.Equal(t, 3, *svc.lastQuery.RecipientFilterType)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, 6, envelope.Pagination.TotalCount)
}

func TestAnnouncementHandlerPageRejectsBadQuery(t *testing.T) {
	svc := &announcementServiceMock{}
	c, w := newTestContext(http.MethodGet, "/notify/announcement/page?page=abc", "")

	NewAnnouncementHandler(svc).Page(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.called)
}

func TestAnnouncementHandlerSaveClearsClientID(t *testing.T) {
	svc := &announcementServiceMock{result: true}
	c, w := newTestContext(http.MethodPost, "/notify/announcement", `{"id":42,"title":"Hello","content":"World","recipient_filter_type":1,"receive_mode":[1],"immortal":true}`)

	NewAnnouncementHandler(svc).Save(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "add", svc.called)
	assert.Zero(t, svc.lastReq.ID)
	assert.Equal(t, "Hello", svc.lastReq.Title)
	assert.Same(t, testActor, svc.lastActor)
	assert.Nil(t, decodeEnvelope(t, w).Error)
}

func TestAnnouncementHandlerSaveFailureMapsToDatabaseError(t *testing.T) {
	svc := &announcementServiceMock{result: false}
	c, w := newTestContext(http.MethodPost, "/notify/announcement", `{"title":"Hello"}`)

	NewAnnouncementHandler(svc).Save(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrUpdateDatabase.Code, envelope.Error.Code)
}

func TestAnnouncementHandlerSaveInvalidBody(t *testing.T) {
	svc := &announcementServiceMock{}
	c, w := newTestContext(http.MethodPost, "/notify/announcement", `{"title":`)

	NewAnnouncementHandler(svc).Save(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.called)
}

func TestAnnouncementHandlerUpdateBusinessErrorIsDistinct(t *testing.T) {
	svc := &announcementServiceMock{err: appErrors.Clone(appErrors.ErrAnnouncementPublished, "")}
	c, w := newTestContext(http.MethodPut, "/notify/announcement", `{"id":7,"title":"x"}`)

	NewAnnouncementHandler(svc).Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrAnnouncementPublished.Code, envelope.Error.Code)
	assert.Equal(t, appErrors.ErrAnnouncementPublished.Message, envelope.Error.Message)
	assert.Equal(t, int64(7), svc.lastReq.ID)
}

func TestAnnouncementHandlerUpdateRaceLost(t *testing.T) {
	svc := &announcementServiceMock{result: false}
	c, w := newTestContext(http.MethodPut, "/notify/announcement", `{"id":7}`)

	NewAnnouncementHandler(svc).Update(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, appErrors.ErrUpdateDatabase.Code, decodeEnvelope(t, w).Error.Code)
}

func TestAnnouncementHandlerIDRoutes(t *testing.T) {
	h := NewAnnouncementHandler(nil)
	routes := map[string]struct {
		method string
		call   func(*AnnouncementHandler, *gin.Context)
	}{
		"remove":  {http.MethodDelete, (*AnnouncementHandler).Remove},
		"publish": {http.MethodPatch, (*AnnouncementHandler).Publish},
		"close":   {http.MethodPatch, (*AnnouncementHandler).Close},
	}
	for name, route := range routes {
		t.Run(name, func(t *testing.T) {
			svc := &announcementServiceMock{result: true}
			h.service = svc
			c, w := newTestContext(route.method, "/", "", gin.Param{Key: "id", Value: "15"})
			route.call(h, c)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, name, svc.called)
			assert.Equal(t, int64(15), svc.lastID)

			svc = &announcementServiceMock{result: false}
			h.service = svc
			c, w = newTestContext(route.method, "/", "", gin.Param{Key: "id", Value: "15"})
			route.call(h, c)
			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, appErrors.ErrUpdateDatabase.Code, decodeEnvelope(t, w).Error.Code)

			svc = &announcementServiceMock{result: true}
			h.service = svc
			for _, bad := range []string{"abc", "0", "-4"} {
				c, w = newTestContext(route.method, "/", "", gin.Param{Key: "id", Value: bad})
				route.call(h, c)
				assert.Equal(t, http.StatusBadRequest, w.Code, bad)
			}
			assert.Empty(t, svc.called)
		})
	}
}

func TestAnnouncementHandlerPublishRejectedWhenAlreadyPublished(t *testing.T) {
	svc := &announcementServiceMock{err: appErrors.Clone(appErrors.ErrAnnouncementPublished, "")}
	c, w := newTestContext(http.MethodPatch, "/", "", gin.Param{Key: "id", Value: "3"})

	NewAnnouncementHandler(svc).Publish(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrAnnouncementPublished.Code, decodeEnvelope(t, w).Error.Code)
}
