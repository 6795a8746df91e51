package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notify-admin-api/internal/dto"
	"github.com/noah-isme/notify-admin-api/internal/models"
	appErrors "github.com/noah-isme/notify-admin-api/pkg/errors"
	"github.com/noah-isme/notify-admin-api/pkg/response"
)

type announcementService interface {
	SelectPageVo(ctx context.Context, query dto.AnnouncementQuery) ([]dto.AnnouncementItem, *models.Pagination, error)
	AddAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error)
	UpdateAnnouncement(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (bool, error)
	RemoveByID(ctx context.Context, id int64) (bool, error)
	Publish(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error)
	Close(ctx context.Context, id int64, actor *models.JWTClaims) (bool, error)
}

// AnnouncementHandler exposes announcement management endpoints.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// Page godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Param title query string false "Title contains"
// @Param status query []int false "Statuses (0 disabled, 1 published, 2 unpublished)" collectionFormat(multi)
// @Param recipient_filter_type query int false "Recipient filter type"
// @Success 200 {object} response.Envelope
// @Router /notify/announcement/page [get]
func (h *AnnouncementHandler) Page(c *gin.Context) {
	var query dto.AnnouncementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.SelectPageVo(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Save godoc
// @Summary Create an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.AnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /notify/announcement [post]
func (h *AnnouncementHandler) Save(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload"))
		return
	}
	req.ID = 0
	ok, err := h.service.AddAnnouncement(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, ok, appErrors.Clone(appErrors.ErrUpdateDatabase, "failed to create announcement"))
}

// Update godoc
// @Summary Update an unpublished announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.AnnouncementRequest true "Announcement payload including id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notify/announcement [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload"))
		return
	}
	ok, err := h.service.UpdateAnnouncement(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, ok, appErrors.Clone(appErrors.ErrUpdateDatabase, "failed to update announcement"))
}

// Remove godoc
// @Summary Delete an announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /notify/announcement/{id} [delete]
func (h *AnnouncementHandler) Remove(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	removed, err := h.service.RemoveByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, removed, appErrors.Clone(appErrors.ErrUpdateDatabase, "failed to delete announcement"))
}

// Publish godoc
// @Summary Publish an unpublished announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notify/announcement/publish/{id} [patch]
func (h *AnnouncementHandler) Publish(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	published, err := h.service.Publish(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, published, appErrors.Clone(appErrors.ErrUpdateDatabase, "failed to publish announcement"))
}

// Close godoc
// @Summary Close (disable) an announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /notify/announcement/close/{id} [patch]
func (h *AnnouncementHandler) Close(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	closed, err := h.service.Close(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Result(c, closed, appErrors.Clone(appErrors.ErrUpdateDatabase, "failed to close announcement"))
}

func announcementID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid announcement id"))
		return 0, false
	}
	return id, true
}
