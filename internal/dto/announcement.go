package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/notify-admin-api/internal/models"
)

// AnnouncementRequest is the create/update payload. ID is ignored on create.
type AnnouncementRequest struct {
	ID                   int64             `json:"id"`
	Title                string            `json:"title" validate:"required,max=255"`
	Content              string            `json:"content" validate:"required"`
	RecipientFilterType  int               `json:"recipient_filter_type" validate:"required,recipient_filter_type"`
	RecipientFilterValue []json.RawMessage `json:"recipient_filter_value"`
	ReceiveMode          []int             `json:"receive_mode" validate:"required,min=1,dive,oneof=1 2 3"`
	Status               *int              `json:"status" validate:"omitempty,announcement_status"`
	Immortal             bool              `json:"immortal"`
	Deadline             *time.Time        `json:"deadline"`
}

// TargetStatus returns the requested status, defaulting to unpublished.
func (r AnnouncementRequest) TargetStatus() models.AnnouncementStatus {
	if r.Status == nil {
		return models.AnnouncementStatusUnpublished
	}
	return models.AnnouncementStatus(*r.Status)
}

// ToModel converts the payload into its persistent form.
func (r AnnouncementRequest) ToModel() models.Announcement {
	announcement := models.Announcement{
		ID:                   r.ID,
		Title:                r.Title,
		Content:              r.Content,
		RecipientFilterType:  models.RecipientFilterType(r.RecipientFilterType),
		RecipientFilterValue: models.RawList(r.RecipientFilterValue),
		ReceiveMode:          models.IntList(r.ReceiveMode),
		Status:               r.TargetStatus(),
		Immortal:             r.Immortal,
		Deadline:             r.Deadline,
	}
	if announcement.Immortal {
		announcement.Deadline = nil
	}
	return announcement
}

// AnnouncementQuery carries list filters bound from the query string.
type AnnouncementQuery struct {
	Page                int    `form:"page"`
	PageSize            int    `form:"page_size"`
	Title               string `form:"title"`
	Status              []int  `form:"status"`
	RecipientFilterType *int   `form:"recipient_filter_type"`
}

// Filter converts the query into a repository filter.
func (q AnnouncementQuery) Filter() models.AnnouncementFilter {
	filter := models.AnnouncementFilter{
		Title:    q.Title,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	for _, s := range q.Status {
		filter.Statuses = append(filter.Statuses, models.AnnouncementStatus(s))
	}
	if q.RecipientFilterType != nil {
		t := models.RecipientFilterType(*q.RecipientFilterType)
		filter.RecipientFilterType = &t
	}
	return filter
}

// AnnouncementItem is the list view of an announcement.
type AnnouncementItem struct {
	ID                   int64             `json:"id"`
	Title                string            `json:"title"`
	Content              string            `json:"content"`
	RecipientFilterType  int               `json:"recipient_filter_type"`
	RecipientFilterValue []json.RawMessage `json:"recipient_filter_value"`
	ReceiveMode          []int             `json:"receive_mode"`
	Status               int               `json:"status"`
	StatusName           string            `json:"status_name"`
	Immortal             bool              `json:"immortal"`
	Deadline             *time.Time        `json:"deadline,omitempty"`
	CreateBy             *string           `json:"create_by,omitempty"`
	UpdateBy             *string           `json:"update_by,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// NewAnnouncementItem maps a persisted row to its view.
func NewAnnouncementItem(a models.Announcement) AnnouncementItem {
	return AnnouncementItem{
		ID:                   a.ID,
		Title:                a.Title,
		Content:              a.Content,
		RecipientFilterType:  int(a.RecipientFilterType),
		RecipientFilterValue: []json.RawMessage(a.RecipientFilterValue),
		ReceiveMode:          []int(a.ReceiveMode),
		Status:               int(a.Status),
		StatusName:           a.Status.String(),
		Immortal:             a.Immortal,
		Deadline:             a.Deadline,
		CreateBy:             a.CreateBy,
		UpdateBy:             a.UpdateBy,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}
