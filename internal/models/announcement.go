package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AnnouncementStatus is the lifecycle state of an announcement. The numeric
// values are shared with the console front-end.
type AnnouncementStatus int

const (
	AnnouncementStatusDisabled    AnnouncementStatus = 0
	AnnouncementStatusPublished   AnnouncementStatus = 1
	AnnouncementStatusUnpublished AnnouncementStatus = 2
)

// Valid reports whether s is a known status.
func (s AnnouncementStatus) Valid() bool {
	switch s {
	case AnnouncementStatusDisabled, AnnouncementStatusPublished, AnnouncementStatusUnpublished:
		return true
	default:
		return false
	}
}

func (s AnnouncementStatus) String() string {
	switch s {
	case AnnouncementStatusDisabled:
		return "DISABLED"
	case AnnouncementStatusPublished:
		return "PUBLISHED"
	case AnnouncementStatusUnpublished:
		return "UNPUBLISHED"
	default:
		return fmt.Sprintf("AnnouncementStatus(%d)", int(s))
	}
}

// RecipientFilterType classifies the intended audience.
type RecipientFilterType int

const (
	RecipientFilterAll          RecipientFilterType = 1
	RecipientFilterRole         RecipientFilterType = 2
	RecipientFilterOrganization RecipientFilterType = 3
	RecipientFilterUserType     RecipientFilterType = 4
	RecipientFilterUser         RecipientFilterType = 5
)

// Valid reports whether t is a known filter type.
func (t RecipientFilterType) Valid() bool {
	return t >= RecipientFilterAll && t <= RecipientFilterUser
}

// ReceiveMode channels.
const (
	ReceiveModeSiteMessage = 1
	ReceiveModeSMS         = 2
	ReceiveModeEmail       = 3
)

// IntList is a JSONB-backed list of integers.
type IntList []int

// Value implements driver.Valuer.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(l))
}

// Scan implements sql.Scanner.
func (l *IntList) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil || raw == nil {
		*l = nil
		return err
	}
	return json.Unmarshal(raw, (*[]int)(l))
}

// RawList is a JSONB-backed list whose elements are opaque to this service.
type RawList []json.RawMessage

// Value implements driver.Valuer.
func (l RawList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]json.RawMessage(l))
}

// Scan implements sql.Scanner.
func (l *RawList) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil || raw == nil {
		*l = nil
		return err
	}
	return json.Unmarshal(raw, (*[]json.RawMessage)(l))
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", src)
	}
}

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID                   int64               `db:"id" json:"id"`
	Title                string              `db:"title" json:"title"`
	Content              string              `db:"content" json:"content"`
	RecipientFilterType  RecipientFilterType `db:"recipient_filter_type" json:"recipient_filter_type"`
	RecipientFilterValue RawList             `db:"recipient_filter_value" json:"recipient_filter_value"`
	ReceiveMode          IntList             `db:"receive_mode" json:"receive_mode"`
	Status               AnnouncementStatus  `db:"status" json:"status"`
	Immortal             bool                `db:"immortal" json:"immortal"`
	Deadline             *time.Time          `db:"deadline" json:"deadline,omitempty"`
	CreateBy             *string             `db:"create_by" json:"create_by,omitempty"`
	UpdateBy             *string             `db:"update_by" json:"update_by,omitempty"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter narrows announcement listings. Zero values disable a clause.
type AnnouncementFilter struct {
	Title               string
	Statuses            []AnnouncementStatus
	RecipientFilterType *RecipientFilterType
	Page                int
	PageSize            int
}

// AnnouncementPublishedEvent is emitted after an announcement becomes published.
type AnnouncementPublishedEvent struct {
	EventID      string       `json:"event_id"`
	Announcement Announcement `json:"announcement"`
	PublishedAt  time.Time    `json:"published_at"`
}
