package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/notify-admin-api/internal/models"
)

const (
	defaultAnnouncementPageSize = 10
	maxAnnouncementPageSize     = 100
	maxAnnouncementPage         = 1000000

	announcementColumns = `a.id, a.title, a.content, a.recipient_filter_type, a.recipient_filter_value, a.receive_mode,
a.status, a.immortal, a.deadline, a.create_by, a.update_by, a.created_at, a.updated_at`
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// NormalizePage clamps page and size to the supported window.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxAnnouncementPage {
		page = maxAnnouncementPage
	}
	if size <= 0 {
		size = defaultAnnouncementPageSize
	}
	if size > maxAnnouncementPageSize {
		size = maxAnnouncementPageSize
	}
	return page, size
}

// announcementPredicate composes the optional list clauses. Each clause is
// only added when its filter field is present.
func announcementPredicate(filter models.AnnouncementFilter) (string, []interface{}) {
	where := []string{}
	args := []interface{}{}
	if strings.TrimSpace(filter.Title) != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		where = append(where, fmt.Sprintf("a.title ILIKE $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]int64, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = int64(s)
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("a.status = ANY($%d)", len(args)))
	}
	if filter.RecipientFilterType != nil {
		args = append(args, int(*filter.RecipientFilterType))
		where = append(where, fmt.Sprintf("a.recipient_filter_type = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// SelectPage returns one page of announcements matching filter plus the total count.
func (r *AnnouncementRepository) SelectPage(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	page, size := NormalizePage(filter.Page, filter.PageSize)
	whereClause, args := announcementPredicate(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM announcements a" + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
FROM announcements a%s
ORDER BY a.id DESC
LIMIT %d OFFSET %d`, announcementColumns, whereClause, size, (page-1)*size)
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, total, nil
}

// GetByID returns an announcement by identifier. It returns sql.ErrNoRows when absent.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s\nFROM announcements a WHERE a.id = $1", announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Insert stores a new announcement and assigns its identifier.
func (r *AnnouncementRepository) Insert(ctx context.Context, announcement *models.Announcement) (bool, error) {
	now := time.Now().UTC()
	announcement.CreatedAt = now
	announcement.UpdatedAt = now
	const named = `INSERT INTO announcements (title, content, recipient_filter_type, recipient_filter_value, receive_mode,
status, immortal, deadline, create_by, update_by, created_at, updated_at)
VALUES (:title, :content, :recipient_filter_type, :recipient_filter_value, :receive_mode,
:status, :immortal, :deadline, :create_by, :update_by, :created_at, :updated_at)
RETURNING id`
	query, args, err := r.db.BindNamed(named, announcement)
	if err != nil {
		return false, fmt.Errorf("bind announcement insert: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&announcement.ID); err != nil {
		return false, fmt.Errorf("insert announcement: %w", err)
	}
	return announcement.ID > 0, nil
}

// UpdateIfStatus writes the announcement's editable fields only while the row
// still holds the expected status. The status column is written only when
// withStatus is set. It returns the number of affected rows.
func (r *AnnouncementRepository) UpdateIfStatus(ctx context.Context, announcement *models.Announcement, withStatus bool, expected models.AnnouncementStatus) (int64, error) {
	announcement.UpdatedAt = time.Now().UTC()
	set := []string{
		"title = :title",
		"content = :content",
		"recipient_filter_type = :recipient_filter_type",
		"recipient_filter_value = :recipient_filter_value",
		"receive_mode = :receive_mode",
		"immortal = :immortal",
		"deadline = :deadline",
		"update_by = :update_by",
		"updated_at = :updated_at",
	}
	if withStatus {
		set = append(set, "status = :status")
	}
	named := fmt.Sprintf("UPDATE announcements SET %s WHERE id = :id AND status = %d", strings.Join(set, ", "), int(expected))
	res, err := r.db.NamedExecContext(ctx, named, announcement)
	if err != nil {
		return 0, fmt.Errorf("update announcement: %w", err)
	}
	return res.RowsAffected()
}

// TransitionStatus moves a row from one status to another atomically.
func (r *AnnouncementRepository) TransitionStatus(ctx context.Context, id int64, from, to models.AnnouncementStatus, updateBy *string) (int64, error) {
	const query = `UPDATE announcements SET status = $1, update_by = $2, updated_at = $3 WHERE id = $4 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, int(to), updateBy, time.Now().UTC(), id, int(from))
	if err != nil {
		return 0, fmt.Errorf("transition announcement status: %w", err)
	}
	return res.RowsAffected()
}

// UpdateStatus sets the status of a row regardless of its current state.
func (r *AnnouncementRepository) UpdateStatus(ctx context.Context, id int64, status models.AnnouncementStatus, updateBy *string) (int64, error) {
	const query = `UPDATE announcements SET status = $1, update_by = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, int(status), updateBy, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("update announcement status: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete announcement: %w", err)
	}
	return res.RowsAffected()
}
