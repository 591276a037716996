package meetups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateMeetup(ctx context.Context, meetup *models.Meetup) (*models.Meetup, error) {
	if err := r.db.WithContext(ctx).Create(meetup).Error; err != nil {
		return nil, err
	}
	return meetup, nil
}

func (r *repository) FindMeetup(ctx context.Context, meetupID uuid.UUID) (*models.Meetup, error) {
	var meetup models.Meetup
	err := r.db.WithContext(ctx).
		Where("id = ?", meetupID).
		First(&meetup).Error
	if err != nil {
		return nil, err
	}
	return &meetup, nil
}

// ListByCircle orders upcoming meetups first (soonest scheduled time), with
// undated meetups trailing, newest created first among equals.
func (r *repository) ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.Meetup, error) {
	var rows []models.Meetup
	err := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("scheduled_at ASC NULLS LAST, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountByCircle(ctx context.Context, circleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Meetup{}).
		Where("circle_id = ?", circleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateMention(ctx context.Context, mention *models.PieceMention) error {
	return r.db.WithContext(ctx).Create(mention).Error
}

func (r *repository) ListMentions(ctx context.Context, meetupID uuid.UUID) ([]models.PieceMention, error) {
	var rows []models.PieceMention
	err := r.db.WithContext(ctx).
		Where("meetup_id = ?", meetupID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetAttendance(ctx context.Context, meetupID, userID uuid.UUID) (*models.MeetupAttendance, error) {
	var row models.MeetupAttendance
	err := r.db.WithContext(ctx).
		Where("meetup_id = ? AND user_id = ?", meetupID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertAttendance keeps one row per (meetup, user); repeated answers overwrite
// in place, recording who flipped the flag last.
func (r *repository) UpsertAttendance(ctx context.Context, meetupID, userID uuid.UUID, isAttending bool, checkedBy uuid.UUID) (*models.MeetupAttendance, error) {
	var row models.MeetupAttendance
	err := r.db.WithContext(ctx).
		Raw(`INSERT INTO meetup_attendance (meetup_id, user_id, is_attending, checked_by, updated_at)
		     VALUES (?, ?, ?, ?, now())
		     ON CONFLICT (meetup_id, user_id) DO UPDATE
		       SET is_attending = EXCLUDED.is_attending, checked_by = EXCLUDED.checked_by, updated_at = EXCLUDED.updated_at
		     RETURNING id, meetup_id, user_id, is_attending, checked_by, updated_at`,
			meetupID, userID, isAttending, checkedBy).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListAttendance(ctx context.Context, meetupID uuid.UUID) ([]models.MeetupAttendance, error) {
	var rows []models.MeetupAttendance
	err := r.db.WithContext(ctx).
		Where("meetup_id = ?", meetupID).
		Order("updated_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
