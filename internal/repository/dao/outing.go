package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOutingNotFound = errors.New("outing not found")
	ErrEventNotFound  = errors.New("event not found")
)

type Outing struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"not null"`
	Location    string `gorm:"not null;size:500"`

	OutingDate      time.Time `gorm:"not null;index"`
	MaxParticipants int       `gorm:"not null"`

	OrganizerID uint  `gorm:"not null;index"`
	EventID     *uint `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null;size:200"`
	Description string
	Location    string `gorm:"not null;size:500"`

	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`

	BusinessID uint `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type OutingDAO struct {
	db *gorm.DB
}

func NewOutingDAO(db *gorm.DB) *OutingDAO {
	return &OutingDAO{
		db: db,
	}
}

func (d *OutingDAO) Insert(ctx context.Context, outing Outing) (Outing, error) {
	result := d.db.WithContext(ctx).Create(&outing)
	if result.Error != nil {
		return Outing{}, result.Error
	}

	return outing, nil
}

func (d *OutingDAO) FindByID(ctx context.Context, id uint) (Outing, error) {
	var outing Outing

	result := d.db.WithContext(ctx).First(&outing, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Outing{}, ErrOutingNotFound
		}

		return Outing{}, result.Error
	}

	return outing, nil
}

func (d *OutingDAO) FindAll(ctx context.Context) ([]Outing, error) {
	var outings []Outing

	result := d.db.WithContext(ctx).Order("outing_date").Find(&outings)
	if result.Error != nil {
		return nil, result.Error
	}

	return outings, nil
}

func (d *OutingDAO) FindByOrganizerID(ctx context.Context, organizerID uint) ([]Outing, error) {
	var outings []Outing

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("outing_date").
		Find(&outings)
	if result.Error != nil {
		return nil, result.Error
	}

	return outings, nil
}

func (d *OutingDAO) InsertEvent(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *OutingDAO) FindEventByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *OutingDAO) FindAllEvents(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("starts_at").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}
