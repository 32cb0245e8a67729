package repository

import (
	"context"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository/dao"
)

var (
	ErrOutingNotFound = dao.ErrOutingNotFound
	ErrEventNotFound  = dao.ErrEventNotFound
)

type OutingDAO interface {
	Insert(ctx context.Context, outing dao.Outing) (dao.Outing, error)
	FindByID(ctx context.Context, id uint) (dao.Outing, error)
	FindAll(ctx context.Context) ([]dao.Outing, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]dao.Outing, error)
	InsertEvent(ctx context.Context, event dao.Event) (dao.Event, error)
	FindEventByID(ctx context.Context, id uint) (dao.Event, error)
	FindAllEvents(ctx context.Context) ([]dao.Event, error)
}

type OutingRepository struct {
	dao OutingDAO
}

func NewOutingRepository(dao OutingDAO) *OutingRepository {
	return &OutingRepository{
		dao: dao,
	}
}

func (r *OutingRepository) domainToDao(o domain.Outing) dao.Outing {
	return dao.Outing{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		Location:        o.Location,
		OutingDate:      o.OutingDate,
		MaxParticipants: o.MaxParticipants,
		OrganizerID:     o.OrganizerID,
		EventID:         o.EventID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *OutingRepository) daoToDomain(o dao.Outing) domain.Outing {
	return domain.Outing{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		Location:        o.Location,
		OutingDate:      o.OutingDate,
		MaxParticipants: o.MaxParticipants,
		OrganizerID:     o.OrganizerID,
		EventID:         o.EventID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *OutingRepository) daosToDomain(outings []dao.Outing) []domain.Outing {
	result := make([]domain.Outing, len(outings))
	for i, o := range outings {
		result[i] = r.daoToDomain(o)
	}

	return result
}

func (r *OutingRepository) eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		BusinessID:  e.BusinessID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *OutingRepository) Create(ctx context.Context, outing domain.Outing) (domain.Outing, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(outing))
	if err != nil {
		return domain.Outing{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *OutingRepository) FindByID(ctx context.Context, id uint) (domain.Outing, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Outing{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *OutingRepository) FindAll(ctx context.Context) ([]domain.Outing, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(found), nil
}

func (r *OutingRepository) FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Outing, error) {
	found, err := r.dao.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(found), nil
}

func (r *OutingRepository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.InsertEvent(ctx, dao.Event{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		BusinessID:  event.BusinessID,
	})
	if err != nil {
		return domain.Event{}, err
	}

	return r.eventDaoToDomain(created), nil
}

func (r *OutingRepository) FindEventByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindEventByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return r.eventDaoToDomain(found), nil
}

func (r *OutingRepository) FindAllEvents(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAllEvents(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.eventDaoToDomain(e)
	}

	return events, nil
}
