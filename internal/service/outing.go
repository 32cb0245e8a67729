package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository"
)

var (
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrMaxParticipantsLimit = errors.New("max participants exceeds the limit for this role")
	ErrNotBusiness          = errors.New("only business users can manage events")
)

type OutingRepository interface {
	Create(ctx context.Context, outing domain.Outing) (domain.Outing, error)
	FindByID(ctx context.Context, id uint) (domain.Outing, error)
	FindAll(ctx context.Context) ([]domain.Outing, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Outing, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	FindEventByID(ctx context.Context, id uint) (domain.Event, error)
	FindAllEvents(ctx context.Context) ([]domain.Event, error)
}

type OutingService struct {
	repo     OutingRepository
	userRepo ParticipationUserRepository
}

func NewOutingService(repo OutingRepository, userRepo ParticipationUserRepository) *OutingService {
	return &OutingService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreateOuting creates an outing for the organizer. Standard users may
// declare at most domain.MaxParticipantsStandardCap seats; premium users are
// uncapped. An event-linked outing must reference an existing event.
func (s *OutingService) CreateOuting(ctx context.Context, outing domain.Outing) (domain.Outing, error) {
	organizer, err := s.userRepo.FindByID(ctx, outing.OrganizerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Outing{}, ErrUserNotFound
		}

		return domain.Outing{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	if !organizer.IsPremium() && outing.MaxParticipants > domain.MaxParticipantsStandardCap {
		return domain.Outing{}, ErrMaxParticipantsLimit
	}

	if outing.EventID != nil {
		if _, err := s.repo.FindEventByID(ctx, *outing.EventID); err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return domain.Outing{}, ErrEventNotFound
			}

			return domain.Outing{}, fmt.Errorf("s.repo.FindEventByID -> %w", err)
		}
	}

	created, err := s.repo.Create(ctx, outing)
	if err != nil {
		return domain.Outing{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *OutingService) GetOuting(ctx context.Context, id uint) (domain.Outing, error) {
	outing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOutingNotFound) {
			return domain.Outing{}, ErrOutingNotFound
		}

		return domain.Outing{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return outing, nil
}

func (s *OutingService) ListOutings(ctx context.Context) ([]domain.Outing, error) {
	outings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return outings, nil
}

func (s *OutingService) ListByOrganizer(ctx context.Context, organizerID uint) ([]domain.Outing, error) {
	outings, err := s.repo.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizerID -> %w", err)
	}

	return outings, nil
}

// CreateEvent creates a business event that outings can link to.
func (s *OutingService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	business, err := s.userRepo.FindByID(ctx, event.BusinessID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Event{}, ErrUserNotFound
		}

		return domain.Event{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	if business.Role != domain.RoleBusiness {
		return domain.Event{}, ErrNotBusiness
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.CreateEvent -> %w", err)
	}

	return created, nil
}

func (s *OutingService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindEventByID -> %w", err)
	}

	return event, nil
}

func (s *OutingService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllEvents -> %w", err)
	}

	return events, nil
}
