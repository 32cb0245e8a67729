package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository"
)

var (
	ErrOutingNotFound          = repository.ErrOutingNotFound
	ErrUserNotFound            = repository.ErrUserNotFound
	ErrParticipationNotFound   = repository.ErrParticipationNotFound
	ErrAlreadyRequested        = repository.ErrParticipationExists
	ErrParticipationNotPending = repository.ErrParticipationNotPending
	ErrOutingFull              = repository.ErrOutingFull
	ErrOrganizerCannotJoin     = errors.New("organizer cannot join their own outing")
	ErrNotOrganizer            = errors.New("only the outing organizer can decide this participation")
	ErrNotParticipationOwner   = errors.New("only the requester can withdraw this participation")
)

type ParticipationRepository interface {
	Create(ctx context.Context, userID, outingID uint) (domain.Participation, error)
	FindByID(ctx context.Context, id uint) (domain.Participation, error)
	FindByOutingID(ctx context.Context, outingID uint) ([]domain.Participation, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Participation, error)
	ExistsForUserAndOuting(ctx context.Context, userID, outingID uint) (bool, error)
	CountApproved(ctx context.Context, outingID uint) (int64, error)
	Approve(ctx context.Context, id uint) (domain.Participation, error)
	Reject(ctx context.Context, id uint) (domain.Participation, error)
	Delete(ctx context.Context, id uint) error
}

type ParticipationOutingRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Outing, error)
}

type ParticipationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// Notifier is the one-way fan-out used after admission decisions. Delivery is
// best-effort: the admission result stands even when Send fails.
type Notifier interface {
	Send(ctx context.Context, userID uint, category domain.NotificationCategory, title, body string, refID uint, refType string) error
}

// RewardTrigger re-evaluates reward eligibility for an outing's organizer.
// Invoked after an approval has committed, never inside the admission
// transaction.
type RewardTrigger interface {
	CheckAndIssue(ctx context.Context, outingID, userID uint) error
}

// ParticipationService runs the admission workflow for outing participations:
// request → pending → approved/rejected, with withdrawal allowed at any point
// by the requester. Capacity enforcement on approval is delegated to the
// repository's atomic check-then-write, so the approved-participant count of
// an outing can never exceed its MaxParticipants, regardless of interleaving.
type ParticipationService struct {
	repo       ParticipationRepository
	outingRepo ParticipationOutingRepository
	userRepo   ParticipationUserRepository
	notifier   Notifier
	rewards    RewardTrigger
}

func NewParticipationService(
	repo ParticipationRepository,
	outingRepo ParticipationOutingRepository,
	userRepo ParticipationUserRepository,
	notifier Notifier,
	rewards RewardTrigger,
) *ParticipationService {
	return &ParticipationService{
		repo:       repo,
		outingRepo: outingRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		rewards:    rewards,
	}
}

// RequestJoin creates a PENDING participation for the user on the outing.
//
// The capacity check here is advisory: it keeps obviously-doomed requests out,
// but the authoritative check happens again at approval time, since many
// pending requests can outnumber the remaining seats.
func (s *ParticipationService) RequestJoin(ctx context.Context, outingID, userID uint) (domain.Participation, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Participation{}, ErrUserNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	outing, err := s.outingRepo.FindByID(ctx, outingID)
	if err != nil {
		if errors.Is(err, repository.ErrOutingNotFound) {
			return domain.Participation{}, ErrOutingNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.outingRepo.FindByID -> %w", err)
	}

	if outing.OrganizerID == userID {
		return domain.Participation{}, ErrOrganizerCannotJoin
	}

	exists, err := s.repo.ExistsForUserAndOuting(ctx, userID, outingID)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.ExistsForUserAndOuting -> %w", err)
	}
	if exists {
		return domain.Participation{}, ErrAlreadyRequested
	}

	approvedCount, err := s.repo.CountApproved(ctx, outingID)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.CountApproved -> %w", err)
	}
	if approvedCount >= int64(outing.MaxParticipants) {
		return domain.Participation{}, ErrOutingFull
	}

	created, err := s.repo.Create(ctx, userID, outingID)
	if err != nil {
		// The unique (user, outing) index closes the gap between the
		// existence check and the insert.
		if errors.Is(err, repository.ErrParticipationExists) {
			return domain.Participation{}, ErrAlreadyRequested
		}

		return domain.Participation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notify(ctx, outing.OrganizerID, domain.NotificationParticipationRequest,
		"New participation request",
		fmt.Sprintf("%s wants to join %s", user.Name, outing.Title),
		created.ID, "PARTICIPATION")

	return created, nil
}

// Approve moves a PENDING participation to APPROVED on behalf of the outing's
// organizer. The seat-count re-check and the status write are one atomic unit
// in the repository; when the outing is full the record stays PENDING and
// ErrOutingFull is returned, so the organizer can retry after a withdrawal or
// reject explicitly.
func (s *ParticipationService) Approve(ctx context.Context, participationID, actingUserID uint) (domain.Participation, error) {
	participation, outing, err := s.findForDecision(ctx, participationID, actingUserID)
	if err != nil {
		return domain.Participation{}, err
	}

	if !participation.IsPending() {
		return domain.Participation{}, ErrParticipationNotPending
	}

	approved, err := s.repo.Approve(ctx, participationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOutingFull):
			return domain.Participation{}, ErrOutingFull
		case errors.Is(err, repository.ErrParticipationNotPending):
			return domain.Participation{}, ErrParticipationNotPending
		case errors.Is(err, repository.ErrParticipationNotFound):
			return domain.Participation{}, ErrParticipationNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	// Post-commit side effects. Neither may undo the approval.
	if err := s.rewards.CheckAndIssue(ctx, outing.ID, outing.OrganizerID); err != nil {
		zap.L().Warn("reward check failed after approval",
			zap.Uint("outing_id", outing.ID),
			zap.Uint("organizer_id", outing.OrganizerID),
			zap.Error(err))
	}

	s.notify(ctx, approved.UserID, domain.NotificationParticipationApproved,
		"Participation approved",
		fmt.Sprintf("Your request for %s has been approved", outing.Title),
		outing.ID, "OUTING")

	return approved, nil
}

// Reject moves a PENDING participation to REJECTED. No capacity is involved.
func (s *ParticipationService) Reject(ctx context.Context, participationID, actingUserID uint) (domain.Participation, error) {
	participation, outing, err := s.findForDecision(ctx, participationID, actingUserID)
	if err != nil {
		return domain.Participation{}, err
	}

	if !participation.IsPending() {
		return domain.Participation{}, ErrParticipationNotPending
	}

	rejected, err := s.repo.Reject(ctx, participationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrParticipationNotPending):
			return domain.Participation{}, ErrParticipationNotPending
		case errors.Is(err, repository.ErrParticipationNotFound):
			return domain.Participation{}, ErrParticipationNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	s.notify(ctx, rejected.UserID, domain.NotificationParticipationRejected,
		"Participation rejected",
		fmt.Sprintf("Your request for %s was rejected", outing.Title),
		outing.ID, "OUTING")

	return rejected, nil
}

// Withdraw deletes the requester's own participation, whatever its status.
// Deleting an APPROVED record frees a seat implicitly: the approved count is
// derived from the stored rows.
func (s *ParticipationService) Withdraw(ctx context.Context, participationID, actingUserID uint) error {
	participation, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if participation.UserID != actingUserID {
		return ErrNotParticipationOwner
	}

	if err := s.repo.Delete(ctx, participationID); err != nil {
		// A concurrent withdraw may have removed the record first.
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ParticipationService) ListByOuting(ctx context.Context, outingID uint) ([]domain.Participation, error) {
	if _, err := s.outingRepo.FindByID(ctx, outingID); err != nil {
		if errors.Is(err, repository.ErrOutingNotFound) {
			return nil, ErrOutingNotFound
		}

		return nil, fmt.Errorf("s.outingRepo.FindByID -> %w", err)
	}

	participations, err := s.repo.FindByOutingID(ctx, outingID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOutingID -> %w", err)
	}

	return participations, nil
}

func (s *ParticipationService) ListByUser(ctx context.Context, userID uint) ([]domain.Participation, error) {
	participations, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return participations, nil
}

// findForDecision resolves a participation and its outing and checks that the
// acting user is the outing's organizer.
func (s *ParticipationService) findForDecision(ctx context.Context, participationID, actingUserID uint) (domain.Participation, domain.Outing, error) {
	participation, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return domain.Participation{}, domain.Outing{}, ErrParticipationNotFound
		}

		return domain.Participation{}, domain.Outing{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	outing, err := s.outingRepo.FindByID(ctx, participation.OutingID)
	if err != nil {
		if errors.Is(err, repository.ErrOutingNotFound) {
			return domain.Participation{}, domain.Outing{}, ErrOutingNotFound
		}

		return domain.Participation{}, domain.Outing{}, fmt.Errorf("s.outingRepo.FindByID -> %w", err)
	}

	if outing.OrganizerID != actingUserID {
		return domain.Participation{}, domain.Outing{}, ErrNotOrganizer
	}

	return participation, outing, nil
}

func (s *ParticipationService) notify(ctx context.Context, userID uint, category domain.NotificationCategory, title, body string, refID uint, refType string) {
	if err := s.notifier.Send(ctx, userID, category, title, body, refID, refType); err != nil {
		zap.L().Warn("notification delivery failed",
			zap.Uint("user_id", userID),
			zap.String("category", string(category)),
			zap.Error(err))
	}
}
