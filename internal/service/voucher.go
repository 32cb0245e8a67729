package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository"
)

var (
	ErrRewardNotFound       = repository.ErrRewardNotFound
	ErrVoucherNotFound      = repository.ErrVoucherNotFound
	ErrWrongBusiness        = errors.New("voucher belongs to a reward of a different business")
	ErrVoucherNotRedeemable = errors.New("voucher cannot be redeemed in its current state")
)

type VoucherRepository interface {
	CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	FindRewardsByEventID(ctx context.Context, eventID uint) ([]domain.Reward, error)
	FindRewardByID(ctx context.Context, id uint) (domain.Reward, error)
	Create(ctx context.Context, voucher domain.Voucher) (domain.Voucher, error)
	ExistsForRewardAndOuting(ctx context.Context, userID, rewardID, outingID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Voucher, error)
	FindActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]domain.Voucher, error)
	FindByCode(ctx context.Context, code string) (domain.Voucher, error)
	Update(ctx context.Context, voucher domain.Voucher) (domain.Voucher, error)
}

type VoucherParticipationRepository interface {
	CountApproved(ctx context.Context, outingID uint) (int64, error)
}

// VoucherService issues and redeems reward vouchers. Issuance is driven by
// the admission workflow: every committed approval re-evaluates eligibility
// for the outing's organizer.
type VoucherService struct {
	repo              VoucherRepository
	participationRepo VoucherParticipationRepository
	outingRepo        ParticipationOutingRepository
	userRepo          ParticipationUserRepository
	notifier          Notifier
}

func NewVoucherService(
	repo VoucherRepository,
	participationRepo VoucherParticipationRepository,
	outingRepo ParticipationOutingRepository,
	userRepo ParticipationUserRepository,
	notifier Notifier,
) *VoucherService {
	return &VoucherService{
		repo:              repo,
		participationRepo: participationRepo,
		outingRepo:        outingRepo,
		userRepo:          userRepo,
		notifier:          notifier,
	}
}

// CheckAndIssue evaluates whether the user has earned any reward of the
// outing's linked event and issues the missing vouchers. It is idempotent:
// calling it again for the same approval issues nothing new, so retries after
// downstream failures are safe.
//
// Eligibility: the outing is event-linked, the user is its organizer, and the
// organizer holds the premium role.
func (s *VoucherService) CheckAndIssue(ctx context.Context, outingID, userID uint) error {
	outing, err := s.outingRepo.FindByID(ctx, outingID)
	if err != nil {
		return fmt.Errorf("s.outingRepo.FindByID -> %w", err)
	}

	if !outing.IsLinkedToEvent() {
		return nil
	}

	if outing.OrganizerID != userID {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}
	if !user.IsPremium() {
		return nil
	}

	rewards, err := s.repo.FindRewardsByEventID(ctx, *outing.EventID)
	if err != nil {
		return fmt.Errorf("s.repo.FindRewardsByEventID -> %w", err)
	}
	if len(rewards) == 0 {
		return nil
	}

	approvedCount, err := s.participationRepo.CountApproved(ctx, outingID)
	if err != nil {
		return fmt.Errorf("s.participationRepo.CountApproved -> %w", err)
	}

	for _, reward := range rewards {
		if approvedCount < int64(reward.RequiredParticipants) {
			continue
		}

		exists, err := s.repo.ExistsForRewardAndOuting(ctx, userID, reward.ID, outingID)
		if err != nil {
			return fmt.Errorf("s.repo.ExistsForRewardAndOuting -> %w", err)
		}
		if exists {
			continue
		}

		voucher, err := s.repo.Create(ctx, domain.Voucher{
			UserID:   userID,
			RewardID: reward.ID,
			OutingID: outingID,
			Code:     "VOUCHER-" + uuid.NewString(),
			Status:   domain.VoucherActive,
		})
		if err != nil {
			// A concurrent trigger run won the insert. Already issued.
			if errors.Is(err, repository.ErrVoucherExists) {
				continue
			}

			return fmt.Errorf("s.repo.Create -> %w", err)
		}

		zap.L().Info("voucher issued",
			zap.Uint("user_id", userID),
			zap.Uint("reward_id", reward.ID),
			zap.Uint("outing_id", outingID))

		if err := s.notifier.Send(ctx, userID, domain.NotificationRewardEarned,
			"Reward earned",
			fmt.Sprintf("You earned %q for %s", reward.Title, outing.Title),
			voucher.ID, "VOUCHER"); err != nil {
			zap.L().Warn("notification delivery failed",
				zap.Uint("user_id", userID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *VoucherService) ListByUser(ctx context.Context, userID uint) ([]domain.Voucher, error) {
	vouchers, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return vouchers, nil
}

func (s *VoucherService) ListActiveByUser(ctx context.Context, userID uint) ([]domain.Voucher, error) {
	vouchers, err := s.repo.FindActiveByUserID(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByUserID -> %w", err)
	}

	return vouchers, nil
}

// Redeem marks an ACTIVE voucher as REDEEMED. Only the business that owns the
// underlying reward may redeem it.
func (s *VoucherService) Redeem(ctx context.Context, code string, businessUserID uint) (domain.Voucher, error) {
	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrVoucherNotFound) {
			return domain.Voucher{}, ErrVoucherNotFound
		}

		return domain.Voucher{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	reward, err := s.repo.FindRewardByID(ctx, voucher.RewardID)
	if err != nil {
		return domain.Voucher{}, fmt.Errorf("s.repo.FindRewardByID -> %w", err)
	}

	if reward.BusinessID != businessUserID {
		return domain.Voucher{}, ErrWrongBusiness
	}

	now := time.Now()
	if !voucher.IsRedeemable(now) {
		return domain.Voucher{}, ErrVoucherNotRedeemable
	}

	voucher.Status = domain.VoucherRedeemed
	voucher.RedeemedAt = &now

	updated, err := s.repo.Update(ctx, voucher)
	if err != nil {
		return domain.Voucher{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// CreateReward attaches a reward to an event. Business-only; the caller must
// own the event.
func (s *VoucherService) CreateReward(ctx context.Context, reward domain.Reward, eventBusinessID uint) (domain.Reward, error) {
	if reward.BusinessID != eventBusinessID {
		return domain.Reward{}, ErrWrongBusiness
	}

	created, err := s.repo.CreateReward(ctx, reward)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.CreateReward -> %w", err)
	}

	return created, nil
}

func (s *VoucherService) ListRewardsByEvent(ctx context.Context, eventID uint) ([]domain.Reward, error) {
	rewards, err := s.repo.FindRewardsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRewardsByEventID -> %w", err)
	}

	return rewards, nil
}
