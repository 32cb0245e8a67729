package repository

import (
	"context"
	"time"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository/dao"
)

var (
	ErrRewardNotFound  = dao.ErrRewardNotFound
	ErrVoucherNotFound = dao.ErrVoucherNotFound
	ErrVoucherExists   = dao.ErrVoucherExists
)

type VoucherDAO interface {
	InsertReward(ctx context.Context, reward dao.Reward) (dao.Reward, error)
	FindRewardsByEventID(ctx context.Context, eventID uint) ([]dao.Reward, error)
	FindRewardByID(ctx context.Context, id uint) (dao.Reward, error)
	Insert(ctx context.Context, voucher dao.Voucher) (dao.Voucher, error)
	ExistsForRewardAndOuting(ctx context.Context, userID, rewardID, outingID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Voucher, error)
	FindActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]dao.Voucher, error)
	FindByCode(ctx context.Context, code string) (dao.Voucher, error)
	Update(ctx context.Context, voucher dao.Voucher) (dao.Voucher, error)
}

type VoucherRepository struct {
	dao VoucherDAO
}

func NewVoucherRepository(dao VoucherDAO) *VoucherRepository {
	return &VoucherRepository{
		dao: dao,
	}
}

func (r *VoucherRepository) rewardDaoToDomain(reward dao.Reward) domain.Reward {
	return domain.Reward{
		ID:                   reward.ID,
		Title:                reward.Title,
		Description:          reward.Description,
		RequiredParticipants: reward.RequiredParticipants,
		EventID:              reward.EventID,
		BusinessID:           reward.BusinessID,
		CreatedAt:            reward.CreatedAt,
	}
}

func (r *VoucherRepository) voucherDomainToDao(v domain.Voucher) dao.Voucher {
	return dao.Voucher{
		ID:         v.ID,
		UserID:     v.UserID,
		RewardID:   v.RewardID,
		OutingID:   v.OutingID,
		Code:       v.Code,
		Status:     string(v.Status),
		ExpiresAt:  v.ExpiresAt,
		RedeemedAt: v.RedeemedAt,
		CreatedAt:  v.CreatedAt,
	}
}

func (r *VoucherRepository) voucherDaoToDomain(v dao.Voucher) domain.Voucher {
	return domain.Voucher{
		ID:         v.ID,
		UserID:     v.UserID,
		RewardID:   v.RewardID,
		OutingID:   v.OutingID,
		Code:       v.Code,
		Status:     domain.VoucherStatus(v.Status),
		ExpiresAt:  v.ExpiresAt,
		RedeemedAt: v.RedeemedAt,
		CreatedAt:  v.CreatedAt,
	}
}

func (r *VoucherRepository) vouchersDaoToDomain(vouchers []dao.Voucher) []domain.Voucher {
	result := make([]domain.Voucher, len(vouchers))
	for i, v := range vouchers {
		result[i] = r.voucherDaoToDomain(v)
	}

	return result
}

func (r *VoucherRepository) CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := r.dao.InsertReward(ctx, dao.Reward{
		Title:                reward.Title,
		Description:          reward.Description,
		RequiredParticipants: reward.RequiredParticipants,
		EventID:              reward.EventID,
		BusinessID:           reward.BusinessID,
	})
	if err != nil {
		return domain.Reward{}, err
	}

	return r.rewardDaoToDomain(created), nil
}

func (r *VoucherRepository) FindRewardsByEventID(ctx context.Context, eventID uint) ([]domain.Reward, error) {
	found, err := r.dao.FindRewardsByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rewards := make([]domain.Reward, len(found))
	for i, reward := range found {
		rewards[i] = r.rewardDaoToDomain(reward)
	}

	return rewards, nil
}

func (r *VoucherRepository) FindRewardByID(ctx context.Context, id uint) (domain.Reward, error) {
	found, err := r.dao.FindRewardByID(ctx, id)
	if err != nil {
		return domain.Reward{}, err
	}

	return r.rewardDaoToDomain(found), nil
}

func (r *VoucherRepository) Create(ctx context.Context, voucher domain.Voucher) (domain.Voucher, error) {
	created, err := r.dao.Insert(ctx, r.voucherDomainToDao(voucher))
	if err != nil {
		return domain.Voucher{}, err
	}

	return r.voucherDaoToDomain(created), nil
}

func (r *VoucherRepository) ExistsForRewardAndOuting(ctx context.Context, userID, rewardID, outingID uint) (bool, error) {
	return r.dao.ExistsForRewardAndOuting(ctx, userID, rewardID, outingID)
}

func (r *VoucherRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Voucher, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return r.vouchersDaoToDomain(found), nil
}

func (r *VoucherRepository) FindActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]domain.Voucher, error) {
	found, err := r.dao.FindActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return r.vouchersDaoToDomain(found), nil
}

func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (domain.Voucher, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Voucher{}, err
	}

	return r.voucherDaoToDomain(found), nil
}

func (r *VoucherRepository) Update(ctx context.Context, voucher domain.Voucher) (domain.Voucher, error) {
	updated, err := r.dao.Update(ctx, r.voucherDomainToDao(voucher))
	if err != nil {
		return domain.Voucher{}, err
	}

	return r.voucherDaoToDomain(updated), nil
}
