package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound  = errors.New("reward not found")
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherExists   = errors.New("voucher already issued for this reward and outing")
)

type Reward struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"not null"`

	RequiredParticipants int `gorm:"not null"`

	EventID    uint `gorm:"not null;index"`
	BusinessID uint `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

type Voucher struct {
	ID uint `gorm:"primaryKey"`

	UserID   uint `gorm:"not null;uniqueIndex:uk_voucher_user_reward_outing;index"`
	RewardID uint `gorm:"not null;uniqueIndex:uk_voucher_user_reward_outing"`
	OutingID uint `gorm:"not null;uniqueIndex:uk_voucher_user_reward_outing"`

	Code   string `gorm:"not null;unique;size:100"`
	Status string `gorm:"not null;size:20;index"` // "ACTIVE", "REDEEMED", "EXPIRED" or "CANCELLED"

	ExpiresAt  *time.Time
	RedeemedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type VoucherDAO struct {
	db *gorm.DB
}

func NewVoucherDAO(db *gorm.DB) *VoucherDAO {
	return &VoucherDAO{
		db: db,
	}
}

func (d *VoucherDAO) InsertReward(ctx context.Context, reward Reward) (Reward, error) {
	result := d.db.WithContext(ctx).Create(&reward)
	if result.Error != nil {
		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *VoucherDAO) FindRewardsByEventID(ctx context.Context, eventID uint) ([]Reward, error) {
	var rewards []Reward

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&rewards)
	if result.Error != nil {
		return nil, result.Error
	}

	return rewards, nil
}

func (d *VoucherDAO) FindRewardByID(ctx context.Context, id uint) (Reward, error) {
	var reward Reward

	result := d.db.WithContext(ctx).First(&reward, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reward{}, ErrRewardNotFound
		}

		return Reward{}, result.Error
	}

	return reward, nil
}

// Insert creates a voucher. The composite unique index on
// (user_id, reward_id, outing_id) makes concurrent duplicate issuance
// collapse into ErrVoucherExists.
func (d *VoucherDAO) Insert(ctx context.Context, voucher Voucher) (Voucher, error) {
	result := d.db.WithContext(ctx).Create(&voucher)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Voucher{}, ErrVoucherExists
		}

		return Voucher{}, result.Error
	}

	return voucher, nil
}

func (d *VoucherDAO) ExistsForRewardAndOuting(ctx context.Context, userID, rewardID, outingID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Voucher{}).
		Where("user_id = ? AND reward_id = ? AND outing_id = ?", userID, rewardID, outingID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *VoucherDAO) FindByUserID(ctx context.Context, userID uint) ([]Voucher, error) {
	var vouchers []Voucher

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&vouchers)
	if result.Error != nil {
		return nil, result.Error
	}

	return vouchers, nil
}

func (d *VoucherDAO) FindActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]Voucher, error) {
	var vouchers []Voucher

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)", userID, "ACTIVE", now).
		Order("created_at DESC").
		Find(&vouchers)
	if result.Error != nil {
		return nil, result.Error
	}

	return vouchers, nil
}

func (d *VoucherDAO) FindByCode(ctx context.Context, code string) (Voucher, error) {
	var voucher Voucher

	result := d.db.WithContext(ctx).Where("code = ?", code).First(&voucher)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Voucher{}, ErrVoucherNotFound
		}

		return Voucher{}, result.Error
	}

	return voucher, nil
}

func (d *VoucherDAO) Update(ctx context.Context, voucher Voucher) (Voucher, error) {
	result := d.db.WithContext(ctx).Save(&voucher)
	if result.Error != nil {
		return Voucher{}, result.Error
	}

	return voucher, nil
}
