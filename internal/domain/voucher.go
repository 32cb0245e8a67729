package domain

import "time"

type VoucherStatus string

const (
	VoucherActive    VoucherStatus = "ACTIVE"
	VoucherRedeemed  VoucherStatus = "REDEEMED"
	VoucherExpired   VoucherStatus = "EXPIRED"
	VoucherCancelled VoucherStatus = "CANCELLED"
)

// Voucher is issued at most once per (user, reward, outing) when an approved
// participation pushes the outing over the reward's participant threshold.
// The code is presented to the reward's business for redemption.
type Voucher struct {
	ID         uint          `json:"id"`
	UserID     uint          `json:"user_id"`
	RewardID   uint          `json:"reward_id"`
	OutingID   uint          `json:"outing_id"`
	Code       string        `json:"code"`
	Status     VoucherStatus `json:"status"`
	ExpiresAt  *time.Time    `json:"expires_at,omitempty"`
	RedeemedAt *time.Time    `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// IsRedeemable reports whether the voucher can still be redeemed at the
// given instant.
func (v Voucher) IsRedeemable(now time.Time) bool {
	if v.Status != VoucherActive {
		return false
	}
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return false
	}
	return true
}
