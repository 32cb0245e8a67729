package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrParticipationNotFound   = errors.New("participation not found")
	ErrParticipationExists     = errors.New("participation already exists for this user and outing")
	ErrParticipationNotPending = errors.New("participation is not pending")
	ErrOutingFull              = errors.New("outing has reached its maximum number of participants")
)

type Participation struct {
	ID uint `gorm:"primaryKey"`

	UserID   uint `gorm:"not null;uniqueIndex:uk_participation_user_outing;index"`
	OutingID uint `gorm:"not null;uniqueIndex:uk_participation_user_outing;index"`

	Status string `gorm:"not null;size:20;index"` // "PENDING", "APPROVED" or "REJECTED"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Participation) TableName() string {
	return "participations"
}

type ParticipationDAO struct {
	db *gorm.DB
}

func NewParticipationDAO(db *gorm.DB) *ParticipationDAO {
	return &ParticipationDAO{
		db: db,
	}
}

func (d *ParticipationDAO) Insert(ctx context.Context, participation Participation) (Participation, error) {
	result := d.db.WithContext(ctx).Create(&participation)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Participation{}, ErrParticipationExists
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindByID(ctx context.Context, id uint) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).First(&participation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindByOutingID(ctx context.Context, outingID uint) ([]Participation, error) {
	var participations []Participation

	result := d.db.WithContext(ctx).
		Where("outing_id = ?", outingID).
		Order("created_at").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *ParticipationDAO) FindByUserID(ctx context.Context, userID uint) ([]Participation, error) {
	var participations []Participation

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *ParticipationDAO) ExistsForUserAndOuting(ctx context.Context, userID, outingID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Participation{}).
		Where("user_id = ? AND outing_id = ?", userID, outingID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ParticipationDAO) CountApproved(ctx context.Context, outingID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Participation{}).
		Where("outing_id = ? AND status = ?", outingID, "APPROVED").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Approve moves a PENDING participation to APPROVED. The capacity re-check
// and the status write run in one transaction that holds a FOR UPDATE lock on
// the outing row, so concurrent approvals for the same outing serialize
// against each other while other outings proceed unaffected. When the outing
// is already full the record is left PENDING and ErrOutingFull is returned.
func (d *ParticipationDAO) Approve(ctx context.Context, id uint) (Participation, error) {
	var approved Participation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participation Participation
		if err := tx.First(&participation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		// Row lock scoped to the one outing being decided.
		var outing Outing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&outing, participation.OutingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOutingNotFound
			}
			return err
		}

		var approvedCount int64
		if err := tx.Model(&Participation{}).
			Where("outing_id = ? AND status = ?", outing.ID, "APPROVED").
			Count(&approvedCount).Error; err != nil {
			return err
		}

		if approvedCount >= int64(outing.MaxParticipants) {
			return ErrOutingFull
		}

		result := tx.Model(&Participation{}).
			Where("id = ? AND status = ?", id, "PENDING").
			Update("status", "APPROVED")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrParticipationNotPending
		}

		participation.Status = "APPROVED"
		approved = participation

		return nil
	})
	if err != nil {
		return Participation{}, err
	}

	return approved, nil
}

// Reject moves a PENDING participation to REJECTED. The predicate on the
// current status makes a lost race with approve or withdraw observable as
// ErrParticipationNotPending.
func (d *ParticipationDAO) Reject(ctx context.Context, id uint) (Participation, error) {
	var rejected Participation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participation Participation
		if err := tx.First(&participation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		result := tx.Model(&Participation{}).
			Where("id = ? AND status = ?", id, "PENDING").
			Update("status", "REJECTED")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrParticipationNotPending
		}

		participation.Status = "REJECTED"
		rejected = participation

		return nil
	})
	if err != nil {
		return Participation{}, err
	}

	return rejected, nil
}

func (d *ParticipationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Participation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipationNotFound
	}

	return nil
}
