package repository

import (
	"context"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository/dao"
)

var (
	ErrParticipationNotFound   = dao.ErrParticipationNotFound
	ErrParticipationExists     = dao.ErrParticipationExists
	ErrParticipationNotPending = dao.ErrParticipationNotPending
	ErrOutingFull              = dao.ErrOutingFull
)

type ParticipationDAO interface {
	Insert(ctx context.Context, participation dao.Participation) (dao.Participation, error)
	FindByID(ctx context.Context, id uint) (dao.Participation, error)
	FindByOutingID(ctx context.Context, outingID uint) ([]dao.Participation, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Participation, error)
	ExistsForUserAndOuting(ctx context.Context, userID, outingID uint) (bool, error)
	CountApproved(ctx context.Context, outingID uint) (int64, error)
	Approve(ctx context.Context, id uint) (dao.Participation, error)
	Reject(ctx context.Context, id uint) (dao.Participation, error)
	Delete(ctx context.Context, id uint) error
}

type ParticipationRepository struct {
	dao ParticipationDAO
}

func NewParticipationRepository(dao ParticipationDAO) *ParticipationRepository {
	return &ParticipationRepository{
		dao: dao,
	}
}

func (r *ParticipationRepository) daoToDomain(p dao.Participation) domain.Participation {
	return domain.Participation{
		ID:        p.ID,
		UserID:    p.UserID,
		OutingID:  p.OutingID,
		Status:    domain.ParticipationStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *ParticipationRepository) daosToDomain(participations []dao.Participation) []domain.Participation {
	result := make([]domain.Participation, len(participations))
	for i, p := range participations {
		result[i] = r.daoToDomain(p)
	}

	return result
}

func (r *ParticipationRepository) Create(ctx context.Context, userID, outingID uint) (domain.Participation, error) {
	created, err := r.dao.Insert(ctx, dao.Participation{
		UserID:   userID,
		OutingID: outingID,
		Status:   string(domain.ParticipationPending),
	})
	if err != nil {
		return domain.Participation{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *ParticipationRepository) FindByID(ctx context.Context, id uint) (domain.Participation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participation{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *ParticipationRepository) FindByOutingID(ctx context.Context, outingID uint) ([]domain.Participation, error) {
	found, err := r.dao.FindByOutingID(ctx, outingID)
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(found), nil
}

func (r *ParticipationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Participation, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(found), nil
}

func (r *ParticipationRepository) ExistsForUserAndOuting(ctx context.Context, userID, outingID uint) (bool, error) {
	return r.dao.ExistsForUserAndOuting(ctx, userID, outingID)
}

func (r *ParticipationRepository) CountApproved(ctx context.Context, outingID uint) (int64, error) {
	return r.dao.CountApproved(ctx, outingID)
}

// Approve delegates to the DAO's atomic check-then-write. The returned record
// is APPROVED on success; on ErrOutingFull the stored record stays PENDING.
func (r *ParticipationRepository) Approve(ctx context.Context, id uint) (domain.Participation, error) {
	approved, err := r.dao.Approve(ctx, id)
	if err != nil {
		return domain.Participation{}, err
	}

	return r.daoToDomain(approved), nil
}

func (r *ParticipationRepository) Reject(ctx context.Context, id uint) (domain.Participation, error) {
	rejected, err := r.dao.Reject(ctx, id)
	if err != nil {
		return domain.Participation{}, err
	}

	return r.daoToDomain(rejected), nil
}

func (r *ParticipationRepository) Delete(ctx context.Context, id uint) error {
	return r.dao.Delete(ctx, id)
}
