package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gathorapp/outings-api/internal/domain"
	"github.com/gathorapp/outings-api/internal/repository"
)

type fakeOutingRepo struct {
	mu      sync.Mutex
	outings map[uint]domain.Outing
}

func newFakeOutingRepo(outings ...domain.Outing) *fakeOutingRepo {
	r := &fakeOutingRepo{outings: make(map[uint]domain.Outing)}
	for _, o := range outings {
		r.outings[o.ID] = o
	}
	return r
}

func (r *fakeOutingRepo) FindByID(_ context.Context, id uint) (domain.Outing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	outing, ok := r.outings[id]
	if !ok {
		return domain.Outing{}, repository.ErrOutingNotFound
	}
	return outing, nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

// fakeParticipationRepo honors the same atomicity contract as the real DAO:
// Approve re-checks the outing's capacity and flips the status under one
// lock, so concurrent approvals serialize exactly like the row-locked
// transaction does.
type fakeParticipationRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]domain.Participation
	outings *fakeOutingRepo
}

func newFakeParticipationRepo(outings *fakeOutingRepo) *fakeParticipationRepo {
	return &fakeParticipationRepo{
		records: make(map[uint]domain.Participation),
		outings: outings,
	}
}

func (r *fakeParticipationRepo) Create(_ context.Context, userID, outingID uint) (domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.records {
		if p.UserID == userID && p.OutingID == outingID {
			return domain.Participation{}, repository.ErrParticipationExists
		}
	}

	r.nextID++
	p := domain.Participation{
		ID:       r.nextID,
		UserID:   userID,
		OutingID: outingID,
		Status:   domain.ParticipationPending,
	}
	r.records[p.ID] = p

	return p, nil
}

func (r *fakeParticipationRepo) FindByID(_ context.Context, id uint) (domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.Participation{}, repository.ErrParticipationNotFound
	}
	return p, nil
}

func (r *fakeParticipationRepo) FindByOutingID(_ context.Context, outingID uint) ([]domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Participation
	for _, p := range r.records {
		if p.OutingID == outingID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Participation
	for _, p := range r.records {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeParticipationRepo) ExistsForUserAndOuting(_ context.Context, userID, outingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.records {
		if p.UserID == userID && p.OutingID == outingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeParticipationRepo) CountApproved(_ context.Context, outingID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.countApprovedLocked(outingID), nil
}

func (r *fakeParticipationRepo) countApprovedLocked(outingID uint) int64 {
	var count int64
	for _, p := range r.records {
		if p.OutingID == outingID && p.Status == domain.ParticipationApproved {
			count++
		}
	}
	return count
}

func (r *fakeParticipationRepo) Approve(_ context.Context, id uint) (domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.Participation{}, repository.ErrParticipationNotFound
	}

	outing, ok := r.outings.outings[p.OutingID]
	if !ok {
		return domain.Participation{}, repository.ErrOutingNotFound
	}

	if r.countApprovedLocked(p.OutingID) >= int64(outing.MaxParticipants) {
		return domain.Participation{}, repository.ErrOutingFull
	}

	if p.Status != domain.ParticipationPending {
		return domain.Participation{}, repository.ErrParticipationNotPending
	}

	p.Status = domain.ParticipationApproved
	r.records[id] = p

	return p, nil
}

func (r *fakeParticipationRepo) Reject(_ context.Context, id uint) (domain.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.Participation{}, repository.ErrParticipationNotFound
	}
	if p.Status != domain.ParticipationPending {
		return domain.Participation{}, repository.ErrParticipationNotPending
	}

	p.Status = domain.ParticipationRejected
	r.records[id] = p

	return p, nil
}

func (r *fakeParticipationRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return repository.ErrParticipationNotFound
	}
	delete(r.records, id)

	return nil
}

type sentNotification struct {
	UserID   uint
	Category domain.NotificationCategory
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, userID uint, category domain.NotificationCategory, _, _ string, _ uint, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{UserID: userID, Category: category})

	return nil
}

type fakeRewardTrigger struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (t *fakeRewardTrigger) CheckAndIssue(_ context.Context, _, _ uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++

	return t.err
}

type participationFixture struct {
	svc      *ParticipationService
	repo     *fakeParticipationRepo
	outings  *fakeOutingRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	rewards  *fakeRewardTrigger
}

const (
	organizerID = uint(1)
	userAID     = uint(2)
	userBID     = uint(3)
	userCID     = uint(4)
	outingID    = uint(10)
)

func newParticipationFixture(maxParticipants int) *participationFixture {
	outings := newFakeOutingRepo(domain.Outing{
		ID:              outingID,
		Title:           "Friday bouldering",
		MaxParticipants: maxParticipants,
		OrganizerID:     organizerID,
	})
	users := newFakeUserRepo(
		domain.User{ID: organizerID, Name: "Olga", Role: domain.RolePremium},
		domain.User{ID: userAID, Name: "Alice", Role: domain.RoleUser},
		domain.User{ID: userBID, Name: "Bob", Role: domain.RoleUser},
		domain.User{ID: userCID, Name: "Carol", Role: domain.RoleUser},
	)
	repo := newFakeParticipationRepo(outings)
	notifier := &fakeNotifier{}
	rewards := &fakeRewardTrigger{}

	return &participationFixture{
		svc:      NewParticipationService(repo, outings, users, notifier, rewards),
		repo:     repo,
		outings:  outings,
		users:    users,
		notifier: notifier,
		rewards:  rewards,
	}
}

func TestRequestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending participation and notifies the organizer", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		assert.Equal(t, domain.ParticipationPending, p.Status)
		assert.Equal(t, userAID, p.UserID)
		assert.Equal(t, outingID, p.OutingID)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, organizerID, f.notifier.sent[0].UserID)
		assert.Equal(t, domain.NotificationParticipationRequest, f.notifier.sent[0].Category)
	})

	t.Run("unknown outing", func(t *testing.T) {
		f := newParticipationFixture(2)

		_, err := f.svc.RequestJoin(ctx, 999, userAID)
		assert.ErrorIs(t, err, ErrOutingNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newParticipationFixture(2)

		_, err := f.svc.RequestJoin(ctx, outingID, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("organizer cannot join their own outing", func(t *testing.T) {
		f := newParticipationFixture(2)

		_, err := f.svc.RequestJoin(ctx, outingID, organizerID)
		assert.ErrorIs(t, err, ErrOrganizerCannotJoin)
	})

	t.Run("duplicate request is rejected while a live record exists", func(t *testing.T) {
		f := newParticipationFixture(2)

		_, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		_, err = f.svc.RequestJoin(ctx, outingID, userAID)
		assert.ErrorIs(t, err, ErrAlreadyRequested)
	})

	t.Run("advisory capacity check rejects requests for a full outing", func(t *testing.T) {
		f := newParticipationFixture(1)

		pa, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pa.ID, organizerID)
		require.NoError(t, err)

		_, err = f.svc.RequestJoin(ctx, outingID, userBID)
		assert.ErrorIs(t, err, ErrOutingFull)
	})

	t.Run("a rejected user can request again after withdrawing", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Reject(ctx, p.ID, organizerID)
		require.NoError(t, err)

		// The rejected record is still live, so a new request is blocked
		// until it is withdrawn.
		_, err = f.svc.RequestJoin(ctx, outingID, userAID)
		assert.ErrorIs(t, err, ErrAlreadyRequested)

		require.NoError(t, f.svc.Withdraw(ctx, p.ID, userAID))

		p2, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationPending, p2.Status)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path fills the outing seat by seat", func(t *testing.T) {
		f := newParticipationFixture(2)

		pa, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		approved, err := f.svc.Approve(ctx, pa.ID, organizerID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationApproved, approved.Status)

		pb, err := f.svc.RequestJoin(ctx, outingID, userBID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pb.ID, organizerID)
		require.NoError(t, err)

		// Third requester sneaks in before the advisory check would stop
		// them; the approval must still fail.
		pc, err := f.repo.Create(ctx, userCID, outingID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pc.ID, organizerID)
		assert.ErrorIs(t, err, ErrOutingFull)

		got, err := f.repo.FindByID(ctx, pc.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationPending, got.Status, "failed approval must leave the record pending")
	})

	t.Run("only the organizer may approve", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, p.ID, userBID)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("approving a non-pending participation fails", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, p.ID, organizerID)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, p.ID, organizerID)
		assert.ErrorIs(t, err, ErrParticipationNotPending)

		pb, err := f.svc.RequestJoin(ctx, outingID, userBID)
		require.NoError(t, err)
		_, err = f.svc.Reject(ctx, pb.ID, organizerID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pb.ID, organizerID)
		assert.ErrorIs(t, err, ErrParticipationNotPending)
	})

	t.Run("unknown participation", func(t *testing.T) {
		f := newParticipationFixture(2)

		_, err := f.svc.Approve(ctx, 999, organizerID)
		assert.ErrorIs(t, err, ErrParticipationNotFound)
	})

	t.Run("invokes the reward trigger and notifies the user", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		f.notifier.sent = nil

		_, err = f.svc.Approve(ctx, p.ID, organizerID)
		require.NoError(t, err)

		assert.Equal(t, 1, f.rewards.calls)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, userAID, f.notifier.sent[0].UserID)
		assert.Equal(t, domain.NotificationParticipationApproved, f.notifier.sent[0].Category)
	})

	t.Run("side effect failures do not undo the approval", func(t *testing.T) {
		f := newParticipationFixture(2)
		f.rewards.err = errors.New("reward backend down")
		f.notifier.err = errors.New("notification backend down")

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		approved, err := f.svc.Approve(ctx, p.ID, organizerID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationApproved, approved.Status)
	})
}

func TestApproveConcurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("two approvals race for the last seat, exactly one wins", func(t *testing.T) {
		f := newParticipationFixture(1)

		pa, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		pb, err := f.svc.RequestJoin(ctx, outingID, userBID)
		require.NoError(t, err)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = f.svc.Approve(ctx, pa.ID, organizerID)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = f.svc.Approve(ctx, pb.ID, organizerID)
		}()
		wg.Wait()

		var wins, fulls int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrOutingFull):
				fulls++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, 1, fulls)

		count, err := f.repo.CountApproved(ctx, outingID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		// The loser stays pending.
		statuses := map[domain.ParticipationStatus]int{}
		for _, id := range []uint{pa.ID, pb.ID} {
			p, err := f.repo.FindByID(ctx, id)
			require.NoError(t, err)
			statuses[p.Status]++
		}
		assert.Equal(t, 1, statuses[domain.ParticipationApproved])
		assert.Equal(t, 1, statuses[domain.ParticipationPending])
	})

	t.Run("approved count never exceeds the capacity", func(t *testing.T) {
		const (
			seats      = 3
			requesters = 12
		)

		f := newParticipationFixture(seats)
		for i := 0; i < requesters; i++ {
			f.users.users[uint(100+i)] = domain.User{ID: uint(100 + i), Name: "guest", Role: domain.RoleUser}
		}

		ids := make([]uint, requesters)
		for i := 0; i < requesters; i++ {
			p, err := f.svc.RequestJoin(ctx, outingID, uint(100+i))
			require.NoError(t, err)
			ids[i] = p.ID
		}

		var wg sync.WaitGroup
		wg.Add(requesters)
		for _, id := range ids {
			go func(id uint) {
				defer wg.Done()
				_, err := f.svc.Approve(ctx, id, organizerID)
				if err != nil && !errors.Is(err, ErrOutingFull) {
					t.Errorf("unexpected error: %v", err)
				}
			}(id)
		}
		wg.Wait()

		count, err := f.repo.CountApproved(ctx, outingID)
		require.NoError(t, err)
		assert.EqualValues(t, seats, count)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a pending participation and notifies the user", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		f.notifier.sent = nil

		rejected, err := f.svc.Reject(ctx, p.ID, organizerID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationRejected, rejected.Status)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, domain.NotificationParticipationRejected, f.notifier.sent[0].Category)
	})

	t.Run("only the organizer may reject", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, p.ID, userBID)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("rejecting a non-pending participation fails", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, p.ID, organizerID)
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, p.ID, organizerID)
		assert.ErrorIs(t, err, ErrParticipationNotPending)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("the owner may withdraw regardless of status", func(t *testing.T) {
		f := newParticipationFixture(2)

		pending, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		require.NoError(t, f.svc.Withdraw(ctx, pending.ID, userAID))

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, p.ID, organizerID)
		require.NoError(t, err)
		require.NoError(t, f.svc.Withdraw(ctx, p.ID, userAID))

		_, err = f.repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, repository.ErrParticipationNotFound)
	})

	t.Run("anyone else is forbidden", func(t *testing.T) {
		f := newParticipationFixture(2)

		p, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		err = f.svc.Withdraw(ctx, p.ID, userBID)
		assert.ErrorIs(t, err, ErrNotParticipationOwner)

		err = f.svc.Withdraw(ctx, p.ID, organizerID)
		assert.ErrorIs(t, err, ErrNotParticipationOwner)
	})

	t.Run("withdrawing an approved participation frees a seat", func(t *testing.T) {
		f := newParticipationFixture(2)

		pa, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pa.ID, organizerID)
		require.NoError(t, err)

		pb, err := f.svc.RequestJoin(ctx, outingID, userBID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pb.ID, organizerID)
		require.NoError(t, err)

		pc, err := f.repo.Create(ctx, userCID, outingID)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, pc.ID, organizerID)
		require.ErrorIs(t, err, ErrOutingFull)

		require.NoError(t, f.svc.Withdraw(ctx, pa.ID, userAID))

		approved, err := f.svc.Approve(ctx, pc.ID, organizerID)
		require.NoError(t, err)
		assert.Equal(t, domain.ParticipationApproved, approved.Status)
	})

	t.Run("unknown participation", func(t *testing.T) {
		f := newParticipationFixture(2)

		err := f.svc.Withdraw(ctx, 999, userAID)
		assert.ErrorIs(t, err, ErrParticipationNotFound)
	})
}

func TestListParticipations(t *testing.T) {
	ctx := context.Background()

	t.Run("by outing", func(t *testing.T) {
		f := newParticipationFixture(5)

		_, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)
		_, err = f.svc.RequestJoin(ctx, outingID, userBID)
		require.NoError(t, err)

		participations, err := f.svc.ListByOuting(ctx, outingID)
		require.NoError(t, err)
		assert.Len(t, participations, 2)

		_, err = f.svc.ListByOuting(ctx, 999)
		assert.ErrorIs(t, err, ErrOutingNotFound)
	})

	t.Run("by user", func(t *testing.T) {
		f := newParticipationFixture(5)

		_, err := f.svc.RequestJoin(ctx, outingID, userAID)
		require.NoError(t, err)

		participations, err := f.svc.ListByUser(ctx, userAID)
		require.NoError(t, err)
		require.Len(t, participations, 1)
		assert.Equal(t, userAID, participations[0].UserID)

		participations, err = f.svc.ListByUser(ctx, userCID)
		require.NoError(t, err)
		assert.Empty(t, participations)
	})
}
