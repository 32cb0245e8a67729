package dao_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gathorapp/outings-api/internal/repository/dao"
)

// These tests run the admission queries against a real Postgres so the
// FOR UPDATE row lock is exercised, not simulated. They need a local Docker
// daemon and are skipped with -short.

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("dockertest.NewPool: %v", err)
		os.Exit(m.Run())
	}
	if err = pool.Client.Ping(); err != nil {
		log.Printf("docker unavailable: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=outings_test",
			"listen_addresses = '*'",
		},
	}, func(cfg *docker.HostConfig) {
		cfg.AutoRemove = true
		cfg.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("pool.RunWithOptions: %v", err)
	}
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://test:test@%s/outings_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}
		testDB = db

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("dao.InitTables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("pool.Purge: %v", err)
	}
	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres container unavailable")
	}
	return testDB
}

type seeded struct {
	outing       dao.Outing
	participants []dao.User
}

// seedOuting creates an organizer, an outing with the given capacity and n
// pending participations by n distinct users.
func seedOuting(t *testing.T, db *gorm.DB, maxParticipants, pending int) seeded {
	t.Helper()
	ctx := context.Background()

	userDAO := dao.NewUserDAO(db)
	outingDAO := dao.NewOutingDAO(db)
	participationDAO := dao.NewParticipationDAO(db)

	organizer, err := userDAO.Insert(ctx, dao.User{
		Email:    fmt.Sprintf("organizer-%d@example.com", time.Now().UnixNano()),
		Password: "x",
		Name:     "Organizer",
		Role:     "premium",
	})
	require.NoError(t, err)

	outing, err := outingDAO.Insert(ctx, dao.Outing{
		Title:           "Integration outing",
		Description:     "Seeded by tests",
		Location:        "Somewhere",
		OutingDate:      time.Now().Add(48 * time.Hour),
		MaxParticipants: maxParticipants,
		OrganizerID:     organizer.ID,
	})
	require.NoError(t, err)

	s := seeded{outing: outing}
	for i := 0; i < pending; i++ {
		user, err := userDAO.Insert(ctx, dao.User{
			Email:    fmt.Sprintf("user-%d-%d@example.com", i, time.Now().UnixNano()),
			Password: "x",
			Name:     "Guest",
			Role:     "user",
		})
		require.NoError(t, err)
		s.participants = append(s.participants, user)

		_, err = participationDAO.Insert(ctx, dao.Participation{
			UserID:   user.ID,
			OutingID: outing.ID,
			Status:   "PENDING",
		})
		require.NoError(t, err)
	}

	return s
}

func pendingIDs(t *testing.T, db *gorm.DB, outingID uint) []uint {
	t.Helper()

	participationDAO := dao.NewParticipationDAO(db)
	participations, err := participationDAO.FindByOutingID(context.Background(), outingID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(participations))
	for _, p := range participations {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestParticipationDAO_Insert_Duplicate(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	s := seedOuting(t, db, 5, 1)
	participationDAO := dao.NewParticipationDAO(db)

	_, err := participationDAO.Insert(ctx, dao.Participation{
		UserID:   s.participants[0].ID,
		OutingID: s.outing.ID,
		Status:   "PENDING",
	})
	assert.ErrorIs(t, err, dao.ErrParticipationExists)
}

func TestParticipationDAO_Approve_LastSeatRace(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	s := seedOuting(t, db, 1, 2)
	ids := pendingIDs(t, db, s.outing.ID)
	require.Len(t, ids, 2)

	participationDAO := dao.NewParticipationDAO(db)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, id := range ids {
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = participationDAO.Approve(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var wins, fulls int
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, dao.ErrOutingFull):
			fulls++
			p, findErr := participationDAO.FindByID(ctx, ids[i])
			require.NoError(t, findErr)
			assert.Equal(t, "PENDING", p.Status, "loser must stay pending")
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, fulls)

	count, err := participationDAO.CountApproved(ctx, s.outing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestParticipationDAO_Approve_NeverOverbooks(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	const seats = 3

	s := seedOuting(t, db, seats, 10)
	ids := pendingIDs(t, db, s.outing.ID)
	require.Len(t, ids, 10)

	participationDAO := dao.NewParticipationDAO(db)

	var wg sync.WaitGroup
	wg.Add(len(ids))
	for _, id := range ids {
		go func(id uint) {
			defer wg.Done()
			_, err := participationDAO.Approve(ctx, id)
			if err != nil && !errors.Is(err, dao.ErrOutingFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	count, err := participationDAO.CountApproved(ctx, s.outing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, seats, count)
}

func TestParticipationDAO_Approve_NotPending(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	s := seedOuting(t, db, 5, 1)
	ids := pendingIDs(t, db, s.outing.ID)
	participationDAO := dao.NewParticipationDAO(db)

	_, err := participationDAO.Approve(ctx, ids[0])
	require.NoError(t, err)

	_, err = participationDAO.Approve(ctx, ids[0])
	assert.ErrorIs(t, err, dao.ErrParticipationNotPending)

	_, err = participationDAO.Reject(ctx, ids[0])
	assert.ErrorIs(t, err, dao.ErrParticipationNotPending)
}

func TestParticipationDAO_Delete_FreesSeat(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	s := seedOuting(t, db, 1, 2)
	ids := pendingIDs(t, db, s.outing.ID)
	participationDAO := dao.NewParticipationDAO(db)

	_, err := participationDAO.Approve(ctx, ids[0])
	require.NoError(t, err)
	_, err = participationDAO.Approve(ctx, ids[1])
	require.ErrorIs(t, err, dao.ErrOutingFull)

	require.NoError(t, participationDAO.Delete(ctx, ids[0]))

	approved, err := participationDAO.Approve(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
}
