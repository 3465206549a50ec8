package repository_test

import (
	"context"
	"testing"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPendingTransfer(t *testing.T, db *gorm.DB, repo repository.TransferRepository, from, to *model.Site, machine *model.Machine, requestedAt time.Time) *model.TransferRequest {
	t.Helper()
	dest := to.ID
	tr := &model.TransferRequest{
		RequestType:       model.RequestSiteTransfer,
		Status:            model.StatusPending,
		Version:           1,
		MachineID:         machine.ID,
		CurrentSiteID:     from.ID,
		DestinationSiteID: &dest,
		RequestedBy:       "U0",
		RequestedAt:       requestedAt,
	}
	require.NoError(t, repo.Create(db, tr))
	return tr
}

func TestTransferRepo_SaveRejectsStaleVersion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTransferRepo(db)
	from := testutil.CreateSite(t, db, "S35")
	to := testutil.CreateSite(t, db, "S33")
	machine := testutil.CreateMachine(t, db, "M1", from)
	tr := newPendingTransfer(t, db, repo, from, to, machine, time.Now())

	first, err := repo.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)

	first.Status = model.StatusApproved
	first.ApprovedBy = "U1"
	require.NoError(t, repo.Save(db, first, first.Version))
	require.Equal(t, 2, first.Version)

	second.Status = model.StatusRejected
	second.RejectedBy = "U2"
	err = repo.Save(db, second, second.Version)
	require.ErrorIs(t, err, repository.ErrConflict)

	stored, err := repo.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, stored.Status)
	require.Equal(t, "U1", stored.ApprovedBy)
	require.Empty(t, stored.RejectedBy)
	require.Equal(t, 2, stored.Version)
	require.NotNil(t, stored.Machine)
	require.Equal(t, "M1", stored.Machine.Code)
	require.NotNil(t, stored.DestinationSite)
	require.Equal(t, "S33", stored.DestinationSite.Code)
}

func TestTransferRepo_FindByIDNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTransferRepo(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransferRepo_ListAndCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTransferRepo(db)
	ctx := context.Background()
	siteA := testutil.CreateSite(t, db, "A")
	siteB := testutil.CreateSite(t, db, "B")
	siteC := testutil.CreateSite(t, db, "C")

	lastWeek := time.Now().AddDate(0, 0, -7)
	m1 := testutil.CreateMachine(t, db, "M1", siteA)
	m2 := testutil.CreateMachine(t, db, "M2", siteA)
	m3 := testutil.CreateMachine(t, db, "M3", siteC)
	t1 := newPendingTransfer(t, db, repo, siteA, siteB, m1, lastWeek)
	newPendingTransfer(t, db, repo, siteA, siteB, m2, time.Now())
	newPendingTransfer(t, db, repo, siteC, siteB, m3, time.Now())

	t1.Status = model.StatusRejected
	t1.RejectedBy = "U1"
	require.NoError(t, repo.Save(db, t1, t1.Version))

	page, err := repo.List(ctx, repository.TransferFilter{Status: model.StatusPending})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	require.Equal(t, 20, page.Limit)

	page, err = repo.List(ctx, repository.TransferFilter{SiteID: &siteC.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, m3.ID, page.Items[0].MachineID)

	since := time.Now().AddDate(0, 0, -1)
	page, err = repo.List(ctx, repository.TransferFilter{From: &since, Limit: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)

	open, err := repo.HasOpenTransfer(db, m1.ID)
	require.NoError(t, err)
	require.False(t, open)
	open, err = repo.HasOpenTransfer(db, m2.ID)
	require.NoError(t, err)
	require.True(t, open)

	counts, err := repo.CountByStatus(ctx, nil)
	require.NoError(t, err)
	byStatus := map[model.TransferStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	require.Equal(t, map[model.TransferStatus]int64{model.StatusPending: 2, model.StatusRejected: 1}, byStatus)

	perSite, err := repo.CountOpenBySite(ctx)
	require.NoError(t, err)
	bySite := map[uuid.UUID]int64{}
	for _, c := range perSite {
		bySite[c.SiteID] = c.Count
	}
	require.Equal(t, map[uuid.UUID]int64{siteA.ID: 1, siteC.ID: 1}, bySite)
}

func TestTransferRepo_EventsInVersionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTransferRepo(db)
	id := uuid.New()

	require.NoError(t, repo.AppendEvent(db, &model.TransferEvent{TransferRequestID: id, EventType: "approved", FromStatus: model.StatusPending, ToStatus: model.StatusApproved, Actor: "U1", Version: 2}))
	require.NoError(t, repo.AppendEvent(db, &model.TransferEvent{TransferRequestID: id, EventType: "created", ToStatus: model.StatusPending, Actor: "U0", Version: 1}))

	events, err := repo.Events(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "created", events[0].EventType)
	require.Equal(t, "approved", events[1].EventType)
}
