package service

import (
	"context"
	"testing"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := f.clock

	f.clock = time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	moved, err := f.svc.Create(ctx, f.siteTransferInput(), "U0")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, moved.ID, "U1", "")
	require.NoError(t, err)
	_, err = f.svc.Dispatch(ctx, moved.ID, "U2", f.transport())
	require.NoError(t, err)

	f.clock = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	second := testutil.CreateMachine(t, f.db, "M2", f.site35)
	in := f.siteTransferInput()
	in.MachineID = second.ID
	_, err = f.svc.Create(ctx, in, "U0")
	require.NoError(t, err)

	f.clock = today
	_, err = f.svc.Receive(ctx, moved.ID, "U3", ReceiveInput{Condition: model.ConditionGood})
	require.NoError(t, err)
	third := testutil.CreateMachine(t, f.db, "M3", f.site33)
	dest := f.site35.ID
	_, err = f.svc.Create(ctx, CreateTransferInput{
		RequestType:       model.RequestSiteTransfer,
		MachineID:         third.ID,
		CurrentSiteID:     f.site33.ID,
		DestinationSiteID: &dest,
	}, "U0")
	require.NoError(t, err)

	dashboard := NewDashboardService(f.transfers).(*dashboardService)
	dashboard.now = func() time.Time { return today }

	stats, err := dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.ByStatus, len(model.GetAllTransferStatuses()))
	require.EqualValues(t, 2, stats.ByStatus[model.StatusPending])
	require.EqualValues(t, 1, stats.ByStatus[model.StatusReceived])
	require.EqualValues(t, 0, stats.ByStatus[model.StatusRejected])
	require.EqualValues(t, 1, stats.RequestedToday)
	require.EqualValues(t, 2, stats.RequestedThisMonth)
	require.EqualValues(t, 1, stats.ReceivedThisMonth)

	bySite := map[string]int64{}
	for _, c := range stats.OpenBySite {
		bySite[c.SiteID.String()] = c.Count
	}
	require.Equal(t, map[string]int64{f.site35.ID.String(): 1, f.site33.ID.String(): 1}, bySite)
}
