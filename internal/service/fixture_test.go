package service

import (
	"sync"
	"testing"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/notify"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	transfers repository.TransferRepository
	machines  repository.MachineRepository
	sites     repository.SiteRepository
	svc       *transferService
	events    *recorder
	site35    *model.Site
	site33    *model.Site
	machine   *model.Machine
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		db:        db,
		transfers: repository.NewTransferRepo(db),
		machines:  repository.NewMachineRepo(db),
		sites:     repository.NewSiteRepo(db),
		events:    &recorder{},
		clock:     time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	f.site35 = testutil.CreateSite(t, db, "S35")
	f.site33 = testutil.CreateSite(t, db, "S33")
	f.machine = testutil.CreateMachine(t, db, "M1", f.site35)
	f.svc = NewTransferService(db, f.transfers, f.machines, f.sites, f.events).(*transferService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) siteTransferInput() CreateTransferInput {
	dest := f.site33.ID
	return CreateTransferInput{
		RequestType:       model.RequestSiteTransfer,
		MachineID:         f.machine.ID,
		CurrentSiteID:     f.site35.ID,
		DestinationSiteID: &dest,
		Reason:            "shifting to the new pit",
	}
}

func (f *fixture) transport() *model.TransportDetails {
	return &model.TransportDetails{
		VehicleNumber: "JH01AB1234",
		DriverName:    "Ramesh",
		MobileNumber:  "9876543210",
		FuelBalance:   decimalOf(40),
		KmsTravelled:  decimalOf(120),
		TickMarks:     []string{"Bucket", "Tool Kit"},
	}
}

func requireValidation(t *testing.T, err error, code string, fields ...string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, code, verr.Code)
	if len(fields) > 0 {
		require.ElementsMatch(t, fields, verr.Fields)
	}
}

func decimalOf(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
