package service

import (
	"context"
	"testing"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFleetService_Sites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fleet := NewFleetService(f.machines, f.sites)

	site := &model.Site{Name: "Site 12", Code: " s12 "}
	require.NoError(t, fleet.CreateSite(ctx, site, "U1"))
	require.Equal(t, "S12", site.Code)
	require.NotEqual(t, uuid.Nil, site.ID)
	require.Equal(t, "U1", site.CreatedBy)

	err := fleet.CreateSite(ctx, &model.Site{Name: "Again", Code: "S12"}, "U1")
	requireValidation(t, err, CodeDuplicate, "code")

	err = fleet.CreateSite(ctx, &model.Site{Code: "S13"}, "U1")
	requireValidation(t, err, CodeRequired, "name")

	sites, err := fleet.ListSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 3)
}

func TestFleetService_Machines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fleet := NewFleetService(f.machines, f.sites)

	machine := &model.Machine{Name: "Dumper D7", Code: "d7", SiteID: f.site33.ID}
	require.NoError(t, fleet.CreateMachine(ctx, machine, "U1"))
	require.Equal(t, "D7", machine.Code)
	require.Equal(t, model.MachineActive, machine.Status)

	err := fleet.CreateMachine(ctx, &model.Machine{Name: "Dumper", Code: "D7", SiteID: f.site33.ID}, "U1")
	requireValidation(t, err, CodeDuplicate, "code")

	err = fleet.CreateMachine(ctx, &model.Machine{Name: "Dumper", Code: "D8", SiteID: uuid.New()}, "U1")
	requireValidation(t, err, CodeNotFound, "site_id")

	err = fleet.CreateMachine(ctx, &model.Machine{Name: "Dumper", Code: "D9"}, "U1")
	requireValidation(t, err, CodeRequired, "site_id")

	got, err := fleet.GetMachine(ctx, machine.ID)
	require.NoError(t, err)
	require.Equal(t, "Dumper D7", got.Name)

	_, err = fleet.GetMachine(ctx, uuid.New())
	require.ErrorIs(t, err, ErrMachineNotFound)

	atSite33, err := fleet.ListMachines(ctx, repository.MachineFilter{SiteID: &f.site33.ID})
	require.NoError(t, err)
	require.Len(t, atSite33, 1)
	require.Equal(t, machine.ID, atSite33[0].ID)
}
