package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func dispatchedTransfer() *model.TransferRequest {
	approvedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	dispatchedAt := time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC)
	dest := uuid.New()
	return &model.TransferRequest{
		BaseModel:         model.BaseModel{ID: uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")},
		RequestType:       model.RequestSiteTransfer,
		Status:            model.StatusDispatched,
		Version:           3,
		Machine:           &model.Machine{Name: "Excavator M1", Code: "M1", ModelName: "EX200"},
		CurrentSite:       &model.Site{Name: "Site 35", Code: "S35", Address: "Dhanbad"},
		DestinationSiteID: &dest,
		DestinationSite:   &model.Site{Name: "Site 33", Code: "S33"},
		ApprovedBy:        "U1",
		ApprovedAt:        &approvedAt,
		DispatchedBy:      "U2",
		DispatchedAt:      &dispatchedAt,
		TransportDetails: &model.TransportDetails{
			VehicleNumber: "JH01AB1234",
			DriverName:    "Ramesh",
			MobileNumber:  "9876543210",
			FuelBalance:   decimalOf(40),
			TickMarks:     []string{"Bucket"},
		},
	}
}

func TestGenerateChallan_SameContentEveryTime(t *testing.T) {
	tr := dispatchedTransfer()

	first, err := GenerateChallan(tr, time.Now())
	require.NoError(t, err)
	second, err := GenerateChallan(tr, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NotEqual(t, first.GeneratedAt, second.GeneratedAt)
	require.Equal(t, first.Fingerprint(), second.Fingerprint())

	second.GeneratedAt = first.GeneratedAt
	require.Equal(t, first, second)

	require.Equal(t, "DC-3F2A9C1E", first.Number)
	require.Equal(t, "Site Transfer", first.RequestTypeLabel)
	require.Equal(t, "site", first.ToParty.Kind)
	require.Equal(t, "S33", first.ToParty.Code)
	require.Equal(t, model.ChallanNotAvailable, first.ToParty.Address)
	require.Equal(t, "14-Mar-2026", first.ApprovedOn)
	require.Equal(t, "15-Mar-2026", first.DispatchedOn)
	require.Equal(t, "40.00", first.Transport.FuelBalance)
	require.Equal(t, model.ChallanNotAvailable, first.Machine.RegistrationNumber)
	require.Equal(t, model.ChallanTerms, first.Terms)

	require.Len(t, first.Fingerprint(), 64)
	second.Transport.VehicleNumber = "JH02CD5678"
	require.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

func TestGenerateChallan_ApprovedWithoutTransport(t *testing.T) {
	tr := dispatchedTransfer()
	tr.Status = model.StatusApproved
	tr.TransportDetails = nil
	tr.DispatchedAt = nil

	ch, err := GenerateChallan(tr, time.Now())
	require.NoError(t, err)
	require.Equal(t, model.ChallanNotAvailable, ch.Transport.VehicleNumber)
	require.Equal(t, model.ChallanNotAvailable, ch.Transport.DriverName)
	require.Equal(t, model.ChallanNotAvailable, ch.Transport.MobileNumber)
	require.Equal(t, model.ChallanNotAvailable, ch.DispatchedOn)
	require.Empty(t, ch.Transport.TickMarks)
}

func TestGenerateChallan_Parties(t *testing.T) {
	sale := dispatchedTransfer()
	sale.RequestType = model.RequestSell
	sale.DestinationSite, sale.DestinationSiteID = nil, nil
	sale.BuyerDetails = &model.BuyerDetails{BuyerName: "Sharma Traders", BuyerContact: "9000000000", SaleAmount: decimalOf(400000)}

	ch, err := GenerateChallan(sale, time.Now())
	require.NoError(t, err)
	require.Equal(t, "buyer", ch.ToParty.Kind)
	require.Equal(t, "Sharma Traders", ch.ToParty.Name)
	require.Equal(t, "400000.00", ch.ToParty.Amount)
	require.Equal(t, "Four Lakh Rupees Only", ch.ToParty.AmountInWords)

	scrap := dispatchedTransfer()
	scrap.RequestType = model.RequestScrap
	scrap.DestinationSite, scrap.DestinationSiteID = nil, nil
	scrap.ScrapDetails = &model.ScrapDetails{ScrapVendor: "Tata Recyclers"}

	ch, err = GenerateChallan(scrap, time.Now())
	require.NoError(t, err)
	require.Equal(t, "scrap_vendor", ch.ToParty.Kind)
	require.Equal(t, "Tata Recyclers", ch.ToParty.Name)
	require.Equal(t, "0.00", ch.ToParty.Amount)
}

func TestGenerateChallan_NotPrintable(t *testing.T) {
	for _, status := range []model.TransferStatus{model.StatusPending, model.StatusRejected} {
		tr := dispatchedTransfer()
		tr.Status = status
		_, err := GenerateChallan(tr, time.Now())
		require.ErrorIs(t, err, ErrPrecondition)
	}
}

type fakeRenderer struct {
	rendered []*model.Challan
}

func (r *fakeRenderer) HTML(ch *model.Challan) ([]byte, error) {
	return []byte("<html>" + ch.Number + "</html>"), nil
}

func (r *fakeRenderer) PDF(_ context.Context, ch *model.Challan) ([]byte, error) {
	r.rendered = append(r.rendered, ch)
	return []byte("%PDF-1.4 " + ch.Number), nil
}

func TestChallanService_PDFIsArchived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dir := t.TempDir()
	archive, err := storage.NewDiskStore(dir)
	require.NoError(t, err)
	users := repository.NewUserRepo(f.db)
	renderer := &fakeRenderer{}
	challans := NewChallanService(f.transfers, users, renderer, archive)

	tr, err := f.svc.Create(ctx, f.siteTransferInput(), "U0")
	require.NoError(t, err)

	_, err = challans.Challan(ctx, tr.ID)
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = f.svc.Approve(ctx, tr.ID, "U1", "")
	require.NoError(t, err)

	pdf, ch, err := challans.PDF(ctx, tr.ID)
	require.NoError(t, err)
	require.Contains(t, string(pdf), ch.Number)
	require.Equal(t, "U1", ch.ApprovedBy)
	require.Equal(t, "Site S33", ch.ToParty.Name)
	require.Len(t, renderer.rendered, 1)

	files, err := filepath.Glob(filepath.Join(dir, "challans", ch.Number+"-*.pdf"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	stored, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Equal(t, pdf, stored)

	html, err := challans.HTML(ctx, tr.ID)
	require.NoError(t, err)
	require.Contains(t, string(html), ch.Number)

	_, err = challans.Challan(ctx, uuid.New())
	require.ErrorIs(t, err, ErrTransferNotFound)
}
