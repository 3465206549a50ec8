package document

import (
	"testing"
	"time"

	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestChromeRenderer_HTML(t *testing.T) {
	ch := &model.Challan{
		Number:           "DC-1A2B3C4D",
		TransferID:       uuid.New(),
		RequestType:      model.RequestSell,
		RequestTypeLabel: "Sell",
		Status:           model.StatusApproved,
		Machine:          model.ChallanMachine{Name: "Excavator", Code: "M1"},
		FromSite:         model.ChallanSite{Name: "Site 35", Code: "S35"},
		ToParty: model.ChallanParty{
			Kind:          "buyer",
			Name:          "Sharma & Sons",
			Amount:        "400000.00",
			AmountInWords: "Four Lakh Rupees Only",
		},
		Transport: model.ChallanTransport{
			VehicleNumber: model.ChallanNotAvailable,
			DriverName:    model.ChallanNotAvailable,
			MobileNumber:  model.ChallanNotAvailable,
			FuelBalance:   model.ChallanNotAvailable,
			KmsTravelled:  model.ChallanNotAvailable,
			TickMarks:     []string{},
		},
		ApprovedBy:  "U1",
		ApprovedOn:  "15-Oct-2026",
		Terms:       model.ChallanTerms,
		GeneratedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}

	html, err := NewChromeRenderer(time.Second).HTML(ch)
	require.NoError(t, err)

	out := string(html)
	require.Contains(t, out, "Delivery Challan (Sell)")
	require.Contains(t, out, "DC-1A2B3C4D")
	require.Contains(t, out, "To (Buyer)")
	require.Contains(t, out, "Sharma &amp; Sons")
	require.Contains(t, out, "Four Lakh Rupees Only")
	require.Contains(t, out, "<td>N/A</td>")
	require.Contains(t, out, model.ChallanTerms[0])
	require.Contains(t, out, "15-Oct-2026 09:30")
}
