package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-fleet-ws/internal/document"
	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/storage"
	"go-fleet-ws/pkg/inrwords"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const challanDateLayout = "02-Jan-2006"

// ChallanNumber derives the printed challan number from the transfer id.
func ChallanNumber(id uuid.UUID) string {
	return "DC-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// GenerateChallan snapshots tr into a printable challan. It reads tr only and
// gives the same content for the same transfer; generatedAt is the only varying field.
func GenerateChallan(tr *model.TransferRequest, generatedAt time.Time) (*model.Challan, error) {
	if !tr.Status.CanPrintChallan() {
		return nil, &PreconditionError{Operation: "challan", Status: tr.Status}
	}

	return &model.Challan{
		Number:           ChallanNumber(tr.ID),
		TransferID:       tr.ID,
		RequestType:      tr.RequestType,
		RequestTypeLabel: tr.RequestType.Label(),
		Status:           tr.Status,
		Machine:          challanMachine(tr.Machine),
		FromSite:         challanSite(tr.CurrentSite),
		ToParty:          challanParty(tr),
		Transport:        challanTransport(tr.TransportDetails),
		Reason:           tr.Reason,
		ApprovedBy:       orNA(tr.ApprovedBy),
		ApprovedOn:       challanDate(tr.ApprovedAt),
		DispatchedOn:     challanDate(tr.DispatchedAt),
		Terms:            append([]string{}, model.ChallanTerms...),
		GeneratedAt:      generatedAt,
	}, nil
}

func orNA(s string) string {
	if isBlank(s) {
		return model.ChallanNotAvailable
	}
	return s
}

func challanDate(t *time.Time) string {
	if t == nil {
		return model.ChallanNotAvailable
	}
	return t.Format(challanDateLayout)
}

func challanMachine(m *model.Machine) model.ChallanMachine {
	if m == nil {
		return model.ChallanMachine{
			Name:               model.ChallanNotAvailable,
			Code:               model.ChallanNotAvailable,
			RegistrationNumber: model.ChallanNotAvailable,
			Model:              model.ChallanNotAvailable,
			SerialNumber:       model.ChallanNotAvailable,
		}
	}
	return model.ChallanMachine{
		Name:               orNA(m.Name),
		Code:               orNA(m.Code),
		RegistrationNumber: orNA(m.RegistrationNumber),
		Model:              orNA(m.ModelName),
		SerialNumber:       orNA(m.SerialNumber),
	}
}

func challanSite(s *model.Site) model.ChallanSite {
	if s == nil {
		return model.ChallanSite{Name: model.ChallanNotAvailable, Code: model.ChallanNotAvailable, Address: model.ChallanNotAvailable}
	}
	return model.ChallanSite{Name: orNA(s.Name), Code: orNA(s.Code), Address: orNA(s.Address)}
}

func challanAmount(amount decimal.Decimal) (string, string) {
	return amount.StringFixed(2), inrwords.Rupees(amount)
}

func challanParty(tr *model.TransferRequest) model.ChallanParty {
	switch tr.RequestType {
	case model.RequestSell:
		party := model.ChallanParty{Kind: "buyer", Name: model.ChallanNotAvailable}
		if b := tr.BuyerDetails; b != nil {
			party.Name = orNA(b.BuyerName)
			party.Contact = b.BuyerContact
			party.Address = b.BuyerAddress
			party.Amount, party.AmountInWords = challanAmount(b.SaleAmount)
		}
		return party
	case model.RequestScrap:
		party := model.ChallanParty{Kind: "scrap_vendor", Name: model.ChallanNotAvailable}
		if s := tr.ScrapDetails; s != nil {
			party.Name = orNA(s.ScrapVendor)
			party.Contact = s.ScrapVendorContact
			party.Address = s.ScrapVendorAddress
			party.Amount, party.AmountInWords = challanAmount(s.ScrapValue)
		}
		return party
	default:
		site := challanSite(tr.DestinationSite)
		return model.ChallanParty{Kind: "site", Name: site.Name, Code: site.Code, Address: site.Address}
	}
}

func challanTransport(td *model.TransportDetails) model.ChallanTransport {
	if td == nil {
		return model.ChallanTransport{
			VehicleNumber: model.ChallanNotAvailable,
			DriverName:    model.ChallanNotAvailable,
			MobileNumber:  model.ChallanNotAvailable,
			FuelBalance:   model.ChallanNotAvailable,
			KmsTravelled:  model.ChallanNotAvailable,
			TickMarks:     []string{},
		}
	}
	return model.ChallanTransport{
		VehicleNumber: orNA(td.VehicleNumber),
		DriverName:    orNA(td.DriverName),
		MobileNumber:  orNA(td.MobileNumber),
		FuelBalance:   td.FuelBalance.StringFixed(2),
		KmsTravelled:  td.KmsTravelled.StringFixed(2),
		TickMarks:     append([]string{}, td.TickMarks...),
	}
}

type ChallanService interface {
	Challan(ctx context.Context, id uuid.UUID) (*model.Challan, error)
	HTML(ctx context.Context, id uuid.UUID) ([]byte, error)
	PDF(ctx context.Context, id uuid.UUID) ([]byte, *model.Challan, error)
}

type challanService struct {
	transfers repository.TransferRepository
	users     repository.UserRepository
	renderer  document.Renderer
	archive   storage.ObjectStore
	now       func() time.Time
}

// NewChallanService builds the challan service. users and archive may be nil; without users the
// approver is printed as stored, without archive rendered PDFs are not kept.
func NewChallanService(transfers repository.TransferRepository, users repository.UserRepository, renderer document.Renderer, archive storage.ObjectStore) ChallanService {
	return &challanService{
		transfers: transfers,
		users:     users,
		renderer:  renderer,
		archive:   archive,
		now:       time.Now,
	}
}

func (s *challanService) Challan(ctx context.Context, id uuid.UUID) (*model.Challan, error) {
	tr, err := s.transfers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	ch, err := GenerateChallan(tr, s.now())
	if err != nil {
		return nil, err
	}
	ch.ApprovedBy = s.displayName(tr.ApprovedBy)
	return ch, nil
}

// displayName swaps a user id for the user's full name when it resolves.
func (s *challanService) displayName(actor string) string {
	if s.users == nil {
		return orNA(actor)
	}
	id, err := uuid.Parse(actor)
	if err != nil {
		return orNA(actor)
	}
	user, err := s.users.FindByID(id)
	if err != nil || isBlank(user.FullName) {
		return orNA(actor)
	}
	return user.FullName
}

func (s *challanService) HTML(ctx context.Context, id uuid.UUID) ([]byte, error) {
	ch, err := s.Challan(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.HTML(ch)
}

func (s *challanService) PDF(ctx context.Context, id uuid.UUID) ([]byte, *model.Challan, error) {
	ch, err := s.Challan(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.PDF(ctx, ch)
	if err != nil {
		return nil, nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("challans/%s-%s.pdf", ch.Number, ch.Fingerprint()[:12])
		if ref, err := s.archive.Put(ctx, key, pdf, "application/pdf"); err != nil {
			log.WithError(err).WithField("challan", ch.Number).Warn("challan archive failed")
		} else {
			log.WithFields(log.Fields{"challan": ch.Number, "ref": ref}).Info("challan archived")
		}
	}
	return pdf, ch, nil
}
