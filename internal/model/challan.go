package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChallanNotAvailable is printed in place of any transport field that was never recorded.
const ChallanNotAvailable = "N/A"

// ChallanTerms is the fixed terms block printed on every challan.
var ChallanTerms = []string{
	"The machine is handed over in the condition recorded on this challan.",
	"The receiver must verify the machine against this challan before signing.",
	"Any damage or shortage must be noted in the receipt remarks.",
	"This challan is not a tax invoice.",
}

type ChallanMachine struct {
	Name               string `json:"name"`
	Code               string `json:"code"`
	RegistrationNumber string `json:"registration_number"`
	Model              string `json:"model"`
	SerialNumber       string `json:"serial_number"`
}

type ChallanSite struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
}

// ChallanParty is the receiving side: a destination site, a buyer or a scrap vendor.
type ChallanParty struct {
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	Code          string `json:"code,omitempty"`
	Contact       string `json:"contact,omitempty"`
	Address       string `json:"address,omitempty"`
	Amount        string `json:"amount,omitempty"`
	AmountInWords string `json:"amount_in_words,omitempty"`
}

type ChallanTransport struct {
	VehicleNumber string   `json:"vehicle_number"`
	DriverName    string   `json:"driver_name"`
	MobileNumber  string   `json:"mobile_number"`
	FuelBalance   string   `json:"fuel_balance"`
	KmsTravelled  string   `json:"kms_travelled"`
	TickMarks     []string `json:"tick_marks"`
}

// Challan is the printable snapshot of a transfer. It holds only formatted values so that
// two challans built from the same transfer encode identically.
type Challan struct {
	Number           string           `json:"number"`
	TransferID       uuid.UUID        `json:"transfer_id"`
	RequestType      RequestType      `json:"request_type"`
	RequestTypeLabel string           `json:"request_type_label"`
	Status           TransferStatus   `json:"status"`
	Machine          ChallanMachine   `json:"machine"`
	FromSite         ChallanSite      `json:"from_site"`
	ToParty          ChallanParty     `json:"to_party"`
	Transport        ChallanTransport `json:"transport"`
	Reason           string           `json:"reason,omitempty"`
	ApprovedBy       string           `json:"approved_by"`
	ApprovedOn       string           `json:"approved_on"`
	DispatchedOn     string           `json:"dispatched_on"`
	Terms            []string         `json:"terms"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// Fingerprint hashes the challan content with the generation stamp left out.
func (c Challan) Fingerprint() string {
	c.GeneratedAt = time.Time{}
	data, err := json.Marshal(c)
	if err != nil {
		panic("challan: marshal for fingerprint: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
