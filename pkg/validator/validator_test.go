package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Vehicle string          `json:"vehicle_number" validate:"notblank"`
	SiteID  uuid.UUID       `json:"site_id" validate:"uuid_required"`
	Fuel    decimal.Decimal `json:"fuel_balance" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  sample
		fields []string
	}{
		{
			name:   "valid",
			input:  sample{Vehicle: "JH01AB1234", SiteID: uuid.New(), Fuel: decimal.NewFromInt(40)},
			fields: []string{},
		},
		{
			name:   "blank vehicle",
			input:  sample{Vehicle: "   ", SiteID: uuid.New()},
			fields: []string{"vehicle_number"},
		},
		{
			name:   "nil uuid and negative fuel",
			input:  sample{Vehicle: "X", Fuel: decimal.NewFromInt(-1)},
			fields: []string{"site_id", "fuel_balance"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errs := ValidateStruct(test.input)
			require.ElementsMatch(t, test.fields, FailedFields(errs))
		})
	}
}
