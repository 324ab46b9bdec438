package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceInput struct {
	Hpp   *decimal.Decimal `json:"hpp" validate:"required,gte=0"`
	Qty   int              `json:"qty_in" validate:"gt=0"`
	Owner uuid.UUID        `json:"owner" validate:"uuid_required"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	errs := ValidateStruct(&priceInput{Hpp: &neg, Qty: 0})

	require.Len(t, errs, 3)
	fields := []string{errs[0].FailedField, errs[1].FailedField, errs[2].FailedField}
	assert.ElementsMatch(t, []string{"hpp", "qty_in", "owner"}, fields)
}

func TestValidateStructAcceptsZeroDecimal(t *testing.T) {
	zero := decimal.Zero
	errs := ValidateStruct(&priceInput{Hpp: &zero, Qty: 1, Owner: uuid.New()})
	assert.Empty(t, errs)
}

func TestValidateStructRequiresDecimalPointer(t *testing.T) {
	errs := ValidateStruct(&priceInput{Qty: 1, Owner: uuid.New()})
	require.Len(t, errs, 1)
	assert.Equal(t, "hpp", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
}
