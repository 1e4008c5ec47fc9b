package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superior-tools/crm-resolver/internal/model"
)

func TestAssembleRows(t *testing.T) {
	groups := []model.LeadGroup{
		{Key: "Anna Lopez", Leads: []model.LeadRef{{ID: 1, Name: "Anna Lopez"}}},
		{Key: "John Smith", Leads: []model.LeadRef{{ID: 2, Name: "John Smith"}}},
	}
	contracts := map[int64][]model.ContractSummary{
		1: {
			{ID: 10, Subtotal: 900, Total: 1030, Discount: model.Discount{RepPriceAdjustment: 50, ACHDiscount: 20, Rate: 0.1}},
			{ID: 11, Subtotal: 100, Total: 100},
		},
		// Lead 2 has no contracts.
	}

	rows := AssembleRows(groups, contracts)

	require.Len(t, rows, 3)

	assert.Equal(t, "Anna Lopez", rows[0].Query)
	assert.Equal(t, int64(1), rows[0].LeadID)
	require.NotNil(t, rows[0].ContractID)
	assert.Equal(t, int64(10), *rows[0].ContractID)
	assert.Equal(t, 1030.0, rows[0].Total)
	assert.Equal(t, 50.0, rows[0].RepDiscount)
	assert.Equal(t, 20.0, rows[0].ACHDiscount)
	assert.Equal(t, 0.1, rows[0].DiscountRate)

	require.NotNil(t, rows[1].ContractID)
	assert.Equal(t, int64(11), *rows[1].ContractID)

	// Contractless lead contributes exactly one placeholder row.
	assert.Equal(t, "John Smith", rows[2].Query)
	assert.Equal(t, int64(2), rows[2].LeadID)
	assert.Nil(t, rows[2].ContractID)
	assert.Zero(t, rows[2].Subtotal)
	assert.Zero(t, rows[2].Total)
}

func TestAssembleRows_RowCountInvariant(t *testing.T) {
	// For any group, rows emitted == max(1, contracts) per lead.
	groups := []model.LeadGroup{
		{Key: "g", Leads: []model.LeadRef{{ID: 1}, {ID: 2}, {ID: 3}}},
	}
	contracts := map[int64][]model.ContractSummary{
		1: {{ID: 10}, {ID: 11}, {ID: 12}},
		2: {},
	}

	rows := AssembleRows(groups, contracts)

	assert.Len(t, rows, 5) // 3 + 1 + 1
}

func TestAssembleRows_DegenerateFlagCarriesThrough(t *testing.T) {
	groups := []model.LeadGroup{{Key: "g", Leads: []model.LeadRef{{ID: 1}}}}
	contracts := map[int64][]model.ContractSummary{
		1: {{ID: 10, Subtotal: 900, Degenerate: true, Discount: model.Discount{Rate: 1}}},
	}

	rows := AssembleRows(groups, contracts)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].DegenerateDiscount)
	assert.Zero(t, rows[0].Total)
}
