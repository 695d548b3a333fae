package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codmCandidate() Candidate {
	return Candidate{
		ID:           "codm-400",
		Kind:         ItemKindGame,
		ProductID:    "codm",
		PackageID:    "codm-400",
		Name:         "Call of Duty Mobile",
		PackageLabel: "400 CP",
		UnitPrice:    500,
	}
}

func netflixCandidate() Candidate {
	return Candidate{
		ID:           "netflix-1m",
		Kind:         ItemKindSubscription,
		ProductID:    "netflix",
		PackageID:    "netflix-1m",
		Name:         "Netflix",
		PackageLabel: "1 Month",
		UnitPrice:    650,
	}
}

func TestAddItemMergesSameID(t *testing.T) {
	state := NewState()

	state.AddItem(codmCandidate())
	state.AddItem(codmCandidate())
	state.AddItem(codmCandidate())

	assert.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
}

func TestAddItemKeepsOriginalPriceAndName(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	changed := codmCandidate()
	changed.UnitPrice = 999
	changed.Name = "CODM Renamed"
	state.AddItem(changed)

	assert.Equal(t, int64(500), state.Items[0].UnitPrice)
	assert.Equal(t, "Call of Duty Mobile", state.Items[0].Name)
	assert.Equal(t, 2, state.Items[0].Quantity)
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())
	state.AddItem(netflixCandidate())
	state.AddItem(codmCandidate())

	assert.Len(t, state.Items, 2)
	assert.Equal(t, "codm-400", state.Items[0].ID)
	assert.Equal(t, "netflix-1m", state.Items[1].ID)
}

func TestTotals(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())
	state.AddItem(codmCandidate())
	state.AddItem(netflixCandidate())

	assert.Equal(t, 3, state.TotalItems())
	assert.Equal(t, int64(2*500+650), state.TotalPrice())

	totals := state.Summarize()
	assert.Equal(t, 2, totals.LineCount)
	assert.Equal(t, 3, totals.TotalItems)
	assert.Equal(t, int64(1650), totals.TotalPrice)
}

func TestScenarioDoubleAddPrice(t *testing.T) {
	// cart has {id: codm-400, unitPrice: 500, qty: 1}; adding the same id
	// again yields qty 2 and total 1000
	state := NewState()
	state.AddItem(codmCandidate())
	state.AddItem(codmCandidate())

	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, int64(1000), state.TotalPrice())
}

func TestUpdateQuantityExactSet(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.UpdateQuantity("codm-400", 7)

	assert.Equal(t, 7, state.Items[0].Quantity)
	assert.Equal(t, int64(3500), state.TotalPrice())
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.UpdateQuantity("codm-400", 0)

	assert.Empty(t, state.Items)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.UpdateQuantity("codm-400", -1)

	assert.Empty(t, state.Items)
	for _, item := range state.Items {
		assert.Positive(t, item.Quantity)
	}
}

func TestUpdateQuantityCapped(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.UpdateQuantity("codm-400", MaxLineQuantity+50)

	assert.Equal(t, MaxLineQuantity, state.Items[0].Quantity)
}

func TestUpdateQuantityUnknownIDNoop(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.UpdateQuantity("missing", 5)

	assert.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())

	state.RemoveItem("missing")

	assert.Len(t, state.Items, 1)
}

func TestClear(t *testing.T) {
	state := NewState()
	state.AddItem(codmCandidate())
	state.AddItem(netflixCandidate())

	state.Clear()

	assert.True(t, state.IsEmpty())
	assert.Equal(t, 0, state.TotalItems())
	assert.Equal(t, int64(0), state.TotalPrice())
}
