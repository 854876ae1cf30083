package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

func TestAggregator_Empty(t *testing.T) {
	a := NewAggregator()

	assert.Empty(t, a.Filers())
	assert.Empty(t, a.Recipients())
	assert.Zero(t, a.FilerCount())
	assert.Zero(t, a.RecipientCount())
}

func TestAggregator_AddNil(t *testing.T) {
	a := NewAggregator()
	a.Add(nil)
	assert.Zero(t, a.RecipientCount())
}

func TestAggregator_LastWriteWins(t *testing.T) {
	a := NewAggregator()

	a.Add(&domain.Extraction{Filer: &domain.FilerRecord{
		EIN:   "1",
		Name:  domain.Text("First"),
		Phone: domain.Text("555"),
	}})
	a.Add(&domain.Extraction{Filer: &domain.FilerRecord{EIN: "2", Name: domain.Text("Other")}})
	a.Add(&domain.Extraction{Filer: &domain.FilerRecord{EIN: "1", Name: domain.Text("Second")}})

	filers := a.Filers()
	require.Len(t, filers, 2)
	assert.Equal(t, "1", filers[0].EIN, "position is where the EIN was first seen")
	assert.Equal(t, "Second", domain.Deref(filers[0].Name))
	assert.Nil(t, filers[0].Phone, "records are replaced whole, not merged")
	assert.Equal(t, "2", filers[1].EIN)
}

func TestAggregator_RecipientsAppend(t *testing.T) {
	a := NewAggregator()

	a.Add(&domain.Extraction{Recipients: []domain.RecipientRecord{
		{Name: domain.Text("a")}, {Name: domain.Text("b")},
	}})
	a.Add(&domain.Extraction{})
	a.Add(&domain.Extraction{Recipients: []domain.RecipientRecord{
		{Name: domain.Text("a")},
	}})

	recipients := a.Recipients()
	require.Len(t, recipients, 3)
	assert.Equal(t, "a", domain.Deref(recipients[0].Name))
	assert.Equal(t, "b", domain.Deref(recipients[1].Name))
	assert.Equal(t, "a", domain.Deref(recipients[2].Name), "duplicates are kept")
	assert.Equal(t, 3, a.RecipientCount())
}

func TestAggregator_RecipientsWithoutFiler(t *testing.T) {
	a := NewAggregator()

	a.Add(&domain.Extraction{Recipients: []domain.RecipientRecord{{Amount: domain.Text("1")}}})

	assert.Zero(t, a.FilerCount())
	assert.Equal(t, 1, a.RecipientCount())
}

func TestAggregator_RecipientsReturnsCopy(t *testing.T) {
	a := NewAggregator()
	a.Add(&domain.Extraction{Recipients: []domain.RecipientRecord{{Name: domain.Text("a")}}})

	got := a.Recipients()
	got[0].Name = domain.Text("changed")

	assert.Equal(t, "a", domain.Deref(a.Recipients()[0].Name))
}
