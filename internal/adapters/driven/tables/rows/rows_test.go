package rows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected *int64
		wantErr  bool
	}{
		{name: "absent", input: nil, expected: nil},
		{name: "whole number", input: domain.Text("1500"), expected: int64Ptr(1500)},
		{name: "surrounding whitespace", input: domain.Text(" 1500.00 "), expected: int64Ptr(1500)},
		{name: "zero", input: domain.Text("0"), expected: int64Ptr(0)},
		{name: "negative", input: domain.Text("-25"), expected: int64Ptr(-25)},
		{name: "thousands separator", input: domain.Text("2,000"), wantErr: true},
		{name: "fraction", input: domain.Text("10.5"), wantErr: true},
		{name: "empty", input: domain.Text(""), wantErr: true},
		{name: "whitespace only", input: domain.Text("   "), wantErr: true},
		{name: "text", input: domain.Text("ten"), wantErr: true},
		{name: "overflow", input: domain.Text("99999999999999999999"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Amount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidAmount)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFiler(t *testing.T) {
	f := domain.FilerRecord{
		EIN:  "123456789",
		Name: domain.Text("Acme Trust"),
		Address: domain.Address{
			City: domain.Text(""),
			ZIP:  domain.Text("62701"),
		},
		CashEOYAmt: domain.Text("25000"),
	}

	row := Filer(f)
	require.Len(t, row, len(domain.FilerColumns))
	assert.Equal(t, "123456789", row[0])
	assert.Equal(t, "Acme Trust", row[1])
	assert.Nil(t, row[2])
	assert.Nil(t, row[4])
	assert.Equal(t, "", row[6], "present but empty stays empty")
	assert.Equal(t, "62701", row[8])
	assert.Equal(t, "25000", row[11])
}

func TestRecipient(t *testing.T) {
	r := domain.RecipientRecord{
		Name:     domain.Text("Food Bank"),
		Address:  domain.Address{Country: domain.Text("US")},
		Purpose:  domain.Text("GENERAL"),
		Amount:   domain.Text("5000"),
		FilerEIN: domain.Text("123456789"),
	}

	row, err := Recipient(r)
	require.NoError(t, err)
	require.Len(t, row, len(domain.RecipientColumns))
	assert.Equal(t, "Food Bank", row[0])
	assert.Equal(t, "US", row[6])
	assert.Nil(t, row[7])
	assert.Equal(t, "GENERAL", row[8])
	assert.Equal(t, int64(5000), row[9])
	assert.Equal(t, "123456789", row[10])
}

func TestRecipient_NullAmountAndDonor(t *testing.T) {
	row, err := Recipient(domain.RecipientRecord{})
	require.NoError(t, err)
	assert.Nil(t, row[9])
	assert.Nil(t, row[10])
}

func TestRecipients_InvalidRowFailsAll(t *testing.T) {
	recs := []domain.RecipientRecord{
		{Amount: domain.Text("10")},
		{Amount: domain.Text("1,000")},
		{Amount: domain.Text("20")},
		{Amount: domain.Text("2.5")},
	}

	out, err := Recipients("recipients", recs)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	var rowErr *domain.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "recipients", rowErr.Table)
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, domain.ColAmount, rowErr.Column)
	assert.Contains(t, err.Error(), "row 3")
}

func TestRecipients_AllValid(t *testing.T) {
	recs := []domain.RecipientRecord{
		{Amount: domain.Text("10")},
		{Amount: nil},
	}

	out, err := Recipients("recipients", recs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(10), out[0][9])
	assert.Nil(t, out[1][9])
}

func TestFilers(t *testing.T) {
	out := Filers([]domain.FilerRecord{{EIN: "1"}, {EIN: "2"}})
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0][0])
	assert.Equal(t, "2", out[1][0])
	assert.Empty(t, Filers(nil))
}

func TestMap(t *testing.T) {
	m := Map(domain.FilerColumns, Filer(domain.FilerRecord{EIN: "42"}))
	assert.Len(t, m, len(domain.FilerColumns))
	assert.Equal(t, "42", m[domain.ColFilerEIN])
	assert.Nil(t, m[domain.ColFilerName])
}

func int64Ptr(n int64) *int64 {
	return &n
}
