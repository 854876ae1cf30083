// Package rows renders extracted records into column-ordered row values
// shared by every table writer.
//
// Absent text renders as a nil value so each destination stores NULL.
package rows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// Filer renders f in domain.FilerColumns order.
func Filer(f domain.FilerRecord) []any {
	return []any{
		f.EIN,
		value(f.Name),
		value(f.ControlText),
		value(f.Phone),
		value(f.Address.Line1),
		value(f.Address.Line2),
		value(f.Address.City),
		value(f.Address.StateOrProvince),
		value(f.Address.ZIP),
		value(f.TotalAssetsEOYAmt),
		value(f.TotalCorpusAmt),
		value(f.CashEOYAmt),
	}
}

// Filers renders every filer in order.
func Filers(recs []domain.FilerRecord) [][]any {
	out := make([][]any, len(recs))
	for i, f := range recs {
		out[i] = Filer(f)
	}
	return out
}

// Recipient renders r in domain.RecipientColumns order. The only failure
// is an amount that does not fit the integer column.
func Recipient(r domain.RecipientRecord) ([]any, error) {
	amt, err := Amount(r.Amount)
	if err != nil {
		return nil, err
	}

	var amount any
	if amt != nil {
		amount = *amt
	}

	return []any{
		value(r.Name),
		value(r.Address.Line1),
		value(r.Address.Line2),
		value(r.Address.City),
		value(r.Address.StateOrProvince),
		value(r.Address.ZIP),
		value(r.Address.Country),
		value(r.Relationship),
		value(r.Purpose),
		amount,
		value(r.FilerEIN),
	}, nil
}

// Recipients renders every recipient in order. If any row is invalid no
// rows are returned and the error joins one *domain.RowError per bad row.
func Recipients(table string, recs []domain.RecipientRecord) ([][]any, error) {
	out := make([][]any, len(recs))
	var errs []error
	for i, r := range recs {
		row, err := Recipient(r)
		if err != nil {
			errs = append(errs, &domain.RowError{
				Table:  table,
				Row:    i,
				Column: domain.ColAmount,
				Err:    err,
			})
			continue
		}
		out[i] = row
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Amount converts the text of a grant amount to an integer.
// A nil amount stays nil. Surrounding whitespace is ignored and a zero
// fraction such as "1500.00" is accepted.
func Amount(p *string) (*int64, error) {
	if p == nil {
		return nil, nil
	}

	s := strings.TrimSpace(*p)
	if s == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, *p)
	}
	if !d.IsInteger() {
		return nil, fmt.Errorf("%w: %q is not a whole number", domain.ErrInvalidAmount, *p)
	}

	bi := d.BigInt()
	if !bi.IsInt64() {
		return nil, fmt.Errorf("%w: %q is out of range", domain.ErrInvalidAmount, *p)
	}

	n := bi.Int64()
	return &n, nil
}

// Map pairs row values with column names.
func Map(cols []domain.Column, row []any) map[string]any {
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		m[c.Name] = row[i]
	}
	return m
}

func value(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
