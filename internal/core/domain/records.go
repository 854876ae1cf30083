package domain

// CountryUS is the country marker for recipients with a domestic address block.
const CountryUS = "US"

// Optional text is carried as *string throughout. A nil pointer means the
// element was absent from the document; a pointer to "" means the element
// was present with no text. Neither is ever replaced by a placeholder.

// Text returns a pointer to s.
func Text(s string) *string {
	return &s
}

// Deref returns the text behind p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Address is a postal address as read from a return.
// Country is only populated for recipients.
type Address struct {
	Line1           *string `json:"line1"`
	Line2           *string `json:"line2"`
	City            *string `json:"city"`
	StateOrProvince *string `json:"state_or_province"`
	ZIP             *string `json:"zip"`
	Country         *string `json:"country"`
}

// IsEmpty returns true if no address field is present.
func (a Address) IsEmpty() bool {
	return a.Line1 == nil && a.Line2 == nil && a.City == nil &&
		a.StateOrProvince == nil && a.ZIP == nil && a.Country == nil
}

// FilerRecord is the private foundation that filed the return.
type FilerRecord struct {
	// EIN identifies the filer across documents. Always non-empty.
	EIN string `json:"ein"`

	// Name is derived from the two business name lines.
	Name *string `json:"name"`

	// ControlText is the IRS name control.
	ControlText *string `json:"control_text"`

	Phone   *string `json:"phone"`
	Address Address `json:"address"`

	// Year-end totals, kept as the text found in the return.
	TotalAssetsEOYAmt *string `json:"total_assets_eoy_amt"`
	TotalCorpusAmt    *string `json:"total_corpus_amt"`
	CashEOYAmt        *string `json:"cash_eoy_amt"`
}

// RecipientRecord is one grant or contribution paid during the year.
type RecipientRecord struct {
	Name         *string `json:"name"`
	Address      Address `json:"address"`
	Relationship *string `json:"relationship"`
	Purpose      *string `json:"purpose"`

	// Amount is the text found in the return. It is converted to an
	// integer only when written.
	Amount *string `json:"amount"`

	// FilerEIN refers back to the filer. It is a lookup key only and is
	// nil when the document had no filer identifier.
	FilerEIN *string `json:"filer_ein"`
}

// Extraction is what one document yields: at most one filer and zero or
// more recipients in document order.
type Extraction struct {
	// Filer is nil when the document has no filer block or no EIN.
	Filer      *FilerRecord      `json:"filer"`
	Recipients []RecipientRecord `json:"recipients"`
}

// JoinNameLines applies the two-line naming rule shared by filers and
// recipients: the second line is appended after a single space when it is
// present and non-empty, otherwise the first line stands alone.
func JoinNameLines(line1, line2 *string) *string {
	if line2 == nil || *line2 == "" {
		return line1
	}
	if line1 == nil {
		return line2
	}
	return Text(*line1 + " " + *line2)
}
