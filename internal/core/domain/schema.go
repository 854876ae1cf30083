package domain

// ColumnType is the declared type of a destination column.
type ColumnType string

// Column types used by the destination tables.
const (
	ColumnString  ColumnType = "STRING"
	ColumnInteger ColumnType = "INTEGER"
)

// Column describes one destination column.
type Column struct {
	Name     string
	Type     ColumnType
	Required bool
}

// Column names. Order matters: rows are rendered in this order.
const (
	ColFilerEIN               = "FilerEIN"
	ColFilerName              = "FilerName"
	ColFilerControlText       = "FilerControlText"
	ColFilerPhone             = "FilerPhone"
	ColFilerAddressLine1      = "FilerAddressLine1"
	ColFilerAddressLine2      = "FilerAddressLine2"
	ColFilerCity              = "FilerCity"
	ColFilerStateOrProvince   = "FilerStateOrProvince"
	ColFilerZIP               = "FilerZIP"
	ColFilerTotalAssetsEOYAmt = "FilerTotalAssetsEOYAmt"
	ColFilerTotalCorpusAmt    = "FilerTotalCorpusAmt"
	ColFilerCashEOYAmt        = "FilerCashEOYAmt"

	ColRecipientName            = "RecipientName"
	ColRecipientAddressLine1    = "RecipientAddressLine1"
	ColRecipientAddressLine2    = "RecipientAddressLine2"
	ColRecipientCity            = "RecipientCity"
	ColRecipientStateOrProvince = "RecipientStateOrProvince"
	ColRecipientZIP             = "RecipientZIP"
	ColRecipientCountry         = "RecipientCountry"
	ColRecipientRelationship    = "RecipientRelationship"
	ColPurpose                  = "Purpose"
	ColAmount                   = "Amount"
	ColDonorEIN                 = "DonorEIN"
)

// FilerColumns is the filer table schema: 12 text columns, EIN required.
var FilerColumns = []Column{
	{Name: ColFilerEIN, Type: ColumnString, Required: true},
	{Name: ColFilerName, Type: ColumnString},
	{Name: ColFilerControlText, Type: ColumnString},
	{Name: ColFilerPhone, Type: ColumnString},
	{Name: ColFilerAddressLine1, Type: ColumnString},
	{Name: ColFilerAddressLine2, Type: ColumnString},
	{Name: ColFilerCity, Type: ColumnString},
	{Name: ColFilerStateOrProvince, Type: ColumnString},
	{Name: ColFilerZIP, Type: ColumnString},
	{Name: ColFilerTotalAssetsEOYAmt, Type: ColumnString},
	{Name: ColFilerTotalCorpusAmt, Type: ColumnString},
	{Name: ColFilerCashEOYAmt, Type: ColumnString},
}

// RecipientColumns is the recipient table schema: 10 text columns and an
// integer amount.
var RecipientColumns = []Column{
	{Name: ColRecipientName, Type: ColumnString},
	{Name: ColRecipientAddressLine1, Type: ColumnString},
	{Name: ColRecipientAddressLine2, Type: ColumnString},
	{Name: ColRecipientCity, Type: ColumnString},
	{Name: ColRecipientStateOrProvince, Type: ColumnString},
	{Name: ColRecipientZIP, Type: ColumnString},
	{Name: ColRecipientCountry, Type: ColumnString},
	{Name: ColRecipientRelationship, Type: ColumnString},
	{Name: ColPurpose, Type: ColumnString},
	{Name: ColAmount, Type: ColumnInteger},
	{Name: ColDonorEIN, Type: ColumnString},
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
