package domain

// FormType990PF is the index type code for private foundation returns.
const FormType990PF = "990PF"

// IndexEntry is one row of the e-file index object.
// Only FormType and URL are relied on; the remaining fields are carried
// for listing and logging when the index provides them.
type IndexEntry struct {
	// FormType is the return type code (e.g., "990PF", "990", "990EZ").
	FormType string `json:"FormType"`

	// URL locates the XML document.
	URL string `json:"URL"`

	// EIN is the filer's employer identification number.
	EIN string `json:"EIN,omitempty"`

	// TaxPeriod is the period covered, as YYYYMM.
	TaxPeriod string `json:"TaxPeriod,omitempty"`

	// OrganizationName is the filer name recorded in the index.
	OrganizationName string `json:"OrganizationName,omitempty"`

	// ObjectID is the e-file object identifier.
	ObjectID string `json:"ObjectId,omitempty"`
}

// Locators projects the URL of each entry, preserving order.
func Locators(entries []IndexEntry) []string {
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls
}
