// Package irs990pf extracts filer and grant recipient records from
// IRS Form 990-PF e-file returns.
//
// Elements are matched by local name. Every 990-PF return declares the
// e-file namespace (http://www.irs.gov/efile) as its default namespace.
package irs990pf

import (
	"errors"
	"strings"

	"github.com/beevik/etree"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.RecordExtractor = (*Extractor)(nil)

// Element names within a return.
const (
	tagHeader     = "ReturnHeader"
	tagFiler      = "Filer"
	tagGrant      = "GrantOrContributionPdDurYrGrp"
	tagTotalAsset = "TotalAssetsEOYAmt"
	tagCorpus     = "TotalCorpusAmt"
	tagCash       = "CashEOYAmt"

	nameLine1 = "BusinessNameLine1Txt"
	nameLine2 = "BusinessNameLine2Txt"
)

var (
	errNoRoot        = errors.New("document has no root element")
	errJunkAfterRoot = errors.New("junk after document element")
)

// Extractor handles 990-PF returns.
type Extractor struct{}

// New creates a new 990-PF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses a return and returns its filer and recipients.
// Only unparseable markup is an error; absent elements yield nil fields.
func (x *Extractor) Extract(content []byte) (*domain.Extraction, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, domain.NewParseError("parse", "", err)
	}
	if err := checkSingleRoot(doc); err != nil {
		return nil, domain.NewParseError("parse", "", err)
	}

	filer := extractFiler(doc)

	var filerEIN *string
	if filer != nil {
		filerEIN = domain.Text(filer.EIN)
		logger.Debug("Extracted filer EIN %s", filer.EIN)
	}

	recipients := []domain.RecipientRecord{}
	walk(&doc.Element, func(e *etree.Element) bool {
		if e.Tag == tagGrant {
			recipients = append(recipients, extractRecipient(e, filerEIN))
		}
		return true
	})
	logger.Debug("Extracted %d grant recipients", len(recipients))

	return &domain.Extraction{
		Filer:      filer,
		Recipients: recipients,
	}, nil
}

// extractFiler reads the first filer block. It returns nil when the block
// is missing or carries no EIN.
func extractFiler(doc *etree.Document) *domain.FilerRecord {
	var filer *etree.Element
	walk(&doc.Element, func(e *etree.Element) bool {
		if e.Tag == tagHeader {
			filer = e.SelectElement(tagFiler)
		}
		return filer == nil
	})
	if filer == nil {
		return nil
	}

	ein := text(filer, "EIN")
	if ein == nil || strings.TrimSpace(*ein) == "" {
		return nil
	}

	rec := &domain.FilerRecord{
		EIN:         *ein,
		Name:        businessName(filer.SelectElement("BusinessName")),
		ControlText: text(filer, "BusinessNameControlTxt"),
		Phone:       text(filer, "PhoneNum"),

		// Totals live in the financial schedules, not the header.
		TotalAssetsEOYAmt: firstText(&doc.Element, tagTotalAsset),
		TotalCorpusAmt:    firstText(&doc.Element, tagCorpus),
		CashEOYAmt:        firstText(&doc.Element, tagCash),
	}

	if us := filer.SelectElement("USAddress"); us != nil {
		rec.Address = domain.Address{
			Line1:           text(us, "AddressLine1Txt"),
			Line2:           text(us, "AddressLine2Txt"),
			City:            text(us, "CityNm"),
			StateOrProvince: text(us, "StateAbbreviationCd"),
			ZIP:             text(us, "ZIPCd"),
		}
	}

	return rec
}

// extractRecipient reads one grant entry.
func extractRecipient(grp *etree.Element, filerEIN *string) domain.RecipientRecord {
	rec := domain.RecipientRecord{
		Relationship: text(grp, "RecipientRelationshipTxt"),
		Purpose:      text(grp, "GrantOrContributionPurposeTxt"),
		Amount:       text(grp, "Amt"),
		FilerEIN:     filerEIN,
	}

	if bn := grp.SelectElement("RecipientBusinessName"); bn != nil {
		rec.Name = businessName(bn)
	} else {
		rec.Name = text(grp, "RecipientPersonNm")
	}

	if us := grp.SelectElement("RecipientUSAddress"); us != nil {
		rec.Address.Line1 = text(us, "AddressLine1Txt")
		rec.Address.Line2 = text(us, "AddressLine2Txt")
		rec.Address.City = text(us, "CityNm")
		rec.Address.StateOrProvince = text(us, "StateAbbreviationCd")
		rec.Address.ZIP = text(us, "ZIPCd")
		rec.Address.Country = domain.Text(domain.CountryUS)
	}

	// A foreign block overwrites whatever the US block set, except ZIP.
	if fa := grp.SelectElement("RecipientForeignAddress"); fa != nil {
		rec.Address.Line1 = text(fa, "AddressLine1Txt")
		rec.Address.Line2 = text(fa, "AddressLine2Txt")
		rec.Address.City = text(fa, "CityNm")
		rec.Address.StateOrProvince = text(fa, "ProvinceOrStateNm")
		rec.Address.Country = text(fa, "CountryCd")
	}

	return rec
}

// businessName joins the name lines of a BusinessName-shaped element.
func businessName(e *etree.Element) *string {
	if e == nil {
		return nil
	}
	return domain.JoinNameLines(text(e, nameLine1), text(e, nameLine2))
}

// checkSingleRoot rejects documents with anything but one root element
// surrounded by whitespace, comments and processing instructions.
func checkSingleRoot(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return errJunkAfterRoot
			}
		}
	}
	switch {
	case roots == 0:
		return errNoRoot
	case roots > 1:
		return errJunkAfterRoot
	}
	return nil
}

// walk visits the elements below parent in document order. Returning false
// from fn stops the walk.
func walk(parent *etree.Element, fn func(*etree.Element) bool) bool {
	for _, tok := range parent.Child {
		e, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if !fn(e) || !walk(e, fn) {
			return false
		}
	}
	return true
}

// firstText returns the text of the first element named tag below parent
// in document order, or nil when there is none.
func firstText(parent *etree.Element, tag string) *string {
	var found *string
	walk(parent, func(e *etree.Element) bool {
		if e.Tag == tag {
			found = domain.Text(e.Text())
		}
		return found == nil
	})
	return found
}

// text returns the text of the first element at path below parent,
// or nil when there is none.
func text(parent *etree.Element, path string) *string {
	if parent == nil {
		return nil
	}
	e := parent.FindElement(path)
	if e == nil {
		return nil
	}
	return domain.Text(e.Text())
}
