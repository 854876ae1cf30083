package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

func TestIndexPeekCmd_DefaultLines(t *testing.T) {
	idx := &mockIndexService{lines: []string{"[", `{"FormType":"990PF","URL":"https://e/1.xml"}`}}
	withServices(t, &Services{Index: idx})

	out, err := execute(t, "index", "peek")
	require.NoError(t, err)

	assert.Equal(t, 50, idx.peekN)
	assert.Contains(t, out, `"URL":"https://e/1.xml"`)
}

func TestIndexPeekCmd_Lines(t *testing.T) {
	idx := &mockIndexService{}
	withServices(t, &Services{Index: idx})

	_, err := execute(t, "index", "peek", "--lines", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, idx.peekN)
}

func TestIndexPeekCmd_Error(t *testing.T) {
	withServices(t, &Services{Index: &mockIndexService{err: domain.ErrIndexNotFound}})

	_, err := execute(t, "index", "peek")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestIndexListCmd(t *testing.T) {
	idx := &mockIndexService{entries: []domain.IndexEntry{
		{FormType: "990PF", URL: "https://e/1.xml", EIN: "111111111", TaxPeriod: "202312", OrganizationName: "Alpha Fund"},
		{FormType: "990PF", URL: "https://e/2.xml", EIN: "222222222"},
	}}
	withServices(t, &Services{Index: idx})

	out, err := execute(t, "index", "list")
	require.NoError(t, err)

	assert.Equal(t, domain.FormType990PF, idx.formType)
	assert.Contains(t, out, "111111111")
	assert.Contains(t, out, "Alpha Fund")
	assert.Contains(t, out, "https://e/2.xml")
	assert.Contains(t, out, "2 990PF entries in s3://bucket/index.json")
}

func TestIndexListCmd_FormType(t *testing.T) {
	idx := &mockIndexService{}
	withServices(t, &Services{Index: idx})

	out, err := execute(t, "index", "list", "--form-type", "990EZ")
	require.NoError(t, err)
	assert.Equal(t, "990EZ", idx.formType)
	assert.Contains(t, out, "0 990EZ entries")
}
