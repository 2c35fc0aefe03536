package rfd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshq/orgsync/internal/rfd"
	"github.com/opshq/orgsync/pkg/errors"
)

const indexCSV = `num,title,link,state,discussion
3,Service Discovery,https://rfd.example.com/3,published,https://github.com/exampleorg/rfd/pull/12
1,RFD Process,https://rfd.example.com/1,published,
12,Batch Sync Jobs,https://rfd.example.com/12,discussion,https://github.com/exampleorg/rfd/pull/40
`

type fakeFetcher struct {
	content string
	err     error
}

func (f *fakeFetcher) RepoFileContent(context.Context, string, string) (string, error) {
	return f.content, f.err
}

func TestParseIndexOrdersByNumber(t *testing.T) {
	index, err := rfd.ParseIndex(indexCSV)
	require.NoError(t, err)

	assert.Equal(t, 3, index.Len())
	assert.Equal(t, []int{1, 3, 12}, index.Numbers())

	r, ok := index.Get(12)
	require.True(t, ok)
	assert.Equal(t, "Batch Sync Jobs", r.Title)
	assert.Equal(t, "discussion", r.State)

	_, ok = index.Get(99)
	assert.False(t, ok)
}

func TestParseIndexNonNumericKeyIsFatal(t *testing.T) {
	_, err := rfd.ParseIndex("num,title,link,state,discussion\nabc,Bad,https://x,published,\n")
	require.Error(t, err)

	var parseErr *errors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "non-numeric")
}

func TestParseIndexShortRowIsFatal(t *testing.T) {
	_, err := rfd.ParseIndex("num,title,link,state,discussion\n1,Only Title\n")
	require.Error(t, err)
}

func TestParseIndexEmptyIsFatal(t *testing.T) {
	_, err := rfd.ParseIndex("")
	require.Error(t, err)
}

func TestLoadIndex(t *testing.T) {
	index, err := rfd.LoadIndex(context.Background(), &fakeFetcher{content: indexCSV})
	require.NoError(t, err)
	assert.Equal(t, 3, index.Len())
}

func TestLoadIndexFetchFailure(t *testing.T) {
	fetchErr := &errors.APIError{Service: "github", StatusCode: 404, Message: "Not Found"}
	_, err := rfd.LoadIndex(context.Background(), &fakeFetcher{err: fetchErr})
	require.Error(t, err)

	var apiErr *errors.APIError
	assert.True(t, errors.As(err, &apiErr))
}
