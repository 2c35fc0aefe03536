// Package rfd tracks Requests for Discussion. The index lives as a CSV
// file in the org's rfd repository; this package fetches and parses it
// into an ordered in-memory index.
package rfd

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/opshq/orgsync/pkg/errors"
)

// IndexPath is the location of the index CSV within the rfd repository.
const IndexPath = ".helpers/rfd.csv"

// IndexRepo is the repository holding the index.
const IndexRepo = "rfd"

// RFD is one row of the index.
type RFD struct {
	Number     int
	Title      string
	Link       string
	State      string
	Discussion string
}

// Index holds the parsed RFDs, addressable by number and iterable in
// ascending number order.
type Index struct {
	byNumber map[int]RFD
	numbers  []int
}

// Numbers returns the RFD numbers in ascending order.
func (i *Index) Numbers() []int {
	return i.numbers
}

// Get returns the RFD with the given number.
func (i *Index) Get(number int) (RFD, bool) {
	r, ok := i.byNumber[number]
	return r, ok
}

// Len returns the number of RFDs in the index.
func (i *Index) Len() int {
	return len(i.numbers)
}

// ContentFetcher fetches a file's content out of a repository.
type ContentFetcher interface {
	RepoFileContent(ctx context.Context, repo, path string) (string, error)
}

// LoadIndex fetches and parses the RFD index. Any malformed row is fatal:
// a half-parsed index would silently drop RFDs from everything generated
// from it.
func LoadIndex(ctx context.Context, fetcher ContentFetcher) (*Index, error) {
	content, err := fetcher.RepoFileContent(ctx, IndexRepo, IndexPath)
	if err != nil {
		return nil, err
	}
	return ParseIndex(content)
}

// ParseIndex parses the index CSV. The first row is a header; every
// following row is "number,title,link,state,discussion" with a numeric
// leading key.
func ParseIndex(content string) (*Index, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = 5

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", IndexPath, err)
	}
	if len(rows) == 0 {
		return nil, errors.WrapParse("csv", IndexPath, fmt.Errorf("index is empty"))
	}

	index := &Index{byNumber: make(map[int]RFD, len(rows)-1)}
	for _, row := range rows[1:] { // skip header
		number, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.WrapParse("csv", IndexPath,
				fmt.Errorf("non-numeric RFD number %q: %w", row[0], err))
		}

		index.byNumber[number] = RFD{
			Number:     number,
			Title:      row[1],
			Link:       row[2],
			State:      row[3],
			Discussion: row[4],
		}
		index.numbers = append(index.numbers, number)
	}

	sort.Ints(index.numbers)
	return index, nil
}
