package book_test

import (
	"testing"
	"time"

	"bookrepository/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSearchParams_AuthorTakesPrecedenceOverDates(t *testing.T) {
	params := book.SearchParams{
		Author:   ptr("Lewis Carroll"),
		Title:    ptr("Alice in Wonderland"),
		DateFrom: ptr("not-a-date"),
	}

	positional, err := params.PositionalFilter()
	require.NoError(t, err)
	named, err := params.NamedFilter()
	require.NoError(t, err)

	expected := bson.M{"author": "Lewis Carroll", "bookTitle": "Alice in Wonderland"}
	assert.Equal(t, expected, positional)
	assert.Equal(t, expected, named)
}

func TestSearchParams_EmptyAuthorCountsAsGiven(t *testing.T) {
	params := book.SearchParams{Author: ptr(""), DateFrom: ptr("1930-01-01"), DateTo: ptr("1950-01-01")}

	filter, err := params.PositionalFilter()

	require.NoError(t, err)
	assert.Equal(t, bson.M{"author": "", "bookTitle": nil}, filter)
}

func TestSearchParams_DateRange(t *testing.T) {
	params := book.SearchParams{DateFrom: ptr("1930-01-01"), DateTo: ptr("1950-06-15")}

	filter, err := params.NamedFilter()

	require.NoError(t, err)
	assert.Equal(t, bson.M{"creationDate": bson.M{"$lte": time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC)}}, filter)
}
