package book

import (
	"time"

	"bookrepository/pkg/model"
	"bookrepository/pkg/query"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Filter templates for SearchOne. Both date templates repeat the
// creationDate key; binding collapses them so only the upper bound is
// applied. Absent titles bind to null and only match books without one.
var (
	authorTitlePositional = bson.D{
		{Key: "author", Value: "?1"},
		{Key: "bookTitle", Value: "?2"},
	}
	dateRangePositional = bson.D{
		{Key: "creationDate", Value: bson.D{{Key: "$gte", Value: "?1"}}},
		{Key: "creationDate", Value: bson.D{{Key: "$lte", Value: "?2"}}},
	}

	authorTitleNamed = bson.D{
		{Key: "author", Value: ":author"},
		{Key: "bookTitle", Value: ":title"},
	}
	dateRangeNamed = bson.D{
		{Key: "creationDate", Value: bson.D{{Key: "$gte", Value: ":dateFrom"}}},
		{Key: "creationDate", Value: bson.D{{Key: "$lte", Value: ":dateTo"}}},
	}
)

// SearchParams carries the optional search query values. A nil field was
// not supplied; a non-nil empty string was supplied empty.
type SearchParams struct {
	Author   *string
	Title    *string
	DateFrom *string
	DateTo   *string
}

// PositionalFilter builds the filter the way the search endpoint does.
func (p SearchParams) PositionalFilter() (bson.M, error) {
	if p.Author != nil {
		return query.Positional(authorTitlePositional, *p.Author, optional(p.Title))
	}

	from, to, err := p.dates()
	if err != nil {
		return nil, err
	}
	return query.Positional(dateRangePositional, from, to)
}

// NamedFilter builds the same filter through named parameters.
func (p SearchParams) NamedFilter() (bson.M, error) {
	if p.Author != nil {
		return query.Named(authorTitleNamed, query.With("author", *p.Author).And("title", optional(p.Title)))
	}

	from, to, err := p.dates()
	if err != nil {
		return nil, err
	}
	return query.Named(dateRangeNamed, query.With("dateFrom", from).And("dateTo", to))
}

func (p SearchParams) dates() (time.Time, time.Time, error) {
	if p.DateFrom == nil || p.DateTo == nil {
		return time.Time{}, time.Time{}, invalidInput("dateFrom and dateTo are required when author is absent")
	}

	from, err := model.ParseDate(*p.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, invalidInput("dateFrom: %v", err)
	}
	to, err := model.ParseDate(*p.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, invalidInput("dateTo: %v", err)
	}
	return from, to, nil
}

func optional(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
