package book

import (
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// sortFieldAliases maps wire field names onto stored keys.
var sortFieldAliases = map[string]string{
	"id":    "_id",
	"title": "bookTitle",
}

// SortAscending builds an ascending sort document on field. An empty field
// means the store's natural order; any whitespace, leading or trailing
// included, is rejected.
func SortAscending(field string) (bson.D, error) {
	if field == "" {
		return nil, nil
	}
	if strings.HasPrefix(field, "$") || strings.ContainsFunc(field, unicode.IsSpace) {
		return nil, invalidInput("sort field %q", field)
	}
	if alias, ok := sortFieldAliases[field]; ok {
		field = alias
	}
	return bson.D{{Key: field, Value: 1}}, nil
}
