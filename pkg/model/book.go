package model

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DateLayout is the wire format of Book.CreationDate.
const DateLayout = "2006-01-02"

type Book struct {
	Id           bson.ObjectID `bson:"_id,omitempty"`
	Author       string        `bson:"author" validate:"required,max=256"`
	Title        string        `bson:"bookTitle" validate:"required,max=512"`
	CreationDate time.Time     `bson:"creationDate,omitempty"`
}

// bookJSON is the wire shape of a Book: ids as hex strings, dates as calendar dates.
type bookJSON struct {
	Id           string `json:"id,omitempty"`
	Author       string `json:"author"`
	Title        string `json:"title"`
	CreationDate string `json:"creationDate,omitempty"`
}

func NewBook(author string, title string, creationDate time.Time) Book {
	return Book{
		Author:       author,
		Title:        title,
		CreationDate: TruncateToDate(creationDate),
	}
}

func (b Book) MarshalJSON() ([]byte, error) {
	out := bookJSON{
		Author: b.Author,
		Title:  b.Title,
	}
	if !b.Id.IsZero() {
		out.Id = b.Id.Hex()
	}
	if !b.CreationDate.IsZero() {
		out.CreationDate = b.CreationDate.UTC().Format(DateLayout)
	}
	return json.Marshal(out)
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var in bookJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var id bson.ObjectID
	if in.Id != "" {
		parsed, err := bson.ObjectIDFromHex(in.Id)
		if err != nil {
			return fmt.Errorf("invalid book id %q: %w", in.Id, err)
		}
		id = parsed
	}

	var creationDate time.Time
	if in.CreationDate != "" {
		parsed, err := ParseDate(in.CreationDate)
		if err != nil {
			return err
		}
		creationDate = parsed
	}

	*b = Book{
		Id:           id,
		Author:       in.Author,
		Title:        in.Title,
		CreationDate: creationDate,
	}
	return nil
}

// ParseDate parses an ISO-8601 calendar date into UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

func TruncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
