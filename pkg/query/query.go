// Package query binds placeholder values into MongoDB filter templates.
//
// Templates are ordered documents whose string leaves may be positional
// placeholders ("?1", "?2", ...) or named placeholders (":author"). Binding
// produces a bson.M, so a key repeated in the template keeps only its last
// value.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var ErrUnboundPlaceholder = errors.New("unbound placeholder")

// Parameters holds named placeholder values.
type Parameters map[string]interface{}

func With(name string, value interface{}) Parameters {
	return Parameters{name: value}
}

func (p Parameters) And(name string, value interface{}) Parameters {
	p[name] = value
	return p
}

// Positional replaces "?N" leaves with args[N-1].
func Positional(template bson.D, args ...interface{}) (bson.M, error) {
	return bind(template, func(placeholder string) (interface{}, bool, error) {
		if !strings.HasPrefix(placeholder, "?") {
			return nil, false, nil
		}
		index, err := strconv.Atoi(placeholder[1:])
		if err != nil {
			return nil, false, nil
		}
		if index < 1 || index > len(args) {
			return nil, true, fmt.Errorf("%w: %s", ErrUnboundPlaceholder, placeholder)
		}
		return args[index-1], true, nil
	})
}

// Named replaces ":name" leaves with params[name].
func Named(template bson.D, params Parameters) (bson.M, error) {
	return bind(template, func(placeholder string) (interface{}, bool, error) {
		if !strings.HasPrefix(placeholder, ":") || len(placeholder) == 1 {
			return nil, false, nil
		}
		value, ok := params[placeholder[1:]]
		if !ok {
			return nil, true, fmt.Errorf("%w: %s", ErrUnboundPlaceholder, placeholder)
		}
		return value, true, nil
	})
}

type resolver func(placeholder string) (value interface{}, matched bool, err error)

func bind(template bson.D, resolve resolver) (bson.M, error) {
	out := make(bson.M, len(template))
	for _, elem := range template {
		value, err := bindValue(elem.Value, resolve)
		if err != nil {
			return nil, err
		}
		out[elem.Key] = value
	}
	return out, nil
}

func bindValue(value interface{}, resolve resolver) (interface{}, error) {
	switch v := value.(type) {
	case bson.D:
		return bind(v, resolve)
	case string:
		bound, matched, err := resolve(v)
		if err != nil {
			return nil, err
		}
		if matched {
			return bound, nil
		}
		return v, nil
	default:
		return v, nil
	}
}
