package utils

import (
	"reflect"
)

// ColumnList returns the "db"-tagged column names of a db model struct, in
// field order. Used by the dbmodels package to build SELECT column lists that
// stay in sync with the struct definitions.
func ColumnList[T any](prefixes ...string) []string {
	var value T
	t := reflect.TypeOf(value)

	var prefix string
	for _, p := range prefixes {
		prefix += p + "."
	}

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}
