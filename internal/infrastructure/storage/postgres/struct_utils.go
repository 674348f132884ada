package postgres

import (
	"reflect"
	"sync"
)

// column maps a db column name to the field that carries it, as an
// index path so embedded structs (entity.Document inside a concrete
// document type) resolve in one step.
type column struct {
	name string
	path []int
}

var columnCache sync.Map // reflect.Type -> []column

// columnsOf returns the flattened db-tagged columns of a struct type,
// walking embedded structs depth-first. Computed once per type.
func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	if t.Kind() == reflect.Struct {
		cols = collectColumns(t, nil)
	}
	columnCache.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				cols = append(cols, collectColumns(ft, path)...)
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, path: path})
	}
	return cols
}

// ExtractDBColumns lists the column names a struct type maps to. Used
// at repository construction time to build SELECT column lists, so one
// reflection pass per type is fine.
func ExtractDBColumns[T any]() []string {
	var zero T
	cols := columnsOf(reflect.TypeOf(zero))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a struct to a column->value map using db tags.
// Fields without a tag, or tagged "-", are skipped. Returns nil for
// non-struct values.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		out[c.name] = rv.FieldByIndex(c.path).Interface()
	}
	return out
}
