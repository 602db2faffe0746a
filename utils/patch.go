package utils

import (
	"reflect"
	"strings"
)

// UpdatesFromPtrDTO collects the non-nil pointer fields of a patch DTO into a
// column map for gorm Updates, keyed by each field's json tag. Nil fields are
// absent from the map, so a partial update touches only what the client sent.
func UpdatesFromPtrDTO(dto any) map[string]any {
	updates := make(map[string]any)
	v := reflect.ValueOf(dto)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return updates
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.Ptr || field.IsNil() {
			continue
		}
		column, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if column == "" || column == "-" {
			continue
		}
		updates[column] = field.Elem().Interface()
	}
	return updates
}
