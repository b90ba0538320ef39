package inspector

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is one component field ready for display.
type Field struct {
	Name string
	Text string
}

// Tag options, set with `inspect:"..."` on a component field:
//
//	`inspect:"skip"`          never shown
//	`inspect:"fmt:%d px"`     custom format verb
//
// Options are separated by commas.
type tagOptions struct {
	skip   bool
	format string
}

func parseTag(tag string) tagOptions {
	var opts tagOptions
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "skip":
			opts.skip = true
		case strings.HasPrefix(part, "fmt:"):
			opts.format = strings.TrimPrefix(part, "fmt:")
		}
	}
	return opts
}

// ExtractFields lists the exported fields of a component struct (or a
// pointer to one). Anything else yields nil.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		opts := parseTag(sf.Tag.Get("inspect"))
		if opts.skip {
			continue
		}
		fields = append(fields, Field{
			Name: sf.Name,
			Text: FormatValue(v.Field(i).Interface(), opts.format),
		})
	}
	return fields
}

// FormatValue formats a field value. Types with a String method use it.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", value)
	}
}
