package pagegen

import "fmt"

// PageURL builds the link of a generated page from its parentSlug and
// childSlug fields: "<parentSlug>/<childSlug>/". Missing or empty fields are
// not validated and produce an empty segment.
func PageURL(fields any) string {
	rec, _ := asRecord(fields)
	return slugField(rec, FieldParentSlug) + "/" + slugField(rec, FieldChildSlug) + "/"
}

// Funcs returns the template helpers to register with a rendering engine
// before parsing templates. The map converts to both text/template.FuncMap and
// html/template.FuncMap.
func Funcs() map[string]any {
	return map[string]any{
		"page_url": PageURL,
	}
}

func slugField(rec Record, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
