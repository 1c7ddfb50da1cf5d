package binder

import "net/http"

// Query binds URL query parameters to struct fields tagged `query:"name"`.
// Repeated or comma-separated values fill slices; pointers mark optional
// parameters. Types implementing encoding.TextUnmarshaler, such as
// time.Time (RFC 3339) and uuid.UUID, are decoded with UnmarshalText.
//
//	type SearchRequest struct {
//		Plate  string     `query:"plate"`
//		Since  *time.Time `query:"entry_from"`
//		Limit  int        `query:"limit"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
