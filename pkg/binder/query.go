package binder

import "net/http"

// Query creates a query string binder for fields tagged `query:"name"`.
//
//	type ListRequest struct {
//		UserID string   `query:"user_id"`
//		Limit  int      `query:"limit"`
//		IDs    []string `query:"ids"` // ?ids=a&ids=b or ?ids=a,b
//		Unread *bool    `query:"unread"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", func(name string) []string {
			return r.URL.Query()[name]
		}, ErrFailedToParseQuery)
	}
}
