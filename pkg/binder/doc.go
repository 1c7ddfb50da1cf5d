// Package binder fills request structs from JSON bodies, query strings and
// router path parameters. Each binder has the signature
//
//	func(r *http.Request, v any) error
//
// so several can be applied to the same struct, each reading only its own
// struct tag (`query`, `path`). Failures wrap one of the package sentinels
// and can be told apart from business errors with IsBindError.
package binder
