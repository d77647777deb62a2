package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Repositories hold no business logic: status classification happens in the service layer.

// PageQuery holds limit/offset pagination parameters. Limit <= 0 means no limit.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type. Total counts all items, not just this page.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Paginate cuts one page out of an already loaded, already ordered slice.
func Paginate[T any](items []T, q PageQuery) PageResult[T] {
	res := PageResult[T]{Items: []T{}, Total: len(items)}
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return res
	}
	end := len(items)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	res.Items = items[start:end]
	return res
}
