package pagination

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is an offset/limit window requested by a client.
type Params struct {
	Limit  int
	Offset int
}

// Normalize clamps the window: limit in [1, MaxLimit] defaulting to
// DefaultLimit, offset never negative.
func (p Params) Normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type Meta struct {
	TotalItems   int  `json:"totalItems"`
	ItemCount    int  `json:"itemCount"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalPages   int  `json:"totalPages"`
	CurrentPage  int  `json:"currentPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// Result is the {data, meta} page envelope.
type Result[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewMeta(totalItems, itemCount int, p Params) Meta {
	p = p.Normalize()
	return Meta{
		TotalItems:   totalItems,
		ItemCount:    itemCount,
		ItemsPerPage: p.Limit,
		TotalPages:   int(math.Ceil(float64(totalItems) / float64(p.Limit))),
		CurrentPage:  p.Offset/p.Limit + 1,
		HasNextPage:  p.Offset+p.Limit < totalItems,
		HasPrevPage:  p.Offset > 0,
	}
}

func NewResult[T any](items []T, totalItems int, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Data: items, Meta: NewMeta(totalItems, len(items), p)}
}
