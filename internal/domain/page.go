package domain

import (
	"fmt"
	"slices"
)

// ============================================================
// Pagination
// ============================================================

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxPageSize = 1000

	// MaxPage keeps Page*MaxPageSize far from int overflow.
	MaxPage = 1_000_000
)

// Sort keys accepted per resource. Stores translate them to columns.
const (
	SortBranchCode        = "code"
	SortBranchDesignation = "designation"

	SortAccountNumero        = "numeroCompte"
	SortAccountSolde         = "soldeCourant"
	SortAccountDateOuverture = "dateOuverture"

	SortClientID            = "id"
	SortClientNom           = "nom"
	SortClientDateNaissance = "dateNaissance"

	SortMovementDate    = "dateOperation"
	SortMovementMontant = "montant"
)

// Sort keys each list endpoint accepts.
var (
	BranchSortKeys   = []string{SortBranchCode, SortBranchDesignation}
	AccountSortKeys  = []string{SortAccountNumero, SortAccountSolde, SortAccountDateOuverture}
	ClientSortKeys   = []string{SortClientID, SortClientNom, SortClientDateNaissance}
	MovementSortKeys = []string{SortMovementDate, SortMovementMontant}
)

// Sort is a single ordering key.
type Sort struct {
	Field string
	Desc  bool
}

// PageRequest is a zero-based page request.
type PageRequest struct {
	Page int  `validate:"gte=0,lte=1000000"`
	Size int  `validate:"gte=1,lte=1000"`
	Sort Sort `validate:"-"`
}

// Offset returns the row offset of the requested page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Check rejects a page or size out of range and a sort key outside allowed.
// Services call it before touching a store.
func (p PageRequest) Check(allowed []string) error {
	if p.Page < 0 || p.Page > MaxPage {
		return &ErrValidation{Field: "page", Message: fmt.Sprintf("must be between 0 and %d", MaxPage)}
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return &ErrValidation{Field: "size", Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize)}
	}
	if p.Sort.Field != "" && !slices.Contains(allowed, p.Sort.Field) {
		return &ErrValidation{Field: "sort", Message: "unsupported sort key: " + p.Sort.Field}
	}
	return nil
}

// WithDefaultSort fills in the natural sort key when none was requested.
func (p PageRequest) WithDefaultSort(field string) PageRequest {
	if p.Sort.Field == "" {
		p.Sort = Sort{Field: field}
	}
	return p
}

// Page is the pagination envelope returned by list endpoints.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds an envelope for content that is the req-th page of total rows.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}
