package filter

import (
	"errors"
	"fmt"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

// SortBy is the primary sort key.
type SortBy string

const (
	SortAlphabetical SortBy = "alphabetical"
	SortScore        SortBy = "score"
	SortPopularity   SortBy = "popularity"
	SortDate         SortBy = "date"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Status selects items by their hidden flag. The zero value means "not set",
// which lets admins fall back to seeing everything.
type Status string

const (
	StatusUnset   Status = ""
	StatusVisible Status = "visible"
	StatusHidden  Status = "hidden"
	StatusAll     Status = "all"
)

// SelectionFilter restricts output by selection membership.
type SelectionFilter string

const (
	SelectionAll        SelectionFilter = "all"
	SelectionSelected   SelectionFilter = "selected"
	SelectionUnselected SelectionFilter = "unselected"
)

// DateFilter restricts output by item age.
type DateFilter string

const (
	DateAll   DateFilter = "all"
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
	DateYear  DateFilter = "year"
)

// CategoryAll passes every category.
const CategoryAll = "all"

// Base holds the fields every scope accepts.
type Base struct {
	SearchTerm string
	Category   string
	SortBy     SortBy
	SortOrder  SortOrder
}

// Config is either Tournament or Full.
type Config interface {
	base() Base
}

// Tournament is the reduced configuration of plain tournament play.
type Tournament struct {
	Base
}

// Full is the configuration of profile mode and of tournament mode with the
// analysis overlay.
type Full struct {
	Base
	// FilterStatus only takes effect for admins. Non-admins always see
	// visible names, whatever it holds.
	FilterStatus    Status
	UserFilter      string
	SelectionFilter SelectionFilter
	DateFilter      DateFilter
}

func (c Tournament) base() Base { return c.Base }
func (c Full) base() Base       { return c.Base }

// Field is a filter field name as sent by presentation code.
type Field string

const (
	FieldSearchTerm      Field = "searchTerm"
	FieldCategory        Field = "category"
	FieldSortBy          Field = "sortBy"
	FieldSortOrder       Field = "sortOrder"
	FieldFilterStatus    Field = "filterStatus"
	FieldUserFilter      Field = "userFilter"
	FieldSelectionFilter Field = "selectionFilter"
	FieldDateFilter      Field = "dateFilter"
)

var baseFields = []Field{FieldSearchTerm, FieldCategory, FieldSortBy, FieldSortOrder}

var fullFields = []Field{FieldFilterStatus, FieldUserFilter, FieldSelectionFilter, FieldDateFilter}

// Fields lists the fields legal in scope.
func Fields(scope names.Scope) []Field {
	out := append([]Field(nil), baseFields...)
	if scope.Rules().FullFilters {
		out = append(out, fullFields...)
	}
	return out
}

// Allows reports whether field may be changed in scope.
func Allows(scope names.Scope, field Field) bool {
	for _, f := range Fields(scope) {
		if f == field {
			return true
		}
	}
	return false
}

var (
	// ErrUnknownField is returned for names that are not filter fields at all.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrInvalidValue is returned for values outside a field's enumeration.
	ErrInvalidValue = errors.New("invalid filter value")
)

// Values is the flat, mutable filter store a session keeps. It holds every
// field regardless of scope; Shape projects it onto the scope's variant.
type Values struct {
	SearchTerm      string
	Category        string
	SortBy          SortBy
	SortOrder       SortOrder
	FilterStatus    Status
	UserFilter      string
	SelectionFilter SelectionFilter
	DateFilter      DateFilter
}

// DefaultValues returns the initial filter state.
func DefaultValues() Values {
	return Values{
		Category:        CategoryAll,
		SortBy:          SortAlphabetical,
		SortOrder:       OrderAsc,
		SelectionFilter: SelectionAll,
		DateFilter:      DateAll,
	}
}

// Set validates value and stores it under field.
func (v *Values) Set(field Field, value string) error {
	switch field {
	case FieldSearchTerm:
		v.SearchTerm = value
	case FieldCategory:
		v.Category = value
	case FieldUserFilter:
		v.UserFilter = value
	case FieldSortBy:
		switch SortBy(value) {
		case SortAlphabetical, SortScore, SortPopularity, SortDate:
			v.SortBy = SortBy(value)
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldSortOrder:
		switch SortOrder(value) {
		case OrderAsc, OrderDesc:
			v.SortOrder = SortOrder(value)
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldFilterStatus:
		switch Status(value) {
		case StatusUnset, StatusVisible, StatusHidden, StatusAll:
			v.FilterStatus = Status(value)
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldSelectionFilter:
		switch SelectionFilter(value) {
		case SelectionAll, SelectionSelected, SelectionUnselected:
			v.SelectionFilter = SelectionFilter(value)
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	case FieldDateFilter:
		switch DateFilter(value) {
		case DateAll, DateToday, DateWeek, DateMonth, DateYear:
			v.DateFilter = DateFilter(value)
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Shape returns the configuration variant legal for scope.
func Shape(scope names.Scope, v Values) Config {
	base := Base{
		SearchTerm: v.SearchTerm,
		Category:   v.Category,
		SortBy:     v.SortBy,
		SortOrder:  v.SortOrder,
	}
	if !scope.Rules().FullFilters {
		return Tournament{Base: base}
	}
	return Full{
		Base:            base,
		FilterStatus:    v.FilterStatus,
		UserFilter:      v.UserFilter,
		SelectionFilter: v.SelectionFilter,
		DateFilter:      v.DateFilter,
	}
}
