package listview

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
)

// Reserved query string keys. Every other key is a filter dimension.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// ParseQuery decodes a list query from URL parameters. Filter values may be
// repeated or comma separated.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Search: v.Get(ParamSearch),
		Sort:   SortState{Field: v.Get(ParamSort)},
	}

	switch order := Direction(strings.ToLower(v.Get(ParamOrder))); order {
	case "":
	case Asc, Desc:
		q.Sort.Order = order
	default:
		return Query{}, errs.Invalid(ParamOrder, order, "must be asc or desc")
	}

	var err error
	if q.Page, err = intParam(v, ParamPage); err != nil {
		return Query{}, err
	}
	if q.PageSize, err = intParam(v, ParamPageSize); err != nil {
		return Query{}, err
	}

	for key, values := range v {
		switch key {
		case ParamSearch, ParamSort, ParamOrder, ParamPage, ParamPageSize:
			continue
		}
		var selected []string
		for _, raw := range values {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					selected = append(selected, part)
				}
			}
		}
		if len(selected) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string][]string)
		}
		q.Filters[key] = selected
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.Invalid(key, raw, "must be a non-negative integer")
	}
	return n, nil
}
