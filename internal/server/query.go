package server

import (
	"fmt"
	"net/url"
	"strconv"

	"makemystay/internal/domain"
	apperrors "makemystay/pkg/errors"
)

// parsePage reads skip and limit. Values that are not integers are
// rejected; out-of-range values are clamped by domain.Page.Normalize.
func parsePage(q url.Values) (domain.Page, error) {
	var page domain.Page
	var err error
	if page.Skip, err = queryInt(q, "skip", 0); err != nil {
		return page, err
	}
	if page.Limit, err = queryInt(q, "limit", domain.DefaultPageLimit); err != nil {
		return page, err
	}
	if page.Limit == 0 {
		page.Limit = 1
	}
	return page.Normalize(), nil
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func queryBool(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	switch raw {
	case "true", "1", "yes", "on":
		v := true
		return &v, nil
	case "false", "0", "no", "off":
		v := false
		return &v, nil
	}
	return nil, apperrors.Validation(fmt.Sprintf("%s must be a boolean", name))
}

// queryEnum parses an optional enum parameter using its Valid method.
func queryEnum[T ~string](q url.Values, name string, valid func(T) bool, choices string) (*T, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v := T(raw)
	if !valid(v) {
		return nil, apperrors.Validation(fmt.Sprintf("%s must be one of: %s", name, choices))
	}
	return &v, nil
}

func parseContactFilter(q url.Values) (domain.ContactFilter, error) {
	status, err := queryEnum(q, "status", domain.ContactStatus.Valid, "new, contacted, closed")
	if err != nil {
		return domain.ContactFilter{}, err
	}
	return domain.ContactFilter{Status: status}, nil
}

func parsePropertyFilter(q url.Values) (domain.PropertyFilter, error) {
	var filter domain.PropertyFilter
	var err error
	if filter.PropertyType, err = queryEnum(q, "property_type", domain.PropertyType.Valid, "PG, 1RK, 1BHK, 2BHK"); err != nil {
		return filter, err
	}
	if filter.ListingType, err = queryEnum(q, "listing_type", domain.ListingType.Valid, "buy, rent"); err != nil {
		return filter, err
	}
	if filter.IsAvailable, err = queryBool(q, "is_available"); err != nil {
		return filter, err
	}
	return filter, nil
}
