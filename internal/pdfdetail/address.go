package pdfdetail

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Well-formed service addresses: "street, city, ST ZIP".
	fullAddressRe = regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)$`)

	// Fallback anchor: a trailing state/zip pair regardless of commas.
	stateZipRe = regexp.MustCompile(`\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)$`)
)

var ErrBadAddress = errors.New("unparseable service address")

// ParseAddress parses a service address with a two-strategy fallback: the
// strict comma-separated pattern first, then peeling the trailing "ST ZIP"
// pair and splitting the remainder on its last comma or, failing that, its
// last space.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)

	if m := fullAddressRe.FindStringSubmatch(s); m != nil {
		return Address{
			Street: strings.TrimSpace(m[1]),
			City:   strings.TrimSpace(m[2]),
			State:  m[3],
			Zip:    m[4],
		}, nil
	}

	m := stateZipRe.FindStringSubmatch(s)
	if m == nil {
		return Address{}, ErrBadAddress
	}

	addr := Address{State: m[1], Zip: m[2]}
	rest := strings.TrimRight(strings.TrimSpace(s[:len(s)-len(m[0])]), ",")

	if idx := strings.LastIndex(rest, ","); idx >= 0 {
		addr.Street = strings.TrimSpace(rest[:idx])
		addr.City = strings.TrimSpace(rest[idx+1:])

		return addr, nil
	}

	if idx := strings.LastIndex(rest, " "); idx >= 0 {
		addr.Street = strings.TrimSpace(rest[:idx])
		addr.City = strings.TrimSpace(rest[idx+1:])

		return addr, nil
	}

	if rest == "" {
		return Address{}, ErrBadAddress
	}

	addr.Street = rest

	return addr, nil
}
