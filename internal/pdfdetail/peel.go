package pdfdetail

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The fixed short code set a charge line can end with.
var chargeTypes = []string{"MRC", "NRC", "USG", "TAX", "FEE", "CRD", "ADJ"}

// Carrier-name tokens that may lead a charge remainder or continuation row.
var providers = []string{
	"AT&T", "CenturyLink", "Century Link", "Qwest", "Level 3",
	"Verizon", "Lumen", "Sprint", "Embarq",
}

var (
	itemNumberRe = regexp.MustCompile(`^(\d+)\s+`)
	durationRe   = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`)

	trailDateRe     = regexp.MustCompile(`\s(\d{2}/\d{2}/\d{2}(?:\d{2})?)$`)
	trailAmountRe   = regexp.MustCompile(`\s(-?\d[\d,]*\.\d{2})$`)
	trailDurationRe = regexp.MustCompile(`\s(\d{1,2}:\d{2}:\d{2})$`)
	trailIntRe      = regexp.MustCompile(`\s(\d+)$`)

	contractFlagRe = regexp.MustCompile(`^([YN])\s+`)
)

// peelItem extracts a charge item from a row line by right-anchored,
// iterative peeling: the trailing fields are fixed-format while the leading
// free text is not, so fields are stripped from the end in a fixed order.
// Each peel is independent; a step that fails to match leaves its field
// unset. Only a missing item number rejects the row.
func peelItem(line string) (*Item, bool) {
	m := itemNumberRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	item := &Item{ItemNumber: m[1]}
	line = strings.TrimSpace(line[len(m[0]):])

	if code, rest, ok := trimTrailingChargeType(line); ok {
		item.ChargeType = code
		line = rest
	}

	if m := trailDateRe.FindStringSubmatch(line); m != nil {
		item.BillPeriod = m[1]
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	if m := trailAmountRe.FindStringSubmatch(line); m != nil {
		item.TotalCharge = amountToCents(m[1])
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	// A second trailing amount, if still present, is the contract rate.
	if m := trailAmountRe.FindStringSubmatch(line); m != nil {
		item.ContractRate = amountToCents(m[1])
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	if m := trailDurationRe.FindStringSubmatch(line); m != nil {
		item.Minutes = durationToMinutes(m[1])
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	if m := trailIntRe.FindStringSubmatch(line); m != nil {
		item.Quantity, _ = strconv.Atoi(m[1])
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	// The remainder has looser structure and reads left to right.
	if m := contractFlagRe.FindStringSubmatch(line); m != nil {
		item.Contract = m[1]
		line = strings.TrimSpace(line[len(m[0]):])
	}

	if p, rest := matchProvider(line); p != "" {
		item.Provider = p
		line = rest
	}

	item.ProductID, item.FeatureName = splitProduct(line)

	return item, true
}

// splitProduct splits the last remainder on the pipe delimiter into product
// id and feature name. With only one non-empty side, that side is the
// product id.
func splitProduct(s string) (string, string) {
	var parts []string

	for _, p := range strings.Split(s, "|") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}

	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " | ")
	}
}

func trimTrailingChargeType(line string) (string, string, bool) {
	for _, code := range chargeTypes {
		if line == code {
			return code, "", true
		}

		if strings.HasSuffix(line, " "+code) {
			return code, strings.TrimSpace(strings.TrimSuffix(line, code)), true
		}
	}

	return "", line, false
}

// matchProvider checks for a leading carrier-name token and returns it with
// the rest of the line. Matching is case-insensitive; the token must end at
// a word boundary.
func matchProvider(line string) (string, string) {
	lower := strings.ToLower(line)

	for _, p := range providers {
		lp := strings.ToLower(p)
		if !strings.HasPrefix(lower, lp) {
			continue
		}

		rest := line[len(p):]
		if rest != "" && rest[0] != ' ' && rest[0] != '|' {
			continue
		}

		return line[:len(p)], strings.TrimSpace(rest)
	}

	return "", ""
}

// durationToMinutes converts HH:MM:SS to fractional minutes, rounded
// half-up to 4 decimal places.
func durationToMinutes(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}

	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, _ := strconv.Atoi(parts[2])

	minutes := float64(h)*60 + float64(m) + float64(sec)/60

	return math.Round(minutes*10000) / 10000
}

// amountToCents parses a signed decimal amount into cents. Peeled amounts
// already match the trailing-amount pattern, so a parse failure yields zero.
func amountToCents(s string) int64 {
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(v * 100))
}
