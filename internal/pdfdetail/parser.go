package pdfdetail

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Pages without this marker are not detail pages and are skipped wholesale.
const detailPageMarker = "Detail of Charges"

const (
	btnPrefix   = "BTN:"
	svcIDPrefix = "Svc ID :"
	adjustLabel = "Charges & Adjustments"
)

var (
	invoiceNumberRe = regexp.MustCompile(`Invoice Number[:\s]+([A-Za-z0-9-]+)`)
	invoiceDateRe   = regexp.MustCompile(`Invoice Date[:\s]+(\d{2}/\d{2}/\d{2,4})`)
	banRe           = regexp.MustCompile(`Billing Acct Nbr \(BAN\)[:\s]+([0-9-]+)`)

	leadingDigitRe = regexp.MustCompile(`^\d`)
	serviceGapRe   = regexp.MustCompile(`\s{2,}`)
)

// parseContext accumulates the most-recently-seen BTN, service id and
// service address during one document traversal. A BTN row cascades a reset
// of the finer-grained service context; a Svc ID row does not touch the BTN.
// Lives only for the duration of one parse.
type parseContext struct {
	btn       string
	serviceID string
	address   Address
}

func (c *parseContext) setBTN(btn string) {
	c.btn = btn
	c.serviceID = ""
	c.address = Address{}
}

func (c *parseContext) setService(id string, addr Address) {
	c.serviceID = id
	c.address = addr
}

// Parse traverses the document rows in extraction order and emits one Item
// per charge row, annotated with the then-current context. A document with
// a valid header but no charge rows yields an empty, non-error result.
func Parse(pages []Page) (*Result, error) {
	if len(pages) == 0 {
		return nil, ErrHeaderNotFound
	}

	header, err := parseHeader(pages[0].Text)
	if err != nil {
		return nil, err
	}

	res := &Result{Header: *header}

	var (
		ctx     parseContext
		current *Item
	)

	flush := func() {
		if current != nil {
			res.Items = append(res.Items, *current)
			current = nil
		}
	}

	for _, page := range pages {
		if !strings.Contains(page.Text, detailPageMarker) {
			continue
		}

		for _, cells := range page.Rows {
			line := joinCells(cells)
			if line == "" || isColumnHeader(line) {
				continue
			}

			switch {
			case leadingDigitRe.MatchString(firstCell(cells)):
				flush()

				item, ok := peelItem(line)
				if !ok {
					// The original system drops these silently; we at
					// least count and log them.
					res.SkippedRows++
					slog.Warn("skipping charge row without item number", "row", line)

					continue
				}

				item.BTN = ctx.btn
				item.ServiceID = ctx.serviceID
				item.Address = ctx.address
				current = item

			case strings.HasPrefix(line, btnPrefix):
				flush()
				ctx.setBTN(strings.TrimSpace(strings.TrimPrefix(line, btnPrefix)))

			case strings.HasPrefix(line, svcIDPrefix):
				flush()

				id, addr := parseServiceRow(cells)
				ctx.setService(id, addr)

			case strings.Contains(line, adjustLabel):
				// Section separator; closes the current record but carries
				// no context of its own.
				flush()

			default:
				if current != nil {
					appendContinuation(current, line)
				}
			}
		}
	}

	flush()

	return res, nil
}

// parseHeader locates the three invoice anchors in the first page's free
// text. All three must be present.
func parseHeader(text string) (*Header, error) {
	num := invoiceNumberRe.FindStringSubmatch(text)
	date := invoiceDateRe.FindStringSubmatch(text)
	ban := banRe.FindStringSubmatch(text)

	if num == nil || date == nil || ban == nil {
		return nil, ErrHeaderNotFound
	}

	layout := "01/02/06"
	if len(date[1]) == 10 {
		layout = "01/02/2006"
	}

	t, err := time.Parse(layout, date[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad invoice date %q", ErrHeaderNotFound, date[1])
	}

	return &Header{
		InvoiceNumber:        num[1],
		InvoiceDate:          t,
		BillingAccountNumber: ban[1],
	}, nil
}

// parseServiceRow splits a Svc ID row into the service id and, when the
// layout carries one, the service address. The extractor usually delivers
// the id and the address as separate cells; only a single-cell row falls
// back to splitting on the wide column gap inside the cell. A malformed
// address is a soft skip: the id still applies, the address context stays
// empty.
func parseServiceRow(cells []string) (string, Address) {
	var parts []string

	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}

	// The marker may occupy its own cell or share the id's.
	for _, tok := range strings.Fields(svcIDPrefix) {
		if len(parts) == 0 {
			break
		}

		parts[0] = strings.TrimSpace(strings.TrimPrefix(parts[0], tok))
		if parts[0] == "" {
			parts = parts[1:]
		}
	}

	if len(parts) == 0 {
		return "", Address{}
	}

	var id, rawAddr string

	if len(parts) == 1 {
		split := serviceGapRe.Split(parts[0], 2)

		id = strings.TrimSpace(split[0])
		if len(split) < 2 {
			return id, Address{}
		}

		rawAddr = strings.TrimSpace(split[1])
	} else {
		id = parts[0]
		rawAddr = strings.Join(parts[1:], " ")
	}

	addr, err := ParseAddress(rawAddr)
	if err != nil {
		slog.Warn("skipping malformed service address", "service_id", id, "address", rawAddr)
		return id, Address{}
	}

	return id, addr
}

// appendContinuation folds a sub-row into the in-progress charge record: a
// bare HH:MM:SS token sets the usage duration, a trailing known charge-type
// code fills charge type if unset, a leading carrier name fills provider if
// unset, and whatever remains joins the free-text description.
func appendContinuation(item *Item, line string) {
	if item.ChargeType == "" {
		if code, rest, ok := trimTrailingChargeType(line); ok {
			item.ChargeType = code
			line = rest
		}
	}

	if item.Provider == "" {
		if p, rest := matchProvider(line); p != "" {
			item.Provider = p
			line = rest
		}
	}

	var residual []string

	for _, f := range strings.Fields(line) {
		if item.Minutes == 0 && durationRe.MatchString(f) {
			item.Minutes = durationToMinutes(f)
			continue
		}

		residual = append(residual, f)
	}

	if len(residual) > 0 {
		if item.Description != "" {
			item.Description += "\n"
		}

		item.Description += strings.Join(residual, " ")
	}
}

func joinCells(cells []string) string {
	var parts []string

	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			parts = append(parts, c)
		}
	}

	return strings.Join(parts, " ")
}

func firstCell(cells []string) string {
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			return c
		}
	}

	return ""
}

// isColumnHeader drops the repeated per-page column caption row.
func isColumnHeader(line string) bool {
	return strings.HasPrefix(line, "Item") && strings.Contains(line, "Total")
}
