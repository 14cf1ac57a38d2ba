// Package address splits the free-text addresses of the lead directory into
// their parts. Parsing is best effort: anything it cannot place stays in
// Street, and fields it cannot find are left empty.
package address

import (
	"regexp"
	"strings"

	"invoicedesk/internal/domain"
)

// countryPostal matches a trailing "<country> - <6-digit code>" line.
var countryPostal = regexp.MustCompile(`^(.*?)\s*-\s*(\d{6})$`)

// Parse splits raw into street, city, state, country and postal code.
//
// The last line is taken as country and postal code when it reads like
// "India - 411001". The line before it, if it ends in ", <state>", gives the
// state and the city in front of it. Every other line goes into Street.
func Parse(raw string) domain.Address {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var addr domain.Address
	if n := len(lines); n > 0 {
		if m := countryPostal.FindStringSubmatch(lines[n-1]); m != nil {
			addr.Country = strings.TrimSpace(m[1])
			addr.PostalCode = m[2]
			lines = lines[:n-1]
		}
	}

	if n := len(lines); n > 0 {
		if i := strings.LastIndex(lines[n-1], ","); i >= 0 {
			state := strings.TrimSpace(lines[n-1][i+1:])
			rest := strings.TrimSpace(lines[n-1][:i])
			if state != "" {
				addr.State = state
				lines = lines[:n-1]
				if j := strings.LastIndex(rest, ","); j >= 0 {
					addr.City = strings.TrimSpace(rest[j+1:])
					if head := strings.TrimSpace(rest[:j]); head != "" {
						lines = append(lines, head)
					}
				} else {
					addr.City = rest
				}
			}
		}
	}

	addr.Street = strings.Join(lines, ", ")
	return addr
}
