// Package override holds the user-supplied values that supersede computed
// figures on a document. A Map is a value: every mutation returns a new Map and
// leaves the receiver untouched.
package override

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key names a document-level aggregate that can be overridden.
type Key string

const (
	KeySubtotal   Key = "subtotal"
	KeyCGSTTotal  Key = "cgst_total"
	KeySGSTTotal  Key = "sgst_total"
	KeyIGSTTotal  Key = "igst_total"
	KeyGrandTotal Key = "grand_total"
	KeyBalance    Key = "balance"
)

// Keys lists the aggregate keys in display order.
var Keys = []Key{KeySubtotal, KeyCGSTTotal, KeySGSTTotal, KeyIGSTTotal, KeyGrandTotal, KeyBalance}

// ParseKey returns the Key named by s.
func ParseKey(s string) (Key, bool) {
	for _, k := range Keys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// LabelKey names a cosmetic text override on one of the tax rows.
type LabelKey string

const (
	LabelCGST   LabelKey = "cgst_label"
	LabelSGST   LabelKey = "sgst_label"
	LabelIGST   LabelKey = "igst_label"
	PercentCGST LabelKey = "cgst_percent"
	PercentSGST LabelKey = "sgst_percent"
	PercentIGST LabelKey = "igst_percent"
)

// LabelKeys lists the cosmetic keys.
var LabelKeys = []LabelKey{LabelCGST, LabelSGST, LabelIGST, PercentCGST, PercentSGST, PercentIGST}

// ParseLabelKey returns the LabelKey named by s.
func ParseLabelKey(s string) (LabelKey, bool) {
	for _, k := range LabelKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ParseAmount parses user input as a finite float. Anything else, including a
// blank string, is reported as not-a-value.
func ParseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Map is the per-document override store.
// The zero value is an empty store ready to use.
type Map struct {
	totals map[Key]float64
	lines  map[int]float64
	labels map[LabelKey]string
}

func (m Map) clone() Map {
	out := Map{
		totals: make(map[Key]float64, len(m.totals)),
		lines:  make(map[int]float64, len(m.lines)),
		labels: make(map[LabelKey]string, len(m.labels)),
	}
	for k, v := range m.totals {
		out.totals[k] = v
	}
	for k, v := range m.lines {
		out.lines[k] = v
	}
	for k, v := range m.labels {
		out.labels[k] = v
	}
	return out
}

// Set records raw as the override for key. If raw does not parse, the key is
// removed so the aggregate goes back to its formula.
func (m Map) Set(key Key, raw string) Map {
	v, ok := ParseAmount(raw)
	if !ok {
		return m.Clear(key)
	}
	out := m.clone()
	out.totals[key] = v
	return out
}

// Clear removes the override for key.
func (m Map) Clear(key Key) Map {
	if _, ok := m.totals[key]; !ok {
		return m
	}
	out := m.clone()
	delete(out.totals, key)
	return out
}

// Has reports whether key is overridden. A stored zero counts as present.
func (m Map) Has(key Key) bool {
	_, ok := m.totals[key]
	return ok
}

// Get returns the override for key and whether one is present.
func (m Map) Get(key Key) (float64, bool) {
	v, ok := m.totals[key]
	return v, ok
}

// Effective returns the override for key if present, else fallback.
func (m Map) Effective(key Key, fallback float64) float64 {
	if v, ok := m.totals[key]; ok {
		return v
	}
	return fallback
}

// SetLineAmount records the tax-inclusive amount typed into line index. Input
// that does not parse, or a negative amount, clears the line's override.
func (m Map) SetLineAmount(index int, raw string) Map {
	v, ok := ParseAmount(raw)
	if !ok || v < 0 {
		return m.ClearLine(index)
	}
	out := m.clone()
	out.lines[index] = v
	return out
}

// LineAmount returns the amount override for line index and whether one is present.
func (m Map) LineAmount(index int) (float64, bool) {
	v, ok := m.lines[index]
	return v, ok
}

// ClearLine removes the amount override for line index.
func (m Map) ClearLine(index int) Map {
	if _, ok := m.lines[index]; !ok {
		return m
	}
	out := m.clone()
	delete(out.lines, index)
	return out
}

// RemoveLine drops the override for line index and shifts the overrides of the
// lines after it down by one, following the removal of that line.
func (m Map) RemoveLine(index int) Map {
	out := m.clone()
	out.lines = make(map[int]float64, len(m.lines))
	for i, v := range m.lines {
		switch {
		case i < index:
			out.lines[i] = v
		case i > index:
			out.lines[i-1] = v
		}
	}
	return out
}

// OverriddenLines returns the indexes of lines with an amount override, ascending.
func (m Map) OverriddenLines() []int {
	out := make([]int, 0, len(m.lines))
	for i := range m.lines {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SetLabel records a cosmetic text override. Blank text clears it.
func (m Map) SetLabel(key LabelKey, text string) Map {
	text = strings.TrimSpace(text)
	if text == "" {
		if _, ok := m.labels[key]; !ok {
			return m
		}
		out := m.clone()
		delete(out.labels, key)
		return out
	}
	out := m.clone()
	out.labels[key] = text
	return out
}

// Label returns the text override for key if present, else fallback.
func (m Map) Label(key LabelKey, fallback string) string {
	if v, ok := m.labels[key]; ok {
		return v
	}
	return fallback
}

// Totals returns a copy of the aggregate overrides.
func (m Map) Totals() map[Key]float64 {
	out := make(map[Key]float64, len(m.totals))
	for k, v := range m.totals {
		out[k] = v
	}
	return out
}

// Labels returns a copy of the cosmetic overrides.
func (m Map) Labels() map[LabelKey]string {
	out := make(map[LabelKey]string, len(m.labels))
	for k, v := range m.labels {
		out[k] = v
	}
	return out
}

// Empty reports whether nothing is overridden.
func (m Map) Empty() bool {
	return len(m.totals) == 0 && len(m.lines) == 0 && len(m.labels) == 0
}

// Reset returns an empty store.
func (m Map) Reset() Map {
	return Map{}
}
