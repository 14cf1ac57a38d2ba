package gst

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ifscPattern  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// FormatCheck is the outcome of checking one field against a fixed format.
type FormatCheck struct {
	Passed        bool   `json:"passed"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Message       string `json:"message"`
}

func regexCheck(fieldPath, value, expected, label string, re *regexp.Regexp) FormatCheck {
	value = strings.TrimSpace(value)
	if value == "" {
		return FormatCheck{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: expected, ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", label),
		}
	}
	passed := re.MatchString(value)
	msg := fmt.Sprintf("%s: %s matches expected format", label, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format (%s)", label, fieldPath, expected)
	}
	return FormatCheck{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: value, Message: msg,
	}
}

// CheckGSTIN validates a 15-character GSTIN. Empty values pass.
func CheckGSTIN(fieldPath, value string) FormatCheck {
	return regexCheck(fieldPath, value, "15-char GSTIN format", "GSTIN", gstinPattern)
}

// CheckIFSC validates an 11-character IFSC bank code. Empty values pass.
func CheckIFSC(fieldPath, value string) FormatCheck {
	return regexCheck(fieldPath, value, "IFSC format (XXXX0XXXXXX)", "IFSC", ifscPattern)
}
