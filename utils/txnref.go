package utils

import (
	"regexp"
	"strings"
)

// UPI apps print a 12-digit UTR; some receipts label it explicitly.
var (
	utrLabelRegex = regexp.MustCompile(`(?i)(?:UTR|UPI\s*Ref(?:erence)?(?:\s*No)?|Txn\s*ID)[:.\s#-]*([A-Z0-9]{10,22})`)
	bareUtrRegex  = regexp.MustCompile(`\b\d{12}\b`)
)

// ExtractTransactionRef pulls a likely transaction reference out of OCR text
// from an uploaded payment proof. The result is a hint for the verifying
// staff member only; it never drives a payment status transition.
func ExtractTransactionRef(text string) string {
	if m := utrLabelRegex.FindStringSubmatch(text); len(m) == 2 {
		return strings.ToUpper(m[1])
	}
	if m := bareUtrRegex.FindString(text); m != "" {
		return m
	}
	return ""
}
