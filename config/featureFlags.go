package config

import (
	"os"
	"strings"
)

// StrictStock makes insufficient stock a hard error instead of clamping the
// quantity at zero with a warning.
//
// Set via env:
// - STRICT_STOCK=true
func StrictStock() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_STOCK")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// PostingLock serializes document posting per shop through redis. Off by
// default: without it concurrent edits race on read-modify-write of balances,
// matching the historical behavior.
//
// Set via env:
// - POSTING_LOCK=true
func PostingLock() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("POSTING_LOCK")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
