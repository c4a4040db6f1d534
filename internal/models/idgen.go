package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// ID prefixes for the human-readable sequential IDs.
const (
	UserIDPrefix    = "P"
	BookingIDPrefix = "BW"
	VehicleIDPrefix = "FV"
)

var idSuffixPattern = regexp.MustCompile(`(\d+)$`)

// NextSequenceID computes the next sequential ID for a table, e.g. P000042.
// It reads the current maximum ID (lexical order equals numeric order for
// zero-padded fixed-width suffixes) and adds one. Two concurrent inserts can
// compute the same value; the unique index on the column is the correctness
// backstop and callers retry on duplicate-key errors.
func NextSequenceID(tx *gorm.DB, table, column, prefix string) string {
	var lastID string
	err := tx.Table(table).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&lastID).Error
	if err != nil {
		// Not guaranteed unique; the caller's retry loop handles collisions.
		return timestampID(prefix)
	}
	return nextAfter(lastID, prefix)
}

// nextAfter derives the successor ID from the current maximum.
func nextAfter(lastID, prefix string) string {
	next := int64(1)
	if m := idSuffixPattern.FindString(lastID); m != "" {
		n, err := strconv.ParseInt(m, 10, 64)
		if err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%06d", prefix, next)
}

// timestampID is the fallback when the max-ID query fails.
func timestampID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixNano()/int64(time.Millisecond), 10)
	return prefix + ts[len(ts)-6:]
}

// ForcedUniqueID builds a timestamp+random ID used after the bounded retry
// loop has exhausted its attempts.
func ForcedUniqueID(prefix string) string {
	max := big.NewInt(999999)
	n, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}
