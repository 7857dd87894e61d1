package fintrack

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContentDigest returns the duplicate-detection hash for a transaction. It
// covers date, amount, description, account, category and the source tag so
// that re-importing the same rows is a no-op while an identical manual entry
// and imported row remain distinct.
func ContentDigest(date Date, amount decimal.Decimal, description string, accountID, categoryID uuid.UUID, source Source) string {
	parts := []string{
		date.String(),
		amount.String(),
		description,
		accountID.String(),
		categoryID.String(),
		string(source),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Digest recomputes the transaction's content hash from its current fields.
func (t Transaction) Digest(source Source) string {
	return ContentDigest(t.Date, t.Amount, t.Description, t.AccountID, t.CategoryID, source)
}
