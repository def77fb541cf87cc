package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
)

// Fields is the user-supplied content of a transaction.
// A zero Date means "not supplied".
type Fields struct {
	Date        time.Time
	Description string
	Category    model.Category
	Recurring   model.Recurrence
	Note        string
	Amount      float64
}

// FromTransaction returns the editable fields of tx.
func FromTransaction(tx model.Transaction) Fields {
	return Fields{
		Date:        tx.Date,
		Description: tx.Description,
		Category:    tx.Category,
		Recurring:   tx.Recurring,
		Note:        tx.Note,
		Amount:      tx.Amount,
	}
}

// Validate checks the required fields. The error is a *common.ValidationError
// naming the offending field.
func Validate(f Fields) error {
	desc := strings.TrimSpace(f.Description)
	switch {
	case desc == "":
		return common.NewValidationError("description", "must not be empty")
	case utf8.RuneCountInString(desc) > model.MaxDescriptionLength:
		return common.NewValidationError("description", "must be at most "+strconv.Itoa(model.MaxDescriptionLength)+" characters")
	}

	switch {
	case math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0):
		return common.NewValidationError("amount", "must be a finite number")
	case f.Amount == 0:
		return common.NewValidationError("amount", "must not be zero")
	}

	if f.Category != "" && !f.Category.IsKnown() {
		return common.NewValidationError("category", "unknown category "+strconv.Quote(string(f.Category)))
	}
	if f.Recurring != "" {
		if _, ok := model.ParseRecurrence(string(f.Recurring)); !ok {
			return common.NewValidationError("recurring", "unknown recurrence "+strconv.Quote(string(f.Recurring)))
		}
	}

	return nil
}

// ParseAmount reads a user-typed amount. One leading sign, a currency prefix
// ("₹", "Rs.", "INR"), thousands separators and surrounding space are
// accepted ("-₹1,250.50"). Accounting parentheses mark a negative amount.
func ParseAmount(s string) (float64, error) {
	original := s
	rest := strings.TrimSpace(s)

	negative, signs := false, 0
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		negative, signs = true, 1
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}
	takeSign := func() {
		if rest == "" || (rest[0] != '-' && rest[0] != '+') {
			return
		}
		if rest[0] == '-' {
			negative = !negative
		}
		signs++
		rest = strings.TrimSpace(rest[1:])
	}

	takeSign()
	rest = trimCurrencyPrefix(rest)
	takeSign()
	if signs > 1 {
		return 0, notNumeric(original)
	}

	var b strings.Builder
	seenDigit, seenDot := false, false
	i := 0
body:
	for i < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[i:])
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			seenDigit = true
		case r == '.':
			if seenDot {
				return 0, notNumeric(original)
			}
			seenDot = true
			b.WriteRune(r)
		case r == ',', r == '_', r == ' ':
			// separators group the integer part only
			if !seenDigit || seenDot {
				return 0, notNumeric(original)
			}
		default:
			break body
		}
		i += size
	}

	// Only a currency symbol may follow the number.
	for _, r := range rest[i:] {
		if !unicode.IsSpace(r) && !unicode.Is(unicode.Sc, r) {
			return 0, notNumeric(original)
		}
	}

	if !seenDigit {
		return 0, notNumeric(original)
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, notNumeric(original)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// trimCurrencyPrefix drops a leading currency symbol or code. A period
// directly after a letter code belongs to it ("Rs.").
func trimCurrencyPrefix(s string) string {
	i, afterLetter := 0, false
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsLetter(r):
			afterLetter = true
		case unicode.Is(unicode.Sc, r):
			afterLetter = false
		case r == '.' && afterLetter:
			afterLetter = false
		default:
			return strings.TrimSpace(s[i:])
		}
		i += size
	}
	return ""
}

func notNumeric(s string) error {
	return common.NewValidationError("amount", strconv.Quote(s)+" is not a number")
}
