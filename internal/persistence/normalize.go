package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/google/uuid"
)

// UntitledDescription replaces a missing description on load.
const UntitledDescription = "Untitled"

// errNotObject is reported when a blob is valid JSON of the wrong shape.
var errNotObject = errors.New("expected a JSON object or array")

// dateLayouts are tried in order when a stored date is a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Normalizer turns loosely-shaped JSON into canonical records. Missing or
// malformed fields get documented defaults instead of failing the load.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// NewNormalizer returns a Normalizer using the wall clock and random UUIDs.
func NewNormalizer() Normalizer {
	return Normalizer{Now: time.Now, NewID: uuid.NewString}
}

// Payload is a decoded blob: either a full state or a bare transaction list.
type Payload struct {
	State        *model.AppState
	Transactions []model.Transaction
}

// IsFullState reports whether the payload carried a whole AppState.
func (p Payload) IsFullState() bool {
	return p.State != nil
}

// Decode parses raw as either a full state object or a bare array of
// transactions. Only syntactically invalid JSON or a scalar top level fails.
func (n Normalizer) Decode(raw []byte) (Payload, error) {
	value, err := decodeJSON(raw)
	if err != nil {
		return Payload{}, err
	}

	switch v := value.(type) {
	case map[string]any:
		state := n.state(v)
		return Payload{State: &state, Transactions: state.Transactions}, nil
	case []any:
		return Payload{Transactions: n.Transactions(v)}, nil
	default:
		return Payload{}, &common.ParseError{Source: "state", Err: errNotObject}
	}
}

// State parses a full state blob. A bare array is accepted as the
// transaction list of an otherwise default state.
func (n Normalizer) State(raw []byte) (model.AppState, error) {
	payload, err := n.Decode(raw)
	if err != nil {
		return model.DefaultState(), err
	}
	if payload.State != nil {
		return *payload.State, nil
	}
	state := model.DefaultState()
	state.Transactions = payload.Transactions
	return state, nil
}

func (n Normalizer) state(obj map[string]any) model.AppState {
	state := model.DefaultState()

	if items, ok := obj["tx"].([]any); ok {
		state.Transactions = n.Transactions(items)
	}
	if budget, ok := toFloat(obj["budget"]); ok && budget > 0 {
		state.Budget = budget
	}
	if meta, ok := obj["meta"].(map[string]any); ok {
		state.Preferences = preferences(meta)
	}

	return state
}

func preferences(meta map[string]any) model.Preferences {
	prefs := model.DefaultPreferences()

	if theme, ok := meta["theme"].(string); ok {
		switch t := model.Theme(strings.ToLower(theme)); t {
		case model.ThemeDark, model.ThemeLight:
			prefs.Theme = t
		}
	}
	if v, ok := meta["autoCleanup"].(bool); ok {
		prefs.AutoCleanup = v
	}
	if v, ok := meta["autoBackup"].(bool); ok {
		prefs.AutoBackup = v
	}

	return prefs
}

// Transactions normalizes a decoded list. Non-object entries are dropped and
// duplicate ids are replaced so ids stay unique.
func (n Normalizer) Transactions(items []any) []model.Transaction {
	out := make([]model.Transaction, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tx := n.Transaction(obj)
		if seen[tx.ID] {
			tx.ID = n.NewID()
		}
		seen[tx.ID] = true
		out = append(out, tx)
	}

	return out
}

// Transaction normalizes one decoded record.
func (n Normalizer) Transaction(obj map[string]any) model.Transaction {
	tx := model.Transaction{
		ID:          stringField(obj, "id"),
		Description: TruncateDescription(strings.TrimSpace(stringField(obj, "desc"))),
		Category:    model.MatchCategory(stringField(obj, "category")),
		Recurring:   model.RecurrenceNone,
		Note:        stringField(obj, "note"),
	}

	if tx.ID == "" {
		tx.ID = n.NewID()
	}
	if tx.Description == "" {
		tx.Description = UntitledDescription
	}
	if amount, ok := toFloat(obj["amount"]); ok {
		tx.Amount = amount
	}
	if r, ok := model.ParseRecurrence(stringField(obj, "recurring")); ok {
		tx.Recurring = r
	}

	if date, ok := ParseDate(obj["date"]); ok {
		tx.Date = date
	} else {
		tx.Date = model.CanonicalTime(n.Now())
		tx.DateInferred = true
	}

	return tx
}

// ParseDate accepts RFC 3339 strings, a handful of common layouts and epoch
// milliseconds. The result is in canonical form.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return model.CanonicalTime(t), true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			return model.CanonicalTime(time.UnixMilli(ms)), true
		}
	case json.Number:
		if ms, err := v.Int64(); err == nil && ms > 0 {
			return model.CanonicalTime(time.UnixMilli(ms)), true
		}
	case float64:
		if v > 0 {
			return model.CanonicalTime(time.UnixMilli(int64(v))), true
		}
	}
	return time.Time{}, false
}

// TruncateDescription clips s to MaxDescriptionLength runes.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= model.MaxDescriptionLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:model.MaxDescriptionLength])
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &common.ParseError{Source: "state", Err: err}
	}
	return value, nil
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func toFloat(value any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := value.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Encode serializes state as the persisted blob.
func Encode(state model.AppState) ([]byte, error) {
	if state.Transactions == nil {
		state.Transactions = []model.Transaction{}
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return blob, nil
}

// EncodeIndent serializes state for humans (exports and backups).
func EncodeIndent(state model.AppState) ([]byte, error) {
	if state.Transactions == nil {
		state.Transactions = []model.Transaction{}
	}
	blob, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return blob, nil
}

// Normalize parses a state blob with a fixed load timestamp.
func Normalize(raw []byte, now time.Time) (model.AppState, error) {
	n := NewNormalizer()
	n.Now = func() time.Time { return now }
	return n.State(raw)
}

// NormalizeTransactions normalizes an already-decoded list with a fixed load
// timestamp.
func NormalizeTransactions(items []any, now time.Time) []model.Transaction {
	n := NewNormalizer()
	n.Now = func() time.Time { return now }
	return n.Transactions(items)
}
