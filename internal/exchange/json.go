package exchange

import (
	"fmt"
	"io"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/ledger"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
)

// WriteJSON writes the full state blob, indented.
func WriteJSON(w io.Writer, state model.AppState) error {
	blob, err := persistence.EncodeIndent(state)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(blob, '\n')); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// ReadJSON decodes either a full state blob or a bare transaction list.
// Callers replace the state for the former and prepend for the latter.
func ReadJSON(r io.Reader, n persistence.Normalizer) (persistence.Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return persistence.Payload{}, fmt.Errorf("failed to read json: %w", err)
	}
	return n.Decode(raw)
}

// ValidTransactions keeps the imported records that pass the same checks as
// manual entry and CSV rows. Each dropped record yields a *common.ParseError
// naming its id.
func ValidTransactions(txs []model.Transaction, source string) ([]model.Transaction, []error) {
	kept := make([]model.Transaction, 0, len(txs))
	var errs []error
	for _, tx := range txs {
		if err := ledger.Validate(ledger.FromTransaction(tx)); err != nil {
			errs = append(errs, &common.ParseError{
				Source: source,
				Err:    fmt.Errorf("transaction %q: %w", tx.ID, err),
			})
			continue
		}
		kept = append(kept, tx)
	}
	return kept, errs
}
