package exchange

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/ledger"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
	"github.com/google/uuid"
)

// Columns is the CSV header, in order.
var Columns = []string{"id", "desc", "amount", "category", "date", "recurring", "note"}

var columnAliases = map[string]string{
	"description": "desc",
	"memo":        "note",
	"notes":       "note",
}

// Result is the outcome of an import. Errors holds one entry per skipped
// row; each is a *common.ParseError carrying the line number.
type Result struct {
	Transactions []model.Transaction
	Errors       []error
	Rows         int
}

// Skipped returns the number of rows that were rejected.
func (r Result) Skipped() int {
	return len(r.Errors)
}

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	Now   func() time.Time
	NewID func() string
	// OnRow is called after every data row, accepted or not.
	OnRow func(line int)
	// Source names the input in errors.
	Source string
}

// WriteCSV writes txs with the standard header. Every cell is quoted.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, Columns)
	for _, tx := range txs {
		writeRow(bw, []string{
			tx.ID,
			tx.Description,
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			string(tx.Category),
			tx.Date.UTC().Format(DateLayout),
			string(tx.Recurring),
			tx.Note,
		})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		_ = w.WriteByte('"')
		_, _ = w.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString("\n")
}

// ReadCSV parses an export-shaped CSV. Each row goes through the same
// validation as manual entry; invalid rows are skipped and reported in
// Result.Errors. Only an unusable header fails the whole import.
func ReadCSV(r io.Reader, opts CSVOptions) (Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Source == "" {
		opts.Source = "csv"
	}

	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, &common.ParseError{Source: opts.Source, Err: errors.New("file is empty")}
		}
		return Result{}, &common.ParseError{Source: opts.Source, Line: 1, Err: err}
	}
	cols, err := mapHeader(header)
	if err != nil {
		return Result{}, &common.ParseError{Source: opts.Source, Line: 1, Err: err}
	}

	res := Result{}
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Rows++
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			res.Errors = append(res.Errors, &common.ParseError{Source: opts.Source, Line: line, Err: err})
			notifyRow(opts.OnRow, line)
			continue
		}

		line, _ := csvr.FieldPos(0)
		tx, err := cols.transaction(rec, opts)
		if err != nil {
			res.Errors = append(res.Errors, &common.ParseError{Source: opts.Source, Line: line, Err: err})
		} else {
			res.Transactions = append(res.Transactions, tx)
		}
		notifyRow(opts.OnRow, line)
	}

	return res, nil
}

func notifyRow(fn func(int), line int) {
	if fn != nil {
		fn(line)
	}
}

type columnIndex map[string]int

func mapHeader(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, required := range []string{"desc", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}
	return cols, nil
}

func (c columnIndex) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (c columnIndex) transaction(rec []string, opts CSVOptions) (model.Transaction, error) {
	amount, err := ledger.ParseAmount(c.get(rec, "amount"))
	if err != nil {
		return model.Transaction{}, err
	}

	fields := ledger.Fields{
		Description: c.get(rec, "desc"),
		Amount:      amount,
		Category:    model.MatchCategory(c.get(rec, "category")),
		Note:        c.get(rec, "note"),
	}

	if raw := c.get(rec, "recurring"); raw != "" {
		r, ok := model.ParseRecurrence(raw)
		if !ok {
			return model.Transaction{}, common.NewValidationError("recurring", "unknown recurrence "+strconv.Quote(raw))
		}
		fields.Recurring = r
	}

	if raw := c.get(rec, "date"); raw != "" {
		date, ok := persistence.ParseDate(raw)
		if !ok {
			return model.Transaction{}, common.NewValidationError("date", strconv.Quote(raw)+" is not a date")
		}
		fields.Date = date
	} else {
		fields.Date = model.CanonicalTime(opts.Now())
	}

	if err := ledger.Validate(fields); err != nil {
		return model.Transaction{}, err
	}

	id := c.get(rec, "id")
	if id == "" {
		id = opts.NewID()
	}
	recurring := fields.Recurring
	if recurring == "" {
		recurring = model.RecurrenceNone
	}

	return model.Transaction{
		ID:          id,
		Description: strings.TrimSpace(fields.Description),
		Amount:      fields.Amount,
		Category:    fields.Category,
		Date:        fields.Date,
		Recurring:   recurring,
		Note:        fields.Note,
	}, nil
}
