package exchange

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func csvOptions() CSVOptions {
	n := 0
	return CSVOptions{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
	}
}

func TestWriteCSVQuotesEveryCell(t *testing.T) {
	txs := []model.Transaction{{
		ID:          "a",
		Description: `Dinner, "fancy"`,
		Amount:      -42.5,
		Category:    model.CategoryFood,
		Date:        time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC),
		Recurring:   model.RecurrenceNone,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"id","desc","amount","category","date","recurring","note"`, lines[0])
	assert.Equal(t, `"a","Dinner, ""fancy""","-42.5","Food","2024-03-01T19:30:00.000Z","none",""`, lines[1])
}

func TestCSVRoundTrip(t *testing.T) {
	original := []model.Transaction{
		{
			ID:          "a",
			Description: "Salary\nMarch",
			Amount:      1000,
			Category:    model.CategoryIncome,
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Recurring:   model.RecurrenceMonthly,
			Note:        `said "thanks"`,
		},
		{
			ID:          "b",
			Description: "Lunch, with team",
			Amount:      -12.345,
			Category:    model.CategoryFood,
			Date:        time.Date(2024, 3, 2, 13, 5, 6, 789000000, time.UTC),
			Recurring:   model.RecurrenceNone,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, original))

	res, err := ReadCSV(&buf, csvOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, original, res.Transactions)
}

func TestReadCSVSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		`id,desc,amount,category,date,recurring,note`,
		`1,Coffee,-3,Food,2024-03-01,,`,
		`2,Broken,abc,Food,2024-03-01,,`,
		`3,Bus,-2,Transprt,2024-03-02,,`,
		`,Refund,15,,,,`,
		`5,,-1,Food,2024-03-02,,`,
		`6,Zero,0,Food,2024-03-02,,`,
		`7,Late,-9,Food,someday,,`,
	}, "\n")

	var lines []int
	opts := csvOptions()
	opts.OnRow = func(line int) { lines = append(lines, line) }

	res, err := ReadCSV(strings.NewReader(input), opts)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Rows)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, lines)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "1", res.Transactions[0].ID)
	assert.Equal(t, model.CategoryTransport, res.Transactions[1].Category, "typo matched")
	assert.Equal(t, "new-1", res.Transactions[2].ID)
	assert.Equal(t, model.CategoryOther, res.Transactions[2].Category)
	assert.True(t, res.Transactions[2].Date.Equal(testNow))

	require.Equal(t, 4, res.Skipped())
	var perr *common.ParseError
	require.ErrorAs(t, res.Errors[0], &perr)
	assert.Equal(t, 3, perr.Line)
	assert.ErrorIs(t, res.Errors[0], common.ErrValidation)
}

func TestReadCSVSingleMalformedAmount(t *testing.T) {
	var b strings.Builder
	b.WriteString("desc,amount\n")
	for i := 0; i < 10; i++ {
		amount := fmt.Sprintf("-%d", i+1)
		if i == 4 {
			amount = "twelve"
		}
		fmt.Fprintf(&b, "Item %d,%s\n", i, amount)
	}

	res, err := ReadCSV(strings.NewReader(b.String()), csvOptions())
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 9)
	assert.Len(t, res.Errors, 1)
}

func TestReadCSVHeaderErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), csvOptions())
	assert.ErrorIs(t, err, common.ErrParse)

	_, err = ReadCSV(strings.NewReader("id,category\n1,Food\n"), csvOptions())
	assert.ErrorIs(t, err, common.ErrParse)
	assert.Contains(t, err.Error(), "desc")
}

func TestReadCSVAcceptsAliases(t *testing.T) {
	input := "\ufeffDescription,Amount,Memo\nBook,-20,gift\n"

	res, err := ReadCSV(strings.NewReader(input), csvOptions())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Book", res.Transactions[0].Description)
	assert.Equal(t, "gift", res.Transactions[0].Note)
}

func TestJSONImportShapes(t *testing.T) {
	n := persistence.NewNormalizer()

	payload, err := ReadJSON(strings.NewReader(`[{"id":"x","desc":"X","amount":-1}]`), n)
	require.NoError(t, err)
	assert.False(t, payload.IsFullState())
	assert.Len(t, payload.Transactions, 1)

	state := model.DefaultState()
	state.Budget = 900
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, state))

	payload, err = ReadJSON(&buf, n)
	require.NoError(t, err)
	require.True(t, payload.IsFullState())
	assert.InDelta(t, 900, payload.State.Budget, 0.001)

	_, err = ReadJSON(strings.NewReader(`"nope"`), n)
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestValidTransactionsDropsInvalidEntries(t *testing.T) {
	n := persistence.NewNormalizer()
	payload, err := ReadJSON(strings.NewReader(`[
		{"id":"ok","desc":"Coffee","amount":-4},
		{"id":"no-amount","desc":"Mystery"},
		{"id":"zero","desc":"Nothing","amount":0}
	]`), n)
	require.NoError(t, err)
	require.Len(t, payload.Transactions, 3)

	kept, errs := ValidTransactions(payload.Transactions, "import.json")

	require.Len(t, kept, 1)
	assert.Equal(t, "ok", kept[0].ID)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.ErrorIs(t, e, common.ErrParse)
		assert.ErrorIs(t, e, common.ErrValidation)
	}
	assert.Contains(t, errs[0].Error(), "no-amount")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "export.csv", want: FormatCSV},
		{path: "/tmp/State.JSON", want: FormatJSON},
		{path: "bank.ofx", want: FormatOFX},
		{path: "bank.qfx", want: FormatOFX},
		{path: "notes.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
