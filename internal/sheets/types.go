package sheets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the content pushed to the spreadsheet.
type Report struct {
	Generated    time.Time
	Title        string
	Period       string
	Categories   []CategoryRow
	Months       []MonthRow
	Transactions []TransactionRow
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Balance      decimal.Decimal
	Budget       decimal.Decimal
	UsagePercent int
}

// CategoryRow is one line of the category breakdown.
type CategoryRow struct {
	Category string
	Amount   decimal.Decimal
	Share    float64
}

// MonthRow is one line of the monthly trend.
type MonthRow struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// TransactionRow is one line of the transaction table.
type TransactionRow struct {
	Date        time.Time
	Description string
	Category    string
	Recurring   string
	Note        string
	Amount      decimal.Decimal
}
