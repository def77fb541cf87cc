package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempSettings points every command at a fresh database.
func useTempSettings(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	v := viper.New()
	v.Set("database.path", filepath.Join(dir, "spendcraft.db"))
	v.Set("backup.dir", dir)
	loaded, err := config.Load(v)
	require.NoError(t, err)

	previous := settings
	settings = loaded
	t.Cleanup(func() { settings = previous })
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestAddListDeleteUndo(t *testing.T) {
	useTempSettings(t)

	out := run(t, addCmd(), "Salary", "5000", "-c", "Income")
	assert.Contains(t, out, "Added Salary")

	out = run(t, addCmd(), "Groceries", "1,250.50", "--expense", "-c", "food", "-n", "weekly shop")
	assert.Contains(t, out, "-₹1,250.50")

	out = run(t, listCmd(), "--period", "0")
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Groceries")

	a, err := openApp(context.Background(), nil)
	require.NoError(t, err)
	var groceriesID string
	for _, tx := range a.session.State().Transactions {
		if tx.Description == "Groceries" {
			groceriesID = tx.ID
		}
	}
	a.Close()
	require.NotEmpty(t, groceriesID)

	out = run(t, deleteCmd(), groceriesID[:8])
	assert.Contains(t, out, "Deleted Groceries")

	out = run(t, listCmd(), "--period", "0")
	assert.NotContains(t, out, "Groceries")

	out = run(t, undoCmd())
	assert.Contains(t, out, "Restored Groceries")

	out = run(t, undoCmd())
	assert.Contains(t, out, "Nothing to undo")
}

func TestEditChangesOnlyGivenFields(t *testing.T) {
	useTempSettings(t)
	run(t, addCmd(), "Taxi", "300", "-e", "-c", "Transport", "-n", "airport")

	a, err := openApp(context.Background(), nil)
	require.NoError(t, err)
	id := a.session.State().Transactions[0].ID
	a.Close()

	run(t, editCmd(), id, "--amount", "-350")

	a, err = openApp(context.Background(), nil)
	require.NoError(t, err)
	defer a.Close()
	tx, ok := a.session.Get(id)
	require.True(t, ok)
	assert.InDelta(t, -350, tx.Amount, 0.0001)
	assert.Equal(t, "Taxi", tx.Description)
	assert.Equal(t, "airport", tx.Note)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	useTempSettings(t)

	cmd := addCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"Nothing", "0"})
	assert.Error(t, cmd.Execute())

	cmd = addCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"Lunch", "20", "-e", "-c", "Groceries"})
	assert.Error(t, cmd.Execute())
}

func TestBudgetAndSummary(t *testing.T) {
	useTempSettings(t)

	out := run(t, budgetCmd(), "1000")
	assert.Contains(t, out, "Budget set to ₹1,000.00")

	run(t, addCmd(), "Rent", "950", "-e", "-c", "Bills")

	out = run(t, summaryCmd(), "--period", "0")
	assert.Contains(t, out, "(95%)")
	assert.Contains(t, out, "₹950.00")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := useTempSettings(t)
	run(t, addCmd(), "Coffee", "4.5", "-e", "-c", "Food")
	run(t, addCmd(), "Refund", "20", "-c", "Other")

	csvPath := filepath.Join(dir, "out.csv")
	run(t, exportCmd(), "-o", csvPath)
	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), `"id","desc","amount"`))

	// Re-importing the same ids adds nothing.
	out := run(t, importCmd(), csvPath)
	assert.Contains(t, out, "Imported 0 transactions, 2 already present")

	jsonPath := filepath.Join(dir, "out.json")
	run(t, exportCmd(), "-o", jsonPath)

	run(t, clearCmd(), "--force")
	out = run(t, importCmd(), jsonPath, "--force")
	assert.Contains(t, out, "Replaced the data with 2 transactions")
}

func TestBackupStoreListRestore(t *testing.T) {
	dir := useTempSettings(t)
	run(t, addCmd(), "Gym", "1500", "-e", "-c", "Health")

	out := run(t, backupCmd())
	assert.Contains(t, out, dir)

	out = run(t, backupCmd(), "--store", "--label", "before clear")
	assert.Contains(t, out, "Stored snapshot 1")

	out = run(t, backupListCmd())
	assert.Contains(t, out, "before clear")

	run(t, clearCmd(), "--force")
	out = run(t, backupRestoreCmd(), "1", "--force")
	assert.Contains(t, out, "Restored 1 transactions")

	out = run(t, backupDeleteCmd(), "1")
	assert.Contains(t, out, "Deleted snapshot 1")
}

func TestImportJSONListSkipsInvalidEntries(t *testing.T) {
	dir := useTempSettings(t)
	path := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"a","desc":"Books","amount":-300,"category":"Education"},
		{"id":"b","desc":"Blank"}
	]`), 0o600))

	out := run(t, importCmd(), path)
	assert.Contains(t, out, `transaction "b"`)
	assert.Contains(t, out, "Imported 1 transactions, 1 rows skipped")

	out = run(t, listCmd(), "--period", "0")
	assert.Contains(t, out, "Books")
	assert.NotContains(t, out, "Blank")
}

func TestClearSurvivesReopenWithLegacyData(t *testing.T) {
	useTempSettings(t)

	a, err := openApp(context.Background(), nil)
	require.NoError(t, err)
	legacy := fmt.Sprintf(`{"tx":[{"id":"legacy-1","desc":"Old rent","amount":-500,"date":%q}]}`,
		time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, a.store.Put(context.Background(), settings.LegacyKey, legacy))
	a.Close()

	out := run(t, listCmd(), "--period", "0")
	assert.Contains(t, out, "Old rent")

	run(t, clearCmd(), "--force")

	out = run(t, listCmd(), "--period", "0")
	assert.NotContains(t, out, "Old rent")
	assert.Contains(t, out, "No transactions match.")
}
