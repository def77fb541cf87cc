package config

import (
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "/home/tester/.local/share/spendcraft/spendcraft.db", s.DatabasePath)
	assert.Equal(t, DefaultStorageKey, s.StorageKey)
	assert.Equal(t, DefaultLegacyKey, s.LegacyKey)
	assert.Equal(t, 15, s.RetentionDays)
	assert.Equal(t, 15, s.PeriodDays)
	assert.Equal(t, 6, s.Months)
	assert.Equal(t, "date_desc", s.Sort)
	assert.Equal(t, 5*time.Minute, s.BackupInterval)
	assert.Equal(t, "₹", s.Currency)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("database.path", "/tmp/x.db")
	v.Set("view.months", 12)
	v.Set("view.sort", "amount_desc")
	v.Set("backup.interval", "30s")

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", s.DatabasePath)
	assert.Equal(t, 12, s.Months)
	assert.Equal(t, "amount_desc", s.Sort)
	assert.Equal(t, 30*time.Second, s.BackupInterval)
}

func TestValidate(t *testing.T) {
	valid := Settings{
		DatabasePath:   "/tmp/db",
		StorageKey:     "a",
		LegacyKey:      "b",
		RetentionDays:  15,
		PeriodDays:     0,
		Months:         6,
		Sort:           "date_asc",
		BackupInterval: time.Minute,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		mutate func(*Settings)
		name   string
		want   string
	}{
		{name: "empty db path", mutate: func(s *Settings) { s.DatabasePath = " " }, want: "database.path"},
		{name: "same keys", mutate: func(s *Settings) { s.LegacyKey = s.StorageKey }, want: "legacy_key"},
		{name: "retention", mutate: func(s *Settings) { s.RetentionDays = 0 }, want: "retention_days"},
		{name: "period", mutate: func(s *Settings) { s.PeriodDays = -1 }, want: "period_days"},
		{name: "months", mutate: func(s *Settings) { s.Months = 30 }, want: "view.months"},
		{name: "sort", mutate: func(s *Settings) { s.Sort = "random" }, want: "view.sort"},
		{name: "interval", mutate: func(s *Settings) { s.BackupInterval = time.Millisecond }, want: "backup.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("SPENDCRAFT_TEST_DIR", "data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tester/x.db", ExpandPath("~/x.db"))
	assert.Equal(t, "/home/tester", ExpandPath("~"))
	assert.Equal(t, "data/x.db", ExpandPath("$SPENDCRAFT_TEST_DIR/x.db"))
}
