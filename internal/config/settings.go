package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/spf13/viper"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultDatabasePath   = "$HOME/.local/share/spendcraft/spendcraft.db"
	DefaultStorageKey     = "spendcraft_v3_pro"
	DefaultLegacyKey      = "spendcraft_v2"
	DefaultRetentionDays  = 15
	DefaultPeriodDays     = 15
	DefaultMonths         = 6
	DefaultBackupInterval = 5 * time.Minute
	DefaultCurrency       = "₹"
	DefaultSort           = "date_desc"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	DatabasePath   string
	StorageKey     string
	LegacyKey      string
	BackupDir      string
	Currency       string
	Sort           string
	BackupInterval time.Duration
	RetentionDays  int
	PeriodDays     int
	Months         int
}

// SetDefaults registers every key spendcraft reads so that viper can resolve
// them from defaults, the config file or SPENDCRAFT_* variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("storage.legacy_key", DefaultLegacyKey)
	v.SetDefault("cleanup.retention_days", DefaultRetentionDays)
	v.SetDefault("view.period_days", DefaultPeriodDays)
	v.SetDefault("view.sort", DefaultSort)
	v.SetDefault("view.months", DefaultMonths)
	v.SetDefault("backup.interval", DefaultBackupInterval)
	v.SetDefault("backup.dir", ".")
	v.SetDefault("display.currency", DefaultCurrency)
}

// Load reads Settings out of v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	s := Settings{
		DatabasePath:   ExpandPath(v.GetString("database.path")),
		StorageKey:     v.GetString("storage.key"),
		LegacyKey:      v.GetString("storage.legacy_key"),
		RetentionDays:  v.GetInt("cleanup.retention_days"),
		PeriodDays:     v.GetInt("view.period_days"),
		Sort:           v.GetString("view.sort"),
		Months:         v.GetInt("view.months"),
		BackupInterval: v.GetDuration("backup.interval"),
		BackupDir:      ExpandPath(v.GetString("backup.dir")),
		Currency:       v.GetString("display.currency"),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.DatabasePath) == "" {
		problems = append(problems, "database.path cannot be empty")
	}
	if strings.TrimSpace(s.StorageKey) == "" {
		problems = append(problems, "storage.key cannot be empty")
	}
	if s.StorageKey != "" && s.StorageKey == s.LegacyKey {
		problems = append(problems, "storage.legacy_key must differ from storage.key")
	}
	if s.RetentionDays < 1 {
		problems = append(problems, fmt.Sprintf("cleanup.retention_days %d: must be at least 1", s.RetentionDays))
	}
	if s.PeriodDays < 0 {
		problems = append(problems, fmt.Sprintf("view.period_days %d: must be 0 (all) or positive", s.PeriodDays))
	}
	if s.Months < 1 || s.Months > 24 {
		problems = append(problems, fmt.Sprintf("view.months %d: must be between 1 and 24", s.Months))
	}
	switch s.Sort {
	case "date_desc", "date_asc", "amount_desc", "amount_asc":
	default:
		problems = append(problems, fmt.Sprintf("view.sort %q: must be one of date_desc, date_asc, amount_desc, amount_asc", s.Sort))
	}
	if s.BackupInterval < time.Second {
		problems = append(problems, fmt.Sprintf("backup.interval %v: must be at least 1 second", s.BackupInterval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", common.ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}
