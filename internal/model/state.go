package model

// DefaultBudget is the monthly expense ceiling used until the user sets one.
const DefaultBudget = 50000

// Theme selects the terminal palette.
type Theme string

// Themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Preferences holds the user-adjustable switches persisted with the state.
type Preferences struct {
	Theme       Theme `json:"theme"`
	AutoCleanup bool  `json:"autoCleanup"`
	AutoBackup  bool  `json:"autoBackup"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:       ThemeDark,
		AutoCleanup: true,
		AutoBackup:  false,
	}
}

// AppState is the aggregate persisted as a single blob.
type AppState struct {
	Transactions []Transaction `json:"tx"`
	Preferences  Preferences   `json:"meta"`
	Budget       float64       `json:"budget"`
}

// DefaultState returns an empty state with default budget and preferences.
func DefaultState() AppState {
	return AppState{
		Transactions: []Transaction{},
		Budget:       DefaultBudget,
		Preferences:  DefaultPreferences(),
	}
}

// Clone returns a copy whose transaction slice does not alias s.
func (s AppState) Clone() AppState {
	out := s
	out.Transactions = make([]Transaction, len(s.Transactions))
	copy(out.Transactions, s.Transactions)
	return out
}
