package contracts

import "time"

// Universe is the published result of the last cycle that actually recomputed
// ⭐ SSOT: S1 → 하위 소비자에게 전달되는 유니버스
type Universe struct {
	Date       time.Time         `json:"date"`
	Symbols    []string          `json:"symbols"`            // 순위 순서
	Excluded   map[string]string `json:"excluded,omitempty"` // 제외 종목: 사유
	TotalCount int               `json:"total_count"`
}

// Contains checks if a symbol is in the universe
func (u *Universe) Contains(symbol string) bool {
	for _, s := range u.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// IsExcluded checks if a symbol was excluded and returns the reason
func (u *Universe) IsExcluded(symbol string) (bool, string) {
	reason, exists := u.Excluded[symbol]
	return exists, reason
}

// Count returns the number of selected symbols
func (u *Universe) Count() int {
	return len(u.Symbols)
}

// Selection is the output of one selection stage.
// Unchanged means the previously published universe stays valid; it is
// distinct from an empty Symbols slice.
type Selection struct {
	Symbols   []string `json:"symbols"`
	Unchanged bool     `json:"unchanged"`
}

// UnchangedSelection returns the "keep prior universe" sentinel
func UnchangedSelection() Selection {
	return Selection{Unchanged: true}
}

// NewSelection wraps an ordered symbol list
func NewSelection(symbols []string) Selection {
	return Selection{Symbols: symbols}
}

// Len returns the number of selected symbols (0 for the sentinel)
func (s Selection) Len() int {
	return len(s.Symbols)
}
