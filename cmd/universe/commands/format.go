package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled block
func PrintHeader(title string, kv [][2]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	for _, pair := range kv {
		fmt.Printf("  %-10s: %s\n", pair[0], pair[1])
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintCycleResult prints stages, selected symbols and (optionally) exclusions
func PrintCycleResult(result *s1_universe.CycleResult, showExcluded bool) {
	widths := []int{12, 8, 8, 10}
	PrintTableHeader([]string{"STAGE", "IN", "OUT", "UNCHANGED"}, widths)
	for _, st := range result.Stages {
		PrintTableRow([]string{
			st.Stage.ShortName(),
			fmt.Sprintf("%d", st.InputCount),
			fmt.Sprintf("%d", st.OutputCount),
			fmt.Sprintf("%v", st.Unchanged),
		}, widths)
	}
	fmt.Println()

	PrintKeyValue("Outcome", string(result.Outcome), 9)
	PrintKeyValue("Duration", result.Duration.String(), 9)
	PrintKeyValue("Selected", fmt.Sprintf("%d", result.Selection.Len()), 9)

	if len(result.Selection.Symbols) > 0 {
		fmt.Println()
		for i, sym := range result.Selection.Symbols {
			fmt.Printf("   %4d. %s\n", i+1, sym)
		}
	}

	if showExcluded && len(result.Excluded) > 0 {
		fmt.Println()
		symbols := make([]string, 0, len(result.Excluded))
		for sym := range result.Excluded {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)

		widths := []int{10, 40}
		PrintTableHeader([]string{"SYMBOL", "REASON"}, widths)
		for _, sym := range symbols {
			PrintTableRow([]string{sym, result.Excluded[sym]}, widths)
		}
	}
}
