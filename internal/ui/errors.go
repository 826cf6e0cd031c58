package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tcr/internal/domain"
	"tcr/internal/storage"
)

const maxTraceLines = 10

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer that persists resolved marks to st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// SortFailures orders failures by collection, class and test name
func SortFailures(failures []domain.TestFailure) {
	sort.SliceStable(failures, func(i, j int) bool {
		a, b := failures[i], failures[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.ClassName != b.ClassName {
			return a.ClassName < b.ClassName
		}
		return a.TestName < b.TestName
	})
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}
	SortFailures(results.Details)

	app := tview.NewApplication()
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		list.SetItemText(index, listItemText(results.Details[index], index), "")
	}
	for i := range results.Details {
		list.AddItem(listItemText(results.Details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)
	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Test Failures (%d total, %d unresolved, %d collections) | ↑↓ navigate, [yellow]R[white] resolve, → details, ← back, Ctrl+C exit ",
			len(results.Details), countUnresolved(results.Details), countCollections(results.Details)))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			statsView.SetText(formatFailureStats(results.Details[index], index+1))
			detailsView.SetText(formatFailureDetails(results.Details[index]))
			detailsView.ScrollToBeginning()
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() != 'r' && event.Rune() != 'R' {
				return event
			}
			index := list.GetCurrentItem()
			if index >= 0 && index < len(results.Details) {
				results.Details[index].Resolved = !results.Details[index].Resolved
				updateListItem(index)
				updateHeader()
				updateDetails()
				if ev.storage != nil {
					saveErr = ev.storage.SaveOutput(results)
				}
			}
			return nil
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

// PrintFailures writes failures without the TUI, grouped by collection
func (f *Formatter) PrintFailures(results *domain.TestResultsOutput) {
	if len(results.Details) == 0 {
		green.Fprintln(f.out, "✓ No test failures found!")
		return
	}
	SortFailures(results.Details)

	current := "\x00"
	for _, failure := range results.Details {
		if failure.Collection != current {
			current = failure.Collection
			fmt.Fprintln(f.out)
			cyan.Fprintf(f.out, "■ %s\n", current)
		}
		mark := red.Sprint("✗")
		if failure.Resolved {
			mark = faint.Sprint("✓")
		}
		fmt.Fprintf(f.out, "  %s %s::%s\n", mark, failure.ClassName, yellow.Sprint(failure.TestName))
		if failure.File != "" && failure.Line > 0 {
			faint.Fprintf(f.out, "    %s:%d\n", failure.File, failure.Line)
		}
		if failure.Message != "" {
			for _, line := range strings.Split(failure.Message, "\n") {
				fmt.Fprintf(f.out, "    %s\n", line)
			}
		}
	}
}

func listItemText(failure domain.TestFailure, index int) string {
	testName := failure.TestName
	if testName == "" {
		testName = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, testName)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, testName)
}

func countUnresolved(failures []domain.TestFailure) int {
	n := 0
	for _, f := range failures {
		if !f.Resolved {
			n++
		}
	}
	return n
}

func countCollections(failures []domain.TestFailure) int {
	seen := make(map[string]struct{})
	for _, f := range failures {
		seen[f.Collection] = struct{}{}
	}
	return len(seen)
}

// formatFailureDetails formats a test failure using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n\n", tview.Escape(failure.TestName))
	fmt.Fprintf(&b, "[cyan]Class: %s[white]\n", tview.Escape(failure.ClassName))
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n", tview.Escape(failure.FilePath))
	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(&b, "[yellow]Location: %s:%d[white]\n", tview.Escape(failure.File), failure.Line)
	}
	b.WriteString("\n")

	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}
	if failure.ErrorDetails != "" {
		fmt.Fprintf(&b, "[yellow]Error Details:[white]\n%s\n\n", tview.Escape(failure.ErrorDetails))
	}
	if len(failure.StackTrace) > 0 {
		b.WriteString("[yellow]Stack Trace:[white]\n")
		for i, trace := range failure.StackTrace {
			if i == maxTraceLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxTraceLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(trace))
		}
	}
	return b.String()
}

// formatFailureStats formats the header line shown above failure details
func formatFailureStats(failure domain.TestFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}
	testCase := failure.TestName
	if testCase == "" {
		testCase = fmt.Sprintf("Test %d", number)
	}
	collection := failure.Collection
	if collection == "" {
		collection = "(no collection)"
	}
	return fmt.Sprintf("[cyan]collection:[white] [yellow]%s[white]\n[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n",
		tview.Escape(collection), tview.Escape(path), tview.Escape(testCase))
}
