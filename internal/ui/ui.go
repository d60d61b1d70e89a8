package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

var supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func init() {
	if !supportsColor {
		color.NoColor = true
	}
}

// ShowError displays a formatted error message
func ShowError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("ERROR:"), err.Error())
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("OK:"), message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	fmt.Printf("%s %s\n", color.YellowString("WARNING:"), message)
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("INFO:"), message)
}

// TaskTable renders workflow tasks as a left-aligned table
type TaskTable struct {
	table *tablewriter.Table
}

// NewTaskTable creates a task table writing to w
func NewTaskTable(w io.Writer) *TaskTable {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Task", "Target", "Source", "Keys", "Depends On"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return &TaskTable{table: table}
}

// AddRow adds one task row
func (t *TaskTable) AddRow(task, target, source, keys, dependsOn string) {
	t.table.Append([]string{task, target, source, keys, dependsOn})
}

// Render writes the table
func (t *TaskTable) Render() {
	t.table.Render()
}
