package shell

import (
	"fmt"
	"io"

	"db_forms/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgMagenta, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	locusColor   = color.New(color.FgWhite, color.Bold)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
)

// RenderTable рисует таблицу с заголовками колонок
func RenderTable(t *domain.DisplayTable) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return tbl.Render()
}

func printTable(w io.Writer, t *domain.DisplayTable) {
	fmt.Fprintln(w, RenderTable(t))
	fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
}

// printMessage выводит сообщение в стиле "Заголовок: текст"
func printMessage(w io.Writer, c *color.Color, title, msg string) {
	c.Fprint(w, title+": ")
	fmt.Fprintln(w, msg)
}

func titleColor(title string) *color.Color {
	switch title {
	case "Success":
		return successColor
	case "User Error", "Missing Field", "Invalid Field":
		return warningColor
	default:
		return errorColor
	}
}
