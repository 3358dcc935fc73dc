// Package shell is a line-oriented front end for the forms service: pick a
// table, show it, and insert, edit or delete rows one action at a time.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"db_forms/internal/domain"
	"db_forms/internal/schema"
	"db_forms/internal/services/forms"
)

type Shell struct {
	svc    *forms.Service
	in     *bufio.Scanner
	out    io.Writer
	prompt bool

	table string // Выбранная таблица, пусто если не выбрана
	last  *domain.DisplayTable
}

func New(svc *forms.Service, in io.Reader, out io.Writer, interactive bool) *Shell {
	return &Shell{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: interactive,
	}
}

const helpText = `commands:
  tables          list tables
  use <table>     select a table and show it
  get             show the selected table
  fields          show the form fields of the selected table
  insert          insert a row, field by field
  edit <id>       edit the row with this id
  delete <id>     delete the row with this id
  save            commit changes to the database
  status          check the connection and pending changes
  help            show this text
  quit            leave (uncommitted changes are lost)

in forms, empty input keeps the value shown in brackets and - clears it`

// Run читает команды до quit или конца ввода
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, ok := s.readLine("db_forms> ")
		if !ok {
			break
		}
		cmd, arg := splitCommand(line)
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			break
		}
		s.dispatch(ctx, cmd, arg)
	}
	if s.svc.Pending() {
		printMessage(s.out, warningColor, "Warning", "uncommitted changes were discarded")
	}
	return s.in.Err()
}

func (s *Shell) dispatch(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "tables":
		for _, name := range schema.DisplayNames() {
			fmt.Fprintln(s.out, name)
		}
	case "use":
		if _, err := schema.Lookup(arg); err != nil {
			s.report(err)
			return
		}
		s.table = arg
		s.last = nil
		s.get(ctx)
	case "get":
		s.get(ctx)
	case "fields":
		s.fields()
	case "insert":
		s.insert(ctx)
	case "edit", "update":
		s.edit(ctx, arg)
	case "delete":
		s.delete(ctx, arg)
	case "save", "commit":
		out := s.svc.Commit()
		printMessage(s.out, titleColor(out.Title), out.Title, out.Message)
	case "status":
		out := s.svc.Status()
		printMessage(s.out, titleColor(out.Title), out.Title, out.Message)
	default:
		printMessage(s.out, errorColor, "Error", fmt.Sprintf("Unknown command: %s (try help)", cmd))
	}
}

func (s *Shell) get(ctx context.Context) {
	display, err := s.svc.Refresh(ctx, s.table)
	if err != nil {
		s.report(err)
		return
	}
	s.last = display
	printTable(s.out, display)
}

func (s *Shell) fields() {
	fields, err := s.svc.Fields(s.table)
	if err != nil {
		s.report(err)
		return
	}
	for _, f := range fields {
		fmt.Fprintf(s.out, "%-14s %-8s %s\n", f.Column, f.Kind, f.Label)
	}
}

func (s *Shell) insert(ctx context.Context) {
	fields, err := s.svc.Fields(s.table)
	if err != nil {
		s.report(err)
		return
	}
	values, ok := s.readForm(fields, nil)
	if !ok {
		return
	}
	s.show(s.svc.Insert(ctx, s.table, values))
}

func (s *Shell) edit(ctx context.Context, id string) {
	fields, err := s.svc.Fields(s.table)
	if err != nil {
		s.report(err)
		return
	}
	if id == "" {
		printMessage(s.out, warningColor, "User Error", "cannot change blank row")
		return
	}
	if s.last == nil {
		if s.last, err = s.svc.Refresh(ctx, s.table); err != nil {
			s.report(err)
			return
		}
	}
	ts, _ := schema.Lookup(s.table)
	defaults, ok := forms.EditValues(ts, s.last, id)
	if !ok {
		printMessage(s.out, warningColor, "User Error", fmt.Sprintf("no row with id %s", id))
		return
	}
	values, ok := s.readForm(fields, defaults)
	if !ok {
		return
	}
	s.show(s.svc.Update(ctx, s.table, id, values))
}

func (s *Shell) delete(ctx context.Context, id string) {
	if _, err := s.svc.Fields(s.table); err != nil {
		s.report(err)
		return
	}
	if id == "" {
		printMessage(s.out, warningColor, "User Error", "No selection, please select a row to delete.")
		return
	}
	answer, ok := s.readLine("Are you sure you want to delete this row? [y/N] ")
	if !ok || !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return
	}
	s.show(s.svc.Delete(ctx, s.table, id))
}

// readForm запрашивает значения по одному на поле.
// Пустой ввод оставляет значение по умолчанию, clearValue очищает поле.
func (s *Shell) readForm(fields []domain.FieldSpec, defaults domain.RowValues) (domain.RowValues, bool) {
	values := make(domain.RowValues, len(fields))
	for i, f := range fields {
		prompt := f.Label + ": "
		if defaults != nil {
			prompt = fmt.Sprintf("%s [%s]: ", f.Label, defaults[i])
		}
		line, ok := s.readLine(prompt)
		if !ok {
			return nil, false
		}
		switch {
		case line == clearValue:
			line = ""
		case line == "" && defaults != nil:
			line = defaults[i]
		}
		values[i] = line
	}
	return values, true
}

const clearValue = "-"

func (s *Shell) show(out forms.Outcome) {
	printMessage(s.out, titleColor(out.Title), out.Title, out.Message)
	if out.Display != nil {
		s.last = out.Display
		printTable(s.out, out.Display)
	}
}

func (s *Shell) report(err error) {
	title, msg := forms.Describe(err, nil)
	printMessage(s.out, titleColor(title), title, msg)
}

func (s *Shell) readLine(prompt string) (string, bool) {
	if s.prompt {
		locusColor.Fprint(s.out, prompt)
	}
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func splitCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
