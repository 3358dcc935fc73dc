// Package forms runs one user action at a time against the store:
// validate, build, execute, then re-read the table for display.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"db_forms/internal/connectors"
	"db_forms/internal/crud"
	"db_forms/internal/domain"
	"db_forms/internal/logger"
	"db_forms/internal/schema"

	"github.com/google/uuid"
)

type Service struct {
	store        connectors.Store
	logger       *logger.Log
	builder      crud.Builder
	strictFields bool
	newActionID  func() string
}

// Outcome результат одного действия пользователя
type Outcome struct {
	OK           bool
	Action       domain.Action
	Table        string
	RowsAffected int64
	Title        string
	Message      string
	Err          error
	Display      *domain.DisplayTable // Таблица после изменения, если удалось перечитать
}

func NewService(store connectors.Store, l *logger.Log, opts ...ServiceOption) *Service {
	if l == nil {
		l = logger.Nop()
	}
	s := &Service{
		store:       store,
		logger:      l,
		builder:     crud.Builder{Placeholder: store.Placeholder()},
		newActionID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lookupSelected(table string) (*domain.TableSchema, error) {
	if strings.TrimSpace(table) == "" {
		return nil, domain.ErrNoSelection
	}
	return schema.Lookup(table)
}

// Fields возвращает поля формы для выбранной таблицы
func (s *Service) Fields(table string) ([]domain.FieldSpec, error) {
	ts, err := lookupSelected(table)
	if err != nil {
		return nil, err
	}
	return schema.Fields(ts), nil
}

// Refresh reads the whole table. Uncommitted changes of this session are
// visible.
func (s *Service) Refresh(ctx context.Context, table string) (*domain.DisplayTable, error) {
	ts, err := lookupSelected(table)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, ts)
}

func (s *Service) refresh(ctx context.Context, ts *domain.TableSchema) (*domain.DisplayTable, error) {
	display, err := s.store.SelectAll(ctx, ts.Name)
	if err != nil {
		return nil, &domain.QueryError{Op: "select", Table: ts.Name, Err: err}
	}
	s.logger.Debugw("table refreshed", "table", ts.Name, "rows", len(display.Rows))
	return display, nil
}

func (s *Service) Insert(ctx context.Context, table string, values domain.RowValues) Outcome {
	return s.Submit(ctx, table, domain.Insert, values, "")
}

func (s *Service) Update(ctx context.Context, table string, rowID string, values domain.RowValues) Outcome {
	return s.Submit(ctx, table, domain.Update, values, rowID)
}

func (s *Service) Delete(ctx context.Context, table string, rowID string) Outcome {
	return s.Submit(ctx, table, domain.Delete, nil, rowID)
}

// Submit runs one mutation. Errors never escape: they are reported in the
// returned Outcome.
func (s *Service) Submit(ctx context.Context, table string, action domain.Action, values domain.RowValues, rowID string) Outcome {
	actionID := s.newActionID()
	out := Outcome{Action: action, Table: table}

	ts, err := lookupSelected(table)
	if err != nil {
		return s.fail(out, actionID, nil, err)
	}
	out.Table = ts.Name

	req := &domain.CrudRequest{Table: ts, Action: action, Values: values, RowID: rowID}
	if err := crud.Validate(req); err != nil {
		return s.fail(out, actionID, ts, err)
	}
	if s.strictFields {
		if err := crud.ValidateFields(req); err != nil {
			return s.fail(out, actionID, ts, err)
		}
	}

	query, args, err := s.builder.Build(req)
	if err != nil {
		return s.fail(out, actionID, ts, err)
	}
	s.logger.Debugw("executing", "action_id", actionID, "table", ts.Name, "action", action.String(), "query", query)

	n, err := s.store.Exec(ctx, query, args...)
	if err != nil {
		return s.fail(out, actionID, ts, &domain.QueryError{Op: action.String(), Table: ts.Name, Err: err})
	}
	out.OK = true
	out.RowsAffected = n
	out.Title = "Success"
	out.Message = successMessage(action, ts, n)
	s.logger.Infow("action applied", "action_id", actionID, "table", ts.Name, "action", action.String(), "rows", n)

	display, err := s.refresh(ctx, ts)
	if err != nil {
		out.Err = err
		out.Message += "; refresh failed: " + err.Error()
		s.logger.Errorw("refresh after action failed", "action_id", actionID, "table", ts.Name, "error", err)
		return out
	}
	out.Display = display
	return out
}

// Commit делает все изменения сессии постоянными
func (s *Service) Commit() Outcome {
	pending := s.store.Pending()
	if err := s.store.Commit(); err != nil {
		err = &domain.QueryError{Op: "commit", Err: err}
		s.logger.Errorw("commit failed", "error", err)
		title, msg := Describe(err, nil)
		return Outcome{Title: title, Message: msg, Err: err}
	}
	s.logger.Infow("changes committed", "pending", pending)
	return Outcome{OK: true, Title: "Success", Message: "Changes saved to the database."}
}

// Pending сообщает, есть ли незафиксированные изменения
func (s *Service) Pending() bool {
	return s.store.Pending()
}

// Status проверяет, что соединение живо
func (s *Service) Status() Outcome {
	if err := s.store.Ping(); err != nil {
		err = &domain.QueryError{Op: "ping", Err: err}
		s.logger.Errorw("ping failed", "error", err)
		title, msg := Describe(err, nil)
		return Outcome{Title: title, Message: msg, Err: err}
	}
	msg := "Connected, no uncommitted changes."
	if s.store.Pending() {
		msg = "Connected, there are uncommitted changes."
	}
	return Outcome{OK: true, Title: "Success", Message: msg}
}

func (s *Service) fail(out Outcome, actionID string, ts *domain.TableSchema, err error) Outcome {
	out.OK = false
	out.Err = err
	out.Title, out.Message = Describe(err, ts)

	var qe *domain.QueryError
	if errors.As(err, &qe) {
		s.logger.Errorw("action failed", "action_id", actionID, "table", out.Table, "action", out.Action.String(), "error", err)
	} else {
		s.logger.Warnw("action rejected", "action_id", actionID, "table", out.Table, "action", out.Action.String(), "error", err)
	}
	return out
}

func successMessage(action domain.Action, ts *domain.TableSchema, n int64) string {
	switch action {
	case domain.Insert:
		return fmt.Sprintf("Row inserted into %s.", ts.DisplayName)
	case domain.Update:
		return fmt.Sprintf("%d row(s) updated in %s.", n, ts.DisplayName)
	default:
		return fmt.Sprintf("%d row(s) deleted from %s.", n, ts.DisplayName)
	}
}

// Describe возвращает заголовок и текст сообщения для пользователя
func Describe(err error, ts *domain.TableSchema) (string, string) {
	pk := "ID"
	if ts != nil {
		pk = ts.PrimaryKey
	}
	var qe *domain.QueryError
	var fe *domain.FieldError
	switch {
	case err == nil:
		return "Success", ""
	case errors.Is(err, domain.ErrNoSelection):
		return "User Error", "No selection, please select a table."
	case errors.Is(err, domain.ErrUnknownTable):
		return "Error", err.Error()
	case errors.Is(err, domain.ErrMissingPrimaryKey):
		return "Missing Field", fmt.Sprintf("%s cannot be empty.", pk)
	case errors.Is(err, domain.ErrInvalidPrimaryKey):
		return "Invalid Field", "ID must be a number."
	case errors.As(err, &fe):
		return "Invalid Field", fe.Error()
	case errors.Is(err, domain.ErrFieldCount):
		return "Invalid Field", err.Error()
	case errors.Is(err, domain.ErrUnsupportedAction):
		return "Error", err.Error()
	case errors.As(err, &qe):
		return "Error", qe.Err.Error()
	default:
		return "Error", err.Error()
	}
}
