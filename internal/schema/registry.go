// Package schema holds the fixed set of tables the forms work with and the
// form fields derived from them.
package schema

import (
	"fmt"
	"strings"

	"db_forms/internal/domain"
)

func col(name string, kind domain.FieldKind, label string) domain.ColumnInfo {
	return domain.ColumnInfo{Name: name, Kind: kind, Label: label, IsNullable: true}
}

func pk(name, label string) domain.ColumnInfo {
	return domain.ColumnInfo{Name: name, Kind: domain.Integer, Label: label}
}

// Первая колонка каждой таблицы всегда первичный ключ
var registry = []domain.TableSchema{
	{
		Name:        "Authors",
		DisplayName: "Authors",
		PrimaryKey:  "AuthorID",
		Columns: []domain.ColumnInfo{
			pk("AuthorID", "enter value for AuthorID(int)"),
			col("Name", domain.Text, "enter value for author's name (String)"),
			col("Bio", domain.Text, "enter author's biography (string)"),
		},
	},
	{
		Name:        "Books",
		DisplayName: "Books",
		PrimaryKey:  "BookID",
		Columns: []domain.ColumnInfo{
			pk("BookID", "enter value for book id (integer)"),
			col("Title", domain.Text, "enter the title of the book (string)"),
			col("AuthorID", domain.Integer, "enter the id of the Author (integer)"),
			col("Price", domain.Decimal, "enter Price (double)"),
			col("PublishedDate", domain.Text, "enter date of publication"),
		},
	},
	{
		Name:        "Customers",
		DisplayName: "Customers",
		PrimaryKey:  "CustomerID",
		Columns: []domain.ColumnInfo{
			pk("CustomerID", "enter the value for Customer id (Integer)"),
			col("FirstName", domain.Text, "enter the first name of customer (string)"),
			col("LastName", domain.Text, "enter the last name of customer (string)"),
			col("Email", domain.Text, "enter the email address (string)"),
		},
	},
	{
		Name:        "Orders",
		DisplayName: "Orders",
		PrimaryKey:  "OrderID",
		Columns: []domain.ColumnInfo{
			pk("OrderID", "enter order id (integer)"),
			col("CustomerID", domain.Integer, "enter customer id (integer)"),
			col("OrderDate", domain.Text, "enter date of order placed (01/05/2005)"),
			col("Status", domain.Text, "enter the status (string)"),
		},
	},
	{
		Name:        "OrderItems",
		DisplayName: "Order Items",
		PrimaryKey:  "OrderItemID",
		Columns: []domain.ColumnInfo{
			pk("OrderItemID", "enter value of the OrderItemID (integer)"),
			col("OrderID", domain.Integer, "enter the number of OrderID(integer)"),
			col("BookID", domain.Integer, "enter the number of the BookID(integer)"),
			col("Quantity", domain.Integer, "enter the number of Quantity (integer)"),
			col("Price", domain.Decimal, "enter the value for the Price (double)"),
		},
	},
}

// Normalize переводит имя из списка выбора во внутренний идентификатор
func Normalize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "")
}

// Lookup returns a copy of the schema of one of the fixed tables. Matching
// ignores case and spaces, so "order items" finds OrderItems.
func Lookup(name string) (*domain.TableSchema, error) {
	key := Normalize(name)
	for i := range registry {
		if strings.EqualFold(registry[i].Name, key) {
			return clone(&registry[i]), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTable, name)
}

// Resolve returns the form fields for a table, primary key first.
func Resolve(name string) ([]domain.FieldSpec, error) {
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return Fields(s), nil
}

func Fields(s *domain.TableSchema) []domain.FieldSpec {
	fields := make([]domain.FieldSpec, len(s.Columns))
	for i, c := range s.Columns {
		fields[i] = domain.FieldSpec{Column: c.Name, Label: c.Label, Kind: c.Kind}
	}
	return fields
}

// Tables returns copies of every registered schema in registry order.
func Tables() []*domain.TableSchema {
	tables := make([]*domain.TableSchema, len(registry))
	for i := range registry {
		tables[i] = clone(&registry[i])
	}
	return tables
}

// clone копия схемы, реестр не меняется вызывающим кодом
func clone(s *domain.TableSchema) *domain.TableSchema {
	c := *s
	c.Columns = append([]domain.ColumnInfo(nil), s.Columns...)
	return &c
}

func DisplayNames() []string {
	names := make([]string, len(registry))
	for i := range registry {
		names[i] = registry[i].DisplayName
	}
	return names
}
