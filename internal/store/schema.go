package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/rubberduck/ent/schema"
)

// table binds a SQLite table to the ent schema that describes it.
type table struct {
	name   string
	schema ent.Interface
}

var (
	llmEventsTable     = table{"llm_request_events", schema.LLMRequestEvent{}}
	sessionEventsTable = table{"session_events", schema.SessionEvent{}}
	archiveTable       = table{"session_archive", schema.ArchivedSession{}}
)

var tables = []table{llmEventsTable, sessionEventsTable, archiveTable}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// fields returns the mixin fields followed by the schema's own fields.
func fields(s ent.Interface) []*field.Descriptor {
	var out []*field.Descriptor
	for _, m := range s.Mixin() {
		for _, f := range m.Fields() {
			out = append(out, f.Descriptor())
		}
	}
	for _, f := range s.Fields() {
		out = append(out, f.Descriptor())
	}
	return out
}

func columnName(d *field.Descriptor) string {
	if d.StorageKey != "" {
		return d.StorageKey
	}
	return d.Name
}

// columnType maps ent field types to SQLite affinities. Times are stored as
// unix milliseconds so range filters compare numbers.
func columnType(d *field.Descriptor) string {
	switch d.Info.Type {
	case field.TypeBool, field.TypeInt, field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt64,
		field.TypeUint, field.TypeUint8, field.TypeUint16, field.TypeUint32, field.TypeUint64, field.TypeTime:
		return "integer"
	case field.TypeFloat32, field.TypeFloat64:
		return "real"
	case field.TypeJSON:
		return "json"
	default:
		return "text"
	}
}

// defaultLiteral renders a constant field default as SQL. Function
// defaults like time.Now are filled in by the repos.
func defaultLiteral(d *field.Descriptor) (string, bool) {
	switch v := d.Default.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	}
	return "", false
}

// createStatements renders CREATE TABLE and CREATE INDEX statements for t.
// A field named id becomes the primary key. Without one the table gets an
// autoincrement integer id.
func createStatements(t table) ([]string, error) {
	descs := fields(t.schema)
	names := make(map[string]string, len(descs))

	var cols []*entsql.ColumnBuilder
	if !slices.ContainsFunc(descs, func(d *field.Descriptor) bool { return d.Name == "id" }) {
		cols = append(cols, builder().Column("id").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT"))
		names["id"] = "id"
	}
	for _, d := range descs {
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.name, d.Name, d.Err)
		}
		names[d.Name] = columnName(d)

		var attrs []string
		switch {
		case d.Name == "id":
			attrs = append(attrs, "PRIMARY KEY")
		case !d.Optional:
			attrs = append(attrs, "NOT NULL")
		}
		if d.Unique && d.Name != "id" {
			attrs = append(attrs, "UNIQUE")
		}
		if lit, ok := defaultLiteral(d); ok {
			attrs = append(attrs, "DEFAULT "+lit)
		}
		cols = append(cols, builder().Column(columnName(d)).Type(columnType(d)).Attr(strings.Join(attrs, " ")))
	}

	create, _ := builder().CreateTable(t.name).IfNotExists().Columns(cols...).Query()
	stmts := []string{create}

	var indexes []ent.Index
	for _, m := range t.schema.Mixin() {
		indexes = append(indexes, m.Indexes()...)
	}
	indexes = append(indexes, t.schema.Indexes()...)
	for _, idx := range indexes {
		desc := idx.Descriptor()
		columns := make([]string, len(desc.Fields))
		for i, f := range desc.Fields {
			c, ok := names[f]
			if !ok {
				return nil, fmt.Errorf("%s: index on unknown field %q", t.name, f)
			}
			columns[i] = c
		}
		ib := builder().CreateIndex(t.name + "_" + strings.Join(columns, "_")).IfNotExists().Table(t.name).Columns(columns...)
		if desc.Unique {
			ib.Unique()
		}
		q, _ := ib.Query()
		stmts = append(stmts, q)
	}
	return stmts, nil
}

// migrate creates every table and index that does not exist yet.
func migrate(ctx context.Context, drv dialect.Driver) error {
	for _, t := range tables {
		stmts, err := createStatements(t)
		if err != nil {
			return err
		}
		for _, q := range stmts {
			if err := drv.Exec(ctx, q, []any{}, nil); err != nil {
				return fmt.Errorf("create %s: %w", t.name, err)
			}
		}
	}
	return nil
}

// validate runs the schema's field validators and enum checks against the
// values about to be written to t. values is keyed by field name.
func validate(t table, values map[string]any) error {
	for _, d := range fields(t.schema) {
		v, ok := values[d.Name]
		if !ok {
			continue
		}
		if len(d.Enums) > 0 {
			s, _ := v.(string)
			if !slices.ContainsFunc(d.Enums, func(e struct{ N, V string }) bool { return e.V == s }) {
				return fmt.Errorf("%s.%s: invalid value %q", t.name, d.Name, s)
			}
		}
		for _, fn := range d.Validators {
			var err error
			switch check := fn.(type) {
			case func(string) error:
				err = check(v.(string))
			case func(int) error:
				err = check(v.(int))
			case func(int64) error:
				err = check(v.(int64))
			}
			if err != nil {
				return fmt.Errorf("%s.%s: %w", t.name, d.Name, err)
			}
		}
	}
	return nil
}

// insertQuery validates values and renders an INSERT for t. columns are
// field names; the matching storage keys are used in the statement.
func insertQuery(t table, columns []string, values []any) (*entsql.InsertBuilder, error) {
	byName := make(map[string]any, len(columns))
	for i, c := range columns {
		byName[c] = values[i]
	}
	if err := validate(t, byName); err != nil {
		return nil, err
	}

	keys := make(map[string]string)
	for _, d := range fields(t.schema) {
		keys[d.Name] = columnName(d)
	}
	stored := make([]string, len(columns))
	for i, c := range columns {
		stored[i] = keys[c]
	}
	return builder().Insert(t.name).Columns(stored...).Values(values...), nil
}
