package trace

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// TableExtractor maps a SQL statement to the tables it references.
type TableExtractor interface {
	Tables(sql string) ([]string, error)
}

// SQLTableExtractor extracts table names with a dialect SQL parser. It is
// best effort: statements that fail to parse contribute no tables rather
// than aborting the caller.
type SQLTableExtractor struct{}

func NewSQLTableExtractor() *SQLTableExtractor {
	return &SQLTableExtractor{}
}

// Tables returns the distinct tables referenced by sql, which may contain
// multiple semicolon-separated statements.
func (e *SQLTableExtractor) Tables(sql string) ([]string, error) {
	pieces, err := sqlparser.SplitStatementToPieces(sql)
	if err != nil {
		return nil, err
	}
	var tables []string
	seen := make(map[string]bool)
	add := func(name sqlparser.TableName) {
		table := name.Name.String()
		if table == "" || seen[table] {
			return
		}
		seen[table] = true
		tables = append(tables, table)
	}
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		statement, err := sqlparser.Parse(piece)
		if err != nil {
			continue
		}
		collectStatementTables(statement, add)
	}
	return tables, nil
}

func collectStatementTables(statement sqlparser.Statement, add func(sqlparser.TableName)) {
	switch s := statement.(type) {
	case *sqlparser.Select:
		collectFromTables(s.From, add)
	case *sqlparser.Union:
		collectSelectTables(s.Left, add)
		collectSelectTables(s.Right, add)
	case *sqlparser.Insert:
		add(s.Table)
		if rows, ok := s.Rows.(sqlparser.SelectStatement); ok {
			collectSelectTables(rows, add)
		}
	case *sqlparser.Update:
		collectFromTables(s.TableExprs, add)
	case *sqlparser.Delete:
		collectFromTables(s.TableExprs, add)
	case *sqlparser.DDL:
		if !s.Table.IsEmpty() {
			add(s.Table)
		}
		if !s.NewName.IsEmpty() {
			add(s.NewName)
		}
	}
}

func collectSelectTables(statement sqlparser.SelectStatement, add func(sqlparser.TableName)) {
	switch s := statement.(type) {
	case *sqlparser.Select:
		collectFromTables(s.From, add)
	case *sqlparser.Union:
		collectSelectTables(s.Left, add)
		collectSelectTables(s.Right, add)
	case *sqlparser.ParenSelect:
		collectSelectTables(s.Select, add)
	}
}

func collectFromTables(exprs sqlparser.TableExprs, add func(sqlparser.TableName)) {
	for _, expr := range exprs {
		collectTableExpr(expr, add)
	}
}

func collectTableExpr(expr sqlparser.TableExpr, add func(sqlparser.TableName)) {
	switch t := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch inner := t.Expr.(type) {
		case sqlparser.TableName:
			add(inner)
		case *sqlparser.Subquery:
			collectSelectTables(inner.Select, add)
		}
	case *sqlparser.JoinTableExpr:
		collectTableExpr(t.LeftExpr, add)
		collectTableExpr(t.RightExpr, add)
	case *sqlparser.ParenTableExpr:
		collectFromTables(t.Exprs, add)
	}
}
