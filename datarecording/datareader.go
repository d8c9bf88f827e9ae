package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// QueryParams selects, sorts, and pages the rows of a table.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, such as
	// "PageFault = ? AND VAddr > ?".
	Where string

	// Args fill the placeholders of Where.
	Args []any

	// OrderBy is a sort order without the ORDER BY keywords, such as
	// "Seq DESC".
	OrderBy string

	// Limit is the maximum number of rows to return. 0 means no limit.
	Limit int

	// Offset is the number of matching rows to skip.
	Offset int
}

// DataReader can read the data written by a DataRecorder.
type DataReader interface {
	// MapTable binds a table to the struct type that its rows are scanned
	// into. A table must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the names of the tables in the database, sorted.
	ListTables() ([]string, error)

	// Query returns pointers to the mapped struct type, one per selected row,
	// and the number of rows that match the condition regardless of the
	// limit and the offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the reader
	Close() error
}

// rowMapping scans the columns of a table into the fields of a struct.
type rowMapping struct {
	entryType  reflect.Type
	fieldIndex map[string]int
}

type sqliteReader struct {
	db       *sql.DB
	mappings map[string]rowMapping
}

// NewReader creates a DataReader on a database file.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader with a given database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:       db,
		mappings: make(map[string]rowMapping),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	entryType := reflect.TypeOf(sampleEntry)
	fieldIndex := make(map[string]int)

	for i := 0; i < entryType.NumField(); i++ {
		if entryType.Field(i).IsExported() {
			fieldIndex[entryType.Field(i).Name] = i
		}
	}

	r.mappings[tableName] = rowMapping{
		entryType:  entryType,
		fieldIndex: fieldIndex,
	}
}

func (r *sqliteReader) ListTables() ([]string, error) {
	rows, err := r.db.Query(
		"SELECT name FROM sqlite_master " +
			"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}

	for rows.Next() {
		var name string

		err = rows.Scan(&name)
		if err != nil {
			return nil, err
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	mapping, ok := r.mappings[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("table %s is not mapped", tableName)
	}

	where := ""
	if params.Where != "" {
		where = " WHERE " + params.Where
	}

	var totalCount int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+where, params.Args...).
		Scan(&totalCount)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		selectSQL(tableName, where, params), params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := mapping.scan(rows)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func selectSQL(tableName, where string, params QueryParams) string {
	var b strings.Builder

	b.WriteString("SELECT * FROM " + tableName + where)

	if params.OrderBy != "" {
		b.WriteString(" ORDER BY " + params.OrderBy)
	}

	switch {
	case params.Limit > 0:
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", params.Limit, params.Offset)
	case params.Offset > 0:
		fmt.Fprintf(&b, " LIMIT -1 OFFSET %d", params.Offset)
	}

	return b.String()
}

// scan reads every row into a new struct. Columns without a matching field
// are skipped.
func (m rowMapping) scan(rows *sql.Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any

	for rows.Next() {
		entry := reflect.New(m.entryType)
		targets := make([]any, len(columns))

		for i, column := range columns {
			fieldIdx, found := m.fieldIndex[column]
			if !found {
				targets[i] = new(any)
				continue
			}

			targets[i] = entry.Elem().Field(fieldIdx).Addr().Interface()
		}

		err = rows.Scan(targets...)
		if err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
