// Package datarecording stores simulation records in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the exported fields
	// of the sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry of a table that already exists. The entry
	// must have the same type as the sample entry of the table.
	InsertData(tableName string, entry any)

	// Flush writes all the buffered entries into the database.
	Flush()
}

const defaultFlushThreshold = 100000

// New creates a new DataRecorder that writes to path.sqlite3. A unique name is
// generated if the path is empty. Buffered entries are flushed at exit.
func New(path string) DataRecorder {
	r := newRecorder(openDB(path))

	atexit.Register(r.Flush)

	return r
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	return newRecorder(db)
}

func openDB(path string) *sql.DB {
	if path == "" {
		path = "vmsim_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	return db
}

type table struct {
	name      string
	entryType reflect.Type
	insertSQL string
	pending   []any
}

// sqliteRecorder buffers entries in memory and writes them in one transaction
// per flush. Tables are flushed in the order they are created.
type sqliteRecorder struct {
	db             *sql.DB
	tables         []*table
	tableByName    map[string]*table
	numPending     int
	flushThreshold int
}

func newRecorder(db *sql.DB) *sqliteRecorder {
	return &sqliteRecorder{
		db:             db,
		tableByName:    make(map[string]*table),
		flushThreshold: defaultFlushThreshold,
	}
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	if _, exists := r.tableByName[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	columns := columnDefinitions(sampleEntry)
	names := structs.Names(sampleEntry)

	r.mustExec(fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)",
		tableName, strings.Join(columns, ",\n\t")))

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	t := &table{
		name:      tableName,
		entryType: reflect.TypeOf(sampleEntry),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			tableName, strings.Join(names, ", "), placeholders),
	}

	r.tables = append(r.tables, t)
	r.tableByName[tableName] = t
}

// columnDefinitions maps each exported field of a flat struct to a typed
// SQLite column. Other field kinds cannot be stored and cause a panic.
func columnDefinitions(sampleEntry any) []string {
	entryType := reflect.TypeOf(sampleEntry)
	if entryType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("entry of type %T is not a struct", sampleEntry))
	}

	var columns []string

	for _, field := range structs.Fields(sampleEntry) {
		sqlType, ok := sqlColumnType(field.Kind())
		if !ok {
			panic(fmt.Sprintf("field %s of %T cannot be recorded",
				field.Name(), sampleEntry))
		}

		columns = append(columns, field.Name()+" "+sqlType)
	}

	return columns
}

func sqlColumnType(kind reflect.Kind) (string, bool) {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return "INTEGER", true
	case reflect.Float32, reflect.Float64:
		return "REAL", true
	case reflect.String:
		return "TEXT", true
	default:
		return "", false
	}
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) {
	t, exists := r.tableByName[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.entryType {
		panic(fmt.Sprintf("entry of type %T does not match table %s",
			entry, tableName))
	}

	t.pending = append(t.pending, entry)
	r.numPending++

	if r.numPending >= r.flushThreshold {
		r.Flush()
	}
}

func (r *sqliteRecorder) Flush() {
	if r.numPending == 0 {
		return
	}

	tx, err := r.db.Begin()
	if err != nil {
		panic(err)
	}

	for _, t := range r.tables {
		err = writeTable(tx, t)
		if err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("flushing table %s: %w", t.name, err))
		}
	}

	err = tx.Commit()
	if err != nil {
		panic(err)
	}

	r.numPending = 0
}

func writeTable(tx *sql.Tx, t *table) error {
	if len(t.pending) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(t.insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range t.pending {
		_, err = stmt.Exec(structs.Values(entry)...)
		if err != nil {
			return err
		}
	}

	t.pending = nil

	return nil
}

func (r *sqliteRecorder) mustExec(query string) {
	_, err := r.db.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}
}
