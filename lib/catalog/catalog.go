package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sasha-s/go-deadlock"
	_ "modernc.org/sqlite"

	"github.com/ryogrid/VimanaDB/lib/types"
)

// Catalog resolves table/function/index metadata for the optimizer and
// the executors. Lookups return nil for absent entries, never an error.
// Entries are persisted to a sqlite file and cached in memory; mutations
// write through. The catalog is a shared singleton across queries, so
// every access serializes on its own mutex.
type Catalog struct {
	db    *sql.DB
	mutex deadlock.RWMutex

	tables    map[string]*TableCatalogEntry
	functions map[string]*FunctionCatalogEntry
	indexes   map[string]*IndexCatalogEntry
}

// NewCatalog opens (or creates) the catalog database at dbPath. An empty
// path keeps the catalog purely in memory.
func NewCatalog(dbPath string) (*Catalog, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dbPath, err)
	}

	ddl := `
	CREATE TABLE IF NOT EXISTS vimana_tables (
		name TEXT PRIMARY KEY,
		columns TEXT,
		row_count INTEGER
	);
	CREATE TABLE IF NOT EXISTS vimana_functions (
		name TEXT PRIMARY KEY,
		deterministic INTEGER
	);
	CREATE TABLE IF NOT EXISTS vimana_indexes (
		name TEXT PRIMARY KEY,
		table_name TEXT,
		feature_column TEXT,
		function_name TEXT,
		save_file_path TEXT,
		dim INTEGER
	);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}

	c := &Catalog{
		db:        db,
		tables:    make(map[string]*TableCatalogEntry),
		functions: make(map[string]*FunctionCatalogEntry),
		indexes:   make(map[string]*IndexCatalogEntry),
	}
	if err := c.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadAll() error {
	rows, err := c.db.Query(`SELECT name, columns, row_count FROM vimana_tables`)
	if err != nil {
		return fmt.Errorf("catalog: load tables: %w", err)
	}
	for rows.Next() {
		var name, cols string
		var rowCount uint64
		if err := rows.Scan(&name, &cols, &rowCount); err != nil {
			rows.Close()
			return err
		}
		c.tables[name] = &TableCatalogEntry{
			Name:     name,
			Columns:  decodeColumnDefs(cols),
			RowCount: rowCount,
		}
	}
	rows.Close()

	rows, err = c.db.Query(`SELECT name, deterministic FROM vimana_functions`)
	if err != nil {
		return fmt.Errorf("catalog: load functions: %w", err)
	}
	for rows.Next() {
		var name string
		var det int
		if err := rows.Scan(&name, &det); err != nil {
			rows.Close()
			return err
		}
		// Impl is rebound by RegisterFunction at startup.
		c.functions[name] = &FunctionCatalogEntry{Name: name, Deterministic: det != 0}
	}
	rows.Close()

	rows, err = c.db.Query(
		`SELECT name, table_name, feature_column, function_name, save_file_path, dim FROM vimana_indexes`)
	if err != nil {
		return fmt.Errorf("catalog: load indexes: %w", err)
	}
	for rows.Next() {
		e := &IndexCatalogEntry{}
		if err := rows.Scan(&e.Name, &e.TableName, &e.FeatureColumn, &e.FunctionName,
			&e.SaveFilePath, &e.Dim); err != nil {
			rows.Close()
			return err
		}
		c.indexes[e.Name] = e
	}
	rows.Close()
	return nil
}

func (c *Catalog) GetTableCatalogEntry(name string) *TableCatalogEntry {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.tables[name]
}

func (c *Catalog) GetFunctionCatalogEntryByName(name string) *FunctionCatalogEntry {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.functions[name]
}

func (c *Catalog) GetIndexCatalogEntryByName(name string) *IndexCatalogEntry {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.indexes[name]
}

// LookupIndexByFeature returns an index built with the given feature
// function over the given column, or nil. Used by the rewrite that turns
// a similarity order-by plus limit into a vector index scan.
func (c *Catalog) LookupIndexByFeature(functionName string, featureColumn string) *IndexCatalogEntry {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	for _, e := range c.indexes {
		if e.FunctionName == functionName && e.FeatureColumn == featureColumn {
			return e
		}
	}
	return nil
}

func (c *Catalog) CreateTableCatalogEntry(entry *TableCatalogEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, exists := c.tables[entry.Name]; exists {
		return fmt.Errorf("catalog: table %s already exists", entry.Name)
	}
	_, err := c.db.Exec(`INSERT INTO vimana_tables (name, columns, row_count) VALUES (?, ?, ?)`,
		entry.Name, encodeColumnDefs(entry.Columns), entry.RowCount)
	if err != nil {
		return fmt.Errorf("catalog: create table entry %s: %w", entry.Name, err)
	}
	c.tables[entry.Name] = entry
	return nil
}

func (c *Catalog) DropTableCatalogEntry(name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, exists := c.tables[name]; !exists {
		return fmt.Errorf("catalog: table %s does not exist", name)
	}
	if _, err := c.db.Exec(`DELETE FROM vimana_tables WHERE name = ?`, name); err != nil {
		return err
	}
	delete(c.tables, name)
	return nil
}

func (c *Catalog) SetTableRowCount(name string, rowCount uint64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	entry, exists := c.tables[name]
	if !exists {
		return fmt.Errorf("catalog: table %s does not exist", name)
	}
	if _, err := c.db.Exec(`UPDATE vimana_tables SET row_count = ? WHERE name = ?`,
		rowCount, name); err != nil {
		return err
	}
	entry.RowCount = rowCount
	return nil
}

// RegisterFunction records function metadata and binds its runtime
// implementation. Re-registering an existing name rebinds the
// implementation (the usual path after a catalog reload).
func (c *Catalog) RegisterFunction(name string, deterministic bool, impl UDF) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	det := 0
	if deterministic {
		det = 1
	}
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO vimana_functions (name, deterministic) VALUES (?, ?)`, name, det)
	if err != nil {
		return fmt.Errorf("catalog: register function %s: %w", name, err)
	}
	c.functions[name] = &FunctionCatalogEntry{Name: name, Deterministic: deterministic, Impl: impl}
	return nil
}

func (c *Catalog) CreateIndexCatalogEntry(entry *IndexCatalogEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, exists := c.indexes[entry.Name]; exists {
		return fmt.Errorf("catalog: index %s already exists", entry.Name)
	}
	_, err := c.db.Exec(
		`INSERT INTO vimana_indexes (name, table_name, feature_column, function_name, save_file_path, dim)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Name, entry.TableName, entry.FeatureColumn, entry.FunctionName,
		entry.SaveFilePath, entry.Dim)
	if err != nil {
		return fmt.Errorf("catalog: create index entry %s: %w", entry.Name, err)
	}
	c.indexes[entry.Name] = entry
	return nil
}

func (c *Catalog) DropIndexCatalogEntry(name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, exists := c.indexes[name]; !exists {
		return fmt.Errorf("catalog: index %s does not exist", name)
	}
	if _, err := c.db.Exec(`DELETE FROM vimana_indexes WHERE name = ?`, name); err != nil {
		return err
	}
	delete(c.indexes, name)
	return nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// column defs are stored as "name:TYPE,name:TYPE" to keep the schema
// readable with the sqlite CLI.
func encodeColumnDefs(cols []ColumnDef) string {
	parts := make([]string, len(cols))
	for i, cd := range cols {
		parts[i] = cd.Name + ":" + cd.Type.String()
	}
	return strings.Join(parts, ",")
}

func decodeColumnDefs(s string) []ColumnDef {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	cols := make([]ColumnDef, 0, len(parts))
	for _, p := range parts {
		nt := strings.SplitN(p, ":", 2)
		if len(nt) != 2 {
			continue
		}
		cols = append(cols, ColumnDef{Name: nt[0], Type: types.TypeIDFromString(nt[1])})
	}
	return cols
}
