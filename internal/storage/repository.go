package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/sources"

	_ "modernc.org/sqlite"
)

var _ sources.Loader = (*SQLiteRepository)(nil)

// SQLiteRepository stores purchase records in SQLite and serves them back as
// a source. Amounts are stored as canonical decimal text.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// NewSQLiteRepository opens or creates the database at dbPath and migrates
// it. A nil logger logs through the slog default.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	logger = log.OrDefault(logger, log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db, path: dbPath, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string {
	return "sqlite:" + r.path
}

const loadQuery = `
SELECT c.id, c.name, c.surname, c.age, c.cash, p.name, p.category, p.price
FROM customers c
LEFT JOIN purchases pu ON pu.customer_id = c.id
LEFT JOIN products p ON p.id = pu.product_id
ORDER BY c.id, pu.id`

// Load returns one record per stored customer with every purchased item in
// insertion order. Customers without purchases get an empty product list.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	rows, err := r.db.QueryContext(ctx, loadQuery)
	if err != nil {
		return nil, &core.SourceError{Source: r.Name(), Err: fmt.Errorf("query purchases: %w", err)}
	}
	defer rows.Close()

	var (
		records []core.PurchaseRecord
		lastID  int64 = -1
	)
	for rows.Next() {
		var (
			id                  int64
			c                   core.Customer
			cash                string
			pName, pCat, pPrice sql.NullString
		)
		if err := rows.Scan(&id, &c.Name, &c.Surname, &c.Age, &cash, &pName, &pCat, &pPrice); err != nil {
			return nil, &core.SourceError{Source: r.Name(), Err: fmt.Errorf("scan purchase: %w", err)}
		}
		if id != lastID {
			if c.Cash, err = decimal.NewFromString(cash); err != nil {
				return nil, &core.SourceError{Source: r.Name(), Err: fmt.Errorf("customer %d cash %q: %w", id, cash, err)}
			}
			records = append(records, core.PurchaseRecord{Customer: c})
			lastID = id
		}
		if !pName.Valid {
			continue
		}
		price, err := decimal.NewFromString(pPrice.String)
		if err != nil {
			return nil, &core.SourceError{Source: r.Name(), Err: fmt.Errorf("product %q price %q: %w", pName.String, pPrice.String, err)}
		}
		last := &records[len(records)-1]
		last.Products = append(last.Products, core.Product{
			Name:     pName.String,
			Category: core.Category(pCat.String),
			Price:    price,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &core.SourceError{Source: r.Name(), Err: fmt.Errorf("iterate purchases: %w", err)}
	}

	r.logger.InfoContext(ctx, "Loaded purchases from SQLite",
		log.FieldOperation, log.OpLoad,
		log.FieldSource, r.Name(),
		log.FieldRecords, len(records))
	return records, nil
}

// Import stores records in a single transaction. Customers and products are
// deduplicated by value; every purchased item becomes one purchase row.
func (r *SQLiteRepository) Import(ctx context.Context, records []core.PurchaseRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	purchases := 0
	for _, rec := range records {
		customerID, err := upsertCustomer(ctx, tx, rec.Customer)
		if err != nil {
			return 0, err
		}
		for _, p := range rec.Products {
			productID, err := upsertProduct(ctx, tx, p)
			if err != nil {
				return 0, err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO purchases (customer_id, product_id) VALUES (?, ?)`,
				customerID, productID); err != nil {
				return 0, fmt.Errorf("insert purchase: %w", err)
			}
			purchases++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "Imported purchases into SQLite",
		log.FieldOperation, log.OpImport,
		log.FieldRecords, len(records),
		"purchases", purchases)
	return purchases, nil
}

func upsertCustomer(ctx context.Context, tx *sql.Tx, c core.Customer) (int64, error) {
	k := c.Key()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO customers (name, surname, age, cash) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name, surname, age, cash) DO NOTHING`,
		k.Name, k.Surname, k.Age, k.Cash); err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE name = ? AND surname = ? AND age = ? AND cash = ?`,
		k.Name, k.Surname, k.Age, k.Cash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select customer: %w", err)
	}
	return id, nil
}

func upsertProduct(ctx context.Context, tx *sql.Tx, p core.Product) (int64, error) {
	k := p.Key()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, category, price) VALUES (?, ?, ?)
		 ON CONFLICT (name, category, price) DO NOTHING`,
		k.Name, string(k.Category), k.Price); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE name = ? AND category = ? AND price = ?`,
		k.Name, string(k.Category), k.Price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select product: %w", err)
	}
	return id, nil
}
