package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dvalle/modastore-golang/internal/models"
)

// ProductModel is the MySQL-backed ProductStore.
type ProductModel struct {
	DB *sql.DB
}

const productColumns = `
	id, title, slug, description, price, stock_quantity, images, tags, created_at, updated_at`

// scanProduct reads one row into a Product, parsing the JSON columns.
func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	var p models.Product
	var dbImages, dbTags []byte

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.InStock,
		&dbImages, &dbTags, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Always hand back arrays, never null, so the frontend JSON stays clean.
	p.Images = []string{}
	if len(dbImages) > 0 {
		json.Unmarshal(dbImages, &p.Images)
	}
	p.Tags = []string{}
	if len(dbTags) > 0 {
		json.Unmarshal(dbTags, &p.Tags)
	}
	return &p, nil
}

// List returns the storefront catalog, optionally filtered by a search term
// matched against title and tags.
func (m *ProductModel) List(search string) ([]models.Product, error) {
	query := "SELECT" + productColumns + " FROM products"
	var args []interface{}

	if search != "" {
		query += " WHERE (title LIKE ? OR tags LIKE ?)"
		term := "%" + strings.ToLower(search) + "%"
		args = append(args, term, term)
	}
	query += " ORDER BY title ASC"

	return m.queryProducts(query, args...)
}

// ListAll returns every product for the admin console, newest first.
func (m *ProductModel) ListAll() ([]models.Product, error) {
	query := "SELECT" + productColumns + " FROM products ORDER BY created_at DESC"
	return m.queryProducts(query)
}

func (m *ProductModel) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := m.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (m *ProductModel) GetBySlug(slug string) (*models.Product, error) {
	query := "SELECT" + productColumns + " FROM products WHERE slug = ?"

	p, err := scanProduct(m.DB.QueryRow(query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByIDs bulk-fetches the products referenced by an order's line items.
func (m *ProductModel) GetByIDs(ids []int64) (map[int64]models.Product, error) {
	products := make(map[int64]models.Product)
	if len(ids) == 0 {
		return products, nil
	}

	// Build the IN (?, ?, ...) placeholder list.
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := "SELECT" + productColumns + " FROM products WHERE id IN (" + placeholders + ")"

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := m.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[p.ID] = *p
	}
	return products, rows.Err()
}

func (m *ProductModel) Create(product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	imagesJSON, _ := json.Marshal(product.Images)
	tagsJSON, _ := json.Marshal(product.Tags)

	query := `
		INSERT INTO products (title, slug, description, price, stock_quantity, images, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := m.DB.Exec(query,
		product.Title, product.Slug, product.Description, product.Price, product.InStock,
		string(imagesJSON), string(tagsJSON), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateSlug
		}
		return err
	}

	product.ID, err = result.LastInsertId()
	return err
}

func (m *ProductModel) Update(product *models.Product) error {
	product.UpdatedAt = time.Now()

	imagesJSON, _ := json.Marshal(product.Images)
	tagsJSON, _ := json.Marshal(product.Tags)

	query := `
		UPDATE products
		SET title = ?, slug = ?, description = ?, price = ?, stock_quantity = ?,
		    images = ?, tags = ?, updated_at = ?
		WHERE id = ?`

	result, err := m.DB.Exec(query,
		product.Title, product.Slug, product.Description, product.Price, product.InStock,
		string(imagesJSON), string(tagsJSON), product.UpdatedAt, product.ID,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateSlug
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *ProductModel) Delete(id int64) error {
	result, err := m.DB.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the dashboard inventory KPIs. "Low stock" means fewer than
// 10 units but not zero.
func (m *ProductModel) Counts() (total, noStock, lowStock int, err error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(stock_quantity = 0), 0),
			COALESCE(SUM(stock_quantity > 0 AND stock_quantity < 10), 0)
		FROM products`

	err = m.DB.QueryRow(query).Scan(&total, &noStock, &lowStock)
	return total, noStock, lowStock, err
}
