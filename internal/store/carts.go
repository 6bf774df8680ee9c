package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dvalle/modastore-golang/internal/models"
)

// CartModel is the MySQL-backed CartStore. One cart per user, created lazily
// the first time an item is added.
type CartModel struct {
	DB *sql.DB
}

// getOrCreateCartID finds a user's cart or creates one.
// Used within a transaction so the lazy create can't race with itself.
func (m *CartModel) getOrCreateCartID(tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64

	// 1. Try to find an existing cart
	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil // Found it
	}

	// 2. If no cart exists, create one
	if errors.Is(err, sql.ErrNoRows) {
		now := time.Now()
		result, err := tx.Exec(
			"INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)",
			userID, now, now,
		)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	// 3. A real database error occurred
	return 0, err
}

// Lines returns the cart contents joined with live catalog data.
func (m *CartModel) Lines(userID int64) ([]models.CartLine, error) {
	query := `
		SELECT ci.product_id, p.title, p.slug, p.images, p.price, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		JOIN products p ON ci.product_id = p.id
		WHERE c.user_id = ?`

	rows, err := m.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		var dbImages []byte

		if err := rows.Scan(
			&line.ProductID, &line.Title, &line.Slug, &dbImages,
			&line.Price, &line.Quantity, &line.InStock,
		); err != nil {
			return nil, err
		}

		var images []string
		if len(dbImages) > 0 {
			json.Unmarshal(dbImages, &images)
		}
		if len(images) > 0 {
			line.Image = images[0]
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AddItem upserts a cart line, incrementing the quantity when the product is
// already in the cart. The product must exist.
func (m *CartModel) AddItem(userID, productID int64, quantity int) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM products WHERE id = ?", productID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	cartID, err := m.getOrCreateCartID(tx, userID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO cart_items (cart_id, product_id, quantity, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = NOW()`,
		cartID, productID, quantity)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// SetQuantity overwrites the quantity of an existing cart line.
func (m *CartModel) SetQuantity(userID, productID int64, quantity int) error {
	query := `
		UPDATE cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		SET ci.quantity = ?, ci.updated_at = ?
		WHERE c.user_id = ? AND ci.product_id = ?`

	result, err := m.DB.Exec(query, quantity, time.Now(), userID, productID)
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

// RemoveItem deletes a cart line.
func (m *CartModel) RemoveItem(userID, productID int64) error {
	query := `
		DELETE ci FROM cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		WHERE c.user_id = ? AND ci.product_id = ?`

	result, err := m.DB.Exec(query, userID, productID)
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
