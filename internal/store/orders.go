package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/dvalle/modastore-golang/internal/models"
)

// OrderModel is the MySQL-backed OrderStore.
type OrderModel struct {
	DB *sql.DB
}

// Create persists the order header and its line items in one transaction.
// The caller has already validated the totals; this just writes them.
func (m *OrderModel) Create(order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() // Safety net

	// 1. Insert the order header with the shipping address columns.
	orderQuery := `
		INSERT INTO orders
		(user_id, number_of_items, sub_total, tax, total, is_paid,
		 first_name, last_name, address, address_2, city, zip, country, phone,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	addr := order.ShippingAddress
	result, err := tx.Exec(orderQuery,
		order.UserID, order.NumberOfItems, order.SubTotal, order.Tax, order.Total, order.IsPaid,
		addr.FirstName, addr.LastName, addr.Address, addr.Address2, addr.City, addr.Zip, addr.Country, addr.Phone,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	order.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	// 2. Snapshot each line item.
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, title, image, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?)`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		res, err := tx.Exec(itemQuery,
			item.OrderID, item.ProductID, item.Title, item.Image, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return err
		}
		item.ID, _ = res.LastInsertId()
	}

	return tx.Commit()
}

const orderColumns = `
	id, user_id, number_of_items, sub_total, tax, total, is_paid, transaction_id, paid_at,
	first_name, last_name, address, address_2, city, zip, country, phone, created_at, updated_at`

// scanOrder reads one order row, converting the nullable payment columns.
func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var o models.Order
	var transactionID sql.NullString
	var paidAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.UserID, &o.NumberOfItems, &o.SubTotal, &o.Tax, &o.Total,
		&o.IsPaid, &transactionID, &paidAt,
		&o.ShippingAddress.FirstName, &o.ShippingAddress.LastName,
		&o.ShippingAddress.Address, &o.ShippingAddress.Address2,
		&o.ShippingAddress.City, &o.ShippingAddress.Zip,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transactionID.Valid {
		o.TransactionID = &transactionID.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return &o, nil
}

// GetByID fetches one order together with its line items.
func (m *OrderModel) GetByID(id int64) (*models.Order, error) {
	query := "SELECT" + orderColumns + " FROM orders WHERE id = ?"

	o, err := scanOrder(m.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	o.Items, err = m.itemsFor(o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (m *OrderModel) itemsFor(orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, title, image, quantity, unit_price
		FROM order_items
		WHERE order_id = ?`

	rows, err := m.DB.Query(query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Title, &item.Image,
			&item.Quantity, &item.UnitPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetByUser returns the user's order history, newest first. An unknown user
// simply gets an empty slice; that is not an error.
func (m *OrderModel) GetByUser(userID int64) ([]models.Order, error) {
	query := "SELECT" + orderColumns + " FROM orders WHERE user_id = ? ORDER BY created_at DESC"

	rows, err := m.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListAll returns every order joined with its buyer, for the admin console.
func (m *OrderModel) ListAll() ([]models.AdminOrder, error) {
	query := `
		SELECT o.id, o.user_id, o.number_of_items, o.sub_total, o.tax, o.total,
		       o.is_paid, o.transaction_id, o.paid_at,
		       o.first_name, o.last_name, o.address, o.address_2, o.city, o.zip, o.country, o.phone,
		       o.created_at, o.updated_at,
		       u.full_name, u.email
		FROM orders o
		JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.AdminOrder{}
	for rows.Next() {
		var ao models.AdminOrder
		var transactionID sql.NullString
		var paidAt sql.NullTime

		if err := rows.Scan(
			&ao.ID, &ao.UserID, &ao.NumberOfItems, &ao.SubTotal, &ao.Tax, &ao.Total,
			&ao.IsPaid, &transactionID, &paidAt,
			&ao.ShippingAddress.FirstName, &ao.ShippingAddress.LastName,
			&ao.ShippingAddress.Address, &ao.ShippingAddress.Address2,
			&ao.ShippingAddress.City, &ao.ShippingAddress.Zip,
			&ao.ShippingAddress.Country, &ao.ShippingAddress.Phone,
			&ao.CreatedAt, &ao.UpdatedAt,
			&ao.UserName, &ao.UserEmail,
		); err != nil {
			return nil, err
		}

		if transactionID.Valid {
			ao.TransactionID = &transactionID.String
		}
		if paidAt.Valid {
			t := paidAt.Time
			ao.PaidAt = &t
		}
		orders = append(orders, ao)
	}
	return orders, rows.Err()
}

// MarkPaid flips is_paid exactly once. The conditional UPDATE is the
// atomicity boundary: two concurrent captures race on the same row and only
// one can match "is_paid = 0".
func (m *OrderModel) MarkPaid(orderID int64, transactionID string) (*models.Order, error) {
	now := time.Now()

	query := `
		UPDATE orders
		SET is_paid = 1, transaction_id = ?, paid_at = ?, updated_at = ?
		WHERE id = ? AND is_paid = 0`

	result, err := m.DB.Exec(query, transactionID, now, now, orderID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		// Nothing matched: either the order doesn't exist, or it was paid
		// already. Tell the two apart for the error message.
		var isPaid bool
		err := m.DB.QueryRow("SELECT is_paid FROM orders WHERE id = ?", orderID).Scan(&isPaid)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrAlreadyPaid
	}

	return m.GetByID(orderID)
}

// Counts returns the dashboard order KPIs.
func (m *OrderModel) Counts() (total, paid int, err error) {
	query := "SELECT COUNT(*), COALESCE(SUM(is_paid), 0) FROM orders"
	err = m.DB.QueryRow(query).Scan(&total, &paid)
	return total, paid, err
}
