package store

import (
	"database/sql"
	"errors"

	"github.com/dvalle/modastore-golang/internal/models"
)

// Sentinel errors shared by every implementation. Handlers translate these
// into HTTP statuses with errors.Is; nothing here knows about gin.
var (
	ErrNotFound       = errors.New("record not found")
	ErrAlreadyPaid    = errors.New("order is already paid")
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrDuplicateSlug  = errors.New("a product with that slug already exists")
)

// UserStore handles the 'users' table.
type UserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int64) (*models.User, error)
	CountClients() (int, error)
}

// ProductStore handles the 'products' table. The order flow only ever reads
// from it; writes come from the admin console.
type ProductStore interface {
	List(search string) ([]models.Product, error)
	ListAll() ([]models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	// GetByIDs bulk-fetches products for checkout validation. Missing ids are
	// simply absent from the map; the caller decides what that means.
	GetByIDs(ids []int64) (map[int64]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id int64) error
	Counts() (total, noStock, lowStock int, err error)
}

// OrderStore handles the 'orders' and 'order_items' tables.
type OrderStore interface {
	Create(order *models.Order) error
	GetByID(id int64) (*models.Order, error)
	GetByUser(userID int64) ([]models.Order, error)
	ListAll() ([]models.AdminOrder, error)
	// MarkPaid flips is_paid false->true and attaches the transaction id as a
	// single conditional UPDATE. Returns ErrAlreadyPaid when the order exists
	// but was paid before this call, ErrNotFound when it doesn't exist.
	MarkPaid(orderID int64, transactionID string) (*models.Order, error)
	Counts() (total, paid int, err error)
}

// CartStore handles the per-user persisted cart.
type CartStore interface {
	Lines(userID int64) ([]models.CartLine, error)
	AddItem(userID, productID int64, quantity int) error
	SetQuantity(userID, productID int64, quantity int) error
	RemoveItem(userID, productID int64) error
}

// Store bundles the individual stores so main can inject one dependency.
type Store struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
	Carts    CartStore
}

// New wires the MySQL-backed stores around the shared connection pool.
func New(db *sql.DB) *Store {
	return &Store{
		Users:    &UserModel{DB: db},
		Products: &ProductModel{DB: db},
		Orders:   &OrderModel{DB: db},
		Carts:    &CartModel{DB: db},
	}
}
