package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/modastore-golang/internal/auth"
	"github.com/dvalle/modastore-golang/internal/config"
	"github.com/dvalle/modastore-golang/internal/handlers"
	"github.com/dvalle/modastore-golang/internal/models"
	"github.com/dvalle/modastore-golang/internal/paypal"
	"github.com/dvalle/modastore-golang/internal/routes"
	"github.com/dvalle/modastore-golang/internal/store"
)

//
// --- In-Memory Fake Stores ---
//

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByID(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) CountClients() (int, error) {
	count := 0
	for _, u := range f.users {
		if u.Role == "client" {
			count++
		}
	}
	return count, nil
}

type fakeProductStore struct {
	products map[int64]models.Product
	nextID   int64
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	f := &fakeProductStore{products: map[int64]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *fakeProductStore) List(search string) ([]models.Product, error) {
	return f.ListAll()
}

func (f *fakeProductStore) ListAll() ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductStore) GetBySlug(slug string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProductStore) GetByIDs(ids []int64) (map[int64]models.Product, error) {
	out := map[int64]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProductStore) Create(product *models.Product) error {
	for _, p := range f.products {
		if p.Slug == product.Slug {
			return store.ErrDuplicateSlug
		}
	}
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductStore) Update(product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return store.ErrNotFound
	}
	for _, p := range f.products {
		if p.Slug == product.Slug && p.ID != product.ID {
			return store.ErrDuplicateSlug
		}
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductStore) Delete(id int64) error {
	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) Counts() (total, noStock, lowStock int, err error) {
	for _, p := range f.products {
		total++
		switch {
		case p.InStock == 0:
			noStock++
		case p.InStock < 10:
			lowStock++
		}
	}
	return total, noStock, lowStock, nil
}

type fakeOrderStore struct {
	orders map[int64]*models.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]*models.Order{}}
}

func (f *fakeOrderStore) Create(order *models.Order) error {
	f.nextID++
	order.ID = f.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	cp.Items = append([]models.OrderItem{}, order.Items...)
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderStore) GetByID(id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	cp.Items = append([]models.OrderItem{}, o.Items...)
	return &cp, nil
}

func (f *fakeOrderStore) GetByUser(userID int64) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) ListAll() ([]models.AdminOrder, error) {
	out := []models.AdminOrder{}
	for _, o := range f.orders {
		out = append(out, models.AdminOrder{Order: *o})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// MarkPaid mirrors the conditional-update semantics of the MySQL store:
// only an unpaid order can transition, and the first transaction id sticks.
func (f *fakeOrderStore) MarkPaid(orderID int64, transactionID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if o.IsPaid {
		return nil, store.ErrAlreadyPaid
	}
	o.IsPaid = true
	o.TransactionID = &transactionID
	return f.GetByID(orderID)
}

func (f *fakeOrderStore) Counts() (total, paid int, err error) {
	for _, o := range f.orders {
		total++
		if o.IsPaid {
			paid++
		}
	}
	return total, paid, nil
}

type fakeCartStore struct {
	catalog    *fakeProductStore
	quantities map[int64]map[int64]int // userID -> productID -> quantity
}

func newFakeCartStore(catalog *fakeProductStore) *fakeCartStore {
	return &fakeCartStore{catalog: catalog, quantities: map[int64]map[int64]int{}}
}

func (f *fakeCartStore) Lines(userID int64) ([]models.CartLine, error) {
	out := []models.CartLine{}
	for productID, quantity := range f.quantities[userID] {
		p := f.catalog.products[productID]
		out = append(out, models.CartLine{
			ProductID: productID,
			Title:     p.Title,
			Slug:      p.Slug,
			Image:     p.FirstImage(),
			Price:     p.Price,
			Quantity:  quantity,
			InStock:   p.InStock,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeCartStore) AddItem(userID, productID int64, quantity int) error {
	if _, ok := f.catalog.products[productID]; !ok {
		return store.ErrNotFound
	}
	if f.quantities[userID] == nil {
		f.quantities[userID] = map[int64]int{}
	}
	f.quantities[userID][productID] += quantity
	return nil
}

func (f *fakeCartStore) SetQuantity(userID, productID int64, quantity int) error {
	if _, ok := f.quantities[userID][productID]; !ok {
		return store.ErrNotFound
	}
	f.quantities[userID][productID] = quantity
	return nil
}

func (f *fakeCartStore) RemoveItem(userID, productID int64) error {
	if _, ok := f.quantities[userID][productID]; !ok {
		return store.ErrNotFound
	}
	delete(f.quantities[userID], productID)
	return nil
}

//
// --- Fake Payment Verifier ---
//

type fakeVerifier struct {
	status string
	amount float64
	err    error
}

func (f *fakeVerifier) VerifyCapture(transactionID string) (*paypal.CaptureResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &paypal.CaptureResult{ID: transactionID, Status: f.status, Amount: f.amount}, nil
}

//
// --- Test App Harness ---
//

type testApp struct {
	handlers *handlers.Handlers
	router   *gin.Engine
	users    *fakeUserStore
	products *fakeProductStore
	orders   *fakeOrderStore
	carts    *fakeCartStore
	verifier *fakeVerifier
}

func newTestApp(t *testing.T, products ...models.Product) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &testApp{
		users:    newFakeUserStore(),
		products: newFakeProductStore(products...),
		orders:   newFakeOrderStore(),
		verifier: &fakeVerifier{status: paypal.StatusCompleted},
	}
	app.carts = newFakeCartStore(app.products)

	app.handlers = &handlers.Handlers{
		Store: &store.Store{
			Users:    app.users,
			Products: app.products,
			Orders:   app.orders,
			Carts:    app.carts,
		},
		Tokens: auth.NewTokenService("test-secret"),
		PayPal: app.verifier,
		Config: config.Config{TaxRate: 0.1, CORSOrigin: "http://localhost:3000"},
	}
	app.router = routes.SetupRouter(app.handlers)
	return app
}

// addUser seeds a user and returns a valid session token for them.
func (a *testApp) addUser(t *testing.T, id int64, role string) string {
	t.Helper()
	a.users.users[id] = &models.User{ID: id, Role: role, Email: "user@example.com", FullName: "Test User"}
	if id > a.users.nextID {
		a.users.nextID = id
	}
	token, err := a.handlers.Tokens.Generate(id, role)
	require.NoError(t, err)
	return token
}

// do performs a JSON request against the router and returns the recorder.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body into a map for assertions.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
