package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
)

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message

	markCalls int
	markErr   error
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Message
	for _, m := range r.messages {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Message
	for _, m := range r.messages {
		if (m.FromUser == userA && m.ToUser == userB) || (m.FromUser == userB && m.ToUser == userA) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, fromUser, toUser string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markCalls++
	if r.markErr != nil {
		return 0, r.markErr
	}

	count := 0
	for _, m := range r.messages {
		if m.FromUser == fromUser && m.ToUser == toUser && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile
}

func newFakeProfileRepo(profiles ...*entity.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*entity.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	return p, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, errors.NotFound("Profile", nil)
}

func (r *fakeProfileRepo) Update(ctx context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order

	createErrFor map[string]error // keyed by product id

	// beforeUpdate runs at the top of UpdateStatus, outside the lock, so a
	// test can lose the race on purpose.
	beforeUpdate func()
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{
		orders:       make(map[string]*entity.Order),
		createErrFor: make(map[string]error),
	}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.createErrFor[order.ProductID]; ok {
		return err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) ListByIdentity(ctx context.Context, identity entity.Identity, status entity.OrderStatus) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Order
	for _, o := range r.orders {
		party := o.ClientID
		if identity.IsMerchant() {
			party = o.MerchantID
		}
		if party != identity.ID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) (*entity.Order, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	if o.Status != from {
		return nil, errors.Conflict("Order was updated by someone else")
	}
	o.Status = to
	o.UpdatedAt = at
	copied := *o
	return &copied, nil
}

// setStatus flips a stored order behind the usecase's back, simulating the
// other party winning a race.
func (r *fakeOrderRepo) setStatus(id string, status entity.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items []*entity.CartItem
}

func (r *fakeCartRepo) Add(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.items = append(r.items, item)
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			item.Quantity = quantity
			return nil
		}
	}
	return errors.NotFound("Cart item", nil)
}

func (r *fakeCartRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CartItem
	for _, item := range r.items {
		if item.ClientID == clientID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) ClearByClient(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.CartItem
	for _, item := range r.items {
		if item.ClientID != clientID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeCartRepo) lineIDs(clientID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, item := range r.items {
		if item.ClientID == clientID {
			out = append(out, item.ID)
		}
	}
	return out
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites []*entity.Favorite
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.favorites {
		if f.UserID == userID && f.ProductID == productID {
			return f, nil
		}
	}
	f := &entity.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	r.favorites = append(r.favorites, f)
	return f, nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.favorites {
		if f.UserID == userID && f.ProductID == productID {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFavoriteRepo) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.favorites {
		if f.UserID == userID && f.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

type fakeAuthClient struct {
	createErr error
	created   int
}

func (a *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if a.createErr != nil {
		return "", a.createErr
	}
	a.created++
	return "uid-" + email, nil
}

// fakeFeed hands out a fresh buffered channel per subscription so a test can
// inject events for the subscription it cares about.
type fakeFeed struct {
	mu     sync.Mutex
	msgChs []chan repository.MessageEvent
	ordChs []chan repository.OrderEvent
}

func (f *fakeFeed) SubscribeMessages(ctx context.Context, userID string) (<-chan repository.MessageEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan repository.MessageEvent, 16)
	f.msgChs = append(f.msgChs, ch)
	return ch, nil
}

func (f *fakeFeed) SubscribeOrders(ctx context.Context, identity entity.Identity) (<-chan repository.OrderEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan repository.OrderEvent, 16)
	f.ordChs = append(f.ordChs, ch)
	return ch, nil
}

func (f *fakeFeed) messageChan(i int) chan repository.MessageEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgChs[i]
}

func (f *fakeFeed) orderChan(i int) chan repository.OrderEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ordChs[i]
}
