// Package memory is an in-memory store.Store used by handler and pipeline
// tests. It mirrors the Postgres implementation's semantics, including
// owner scoping and the not-found/duplicate sentinels.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

type Store struct {
	mu sync.Mutex

	images    map[int64]*types.ImageRecord
	clients   map[int64]*types.Client
	addresses map[int64]*types.Address
	products  map[int64]*types.Product

	nextID int64

	// FailInsertImage makes InsertImage fail, for compensation tests.
	FailInsertImage bool
}

func New() *Store {
	return &Store{
		images:    make(map[int64]*types.ImageRecord),
		clients:   make(map[int64]*types.Client),
		addresses: make(map[int64]*types.Address),
		products:  make(map[int64]*types.Product),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Close() error { return nil }

// ---- images ----

func (s *Store) InsertImage(ctx context.Context, smallURL, mediumURL, largeURL string) (*types.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsertImage {
		return nil, errors.New("injected insert failure")
	}
	record := &types.ImageRecord{
		ID:        s.id(),
		SmallURL:  smallURL,
		MediumURL: mediumURL,
		LargeURL:  largeURL,
		CreatedAt: time.Now().UTC(),
	}
	s.images[record.ID] = record
	return record, nil
}

func (s *Store) GetImage(ctx context.Context, id int64) (*types.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.images[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *Store) DeleteImage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.images, id)
	return nil
}

// ---- clients ----

func (s *Store) CreateClient(ctx context.Context, client *types.Client) (*types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.clients {
		if strings.EqualFold(existing.Email, client.Email) {
			return nil, store.ErrDuplicateEmail
		}
	}
	created := *client
	created.ID = s.id()
	created.DateJoined = time.Now().UTC()
	s.clients[created.ID] = &created
	cp := created
	return &cp, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *client
	return &cp, nil
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		if strings.EqualFold(client.Email, email) {
			cp := *client
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateClient(ctx context.Context, id int64, patch types.ClientPatch) (*types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Email != nil {
		client.Email = *patch.Email
	}
	if patch.FirstName != nil {
		client.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		client.LastName = *patch.LastName
	}
	cp := *client
	return &cp, nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.clients, id)
	for aid, address := range s.addresses {
		if address.ClientID == id {
			delete(s.addresses, aid)
		}
	}
	return nil
}

// ---- addresses ----

func (s *Store) CreateAddress(ctx context.Context, address *types.Address) (*types.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *address
	created.ID = s.id()
	created.CreatedAt = time.Now().UTC()
	s.addresses[created.ID] = &created
	cp := created
	return &cp, nil
}

func (s *Store) ListAddresses(ctx context.Context, clientID int64) ([]*types.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*types.Address
	for _, address := range s.addresses {
		if address.ClientID == clientID {
			cp := *address
			result = append(result, &cp)
		}
	}
	sortByID(result, func(a *types.Address) int64 { return a.ID })
	return result, nil
}

func (s *Store) GetAddress(ctx context.Context, clientID, id int64) (*types.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	address, ok := s.addresses[id]
	if !ok || address.ClientID != clientID {
		return nil, store.ErrNotFound
	}
	cp := *address
	return &cp, nil
}

func (s *Store) DeleteAddress(ctx context.Context, clientID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	address, ok := s.addresses[id]
	if !ok || address.ClientID != clientID {
		return store.ErrNotFound
	}
	delete(s.addresses, id)
	return nil
}

// ---- products ----

func (s *Store) CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *product
	created.ID = s.id()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	s.products[created.ID] = &created
	cp := created
	return &cp, nil
}

func (s *Store) ListProducts(ctx context.Context, filter types.ProductFilter, skip, limit int) ([]*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*types.Product
	for _, product := range s.products {
		if matches(product, filter) {
			cp := *product
			all = append(all, &cp)
		}
	}
	sortByID(all, func(p *types.Product) int64 { return p.ID })

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func matches(p *types.Product, f types.ProductFilter) bool {
	if f.ProductType != nil && p.ProductType != *f.ProductType {
		return false
	}
	if f.ForBaby != nil && p.ForBaby != *f.ForBaby {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Size != nil && p.Size != *f.Size {
		return false
	}
	if f.Color != nil && p.Color != *f.Color {
		return false
	}
	if f.Line != nil && p.Line != *f.Line {
		return false
	}
	return true
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.ProductType != nil {
		product.ProductType = *patch.ProductType
	}
	if patch.CurrentQuantity != nil {
		product.CurrentQuantity = *patch.CurrentQuantity
	}
	if patch.ForBaby != nil {
		product.ForBaby = *patch.ForBaby
	}
	if patch.Size != nil {
		product.Size = *patch.Size
	}
	if patch.Color != nil {
		product.Color = *patch.Color
	}
	if patch.Line != nil {
		product.Line = *patch.Line
	}
	product.UpdatedAt = time.Now().UTC()
	cp := *product
	return &cp, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
