package types

import "time"

// ImageRecord is the persisted metadata row for a successfully ingested
// image. All three URL fields are non-empty on any committed record.
type ImageRecord struct {
	ID        int64     `json:"id"`
	SmallURL  string    `json:"small_url"`
	MediumURL string    `json:"medium_url"`
	LargeURL  string    `json:"large_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is a registered user of the shop.
type Client struct {
	ID           int64     `json:"id"`
	IsAdmin      bool      `json:"is_admin"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DateJoined   time.Time `json:"date_joined"`
}

// Address belongs to exactly one client.
type Address struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"client_id"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// Product is a catalog item.
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	ProductType     string    `json:"product_type"`
	CurrentQuantity int       `json:"current_quantity"`
	ForBaby         bool      `json:"for_baby"`
	Size            string    `json:"size"`
	Color           string    `json:"color"`
	Line            string    `json:"line"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClientPatch is a typed partial update for a client. Nil fields are left
// untouched by Store.UpdateClient.
type ClientPatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ProductPatch is a typed partial update for a product.
type ProductPatch struct {
	Name            *string  `json:"name"`
	Price           *float64 `json:"price"`
	ProductType     *string  `json:"product_type"`
	CurrentQuantity *int     `json:"current_quantity"`
	ForBaby         *bool    `json:"for_baby"`
	Size            *string  `json:"size"`
	Color           *string  `json:"color"`
	Line            *string  `json:"line"`
}

// ProductFilter narrows product listings. Nil fields are not applied.
type ProductFilter struct {
	ProductType *string
	ForBaby     *bool
	MinPrice    *float64
	MaxPrice    *float64
	Size        *string
	Color       *string
	Line        *string
}
