package catalog

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

// Fields are the replaceable attributes of a Product. The id is owned by the store.
type Fields struct {
	Name        string
	Description string
	Price       int64
	Quantity    int64
}

func (f Fields) product(id int64) Product {
	return Product{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
	}
}

// Store is what the HTTP layer needs from product storage. Implementations
// signal a missing id with ErrNotFound and nothing else.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, f Fields) (Product, error)
	Retrieve(ctx context.Context, id int64) (Product, error)
	Update(ctx context.Context, id int64, f Fields) (Product, error)
	Remove(ctx context.Context, id int64) error
}

const seedCount = 3

// Seed inserts the demo products "Product 1".."Product 3" with
// price 10^(i-1) and quantity 10^i.
func Seed(ctx context.Context, s Store) error {
	price := int64(1)
	for i := 1; i <= seedCount; i++ {
		_, err := s.Create(ctx, Fields{
			Name:        fmt.Sprintf("Product %d", i),
			Description: fmt.Sprintf("This is product %d", i),
			Price:       price,
			Quantity:    price * 10,
		})
		if err != nil {
			return fmt.Errorf("seed product %d: %w", i, err)
		}
		price *= 10
	}
	return nil
}
