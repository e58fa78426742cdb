package repository

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/rookgm/deliverystore/internal/repository/postgres"
)

const (
	orderColumns = `orderid, customer, product, price::text, status, deliverypersonaddress, clientsignature, ownersignature`

	upsertOrderQuery = `
						INSERT INTO orders (orderid, customer, product, price, status, deliverypersonaddress, clientsignature, ownersignature)
						VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
						ON CONFLICT (orderid) DO UPDATE
						SET customer = EXCLUDED.customer,
						    product = EXCLUDED.product,
						    price = EXCLUDED.price,
						    status = EXCLUDED.status,
						    deliverypersonaddress = EXCLUDED.deliverypersonaddress,
						    clientsignature = EXCLUDED.clientsignature,
						    ownersignature = EXCLUDED.ownersignature
`
	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE orderid = $1
`
	selectOrdersByCustomerQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE customer = $1
						ORDER BY orderid
`
	selectOrdersQuery = `
						SELECT ` + orderColumns + ` FROM orders
						ORDER BY orderid
`
	updateOrderQuery = `
						UPDATE orders
						SET customer = $1, product = $2, price = $3::numeric, status = $4,
						    deliverypersonaddress = $5, clientsignature = $6, ownersignature = $7
						WHERE orderid = $8
`
	updateDeliveryPersonQuery = `
						UPDATE orders
						SET deliverypersonaddress = $1, status = $2
						WHERE orderid = $3
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// UpsertOrder inserts order or replaces the row with the same order id
func (or *OrderRepository) UpsertOrder(ctx context.Context, order *models.Order) error {
	_, err := or.db.Exec(ctx, upsertOrderQuery,
		order.OrderID, order.Customer, order.Product, priceText(order.Price), order.Status,
		order.DeliveryPersonAddress, order.ClientSignature, order.OwnerSignature)
	return err
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, orderID uint64) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetOrdersByCustomer returns orders of customer
func (or *OrderRepository) GetOrdersByCustomer(ctx context.Context, customer string) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersByCustomerQuery, customer)
}

// GetOrders returns all orders
func (or *OrderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersQuery)
}

// UpdateOrder writes all fields of order to the row with its order id
func (or *OrderRepository) UpdateOrder(ctx context.Context, order models.Order) error {
	cmd, err := or.db.Exec(ctx, updateOrderQuery,
		order.Customer, order.Product, priceText(order.Price), order.Status,
		order.DeliveryPersonAddress, order.ClientSignature, order.OwnerSignature, order.OrderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// UpdateDeliveryPerson sets delivery person and status of order
func (or *OrderRepository) UpdateDeliveryPerson(ctx context.Context, orderID uint64, deliveryPerson, status string) error {
	cmd, err := or.db.Exec(ctx, updateDeliveryPersonQuery, deliveryPerson, status, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

func (or *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order models.Order
		price string
	)
	err := row.Scan(&order.OrderID, &order.Customer, &order.Product, &price, &order.Status,
		&order.DeliveryPersonAddress, &order.ClientSignature, &order.OwnerSignature)
	if err != nil {
		return nil, err
	}

	p, ok := new(big.Int).SetString(price, 10)
	if !ok {
		return nil, fmt.Errorf("order %d: bad price %q", order.OrderID, price)
	}
	order.Price = p

	return &order, nil
}

func priceText(price *big.Int) string {
	if price == nil {
		return "0"
	}
	return price.String()
}
