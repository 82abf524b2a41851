package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"clockshop-backend/internal/domains/order/model"
	"clockshop-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

const orderColumns = `
	id, order_code, customer_id, order_status, payment_status, payment_method,
	note, processed_by, created_at, updated_at
`

const detailColumns = `
	id, order_id, product_id, product_name, quantity, price, total_price
`

// =====================================================
// CREATE ORDER
// =====================================================

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return insertOrderWithTx(ctx, tx, order)
	})
}

func insertOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			order_code, customer_id, order_status, payment_status,
			payment_method, note
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.OrderCode,
		order.CustomerID,
		order.OrderStatus,
		order.PaymentStatus,
		order.PaymentMethod,
		order.Note,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateOrderCode
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return insertDetailsWithTx(ctx, tx, order)
}

func insertDetailsWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO order_details (
			order_id, product_id, product_name, quantity, price, total_price
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for _, d := range order.Details {
		batch.Queue(query,
			order.ID,
			d.ProductID,
			d.ProductName,
			d.Quantity,
			d.Price,
			d.TotalPrice,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range order.Details {
		if err := results.QueryRow().Scan(&order.Details[i].ID); err != nil {
			return fmt.Errorf("failed to create order detail %d: %w", i, err)
		}
		order.Details[i].OrderID = order.ID
	}

	return nil
}

// =====================================================
// GET ORDER
// =====================================================

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	details, err := r.getDetailsByOrderIDs(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Details = details[order.ID]

	return order, nil
}

func (r *postgresOrderRepository) GetOrdersByIDs(ctx context.Context, orderIDs []int64) ([]*model.Order, error) {
	if len(orderIDs) == 0 {
		return []*model.Order{}, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ANY($1) ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by ids: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *postgresOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *postgresOrderRepository) collectOrders(ctx context.Context, rows pgx.Rows) ([]*model.Order, error) {
	defer rows.Close()

	orders := []*model.Order{}
	ids := []int64{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating orders: %w", rows.Err())
	}

	details, err := r.getDetailsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Details = details[o.ID]
	}

	return orders, nil
}

func (r *postgresOrderRepository) getDetailsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderDetail, error) {
	result := make(map[int64][]model.OrderDetail)
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + detailColumns + ` FROM order_details WHERE order_id = ANY($1) ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get order details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d model.OrderDetail
		err := rows.Scan(
			&d.ID,
			&d.OrderID,
			&d.ProductID,
			&d.ProductName,
			&d.Quantity,
			&d.Price,
			&d.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		result[d.OrderID] = append(result[d.OrderID], d)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order details: %w", rows.Err())
	}

	return result, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.OrderCode,
		&order.CustomerID,
		&order.OrderStatus,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.Note,
		&order.ProcessedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// =====================================================
// PURCHASE HISTORY
// =====================================================

func (r *postgresOrderRepository) ListPurchaseHistory(ctx context.Context, customerID int64) ([]model.PurchaseHistoryItem, error) {
	query := `
		SELECT
			o.id, o.order_code, o.created_at, o.order_status, o.payment_status,
			d.product_id, d.product_name, d.quantity, d.price, d.total_price
		FROM orders o
		JOIN order_details d ON d.order_id = o.id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC, d.id ASC
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase history: %w", err)
	}
	defer rows.Close()

	items := []model.PurchaseHistoryItem{}
	for rows.Next() {
		var it model.PurchaseHistoryItem
		err := rows.Scan(
			&it.OrderID,
			&it.OrderCode,
			&it.OrderDate,
			&it.OrderStatus,
			&it.PaymentStatus,
			&it.ProductID,
			&it.ProductName,
			&it.Quantity,
			&it.Price,
			&it.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase history: %w", err)
		}
		items = append(items, it)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating purchase history: %w", rows.Err())
	}

	return items, nil
}

// HasPaidPurchase checks for a confirmed and paid order containing productID
func (r *postgresOrderRepository) HasPaidPurchase(ctx context.Context, customerID, productID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_details d ON d.order_id = o.id
			WHERE o.customer_id = $1
			  AND d.product_id = $2
			  AND o.order_status = $3
			  AND o.payment_status = $4
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query,
		customerID,
		productID,
		model.OrderStatusConfirmed,
		model.PaymentStatusPaid,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}

	return exists, nil
}

// =====================================================
// PAYMENT STATE TRANSITIONS
// =====================================================

// MarkPaid moves the order to confirmed/paid. No row changes when the
// order already is confirmed/paid.
func (r *postgresOrderRepository) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	query := `
		UPDATE orders
		SET order_status = $1,
			payment_status = $2,
			updated_at = NOW()
		WHERE id = $3
		  AND NOT (order_status = $1 AND payment_status = $2)
	`

	result, err := r.pool.Exec(ctx, query,
		model.OrderStatusConfirmed,
		model.PaymentStatusPaid,
		orderID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// RevertToUnpaid moves an unpaid confirmed order back to
// pending_confirmation. Paid and cancelled orders are never touched.
func (r *postgresOrderRepository) RevertToUnpaid(ctx context.Context, orderID int64) (bool, error) {
	query := `
		UPDATE orders
		SET order_status = $1,
			payment_status = $2,
			updated_at = NOW()
		WHERE id = $3
		  AND payment_status = $2
		  AND order_status = $4
	`

	result, err := r.pool.Exec(ctx, query,
		model.OrderStatusPendingConfirmation,
		model.PaymentStatusUnpaid,
		orderID,
		model.OrderStatusConfirmed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to revert order payment: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresOrderRepository) CancelOrder(ctx context.Context, orderID, customerID int64) (bool, error) {
	query := `
		UPDATE orders
		SET order_status = $1,
			updated_at = NOW()
		WHERE id = $2
		  AND customer_id = $3
		  AND order_status = $4
		  AND payment_status = $5
	`

	result, err := r.pool.Exec(ctx, query,
		model.OrderStatusCancelled,
		orderID,
		customerID,
		model.OrderStatusPendingConfirmation,
		model.PaymentStatusUnpaid,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *postgresOrderRepository) UpdatePaymentStatus(
	ctx context.Context,
	orderID int64,
	orderStatus model.OrderStatus,
	paymentStatus model.PaymentStatus,
	processedBy int64,
) error {
	query := `
		UPDATE orders
		SET order_status = $1,
			payment_status = $2,
			processed_by = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, orderStatus, paymentStatus, processedBy, orderID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// =====================================================
// COMBINE ORDERS
// =====================================================

// CombineOrders cancels the source orders and inserts the combined order
// in one transaction. Sources that are no longer pending/unpaid abort it.
func (r *postgresOrderRepository) CombineOrders(ctx context.Context, customerID int64, sourceIDs []int64, combined *model.Order) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET order_status = $1,
				updated_at = NOW()
			WHERE id = ANY($2)
			  AND customer_id = $3
			  AND order_status = $4
			  AND payment_status = $5
		`

		result, err := tx.Exec(ctx, query,
			model.OrderStatusCancelled,
			pq.Array(sourceIDs),
			customerID,
			model.OrderStatusPendingConfirmation,
			model.PaymentStatusUnpaid,
		)
		if err != nil {
			return fmt.Errorf("failed to cancel combined orders: %w", err)
		}
		if result.RowsAffected() != int64(len(sourceIDs)) {
			return model.ErrNothingToCombine
		}

		return insertOrderWithTx(ctx, tx, combined)
	})
}
