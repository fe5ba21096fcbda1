package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, organization_id, customer_name, customer_phone, address, description,
						status, price, florist_id, courier_id, manager_id, latitude, longitude,
						delivery_at, created_at, updated_at`

const (
	insertOrderQuery = `
						INSERT INTO orders (organization_id, customer_name, customer_phone, address,
							description, status, price, manager_id, latitude, longitude, delivery_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
						RETURNING ` + orderColumns

	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE id = $1 AND organization_id = $2
`
	claimFloristQuery = `
						UPDATE orders
						SET florist_id = $1, updated_at = now()
						WHERE id = $2 AND organization_id = $3 AND status = 'NEW' AND florist_id IS NULL
						RETURNING ` + orderColumns

	claimCourierQuery = `
						UPDATE orders
						SET courier_id = $1, updated_at = now()
						WHERE id = $2 AND organization_id = $3 AND status = 'ASSEMBLED' AND courier_id IS NULL
						RETURNING ` + orderColumns

	assignStaffQuery = `
						UPDATE orders
						SET florist_id = COALESCE($1, florist_id),
							courier_id = COALESCE($2, courier_id),
							updated_at = now()
						WHERE id = $3 AND organization_id = $4
						RETURNING ` + orderColumns

	updateStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = now()
						WHERE id = $2 AND organization_id = $3 AND status = $4
						RETURNING ` + orderColumns

	selectStatusCountsQuery = `
						SELECT status, count(*) FROM orders
						WHERE organization_id = $1 AND created_at >= $2 AND created_at < $3
						GROUP BY status
`
	selectRevenueQuery = `
						SELECT COALESCE(sum(price), 0) FROM orders
						WHERE organization_id = $1 AND status = 'DELIVERED'
							AND created_at >= $2 AND created_at < $3
`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner, order *models.Order) error {
	return row.Scan(&order.ID, &order.OrganizationID, &order.CustomerName, &order.CustomerPhone,
		&order.Address, &order.Description, &order.Status, &order.Price,
		&order.FloristID, &order.CourierID, &order.ManagerID,
		&order.Latitude, &order.Longitude,
		&order.DeliveryAt, &order.CreatedAt, &order.UpdatedAt)
}

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	row := or.db.QueryRow(ctx, insertOrderQuery,
		order.OrganizationID, order.CustomerName, order.CustomerPhone, order.Address,
		order.Description, order.Status, order.Price, order.ManagerID,
		order.Latitude, order.Longitude, order.DeliveryAt)

	if err := scanOrder(row, order); err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id within organization
func (or *OrderRepository) GetOrderByID(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, orderID, orgID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrders returns orders matching filter, newest delivery first
func (or *OrderRepository) GetOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	query, args := buildOrdersQuery(filter)

	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// buildOrdersQuery translates filter into SQL. All clauses are AND-ed onto
// the organization scope; the claimant clause implements the role pools.
func buildOrdersQuery(filter models.OrderFilter) (string, []any) {
	var sb strings.Builder
	args := []any{filter.OrganizationID}

	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders WHERE organization_id = $1`)

	switch filter.ClaimantRole {
	case models.RoleFlorist:
		if filter.AvailableOnly {
			sb.WriteString(` AND status = 'NEW' AND florist_id IS NULL`)
		} else {
			args = append(args, filter.ClaimantID)
			fmt.Fprintf(&sb, ` AND (florist_id = $%d OR (status = 'NEW' AND florist_id IS NULL))`, len(args))
		}
	case models.RoleCourier:
		if filter.AvailableOnly {
			sb.WriteString(` AND status = 'ASSEMBLED' AND courier_id IS NULL`)
		} else {
			args = append(args, filter.ClaimantID)
			fmt.Fprintf(&sb, ` AND (courier_id = $%d OR (status = 'ASSEMBLED' AND courier_id IS NULL))`, len(args))
		}
	}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		fmt.Fprintf(&sb, ` AND status = ANY($%d)`, len(args))
	}

	sb.WriteString(` ORDER BY delivery_at DESC`)

	return sb.String(), args
}

// ClaimFlorist atomically assigns florist to an unclaimed NEW order.
// The claim is a single conditional update so that of N racing claimants
// exactly one observes a row. Returns ErrDataNotFound when no row matched.
func (or *OrderRepository) ClaimFlorist(ctx context.Context, orgID, orderID, floristID uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, claimFloristQuery, floristID, orderID, orgID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// ClaimCourier atomically assigns courier to an unclaimed ASSEMBLED order.
func (or *OrderRepository) ClaimCourier(ctx context.Context, orgID, orderID, courierID uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, claimCourierQuery, courierID, orderID, orgID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// AssignStaff sets florist and/or courier directly, nil leaves a slot unchanged
func (or *OrderRepository) AssignStaff(ctx context.Context, orgID, orderID uuid.UUID, floristID, courierID *uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, assignStaffQuery, floristID, courierID, orderID, orgID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// UpdateStatus moves order from one status to another, conditional on the
// current status so a concurrent transition loses cleanly.
func (or *OrderRepository) UpdateStatus(ctx context.Context, orgID, orderID uuid.UUID, from, to string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, updateStatusQuery, to, orderID, orgID, from), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrderStats returns order counts by status and delivered revenue for a date range
func (or *OrderRepository) GetOrderStats(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int64, float64, error) {
	rows, err := or.db.Query(ctx, selectStatusCountsQuery, orgID, from, to)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := map[string]int64{}

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			continue
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var revenue float64
	if err := or.db.QueryRow(ctx, selectRevenueQuery, orgID, from, to).Scan(&revenue); err != nil {
		return nil, 0, err
	}

	return counts, revenue, nil
}
