package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order persistence and lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) (*OrderList, error)
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an orders service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// OrderLineInput is one dish snapshot inside a submitted order.
type OrderLineInput struct {
	DishID      uuid.UUID
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageURL    *string
}

// CreateOrderInput captures the frozen cart snapshot handed over at
// submission time.
type CreateOrderInput struct {
	UserID           uuid.UUID
	DeliveryLocation string
	Lines            []OrderLineInput
}

// ListParams configures pagination and status filtering for order history.
type ListParams struct {
	Limit  int
	Cursor string
	Status string
}

// OrderList wraps returned orders and the cursor for the next page.
type OrderList struct {
	Items  []OrderDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// Create persists the order and its lines atomically. The total amount is
// folded from the lines, never taken from the caller.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.DeliveryLocation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery location is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one dish")
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, models.OrderLine{
			DishID:      line.DishID,
			DishName:    line.Name,
			Description: line.Description,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
			ImageURL:    line.ImageURL,
		})
	}

	order := &models.Order{
		UserID:           input.UserID,
		Status:           enums.OrderStatusInProgress,
		TotalAmount:      total,
		DeliveryLocation: input.DeliveryLocation,
		Lines:            lines,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	dto := toOrderDTO(order)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params ListParams) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	query := listOrdersParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}

	rows, next, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toOrderDTO(&rows[i]))
	}
	return &OrderList{Items: items, Cursor: cursor}, nil
}

func (s *service) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, s.repo, userID, orderID)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// Cancel flips an in-progress order to cancelled inside a transaction. Any
// other starting status is a state conflict.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOwned(ctx, repo, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only in-progress orders can be cancelled")
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		order.Status = enums.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}

	dto := toOrderDTO(cancelled)
	return &dto, nil
}

func (s *service) loadOwned(ctx context.Context, repo Repository, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Other users' orders read as missing rather than forbidden.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
