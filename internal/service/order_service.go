package service

import (
	"context"
	"fmt"

	"shoes-store/internal/model"
	"shoes-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder persists a paid order and its items in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	if err := s.validateOrder(order, items); err != nil {
		return nil, err
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created successfully")

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetByID retrieves an order owned by userID. Orders of other users are
// reported as not found.
func (s *orderService) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.UserID == nil || *order.UserID != userID {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if items == nil {
		items = []model.OrderItem{}
	}
	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// ListByUser retrieves the orders placed by userID, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.OrderResponse{}
	}
	return orders, nil
}

// validateOrder validates the order before it is written.
func (s *orderService) validateOrder(order *model.Order, items []model.OrderItem) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	if len(items) == 0 {
		return model.ErrEmptyCart
	}

	for i, item := range items {
		if item.OrderID != order.ID {
			return fmt.Errorf("item %d: belongs to order %s", i, item.OrderID)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
