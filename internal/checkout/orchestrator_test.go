package checkout

import (
	"context"
	"errors"
	"testing"

	"shoes-store/internal/cart"
	"shoes-store/internal/model"
	"shoes-store/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []model.CartLine) (*model.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *MockGateway) Confirm(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	args := m.Called(ctx, intentID, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

// MockOrderRecorder is a mock implementation of OrderRecorder.
type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockOrderRecorder) CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error) {
	args := m.Called(ctx, order, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

var (
	shoeA = model.Product{ID: 1, Name: "Air Zoom", DiscountedPrice: 7500, Sizes: []int{8, 9, 10}}
	shoeB = model.Product{ID: 2, Name: "Ultraboost", DiscountedPrice: 3800, Sizes: []int{9, 10}}
)

func validShipping() model.ShippingDetails {
	return model.ShippingDetails{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "12 MG Road",
		City:    "Bengaluru",
		State:   "KA",
		ZipCode: "560001",
	}
}

func scenarioCart() *cart.Store {
	c := cart.NewStore()
	c.AddItem(shoeA, 9, 1)
	c.AddItem(shoeB, 10, 2)
	return c
}

func TestComputePricing_Scenario(t *testing.T) {
	p := ComputePricing(scenarioCart().Lines(), DefaultConfig())

	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(15100)), "subtotal %s", p.Subtotal)
	assert.True(t, p.Shipping.Equal(decimal.NewFromInt(500)), "shipping %s", p.Shipping)
	assert.True(t, p.Tax.Equal(decimal.NewFromInt(2718)), "tax %s", p.Tax)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(18318)), "total %s", p.Total)
	assert.Equal(t, "inr", p.Currency)
}

func TestComputePricing_EmptyCart(t *testing.T) {
	p := ComputePricing(nil, DefaultConfig())

	assert.True(t, p.Subtotal.IsZero())
	assert.True(t, p.Shipping.IsZero())
	assert.True(t, p.Tax.IsZero())
	assert.True(t, p.Total.IsZero())
}

func TestComputePricing_TaxRounding(t *testing.T) {
	lines := []model.CartLine{{ProductID: 1, SelectedSize: 9, Quantity: 1, UnitPrice: 1999}}
	p := ComputePricing(lines, DefaultConfig())

	// 1999 * 0.18 = 359.82
	assert.Equal(t, "359.82", p.Tax.StringFixed(2))
	assert.Equal(t, "2858.82", p.Total.StringFixed(2))
}

func TestValidateShipping(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *model.ShippingDetails)
		wantMsg string
	}{
		{name: "valid", mutate: func(s *model.ShippingDetails) {}},
		{name: "missing name", mutate: func(s *model.ShippingDetails) { s.Name = "" }, wantMsg: "Shipping name is required"},
		{name: "blank city", mutate: func(s *model.ShippingDetails) { s.City = "   " }, wantMsg: "Shipping city is required"},
		{name: "missing zip", mutate: func(s *model.ShippingDetails) { s.ZipCode = "" }, wantMsg: "Shipping zipCode is required"},
		{name: "bad email", mutate: func(s *model.ShippingDetails) { s.Email = "asha" }, wantMsg: "Shipping email is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShipping()
			tt.mutate(&s)
			err := ValidateShipping(s)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, model.KindValidation, de.Kind)
			assert.Equal(t, tt.wantMsg, de.Message)
		})
	}
}

func TestOrchestrator_Checkout_Success(t *testing.T) {
	gw := new(MockGateway)
	orders := new(MockOrderRecorder)
	o := NewOrchestrator(gw, orders, DefaultConfig(), zerolog.Nop())

	c := scenarioCart()
	userID := uuid.New()
	intent := &model.PaymentIntent{ID: "pi_1_abc", ClientSecret: "pi_1_secret_abc", Amount: "18318", AmountMinor: 1831800, Currency: "inr", Status: model.PaymentStatusRequiresConfirmation}
	confirmed := *intent
	confirmed.Status = model.PaymentStatusSucceeded

	gw.On("CreateIntent", mock.Anything, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(18318))
	}), "inr", mock.Anything).Return(intent, nil)
	gw.On("Confirm", mock.Anything, "pi_1_abc", "pm_card_visa").Return(&confirmed, nil)
	orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.Status == model.OrderStatusProcessing &&
			o.PhoneNumber == "9876543210" &&
			o.UserID != nil && *o.UserID == userID &&
			o.PaymentIntentID == "pi_1_abc"
	}), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2
	})).Return(&model.OrderResponse{}, nil)

	conf, err := o.Checkout(context.Background(), Request{
		Cart:          c,
		VerifiedPhone: "9876543210",
		UserID:        &userID,
		Shipping:      validShipping(),
		PaymentMethod: "pm_card_visa",
	})

	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Equal(t, "pi_1_abc", conf.PaymentIntentID)
	assert.Len(t, conf.Items, 2)
	assert.True(t, conf.Pricing.Total.Equal(decimal.NewFromInt(18318)))
	assert.Equal(t, model.OrderStatusProcessing, conf.Status)
	assert.True(t, c.IsEmpty(), "cart should be cleared after checkout")

	gw.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestOrchestrator_Checkout_Declined(t *testing.T) {
	gw := new(MockGateway)
	orders := new(MockOrderRecorder)
	o := NewOrchestrator(gw, orders, DefaultConfig(), zerolog.Nop())

	c := scenarioCart()
	intent := &model.PaymentIntent{ID: "pi_2_abc", Status: model.PaymentStatusRequiresConfirmation}

	gw.On("CreateIntent", mock.Anything, mock.Anything, "inr", mock.Anything).Return(intent, nil)
	gw.On("Confirm", mock.Anything, "pi_2_abc", "pm_card_chargeDeclined").Return(nil, model.ErrPaymentDeclined)

	_, err := o.Checkout(context.Background(), Request{
		Cart:          c,
		VerifiedPhone: "9876543210",
		Shipping:      validShipping(),
		PaymentMethod: "pm_card_chargeDeclined",
	})

	assert.ErrorIs(t, err, model.ErrPaymentDeclined)
	assert.Equal(t, 2, c.Len(), "cart must be intact after a declined payment")
	assert.Equal(t, int64(15100), c.Subtotal())
	orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Checkout_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		cart    *cart.Store
		phone   string
		ship    model.ShippingDetails
		wantErr error
		kind    model.ErrorKind
	}{
		{name: "empty cart", cart: cart.NewStore(), phone: "9876543210", ship: validShipping(), wantErr: model.ErrEmptyCart},
		{name: "unverified phone", cart: scenarioCart(), phone: "", ship: validShipping(), wantErr: model.ErrPhoneNotVerified},
		{name: "missing shipping", cart: scenarioCart(), phone: "9876543210", ship: model.ShippingDetails{}, kind: model.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockGateway)
			o := NewOrchestrator(gw, nil, DefaultConfig(), zerolog.Nop())
			before := tt.cart.Len()

			_, err := o.Checkout(context.Background(), Request{
				Cart:          tt.cart,
				VerifiedPhone: tt.phone,
				Shipping:      tt.ship,
			})

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.kind != "" {
				de, ok := model.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, tt.kind, de.Kind)
			}
			assert.Equal(t, before, tt.cart.Len())
			gw.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrchestrator_Checkout_PersistFailureStillConfirms(t *testing.T) {
	gw := new(MockGateway)
	orders := new(MockOrderRecorder)
	o := NewOrchestrator(gw, orders, DefaultConfig(), zerolog.Nop())

	c := scenarioCart()
	intent := &model.PaymentIntent{ID: "pi_3_abc"}
	confirmed := &model.PaymentIntent{ID: "pi_3_abc", Status: model.PaymentStatusSucceeded}

	gw.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(intent, nil)
	gw.On("Confirm", mock.Anything, "pi_3_abc", "pm_card_visa").Return(confirmed, nil)
	orders.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	conf, err := o.Checkout(context.Background(), Request{
		Cart:          c,
		VerifiedPhone: "9876543210",
		Shipping:      validShipping(),
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_3_abc", conf.PaymentIntentID)
	assert.True(t, c.IsEmpty())
}

func TestOrchestrator_Checkout_UpstreamFailureKeepsCart(t *testing.T) {
	gw := new(MockGateway)
	o := NewOrchestrator(gw, nil, DefaultConfig(), zerolog.Nop())
	c := scenarioCart()

	gw.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, model.ErrUpstream)

	_, err := o.Checkout(context.Background(), Request{Cart: c, VerifiedPhone: "9876543210", Shipping: validShipping()})
	assert.ErrorIs(t, err, model.ErrUpstream)
	assert.Equal(t, 2, c.Len())
}

func TestOrchestrator_WithMockGateway(t *testing.T) {
	o := NewOrchestrator(payment.NewMockGateway(zerolog.Nop()), nil, DefaultConfig(), zerolog.Nop())

	c := scenarioCart()
	conf, err := o.Checkout(context.Background(), Request{
		Cart:          c,
		VerifiedPhone: "9876543210",
		Shipping:      validShipping(),
		PaymentMethod: "pm_card_visa",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^pi_\d+_[0-9a-z]{9}$`, conf.PaymentIntentID)

	c.AddItem(shoeA, 9, 1)
	_, err = o.Checkout(context.Background(), Request{
		Cart:          c,
		VerifiedPhone: "9876543210",
		Shipping:      validShipping(),
		PaymentMethod: "tok_chargeDeclined",
	})
	assert.ErrorIs(t, err, model.ErrPaymentDeclined)
	assert.Equal(t, 1, c.Len())
}

func TestOrchestrator_CreatePaymentIntent(t *testing.T) {
	o := NewOrchestrator(payment.NewMockGateway(zerolog.Nop()), nil, DefaultConfig(), zerolog.Nop())

	pi, err := o.CreatePaymentIntent(context.Background(), model.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(18318)})
	require.NoError(t, err)
	assert.Equal(t, "inr", pi.Currency)
	assert.Equal(t, "18318", pi.Amount.String())
	assert.Equal(t, int64(1831800), pi.AmountMinor)

	_, err = o.CreatePaymentIntent(context.Background(), model.CreatePaymentIntentRequest{Amount: decimal.Zero})
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
}

func TestOrchestrator_Summary(t *testing.T) {
	o := NewOrchestrator(new(MockGateway), nil, DefaultConfig(), zerolog.Nop())
	c := scenarioCart()

	p := o.Summary(c)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(18318)))
	assert.Equal(t, 2, c.Len())
}
