package partner

import (
	"context"
	"testing"

	"github.com/crediario/backend/internal/domain/partner"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[partner.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCustomerServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a customer with contact and limit", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByPhone", ctx, "+55 11 98765-4321").Return(nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		svc := NewCustomerService(repo)
		limit := decimal.NewFromInt(500)
		resp, err := svc.Create(ctx, CreateCustomerRequest{
			Name:        "Maria Silva",
			Phone:       "+55 11 98765-4321",
			Address:     "Rua das Flores, 10",
			CreditLimit: &limit,
		})
		require.NoError(t, err)

		assert.Equal(t, "Maria Silva", resp.Name)
		require.NotNil(t, resp.CreditLimit)
		assert.True(t, resp.CreditLimit.Equal(limit))
		assert.True(t, resp.BalanceOwed.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		existing, err := partner.NewCustomer("Outra Pessoa")
		require.NoError(t, err)

		repo := new(MockCustomerRepository)
		repo.On("FindByPhone", ctx, "+55 11 90000-0000").Return(existing, nil)

		svc := NewCustomerService(repo)
		_, err = svc.Create(ctx, CreateCustomerRequest{Name: "Maria", Phone: "+55 11 90000-0000"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("propagates domain validation failures", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, CreateCustomerRequest{Name: ""})
		assert.Error(t, err)
	})
}

func TestCustomerServiceSetCreditLimit(t *testing.T) {
	ctx := context.Background()
	customer, err := partner.NewCustomer("Ana")
	require.NoError(t, err)
	customer.ApplyBalanceDelta(decimal.NewFromInt(400))

	repo := new(MockCustomerRepository)
	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)

	svc := NewCustomerService(repo)

	// Lowering the limit below the balance is allowed
	limit := decimal.NewFromInt(100)
	resp, err := svc.SetCreditLimit(ctx, customer.ID, SetCreditLimitRequest{CreditLimit: &limit})
	require.NoError(t, err)
	require.NotNil(t, resp.CreditLimit)
	assert.True(t, resp.CreditLimit.Equal(limit))
	require.NotNil(t, resp.AvailableCredit)
	assert.True(t, resp.AvailableCredit.Equal(decimal.NewFromInt(-300)))

	// Removing it makes credit unlimited again
	resp, err = svc.SetCreditLimit(ctx, customer.ID, SetCreditLimitRequest{CreditLimit: nil})
	require.NoError(t, err)
	assert.Nil(t, resp.CreditLimit)
	assert.Nil(t, resp.AvailableCredit)
}

func TestCustomerServiceList(t *testing.T) {
	ctx := context.Background()
	c1, err := partner.NewCustomer("Ana")
	require.NoError(t, err)
	c2, err := partner.NewCustomer("Bruno")
	require.NoError(t, err)

	repo := new(MockCustomerRepository)
	repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
		Return(shared.NewPaginated([]partner.Customer{*c1, *c2}, 2, 1, 20), nil)

	svc := NewCustomerService(repo)
	result, err := svc.List(ctx, CustomerListFilter{Search: "a"})
	require.NoError(t, err)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Total)
}

func TestCustomerServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing customer", func(t *testing.T) {
		customer, err := partner.NewCustomer("Rita")
		require.NoError(t, err)

		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("Delete", ctx, customer.ID).Return(nil)

		svc := NewCustomerService(repo)
		require.NoError(t, svc.Delete(ctx, customer.ID))
		repo.AssertExpectations(t)
	})

	t.Run("not found bubbles up", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		svc := NewCustomerService(repo)
		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "Delete")
	})
}
