package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"bistro/config"
	"bistro/internal/domain/entity"
	"bistro/internal/domain/repository"
	mockRepo "bistro/internal/mocks/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		LocalStorage: &config.LocalStorageConfig{
			FavoritesKey: "@test_favorites",
			SessionKey:   "@test_session",
		},
		Checkout: &config.CheckoutConfig{
			DeliveryFee:    1500,
			MinPhoneLength: 8,
		},
	}
}

func newTestUser() *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		Email:    "ada@example.com",
		FullName: "Ada",
	}
}

// stubAuth is an AuthContext whose identity is switched by the test.
type stubAuth struct {
	mu       sync.Mutex
	user     *entity.User
	notifier notifier[usecase.SessionChange]
}

func newStubAuth(user *entity.User) *stubAuth {
	return &stubAuth{user: user}
}

func (a *stubAuth) CurrentUser() *entity.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.user == nil {
		return nil
	}
	user := *a.user

	return &user
}

func (a *stubAuth) Subscribe(listener func(usecase.SessionChange)) func() {
	return a.notifier.subscribe(listener)
}

func (a *stubAuth) set(event usecase.SessionEvent, user *entity.User) {
	a.mu.Lock()
	previous := a.user
	a.user = user
	a.mu.Unlock()

	a.notifier.publish(usecase.SessionChange{Event: event, Previous: previous, Current: user})
}

// expectTransaction makes txManager run the callback against factory.
func expectTransaction(txManager *mockRepo.MockTransactionManager, factory repository.RepositoryFactory) {
	txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}
