package impl

import (
	"context"
	"testing"
	"time"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	mockRepo "bistro/internal/mocks/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	txManager   *mockRepo.MockTransactionManager
	factory     *mockRepo.MockRepositoryFactory
	catalogRepo *mockRepo.MockCatalogRepository
	reviewRepo  *mockRepo.MockReviewRepository
	svc         *reviewService
}

func newReviewFixture(t *testing.T, user *entity.User) *reviewFixture {
	t.Helper()

	f := &reviewFixture{
		txManager:   mockRepo.NewMockTransactionManager(t),
		factory:     mockRepo.NewMockRepositoryFactory(t),
		catalogRepo: mockRepo.NewMockCatalogRepository(t),
		reviewRepo:  mockRepo.NewMockReviewRepository(t),
	}

	f.svc = NewReviewService(f.txManager, newStubAuth(user), newDiscardLogger()).(*reviewService)
	f.svc.now = func() time.Time { return fixedNow }

	return f
}

func (f *reviewFixture) expectRepos() {
	expectTransaction(f.txManager, f.factory)
	f.factory.EXPECT().NewCatalogRepository().Return(f.catalogRepo).Maybe()
	f.factory.EXPECT().NewReviewRepository().Return(f.reviewRepo).Maybe()
}

func TestReviewService_AddReview(t *testing.T) {
	productID := uuid.New()
	input := &usecase.ReviewInput{Rating: 4, Comment: "  Juicy and well seasoned  "}

	t.Run("stores the review and refreshes the rating", func(t *testing.T) {
		user := newTestUser()
		f := newReviewFixture(t, user)
		ctx := context.Background()
		f.expectRepos()

		f.catalogRepo.EXPECT().FindProductByID(ctx, productID).Return(&entity.Product{ID: productID}, nil).Once()
		f.reviewRepo.EXPECT().FindReviewByUserAndProduct(ctx, user.ID, productID).Return(nil, repository.ErrReviewNotFound).Once()
		f.reviewRepo.EXPECT().CreateReview(ctx, mock.AnythingOfType("*entity.Review")).Return(nil).Once()
		f.reviewRepo.EXPECT().RatingSummary(ctx, productID).Return(4.3333, 3, nil).Once()
		f.catalogRepo.EXPECT().UpdateProductRating(ctx, productID, 4.33, 3).Return(nil).Once()

		review, err := f.svc.AddReview(ctx, productID, input)
		require.NoError(t, err)
		assert.Equal(t, user.ID, review.UserID)
		assert.Equal(t, 4, review.Rating)
		require.NotNil(t, review.Comment)
		assert.Equal(t, "Juicy and well seasoned", *review.Comment)
		assert.Equal(t, fixedNow, review.CreatedAt)
	})

	t.Run("second review rejected", func(t *testing.T) {
		user := newTestUser()
		f := newReviewFixture(t, user)
		ctx := context.Background()
		f.expectRepos()

		f.catalogRepo.EXPECT().FindProductByID(ctx, productID).Return(&entity.Product{ID: productID}, nil).Once()
		f.reviewRepo.EXPECT().FindReviewByUserAndProduct(ctx, user.ID, productID).Return(&entity.Review{ID: uuid.New()}, nil).Once()

		_, err := f.svc.AddReview(ctx, productID, input)
		assert.True(t, errors.Is(err, domainerrors.ErrReviewAlreadyExists))
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newReviewFixture(t, newTestUser())
		ctx := context.Background()
		f.expectRepos()

		f.catalogRepo.EXPECT().FindProductByID(ctx, productID).Return(nil, repository.ErrProductNotFound).Once()

		_, err := f.svc.AddReview(ctx, productID, input)
		assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
	})

	t.Run("database failure", func(t *testing.T) {
		user := newTestUser()
		f := newReviewFixture(t, user)
		ctx := context.Background()
		f.expectRepos()

		f.catalogRepo.EXPECT().FindProductByID(ctx, productID).Return(&entity.Product{ID: productID}, nil).Once()
		f.reviewRepo.EXPECT().FindReviewByUserAndProduct(ctx, user.ID, productID).Return(nil, errors.New("deadlock")).Once()

		_, err := f.svc.AddReview(ctx, productID, input)
		assert.True(t, errors.Is(err, domainerrors.ErrBackendUnavailable))
	})
}

func TestReviewService_AddReview_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		signedIn  bool
		input     *usecase.ReviewInput
		expectErr error
	}{
		{name: "anonymous", input: &usecase.ReviewInput{Rating: 5, Comment: "Best burger in town"}, expectErr: domainerrors.ErrSignInRequired},
		{name: "rating too low", signedIn: true, input: &usecase.ReviewInput{Rating: 0, Comment: "Best burger in town"}, expectErr: domainerrors.ErrValidationFailed},
		{name: "rating too high", signedIn: true, input: &usecase.ReviewInput{Rating: 6, Comment: "Best burger in town"}, expectErr: domainerrors.ErrValidationFailed},
		{name: "comment too short", signedIn: true, input: &usecase.ReviewInput{Rating: 5, Comment: "  Good    "}, expectErr: domainerrors.ErrValidationFailed},
		{name: "missing input", signedIn: true, expectErr: domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var user *entity.User
			if tt.signedIn {
				user = newTestUser()
			}
			f := newReviewFixture(t, user)

			_, err := f.svc.AddReview(context.Background(), uuid.New(), tt.input)
			assert.True(t, errors.Is(err, tt.expectErr), "got %v", err)
		})
	}
}

func TestReviewService_UpdateReview(t *testing.T) {
	input := &usecase.ReviewInput{Rating: 2, Comment: "Colder than last time"}

	t.Run("author edits", func(t *testing.T) {
		user := newTestUser()
		f := newReviewFixture(t, user)
		ctx := context.Background()
		f.expectRepos()

		reviewID := uuid.New()
		productID := uuid.New()
		existing := &entity.Review{ID: reviewID, UserID: user.ID, ProductID: productID, Rating: 5}

		f.reviewRepo.EXPECT().FindReviewByID(ctx, reviewID).Return(existing, nil).Once()
		f.reviewRepo.EXPECT().UpdateReview(ctx, existing).Return(nil).Once()
		f.reviewRepo.EXPECT().RatingSummary(ctx, productID).Return(3.5, 2, nil).Once()
		f.catalogRepo.EXPECT().UpdateProductRating(ctx, productID, 3.5, 2).Return(nil).Once()

		review, err := f.svc.UpdateReview(ctx, reviewID, input)
		require.NoError(t, err)
		assert.Equal(t, 2, review.Rating)
		assert.Equal(t, "Colder than last time", *review.Comment)
		assert.Equal(t, fixedNow, review.UpdatedAt)
	})

	t.Run("someone else's review", func(t *testing.T) {
		f := newReviewFixture(t, newTestUser())
		ctx := context.Background()
		f.expectRepos()

		reviewID := uuid.New()
		f.reviewRepo.EXPECT().FindReviewByID(ctx, reviewID).Return(&entity.Review{ID: reviewID, UserID: uuid.New()}, nil).Once()

		_, err := f.svc.UpdateReview(ctx, reviewID, input)
		assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	})

	t.Run("unknown review", func(t *testing.T) {
		f := newReviewFixture(t, newTestUser())
		ctx := context.Background()
		f.expectRepos()

		reviewID := uuid.New()
		f.reviewRepo.EXPECT().FindReviewByID(ctx, reviewID).Return(nil, repository.ErrReviewNotFound).Once()

		_, err := f.svc.UpdateReview(ctx, reviewID, input)
		assert.True(t, errors.Is(err, domainerrors.ErrReviewNotFound))
	})
}
