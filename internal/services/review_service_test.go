// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	svc     *ReviewService
	product *models.Product
	userA   *models.User
	userB   *models.User
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewReviewService(s.db)

	category := createTestCategory(s.T(), s.db, "Electronics")
	shop := createTestShop(s.T(), s.db, "gadgets", category.ID)
	s.product = createTestProduct(s.T(), s.db, shop, "Headphones", 300)

	role := createTestRole(s.T(), s.db, models.RoleGuest)
	s.userA = createTestUser(s.T(), s.db, "a@test.com", role)
	s.userB = createTestUser(s.T(), s.db, "b@test.com", role)
}

func (s *ReviewServiceTestSuite) productRating() (float64, int64) {
	var product models.Product
	s.Require().NoError(s.db.First(&product, s.product.ID).Error)
	return product.AverageRating, product.TotalReviews
}

func (s *ReviewServiceTestSuite) TestCreateReviewRecomputesAggregate() {
	_, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 5,
	})
	s.Require().NoError(err)
	_, err = s.svc.CreateReview(s.userB.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 4,
	})
	s.Require().NoError(err)

	rating, total := s.productRating()
	s.Equal(4.5, rating)
	s.Equal(int64(2), total)
}

func (s *ReviewServiceTestSuite) TestDuplicateReviewRejected() {
	_, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 3,
	})
	s.Require().NoError(err)

	_, err = s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 5,
	})
	s.ErrorIs(err, ErrDuplicateReview)

	_, total := s.productRating()
	s.Equal(int64(1), total)
}

func (s *ReviewServiceTestSuite) TestInactiveProductCannotBeReviewed() {
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", s.product.ID).
		UpdateColumn("is_active", false).Error)

	_, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 4,
	})
	s.Error(err)
}

func (s *ReviewServiceTestSuite) TestDeletingLastReviewRestoresDefaultRating() {
	review, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 1,
	})
	s.Require().NoError(err)

	rating, total := s.productRating()
	s.Equal(1.0, rating)
	s.Equal(int64(1), total)

	s.Require().NoError(s.svc.DeleteReview(s.userA.ID, review.ID))

	rating, total = s.productRating()
	s.Equal(models.DefaultRating, rating)
	s.Equal(int64(0), total)
}

func (s *ReviewServiceTestSuite) TestAdminCanDeleteAnyReview() {
	review, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 2,
	})
	s.Require().NoError(err)

	// Owner check applies for regular users.
	s.Error(s.svc.DeleteReview(s.userB.ID, review.ID))
	s.NoError(s.svc.DeleteReview(uuid.Nil, review.ID))
}

func (s *ReviewServiceTestSuite) TestDeactivatedReviewExcludedFromAggregate() {
	review, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 5,
	})
	s.Require().NoError(err)
	_, err = s.svc.CreateReview(s.userB.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 1,
	})
	s.Require().NoError(err)

	_, err = s.svc.SetReviewActive(review.ID, false)
	s.Require().NoError(err)

	rating, total := s.productRating()
	s.Equal(1.0, rating)
	s.Equal(int64(1), total)
}

func (s *ReviewServiceTestSuite) TestUpdateReviewIsOwnerScoped() {
	review, err := s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 2,
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateReview(s.userB.ID, review.ID, &UpdateReviewRequest{Rating: 5})
	s.Error(err)

	_, err = s.svc.UpdateReview(s.userA.ID, review.ID, &UpdateReviewRequest{Rating: 5})
	s.Require().NoError(err)

	rating, _ := s.productRating()
	s.Equal(5.0, rating)
}

func (s *ReviewServiceTestSuite) TestOverrideRatingIsReplacedByNextRealMutation() {
	_, err := s.svc.OverrideRating(s.product.ID, &OverrideRatingRequest{Rating: 4.8})
	s.Require().NoError(err)

	rating, total := s.productRating()
	s.Equal(4.8, rating)
	s.Equal(int64(1), total)

	_, err = s.svc.CreateReview(s.userA.ID, &CreateReviewRequest{
		ProductID: s.product.ID, Rating: 3,
	})
	s.Require().NoError(err)

	rating, total = s.productRating()
	s.Equal(3.0, rating)
	s.Equal(int64(1), total)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
