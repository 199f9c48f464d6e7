// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

// ErrDuplicateReview is returned when a user reviews the same product twice.
var ErrDuplicateReview = errors.New("product already reviewed by this user")

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type OverrideRatingRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) ListProductReviews(productID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Review{}).Preload("User").
		Where("product_id = ? AND is_active = ?", productID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []models.Review
	query = utils.ApplySort(query, params, []string{"created_at", "rating"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	result := utils.CreatePaginationResult(reviews, total, params)
	return &result, nil
}

// CreateReview inserts the review and recomputes the product's aggregate in
// the same transaction, so readers never see a review counted but not
// averaged.
func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.Where("is_active = ? AND is_approved = ?", true, true).
		First(&product, req.ProductID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	var existing models.Review
	if err := s.db.Where("product_id = ? AND user_id = ?", req.ProductID, userID).
		First(&existing).Error; err == nil {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		IsActive:  true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.recomputeRating(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(userID, reviewID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.Review
	if err := s.db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		return nil, errors.New("review not found")
	}

	review.Rating = req.Rating
	review.Comment = req.Comment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return s.recomputeRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review. Admin callers pass uuid.Nil as userID to
// delete any review.
func (s *ReviewService) DeleteReview(userID, reviewID uuid.UUID) error {
	query := s.db.Where("id = ?", reviewID)
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		return errors.New("review not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.recomputeRating(tx, review.ProductID)
	})
}

func (s *ReviewService) SetReviewActive(reviewID uuid.UUID, active bool) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, errors.New("review not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&review).Update("is_active", active).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		review.IsActive = active
		return s.recomputeRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// OverrideRating pins a product's rating by hand. The override shows as a
// single synthetic review; the next real review mutation recomputes over
// actual reviews again.
func (s *ReviewService) OverrideRating(productID uuid.UUID, req *OverrideRatingRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	updates := map[string]interface{}{
		"average_rating": req.Rating,
		"total_reviews":  1,
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to override rating: %w", err)
	}
	product.AverageRating = req.Rating
	product.TotalReviews = 1
	return &product, nil
}

// recomputeRating rebuilds the product aggregate from active reviews. Zero
// reviews fall back to the neutral default rating.
func (s *ReviewService) recomputeRating(tx *gorm.DB, productID uuid.UUID) error {
	type aggregate struct {
		Count int64
		Avg   float64
	}
	var agg aggregate
	err := tx.Model(&models.Review{}).
		Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as avg").
		Where("product_id = ? AND is_active = ?", productID, true).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	rating := models.DefaultRating
	if agg.Count > 0 {
		// Round to two decimals to match the stored precision.
		rating = math.Round(agg.Avg*100) / 100
	}

	updates := map[string]interface{}{
		"average_rating": rating,
		"total_reviews":  agg.Count,
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}
