package reviews

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/validator"
)

// Cache é o subconjunto do cache.Manager usado para a média de notas
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string) bool
}

// ReviewUseCase contém a lógica de negócio de avaliações
type ReviewUseCase struct {
	repository ReviewRepository
	cache      Cache
	cacheTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewReviewUseCase cria uma nova instância de ReviewUseCase
func NewReviewUseCase(repository ReviewRepository, cache Cache, cacheTTL time.Duration, log *zap.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		repository: repository,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log.Named("reviews"),
		now:        time.Now,
	}
}

func ratingKey(productID int64) string {
	return fmt.Sprintf("reviews:rating:%d", productID)
}

func (uc *ReviewUseCase) List() []Review {
	return uc.repository.FindAll()
}

func (uc *ReviewUseCase) Get(id int64) (Review, error) {
	r, ok := uc.repository.FindByID(id)
	if !ok {
		return Review{}, apperr.NotFound("review", id)
	}
	return r, nil
}

func (uc *ReviewUseCase) FindByProductID(productID int64) []Review {
	return uc.repository.Filter(func(r Review) bool { return r.ProductID == productID })
}

func (uc *ReviewUseCase) FindByUserID(userID int64) []Review {
	return uc.repository.Filter(func(r Review) bool { return r.UserID == userID })
}

func (uc *ReviewUseCase) Create(req CreateReviewRequest) (Review, error) {
	req.Title = strings.TrimSpace(req.Title)

	fields := validator.New().
		Validate("title", req.Title, validator.Required(), validator.MaxLength(200)).
		Validate("content", req.Content, validator.MaxLength(5000)).
		Errors()
	if req.ProductID <= 0 {
		fields = append(fields, apperr.FieldError{Field: "productId", Message: "productId is required"})
	}
	if req.UserID <= 0 {
		fields = append(fields, apperr.FieldError{Field: "userId", Message: "userId is required"})
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		fields = append(fields, apperr.FieldError{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
		})
	}
	if len(fields) > 0 {
		return Review{}, &apperr.ValidationError{Fields: fields}
	}

	now := uc.now()
	review := uc.repository.Insert(func(id int64) Review {
		return NewReview(id, req, now)
	})
	uc.cache.Delete(ratingKey(review.ProductID))

	uc.log.Info("✅ review created", zap.Int64("review_id", review.ID), zap.Int64("product_id", review.ProductID))
	return review, nil
}

func (uc *ReviewUseCase) MarkHelpful(id int64) (Review, error) {
	review, ok, err := uc.repository.Update(id, func(r *Review) error {
		r.Helpful++
		r.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return Review{}, fmt.Errorf("mark review %d helpful: %w", id, err)
	}
	if !ok {
		return Review{}, apperr.NotFound("review", id)
	}
	return review, nil
}

// AverageRating é a média das notas do produto, 0 sem avaliações
func (uc *ReviewUseCase) AverageRating(productID int64) float64 {
	key := ratingKey(productID)
	if v, ok := uc.cache.Get(key); ok {
		if avg, ok := v.(float64); ok {
			return avg
		}
	}

	var avg float64
	if reviews := uc.FindByProductID(productID); len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	uc.cache.Set(key, avg, uc.cacheTTL)
	return avg
}

func (uc *ReviewUseCase) Delete(id int64) error {
	review, ok := uc.repository.FindByID(id)
	if !ok || !uc.repository.Delete(id) {
		return apperr.NotFound("review", id)
	}
	uc.cache.Delete(ratingKey(review.ProductID))
	uc.log.Info("🗑️ review deleted", zap.Int64("review_id", id))
	return nil
}
