// Package reviews guarda as avaliações de produtos.
package reviews

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review representa uma avaliação
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Helpful   int       `json:"helpful"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateReviewRequest é o corpo de POST /api/reviews
type CreateReviewRequest struct {
	ProductID int64  `json:"productId"`
	UserID    int64  `json:"userId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// NewReview cria uma nova instância de Review; toda avaliação nasce verificada
func NewReview(id int64, req CreateReviewRequest, now time.Time) Review {
	return Review{
		ID:        id,
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Title:     req.Title,
		Content:   req.Content,
		Helpful:   0,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
