// Package review 提供预订评价服务
package review

import (
	"context"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/metrics"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// ReviewService 评价服务
type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	bookingRepo *repository.BookingRepository
}

// NewReviewService 创建评价服务
func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	bookingRepo *repository.BookingRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	BookingID int64   `json:"booking_id" binding:"required"`
	Rating    int     `json:"rating" binding:"required"`
	Comment   *string `json:"comment"`
}

// CreateReview 创建评价
// 仅本人的已确认预订可评价，且一个预订只能评价一次
func (s *ReviewService) CreateReview(ctx context.Context, userID int64, req *CreateReviewRequest) (*models.Review, error) {
	if req.Rating < models.ReviewMinRating || req.Rating > models.ReviewMaxRating {
		return nil, errors.ErrRatingInvalid
	}
	if req.Comment != nil && len([]rune(*req.Comment)) > models.ReviewMaxCommentLength {
		return nil, errors.ErrCommentTooLong
	}

	booking, err := s.bookingRepo.GetByIDForUser(ctx, req.BookingID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if booking.Status != models.BookingStatusConfirmed {
		return nil, errors.ErrReviewNotAllowed
	}

	exists, err := s.reviewRepo.ExistsByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrAlreadyReviewed
	}

	review := &models.Review{
		BookingID: booking.ID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// 并发提交同一预订的评价由唯一索引兜底
		return nil, errors.ErrAlreadyReviewed.WithError(err)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReview()
	}
	logger.Info("评价创建成功",
		logger.UserID(userID),
		logger.BookingID(booking.ID),
		logger.Int("rating", req.Rating),
	)

	return review, nil
}

// GetRoomReviews 获取房间的评价列表（公开）
func (s *ReviewService) GetRoomReviews(ctx context.Context, roomID int64, offset, limit int) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.ListByRoom(ctx, roomID, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reviews, total, nil
}

// GetUserReviews 获取用户自己的评价列表
func (s *ReviewService) GetUserReviews(ctx context.Context, userID int64, offset, limit int) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reviews, total, nil
}

// DeleteReview 删除评价
// 本人或管理员可删除
func (s *ReviewService) DeleteReview(ctx context.Context, userID int64, isAdmin bool, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrReviewNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if !isAdmin && review.UserID != userID {
		return errors.ErrPermissionDenied
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("评价已删除",
		logger.ActorID(userID),
		logger.Int64("review_id", reviewID),
	)
	return nil
}
