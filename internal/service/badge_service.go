package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-appointment-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for the patient notification badge counter
	badgeKeyPrefix = "badge:unseen:"

	// Short TTL: the badge may lag the database by at most this long
	badgeTTL = 30 * time.Second
)

// BadgeService caches the patient's unseen-appointment count in Redis so the
// notification badge poll does not hit Postgres on every request. The
// database stays the source of truth; Redis only absorbs read traffic.
type BadgeService struct {
	log             *logrus.Logger
	redisClient     *redis.Client
	appointmentRepo repository.AppointmentRepository
}

func NewBadgeService(
	log *logrus.Logger,
	redisClient *redis.Client,
	appointmentRepo repository.AppointmentRepository,
) *BadgeService {
	return &BadgeService{
		log:             log,
		redisClient:     redisClient,
		appointmentRepo: appointmentRepo,
	}
}

// UnseenCount returns the number of appointments the patient has not
// acknowledged since their last status change.
func (s *BadgeService) UnseenCount(ctx context.Context, patientID uuid.UUID) (int64, error) {
	key := badgeKey(patientID)

	cached, err := s.redisClient.Get(ctx, key).Int64()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Redis trouble is not fatal for a badge; fall through to the DB.
		s.log.Warnf("Failed to read badge cache for patient %s: %+v", patientID, err)
	}

	count, err := s.appointmentRepo.CountUnseen(ctx, patientID)
	if err != nil {
		return 0, fmt.Errorf("count unseen appointments: %w", err)
	}

	if err := s.redisClient.Set(ctx, key, count, badgeTTL).Err(); err != nil {
		s.log.Warnf("Failed to write badge cache for patient %s: %+v", patientID, err)
	}

	return count, nil
}

// Invalidate drops the cached badge after a status change or acknowledge so
// the next poll reflects it immediately instead of waiting out the TTL.
func (s *BadgeService) Invalidate(ctx context.Context, patientID uuid.UUID) {
	if err := s.redisClient.Del(ctx, badgeKey(patientID)).Err(); err != nil {
		s.log.Warnf("Failed to invalidate badge cache for patient %s: %+v", patientID, err)
	}
}

func badgeKey(patientID uuid.UUID) string {
	return badgeKeyPrefix + patientID.String()
}
