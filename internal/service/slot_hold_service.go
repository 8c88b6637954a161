package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrSlotHeld is returned when another booking is already in flight for the slot
var ErrSlotHeld = errors.New("slot is being booked by another request")

// releaseHoldScript deletes the hold only if it still carries our token, so an
// expired hold re-acquired by someone else is never released by us.
var releaseHoldScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	SlotHoldKeyPrefix = "slot:hold:"

	defaultSlotHoldTTL = 30 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// SlotHolder serializes concurrent bookings of the same (doctor, date, time).
type SlotHolder interface {
	Hold(ctx context.Context, doctorID uuid.UUID, date, slot string) (string, error)
	Release(ctx context.Context, doctorID uuid.UUID, date, slot, token string) error
}

// SlotHoldService keeps short-lived Redis holds on slots while a booking
// transaction is running. The hold narrows the window between the conflict
// check and the insert; the partial unique index on appointments closes it.
type SlotHoldService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

// =============================================================================
// Constructor
// =============================================================================

func NewSlotHoldService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *SlotHoldService {
	if ttl <= 0 {
		ttl = defaultSlotHoldTTL
	}
	return &SlotHoldService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Hold acquires the slot with SET NX and returns the token needed to release it.
func (s *SlotHoldService) Hold(ctx context.Context, doctorID uuid.UUID, date, slot string) (string, error) {
	key := SlotHoldKey(doctorID, date, slot)
	token := uuid.NewString()

	ok, err := s.redisClient.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		s.log.Warnf("Failed to hold slot %s: %+v", key, err)
		return "", fmt.Errorf("hold slot %s: %w", key, err)
	}
	if !ok {
		return "", ErrSlotHeld
	}

	s.log.Debugf("Holding slot %s for %v", key, s.ttl)
	return token, nil
}

// Release drops the hold if token still owns it.
func (s *SlotHoldService) Release(ctx context.Context, doctorID uuid.UUID, date, slot, token string) error {
	key := SlotHoldKey(doctorID, date, slot)

	deleted, err := releaseHoldScript.Run(ctx, s.redisClient, []string{key}, token).Int()
	if err != nil {
		s.log.Warnf("Failed to release slot hold %s: %+v", key, err)
		return fmt.Errorf("release slot %s: %w", key, err)
	}
	if deleted == 0 {
		s.log.Debugf("Slot hold %s already expired or taken over", key)
	}
	return nil
}

// SlotHoldKey is the Redis key guarding one doctor slot.
func SlotHoldKey(doctorID uuid.UUID, date, slot string) string {
	return fmt.Sprintf("%s%s:%s:%s", SlotHoldKeyPrefix, doctorID, date, slot)
}
