package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcturial/clickatell/pkg/callback"
	"github.com/arcturial/clickatell/pkg/diagnostic"
)

const logPrefix = "cache:status"

// DefaultStatusTTL is used when NewStatusCache gets a non-positive TTL.
const DefaultStatusTTL = 24 * time.Hour

// Status is the cached delivery state of one message.
type Status struct {
	APIMsgID    string `json:"apiMsgId"`
	ClientMsgID string `json:"clientMsgId,omitempty"`
	To          string `json:"to,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Charge      string `json:"charge,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Updated     string `json:"updated"`
}

// StatusCache stores the latest Status per apiMsgId.
type StatusCache struct {
	c   Cache
	ttl time.Duration
	now func() time.Time
}

// NewStatusCache wraps c. Entries expire after ttl.
func NewStatusCache(c Cache, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &StatusCache{c: c, ttl: ttl, now: time.Now}
}

// Put stores rec when it carries a delivery status. Other callbacks are
// ignored and Put reports false.
func (s *StatusCache) Put(ctx context.Context, rec callback.Record) (bool, error) {
	if rec.APIMsgID == "" || rec.Status == "" {
		return false, nil
	}
	desc := diagnostic.Description(rec.Status)
	if desc == "" {
		desc = rec.Fields["statusDescription"]
	}
	st := Status{
		APIMsgID:    rec.APIMsgID,
		ClientMsgID: rec.ClientMsgID,
		To:          rec.To,
		Status:      rec.Status,
		Description: desc,
		Charge:      rec.Charge,
		Timestamp:   rec.Timestamp,
		Updated:     s.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(st)
	if err != nil {
		return false, fmt.Errorf("%s - failed to encode status: %w", logPrefix, err)
	}
	if err := s.c.Set(ctx, DeliveryStatus.Key(rec.APIMsgID), string(b), s.ttl); err != nil {
		return false, fmt.Errorf("%s - failed to cache %s: %w", logPrefix, rec.APIMsgID, err)
	}
	slog.Debug(fmt.Sprintf("%s - cached %s status=%s", logPrefix, rec.APIMsgID, rec.Status))
	return true, nil
}

// Get returns the cached status of apiMsgID, or ErrNotFound.
func (s *StatusCache) Get(ctx context.Context, apiMsgID string) (*Status, error) {
	v, err := s.c.Get(ctx, DeliveryStatus.Key(apiMsgID))
	if err != nil {
		return nil, err
	}
	var st Status
	if err := json.Unmarshal([]byte(v), &st); err != nil {
		return nil, fmt.Errorf("%s - failed to decode %s: %w", logPrefix, apiMsgID, err)
	}
	return &st, nil
}

// Forget drops the cached status of apiMsgID.
func (s *StatusCache) Forget(ctx context.Context, apiMsgID string) error {
	return s.c.Del(ctx, DeliveryStatus.Key(apiMsgID))
}
