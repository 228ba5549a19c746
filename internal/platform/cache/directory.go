package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/redis/go-redis/v9"
)

const directoryKeyPrefix = "folio_ledger:party:"

type cachedParty struct {
	Type             domain.FolioType     `json:"type"`
	ID               string               `json:"id"`
	DisplayName      string               `json:"displayName"`
	CityLedgerMethod domain.PaymentMethod `json:"cityLedgerMethod,omitempty"`
}

// DirectoryCache is a read-through Redis cache in front of the billing-party directory.
// Misses and unknown parties go to the wrapped directory; Redis failures degrade to it.
type DirectoryCache struct {
	next   portsrepo.BillingPartyDirectory
	client *redis.Client
	ttl    time.Duration
}

// NewDirectoryCache wraps next. A nil client disables caching.
func NewDirectoryCache(next portsrepo.BillingPartyDirectory, client *redis.Client, ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{next: next, client: client, ttl: ttl}
}

var _ portsrepo.BillingPartyDirectory = (*DirectoryCache)(nil)

// FindGuest implements portsrepo.BillingPartyDirectory.
func (c *DirectoryCache) FindGuest(ctx context.Context, guestID string) (*domain.BillingParty, error) {
	return c.fetch(ctx, domain.FolioTypeGuest, guestID, c.next.FindGuest)
}

// FindCompany implements portsrepo.BillingPartyDirectory.
func (c *DirectoryCache) FindCompany(ctx context.Context, companyID string) (*domain.BillingParty, error) {
	return c.fetch(ctx, domain.FolioTypeCompany, companyID, c.next.FindCompany)
}

// Invalidate drops a cached party after the directory changes it.
func (c *DirectoryCache) Invalidate(ctx context.Context, ref domain.BillingPartyRef) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, partyKey(ref.Type, ref.ID)).Err()
}

func partyKey(kind domain.FolioType, id string) string {
	return directoryKeyPrefix + string(kind) + ":" + id
}

func (c *DirectoryCache) fetch(
	ctx context.Context,
	kind domain.FolioType,
	id string,
	load func(context.Context, string) (*domain.BillingParty, error),
) (*domain.BillingParty, error) {
	if c.client == nil {
		return load(ctx, id)
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	key := partyKey(kind, id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedParty
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &domain.BillingParty{
				Ref:              domain.BillingPartyRef{Type: cached.Type, ID: cached.ID},
				DisplayName:      cached.DisplayName,
				CityLedgerMethod: cached.CityLedgerMethod,
			}, nil
		}
		logger.Warn("Discarding unreadable cached billing party", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		logger.Warn("Billing party cache unavailable", slog.String("key", key), slog.String("error", err.Error()))
	}

	party, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(cachedParty{
		Type:             party.Ref.Type,
		ID:               party.Ref.ID,
		DisplayName:      party.DisplayName,
		CityLedgerMethod: party.CityLedgerMethod,
	})
	if err == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			logger.Warn("Failed to cache billing party", slog.String("key", key), slog.String("error", setErr.Error()))
		}
	}
	return party, nil
}
