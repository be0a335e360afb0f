package cache

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
)

// InvalidationChannel is the redis pub/sub channel the write-side
// collaborator publishes to when identity or membership rows change.
// Payload format: "identity:<user-uuid>" or "membership:<user-uuid>".
const InvalidationChannel = "authz.invalidate"

// Invalidator subscribes to the invalidation channel and drops the matching
// cache entries, so every instance converges after a role update or
// deactivation without waiting out the TTL.
type Invalidator struct {
	client      *redis.Client
	identities  ports.IdentityCache
	memberships ports.MembershipCache
	log         zerolog.Logger
}

// NewInvalidator creates an invalidation subscriber.
func NewInvalidator(client *redis.Client, identities ports.IdentityCache, memberships ports.MembershipCache, log zerolog.Logger) *Invalidator {
	return &Invalidator{
		client:      client,
		identities:  identities,
		memberships: memberships,
		log:         log,
	}
}

// Run blocks consuming invalidation messages until ctx is cancelled.
func (i *Invalidator) Run(ctx context.Context) error {
	sub := i.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			i.apply(msg.Payload)
		}
	}
}

func (i *Invalidator) apply(payload string) {
	kind, raw, ok := strings.Cut(payload, ":")
	if !ok {
		i.log.Warn().Str("payload", payload).Msg("invalidation message malformed")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		i.log.Warn().Str("payload", payload).Msg("invalidation message carries invalid uuid")
		return
	}
	userID := domain.NewUserID(id)
	switch kind {
	case "identity":
		i.identities.Invalidate(userID)
	case "membership":
		i.memberships.Invalidate(userID)
	default:
		i.log.Warn().Str("kind", kind).Msg("invalidation message has unknown kind")
		return
	}
	i.log.Debug().Str("kind", kind).Str("user_id", userID.String()).Msg("cache entry invalidated")
}

// Publish mirrors an invalidation to peer instances. Callers that already
// invalidated locally use this to fan out.
func Publish(ctx context.Context, client *redis.Client, kind string, userID domain.UserID) error {
	return client.Publish(ctx, InvalidationChannel, kind+":"+userID.String()).Err()
}
