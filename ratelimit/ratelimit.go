// Package ratelimit implements the per (pubkey, kind) windowed quota applied
// to publishers before validation. State is in-process only; this is a
// fairness control, not a ledger, so losing it on restart is acceptable.
package ratelimit

import (
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
)

// DefaultWindow is the quota window if none is configured.
const DefaultWindow = time.Minute

// DefaultQuota applies to kinds with no entry in the quota table, including
// kinds outside the protocol's numbering.
const DefaultQuota = 60

// DefaultQuotas is the per-window maximum for each protocol kind. Match is
// high frequency (one per pairing attempt); Attention is low frequency and
// high value, so it gets a small quota to blunt spam.
func DefaultQuotas() map[uint16]no {
	return map[uint16]no{
		kind.Block.K:                        12,
		kind.Marketplace.K:                  12,
		kind.Billboard.K:                    30,
		kind.Promotion.K:                    120,
		kind.Attention.K:                    30,
		kind.Match.K:                        600,
		kind.BillboardConfirmation.K:        240,
		kind.AttentionConfirmation.K:        240,
		kind.MarketplaceConfirmation.K:      240,
		kind.AttentionPaymentConfirmation.K: 240,
	}
}

// bucket is the counter of one (pubkey, kind) pair. All field access happens
// under mx, shared with the sweeper.
type bucket struct {
	mx          sync.Mutex
	count       no
	windowStart time.Time
	// dead marks a bucket the sweeper has removed from the table; a
	// concurrent Allow holding a stale pointer must fetch a fresh one.
	dead bo
}

// Params configures a limiter; zero values get defaults.
type Params struct {
	// Ctx bounds the sweeper goroutine; nil disables sweeping.
	Ctx cx
	// Window is the quota window duration.
	Window time.Duration
	// Quotas overrides per-kind per-window maximums.
	Quotas map[uint16]no
	// Default is the quota of unrecognized kinds.
	Default no
	// SweepEvery is the cleanup cadence.
	SweepEvery time.Duration
	// IdleWindows is how many whole windows a bucket sits untouched before
	// the sweeper drops it.
	IdleWindows no
}

// L is the limiter. Allow is safe under concurrent invocation from many
// simultaneous publishers; within one (pubkey, kind) bucket the counting is
// linearizable because every touch holds that bucket's lock.
type L struct {
	window      time.Duration
	quotas      map[uint16]no
	defQuota    no
	idleWindows no
	buckets     *xsync.MapOf[st, *bucket]
	authorized  *xsync.MapOf[st, struct{}]
}

// New creates a limiter and, when p.Ctx is set, starts its background sweep.
func New(p Params) (l *L) {
	if p.Window == 0 {
		p.Window = DefaultWindow
	}
	if p.Quotas == nil {
		p.Quotas = DefaultQuotas()
	}
	if p.Default == 0 {
		p.Default = DefaultQuota
	}
	if p.SweepEvery == 0 {
		p.SweepEvery = p.Window
	}
	if p.IdleWindows == 0 {
		p.IdleWindows = 4
	}
	l = &L{
		window:      p.Window,
		quotas:      p.Quotas,
		defQuota:    p.Default,
		idleWindows: p.IdleWindows,
		buckets:     xsync.NewMapOf[st, *bucket](),
		authorized:  xsync.NewMapOf[st, struct{}](),
	}
	if p.Ctx != nil {
		go l.sweep(p.Ctx, p.SweepEvery)
	}
	return
}

// GetLimit returns the configured per-window maximum of a kind, falling back
// to the default for unrecognized kinds.
func (l *L) GetLimit(k *kind.T) (max no) {
	if q, ok := l.quotas[k.ToU16()]; ok {
		return q
	}
	return l.defQuota
}

// Window returns the configured window duration.
func (l *L) Window() time.Duration { return l.window }

// Authorize puts a pubkey on the allow-list that bypasses limiting. Fed by
// the auth collaborator.
func (l *L) Authorize(pubkey by) { l.authorized.Store(hex.Enc(pubkey), struct{}{}) }

// Deauthorize removes a pubkey from the allow-list.
func (l *L) Deauthorize(pubkey by) { l.authorized.Delete(hex.Enc(pubkey)) }

// IsAuthorized returns whether a pubkey bypasses limiting.
func (l *L) IsAuthorized(pubkey by) (is bo) {
	_, is = l.authorized.Load(hex.Enc(pubkey))
	return
}

func key(pubkey by, k *kind.T) st {
	return hex.Enc(pubkey) + ":" + strconv.Itoa(k.ToInt())
}

// Allow consumes one unit of the (pubkey, kind) quota, reporting whether the
// publish may proceed. The count resets exactly when the window boundary is
// crossed.
func (l *L) Allow(pubkey by, k *kind.T) (ok bo) {
	if l.IsAuthorized(pubkey) {
		return true
	}
	max := l.GetLimit(k)
	bk := key(pubkey, k)
	for {
		b, _ := l.buckets.LoadOrCompute(bk, func() *bucket {
			return &bucket{windowStart: time.Now()}
		})
		b.mx.Lock()
		if b.dead {
			// the sweeper removed this bucket between our load and lock;
			// fetch a fresh one.
			b.mx.Unlock()
			continue
		}
		now := time.Now()
		if now.Sub(b.windowStart) >= l.window {
			b.count = 0
			b.windowStart = now
		}
		if b.count < max {
			b.count++
			ok = true
		}
		b.mx.Unlock()
		if !ok {
			log.D.F("rate limited %s kind %d count %d", hex.Enc(pubkey), k.ToInt(), max)
		}
		return
	}
}

// sweep periodically drops buckets whose window has long expired, bounding
// memory independent of the total number of unique (pubkey, kind) pairs seen.
func (l *L) sweep(c cx, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			var dropped no
			idle := time.Duration(l.idleWindows) * l.window
			l.buckets.Range(func(k st, b *bucket) bo {
				b.mx.Lock()
				if time.Since(b.windowStart) >= idle {
					b.dead = true
					l.buckets.Delete(k)
					dropped++
				}
				b.mx.Unlock()
				return true
			})
			if dropped > 0 {
				log.D.F("rate limiter swept %d idle buckets", dropped)
			}
		}
	}
}
