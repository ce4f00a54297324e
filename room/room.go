package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mo-shahab/pong-duel/game"
	"github.com/mo-shahab/pong-duel/paddle"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound           = errors.New("room not found")
	ErrFull               = errors.New("room is full")
	ErrCodeSpaceExhausted = errors.New("no free room code")
)

// maxCodeAttempts bounds the retries when a freshly generated code is taken.
const maxCodeAttempts = 16

// Entry pairs a host with at most one guest under a shareable code.
type Entry struct {
	Code      string
	Host      string
	Guest     string
	Config    game.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Entry) Full() bool {
	return e.Guest != ""
}

// Participants returns the bound identities, host first.
func (e Entry) Participants() []string {
	if e.Guest == "" {
		return []string{e.Host}
	}
	return []string{e.Host, e.Guest}
}

// SideOf returns the paddle an identity plays in this room. The host always
// plays left.
func (e Entry) SideOf(identity string) (paddle.Side, bool) {
	switch identity {
	case e.Host:
		return paddle.Left, true
	case e.Guest:
		if e.Guest == "" {
			return 0, false
		}
		return paddle.Right, true
	default:
		return 0, false
	}
}

// Manager is the lobby. All create and join calls go through one mutex, so
// two joiners can never both see an empty guest slot.
type Manager struct {
	mu       sync.Mutex
	rooms    map[string]*Entry
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
	newCode  func() string
	onReady  func(Entry)
}

type Option func(*Manager)

func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithTTL sets how long an entry may sit idle before Sweep evicts it. Zero
// disables eviction.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithCodeGenerator(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newCode = gen
		}
	}
}

// WithReadyHook runs fn with the bound entry after a successful join, before
// either participant is told the match is ready.
func WithReadyHook(fn func(Entry)) Option {
	return func(m *Manager) {
		m.onReady = fn
	}
}

func NewRoomManager(opts ...Option) *Manager {
	m := &Manager{
		rooms:    make(map[string]*Entry),
		notifier: discardNotifier{},
		now:      time.Now,
		newCode:  generateRoomId,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateRoom registers a new entry hosted by host and tells the host the
// code to share.
func (m *Manager) CreateRoom(host string, cfg game.Config) (string, error) {
	m.mu.Lock()

	code := ""
	for i := 0; i < maxCodeAttempts; i++ {
		candidate := m.newCode()
		if _, taken := m.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		m.mu.Unlock()
		return "", fmt.Errorf("create room for %s: %w", host, ErrCodeSpaceExhausted)
	}

	now := m.now()
	m.rooms[code] = &Entry{
		Code:      code,
		Host:      host,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Unlock()

	log.Info().Str("room", code).Str("client", host).Msg("room created")
	m.notifier.Notify(host, Notice{Kind: GameCreated, Code: code})

	return code, nil
}

// JoinRoom binds guest to the entry and, on success, tells both participants
// the match is ready. A failure is reported to the guest only.
func (m *Manager) JoinRoom(code, guest string) (Entry, error) {
	m.mu.Lock()

	entry, exists := m.rooms[code]
	var err error
	switch {
	case !exists:
		err = ErrNotFound
	case entry.Full():
		err = ErrFull
	}
	if err != nil {
		m.mu.Unlock()
		log.Info().Str("room", code).Str("client", guest).Err(err).Msg("join rejected")
		m.notifier.Notify(guest, Notice{Kind: JoinFailed, Code: code, Message: err.Error()})
		return Entry{}, fmt.Errorf("join room %q: %w", code, err)
	}

	entry.Guest = guest
	entry.UpdatedAt = m.now()
	joined := *entry
	m.mu.Unlock()

	log.Info().Str("room", code).Str("client", guest).Msg("room full, match ready")
	if m.onReady != nil {
		m.onReady(joined)
	}
	m.notifier.Notify(joined.Host, Notice{Kind: GameJoined, Code: code, Side: paddle.Left})
	m.notifier.Notify(joined.Guest, Notice{Kind: GameJoined, Code: code, Side: paddle.Right})

	return joined, nil
}

// Disconnect records that identity went away. Entries stay in place and the
// peer is not told; idle entries are left for Sweep.
func (m *Manager) Disconnect(identity string) {
	m.mu.Lock()
	var codes []string
	for code, entry := range m.rooms {
		if entry.Host == identity || entry.Guest == identity {
			codes = append(codes, code)
		}
	}
	m.mu.Unlock()

	log.Info().Str("client", identity).Strs("rooms", codes).Msg("client disconnected")
}

func (m *Manager) GetRoom(code string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.rooms[code]
	if !exists {
		return Entry{}, false
	}
	return *entry, true
}

// Touch marks the entry as in use so Sweep keeps it. It reports whether the
// entry still exists.
func (m *Manager) Touch(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.rooms[code]
	if !exists {
		return false
	}
	entry.UpdatedAt = m.now()
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Sweep evicts entries idle for longer than the TTL and returns how many
// were removed. Entries with a running match stay fresh through Touch.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for code, entry := range m.rooms {
		if now.Sub(entry.UpdatedAt) > m.ttl {
			delete(m.rooms, code)
			removed++
			log.Debug().Str("room", code).Msg("room expired")
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				log.Info().Int("evicted", n).Int("remaining", m.Len()).Msg("swept idle rooms")
			}
		}
	}
}
