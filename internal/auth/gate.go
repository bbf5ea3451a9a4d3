package auth

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/notify"
	"github.com/adsarees/storefront/pkg/metrics"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLocked             = errors.New("too many failed attempts, username locked")
)

type attemptState struct {
	failures int
	locked   bool
	lockedAt time.Time
}

// Gate checks the static admin credentials and counts consecutive failures
// per username in memory. Once failures exceed MaxAttempts the username is
// locked until restart, or until LockoutMinutes pass when configured.
type Gate struct {
	username    string
	password    string
	maxAttempts int
	lockout     time.Duration
	bus         EventBus.Bus

	mu       sync.Mutex
	attempts map[string]*attemptState
	now      func() time.Time
}

func NewGate(cfg config.AdminConfig, bus EventBus.Bus) *Gate {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Gate{
		username:    cfg.Username,
		password:    cfg.Password,
		maxAttempts: maxAttempts,
		lockout:     time.Duration(cfg.LockoutMinutes) * time.Minute,
		bus:         bus,
		attempts:    make(map[string]*attemptState),
		now:         time.Now,
	}
}

func (g *Gate) matches(username, password string) bool {
	if g.password == "" {
		return false
	}
	userOk := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	var passOk bool
	if strings.HasPrefix(g.password, "$2") {
		passOk = bcrypt.CompareHashAndPassword([]byte(g.password), []byte(password)) == nil
	} else {
		passOk = subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	}
	return userOk && passOk
}

// state returns the attempt record of username or nil, a timed lock that has
// run out drops the record
func (g *Gate) state(username string) *attemptState {
	st, ok := g.attempts[username]
	if !ok {
		return nil
	}
	if st.locked && g.lockout > 0 && g.now().Sub(st.lockedAt) >= g.lockout {
		delete(g.attempts, username)
		return nil
	}
	return st
}

// Login returns nil on success, ErrLocked when the username is locked (the
// attempt that locks it included) and ErrInvalidCredentials otherwise
func (g *Gate) Login(username, password, remoteIP string) error {
	g.mu.Lock()
	st := g.state(username)
	if st != nil && st.locked {
		g.mu.Unlock()
		return ErrLocked
	}
	if g.matches(username, password) {
		delete(g.attempts, username)
		g.mu.Unlock()
		return nil
	}
	if st == nil {
		st = &attemptState{}
		g.attempts[username] = st
	}
	st.failures++
	failures := st.failures
	lockedNow := failures > g.maxAttempts
	if lockedNow {
		st.locked = true
		st.lockedAt = g.now()
	}
	g.mu.Unlock()

	metrics.LoginFailures.Inc()
	zap.L().Warn("auth: login failed",
		zap.String("username", username),
		zap.String("ip", remoteIP),
		zap.Int("failures", failures))
	if !lockedNow {
		return ErrInvalidCredentials
	}
	metrics.AdminLockouts.Inc()
	zap.L().Warn("auth: username locked", zap.String("username", username))
	if g.bus != nil {
		g.bus.Publish(notify.TopicAdminLocked, notify.LockEvent{
			Username: username,
			Attempts: g.maxAttempts,
			RemoteIP: remoteIP,
		})
	}
	return ErrLocked
}

// Failures returns the consecutive failure count of username
func (g *Gate) Failures(username string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st := g.state(username); st != nil {
		return st.failures
	}
	return 0
}

func (g *Gate) IsLocked(username string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.state(username)
	return st != nil && st.locked
}

// Tracked reports how many usernames currently have failures recorded
func (g *Gate) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.attempts)
}

// Unlock clears the lock and the failure count of username
func (g *Gate) Unlock(username string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.attempts, username)
}
