package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adarshalexbalmuchu/nextnode/internal/debounce"
	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// profileUpsertDelay coalesces the profile writes triggered by a burst of
// session changes (e.g. sign-in immediately followed by a token refresh)
// into a single upsert.
const profileUpsertDelay = 100 * time.Millisecond

// Auth is the session resolver: it owns the authoritative view of who is
// signed in and with what role, and notifies subscribers on every change.
type Auth struct {
	users    model.UserStore
	profiles model.ProfileStore
	sessions *SessionService
	logger   *logger.Logger

	mu      sync.RWMutex
	current *model.Session
	role    model.Role
	pending *model.Session
	loading bool

	loadedOnce sync.Once

	lmu       sync.Mutex
	listeners map[int]model.SessionListener
	nextID    int

	upsert *debounce.Debouncer
}

func NewAuth(
	users model.UserStore,
	profiles model.ProfileStore,
	sessions *SessionService,
	logger *logger.Logger,
) *Auth {
	a := &Auth{
		users:     users,
		profiles:  profiles,
		sessions:  sessions,
		logger:    logger,
		loading:   true,
		listeners: make(map[int]model.SessionListener),
	}
	// Built once for the life of the resolver; rebuilding the debouncer per
	// event would drop pending upserts.
	a.upsert = debounce.New(profileUpsertDelay, a.flushProfileUpsert)
	return a
}

// SignIn authenticates the user by email and password and establishes a
// session. The two failure modes (unknown email, wrong password) are
// deliberately indistinguishable to the caller.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	a.logger.Debug("Auth service: signing in", "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return model.Session{}, model.ErrInvalidCredentials
	}

	session, err := a.establishSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: signed in", "user_id", user.ID)
	a.notify(model.AuthEventSignedIn, &session)

	return session, nil
}

// SignUp registers a new identity and signs it in.
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || fullName == "" {
		return model.Session{}, fmt.Errorf("%w: email, password and full name are required", model.ErrValidation)
	}

	a.logger.Debug("Auth service: signing up", "email", email)

	existing, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: account already registered", "email", email)
		return model.Session{}, model.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateAccount) {
			return model.Session{}, model.ErrDuplicateAccount
		}
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.establishSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: signed up", "user_id", user.ID)
	a.notify(model.AuthEventSignedIn, &session)

	return session, nil
}

// SignOut clears the local session state. The remote revocation is
// best-effort: its failure is logged and never surfaced, so sign-out
// cannot block the caller.
func (a *Auth) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		if err := a.sessions.RevokeByToken(ctx, refreshToken); err != nil {
			a.logger.Warn("Auth service: remote sign-out failed", "error", err)
		}
	}

	a.logger.Info("Auth service: signed out")
	a.notify(model.AuthEventSignedOut, nil)
	return nil
}

// RefreshSession rotates the refresh token and re-establishes the session.
func (a *Auth) RefreshSession(ctx context.Context, refreshToken string) (model.Session, error) {
	access, refresh, expiresAt, err := a.sessions.Refresh(ctx, refreshToken)
	if err != nil {
		return model.Session{}, err
	}

	userID, err := a.sessions.GetUserID(ctx, access)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to resolve refreshed session user: %w", err)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	user.PasswordHash = nil

	session := model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user,
	}

	a.notify(model.AuthEventTokenRefreshed, &session)
	return session, nil
}

// Restore performs the startup existing-session check. It races the
// subscription path: either may clear the loading flag first, and both may
// clear it without harm.
func (a *Auth) Restore(ctx context.Context) {
	a.logger.Debug("Auth service: existing session check")
	a.markLoaded()
}

// Subscribe registers a listener for session changes and returns its
// unsubscribe function.
func (a *Auth) Subscribe(listener model.SessionListener) func() {
	a.lmu.Lock()
	defer a.lmu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = listener

	return func() {
		a.lmu.Lock()
		defer a.lmu.Unlock()
		delete(a.listeners, id)
	}
}

// Loading reports whether the first session resolution is still pending.
// Consumers must treat loading and signed-out as distinct states.
func (a *Auth) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// CurrentSession returns the active session, if any.
func (a *Auth) CurrentSession() (model.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return model.Session{}, false
	}
	return *a.current, true
}

// Role returns the last resolved role for the active session. It is a
// cache for display purposes only; privileged operations re-resolve via
// ResolveRole.
func (a *Auth) Role() model.Role {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.role
}

// ResolveRole fetches the authoritative role for the user. Lookup failures
// fail closed: the caller gets the unprivileged role, never an elevated one.
func (a *Auth) ResolveRole(ctx context.Context, userID uuid.UUID) model.Role {
	role, err := a.profiles.GetRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: role lookup failed", "user_id", userID, "error", err)
		}
		return model.RoleUser
	}
	return role
}

func (a *Auth) establishSession(ctx context.Context, user model.User) (model.Session, error) {
	access, refresh, expiresAt, err := a.sessions.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	user.PasswordHash = nil
	return model.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

// notify updates the resolver state synchronously and fans the event out.
// The role re-fetch and profile upsert run decoupled from this path so that
// they can never block a state transition.
func (a *Auth) notify(event model.AuthEvent, session *model.Session) {
	a.mu.Lock()
	a.current = session
	if session == nil {
		a.role = ""
		a.pending = nil
	} else {
		a.pending = session
	}
	a.mu.Unlock()

	a.markLoaded()

	if session != nil {
		go a.refreshRole(session.User.ID)
		a.upsert.Trigger()
	}

	a.lmu.Lock()
	listeners := make([]model.SessionListener, 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.lmu.Unlock()

	for _, l := range listeners {
		l(event, session)
	}
}

func (a *Auth) markLoaded() {
	a.loadedOnce.Do(func() {
		a.mu.Lock()
		a.loading = false
		a.mu.Unlock()
	})
}

func (a *Auth) refreshRole(userID uuid.UUID) {
	role := a.ResolveRole(context.Background(), userID)
	a.mu.Lock()
	// The session may have been cleared while the lookup ran.
	if a.current != nil && a.current.User.ID == userID {
		a.role = role
	}
	a.mu.Unlock()
}

// flushProfileUpsert runs on the debouncer as a detached background task;
// failures are logged and never propagate.
func (a *Auth) flushProfileUpsert() {
	a.mu.Lock()
	session := a.pending
	a.pending = nil
	a.mu.Unlock()

	if session == nil {
		return
	}

	profile := model.Profile{
		ID:        session.User.ID,
		Email:     session.User.Email,
		FullName:  session.User.FullName,
		UpdatedAt: time.Now(),
	}
	if err := a.profiles.Upsert(context.Background(), profile); err != nil {
		a.logger.Error("Auth service: profile upsert failed", "user_id", session.User.ID, "error", err)
	}
}
