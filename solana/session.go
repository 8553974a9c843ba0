package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	connectedWalletKey = "connected_wallet"

	mobileWalletID   = "mobile-wallet-adapter"
	mobileWalletName = "Solana Wallet"

	defaultConnectTimeout = 60 * time.Second
)

// installHint is offered when no injected wallet is present.
var installHint = model.WalletDescriptor{
	ID:        "phantom",
	Name:      "Phantom (Install Extension)",
	Transport: model.TransportBrowserExtension,
	Installed: false,
	URL:       "https://phantom.app/",
}

type sessionState int

const (
	stateDisconnected sessionState = iota
	stateConnecting
	stateConnected
)

// sessionDescriptor is the minimal session data kept in storage.
type sessionDescriptor struct {
	PublicKey     string          `json:"publicKey"`
	Transport     model.Transport `json:"transport"`
	WalletID      string          `json:"walletId,omitempty"`
	AuthToken     string          `json:"authToken,omitempty"`
	WalletURIBase string          `json:"walletUriBase,omitempty"`
}

// SessionOptions configures a SessionManager. Injector or Mobile may be nil when the
// platform has no such transport.
type SessionOptions struct {
	Injector       Injector
	Mobile         MobileAdapter
	Network        Network
	Store          storage.Store
	Identity       AppIdentity
	Cluster        string
	ConnectTimeout time.Duration
	Logger         *zap.Logger
	Metrics        metrics.Recorder
}

// SessionManager owns the single active wallet session.
type SessionManager struct {
	injector       Injector
	mobile         MobileAdapter
	network        Network
	store          storage.Store
	identity       AppIdentity
	cluster        string
	connectTimeout time.Duration
	log            *zap.Logger
	metrics        metrics.Recorder

	mu      sync.Mutex
	state   sessionState
	session *model.WalletSession
	signer  Signer
}

func NewSessionManager(opts SessionOptions) *SessionManager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	return &SessionManager{
		injector:       opts.Injector,
		mobile:         opts.Mobile,
		network:        opts.Network,
		store:          opts.Store,
		identity:       opts.Identity,
		cluster:        opts.Cluster,
		connectTimeout: opts.ConnectTimeout,
		log:            logger.OrNop(opts.Logger).Named("session"),
		metrics:        opts.Metrics,
	}
}

// DiscoverWallets lists the wallets reachable on this platform. It has no side effects.
func (m *SessionManager) DiscoverWallets() []model.WalletDescriptor {
	var out []model.WalletDescriptor

	if m.injector != nil {
		wallets := m.injector.Probe()
		for _, w := range wallets {
			out = append(out, model.WalletDescriptor{
				ID:        w.ID(),
				Name:      w.Name(),
				Transport: model.TransportBrowserExtension,
				Installed: true,
			})
		}
		if len(wallets) == 0 {
			out = append(out, installHint)
		}
	}

	if m.mobile != nil {
		out = append(out, model.WalletDescriptor{
			ID:        mobileWalletID,
			Name:      mobileWalletName,
			Transport: model.TransportMobileAdapter,
			Installed: true,
			Icon:      m.identity.Icon,
		})
	}
	return out
}

// Connect selects a wallet by hint and performs its authorization handshake.
// hint is "" or "auto", a transport name, or a wallet id from DiscoverWallets.
func (m *SessionManager) Connect(ctx context.Context, hint string) (*model.WalletSession, error) {
	m.mu.Lock()
	switch m.state {
	case stateConnecting:
		m.mu.Unlock()
		return nil, ErrConnectInProgress
	case stateConnected:
		m.mu.Unlock()
		return nil, ErrAlreadyConnected
	}
	m.state = stateConnecting
	m.mu.Unlock()

	start := time.Now()
	session, signer, err := m.connect(ctx, hint)
	if err == nil {
		if perr := m.persist(ctx, session); perr != nil {
			err = wrap(ErrPersistence, perr)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	labels := map[string]string{"cluster": m.cluster}
	if err != nil {
		m.state = stateDisconnected
		labels["outcome"] = string(CodeOf(err))
		m.metrics.IncCounter("wallet_connect", labels)
		m.log.Warn("wallet connect failed", zap.String("hint", hint), zap.Error(err))
		return nil, err
	}

	m.state = stateConnected
	m.session = session
	m.signer = signer

	labels["outcome"] = "connected"
	m.metrics.IncCounter("wallet_connect", labels)
	m.metrics.ObserveLatency("wallet_connect", time.Since(start), labels)
	m.log.Info("wallet connected",
		zap.String("wallet", session.WalletID),
		zap.String("transport", string(session.Transport)),
		zap.String("address", session.PublicKey),
	)

	out := *session
	return &out, nil
}

func (m *SessionManager) connect(ctx context.Context, hint string) (*model.WalletSession, Signer, error) {
	wallet, mobile, err := m.resolve(hint)
	if err != nil {
		return nil, nil, err
	}

	if mobile {
		auth, err := callWithTimeout(ctx, m.connectTimeout, func(ctx context.Context) (*Authorization, error) {
			var auth *Authorization
			err := m.mobile.Transact(ctx, func(ctx context.Context, w MobileWallet) error {
				a, err := w.Authorize(ctx, m.identity, m.cluster)
				auth = a
				return err
			})
			return auth, err
		})
		if err != nil {
			return nil, nil, connectError(err)
		}
		if auth == nil || auth.PublicKey == (solana.PublicKey{}) {
			return nil, nil, wrap(ErrConnectionFailed, errors.New("wallet returned no account"))
		}

		session := &model.WalletSession{
			PublicKey:     auth.PublicKey.String(),
			Transport:     model.TransportMobileAdapter,
			WalletID:      mobileWalletID,
			AuthToken:     auth.AuthToken,
			WalletURIBase: auth.WalletURIBase,
			Connected:     true,
		}
		return session, m.newSigner(session, nil), nil
	}

	owner, err := callWithTimeout(ctx, m.connectTimeout, wallet.Connect)
	if err != nil {
		return nil, nil, connectError(err)
	}
	if owner == (solana.PublicKey{}) {
		return nil, nil, wrap(ErrConnectionFailed, errors.New("wallet returned no account"))
	}

	session := &model.WalletSession{
		PublicKey: owner.String(),
		Transport: model.TransportBrowserExtension,
		WalletID:  wallet.ID(),
		Connected: true,
	}
	return session, m.newSigner(session, wallet), nil
}

// resolve picks the wallet a hint refers to. mobile is true when the mobile adapter was chosen.
func (m *SessionManager) resolve(hint string) (wallet InjectedWallet, mobile bool, err error) {
	hint = strings.ToLower(strings.TrimSpace(hint))

	var injected []InjectedWallet
	if m.injector != nil {
		injected = m.injector.Probe()
	}

	switch hint {
	case "", "auto":
		if len(injected) > 0 {
			return injected[0], false, nil
		}
		if m.mobile != nil {
			return nil, true, nil
		}
	case string(model.TransportBrowserExtension):
		if len(injected) > 0 {
			return injected[0], false, nil
		}
	case string(model.TransportMobileAdapter), mobileWalletID:
		if m.mobile != nil {
			return nil, true, nil
		}
	default:
		for _, w := range injected {
			if strings.EqualFold(w.ID(), hint) {
				return w, false, nil
			}
		}
	}
	return nil, false, ErrWalletNotFound
}

func connectError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(ErrConnectionTimeout, err)
	case CodeOf(err) != "":
		return err
	default:
		return wrap(ErrConnectionFailed, err)
	}
}

// newSigner builds the transport signer for session. wallet is nil for restored
// browser sessions, which look their wallet up again on first use.
func (m *SessionManager) newSigner(session *model.WalletSession, wallet InjectedWallet) Signer {
	if session.Transport == model.TransportMobileAdapter {
		return &mobileSigner{
			adapter:       m.mobile,
			identity:      m.identity,
			authToken:     session.AuthToken,
			onReauthorize: m.updateAuthorization,
		}
	}

	resolve := func() (InjectedWallet, error) {
		if m.injector != nil {
			for _, w := range m.injector.Probe() {
				if w.ID() == session.WalletID {
					return w, nil
				}
			}
		}
		return nil, ErrWalletNotFound
	}
	if wallet != nil {
		resolve = func() (InjectedWallet, error) { return wallet, nil }
	}
	return &browserSigner{resolve: resolve, network: m.network}
}

// RestoreSession brings back the persisted session after proving it live with a balance query.
// A descriptor that cannot be read or validated is deleted and nil is returned.
func (m *SessionManager) RestoreSession(ctx context.Context) (*model.WalletSession, error) {
	m.mu.Lock()
	switch m.state {
	case stateConnected:
		out := *m.session
		m.mu.Unlock()
		return &out, nil
	case stateConnecting:
		m.mu.Unlock()
		return nil, ErrConnectInProgress
	}
	m.state = stateConnecting
	m.mu.Unlock()

	session, signer, err := m.restore(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil || session == nil {
		m.state = stateDisconnected
		return nil, err
	}

	m.state = stateConnected
	m.session = session
	m.signer = signer
	m.log.Info("wallet session restored",
		zap.String("wallet", session.WalletID),
		zap.String("address", session.PublicKey),
	)

	out := *session
	return &out, nil
}

func (m *SessionManager) restore(ctx context.Context) (*model.WalletSession, Signer, error) {
	raw, err := m.store.Get(ctx, connectedWalletKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, wrap(ErrPersistence, err)
	}

	session, owner, err := decodeDescriptor(raw)
	if err == nil && session.Transport == model.TransportMobileAdapter && m.mobile == nil {
		err = errors.New("mobile wallet adapter not available")
	}
	if err != nil {
		m.log.Warn("discarding unusable wallet session", zap.Error(err))
		return nil, nil, m.forget(ctx)
	}

	if _, err := m.network.GetBalance(ctx, owner); err != nil {
		m.log.Warn("stored wallet session failed validation",
			zap.String("address", session.PublicKey),
			zap.Error(err),
		)
		return nil, nil, m.forget(ctx)
	}

	return session, m.newSigner(session, nil), nil
}

func decodeDescriptor(raw []byte) (*model.WalletSession, solana.PublicKey, error) {
	var d sessionDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	owner, err := solana.PublicKeyFromBase58(d.PublicKey)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("invalid session address: %w", err)
	}
	switch d.Transport {
	case model.TransportBrowserExtension, model.TransportMobileAdapter:
	default:
		return nil, solana.PublicKey{}, fmt.Errorf("unknown transport %q", d.Transport)
	}

	return &model.WalletSession{
		PublicKey:     owner.String(),
		Transport:     d.Transport,
		WalletID:      d.WalletID,
		AuthToken:     d.AuthToken,
		WalletURIBase: d.WalletURIBase,
		Connected:     true,
	}, owner, nil
}

// Disconnect clears the active session and its stored descriptor. It is idempotent.
// A mobile deauthorize failure is logged and does not fail the disconnect.
func (m *SessionManager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	if m.state == stateConnected {
		m.state = stateDisconnected
	}
	m.session = nil
	m.signer = nil
	m.mu.Unlock()

	if session != nil && session.Transport == model.TransportMobileAdapter && session.AuthToken != "" && m.mobile != nil {
		_, err := callWithTimeout(ctx, m.connectTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, m.mobile.Transact(ctx, func(ctx context.Context, w MobileWallet) error {
				return w.Deauthorize(ctx, session.AuthToken)
			})
		})
		if err != nil {
			m.log.Warn("wallet deauthorize failed", zap.Error(err))
		}
	}

	if err := m.forget(ctx); err != nil {
		return err
	}
	if session != nil {
		m.log.Info("wallet disconnected", zap.String("address", session.PublicKey))
	}
	return nil
}

// Session returns a copy of the active session, or nil.
func (m *SessionManager) Session() *model.WalletSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateConnected || m.session == nil {
		return nil
	}
	out := *m.session
	return &out
}

// active snapshots the session and signer for one payment attempt.
func (m *SessionManager) active() (model.WalletSession, Signer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != stateConnected || m.session == nil {
		return model.WalletSession{}, nil, ErrNoWalletConnected
	}
	return *m.session, m.signer, nil
}

// updateAuthorization stores a token refreshed by a mobile reauthorize.
func (m *SessionManager) updateAuthorization(auth *Authorization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.Transport != model.TransportMobileAdapter {
		return
	}
	if auth.PublicKey != (solana.PublicKey{}) && auth.PublicKey.String() != m.session.PublicKey {
		return
	}
	m.session.AuthToken = auth.AuthToken
	if auth.WalletURIBase != "" {
		m.session.WalletURIBase = auth.WalletURIBase
	}
	if err := m.persist(context.Background(), m.session); err != nil {
		m.log.Warn("failed to persist refreshed auth token", zap.Error(err))
	}
}

func (m *SessionManager) persist(ctx context.Context, session *model.WalletSession) error {
	raw, err := json.Marshal(sessionDescriptor{
		PublicKey:     session.PublicKey,
		Transport:     session.Transport,
		WalletID:      session.WalletID,
		AuthToken:     session.AuthToken,
		WalletURIBase: session.WalletURIBase,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return m.store.Set(ctx, connectedWalletKey, raw)
}

func (m *SessionManager) forget(ctx context.Context) error {
	if err := m.store.Delete(ctx, connectedWalletKey); err != nil {
		return wrap(ErrPersistence, err)
	}
	return nil
}
