package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

const testMerchant = "5GpyR3My81ghaFANnJuTbK1qNjnhq8yFr8jXVnow39Rn"

type fakeNetwork struct {
	mu          sync.Mutex
	balance     uint64
	balanceErr  error
	sendErr     error
	airdropErr  error
	hashCounter byte
	hashes      []solana.Hash
	sent        []*solana.Transaction
	airdrops    []uint64
	statusFn    func(sig solana.Signature) (*rpc.SignatureStatusesResult, error)
}

func newFakeNetwork(balance uint64) *fakeNetwork {
	return &fakeNetwork{balance: balance}
}

func (n *fakeNetwork) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.balanceErr != nil {
		return 0, n.balanceErr
	}
	return n.balance, nil
}

func (n *fakeNetwork) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hashCounter++
	var hash solana.Hash
	hash[0] = n.hashCounter
	hash[31] = 0xAB
	n.hashes = append(n.hashes, hash)
	return hash, nil
}

func (n *fakeNetwork) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return solana.Signature{}, n.sendErr
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, err
	}
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, errors.New("unsigned transaction")
	}
	n.sent = append(n.sent, tx)
	return tx.Signatures[0], nil
}

func (n *fakeNetwork) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	n.mu.Lock()
	fn := n.statusFn
	n.mu.Unlock()
	if fn != nil {
		return fn(sig)
	}
	return confirmedStatus(), nil
}

func (n *fakeNetwork) RequestAirdrop(ctx context.Context, owner solana.PublicKey, lamports uint64) (solana.Signature, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.airdropErr != nil {
		return solana.Signature{}, n.airdropErr
	}
	n.airdrops = append(n.airdrops, lamports)
	var sig solana.Signature
	sig[0] = byte(len(n.airdrops))
	return sig, nil
}

func (n *fakeNetwork) setStatus(fn func(sig solana.Signature) (*rpc.SignatureStatusesResult, error)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusFn = fn
}

func (n *fakeNetwork) sentTransactions() []*solana.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*solana.Transaction(nil), n.sent...)
}

func (n *fakeNetwork) blockhashes() []solana.Hash {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]solana.Hash(nil), n.hashes...)
}

func confirmedStatus() *rpc.SignatureStatusesResult {
	return &rpc.SignatureStatusesResult{Slot: 10, ConfirmationStatus: rpc.ConfirmationStatusConfirmed}
}

// fakeInjected is a browser-extension wallet. A non-nil gate makes Connect and
// SignTransaction wait until it is closed.
type fakeInjected struct {
	id         string
	key        solana.PrivateKey
	connectErr error
	signErr    error
	gate       chan struct{}
	signing    chan struct{}
	stall      chan struct{} // blocks SignTransaction regardless of ctx

	connectCalled atomic.Int32
	signCalled    atomic.Int32
}

func newFakeInjected(id string) *fakeInjected {
	return &fakeInjected{id: id, key: solana.NewWallet().PrivateKey}
}

func (w *fakeInjected) ID() string   { return w.id }
func (w *fakeInjected) Name() string { return "Fake " + w.id }

func (w *fakeInjected) Connect(ctx context.Context) (solana.PublicKey, error) {
	w.connectCalled.Add(1)
	if err := w.wait(ctx); err != nil {
		return solana.PublicKey{}, err
	}
	if w.connectErr != nil {
		return solana.PublicKey{}, w.connectErr
	}
	return w.key.PublicKey(), nil
}

func (w *fakeInjected) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	w.signCalled.Add(1)
	if w.signing != nil {
		w.signing <- struct{}{}
	}
	if w.stall != nil {
		<-w.stall
	}
	if err := w.wait(ctx); err != nil {
		return nil, err
	}
	if w.signErr != nil {
		return nil, w.signErr
	}
	_, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	return tx, err
}

func (w *fakeInjected) wait(ctx context.Context) error {
	if w.gate == nil {
		return nil
	}
	select {
	case <-w.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeInjector struct {
	mu      sync.Mutex
	wallets []InjectedWallet
}

func (i *fakeInjector) Probe() []InjectedWallet {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]InjectedWallet(nil), i.wallets...)
}

func (i *fakeInjector) set(wallets ...InjectedWallet) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.wallets = wallets
}

// fakeMobile plays both the adapter and the wallet app.
type fakeMobile struct {
	mu           sync.Mutex
	key          solana.PrivateKey
	network      *fakeNetwork
	authorizeErr error
	deauthErr    error
	nextToken    string
	identity     AppIdentity
	cluster      string
	reauthTokens []string
	deauthTokens []string
	signAndSend  int
}

func newFakeMobile(network *fakeNetwork) *fakeMobile {
	return &fakeMobile{key: solana.NewWallet().PrivateKey, network: network}
}

func (m *fakeMobile) Transact(ctx context.Context, fn func(ctx context.Context, wallet MobileWallet) error) error {
	return fn(ctx, m)
}

func (m *fakeMobile) Authorize(ctx context.Context, identity AppIdentity, cluster string) (*Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
	m.cluster = cluster
	if m.authorizeErr != nil {
		return nil, m.authorizeErr
	}
	return &Authorization{PublicKey: m.key.PublicKey(), AuthToken: "token-1", WalletURIBase: "https://wallet.example"}, nil
}

func (m *fakeMobile) Reauthorize(ctx context.Context, authToken string, identity AppIdentity) (*Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reauthTokens = append(m.reauthTokens, authToken)
	token := authToken
	if m.nextToken != "" {
		token = m.nextToken
	}
	return &Authorization{PublicKey: m.key.PublicKey(), AuthToken: token}, nil
}

func (m *fakeMobile) Deauthorize(ctx context.Context, authToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deauthTokens = append(m.deauthTokens, authToken)
	return m.deauthErr
}

func (m *fakeMobile) SignAndSendTransactions(ctx context.Context, txs []*solana.Transaction) ([]solana.Signature, error) {
	m.mu.Lock()
	m.signAndSend++
	m.mu.Unlock()

	sigs := make([]solana.Signature, 0, len(txs))
	for _, tx := range txs {
		if _, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
			if pub.Equals(m.key.PublicKey()) {
				return &m.key
			}
			return nil
		}); err != nil {
			return nil, err
		}
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, err
		}
		sig, err := m.network.SendRawTransaction(ctx, raw)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

type fakeQuotes struct {
	mu    sync.Mutex
	rate  float64
	err   error
	block chan struct{}
	calls int
}

func (q *fakeQuotes) GetSOLtoUSDrate(ctx context.Context) (float64, error) {
	q.mu.Lock()
	q.calls++
	rate, err, block := q.rate, q.err, q.block
	q.mu.Unlock()
	if block != nil {
		<-block
	}
	return rate, err
}

func (q *fakeQuotes) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

// failingStore fails writes to one key until healed.
type failingStore struct {
	storage.Store
	key    string
	healed atomic.Bool
}

func (s *failingStore) failing(key string) bool {
	return key == s.key && !s.healed.Load()
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failing(key) {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func (s *failingStore) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	if s.failing(key) {
		return errors.New("disk full")
	}
	return s.Store.Update(ctx, key, fn)
}

type testEnv struct {
	svc      *Service
	network  *fakeNetwork
	quotes   *fakeQuotes
	store    storage.Store
	injector *fakeInjector
	wallet   *fakeInjected
	mobile   *fakeMobile
}

type envOption func(*Options)

func withConfirm(timeout, interval time.Duration) envOption {
	return func(o *Options) {
		o.ConfirmTimeout = timeout
		o.ConfirmPollInterval = interval
	}
}

// newTestEnv builds a Service with one injected wallet, a mobile adapter and a rate of 100 USD.
func newTestEnv(t *testing.T, balance uint64, opts ...envOption) *testEnv {
	t.Helper()

	network := newFakeNetwork(balance)
	wallet := newFakeInjected("phantom")
	env := &testEnv{
		network:  network,
		quotes:   &fakeQuotes{rate: 100},
		store:    storage.NewMemoryStore(),
		injector: &fakeInjector{wallets: []InjectedWallet{wallet}},
		wallet:   wallet,
		mobile:   newFakeMobile(network),
	}

	o := Options{
		Network:             env.network,
		Quotes:              env.quotes,
		Store:               env.store,
		Injector:            env.injector,
		Mobile:              env.mobile,
		Merchant:            testMerchant,
		Cluster:             "devnet",
		Identity:            AppIdentity{Name: "DomainSwipe", URI: "https://domainswipe.app", Icon: "https://domainswipe.app/icon.png"},
		ConnectTimeout:      time.Second,
		SignTimeout:         time.Second,
		ConfirmTimeout:      2 * time.Second,
		ConfirmPollInterval: 2 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}

	svc, err := NewService(o)
	require.NoError(t, err)
	svc.oracle.Refresh(context.Background())
	env.svc = svc
	return env
}

// decodeTransfer returns the lamports and recipient of a single system transfer.
func decodeTransfer(t *testing.T, tx *solana.Transaction) (uint64, solana.PublicKey) {
	t.Helper()

	require.Len(t, tx.Message.Instructions, 1)
	inst := tx.Message.Instructions[0]
	require.Equal(t, solana.SystemProgramID, tx.Message.AccountKeys[inst.ProgramIDIndex])
	require.Len(t, inst.Accounts, 2)

	dec := bin.NewBinDecoder(inst.Data)
	typeID, err := dec.ReadUint32(binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint32(2), typeID, "expected system transfer")
	lamports, err := dec.ReadUint64(binary.LittleEndian)
	require.NoError(t, err)

	return lamports, tx.Message.AccountKeys[inst.Accounts[1]]
}

func domains(names ...string) []model.CartItem {
	items := make([]model.CartItem, 0, len(names))
	for _, n := range names {
		items = append(items, model.CartItem{ID: n, Name: n, PriceUSD: 12.99, Extension: ".com", Category: "tech"})
	}
	return items
}
