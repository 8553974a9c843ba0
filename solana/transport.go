package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/client"

	"github.com/gagliardetto/solana-go"
)

// AppIdentity is presented to mobile wallets during authorization.
type AppIdentity struct {
	Name string
	URI  string
	Icon string
}

// Authorization is what a mobile wallet grants the app.
type Authorization struct {
	PublicKey     solana.PublicKey
	AuthToken     string
	WalletURIBase string
}

// InjectedWallet is an in-process signer exposed by a browser extension (or a local keystore).
// Implementations return an error matching ErrUserRejected when the user declines.
type InjectedWallet interface {
	ID() string
	Name() string
	Connect(ctx context.Context) (solana.PublicKey, error)
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// Injector probes the environment for installed injected wallets.
type Injector interface {
	Probe() []InjectedWallet
}

// MobileWallet is the API of an out-of-process wallet app inside one transact session.
type MobileWallet interface {
	Authorize(ctx context.Context, identity AppIdentity, cluster string) (*Authorization, error)
	Reauthorize(ctx context.Context, authToken string, identity AppIdentity) (*Authorization, error)
	Deauthorize(ctx context.Context, authToken string) error
	SignAndSendTransactions(ctx context.Context, txs []*solana.Transaction) ([]solana.Signature, error)
}

// MobileAdapter opens a session with the wallet app and runs fn inside it.
type MobileAdapter interface {
	Transact(ctx context.Context, fn func(ctx context.Context, wallet MobileWallet) error) error
}

// Signer signs a transaction and gets it submitted to the network.
// When submission fails after the transaction may have reached the network, the
// signature is returned together with an error carrying it.
type Signer interface {
	SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// browserSigner lets the injected wallet sign, then submits the raw bytes itself.
type browserSigner struct {
	resolve func() (InjectedWallet, error)
	network Network
}

func (s *browserSigner) SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	wallet, err := s.resolve()
	if err != nil {
		return solana.Signature{}, err
	}

	signed, err := wallet.SignTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, classifySubmitError(err)
	}
	if len(signed.Signatures) == 0 {
		return solana.Signature{}, wrap(ErrSubmissionFailed, errors.New("wallet returned an unsigned transaction"))
	}
	// The fee payer signature is the transaction id, fixed before anything is sent.
	local := signed.Signatures[0]
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, wrap(ErrSubmissionFailed, fmt.Errorf("signed too late: %w", err))
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return solana.Signature{}, wrap(ErrSubmissionFailed, fmt.Errorf("failed to serialize transaction: %w", err))
	}

	sig, err := s.network.SendRawTransaction(ctx, raw)
	if err != nil {
		if client.IsRPCRejection(err) {
			return solana.Signature{}, classifySubmitError(err)
		}
		return local, withSignature(ErrConfirmationTimeout, local.String(), err)
	}
	return sig, nil
}

// mobileSigner does reauthorize, sign and send in a single wallet round trip.
type mobileSigner struct {
	adapter  MobileAdapter
	identity AppIdentity

	mu        sync.Mutex
	authToken string

	onReauthorize func(*Authorization)
}

func (s *mobileSigner) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authToken
}

func (s *mobileSigner) SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	token := s.token()

	var sig solana.Signature
	err := s.adapter.Transact(ctx, func(ctx context.Context, wallet MobileWallet) error {
		auth, err := wallet.Reauthorize(ctx, token, s.identity)
		if err != nil {
			return err
		}
		if auth != nil && auth.AuthToken != "" && auth.AuthToken != token {
			s.mu.Lock()
			s.authToken = auth.AuthToken
			s.mu.Unlock()
			if s.onReauthorize != nil {
				s.onReauthorize(auth)
			}
		}

		sigs, err := wallet.SignAndSendTransactions(ctx, []*solana.Transaction{tx})
		if err != nil {
			return err
		}
		if len(sigs) == 0 {
			return errors.New("wallet returned no signature")
		}
		sig = sigs[0]
		return nil
	})
	if err != nil {
		return solana.Signature{}, classifySubmitError(err)
	}
	return sig, nil
}

// classifySubmitError keeps coded errors and maps the rest onto AnchorExpired or SubmissionFailed.
func classifySubmitError(err error) error {
	if CodeOf(err) != "" {
		return err
	}
	if client.IsBlockhashNotFoundError(err) {
		return wrap(ErrAnchorExpired, err)
	}
	return wrap(ErrSubmissionFailed, err)
}

// callWithTimeout runs fn under timeout and returns when either fn or the deadline finishes first.
// fn keeps running in the background if it ignores ctx.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
