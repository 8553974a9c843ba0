package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayInsufficientBalanceSkipsSigner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 50_000_000) // 0.05 SOL
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	record, err := env.svc.Pay(ctx, domains("swipe.com"), 12.99)
	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "need 0.129900000 SOL")

	assert.Zero(t, env.wallet.signCalled.Load())
	assert.Empty(t, env.network.blockhashes())
	assert.Empty(t, env.network.sentTransactions())

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPayConfirmedAppendsRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000) // 0.2 SOL
	session, err := env.svc.Connect(ctx, "")
	require.NoError(t, err)

	items := domains("swipe.com", "swipe.io")
	record, err := env.svc.Pay(ctx, items, 12.99)
	require.NoError(t, err)

	assert.Equal(t, int32(1), env.wallet.signCalled.Load())
	assert.InDelta(t, 0.1299, record.NativeAmount, 1e-12)
	assert.Equal(t, uint64(129_900_000), record.Lamports)
	assert.Equal(t, 12.99, record.FiatAmount)
	assert.Equal(t, session.PublicKey, record.From)
	assert.Equal(t, testMerchant, record.To)
	assert.Equal(t, model.TransactionStatusConfirmed, record.Status)
	assert.Equal(t, "phantom", record.WalletType)
	assert.Equal(t, items, record.Items)

	sent := env.network.sentTransactions()
	require.Len(t, sent, 1)
	lamports, to := decodeTransfer(t, sent[0])
	assert.Equal(t, record.Lamports, lamports)
	assert.Equal(t, testMerchant, to.String())
	assert.Equal(t, sent[0].Signatures[0].String(), record.Signature)
	assert.Equal(t, session.PublicKey, sent[0].Message.AccountKeys[0].String(), "payer must be the session key")
	require.NoError(t, sent[0].VerifySignatures())

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.Signature, history[0].Signature)
}

func TestPayUsesFreshBlockhashPerAttempt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 10*1_000_000_000)
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("a.com"), 5)
	require.NoError(t, err)
	_, err = env.svc.Pay(ctx, domains("b.com"), 5)
	require.NoError(t, err)

	hashes := env.network.blockhashes()
	require.Len(t, hashes, 2)
	sent := env.network.sentTransactions()
	require.Len(t, sent, 2)
	assert.Equal(t, hashes[0], sent[0].Message.RecentBlockhash)
	assert.Equal(t, hashes[1], sent[1].Message.RecentBlockhash)
	assert.NotEqual(t, sent[0].Message.RecentBlockhash, sent[1].Message.RecentBlockhash)
}

func TestPayConfirmationTimeoutLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000, withConfirm(40*time.Millisecond, 2*time.Millisecond))
	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		return nil, nil
	})
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	record, err := env.svc.Pay(ctx, domains("slow.com"), 12.99)
	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)

	sent := env.network.sentTransactions()
	require.Len(t, sent, 1, "no automatic retry")
	assert.Equal(t, sent[0].Signatures[0].String(), SignatureOf(err))

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	pending, err := env.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, SignatureOf(err), pending[0].Signature)
	assert.Equal(t, uint64(129_900_000), pending[0].Lamports)
}

func TestReconcilePendingPayment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000, withConfirm(20*time.Millisecond, 2*time.Millisecond))
	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusProcessed}, nil
	})
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("later.com"), 12.99)
	require.ErrorIs(t, err, ErrConfirmationTimeout)
	sig := SignatureOf(err)

	// Still processing: stays pending.
	_, err = env.svc.Reconcile(ctx, sig)
	assert.ErrorIs(t, err, ErrConfirmationTimeout)

	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusFinalized}, nil
	})
	record, err := env.svc.Reconcile(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, sig, record.Signature)
	assert.InDelta(t, 0.1299, record.NativeAmount, 1e-12)
	assert.Equal(t, "later.com", record.Items[0].Name)

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	pending, err := env.svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = env.svc.Reconcile(ctx, sig)
	assert.ErrorIs(t, err, ErrPendingNotFound)
}

func TestReconcileFailedPaymentIsDropped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000, withConfirm(20*time.Millisecond, 2*time.Millisecond))
	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) { return nil, nil })
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("x.com"), 1)
	sig := SignatureOf(err)
	require.NotEmpty(t, sig)

	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		return &rpc.SignatureStatusesResult{Err: map[string]any{"InstructionError": []any{0, "Custom"}}}, nil
	})
	_, err = env.svc.Reconcile(ctx, sig)
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	pending, err := env.svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPayOnChainFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)
	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		return &rpc.SignatureStatusesResult{
			ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
			Err:                map[string]any{"InsufficientFundsForRent": map[string]any{"account_index": 0}},
		}, nil
	})
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("fail.com"), 12.99)
	require.ErrorIs(t, err, ErrSubmissionFailed)
	assert.NotEmpty(t, SignatureOf(err))

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPaySubmissionErrors(t *testing.T) {
	cases := []struct {
		name    string
		sendErr error
		signErr error
		want    *Error
	}{
		{"expired blockhash", errors.New("failed to send transaction: Transaction simulation failed: Blockhash not found"), nil, ErrAnchorExpired},
		{"rpc rejected", fmt.Errorf("failed to send transaction: %w", &jsonrpc.RPCError{Code: -32005, Message: "Node is behind"}), nil, ErrSubmissionFailed},
		{"user rejected", nil, ErrUserRejected, ErrUserRejected},
		{"wallet error", nil, errors.New("wallet crashed"), ErrSubmissionFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, 200_000_000)
			env.network.sendErr = tc.sendErr
			env.wallet.signErr = tc.signErr
			_, err := env.svc.Connect(ctx, "phantom")
			require.NoError(t, err)

			_, err = env.svc.Pay(ctx, domains("a.com"), 12.99)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.want.Code, CodeOf(err))

			history, err := env.svc.History(ctx)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestPayUnansweredSendKeepsSignature(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)
	env.network.sendErr = fmt.Errorf("failed to send transaction: %w", context.DeadlineExceeded)
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("maybe.com"), 12.99)
	require.ErrorIs(t, err, ErrConfirmationTimeout)
	sig := SignatureOf(err)
	require.NotEmpty(t, sig, "the node may hold the transaction, the caller needs its id")
	_, parseErr := solana.SignatureFromBase58(sig)
	require.NoError(t, parseErr)

	pending, err := env.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sig, pending[0].Signature)
	assert.Equal(t, uint64(129_900_000), pending[0].Lamports)

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	// It landed after all.
	record, err := env.svc.Reconcile(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, "maybe.com", record.Items[0].Name)
	pending, err = env.svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPayLedgerFailureKeepsConfirmedPayment(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: storage.NewMemoryStore(), key: transactionHistoryKey}
	env := newTestEnv(t, 200_000_000, func(o *Options) { o.Store = store })
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	_, err = env.svc.Pay(ctx, domains("kept.com"), 12.99)
	require.ErrorIs(t, err, ErrPersistence)
	sig := SignatureOf(err)
	require.NotEmpty(t, sig)

	pending, err := env.svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sig, pending[0].Signature)

	store.healed.Store(true)
	record, err := env.svc.Reconcile(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, sig, record.Signature)
	assert.Equal(t, 12.99, record.FiatAmount)

	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sig, history[0].Signature)
	pending, err = env.svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPayStalledWalletReleasesSlot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000, func(o *Options) { o.SignTimeout = 50 * time.Millisecond })
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	stall := make(chan struct{})
	env.wallet.stall = stall

	start := time.Now()
	_, err = env.svc.Pay(ctx, domains("stuck.com"), 1)
	require.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Less(t, time.Since(start), time.Second)

	// The late signature must not be sent once the attempt has given up.
	close(stall)
	_, err = env.svc.Pay(ctx, domains("next.com"), 1)
	require.NoError(t, err)
	assert.Len(t, env.network.sentTransactions(), 1)
}

func TestPayRequiresWallet(t *testing.T) {
	env := newTestEnv(t, 200_000_000)
	_, err := env.svc.Pay(context.Background(), domains("a.com"), 12.99)
	assert.ErrorIs(t, err, ErrNoWalletConnected)
}

func TestPayRejectsInvalidTotal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	for _, total := range []float64{0, -5} {
		_, err := env.svc.Pay(ctx, domains("a.com"), total)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestPaySerializesAttempts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)
	env.wallet.gate = make(chan struct{})
	env.wallet.signing = make(chan struct{})

	// Connect waits on the gate too, so open it just for the handshake.
	close(env.wallet.gate)
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)
	env.wallet.gate = make(chan struct{})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = env.svc.Pay(ctx, domains("first.com"), 1)
	}()

	<-env.wallet.signing
	_, err = env.svc.Pay(ctx, domains("second.com"), 1)
	assert.ErrorIs(t, err, ErrPaymentInProgress)

	close(env.wallet.gate)
	wg.Wait()
	require.NoError(t, firstErr)

	// The slot is free again.
	env.wallet.signing = nil
	_, err = env.svc.Pay(ctx, domains("third.com"), 1)
	require.NoError(t, err)
}

func TestDisconnectDuringConfirmationKeepsWaiting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)

	release := make(chan struct{})
	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		select {
		case <-release:
			return confirmedStatus(), nil
		default:
			return nil, nil
		}
	})
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := env.svc.Pay(ctx, domains("keep.com"), 12.99)
		done <- err
	}()

	require.Eventually(t, func() bool { return len(env.network.sentTransactions()) == 1 }, time.Second, time.Millisecond)
	require.NoError(t, env.svc.Disconnect(ctx))
	assert.Nil(t, env.svc.Session())
	close(release)

	require.NoError(t, <-done)
	history, err := env.svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPayCallerCancelAfterSubmitStillConfirms(t *testing.T) {
	env := newTestEnv(t, 200_000_000)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := env.svc.Connect(ctx, "phantom")
	require.NoError(t, err)

	env.network.setStatus(func(solana.Signature) (*rpc.SignatureStatusesResult, error) {
		cancel()
		return confirmedStatus(), nil
	})

	record, err := env.svc.Pay(ctx, domains("a.com"), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, record.Signature)
}

func TestPayThroughMobileAdapter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 200_000_000)
	env.mobile.nextToken = "token-2"

	session, err := env.svc.Connect(ctx, "mobile-adapter")
	require.NoError(t, err)
	assert.Equal(t, "token-1", session.AuthToken)

	record, err := env.svc.Pay(ctx, domains("mobile.com"), 12.99)
	require.NoError(t, err)
	assert.Equal(t, mobileWalletID, record.WalletType)
	assert.Equal(t, env.mobile.key.PublicKey().String(), record.From)

	assert.Equal(t, []string{"token-1"}, env.mobile.reauthTokens)
	assert.Equal(t, 1, env.mobile.signAndSend)
	assert.Zero(t, env.wallet.signCalled.Load())

	// The refreshed token is used next time and survives a restart.
	assert.Equal(t, "token-2", env.svc.Session().AuthToken)
	raw, err := env.store.Get(ctx, connectedWalletKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"authToken":"token-2"`)

	_, err = env.svc.Pay(ctx, domains("mobile2.com"), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"token-1", "token-2"}, env.mobile.reauthTokens)
}
