package solana

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/DishankChauhan/Domain-Search/internal/crypto"

	"github.com/gagliardetto/solana-go"
)

const (
	localWalletID   = "local-keystore"
	localWalletName = "Local Keystore"
)

// PasswordFunc returns the keystore password. The caller zeroes the returned slice.
type PasswordFunc func() ([]byte, error)

// LocalWallet is an injected wallet backed by an encrypted .cwt keystore.
// It stands in for a browser extension when running the CLI or the local API.
type LocalWallet struct {
	filePath string
	password PasswordFunc
}

func NewLocalWallet(filePath string, password PasswordFunc) *LocalWallet {
	return &LocalWallet{filePath: filePath, password: password}
}

func (w *LocalWallet) ID() string   { return localWalletID }
func (w *LocalWallet) Name() string { return localWalletName }

// Connect proves the keystore opens with the configured password and returns its address.
func (w *LocalWallet) Connect(ctx context.Context) (solana.PublicKey, error) {
	key, err := w.unlock()
	if err != nil {
		return solana.PublicKey{}, err
	}
	defer clear(key)
	return key.PublicKey(), nil
}

// SignTransaction signs tx with the keystore key.
func (w *LocalWallet) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	key, err := w.unlock()
	if err != nil {
		return nil, err
	}
	defer clear(key)

	owner := key.PublicKey()
	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(owner) {
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

func (w *LocalWallet) unlock() (solana.PrivateKey, error) {
	address, err := crypto.ReadWalletAddress(w.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	password, err := w.password()
	if err != nil {
		return nil, err
	}
	defer clear(password)

	_, walletData, err := crypto.DecryptWallet(w.filePath, password)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidPassword) {
			return nil, wrap(ErrUserRejected, err)
		}
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}

	// We store the full 64-byte ed25519 key
	if len(walletData.PrivateKey) != 64 {
		clear(walletData.PrivateKey)
		return nil, errors.New("invalid private key length")
	}
	key := solana.PrivateKey(walletData.PrivateKey)

	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil || !key.PublicKey().Equals(owner) {
		clear(key)
		return nil, errors.New("private key does not match address")
	}
	return key, nil
}

// LocalInjector offers the local keystore wallet when its file exists.
type LocalInjector struct {
	Wallet *LocalWallet
}

func (i LocalInjector) Probe() []InjectedWallet {
	if i.Wallet == nil {
		return nil
	}
	if info, err := os.Stat(i.Wallet.filePath); err != nil || info.Size() == 0 {
		return nil
	}
	return []InjectedWallet{i.Wallet}
}
