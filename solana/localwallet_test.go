package solana

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DishankChauhan/Domain-Search/internal/crypto"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func password(p string) PasswordFunc {
	return func() ([]byte, error) { return []byte(p), nil }
}

func TestGenerateWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")

	resp, err := GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	require.NoError(t, err)
	assert.Equal(t, path, resp.FilePath)
	assert.Equal(t, "devnet", resp.Cluster)
	_, err = solana.PublicKeyFromBase58(resp.Address)
	require.NoError(t, err)

	addr, err := crypto.ReadWalletAddress(path)
	require.NoError(t, err)
	assert.Equal(t, resp.Address, addr)

	_, err = GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	assert.True(t, IsFileExistsError(err))
}

func TestLocalWalletConnectAndSign(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	resp, err := GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	require.NoError(t, err)

	wallet := NewLocalWallet(path, password("secret"))
	owner, err := wallet.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.Address, owner.String())

	var hash solana.Hash
	hash[0] = 1
	tx, err := buildTransfer(owner, solana.MustPublicKeyFromBase58(testMerchant), 1000, hash)
	require.NoError(t, err)

	signed, err := wallet.SignTransaction(ctx, tx)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)
	require.NoError(t, signed.VerifySignatures())
}

func TestLocalWalletWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	_, err := GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	require.NoError(t, err)

	_, err = NewLocalWallet(path, password("nope")).Connect(context.Background())
	assert.ErrorIs(t, err, ErrUserRejected)

	noPassword := NewLocalWallet(path, func() ([]byte, error) { return nil, errors.New("password not set") })
	_, err = noPassword.Connect(context.Background())
	assert.Error(t, err)
}

func TestLocalInjectorProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	injector := LocalInjector{Wallet: NewLocalWallet(path, password("secret"))}
	assert.Empty(t, injector.Probe())
	assert.Empty(t, LocalInjector{}.Probe())

	_, err := GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	require.NoError(t, err)
	found := injector.Probe()
	require.Len(t, found, 1)
	assert.Equal(t, localWalletID, found[0].ID())
}

func TestLocalWalletPaysEndToEnd(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	_, err := GenerateWallet(path, "devnet", []byte("secret"), crypto.FastKDF)
	require.NoError(t, err)

	env := newTestEnv(t, 1_000_000_000, func(o *Options) {
		o.Injector = LocalInjector{Wallet: NewLocalWallet(path, password("secret"))}
		o.Mobile = nil
	})

	found := env.svc.DiscoverWallets()
	require.Len(t, found, 1)
	assert.Equal(t, localWalletName, found[0].Name)

	_, err = env.svc.Connect(ctx, "")
	require.NoError(t, err)
	record, err := env.svc.Pay(ctx, domains("local.dev"), 12.99)
	require.NoError(t, err)
	assert.Equal(t, localWalletID, record.WalletType)
}
