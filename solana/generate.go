package solana

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/crypto"
	"github.com/DishankChauhan/Domain-Search/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
)

const (
	networkSolana = "solana"
	qrCodeSize    = 256
)

// IsFileExistsError checks if err reports an existing, non-empty keystore
func IsFileExistsError(err error) bool {
	return errors.Is(err, os.ErrExist)
}

// GenerateWallet generates a new Solana keypair and saves it to an encrypted .cwt keystore.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath, cluster string, password []byte, kdf crypto.KDFParams) (*model.KeystoreResponse, error) {
	wallet := solana.NewWallet()
	defer clear(wallet.PrivateKey)

	address := wallet.PublicKey().String()

	qr, err := QRCodePNG(address)
	if err != nil {
		return nil, err
	}

	walletData := &model.WalletData{
		PrivateKey: wallet.PrivateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, networkSolana, address, base64.StdEncoding.EncodeToString(qr), walletData, password, kdf); err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return &model.KeystoreResponse{
		Address:  address,
		FilePath: filePath,
		Cluster:  cluster,
	}, nil
}

// QRCodePNG renders content as a PNG QR code
func QRCodePNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}
