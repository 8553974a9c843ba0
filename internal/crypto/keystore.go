package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DishankChauhan/Domain-Search/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	keystoreExt  = ".cwt"
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// KDFParams are the scrypt cost parameters recorded in every keystore.
type KDFParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

var (
	// DefaultKDF uses N=2^18 (~256MB RAM, 0.5-2s), which still fits mobile memory limits.
	DefaultKDF = KDFParams{N: 1 << 18, R: 8, P: 1}
	// FastKDF is only for tests and throwaway devnet keys.
	FastKDF = KDFParams{N: 1 << 10, R: 8, P: 1}
)

// ErrInvalidPassword is returned when the keystore cannot be opened with the given password.
var ErrInvalidPassword = errors.New("invalid password")

type keystoreFile struct {
	model.CWTFile
	KDF *KDFParams `json:"kdf,omitempty"`
}

// EncryptWallet encrypts wallet data and writes it to a new .cwt keystore.
// password must be []byte for security (caller should zero it after use)
func EncryptWallet(filePath, network, address, qrCode string, walletData *model.WalletData, password []byte, kdf KDFParams) error {
	if filepath.Ext(filePath) != keystoreExt {
		return errors.New("file must have .cwt extension")
	}

	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, kdf)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(walletData)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	file := keystoreFile{
		CWTFile: model.CWTFile{
			Network:    network,
			Address:    address,
			QR:         qrCode,
			Salt:       base64.StdEncoding.EncodeToString(salt),
			Nonce:      base64.StdEncoding.EncodeToString(nonce),
			CipherText: base64.StdEncoding.EncodeToString(ciphertext),
		},
		KDF: &kdf,
	}

	fileData, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cwt file: %w", err)
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DecryptWallet reads and decrypts a .cwt keystore.
// password must be []byte for security (caller should zero it after use)
func DecryptWallet(filePath string, password []byte) (*model.CWTFile, *model.WalletData, error) {
	file, err := readKeystore(filePath)
	if err != nil {
		return nil, nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	kdf := DefaultKDF
	if file.KDF != nil {
		kdf = *file.KDF
	}
	aesGCM, err := newGCM(password, salt, kdf)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var walletData model.WalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal wallet data: %w", err)
	}

	return &file.CWTFile, &walletData, nil
}

// ReadWalletAddress reads only the address from a .cwt keystore (without decryption)
func ReadWalletAddress(filePath string) (string, error) {
	file, err := readKeystore(filePath)
	if err != nil {
		return "", err
	}
	return file.Address, nil
}

func readKeystore(filePath string) (*keystoreFile, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileData) == 0 {
		return nil, errors.New("file is empty")
	}

	// Skip UTF-8 BOM written by older keystores
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var file keystoreFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cwt file: %w", err)
	}
	return &file, nil
}

func newGCM(password, salt []byte, kdf KDFParams) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, kdf.N, kdf.R, kdf.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
