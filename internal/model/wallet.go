package model

// CWTFile is the on-disk keystore of the local wallet.
// Address and QR stay readable; the key material lives in CipherText.
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted keystore contents
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // full 64-byte ed25519 key (base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}

// KeystoreResponse is printed by the generate command.
type KeystoreResponse struct {
	Address  string `json:"address"`
	FilePath string `json:"filePath"`
	Cluster  string `json:"cluster"`
}
