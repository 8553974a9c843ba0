package model

// Transport identifies how a wallet is reached.
type Transport string

const (
	TransportBrowserExtension Transport = "browser-extension"
	TransportMobileAdapter    Transport = "mobile-adapter"
)

// WalletSession is the single active wallet connection.
type WalletSession struct {
	PublicKey     string    `json:"publicKey"`
	Transport     Transport `json:"transport"`
	WalletID      string    `json:"walletId"`
	AuthToken     string    `json:"authToken,omitempty"`     // mobile adapter only
	WalletURIBase string    `json:"walletUriBase,omitempty"` // mobile adapter only
	Connected     bool      `json:"connected"`
}

// WalletDescriptor describes a wallet found by discovery.
type WalletDescriptor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Transport Transport `json:"transport"`
	Installed bool      `json:"installed"`
	URL       string    `json:"url,omitempty"`
	Icon      string    `json:"icon,omitempty"`
}

// ConnectRequest represents request for POST /wallet/connect
type ConnectRequest struct {
	Hint string `json:"hint"`
}
