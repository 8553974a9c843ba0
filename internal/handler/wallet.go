package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/solana"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// WalletService is the wallet and payment surface the handlers call.
// Implemented by solana.Service.
type WalletService interface {
	DiscoverWallets() []model.WalletDescriptor
	Connect(ctx context.Context, hint string) (*model.WalletSession, error)
	Disconnect(ctx context.Context) error
	Session() *model.WalletSession
	Balance(ctx context.Context) (*model.BalanceResponse, error)
	RequestAirdrop(ctx context.Context, amountSOL float64) (string, error)
	Pay(ctx context.Context, items []model.CartItem, fiatTotal float64) (*model.TransactionRecord, error)
	Reconcile(ctx context.Context, signature string) (*model.TransactionRecord, error)
	Pending(ctx context.Context) ([]model.PendingPayment, error)
	History(ctx context.Context) ([]model.TransactionRecord, error)
	PurchasedDomains(ctx context.Context) ([]model.CartItem, error)
	Summary(ctx context.Context) (model.LedgerSummary, error)
	Price() model.PriceQuote
	ConvertUSD(usd float64) float64
	ExplorerURL(signature string) string
	FormatAddress(address string, chars int) string
	MerchantAddress() string
}

// WalletHandler serves the wallet and payment API
type WalletHandler struct {
	svc      WalletService
	validate *validator.Validate
	log      *zap.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(svc WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		svc:      svc,
		validate: validator.New(),
		log:      logger.OrNop(log).Named("http"),
	}
}

// Discover handles GET /wallet/discover
// @Summary      Discover wallets
// @Description  Lists wallets available on this platform, or an install hint when none is installed
// @Tags         wallet
// @Produce      json
// @Success      200  {array}   model.WalletDescriptor
// @Router       /wallet/discover [get]
func (h *WalletHandler) Discover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DiscoverWallets())
}

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Description  Connects the wallet selected by hint ("auto", a transport or a wallet id)
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ConnectRequest  false  "Wallet hint"
// @Success      200      {object}  model.WalletSession
// @Failure      403      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      504      {object}  model.ErrorResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ConnectRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeBadRequest(w, err)
		return
	}

	session, err := h.svc.Connect(r.Context(), req.Hint)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Tags         wallet
// @Success      204
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	if err := h.svc.Disconnect(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /wallet/session
// @Summary      Active session
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletSession
// @Failure      401  {object}  model.ErrorResponse
// @Router       /wallet/session [get]
func (h *WalletHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	session := h.svc.Session()
	if session == nil {
		h.writeError(w, solana.ErrNoWalletConnected)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Live SOL balance of the connected wallet with its USD value
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      401  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Airdrop handles POST /wallet/airdrop
// @Summary      Request test SOL
// @Description  Requests a devnet/testnet airdrop (default 2 SOL) and waits for confirmation
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.AirdropRequest  false  "Amount in SOL"
// @Success      200      {object}  model.AirdropResponse
// @Router       /wallet/airdrop [post]
func (h *WalletHandler) Airdrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AirdropRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	sig, err := h.svc.RequestAirdrop(r.Context(), req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	amount := req.Amount
	if amount == 0 {
		amount = solana.DefaultAirdropSOL
	}
	writeJSON(w, http.StatusOK, model.AirdropResponse{Signature: sig, Amount: amount})
}

// Pay handles POST /pay
// @Summary      Pay for domains
// @Description  Charges the cart total in SOL to the connected wallet and waits for confirmation
// @Tags         pay
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Cart items and USD total"
// @Success      200      {object}  model.PayResponse
// @Success      202      {object}  model.ErrorResponse  "Submitted but not confirmed in time"
// @Failure      402      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /pay [post]
func (h *WalletHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	record, err := h.svc.Pay(r.Context(), req.Items, req.FiatTotal)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PayResponse{
		Transaction: *record,
		ExplorerURL: h.svc.ExplorerURL(record.Signature),
	})
}

// Reconcile handles POST /pay/reconcile
// @Summary      Reconcile pending payment
// @Description  Checks a payment that timed out waiting for confirmation
// @Tags         pay
// @Accept       json
// @Produce      json
// @Param        request  body      model.ReconcileRequest  true  "Signature"
// @Success      200      {object}  model.PayResponse
// @Success      202      {object}  model.ErrorResponse  "Still not confirmed"
// @Failure      404      {object}  model.ErrorResponse
// @Router       /pay/reconcile [post]
func (h *WalletHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ReconcileRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	record, err := h.svc.Reconcile(r.Context(), req.Signature)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PayResponse{
		Transaction: *record,
		ExplorerURL: h.svc.ExplorerURL(record.Signature),
	})
}

// Pending handles GET /pay/pending
// @Summary      Pending payments
// @Tags         pay
// @Produce      json
// @Success      200  {array}  model.PendingPayment
// @Router       /pay/pending [get]
func (h *WalletHandler) Pending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	pending, err := h.svc.Pending(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

// History handles GET /history
// @Summary      Purchase history
// @Description  Confirmed transactions, most recent first, with totals
// @Tags         history
// @Produce      json
// @Success      200  {object}  model.HistoryResponse
// @Router       /history [get]
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	records, err := h.svc.History(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.HistoryResponse{Summary: summary, Transactions: records})
}

// Domains handles GET /domains
// @Summary      Purchased domains
// @Description  Every domain in every confirmed transaction (a domain bought twice is listed twice)
// @Tags         history
// @Produce      json
// @Success      200  {array}  model.CartItem
// @Router       /domains [get]
func (h *WalletHandler) Domains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	domains, err := h.svc.PurchasedDomains(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

// Price handles GET /price
// @Summary      SOL price
// @Description  Cached SOL/USD rate; with usd set, also the SOL amount it converts to
// @Tags         price
// @Produce      json
// @Param        usd  query     number  false  "USD amount to convert"
// @Success      200  {object}  model.PriceResponse
// @Router       /price [get]
func (h *WalletHandler) Price(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	quote := h.svc.Price()
	resp := model.PriceResponse{
		Rate:      quote.NativeToFiat,
		FetchedAt: quote.FetchedAt,
		Live:      !quote.FetchedAt.IsZero(),
	}
	if usdStr := r.URL.Query().Get("usd"); usdStr != "" {
		usd, err := strconv.ParseFloat(usdStr, 64)
		if err != nil || usd < 0 {
			writeBadRequest(w, errors.New("invalid usd: must be a non-negative number"))
			return
		}
		resp.USD = usd
		resp.SOL = h.svc.ConvertUSD(usd)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Explorer handles GET /explorer/{signature}
// @Summary      Explorer link
// @Description  Explorer URL for a transaction; format=qr returns it as a PNG QR code
// @Tags         history
// @Produce      json
// @Produce      png
// @Param        signature  path      string  true   "Transaction signature"
// @Param        format     query     string  false  "qr for a PNG QR code"
// @Success      200        {object}  model.ExplorerResponse
// @Router       /explorer/{signature} [get]
func (h *WalletHandler) Explorer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	sig := r.PathValue("signature")
	if sig == "" {
		writeBadRequest(w, errors.New("signature is required"))
		return
	}
	url := h.svc.ExplorerURL(sig)

	if r.URL.Query().Get("format") == "qr" {
		png, err := solana.QRCodePNG(url)
		if err != nil {
			h.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
		return
	}
	writeJSON(w, http.StatusOK, model.ExplorerResponse{Signature: sig, URL: url})
}

// Merchant handles GET /merchant
// @Summary      Merchant address
// @Tags         pay
// @Produce      json
// @Success      200  {object}  model.MerchantResponse
// @Router       /merchant [get]
func (h *WalletHandler) Merchant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	addr := h.svc.MerchantAddress()
	writeJSON(w, http.StatusOK, model.MerchantResponse{Address: addr, Short: h.svc.FormatAddress(addr, 4)})
}

// decodeBody decodes a JSON body. With optional set an empty body is accepted.
func decodeBody(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
