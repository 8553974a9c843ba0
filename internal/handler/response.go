package handler

import (
	"encoding/json"
	"net/http"

	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/solana"

	"go.uber.org/zap"
)

// statusByCode maps wallet error codes to HTTP statuses.
// A confirmation timeout is 202: the payment was submitted and may still land.
var statusByCode = map[solana.Code]int{
	solana.CodeWalletNotFound:      http.StatusNotFound,
	solana.CodeUserRejected:        http.StatusForbidden,
	solana.CodeConnectionTimeout:   http.StatusGatewayTimeout,
	solana.CodeConnectionFailed:    http.StatusBadGateway,
	solana.CodeAlreadyConnected:    http.StatusConflict,
	solana.CodeConnectInProgress:   http.StatusConflict,
	solana.CodeNoWalletConnected:   http.StatusUnauthorized,
	solana.CodeInsufficientBalance: http.StatusPaymentRequired,
	solana.CodeAnchorExpired:       http.StatusConflict,
	solana.CodeSubmissionFailed:    http.StatusBadGateway,
	solana.CodeConfirmationTimeout: http.StatusAccepted,
	solana.CodePaymentInProgress:   http.StatusConflict,
	solana.CodePersistenceError:    http.StatusInternalServerError,
	solana.CodeDuplicateSignature:  http.StatusConflict,
	solana.CodeAirdropUnavailable:  http.StatusBadRequest,
	solana.CodeInvalidAmount:       http.StatusBadRequest,
	solana.CodePendingNotFound:     http.StatusNotFound,
	solana.CodeNetworkError:        http.StatusBadGateway,
}

func (h *WalletHandler) writeError(w http.ResponseWriter, err error) {
	code := solana.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("code", string(code)), zap.Error(err))
	}

	writeJSON(w, status, model.ErrorResponse{
		Error:     err.Error(),
		Code:      string(code),
		Signature: solana.SignatureOf(err),
	})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
