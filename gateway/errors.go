package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"code.swapex.io/swapex/core/collateral"
	"code.swapex.io/swapex/core/faucet"
	"code.swapex.io/swapex/core/ledger"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/pool"
	"code.swapex.io/swapex/core/rewards"
	"code.swapex.io/swapex/core/types"
	libhttp "code.swapex.io/swapex/libs/http"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingAmount  = errors.New("missing amount")
	ErrMissingAsset   = errors.New("missing asset")
	ErrInvalidHeight  = errors.New("height must be a positive integer")
)

type HTTPError struct {
	ErrorStr string `json:"error"`
	// Receipt is set when the operation was recorded as rejected.
	Receipt *types.Receipt `json:"receipt,omitempty"`
}

func (e HTTPError) Error() string {
	return e.ErrorStr
}

var errorStatus = []struct {
	err    error
	status int
}{
	{types.ErrInvalidParty, http.StatusBadRequest},
	{ErrInvalidRequest, http.StatusBadRequest},
	{ErrMissingAmount, http.StatusBadRequest},
	{ErrMissingAsset, http.StatusBadRequest},
	{ErrInvalidHeight, http.StatusBadRequest},

	{types.ErrUnknownAsset, http.StatusNotFound},
	{pool.ErrInvalidAsset, http.StatusNotFound},
	{faucet.ErrUnknownFaucet, http.StatusNotFound},
	{collateral.ErrInvalidAssetID, http.StatusNotFound},
	{journal.ErrBlockNotFound, http.StatusNotFound},
	{journal.ErrEmptyJournal, http.StatusNotFound},

	{rewards.ErrUnauthorisedFunding, http.StatusForbidden},

	{pool.ErrPoolEmpty, http.StatusConflict},
	{pool.ErrInsufficientLiquidity, http.StatusConflict},
	{pool.ErrInsufficientShares, http.StatusConflict},
	{rewards.ErrRewardPeriodEnded, http.StatusConflict},
	{rewards.ErrRewardPeriodActive, http.StatusConflict},
	{rewards.ErrAlreadyStaked, http.StatusConflict},
	{rewards.ErrNothingStaked, http.StatusConflict},
	{rewards.ErrNoRewards, http.StatusConflict},
	{rewards.ErrInsufficientFunds, http.StatusConflict},
	{faucet.ErrInsufficientFunds, http.StatusConflict},
	{collateral.ErrInsufficientBalance, http.StatusConflict},
	{collateral.ErrInsufficientAllowance, http.StatusConflict},

	{faucet.ErrTooManyRequests, http.StatusTooManyRequests},
	{libhttp.ErrRateLimited, http.StatusTooManyRequests},

	{ledger.ErrLedgerClosed, http.StatusServiceUnavailable},
}

// statusFor returns the http status of a known error, 0 otherwise.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return 0
}

// writeOperationError answers a failed operation. Unknown errors of a
// rejected operation are the caller's fault, anything else is ours.
func writeOperationError(w http.ResponseWriter, err error, rcpt *types.Receipt) {
	status := statusFor(err)
	if status == 0 {
		status = http.StatusInternalServerError
		if rcpt != nil {
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, HTTPError{ErrorStr: err.Error(), Receipt: rcpt}, status)
}

func writeError(w http.ResponseWriter, err error, status int) {
	if s := statusFor(err); s != 0 {
		status = s
	}
	writeJSON(w, HTTPError{ErrorStr: err.Error()}, status)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, data, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
