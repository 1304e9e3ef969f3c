package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"

	"github.com/julienschmidt/httprouter"
)

type PartyRequest struct {
	Party string `json:"party"`
}

type AddLiquidityRequest struct {
	Party   string    `json:"party"`
	Amount0 *num.Uint `json:"amount0"`
	Amount1 *num.Uint `json:"amount1"`
}

type RemoveLiquidityRequest struct {
	Party  string    `json:"party"`
	Shares *num.Uint `json:"shares"`
}

type SwapRequest struct {
	Party    string    `json:"party"`
	AssetIn  string    `json:"asset_in"`
	AmountIn *num.Uint `json:"amount_in"`
}

type FundRewardsRequest struct {
	Party    string            `json:"party"`
	Amount   *num.Uint         `json:"amount"`
	Duration encoding.Duration `json:"duration"`
}

type StakeRequest struct {
	Party  string    `json:"party"`
	Amount *num.Uint `json:"amount"`
}

type ApproveRequest struct {
	Party   string    `json:"party"`
	Asset   string    `json:"asset"`
	Spender string    `json:"spender"`
	Amount  *num.Uint `json:"amount"`
}

type TransferRequest struct {
	Party  string    `json:"party"`
	Asset  string    `json:"asset"`
	To     string    `json:"to"`
	Amount *num.Uint `json:"amount"`
}

type QuoteResponse struct {
	Asset  string    `json:"asset"`
	Amount *num.Uint `json:"amount"`
	Quote  *num.Uint `json:"quote"`
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return ErrInvalidRequest
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return nil
}

// queryAmount reads the asset and amount query parameters of a quote.
func queryAmount(r *http.Request) (string, *num.Uint, error) {
	q := r.URL.Query()
	asset := q.Get("asset")
	if len(asset) == 0 {
		return "", nil, ErrMissingAsset
	}
	raw := q.Get("amount")
	if len(raw) == 0 {
		return "", nil, ErrMissingAmount
	}
	amount, overflow := num.UintFromString(raw, 10)
	if overflow {
		return "", nil, fmt.Errorf("%w: invalid amount %q", ErrInvalidRequest, raw)
	}
	return asset, amount, nil
}

func (s *Server) answer(w http.ResponseWriter, rcpt *types.Receipt, err error) {
	if err != nil {
		writeOperationError(w, err, rcpt)
		return
	}
	writeSuccess(w, rcpt)
}

func (s *Server) GetPool(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.protocol.Pool())
}

func (s *Server) GetPoolShares(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	pos, err := s.protocol.PoolPosition(ps.ByName("party"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, pos)
}

func (s *Server) QuoteSwap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	asset, amount, err := queryAmount(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	out, err := s.protocol.QuoteSwap(asset, amount)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, QuoteResponse{Asset: asset, Amount: amount, Quote: out})
}

func (s *Server) QuoteDeposit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	asset, amount, err := queryAmount(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	out, err := s.protocol.QuoteDeposit(asset, amount)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, QuoteResponse{Asset: asset, Amount: amount, Quote: out})
}

func (s *Server) AddLiquidity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := AddLiquidityRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if req.Amount0 == nil || req.Amount1 == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.AddLiquidity(r.Context(), req.Party, req.Amount0, req.Amount1)
	s.answer(w, rcpt, err)
}

func (s *Server) RemoveLiquidity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := RemoveLiquidityRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if req.Shares == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.RemoveLiquidity(r.Context(), req.Party, req.Shares)
	s.answer(w, rcpt, err)
}

func (s *Server) RemoveAllLiquidity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PartyRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.RemoveAllLiquidity(r.Context(), req.Party)
	s.answer(w, rcpt, err)
}

func (s *Server) Swap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := SwapRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.AssetIn) == 0 {
		writeError(w, ErrMissingAsset, http.StatusBadRequest)
		return
	}
	if req.AmountIn == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.Swap(r.Context(), req.Party, req.AssetIn, req.AmountIn)
	s.answer(w, rcpt, err)
}

func (s *Server) GetRewards(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.protocol.Rewards())
}

func (s *Server) GetStaker(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	st, err := s.protocol.Staker(ps.ByName("party"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, st)
}

func (s *Server) FundRewards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := FundRewardsRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.FundRewards(r.Context(), req.Party, req.Amount, req.Duration.Get())
	s.answer(w, rcpt, err)
}

func (s *Server) Stake(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := StakeRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.Stake(r.Context(), req.Party, req.Amount)
	s.answer(w, rcpt, err)
}

func (s *Server) WithdrawStake(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PartyRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.WithdrawStake(r.Context(), req.Party)
	s.answer(w, rcpt, err)
}

func (s *Server) ClaimRewards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PartyRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.ClaimRewards(r.Context(), req.Party)
	s.answer(w, rcpt, err)
}

func (s *Server) GetFaucets(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.protocol.Faucets())
}

func (s *Server) GetFaucetAccount(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	acc, err := s.protocol.FaucetAccount(ps.ByName("asset"), ps.ByName("party"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, acc)
}

func (s *Server) FaucetWithdraw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := PartyRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.FaucetWithdraw(r.Context(), ps.ByName("asset"), req.Party)
	s.answer(w, rcpt, err)
}

func (s *Server) GetAssets(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, s.protocol.Assets())
}

func (s *Server) GetBalance(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	bal, err := s.protocol.Balance(ps.ByName("asset"), ps.ByName("party"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, bal)
}

func (s *Server) Approve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := ApproveRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Asset) == 0 {
		writeError(w, ErrMissingAsset, http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.Approve(r.Context(), req.Party, req.Asset, req.Spender, req.Amount)
	s.answer(w, rcpt, err)
}

func (s *Server) Transfer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := TransferRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Asset) == 0 {
		writeError(w, ErrMissingAsset, http.StatusBadRequest)
		return
	}
	if req.Amount == nil {
		writeError(w, ErrMissingAmount, http.StatusBadRequest)
		return
	}
	rcpt, err := s.protocol.Transfer(r.Context(), req.Party, req.Asset, req.To, req.Amount)
	s.answer(w, rcpt, err)
}

func (s *Server) GetHead(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	b, err := s.protocol.Head()
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeSuccess(w, b)
}

func (s *Server) GetBlock(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	height, err := strconv.ParseUint(ps.ByName("height"), 10, 64)
	if err != nil || height == 0 {
		writeError(w, ErrInvalidHeight, http.StatusBadRequest)
		return
	}
	b, err := s.protocol.Block(height)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeSuccess(w, b)
}
