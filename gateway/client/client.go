package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/libs/num"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultAddress is the address of a gateway started with the default
	// configuration.
	DefaultAddress = "http://127.0.0.1:3008"
	defaultRetries = 5
	defaultTimeout = 10 * time.Second
)

// APIError is returned when the gateway answers with a non 2xx status.
type APIError struct {
	StatusCode int
	Message    string
	// Receipt is set when the operation was recorded as rejected.
	Receipt *types.Receipt
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type Client struct {
	clt     *http.Client
	baseURL *url.URL
	retries uint64
}

type Option func(*Client)

// WithRetries sets how many times an idempotent request is retried.
func WithRetries(n uint64) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithHTTPClient replaces the default http client, which times out after
// ten seconds.
func WithHTTPClient(clt *http.Client) Option {
	return func(c *Client) {
		c.clt = clt
	}
}

func New(addr string, opts ...Option) (*Client, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if len(u.Scheme) == 0 || len(u.Host) == 0 {
		return nil, fmt.Errorf("invalid gateway address %q", addr)
	}
	c := &Client{
		clt:     &http.Client{Timeout: defaultTimeout},
		baseURL: u,
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(p string, query url.Values) string {
	u := *c.baseURL
	u.Path = path.Join(u.Path, "/api/v1", p)
	u.RawQuery = query.Encode()
	return u.String()
}

// get retries with an exponential back off until the gateway answers,
// errors reported by the gateway itself are not retried.
func (c *Client) get(ctx context.Context, p string, query url.Values, into interface{}) error {
	endpoint := c.endpoint(p, query)
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		err = c.do(req, into)
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	return backoff.Retry(op, b)
}

// post is sent once, an operation may have been recorded even when the
// answer is lost.
func (c *Client) post(ctx context.Context, p string, body interface{}) (*types.Receipt, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p, nil), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	rcpt := &types.Receipt{}
	if err := c.do(req, rcpt); err != nil {
		return nil, err
	}
	return rcpt, nil
}

func (c *Client) do(req *http.Request, into interface{}) error {
	res, err := c.clt.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode/100 != 2 {
		herr := gateway.HTTPError{}
		if err := json.Unmarshal(body, &herr); err != nil || len(herr.ErrorStr) == 0 {
			herr.ErrorStr = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: herr.ErrorStr, Receipt: herr.Receipt}
	}
	if into == nil {
		return nil
	}
	return json.Unmarshal(body, into)
}

func (c *Client) Pool(ctx context.Context) (*types.PoolInfo, error) {
	info := &types.PoolInfo{}
	return info, c.get(ctx, "/pool", nil, info)
}

func (c *Client) PoolShares(ctx context.Context, party string) (*types.LiquidityPosition, error) {
	pos := &types.LiquidityPosition{}
	return pos, c.get(ctx, path.Join("/pool/shares", party), nil, pos)
}

func (c *Client) QuoteSwap(ctx context.Context, assetIn string, amountIn *num.Uint) (*gateway.QuoteResponse, error) {
	q := &gateway.QuoteResponse{}
	return q, c.get(ctx, "/pool/quote/swap", amountQuery(assetIn, amountIn), q)
}

func (c *Client) QuoteDeposit(ctx context.Context, asset string, amount *num.Uint) (*gateway.QuoteResponse, error) {
	q := &gateway.QuoteResponse{}
	return q, c.get(ctx, "/pool/quote/deposit", amountQuery(asset, amount), q)
}

func amountQuery(asset string, amount *num.Uint) url.Values {
	return url.Values{
		"asset":  []string{asset},
		"amount": []string{amount.String()},
	}
}

func (c *Client) AddLiquidity(ctx context.Context, party string, amount0, amount1 *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/pool/liquidity", gateway.AddLiquidityRequest{Party: party, Amount0: amount0, Amount1: amount1})
}

func (c *Client) RemoveLiquidity(ctx context.Context, party string, shares *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/pool/liquidity/remove", gateway.RemoveLiquidityRequest{Party: party, Shares: shares})
}

func (c *Client) RemoveAllLiquidity(ctx context.Context, party string) (*types.Receipt, error) {
	return c.post(ctx, "/pool/liquidity/remove-all", gateway.PartyRequest{Party: party})
}

func (c *Client) Swap(ctx context.Context, party, assetIn string, amountIn *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/pool/swap", gateway.SwapRequest{Party: party, AssetIn: assetIn, AmountIn: amountIn})
}

func (c *Client) Rewards(ctx context.Context) (*types.RewardsState, error) {
	st := &types.RewardsState{}
	return st, c.get(ctx, "/rewards", nil, st)
}

func (c *Client) Staker(ctx context.Context, party string) (*types.StakerState, error) {
	st := &types.StakerState{}
	return st, c.get(ctx, path.Join("/rewards", party), nil, st)
}

func (c *Client) FundRewards(ctx context.Context, party string, amount *num.Uint, duration time.Duration) (*types.Receipt, error) {
	return c.post(ctx, "/rewards/fund", gateway.FundRewardsRequest{
		Party:    party,
		Amount:   amount,
		Duration: encoding.Duration{Duration: duration},
	})
}

func (c *Client) Stake(ctx context.Context, party string, amount *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/rewards/stake", gateway.StakeRequest{Party: party, Amount: amount})
}

func (c *Client) WithdrawStake(ctx context.Context, party string) (*types.Receipt, error) {
	return c.post(ctx, "/rewards/withdraw", gateway.PartyRequest{Party: party})
}

func (c *Client) ClaimRewards(ctx context.Context, party string) (*types.Receipt, error) {
	return c.post(ctx, "/rewards/claim", gateway.PartyRequest{Party: party})
}

func (c *Client) Faucets(ctx context.Context) ([]types.FaucetState, error) {
	out := []types.FaucetState{}
	if err := c.get(ctx, "/faucets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FaucetAccount(ctx context.Context, asset, party string) (*types.FaucetAccount, error) {
	acc := &types.FaucetAccount{}
	return acc, c.get(ctx, path.Join("/faucets", asset, party), nil, acc)
}

func (c *Client) FaucetWithdraw(ctx context.Context, asset, party string) (*types.Receipt, error) {
	return c.post(ctx, path.Join("/faucets", asset, "withdraw"), gateway.PartyRequest{Party: party})
}

func (c *Client) Assets(ctx context.Context) ([]types.Asset, error) {
	out := []types.Asset{}
	if err := c.get(ctx, "/assets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Balance(ctx context.Context, asset, party string) (*types.Balance, error) {
	bal := &types.Balance{}
	return bal, c.get(ctx, path.Join("/assets", asset, "balances", party), nil, bal)
}

func (c *Client) Approve(ctx context.Context, party, asset, spender string, amount *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/assets/approve", gateway.ApproveRequest{Party: party, Asset: asset, Spender: spender, Amount: amount})
}

func (c *Client) Transfer(ctx context.Context, party, asset, to string, amount *num.Uint) (*types.Receipt, error) {
	return c.post(ctx, "/assets/transfer", gateway.TransferRequest{Party: party, Asset: asset, To: to, Amount: amount})
}

func (c *Client) Head(ctx context.Context) (*journal.Block, error) {
	b := &journal.Block{}
	return b, c.get(ctx, "/ledger/head", nil, b)
}

func (c *Client) Block(ctx context.Context, height uint64) (*journal.Block, error) {
	b := &journal.Block{}
	return b, c.get(ctx, path.Join("/ledger/blocks", strconv.FormatUint(height, 10)), nil, b)
}
