package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.swapex.io/swapex/core/broker"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/types"
	libhttp "code.swapex.io/swapex/libs/http"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"

	"github.com/julienschmidt/httprouter"
)

const apiPrefix = "/api/v1"

// Protocol is the set of operations and views the REST API exposes.
type Protocol interface {
	Pool() types.PoolInfo
	PoolPosition(party string) (types.LiquidityPosition, error)
	QuoteSwap(assetIn string, amountIn *num.Uint) (*num.Uint, error)
	QuoteDeposit(asset string, amount *num.Uint) (*num.Uint, error)
	AddLiquidity(ctx context.Context, party string, amount0, amount1 *num.Uint) (*types.Receipt, error)
	RemoveLiquidity(ctx context.Context, party string, shares *num.Uint) (*types.Receipt, error)
	RemoveAllLiquidity(ctx context.Context, party string) (*types.Receipt, error)
	Swap(ctx context.Context, party, assetIn string, amountIn *num.Uint) (*types.Receipt, error)

	Rewards() types.RewardsState
	Staker(party string) (types.StakerState, error)
	FundRewards(ctx context.Context, party string, amount *num.Uint, duration time.Duration) (*types.Receipt, error)
	Stake(ctx context.Context, party string, amount *num.Uint) (*types.Receipt, error)
	WithdrawStake(ctx context.Context, party string) (*types.Receipt, error)
	ClaimRewards(ctx context.Context, party string) (*types.Receipt, error)

	Faucets() []types.FaucetState
	FaucetAccount(asset, party string) (types.FaucetAccount, error)
	FaucetWithdraw(ctx context.Context, asset, party string) (*types.Receipt, error)

	Assets() []types.Asset
	Balance(asset, party string) (types.Balance, error)
	Approve(ctx context.Context, party, asset, spender string, amount *num.Uint) (*types.Receipt, error)
	Transfer(ctx context.Context, party, asset, to string, amount *num.Uint) (*types.Receipt, error)

	Head() (*journal.Block, error)
	Block(height uint64) (*journal.Block, error)
}

// EventBus is where the event stream subscribes.
type EventBus interface {
	Subscribe(s broker.Subscriber) int
	Unsubscribe(k int)
}

type Server struct {
	*httprouter.Router

	log       *logging.Logger
	cfg       Config
	protocol  Protocol
	bus       EventBus
	rateLimit *libhttp.RateLimit

	ctx context.Context
	mu  sync.Mutex
	srv *http.Server
}

func New(ctx context.Context, log *logging.Logger, cfg Config, protocol Protocol, bus EventBus) (*Server, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	rl, err := libhttp.NewRateLimit(ctx, cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", err)
	}

	s := &Server{
		Router:    httprouter.New(),
		log:       log,
		cfg:       cfg,
		protocol:  protocol,
		bus:       bus,
		rateLimit: rl,
		ctx:       ctx,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.GET(apiPrefix+"/pool", s.GetPool)
	s.GET(apiPrefix+"/pool/shares/:party", s.GetPoolShares)
	s.GET(apiPrefix+"/pool/quote/swap", s.QuoteSwap)
	s.GET(apiPrefix+"/pool/quote/deposit", s.QuoteDeposit)
	s.POST(apiPrefix+"/pool/liquidity", s.rateLimited("add-liquidity", s.AddLiquidity))
	s.POST(apiPrefix+"/pool/liquidity/remove", s.rateLimited("remove-liquidity", s.RemoveLiquidity))
	s.POST(apiPrefix+"/pool/liquidity/remove-all", s.rateLimited("remove-liquidity", s.RemoveAllLiquidity))
	s.POST(apiPrefix+"/pool/swap", s.rateLimited("swap", s.Swap))

	s.GET(apiPrefix+"/rewards", s.GetRewards)
	s.GET(apiPrefix+"/rewards/:party", s.GetStaker)
	s.POST(apiPrefix+"/rewards/fund", s.rateLimited("fund-rewards", s.FundRewards))
	s.POST(apiPrefix+"/rewards/stake", s.rateLimited("stake", s.Stake))
	s.POST(apiPrefix+"/rewards/withdraw", s.rateLimited("withdraw-stake", s.WithdrawStake))
	s.POST(apiPrefix+"/rewards/claim", s.rateLimited("claim-rewards", s.ClaimRewards))

	s.GET(apiPrefix+"/faucets", s.GetFaucets)
	s.GET(apiPrefix+"/faucets/:asset/:party", s.GetFaucetAccount)
	s.POST(apiPrefix+"/faucets/:asset/withdraw", s.rateLimited("faucet", s.FaucetWithdraw))

	s.GET(apiPrefix+"/assets", s.GetAssets)
	s.GET(apiPrefix+"/assets/:asset/balances/:party", s.GetBalance)
	s.POST(apiPrefix+"/assets/approve", s.rateLimited("approve", s.Approve))
	s.POST(apiPrefix+"/assets/transfer", s.rateLimited("transfer", s.Transfer))

	s.GET(apiPrefix+"/ledger/head", s.GetHead)
	s.GET(apiPrefix+"/ledger/blocks/:height", s.GetBlock)

	s.GET(apiPrefix+"/events", s.StreamEvents)
}

// ServeMetrics exposes the prometheus instruments on path.
func (s *Server) ServeMetrics(path string) {
	s.Handler(http.MethodGet, path, metrics.Handler())
}

// HTTPHandler returns the router wrapped in the gateway middlewares.
func (s *Server) HTTPHandler() http.Handler {
	return libhttp.CORSHandler(s.cfg.CORS,
		RemoteAddrMiddleware(s.log, MetricCollectionMiddleware(s.Router)),
	)
}

func (s *Server) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	// the listener, cors and rate limits only change on restart
}

// Start blocks serving the API until Stop is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port),
		Handler:      s.HTTPHandler(),
		ReadTimeout:  s.cfg.Timeout.Get(),
		WriteTimeout: s.cfg.Timeout.Get(),
	}
	srv := s.srv
	s.mu.Unlock()

	s.log.Info("Starting REST API", logging.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return
	}
	s.log.Info("Stopping REST API")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("Failed to stop REST API cleanly", logging.Error(err))
	}
}
