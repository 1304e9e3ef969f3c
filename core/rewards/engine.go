// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package rewards

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
)

var (
	ErrZeroStake           = errors.New("cannot stake zero")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrInvalidDuration     = errors.New("reward duration must be at least one second")
	ErrRewardPeriodEnded   = errors.New("reward period has ended")
	ErrRewardPeriodActive  = errors.New("reward period is still active")
	ErrAlreadyStaked       = errors.New("party already has an active stake")
	ErrNothingStaked       = errors.New("party has nothing staked")
	ErrNoRewards           = errors.New("no rewards to claim")
	ErrInsufficientFunds   = errors.New("insufficient reward funds")
	ErrUnauthorisedFunding = errors.New("party is not allowed to fund rewards")
)

// AccountName is the name of the account holding the stakes and the rewards.
const AccountName = "rewards"

// the accumulator is scaled so small reward rates over large stakes do not
// truncate to zero.
var precision = num.UintZero().Exp(num.NewUint(10), num.NewUint(18))

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.swapex.io/swapex/core/rewards Collateral

// Collateral is the fungible asset primitive the engine moves funds with.
type Collateral interface {
	BalanceOf(asset, party string) *num.Uint
	Transfer(ctx context.Context, asset, from, to string, amount *num.Uint) (*types.LedgerMovement, error)
}

// Broker send events.
type Broker interface {
	Send(event events.Event)
}

// TimeService provide the time of the current block.
type TimeService interface {
	GetTimeNow() time.Time
}

type staker struct {
	staked  *num.Uint
	paid    *num.Uint
	accrued *num.Uint
}

// Engine distributes a funded amount of the reward asset to stakers, in
// proportion to their stake and the time it was held. The reward per unit of
// stake is accumulated lazily: every mutating call first brings the
// accumulator up to date, then settles the calling account.
type Engine struct {
	log *logging.Logger
	cfg Config

	broker      Broker
	collateral  Collateral
	timeService TimeService

	mu      sync.Mutex
	account string

	rewardRate     *num.Uint
	totalRewards   *num.Uint
	duration       time.Duration
	periodFinish   time.Time
	lastUpdateTime time.Time
	rewardPerShare *num.Uint
	totalStaked    *num.Uint
	stakers        map[string]*staker
}

// New creates an unfunded reward engine.
func New(log *logging.Logger, cfg Config, collateral Collateral, broker Broker, ts TimeService) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:            log,
		cfg:            cfg,
		broker:         broker,
		collateral:     collateral,
		timeService:    ts,
		account:        types.EngineAccount(AccountName),
		rewardRate:     num.UintZero(),
		totalRewards:   num.UintZero(),
		rewardPerShare: num.UintZero(),
		totalStaked:    num.UintZero(),
		stakers:        map[string]*staker{},
	}
}

// ReloadConf updates the internal configuration of the engine. The assets
// are fixed at creation.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Level = cfg.Level
	e.cfg.Admin = cfg.Admin
	e.cfg.RejectFundingDuringActivePeriod = cfg.RejectFundingDuringActivePeriod
}

// Account returns the id of the account holding stakes and rewards. Funds
// for FundRewards must be transferred to it beforehand.
func (e *Engine) Account() string {
	return e.account
}

func (e *Engine) RewardAsset() string {
	return e.cfg.RewardAsset
}

func (e *Engine) StakeAsset() string {
	return e.cfg.StakeAsset
}

// FundRewards starts a new reward period of the given duration distributing
// totalAmount, which the engine account must already hold.
func (e *Engine) FundRewards(ctx context.Context, party string, totalAmount *num.Uint, duration time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.cfg.Admin) > 0 && party != e.cfg.Admin {
		return ErrUnauthorisedFunding
	}
	if totalAmount == nil || totalAmount.IsZero() {
		return ErrZeroAmount
	}
	secs := int64(duration / time.Second)
	if secs <= 0 {
		return ErrInvalidDuration
	}
	now := e.timeService.GetTimeNow()
	if bool(e.cfg.RejectFundingDuringActivePeriod) && now.Before(e.periodFinish) {
		return ErrRewardPeriodActive
	}
	if balance := e.collateral.BalanceOf(e.cfg.RewardAsset, e.account); balance.LT(totalAmount) {
		return fmt.Errorf("%w: balance %s, required %s", ErrInsufficientFunds, balance, totalAmount)
	}

	// settle what the previous rate earned up to now
	e.checkpoint(now)

	e.rewardRate = num.UintZero().Div(totalAmount, num.NewUint(uint64(secs)))
	e.totalRewards = totalAmount.Clone()
	e.duration = time.Duration(secs) * time.Second
	e.lastUpdateTime = now
	e.periodFinish = now.Add(e.duration)

	e.log.Info("rewards funded",
		logging.Party(party),
		logging.BigUint("amount", totalAmount),
		logging.BigUint("rate", e.rewardRate),
		logging.Time("period-finish", e.periodFinish),
	)
	e.broker.Send(events.NewRewardsFunded(ctx, party, e.cfg.RewardAsset, totalAmount, e.rewardRate, secs, e.periodFinish.UnixNano(), now.UnixNano()))
	return nil
}

// Stake deposits amount of the stake asset from party. A party holds at most
// one stake at a time and can only stake while a reward period is running.
func (e *Engine) Stake(ctx context.Context, party string, amount *num.Uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == nil || amount.IsZero() {
		return ErrZeroStake
	}
	now := e.timeService.GetTimeNow()
	if !now.Before(e.periodFinish) {
		return ErrRewardPeriodEnded
	}
	if s, ok := e.stakers[party]; ok && !s.staked.IsZero() {
		return ErrAlreadyStaked
	}

	if _, err := e.collateral.Transfer(ctx, e.cfg.StakeAsset, party, e.account, amount); err != nil {
		e.log.Debug("could not stake",
			logging.Party(party),
			logging.Error(err),
		)
		return err
	}

	s := e.settle(party, now)
	s.staked = amount.Clone()
	e.totalStaked.Add(e.totalStaked, amount)

	e.log.Debug("stake deposited",
		logging.Party(party),
		logging.BigUint("amount", amount),
	)
	e.broker.Send(events.NewStakeDeposited(ctx, party, e.cfg.StakeAsset, amount, now.UnixNano()))
	return nil
}

// Withdraw releases the whole stake of party. Rewards accrued so far are kept
// until claimed.
func (e *Engine) Withdraw(ctx context.Context, party string) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stakers[party]
	if !ok || s.staked.IsZero() {
		return nil, ErrNothingStaked
	}
	amount := s.staked.Clone()
	now := e.timeService.GetTimeNow()

	if _, err := e.collateral.Transfer(ctx, e.cfg.StakeAsset, e.account, party, amount); err != nil {
		e.log.Error("could not release stake",
			logging.Party(party),
			logging.Error(err),
		)
		return nil, err
	}

	e.settle(party, now)
	s.staked = num.UintZero()
	e.totalStaked.Sub(e.totalStaked, amount)

	e.log.Debug("stake withdrawn",
		logging.Party(party),
		logging.BigUint("amount", amount),
	)
	e.broker.Send(events.NewStakeWithdrawn(ctx, party, e.cfg.StakeAsset, amount, now.UnixNano()))
	return amount, nil
}

// GetRewards pays out everything party earned so far.
func (e *Engine) GetRewards(ctx context.Context, party string) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.timeService.GetTimeNow()
	reward := e.earned(party, now)
	if reward.IsZero() {
		return nil, ErrNoRewards
	}

	if _, err := e.collateral.Transfer(ctx, e.cfg.RewardAsset, e.account, party, reward); err != nil {
		e.log.Error("could not pay rewards",
			logging.Party(party),
			logging.Error(err),
		)
		return nil, err
	}

	s := e.settle(party, now)
	s.accrued = num.UintZero()

	e.log.Debug("rewards paid",
		logging.Party(party),
		logging.BigUint("amount", reward),
	)
	e.broker.Send(events.NewRewardPaid(ctx, party, e.cfg.RewardAsset, reward, now.UnixNano()))
	return reward, nil
}

// checkpoint brings the accumulator up to min(now, periodFinish).
func (e *Engine) checkpoint(now time.Time) {
	applicable := e.lastTimeRewardApplicable(now)
	e.rewardPerShare = e.rewardPerShareAt(applicable)
	if applicable.After(e.lastUpdateTime) {
		e.lastUpdateTime = applicable
	}
}

// settle checkpoints the accumulator, then credits party with what its stake
// earned since it was last settled.
func (e *Engine) settle(party string, now time.Time) *staker {
	e.checkpoint(now)
	s, ok := e.stakers[party]
	if !ok {
		s = &staker{
			staked:  num.UintZero(),
			paid:    e.rewardPerShare.Clone(),
			accrued: num.UintZero(),
		}
		e.stakers[party] = s
		return s
	}
	s.accrued = accrue(s, e.rewardPerShare)
	s.paid = e.rewardPerShare.Clone()
	return s
}

func (e *Engine) lastTimeRewardApplicable(now time.Time) time.Time {
	if now.Before(e.periodFinish) {
		return now
	}
	return e.periodFinish
}

// rewardPerShareAt projects the accumulator to the given time without
// storing it.
func (e *Engine) rewardPerShareAt(t time.Time) *num.Uint {
	if e.totalStaked.IsZero() {
		return e.rewardPerShare.Clone()
	}
	elapsed := t.Unix() - e.lastUpdateTime.Unix()
	if elapsed <= 0 {
		return e.rewardPerShare.Clone()
	}
	accrued := num.UintZero().Mul(num.NewUint(uint64(elapsed)), e.rewardRate)
	inc, _ := num.UintZero().MulDiv(accrued, precision, e.totalStaked)
	return inc.Add(inc, e.rewardPerShare)
}

func (e *Engine) earned(party string, now time.Time) *num.Uint {
	s, ok := e.stakers[party]
	if !ok {
		return num.UintZero()
	}
	return accrue(s, e.rewardPerShareAt(e.lastTimeRewardApplicable(now)))
}

// accrue returns staked * (rewardPerShare - paid) / precision + accrued.
func accrue(s *staker, rewardPerShare *num.Uint) *num.Uint {
	delta := num.UintZero().Sub(rewardPerShare, s.paid)
	out, _ := num.UintZero().MulDiv(s.staked, delta, precision)
	return out.Add(out, s.accrued)
}
