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

package rewards_test

import (
	"context"
	"errors"
	"testing"
	"time"

	bmocks "code.swapex.io/swapex/core/broker/mocks"
	"code.swapex.io/swapex/core/collateral"
	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/rewards"
	"code.swapex.io/swapex/core/rewards/mocks"
	"code.swapex.io/swapex/core/timeservice"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cel   = "CEL"
	admin = "0x00000000000000000000000000000000000AD314"
	alice = "0x00000000000000000000000000000000000A11CE"
	bob   = "0x0000000000000000000000000000000000000B0B"
	carol = "0x00000000000000000000000000000000000CA201"
)

var t0 = time.Unix(1000, 0)

type testEngine struct {
	*rewards.Engine
	ctrl       *gomock.Controller
	collateral *collateral.Engine
	ts         *timeservice.Svc
	events     []events.Event
}

func getTestEngine(t *testing.T, cfg rewards.Config) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := bmocks.NewMockInterface(ctrl)
	ts := timeservice.New(nil)
	ts.SetTimeNow(context.Background(), t0)

	te := &testEngine{ctrl: ctrl, ts: ts}
	broker.EXPECT().Send(gomock.Any()).AnyTimes().Do(func(e events.Event) {
		te.events = append(te.events, e)
	})

	col := collateral.New(logging.NewTestLogger(), collateral.NewDefaultConfig(), ts, broker)
	ctx := context.Background()
	require.NoError(t, col.EnableAsset(ctx, types.Asset{ID: cel, Symbol: cel, Decimals: 18}))
	require.NoError(t, col.EnableAsset(ctx, types.Asset{ID: types.NativeAsset, Symbol: "ETH", Decimals: 18}))

	te.Engine = rewards.New(logging.NewTestLogger(), cfg, col, broker, ts)
	te.collateral = col
	return te
}

func (te *testEngine) advance(d time.Duration) {
	te.ts.SetTimeNow(context.Background(), te.ts.GetTimeNow().Add(d))
}

// provision sends amount of the reward asset to the engine account.
func (te *testEngine) provision(t *testing.T, amount *num.Uint) {
	t.Helper()
	_, err := te.collateral.Mint(context.Background(), cel, te.Account(), amount)
	require.NoError(t, err)
}

func (te *testEngine) stake(t *testing.T, party string, amount *num.Uint) {
	t.Helper()
	ctx := context.Background()
	_, err := te.collateral.Mint(ctx, types.NativeAsset, party, amount)
	require.NoError(t, err)
	require.NoError(t, te.Stake(ctx, party, amount))
}

func e18(n uint64) *num.Uint {
	return num.UintZero().Mul(num.NewUint(n), num.MustUintFromString("1000000000000000000", 10))
}

func TestFundRewards(t *testing.T) {
	eng := getTestEngine(t, rewards.NewDefaultConfig())
	ctx := context.Background()
	eng.provision(t, e18(1000))

	require.NoError(t, eng.FundRewards(ctx, admin, e18(1000), 10*time.Second))
	assert.Equal(t, 10*time.Second, eng.Duration())
	assert.Equal(t, e18(1000), eng.TotalRewardsToGive())
	assert.Equal(t, e18(100), eng.RewardRate())
	assert.Equal(t, t0.UTC(), eng.LastTimeRewardApplicable())
	assert.Equal(t, t0.Add(10*time.Second).UTC(), eng.PeriodFinish())

	st := eng.State()
	assert.Equal(t, t0.UTC(), st.LastUpdateTime)
	assert.Equal(t, int64(10), st.Duration)
	assert.Equal(t, e18(1000), st.Balance)

	require.Len(t, eng.events, 2)
	funded, ok := eng.events[1].(*events.RewardsFunded)
	require.True(t, ok)
	assert.Equal(t, int64(10), funded.Duration)
}

func TestFundRewardsValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient funds", func(t *testing.T) {
		eng := getTestEngine(t, rewards.NewDefaultConfig())
		eng.provision(t, e18(999))
		err := eng.FundRewards(ctx, admin, e18(1000), 10*time.Second)
		assert.ErrorIs(t, err, rewards.ErrInsufficientFunds)
		assert.True(t, eng.RewardRate().IsZero())
	})

	t.Run("zero amount or duration", func(t *testing.T) {
		eng := getTestEngine(t, rewards.NewDefaultConfig())
		eng.provision(t, e18(1000))
		assert.ErrorIs(t, eng.FundRewards(ctx, admin, num.UintZero(), 10*time.Second), rewards.ErrZeroAmount)
		assert.ErrorIs(t, eng.FundRewards(ctx, admin, e18(1000), 0), rewards.ErrInvalidDuration)
		assert.ErrorIs(t, eng.FundRewards(ctx, admin, e18(1000), 500*time.Millisecond), rewards.ErrInvalidDuration)
	})

	t.Run("restricted to admin", func(t *testing.T) {
		cfg := rewards.NewDefaultConfig()
		cfg.Admin = admin
		eng := getTestEngine(t, cfg)
		eng.provision(t, e18(1000))
		assert.ErrorIs(t, eng.FundRewards(ctx, alice, e18(1000), 10*time.Second), rewards.ErrUnauthorisedFunding)
		assert.NoError(t, eng.FundRewards(ctx, admin, e18(1000), 10*time.Second))
	})

	t.Run("active period", func(t *testing.T) {
		cfg := rewards.NewDefaultConfig()
		cfg.RejectFundingDuringActivePeriod = true
		eng := getTestEngine(t, cfg)
		eng.provision(t, e18(1000))
		require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(500), 10*time.Second))
		eng.advance(5 * time.Second)
		assert.ErrorIs(t, eng.FundRewards(ctx, admin, num.NewUint(500), 10*time.Second), rewards.ErrRewardPeriodActive)
		eng.advance(5 * time.Second)
		assert.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(500), 10*time.Second))
	})
}

func TestSingleStakerWholeWindow(t *testing.T) {
	eng := getTestEngine(t, rewards.NewDefaultConfig())
	ctx := context.Background()
	eng.provision(t, e18(1000))
	require.NoError(t, eng.FundRewards(ctx, admin, e18(1000), 10*time.Second))

	eng.stake(t, alice, e18(1))
	assert.Equal(t, e18(1), eng.StakedBalanceOf(alice))
	assert.True(t, eng.collateral.BalanceOf(types.NativeAsset, alice).IsZero())

	eng.advance(5 * time.Second)
	assert.Equal(t, e18(500), eng.Earned(alice))

	// nothing accrues after the end of the period
	eng.advance(20 * time.Second)
	assert.Equal(t, e18(1000), eng.Earned(alice))
	assert.Equal(t, e18(1000), eng.RewardPerShare())
	assert.Equal(t, eng.PeriodFinish(), eng.LastTimeRewardApplicable())

	released, err := eng.Withdraw(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, e18(1), released)
	assert.Equal(t, e18(1), eng.collateral.BalanceOf(types.NativeAsset, alice))

	paid, err := eng.GetRewards(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, e18(1000), paid)
	assert.Equal(t, e18(1000), eng.collateral.BalanceOf(cel, alice))

	_, err = eng.GetRewards(ctx, alice)
	assert.ErrorIs(t, err, rewards.ErrNoRewards)
}

func TestLateStakerGetsTheRemainingWindow(t *testing.T) {
	eng := getTestEngine(t, rewards.NewDefaultConfig())
	ctx := context.Background()
	eng.provision(t, num.NewUint(1000))
	require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(1000), 10*time.Second))

	eng.advance(4 * time.Second)
	eng.stake(t, alice, num.NewUint(1))
	eng.advance(6 * time.Second)

	// rate * (periodFinish - t1)
	assert.Equal(t, "600", eng.Earned(alice).String())
}

func TestConcurrentStakers(t *testing.T) {
	ctx := context.Background()

	t.Run("same interval", func(t *testing.T) {
		eng := getTestEngine(t, rewards.NewDefaultConfig())
		eng.provision(t, num.NewUint(2100))
		require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(2100), 10*time.Second))

		eng.stake(t, alice, num.NewUint(1))
		eng.stake(t, bob, num.NewUint(10))
		eng.stake(t, carol, num.NewUint(10))
		assert.Equal(t, "21", eng.TotalStaked().String())
		eng.advance(10 * time.Second)

		assert.Equal(t, "100", eng.Earned(alice).String())
		assert.Equal(t, "1000", eng.Earned(bob).String())
		assert.Equal(t, "1000", eng.Earned(carol).String())
	})

	t.Run("staggered", func(t *testing.T) {
		eng := getTestEngine(t, rewards.NewDefaultConfig())
		eng.provision(t, num.NewUint(2100))
		require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(2100), 10*time.Second))

		eng.stake(t, alice, num.NewUint(1))
		eng.advance(time.Second)
		eng.stake(t, bob, num.NewUint(10))
		eng.advance(time.Second)
		eng.stake(t, carol, num.NewUint(10))
		eng.advance(8 * time.Second)

		a, b, c := eng.Earned(alice), eng.Earned(bob), eng.Earned(carol)
		assert.Equal(t, "309", a.String())
		assert.Equal(t, "990", b.String())
		assert.Equal(t, "800", c.String())
		assert.True(t, b.GTE(c))
		assert.True(t, c.GT(a))

		// payouts never exceed what was funded
		total := num.Sum(a, b, c)
		assert.True(t, total.LTE(num.NewUint(2100)))
		for _, p := range []string{alice, bob, carol} {
			_, err := eng.GetRewards(ctx, p)
			require.NoError(t, err)
		}
		assert.Equal(t, num.UintZero().Sub(num.NewUint(2100), total), eng.collateral.BalanceOf(cel, eng.Account()))
	})
}

func TestWithdrawKeepsAccruedRewards(t *testing.T) {
	eng := getTestEngine(t, rewards.NewDefaultConfig())
	ctx := context.Background()
	eng.provision(t, num.NewUint(1000))
	require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(1000), 10*time.Second))

	eng.stake(t, alice, num.NewUint(5))
	eng.advance(5 * time.Second)
	_, err := eng.Withdraw(ctx, alice)
	require.NoError(t, err)
	assert.True(t, eng.TotalStaked().IsZero())

	eng.advance(5 * time.Second)
	assert.Equal(t, "500", eng.Earned(alice).String())

	st := eng.Staker(alice)
	assert.True(t, st.Staked.IsZero())
	assert.Equal(t, "500", st.Earned.String())

	_, err = eng.Withdraw(ctx, alice)
	assert.ErrorIs(t, err, rewards.ErrNothingStaked)
}

func TestStakeValidation(t *testing.T) {
	eng := getTestEngine(t, rewards.NewDefaultConfig())
	ctx := context.Background()

	// not funded yet
	assert.ErrorIs(t, eng.Stake(ctx, alice, num.NewUint(1)), rewards.ErrRewardPeriodEnded)

	eng.provision(t, num.NewUint(1000))
	require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(1000), 10*time.Second))

	assert.ErrorIs(t, eng.Stake(ctx, alice, num.UintZero()), rewards.ErrZeroStake)
	assert.ErrorIs(t, eng.Stake(ctx, alice, num.NewUint(1)), collateral.ErrInsufficientBalance)
	assert.True(t, eng.TotalStaked().IsZero())

	eng.stake(t, alice, num.NewUint(1))
	_, err := eng.collateral.Mint(ctx, types.NativeAsset, alice, num.NewUint(1))
	require.NoError(t, err)
	assert.ErrorIs(t, eng.Stake(ctx, alice, num.NewUint(1)), rewards.ErrAlreadyStaked)

	_, err = eng.Withdraw(ctx, bob)
	assert.ErrorIs(t, err, rewards.ErrNothingStaked)
	_, err = eng.GetRewards(ctx, bob)
	assert.ErrorIs(t, err, rewards.ErrNoRewards)

	eng.advance(10 * time.Second)
	assert.ErrorIs(t, eng.Stake(ctx, bob, num.NewUint(1)), rewards.ErrRewardPeriodEnded)
}

func TestFailedPayoutKeepsRewards(t *testing.T) {
	ctrl := gomock.NewController(t)
	col := mocks.NewMockCollateral(ctrl)
	broker := bmocks.NewMockInterface(ctrl)
	broker.EXPECT().Send(gomock.Any()).AnyTimes()
	ts := timeservice.New(nil)
	ts.SetTimeNow(context.Background(), t0)
	ctx := context.Background()

	eng := rewards.New(logging.NewTestLogger(), rewards.NewDefaultConfig(), col, broker, ts)
	col.EXPECT().BalanceOf(cel, eng.Account()).Return(num.NewUint(1000))
	require.NoError(t, eng.FundRewards(ctx, admin, num.NewUint(1000), 10*time.Second))

	col.EXPECT().Transfer(ctx, types.NativeAsset, alice, eng.Account(), num.NewUint(1)).Return(&types.LedgerMovement{}, nil)
	require.NoError(t, eng.Stake(ctx, alice, num.NewUint(1)))
	ts.SetTimeNow(ctx, t0.Add(10*time.Second))

	boom := errors.New("boom")
	col.EXPECT().Transfer(ctx, cel, eng.Account(), alice, num.NewUint(1000)).Return(nil, boom)
	_, err := eng.GetRewards(ctx, alice)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "1000", eng.Earned(alice).String())
}
