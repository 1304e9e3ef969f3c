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

package collateral

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/types"
	vgcrypto "code.swapex.io/swapex/libs/crypto"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
)

var (
	// ErrAssetAlreadyEnabled signals the given asset has already been enabled.
	ErrAssetAlreadyEnabled = errors.New("asset already enabled")
	// ErrInvalidAssetID signals that an asset id does not exist.
	ErrInvalidAssetID = errors.New("invalid asset ID")
	// ErrInsufficientBalance is returned when a party does not own the amount it tries to move.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance is returned when a spender moves more than the owner approved.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrInvalidParty is returned for an empty account identifier.
	ErrInvalidParty = errors.New("invalid party")
	// ErrSelfTransfer is returned when the sender and the receiver are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to self")
	// ErrTxInProgress is returned when starting a transaction while one is already open.
	ErrTxInProgress = errors.New("a transaction is already in progress")
	// ErrNoTxInProgress is returned when committing or rolling back without an open transaction.
	ErrNoTxInProgress = errors.New("no transaction in progress")
)

// Broker send events.
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// TimeService provide the time of the current block.
type TimeService interface {
	GetTimeNow() time.Time
}

type allowanceKey struct {
	owner   string
	spender string
}

// Engine is the in-memory fungible asset ledger. It owns every balance and
// allowance of every asset, and journals changes so a failed operation can
// be undone as a whole.
type Engine struct {
	Config
	log         *logging.Logger
	broker      Broker
	timeService TimeService

	mu         sync.RWMutex
	assets     map[string]types.Asset
	balances   map[string]map[string]*num.Uint
	allowances map[string]map[allowanceKey]*num.Uint
	supply     map[string]*num.Uint

	journal *journal
}

// New instantiates a new collateral engine.
func New(log *logging.Logger, conf Config, ts TimeService, broker Broker) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())
	return &Engine{
		Config:      conf,
		log:         log,
		broker:      broker,
		timeService: ts,
		assets:      map[string]types.Asset{},
		balances:    map[string]map[string]*num.Uint{},
		allowances:  map[string]map[allowanceKey]*num.Uint{},
		supply:      map[string]*num.Uint{},
	}
}

// ReloadConf updates the internal configuration of the collateral engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.Config = cfg
}

// EnableAsset adds a new asset in the collateral engine
// this enable the asset to be used by new markets or
// parties to deposit funds.
func (e *Engine) EnableAsset(ctx context.Context, asset types.Asset) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.assets[asset.ID]; ok {
		return ErrAssetAlreadyEnabled
	}
	e.assets[asset.ID] = asset
	e.balances[asset.ID] = map[string]*num.Uint{}
	e.allowances[asset.ID] = map[allowanceKey]*num.Uint{}
	e.supply[asset.ID] = num.UintZero()
	e.log.Info("new asset added successfully",
		logging.AssetID(asset.ID),
		logging.String("symbol", asset.Symbol),
	)
	return nil
}

// AssetExists no errors if the asset exists.
func (e *Engine) AssetExists(assetID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.assets[assetID]
	return ok
}

// GetAsset returns the asset details.
func (e *Engine) GetAsset(assetID string) (types.Asset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.assets[assetID]
	if !ok {
		return types.Asset{}, ErrInvalidAssetID
	}
	return a, nil
}

// Assets returns all enabled assets sorted by ID.
func (e *Engine) Assets() []types.Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Asset, 0, len(e.assets))
	for _, a := range e.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BalanceOf returns the balance of a party, zero for unknown parties and assets.
func (e *Engine) BalanceOf(asset, party string) *num.Uint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if b, ok := e.balances[asset][party]; ok {
		return b.Clone()
	}
	return num.UintZero()
}

// TotalSupply returns the amount of an asset minted so far.
func (e *Engine) TotalSupply(asset string) *num.Uint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if s, ok := e.supply[asset]; ok {
		return s.Clone()
	}
	return num.UintZero()
}

// Allowance returns how much spender may still move out of owner's balance.
func (e *Engine) Allowance(asset, owner, spender string) *num.Uint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if a, ok := e.allowances[asset][allowanceKey{owner: owner, spender: spender}]; ok {
		return a.Clone()
	}
	return num.UintZero()
}

// Mint credits new units of an asset to a party.
func (e *Engine) Mint(ctx context.Context, asset, party string, amount *num.Uint) (*types.LedgerMovement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAssetAndParty(asset, party); err != nil {
		return nil, err
	}

	bal := e.balance(asset, party)
	e.setBalance(asset, party, num.Sum(bal, amount))
	e.setSupply(asset, num.Sum(e.supply[asset], amount))

	lm := &types.LedgerMovement{
		Entries: []*types.LedgerEntry{{
			FromAccount:        types.SystemOwner,
			ToAccount:          party,
			Asset:              asset,
			Amount:             amount.Clone(),
			Type:               types.TransferTypeMint,
			Timestamp:          e.now(),
			FromAccountBalance: num.UintZero(),
			ToAccountBalance:   e.balance(asset, party),
		}},
	}
	e.broker.Send(events.NewLedgerMovements(ctx, []*types.LedgerMovement{lm}))
	return lm, nil
}

// Approve sets the amount spender may move out of owner's balance,
// replacing any previous allowance.
func (e *Engine) Approve(ctx context.Context, asset, owner, spender string, amount *num.Uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAssetAndParty(asset, owner); err != nil {
		return err
	}
	if len(spender) == 0 {
		return ErrInvalidParty
	}
	e.setAllowance(asset, allowanceKey{owner: owner, spender: spender}, amount.Clone())
	e.broker.Send(events.NewApproval(ctx, asset, owner, spender, amount))
	return nil
}

// Transfer moves funds owned by from. The caller is responsible for from
// having authorised the movement, i.e. from is the engine's own account, or
// the party submitting the operation.
func (e *Engine) Transfer(ctx context.Context, asset, from, to string, amount *num.Uint) (*types.LedgerMovement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transfer(ctx, types.TransferTypeTransfer, asset, from, to, amount)
}

// TransferFrom moves funds out of from's balance on behalf of spender,
// consuming the allowance from granted to spender.
func (e *Engine) TransferFrom(ctx context.Context, asset, spender, from, to string, amount *num.Uint) (*types.LedgerMovement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAssetAndParty(asset, from); err != nil {
		return nil, err
	}
	key := allowanceKey{owner: from, spender: spender}
	allowance, ok := e.allowances[asset][key]
	if !ok || allowance.LT(amount) {
		return nil, fmt.Errorf("%w: asset %s, owner %s, spender %s", ErrInsufficientAllowance, asset, from, spender)
	}
	// the balance check happens in transfer, only consume the allowance on success
	lm, err := e.transfer(ctx, types.TransferTypeTransferFrom, asset, from, to, amount)
	if err != nil {
		return nil, err
	}
	e.setAllowance(asset, key, num.UintZero().Sub(allowance, amount))
	return lm, nil
}

func (e *Engine) transfer(ctx context.Context, tt types.TransferType, asset, from, to string, amount *num.Uint) (*types.LedgerMovement, error) {
	if err := e.checkAssetAndParty(asset, from); err != nil {
		return nil, err
	}
	if len(to) == 0 {
		return nil, ErrInvalidParty
	}
	if from == to {
		return nil, ErrSelfTransfer
	}

	fromBal := e.balance(asset, from)
	if fromBal.LT(amount) {
		return nil, fmt.Errorf("%w: asset %s, party %s, balance %s, amount %s", ErrInsufficientBalance, asset, from, fromBal, amount)
	}
	toBal := e.balance(asset, to)
	fromBal = num.UintZero().Sub(fromBal, amount)
	toBal = num.Sum(toBal, amount)
	e.setBalance(asset, from, fromBal)
	e.setBalance(asset, to, toBal)

	lm := &types.LedgerMovement{
		Entries: []*types.LedgerEntry{{
			FromAccount:        from,
			ToAccount:          to,
			Asset:              asset,
			Amount:             amount.Clone(),
			Type:               tt,
			Timestamp:          e.now(),
			FromAccountBalance: fromBal.Clone(),
			ToAccountBalance:   toBal.Clone(),
		}},
	}
	if e.log.IsDebug() {
		e.log.Debug("funds transferred",
			logging.AssetID(asset),
			logging.String("from", from),
			logging.String("to", to),
			logging.BigUint("amount", amount),
		)
	}
	e.broker.Send(events.NewLedgerMovements(ctx, []*types.LedgerMovement{lm}))
	return lm, nil
}

// Hash returns a digest of every balance of every asset, used to
// fingerprint the ledger state after each operation.
func (e *Engine) Hash() []byte {
	e.mu.RLock()
	defer e.mu.RUnlock()

	assets := make([]string, 0, len(e.balances))
	for a := range e.balances {
		assets = append(assets, a)
	}
	sort.Strings(assets)

	parts := [][]byte{}
	for _, a := range assets {
		parties := make([]string, 0, len(e.balances[a]))
		for p := range e.balances[a] {
			parties = append(parties, p)
		}
		sort.Strings(parties)
		for _, p := range parties {
			bal := e.balances[a][p].Bytes()
			parts = append(parts, []byte(a), []byte(p), bal[:])
		}
	}
	return vgcrypto.HashAll(parts...)
}

func (e *Engine) checkAssetAndParty(asset, party string) error {
	if _, ok := e.assets[asset]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidAssetID, asset)
	}
	if len(party) == 0 {
		return ErrInvalidParty
	}
	return nil
}

func (e *Engine) balance(asset, party string) *num.Uint {
	if b, ok := e.balances[asset][party]; ok {
		return b.Clone()
	}
	return num.UintZero()
}

func (e *Engine) now() int64 {
	if e.timeService == nil {
		return 0
	}
	return e.timeService.GetTimeNow().UnixNano()
}
