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

package context

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type (
	traceIDT     int
	blockHeightT int
	chainIDT     int
	txHashT      int
	partyT       int
	remoteIPT    int
)

var (
	traceIDKey     traceIDT
	blockHeightKey blockHeightT
	chainIDKey     chainIDT
	txHashKey      txHashT
	partyKey       partyT
	remoteIPKey    remoteIPT

	ErrBlockHeightMissing = errors.New("no or invalid block height set on context")
	ErrChainIDMissing     = errors.New("no or invalid chain id set on context")
	ErrTxHashMissing      = errors.New("no or invalid transaction hash set on context")
	ErrPartyMissing       = errors.New("no or invalid party set on context")
	ErrRemoteIPMissing    = errors.New("no remote ip address set on context")
)

// TraceIDFromContext get the trace ID from the context. If none is set, a
// new one is generated and the returned context carries it.
func TraceIDFromContext(ctx context.Context) (context.Context, string) {
	tID := ctx.Value(traceIDKey)
	if stID, ok := tID.(string); ok && stID != "" {
		return ctx, stID
	}
	stID := uuid.NewString()
	return WithTraceID(ctx, stID), stID
}

// WithTraceID returns a context with a trace ID value.
func WithTraceID(ctx context.Context, tID string) context.Context {
	return context.WithValue(ctx, traceIDKey, tID)
}

// BlockHeightFromContext returns the height of the ledger block the
// context belongs to.
func BlockHeightFromContext(ctx context.Context) (uint64, error) {
	hv := ctx.Value(blockHeightKey)
	if hv == nil {
		return 0, ErrBlockHeightMissing
	}
	h, ok := hv.(uint64)
	if !ok {
		return 0, ErrBlockHeightMissing
	}
	return h, nil
}

func WithBlockHeight(ctx context.Context, h uint64) context.Context {
	return context.WithValue(ctx, blockHeightKey, h)
}

func ChainIDFromContext(ctx context.Context) (string, error) {
	cv, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		return "", ErrChainIDMissing
	}
	return cv, nil
}

func WithChainID(ctx context.Context, chainID string) context.Context {
	return context.WithValue(ctx, chainIDKey, chainID)
}

func TxHashFromContext(ctx context.Context) (string, error) {
	hv, ok := ctx.Value(txHashKey).(string)
	if !ok {
		return "", ErrTxHashMissing
	}
	return hv, nil
}

func WithTxHash(ctx context.Context, txHash string) context.Context {
	return context.WithValue(ctx, txHashKey, txHash)
}

// PartyFromContext returns the account submitting the operation the
// context was created for.
func PartyFromContext(ctx context.Context) (string, error) {
	pv, ok := ctx.Value(partyKey).(string)
	if !ok || pv == "" {
		return "", ErrPartyMissing
	}
	return pv, nil
}

func WithParty(ctx context.Context, party string) context.Context {
	return context.WithValue(ctx, partyKey, party)
}

// RemoteIPAddrFromContext returns the address of the client a request
// was received from.
func RemoteIPAddrFromContext(ctx context.Context) (string, error) {
	ip, ok := ctx.Value(remoteIPKey).(string)
	if !ok || ip == "" {
		return "", ErrRemoteIPMissing
	}
	return ip, nil
}

func WithRemoteIPAddr(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, remoteIPKey, ip)
}
