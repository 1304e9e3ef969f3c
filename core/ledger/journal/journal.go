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

package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"code.swapex.io/swapex/logging"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrEmptyJournal  = errors.New("journal is empty")
	ErrBrokenChain   = errors.New("journal hash chain is broken")
)

const namedLogger = "journal"

var (
	blockPrefix = []byte("b/")
	headKey     = []byte("head")
)

// Journal is an append-only, hash chained, list of blocks stored in LevelDB.
type Journal struct {
	log *logging.Logger

	mu   sync.RWMutex
	db   *leveldb.DB
	head *Block
}

// New opens the journal stored under path, creating it when missing. An
// empty path keeps the journal in memory.
func New(log *logging.Logger, path string) (*Journal, error) {
	log = log.Named(namedLogger)
	var (
		db  *leveldb.DB
		err error
	)
	opts := &opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	if len(path) == 0 {
		db, err = leveldb.Open(storage.NewMemStorage(), opts)
	} else {
		db, err = leveldb.OpenFile(path, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open journal database: %w", err)
	}

	j := &Journal{
		log: log,
		db:  db,
	}
	if err := j.loadHead(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if j.head != nil {
		log.Info("journal loaded",
			logging.Uint64("height", j.head.Height),
			logging.String("hash", j.head.Hash),
		)
	}
	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Height returns the height of the last block, 0 when empty.
func (j *Journal) Height() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.head == nil {
		return 0
	}
	return j.head.Height
}

// Head returns the last block appended.
func (j *Journal) Head() (*Block, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.head == nil {
		return nil, ErrEmptyJournal
	}
	cpy := *j.head
	return &cpy, nil
}

// Append completes b with its height, the previous hash and its own hash
// then stores it. The block is returned as stored.
func (j *Journal) Append(b Block) (*Block, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	b.Height = 1
	b.PrevHash = ""
	if j.head != nil {
		b.Height = j.head.Height + 1
		b.PrevHash = j.head.Hash
	}
	if len(b.Events) == 0 {
		b.Events = json.RawMessage("[]")
	}
	b.Hash = b.ComputeHash()

	raw, err := json.Marshal(&b)
	if err != nil {
		return nil, fmt.Errorf("could not serialise block: %w", err)
	}
	batch := new(leveldb.Batch)
	batch.Put(blockKey(b.Height), raw)
	batch.Put(headKey, heightBytes(b.Height))
	if err := j.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return nil, fmt.Errorf("could not store block %d: %w", b.Height, err)
	}

	j.head = &b
	cpy := b
	return &cpy, nil
}

// Block returns the block at the given height.
func (j *Journal) Block(height uint64) (*Block, error) {
	raw, err := j.db.Get(blockKey(height), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, height)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read block %d: %w", height, err)
	}
	b := &Block{}
	if err := json.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("could not deserialise block %d: %w", height, err)
	}
	return b, nil
}

// Verify walks the whole journal, recomputing every hash and checking every
// link, and returns the number of blocks checked.
func (j *Journal) Verify() (uint64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	iter := j.db.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()

	var (
		count    uint64
		prevHash string
	)
	for iter.Next() {
		b := &Block{}
		if err := json.Unmarshal(iter.Value(), b); err != nil {
			return count, fmt.Errorf("could not deserialise block: %w", err)
		}
		count++
		if b.Height != count {
			return count, fmt.Errorf("%w: expected height %d, got %d", ErrBrokenChain, count, b.Height)
		}
		if b.PrevHash != prevHash {
			return count, fmt.Errorf("%w: block %d does not link to its parent", ErrBrokenChain, b.Height)
		}
		if h := b.ComputeHash(); h != b.Hash {
			return count, fmt.Errorf("%w: block %d hash mismatch", ErrBrokenChain, b.Height)
		}
		prevHash = b.Hash
	}
	if err := iter.Error(); err != nil {
		return count, err
	}
	return count, nil
}

func (j *Journal) loadHead() error {
	raw, err := j.db.Get(headKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read journal head: %w", err)
	}
	if len(raw) != 8 {
		return fmt.Errorf("%w: invalid head record", ErrBrokenChain)
	}
	head, err := j.Block(binary.BigEndian.Uint64(raw))
	if err != nil {
		return err
	}
	j.head = head
	return nil
}

// blockKey sorts blocks by height in the keyspace.
func blockKey(height uint64) []byte {
	return append(append([]byte{}, blockPrefix...), heightBytes(height)...)
}

func heightBytes(height uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, height)
	return out
}
