// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
		NewIteratorFunc
	}{
		func(key []byte) ([]byte, error) {
			return src.Get(append([]byte(b), key...))
		},
		func(key []byte) (bool, error) {
			return src.Has(append([]byte(b), key...))
		},
		src.IsNotFound,
		func(r Range) Iterator {
			return &bucketIterator{src.NewIterator(b.makeRange(r)), len(b)}
		},
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
		NewBatchFunc
	}{
		func(key, val []byte) error {
			return src.Put(append([]byte(b), key...), val)
		},
		func(key []byte) error {
			return src.Delete(append([]byte(b), key...))
		},
		func() Batch {
			return &bucketBatch{b, src.NewBatch()}
		},
	}
}

// NewGetPutter creates a bucket getter/putter from the source store.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{b.NewGetter(src), b.NewPutter(src)}
}

func (b Bucket) makeRange(r Range) Range {
	from := append([]byte(b), r.From...)
	var to []byte
	if len(r.To) > 0 {
		to = append([]byte(b), r.To...)
	} else {
		// zero length means up to the end of the bucket
		to = util.BytesPrefix([]byte(b)).Limit
	}
	return Range{From: from, To: to}
}

type bucketIterator struct {
	Iterator
	skip int
}

func (it *bucketIterator) Key() []byte {
	key := it.Iterator.Key()
	if len(key) < it.skip {
		return key
	}
	return key[it.skip:]
}

type bucketBatch struct {
	b     Bucket
	batch Batch
}

func (bb *bucketBatch) Put(key, val []byte) error {
	return bb.batch.Put(append([]byte(bb.b), key...), val)
}

func (bb *bucketBatch) Delete(key []byte) error {
	return bb.batch.Delete(append([]byte(bb.b), key...))
}

func (bb *bucketBatch) NewBatch() Batch {
	return &bucketBatch{bb.b, bb.batch.NewBatch()}
}

func (bb *bucketBatch) Len() int { return bb.batch.Len() }

func (bb *bucketBatch) Write() error { return bb.batch.Write() }
