// Copyright (c) 2025 The RealmGov developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package weightdb persists every published voting weight so that past
// observations stay queryable after the live record in state has been
// overwritten or expired.
package weightdb

import (
	"context"
	"database/sql"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/realmgov/registry/gov"
)

type WeightDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open weight db at given path.
func New(path string) (weightDB *WeightDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if weightDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(weightTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &WeightDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a weight db in ram.
func NewMem() (*WeightDB, error) {
	return New(":memory:")
}

// Close close the weight db.
func (db *WeightDB) Close() {
	db.db.Close()
}

func (db *WeightDB) Path() string {
	return db.path
}

// Insert appends published weights to the history.
func (db *WeightDB) Insert(records []*Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, record := range records {
		if _, err = tx.Exec("INSERT INTO weight(realm, authority, weight, expiry, publishedAt) VALUES ( ?, ?, ?, ?, ?);",
			record.Realm.Bytes(),
			record.Authority.Bytes(),
			weightValue(record.Weight),
			record.Expiry,
			record.PublishedAt,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter return published weights with options.
func (db *WeightDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM weight")
	}
	metricsHandleFilter(filter)

	var args []interface{}
	stmt := "SELECT * FROM weight WHERE 1"
	condition := "publishedAt"
	if filter.Range != nil {
		if filter.Range.Unit == Epoch {
			condition = "expiry"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	if filter.Realm != nil {
		args = append(args, filter.Realm.Bytes())
		stmt += " AND realm = ? "
	}
	if filter.Authority != nil {
		args = append(args, filter.Authority.Bytes())
		stmt += " AND authority = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY publishedAt DESC "
	} else {
		stmt += " ORDER BY publishedAt ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *WeightDB) query(ctx context.Context, stmt string, args ...interface{}) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			realm       []byte
			authority   []byte
			weight      []byte
			expiry      uint64
			publishedAt uint64
		)
		if err := rows.Scan(
			&realm,
			&authority,
			&weight,
			&expiry,
			&publishedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &Record{
			Realm:       gov.BytesToBytes32(realm),
			Authority:   gov.BytesToAddress(authority),
			Weight:      new(big.Int).SetBytes(weight).Uint64(),
			Expiry:      expiry,
			PublishedAt: publishedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// weightValue encodes a weight as big-endian bytes. Weights use the full
// uint64 range, which sqlite integers cannot hold.
func weightValue(w uint64) []byte {
	return new(big.Int).SetUint64(w).Bytes()
}
