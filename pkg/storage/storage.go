// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
package storage

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/dummy"
	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Storage is the durable, uniqueness-enforcing store for devices, firmwares
// and build identities. It is the only owner of those relations: other
// components always re-query instead of caching rows.
type Storage struct {
	DB         *sqlx.DB
	DriverName string
	Logger     logger.Logger
}

// New returns an instance of Storage.
func New(
	rdbmsDriver string,
	rdbmsDSN string,
	log logger.Logger,
) (*Storage, error) {
	if log == nil {
		log = dummy.New()
	}

	db, err := sqlx.Open(rdbmsDriver, rdbmsDSN)
	if err != nil {
		return nil, ErrInitStorage{Err: err, DSN: rdbmsDSN}
	}

	if rdbmsDriver == "sqlite" {
		// sqlite permits one writer at a time; concurrent writes on
		// separate connections fail with SQLITE_BUSY. Funnel the pool
		// through a single connection so they queue instead.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, ErrPing{Err: err}
	}

	return &Storage{
		DB:         db,
		DriverName: rdbmsDriver,
		Logger:     log,
	}, nil
}

// insertIgnoreVerb returns the INSERT verb which makes a duplicate insert a
// no-op through the dialect's native conflict-resolution clause (rather than
// by swallowing a duplicate-key error).
func (stor *Storage) insertIgnoreVerb() string {
	if stor.DriverName == "mysql" {
		return "INSERT IGNORE INTO"
	}
	return "INSERT OR IGNORE INTO"
}

// InitSchema creates the relations and the uniqueness indexes if they do not
// exist yet. It is safe to call on every process start.
func (stor *Storage) InitSchema(ctx context.Context) error {
	statements := schemaSQLite
	if stor.DriverName == "mysql" {
		statements = schemaMySQL
	}

	for _, statement := range statements {
		if _, err := stor.DB.ExecContext(ctx, statement); err != nil {
			return ErrInitSchema{Err: err, Statement: statement}
		}
	}
	return nil
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		identifier TEXT UNIQUE,
		boardconfig TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS firmwares (
		version TEXT,
		buildid TEXT,
		url TEXT,
		size INTEGER,
		devices TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS firmware_for_devices ON firmwares (buildid, devices)`,
	`CREATE TABLE IF NOT EXISTS build_identities (
		boardconfig TEXT,
		buildid TEXT,
		chip_id INTEGER,
		board_id INTEGER,
		unique_buildid BLOB UNIQUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS identity_for_device_firmware ON build_identities (boardconfig, buildid)`,
}

// MySQL cannot index unprefixed TEXT columns, so the columns which take part
// in uniqueness constraints are VARCHAR-s (or prefix-indexed) here.
var schemaMySQL = []string{
	"CREATE TABLE IF NOT EXISTS `devices` (" +
		"`identifier` VARCHAR(255) UNIQUE," +
		"`boardconfig` VARCHAR(255) UNIQUE" +
		")",
	"CREATE TABLE IF NOT EXISTS `firmwares` (" +
		"`version` VARCHAR(255)," +
		"`buildid` VARCHAR(255)," +
		"`url` TEXT," +
		"`size` BIGINT," +
		"`devices` TEXT," +
		"UNIQUE KEY `firmware_for_devices` (`buildid`(64), `devices`(191))" +
		")",
	"CREATE TABLE IF NOT EXISTS `build_identities` (" +
		"`boardconfig` VARCHAR(255)," +
		"`buildid` VARCHAR(255)," +
		"`chip_id` BIGINT," +
		"`board_id` BIGINT," +
		"`unique_buildid` VARBINARY(255) UNIQUE," +
		"UNIQUE KEY `identity_for_device_firmware` (`boardconfig`, `buildid`)" +
		")",
}

// Close stops the instance of the Storage.
func (stor *Storage) Close() error {
	return stor.DB.Close()
}
