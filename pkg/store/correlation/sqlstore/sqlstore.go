/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sqlstore is a correlation store kept in a SQLite database file.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/log"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

const (
	dsnParams = "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"

	schema = `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		from_did TEXT NOT NULL,
		to_did TEXT NOT NULL,
		thid TEXT,
		created_time INTEGER,
		body TEXT,
		saved_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_from_type ON messages(from_did, type);
	`

	maxRetries = 5
	retryDelay = 50 * time.Millisecond
)

var logger = log.New("aries-framework/store/correlation/sqlstore")

// Store is a correlation store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating when needed) the SQLite database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Infof("correlation database opened at %s", dbPath)

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Persist appends msg to the messages table.
func (s *Store) Persist(ctx context.Context, msg *service.DIDCommMsg) error {
	if msg == nil {
		return errors.New("message is required")
	}

	var created interface{}
	if msg.CreatedTime != nil {
		created = msg.CreatedTime.UnixNano()
	}

	query := `
	INSERT INTO messages (id, type, from_did, to_did, thid, created_time, body, saved_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return s.retry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, msg.ID, msg.Type, msg.From, msg.To, msg.ThreadID, created,
			string(msg.Body), time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		return nil
	})
}

// Query returns the messages matching filter, oldest first.
func (s *Store) Query(ctx context.Context, filter presentproof.MessageFilter) ([]service.DIDCommMsg, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	const query = `SELECT id, type, from_did, to_did, thid, created_time, body FROM messages
		WHERE from_did = ? AND type = ? ORDER BY seq ASC`

	var msgs []service.DIDCommMsg

	err := s.retry(ctx, func() error {
		msgs = nil

		rows, err := s.db.QueryContext(ctx, query, filter.From, filter.Type)
		if err != nil {
			return fmt.Errorf("query messages: %w", err)
		}

		defer rows.Close() //nolint:errcheck

		for rows.Next() {
			msg, err := scanMessage(rows)
			if err != nil {
				return err
			}

			msgs = append(msgs, *msg)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return msgs, nil
}

func scanMessage(rows *sql.Rows) (*service.DIDCommMsg, error) {
	var (
		msg     service.DIDCommMsg
		thid    sql.NullString
		created sql.NullInt64
		body    sql.NullString
	)

	if err := rows.Scan(&msg.ID, &msg.Type, &msg.From, &msg.To, &thid, &created, &body); err != nil {
		return nil, fmt.Errorf("scan message row: %w", err)
	}

	msg.ThreadID = thid.String

	if created.Valid {
		t := time.Unix(0, created.Int64).UTC()
		msg.CreatedTime = &t
	}

	if body.Valid && body.String != "" {
		msg.Body = []byte(body.String)
	}

	return &msg, nil
}

// retry runs op again while SQLite reports the database as busy.
func (s *Store) retry(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), maxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isConflict(err) {
			return backoff.Permanent(err)
		}

		if err != nil {
			logger.Warnf("database busy, retrying: %v", err)
		}

		return err
	}, b)
}

func isConflict(err error) bool {
	return strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked")
}
