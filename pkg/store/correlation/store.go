/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package correlation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

const (
	// Namespace is the name of the correlation store.
	Namespace = "presentproof_messages"

	fromTag = "from"
	toTag   = "to"
	typeTag = "type"

	keyPattern = "%020d_%s"
)

var logger = log.New("aries-framework/store/correlation")

type provider interface {
	StorageProvider() storage.Provider
}

type record struct {
	Seq       uint64             `json:"seq"`
	SavedTime time.Time          `json:"saved_time"`
	Message   service.DIDCommMsg `json:"message"`
}

// Store keeps the messages sent and received by the present-proof service so that a later presentation
// can be related to the request it answers.
type Store struct {
	store storage.Store
	seq   uint64
	mu    sync.Mutex
}

// New returns a new correlation store.
func New(p provider) (*Store, error) {
	store, err := p.StorageProvider().OpenStore(Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to open correlation store: %w", err)
	}

	err = p.StorageProvider().SetStoreConfig(Namespace,
		storage.StoreConfiguration{TagNames: []string{fromTag, toTag, typeTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store config: %w", err)
	}

	s := &Store{store: store}

	records, err := s.query(typeTag)
	if err != nil {
		return nil, fmt.Errorf("failed to load correlation store: %w", err)
	}

	for _, rec := range records {
		if rec.Seq > s.seq {
			s.seq = rec.Seq
		}
	}

	return s, nil
}

// Persist saves msg. Messages are never overwritten: saving the same message twice keeps both copies.
func (s *Store) Persist(ctx context.Context, msg *service.DIDCommMsg) error {
	if msg == nil {
		return errors.New("message is required")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{Seq: s.seq + 1, SavedTime: time.Now().UTC(), Message: msg.Clone()}

	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal message record: %w", err)
	}

	err = s.store.Put(fmt.Sprintf(keyPattern, rec.Seq, msg.ID), recBytes,
		storage.Tag{Name: fromTag, Value: encodeTag(msg.From)},
		storage.Tag{Name: toTag, Value: encodeTag(msg.To)},
		storage.Tag{Name: typeTag, Value: encodeTag(msg.Type)},
	)
	if err != nil {
		return fmt.Errorf("failed to put message record: %w", err)
	}

	s.seq = rec.Seq

	logger.Debugf("persisted msgID=%s seq=%d", msg.ID, rec.Seq)

	return nil
}

// Query returns the persisted messages matching filter, oldest first.
func (s *Store) Query(ctx context.Context, filter presentproof.MessageFilter) ([]service.DIDCommMsg, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.query(expression(filter))
	if err != nil {
		return nil, err
	}

	msgs := make([]service.DIDCommMsg, len(records))
	for i, rec := range records {
		msgs[i] = rec.Message
	}

	return msgs, nil
}

func (s *Store) query(expr string) ([]*record, error) {
	itr, err := s.store.Query(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to query correlation store: %w", err)
	}

	defer func() {
		if errClose := itr.Close(); errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose.Error())
		}
	}()

	var records []*record

	more, err := itr.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to get next record: %w", err)
	}

	for more {
		value, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to get value from iterator: %w", err)
		}

		var rec record
		if err := json.Unmarshal(value, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message record: %w", err)
		}

		records = append(records, &rec)

		more, err = itr.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to get next record: %w", err)
		}
	}

	slices.SortStableFunc(records, func(a, b *record) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		default:
			return 0
		}
	})

	return records, nil
}

func expression(filter presentproof.MessageFilter) string {
	return fromTag + ":" + encodeTag(filter.From) + "&&" + typeTag + ":" + encodeTag(filter.Type)
}

// encodeTag makes a value usable as a storage tag value, which must not contain ':'.
func encodeTag(v string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(v))
}
