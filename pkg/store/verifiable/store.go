/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

const (
	// NameSpace for vc and vp.
	NameSpace = "verifiable"

	credentialTag   = "vc"
	presentationTag = "vp"
	keyPattern      = "%s_%s"
)

var logger = log.New("aries-framework/store/verifiable")

// ErrNotFound signals that the entry for the given ID is not present in the store.
var ErrNotFound = errors.New("not found under given id")

// Store stores holder credentials and verified presentations.
type Store struct {
	store storage.Store
}

type provider interface {
	StorageProvider() storage.Provider
}

// New returns a new vc store.
func New(ctx provider) (*Store, error) {
	store, err := ctx.StorageProvider().OpenStore(NameSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to open vc store: %w", err)
	}

	err = ctx.StorageProvider().SetStoreConfig(NameSpace,
		storage.StoreConfiguration{TagNames: []string{credentialTag, presentationTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set store configuration: %w", err)
	}

	return &Store{store: store}, nil
}

// SaveCredential saves a JSON verifiable credential. The credential id is returned; one is generated when
// the credential has none.
func (s *Store) SaveCredential(name string, vc json.RawMessage) (string, error) {
	return s.save(credentialTag, name, vc)
}

// GetCredential returns the credential saved under id.
func (s *Store) GetCredential(id string) (json.RawMessage, error) {
	e, err := s.get(credentialTag, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vc: %w", err)
	}

	return e.Document, nil
}

// GetCredentials returns every saved credential.
func (s *Store) GetCredentials() ([]json.RawMessage, error) {
	entries, err := s.list(credentialTag)
	if err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		docs[i] = e.Document
	}

	return docs, nil
}

// SavePresentation saves a verified presentation and returns its id.
func (s *Store) SavePresentation(name string, vp json.RawMessage) (string, error) {
	return s.save(presentationTag, name, vp)
}

// GetPresentation returns the presentation saved under id.
func (s *Store) GetPresentation(id string) (json.RawMessage, error) {
	e, err := s.get(presentationTag, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vp: %w", err)
	}

	return e.Document, nil
}

// GetPresentations returns the records of every saved presentation.
func (s *Store) GetPresentations() ([]*Record, error) {
	entries, err := s.list(presentationTag)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}

	return records, nil
}

func (s *Store) save(tag, name string, doc json.RawMessage) (string, error) {
	var d document
	if err := json.Unmarshal(doc, &d); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", tag, err)
	}

	id := d.ID
	if id == "" {
		id = "urn:uuid:" + uuid.New().String()
	}

	record := &Record{
		Name:      name,
		ID:        id,
		Context:   stringOrSlice(d.Context),
		Type:      stringOrSlice(d.Type),
		SubjectID: subjectID(tag, &d),
		SavedTime: time.Now().UTC(),
	}

	entryBytes, err := json.Marshal(&entry{Record: record, Document: doc})
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", tag, err)
	}

	if err := s.store.Put(fmt.Sprintf(keyPattern, tag, id), entryBytes, storage.Tag{Name: tag}); err != nil {
		return "", fmt.Errorf("failed to put %s: %w", tag, err)
	}

	logger.Debugf("saved %s id=%s", tag, id)

	return id, nil
}

func (s *Store) get(tag, id string) (*entry, error) {
	entryBytes, err := s.store.Get(fmt.Sprintf(keyPattern, tag, id))
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(entryBytes, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", tag, err)
	}

	return &e, nil
}

func (s *Store) list(tag string) ([]*entry, error) {
	itr, err := s.store.Query(tag)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tag, err)
	}

	defer func() {
		if errClose := itr.Close(); errClose != nil {
			logger.Errorf("failed to close iterator: %s", errClose.Error())
		}
	}()

	var entries []*entry

	more, err := itr.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to get next set of data from iterator: %w", err)
	}

	for more {
		entryBytes, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to get value from iterator: %w", err)
		}

		var e entry
		if err := json.Unmarshal(entryBytes, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", tag, err)
		}

		entries = append(entries, &e)

		more, err = itr.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to get next set of data from iterator: %w", err)
		}
	}

	return entries, nil
}

func subjectID(tag string, d *document) string {
	if tag == presentationTag {
		return d.Holder
	}

	switch subject := d.CredentialSubject.(type) {
	case string:
		return subject
	case map[string]interface{}:
		id, _ := subject["id"].(string) //nolint:errcheck

		return id
	case []interface{}:
		if len(subject) == 0 {
			return ""
		}

		return subjectID(tag, &document{CredentialSubject: subject[0]})
	default:
		return ""
	}
}

func stringOrSlice(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		var out []string

		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}
