package model

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// memStore is the smallest useful Store: an in-memory append log.
type memStore struct {
	recs []*Record
}

func (s *memStore) Persist(_ context.Context, rec *Record) (string, error) {
	s.recs = append(s.recs, rec)
	return "mem-1", nil
}

var _ Store = (*memStore)(nil)

func TestStore_PersistReturnsID(t *testing.T) {
	s := &memStore{}
	id, err := s.Persist(context.Background(), &Record{Title: "Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "mem-1" {
		t.Fatalf("id = %q", id)
	}
	if len(s.recs) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(s.recs))
	}
}

func TestRecord_RequiredStringsSerializeEmptyNotNull(t *testing.T) {
	data, err := json.Marshal(&Record{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"title":""`, `"company":""`, `"location":""`, `"source":""`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("missing %s in %s", want, data)
		}
	}
	if !strings.Contains(string(data), `"companyPublisher":null`) {
		t.Errorf("optional fields must serialize as null: %s", data)
	}
}
