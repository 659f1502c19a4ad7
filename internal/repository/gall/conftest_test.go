package gall

import (
	"context"
	"sort"

	"github.com/cecidology/cecidarium/internal/db"
)

// fakeStore is an in-memory stand-in for the consumer store interface.
type fakeStore struct {
	docs    map[string][]byte
	sets    map[string]map[string]struct{}
	failOps map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:    make(map[string][]byte),
		sets:    make(map[string]map[string]struct{}),
		failOps: make(map[string]error),
	}
}

func (f *fakeStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	if err := f.failOps["jsonset"]; err != nil {
		return err
	}
	f.docs[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	if err := f.failOps["jsonget"]; err != nil {
		return nil, err
	}
	data, ok := f.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return wrapPath(data), nil
}

func (f *fakeStore) JSONGetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if err := f.failOps["jsongetmulti"]; err != nil {
		return nil, err
	}
	out := make([][]byte, len(keys))
	for i, key := range keys {
		if data, ok := f.docs[key]; ok {
			out[i] = wrapPath(data)
		}
	}
	return out, nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	if err := f.failOps["del"]; err != nil {
		return err
	}
	delete(f.docs, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	if err := f.failOps["exists"]; err != nil {
		return false, err
	}
	_, ok := f.docs[key]
	return ok, nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	if err := f.failOps["sadd"]; err != nil {
		return err
	}
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

func (f *fakeStore) SRem(_ context.Context, key string, members ...string) error {
	if err := f.failOps["srem"]; err != nil {
		return err
	}
	for _, m := range members {
		delete(f.sets[key], m)
	}
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	if err := f.failOps["smembers"]; err != nil {
		return nil, err
	}
	members := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		members = append(members, m)
	}
	sort.Strings(members)
	return members, nil
}

// wrapPath mimics JSON.GET with a $ path returning a one-element array.
func wrapPath(data []byte) []byte {
	out := make([]byte, 0, len(data)+2)
	out = append(out, '[')
	out = append(out, data...)
	return append(out, ']')
}
