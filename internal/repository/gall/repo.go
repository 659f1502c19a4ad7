// Package gall persists gall records as JSON documents with set-based host,
// genus, and facet option indexes.
package gall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/cecidology/cecidarium/internal/db"
	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
)

// store is the consumer interface for gall persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the root lookup, facet option, and catalog contracts.
type Repo struct {
	store  store
	prefix string
}

// New creates a gall repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// FetchByHost returns every gall associated with the given host plant name.
func (r *Repo) FetchByHost(ctx context.Context, name string) ([]domgall.Gall, error) {
	return r.fetchIndexed(ctx, r.hostKey(name))
}

// FetchByGenus returns every gall in the given genus.
func (r *Repo) FetchByGenus(ctx context.Context, name string) ([]domgall.Gall, error) {
	return r.fetchIndexed(ctx, r.genusKey(name))
}

func (r *Repo) fetchIndexed(ctx context.Context, indexKey string) ([]domgall.Gall, error) {
	ids, err := r.store.SMembers(ctx, indexKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", indexKey, err)
	}
	if len(ids) == 0 {
		return []domgall.Gall{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + "gall:" + id
	}
	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	galls := make([]domgall.Gall, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			// Dangling index member; the record was deleted out of band.
			continue
		}
		doc, err := parseDoc(raw)
		if err != nil {
			return nil, err
		}
		galls = append(galls, doc.toDomain())
	}
	sort.Slice(galls, func(i, j int) bool { return galls[i].ID() < galls[j].ID() })
	return galls, nil
}

// FacetOptions returns the curated value set for one facet, sorted.
func (r *Repo) FacetOptions(ctx context.Context, name facet.Name) ([]string, error) {
	key := r.facetKey(name)
	values, err := r.store.SMembers(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	sort.Strings(values)
	return values, nil
}

// Upsert creates or updates a gall record and keeps the host, genus, and
// facet option indexes in sync. Returns true if the record was created.
func (r *Repo) Upsert(ctx context.Context, g *domgall.Gall) (bool, error) {
	key := r.gallKey(g.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		if err := r.removeFromIndexes(ctx, g.ID()); err != nil {
			return false, err
		}
	}

	data, err := json.Marshal(buildDoc(g))
	if err != nil {
		return false, fmt.Errorf("marshal gall %d: %w", g.ID(), err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	member := formatID(g.ID())
	for _, host := range g.Hosts() {
		if err := r.store.SAdd(ctx, r.hostKey(host), member); err != nil {
			return false, fmt.Errorf("index host %q: %w", host, err)
		}
	}
	if err := r.store.SAdd(ctx, r.genusKey(g.Genus()), member); err != nil {
		return false, fmt.Errorf("index genus %q: %w", g.Genus(), err)
	}
	if err := r.addFacetOptions(ctx, g); err != nil {
		return false, err
	}

	return !exists, nil
}

// Get returns a gall record by ID.
func (r *Repo) Get(ctx context.Context, id int64) (domgall.Gall, error) {
	raw, err := r.store.JSONGet(ctx, r.gallKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domgall.Gall{}, domain.ErrGallNotFound
		}
		return domgall.Gall{}, fmt.Errorf("json.get gall %d: %w", id, err)
	}
	doc, err := parseDoc(raw)
	if err != nil {
		return domgall.Gall{}, err
	}
	return doc.toDomain(), nil
}

// Delete removes a gall record and its index memberships.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := r.gallKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrGallNotFound
	}
	if err := r.removeFromIndexes(ctx, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// removeFromIndexes drops the stored record's current host and genus index
// memberships. Facet option sets are enumerations and are never pruned.
func (r *Repo) removeFromIndexes(ctx context.Context, id int64) error {
	old, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrGallNotFound) {
			return nil
		}
		return err
	}
	member := formatID(id)
	for _, host := range old.Hosts() {
		if err := r.store.SRem(ctx, r.hostKey(host), member); err != nil {
			return fmt.Errorf("unindex host %q: %w", host, err)
		}
	}
	if err := r.store.SRem(ctx, r.genusKey(old.Genus()), member); err != nil {
		return fmt.Errorf("unindex genus %q: %w", old.Genus(), err)
	}
	return nil
}

// addFacetOptions records every attribute value of the gall in the per-facet
// option sets that populate the selection controls.
func (r *Repo) addFacetOptions(ctx context.Context, g *domgall.Gall) error {
	for _, def := range facet.Registry() {
		values := def.Values(g)
		if len(values) == 0 {
			continue
		}
		if err := r.store.SAdd(ctx, r.facetKey(def.Name()), values...); err != nil {
			return fmt.Errorf("facet options %q: %w", def.Name(), err)
		}
	}
	return nil
}

func (r *Repo) gallKey(id int64) string { return r.prefix + "gall:" + formatID(id) }

func (r *Repo) hostKey(name string) string { return r.prefix + "host:" + name }

func (r *Repo) genusKey(name string) string { return r.prefix + "genus:" + name }

func (r *Repo) facetKey(name facet.Name) string { return r.prefix + "facet:" + string(name) }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// parseDoc unwraps a JSONPath result ($ returns a one-element array).
func parseDoc(raw []byte) (gallDoc, error) {
	var docs []gallDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		// Non-array form (legacy path-less JSON.GET).
		var doc gallDoc
		if err2 := json.Unmarshal(raw, &doc); err2 != nil {
			return gallDoc{}, fmt.Errorf("unmarshal gall doc: %w", err)
		}
		return doc, nil
	}
	if len(docs) == 0 {
		return gallDoc{}, fmt.Errorf("empty gall doc result")
	}
	return docs[0], nil
}
