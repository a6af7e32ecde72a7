package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/pkg/logger"
)

// staticExtensions are the asset extensions served cache-first-strict.
var staticExtensions = map[string]bool{
	".css": true, ".js": true, ".mjs": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true,
	".glb": true, ".gltf": true, // 3D decoration models
}

// Config wires a Gateway to its surroundings.
type Config struct {
	// Origin is the scheme+host used for lifecycle fetches (install,
	// prewarm), e.g. "http://localhost:3000".
	Origin string

	// ChatPathPrefix marks dynamic assistant traffic (network-first,
	// never cached).
	ChatPathPrefix string

	// KnowledgePaths is the fixed list of cache-first endpoints.
	KnowledgePaths []string

	// StaticManifest lists asset paths pre-cached on Install.
	StaticManifest []string

	// ChatOfflineText and ChatOfflineQuickReplies shape the synthesized
	// offline chat payload.
	ChatOfflineText         string
	ChatOfflineQuickReplies []string

	// OfflineErrorMessage fills the structured knowledge offline payload.
	OfflineErrorMessage string
}

// Gateway intercepts outbound GET requests and applies a caching strategy
// per request shape. It implements http.RoundTripper so it can be slotted
// into any http.Client. Non-GET traffic passes through untouched.
//
// The check-then-populate sequence is deliberately not atomic: concurrent
// misses for one key may both fetch and both write, last write wins. The
// cached responses are idempotent GETs, so nothing depends on a single
// writer.
type Gateway struct {
	base   http.RoundTripper
	store  Store
	cfg    Config
	logger logger.ILogger

	// mu guards the partition handles, which ClearCaches swaps out while
	// fetch handlers keep reading them.
	mu        sync.RWMutex
	static    Partition
	knowledge Partition

	knowledgeSet map[string]bool
}

// partitions returns the live handles under the read lock.
func (g *Gateway) partitions() (static, knowledge Partition) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.static, g.knowledge
}

// New opens the pinned partitions and returns a ready Gateway. A store
// that cannot be initialized is a capability downgrade, not an error:
// pass the result of NewMemoryStore as a fallback in that case.
func New(store Store, base http.RoundTripper, cfg Config, log logger.ILogger) (*Gateway, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	static, err := store.Open(StaticPartition)
	if err != nil {
		return nil, fmt.Errorf("open static partition: %w", err)
	}
	knowledge, err := store.Open(KnowledgePartition)
	if err != nil {
		return nil, fmt.Errorf("open knowledge partition: %w", err)
	}
	if _, err := store.Open(UmbrellaPartition); err != nil {
		return nil, fmt.Errorf("open umbrella partition: %w", err)
	}

	knowledgeSet := make(map[string]bool, len(cfg.KnowledgePaths))
	for _, p := range cfg.KnowledgePaths {
		knowledgeSet[p] = true
	}

	return &Gateway{
		base:         base,
		store:        store,
		static:       static,
		knowledge:    knowledge,
		cfg:          cfg,
		logger:       log,
		knowledgeSet: knowledgeSet,
	}, nil
}

// cacheKey identifies a request independent of host, so lifecycle fetches
// and widget traffic agree on keys.
func cacheKey(req *http.Request) string {
	key := req.URL.Path
	if req.URL.RawQuery != "" {
		key += "?" + req.URL.RawQuery
	}
	return key
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// RoundTrip applies the strategy table. GET only; everything else is
// forwarded unchanged.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return g.base.RoundTrip(req)
	}

	p := req.URL.Path
	switch {
	case g.knowledgeSet[p]:
		return g.knowledgeFirst(req)
	case g.cfg.ChatPathPrefix != "" && strings.HasPrefix(p, g.cfg.ChatPathPrefix):
		return g.networkOnlyChat(req)
	case staticExtensions[strings.ToLower(path.Ext(p))]:
		return g.cacheFirstStrict(req)
	default:
		return g.networkWithFallback(req)
	}
}

// knowledgeFirst: serve cache immediately when present and revalidate in
// the background; on miss fetch, cache on success; on total failure
// synthesize a structured offline payload.
func (g *Gateway) knowledgeFirst(req *http.Request) (*http.Response, error) {
	key := cacheKey(req)
	_, knowledge := g.partitions()

	if entry, ok := knowledge.Get(key); ok {
		go g.refreshKnowledge(req.Clone(context.Background()), key)
		return entryToResponse(entry, req, "HIT"), nil
	}

	resp, err := g.base.RoundTrip(req)
	if err == nil {
		if isSuccess(resp) {
			return g.cacheResponse(knowledge, key, resp, req)
		}
		return resp, nil
	}

	g.logger.Warn("Gateway", "Knowledge fetch failed, serving offline payload", map[string]interface{}{
		"key": key, "error": err.Error(),
	})
	body, _ := json.Marshal(dto.OfflineError{
		Error:   "Offline",
		Message: g.cfg.OfflineErrorMessage,
	})
	return syntheticResponse(req, http.StatusServiceUnavailable, body), nil
}

// refreshKnowledge silently overwrites the cached entry after a hit.
func (g *Gateway) refreshKnowledge(req *http.Request, key string) {
	resp, err := g.base.RoundTrip(req)
	if err != nil {
		g.logger.Debug("Gateway", "Background knowledge refresh failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
		return
	}
	defer resp.Body.Close()
	if !isSuccess(resp) {
		return
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	_, knowledge := g.partitions()
	if err := knowledge.Put(key, newEntry(resp, body)); err != nil {
		g.logger.Warn("Gateway", "Background knowledge store failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
}

// networkOnlyChat: never cached; a failed call becomes a normal-looking
// chat response carrying the offline apology.
func (g *Gateway) networkOnlyChat(req *http.Request) (*http.Response, error) {
	resp, err := g.base.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	g.logger.Warn("Gateway", "Chat transport failed, synthesizing offline reply", map[string]interface{}{
		"path": req.URL.Path, "error": err.Error(),
	})
	body, _ := json.Marshal(dto.ChatResponse{
		Response: dto.ChatReply{
			Text:         g.cfg.ChatOfflineText,
			QuickReplies: g.cfg.ChatOfflineQuickReplies,
		},
		Offline: true,
	})
	return syntheticResponse(req, http.StatusOK, body), nil
}

// cacheFirstStrict: cached assets are served as-is; a miss with no
// network propagates the failure (no synthetic fallback for assets).
func (g *Gateway) cacheFirstStrict(req *http.Request) (*http.Response, error) {
	key := cacheKey(req)
	static, _ := g.partitions()
	if entry, ok := static.Get(key); ok {
		return entryToResponse(entry, req, "HIT"), nil
	}

	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if isSuccess(resp) {
		return g.cacheResponse(static, key, resp, req)
	}
	return resp, nil
}

// networkWithFallback: anything else tries the network and falls back to
// whatever any partition already holds for that exact request.
func (g *Gateway) networkWithFallback(req *http.Request) (*http.Response, error) {
	resp, err := g.base.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	key := cacheKey(req)
	static, knowledge := g.partitions()
	if entry, ok := knowledge.Get(key); ok {
		return entryToResponse(entry, req, "STALE"), nil
	}
	if entry, ok := static.Get(key); ok {
		return entryToResponse(entry, req, "STALE"), nil
	}
	return nil, err
}

// cacheResponse stores a response body and rebuilds the response so the
// caller still gets a readable body.
func (g *Gateway) cacheResponse(p Partition, key string, resp *http.Response, req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if err := p.Put(key, newEntry(resp, body)); err != nil {
		g.logger.Warn("Gateway", "Cache write failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// --- Lifecycle ---

// Install pre-populates the static partition from the manifest. A single
// failed asset is logged and skipped so one bad path cannot abort boot.
func (g *Gateway) Install(ctx context.Context) {
	static, _ := g.partitions()
	for _, assetPath := range g.cfg.StaticManifest {
		if err := g.fetchInto(ctx, static, assetPath); err != nil {
			g.logger.Warn("Gateway", "Install: asset pre-cache failed", map[string]interface{}{
				"path": assetPath, "error": err.Error(),
			})
		}
	}
	g.logger.Info("Gateway", "Install finished", map[string]interface{}{
		"manifest_size": len(g.cfg.StaticManifest),
	})
}

// Activate garbage-collects partitions from previous generations. After
// it returns, only pinned names remain in the store.
func (g *Gateway) Activate(ctx context.Context) error {
	names, err := g.store.Names()
	if err != nil {
		return fmt.Errorf("enumerate partitions: %w", err)
	}

	pinned := make(map[string]bool)
	for _, name := range PinnedPartitions() {
		pinned[name] = true
	}

	for _, name := range names {
		if pinned[name] {
			continue
		}
		g.logger.Info("Gateway", "Activate: purging stale partition", map[string]interface{}{"name": name})
		if err := g.store.Drop(name); err != nil {
			return fmt.Errorf("drop stale partition %s: %w", name, err)
		}
	}
	return nil
}

// PrewarmKnowledge walks the knowledge list sequentially, caching each
// endpoint and tolerating individual failures. It reports how many
// endpoints were cached and how many failed.
func (g *Gateway) PrewarmKnowledge(ctx context.Context) (cached, failed int) {
	_, knowledge := g.partitions()
	for _, kp := range g.cfg.KnowledgePaths {
		if err := g.fetchInto(ctx, knowledge, kp); err != nil {
			failed++
			g.logger.Warn("Gateway", "Prewarm: knowledge fetch failed", map[string]interface{}{
				"path": kp, "error": err.Error(),
			})
			continue
		}
		cached++
		g.logger.Debug("Gateway", "Prewarm: cached", map[string]interface{}{"path": kp})
	}
	return cached, failed
}

// ClearCaches deletes the knowledge partition then the static partition.
// The handle swap happens under the write lock so in-flight fetches keep
// a consistent pair.
func (g *Gateway) ClearCaches() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Drop(KnowledgePartition); err != nil {
		return fmt.Errorf("drop knowledge partition: %w", err)
	}
	if err := g.store.Drop(StaticPartition); err != nil {
		return fmt.Errorf("drop static partition: %w", err)
	}
	// Dropped partitions must stay usable for subsequent traffic.
	var err error
	if g.knowledge, err = g.store.Open(KnowledgePartition); err != nil {
		return err
	}
	if g.static, err = g.store.Open(StaticPartition); err != nil {
		return err
	}
	return nil
}

// Status reports the entry counts of the static and knowledge partitions.
func (g *Gateway) Status() (static, knowledge int, err error) {
	staticPart, knowledgePart := g.partitions()
	if static, err = staticPart.Count(); err != nil {
		return 0, 0, err
	}
	if knowledge, err = knowledgePart.Count(); err != nil {
		return 0, 0, err
	}
	return static, knowledge, nil
}

func (g *Gateway) fetchInto(ctx context.Context, p Partition, reqPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.Origin+reqPath, nil)
	if err != nil {
		return err
	}
	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !isSuccess(resp) {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return p.Put(cacheKey(req), newEntry(resp, body))
}

// --- Response plumbing ---

func newEntry(resp *http.Response, body []byte) *Entry {
	return &Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		CachedAt: time.Now(),
	}
}

func entryToResponse(entry *Entry, req *http.Request, verdict string) *http.Response {
	header := entry.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("X-Cache", verdict)
	return &http.Response{
		Status:        http.StatusText(entry.Status),
		StatusCode:    entry.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}
}

func syntheticResponse(req *http.Request, status int, body []byte) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("X-Cache", "SYNTHETIC")
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
