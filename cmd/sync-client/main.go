package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"tacticshub/internal/localcache"
	synchub "tacticshub/internal/sync"
	"tacticshub/pkg/utils"
)

// invalidator is the part of the client cache the feed touches.
type invalidator interface {
	Invalidate(c localcache.Collection)
}

// storeInvalidator drops a collection straight from the store. The sync
// client has no gateway, so it never goes through the coordinator.
type storeInvalidator struct {
	store localcache.Store
}

func (s storeInvalidator) Invalidate(c localcache.Collection) {
	if c.Valid() {
		s.store.Clear(c)
	}
}

func main() {
	cfg, err := utils.LoadClientConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", cfg.SyncAddr, "TCP sync server address")
	cacheDir := flag.String("cache", cfg.CacheDir, "local cache directory to invalidate")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	inv := storeInvalidator{store: localcache.NewFileStore(*cacheDir, nil)}
	for {
		if err := run(*addr, *pretty, inv); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool, inv invalidator) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)
	if err := consume(conn, os.Stdout, pretty, inv); err != nil {
		return err
	}
	return os.ErrClosed
}

// consume prints each event line and invalidates the cached collection named
// by catalog events.
func consume(r io.Reader, w io.Writer, pretty bool, inv invalidator) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()

		var env synchub.Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			// not JSON? print raw
			fmt.Fprintln(w, string(line))
			continue
		}
		if strings.HasPrefix(env.Type, "catalog.") && env.Collection != "" {
			inv.Invalidate(localcache.Collection(env.Collection))
			log.Printf("[sync-client] %s changed, cache invalidated", env.Collection)
		}

		if !pretty {
			fmt.Fprintln(w, string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Fprintln(w, string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Fprintln(w, string(b))
	}
	return sc.Err()
}
