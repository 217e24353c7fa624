//go:build js && wasm

// Command wasm exposes the cached catalog to a web page. The page loads the
// module and calls the functions registered on the global object:
//
//	tacticshubGameData()    Promise<string>  full catalog as JSON
//	tacticshubRefresh()     Promise<void>    refetch every collection
//	tacticshubCacheStatus() string           freshness per collection as JSON
//	tacticshubClearCache()  void
//
// The API base URL comes from window.TACTICSHUB_API and defaults to the page
// origin. A token in window.TACTICSHUB_TOKEN is sent with every request.
package main

import (
	"context"
	"encoding/json"
	"log"
	"syscall/js"

	"tacticshub/internal/gateway"
	"tacticshub/internal/hybrid"
	"tacticshub/internal/localcache"
)

var storage *hybrid.Storage

func main() {
	baseURL := globalString("TACTICSHUB_API")
	if baseURL == "" {
		baseURL = js.Global().Get("location").Get("origin").String()
	}
	gw := gateway.NewHTTPGateway(baseURL, nil, globalString("TACTICSHUB_TOKEN"), nil)
	storage = hybrid.New(gw, localcache.NewBrowserStore())

	js.Global().Set("tacticshubGameData", js.FuncOf(gameData))
	js.Global().Set("tacticshubRefresh", js.FuncOf(refresh))
	js.Global().Set("tacticshubCacheStatus", js.FuncOf(cacheStatus))
	js.Global().Set("tacticshubClearCache", js.FuncOf(clearCache))

	log.Printf("[wasm] tacticshub loaded, api=%s", baseURL)
	select {}
}

func globalString(name string) string {
	v := js.Global().Get(name)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func gameData(this js.Value, args []js.Value) any {
	return promise(func() (any, error) {
		return toJSON(storage.GetAllGameData(context.Background()))
	})
}

func refresh(this js.Value, args []js.Value) any {
	return promise(func() (any, error) {
		return nil, storage.RefreshCache(context.Background())
	})
}

func cacheStatus(this js.Value, args []js.Value) any {
	s, err := toJSON(storage.CacheStatus())
	if err != nil {
		return err.Error()
	}
	return s
}

func clearCache(this js.Value, args []js.Value) any {
	storage.ClearCache()
	return nil
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// promise runs work off the event loop; fetch-backed HTTP calls deadlock when
// made directly inside a js.Func callback.
func promise(work func() (any, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := work()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	p := js.Global().Get("Promise").New(executor)
	executor.Release()
	return p
}
