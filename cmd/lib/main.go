package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"encoding/json"
	"sync"
	"unsafe"

	"dictdoy/pkg/config"
	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/logger"
	"dictdoy/pkg/runner"

	"github.com/pelletier/go-toml/v2"
)

var (
	mu       sync.Mutex
	services *runner.Services
)

type response struct {
	Entries []dictionary.Entry `json:"entries"`
	Error   string             `json:"error,omitempty"`
}

// DictdoyInit loads the dictionary using configToml, or the defaults when it
// is NULL. It returns NULL on success; otherwise an error message the caller
// must release with DictdoyFree.
//
//export DictdoyInit
func DictdoyInit(configToml *C.char) *C.char {
	cfg := config.DefaultConfig()
	if configToml != nil {
		if err := toml.Unmarshal([]byte(C.GoString(configToml)), cfg); err != nil {
			return C.CString("failed to parse config toml: " + err.Error())
		}
	}
	if err := cfg.Validate(); err != nil {
		return C.CString(err.Error())
	}

	svc, err := runner.Bootstrap(context.Background(), cfg, logger.NewLogger(100), runner.LoadCallbacks{})
	if err != nil {
		return C.CString(err.Error())
	}

	mu.Lock()
	services = svc
	mu.Unlock()
	return nil // Success
}

// DictdoyLookup returns a JSON object {"entries": [...]} for query. The
// result must be released with DictdoyFree.
//
//export DictdoyLookup
func DictdoyLookup(query *C.char) *C.char {
	mu.Lock()
	svc := services
	mu.Unlock()

	resp := response{Entries: []dictionary.Entry{}}
	if svc == nil {
		resp.Error = "DictdoyInit has not been called"
	} else {
		resp.Entries = svc.Adapter.Lookup(C.GoString(query))
	}

	data, err := json.Marshal(resp)
	if err != nil {
		data = []byte(`{"entries":[],"error":"failed to encode result"}`)
	}
	return C.CString(string(data))
}

// DictdoyFree releases a string returned by DictdoyInit or DictdoyLookup.
//
//export DictdoyFree
func DictdoyFree(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
