package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/pkg/profile"

	"github.com/joinnextblock/attn-protocol-sub001/config"
	"github.com/joinnextblock/attn-protocol-sub001/context"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/hook"
	"github.com/joinnextblock/attn-protocol-sub001/interrupt"
	"github.com/joinnextblock/attn-protocol-sub001/lol"
	"github.com/joinnextblock/attn-protocol-sub001/publish"
	"github.com/joinnextblock/attn-protocol-sub001/ratelimit"
	"github.com/joinnextblock/attn-protocol-sub001/relay"
	"github.com/joinnextblock/attn-protocol-sub001/sett"
)

func main() {
	var err er
	var cfg *config.C
	if cfg, err = config.New(); chk.T(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err)
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(1)
	}
	if config.GetEnvRequested() {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(0)
	}
	if config.HelpRequested() {
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(0)
	}
	log.I.Ln("log level", cfg.LogLevel)
	lol.SetLogLevel(cfg.LogLevel)
	if cfg.Pprof {
		defer profile.Start(profile.MemProfile).Stop()
		go func() {
			chk.E(http.ListenAndServe("127.0.0.1:6060", nil))
		}()
	}
	debug.SetMemoryLimit(cfg.MemLimit)
	var wg sync.WaitGroup
	c, cancel := context.Cancel(context.Bg())
	storage := sett.New(sett.Params{
		Ctx:      c,
		WG:       &wg,
		LogLevel: lol.GetLogLevel(cfg.DbLogLevel),
		MaxLimit: cfg.MaxLimit,
	})
	if err = storage.Init(filepath.Join(cfg.Profile, "store")); chk.F(err) {
		os.Exit(1)
	}
	quotas := ratelimit.DefaultQuotas()
	var overrides map[uint16]no
	if overrides, err = cfg.KindQuotas(); chk.F(err) {
		os.Exit(1)
	}
	for k, q := range overrides {
		quotas[k] = q
	}
	limiter := ratelimit.New(ratelimit.Params{
		Ctx:     c,
		Window:  cfg.RateWindow,
		Quotas:  quotas,
		Default: cfg.RateQuota,
	})
	for _, pk := range cfg.Whitelist {
		var pkb by
		if pkb, err = hex.Dec(pk); chk.E(err) {
			continue
		}
		limiter.Authorize(pkb)
	}
	dispatcher := hook.New(hook.Params{
		Store:   storage,
		Timeout: cfg.HookTimeout,
	})
	publishers := publish.New()
	publishers.RegisterAll(dispatcher)
	var auth relay.Auth
	if cfg.AuthRequired {
		log.I.Ln("relay requires auth for writing")
		auth = relay.NewGate()
	}
	pipeline := relay.New(relay.Params{
		Auth:       auth,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Store:      storage,
	})
	go auditor(c, pipeline)
	log.I.F("%s admission pipeline running on store at %s", cfg.AppName,
		storage.Path())
	interrupt.AddHandler("store", func() {
		cancel()
		wg.Wait()
		chk.E(storage.Close())
	})
	<-interrupt.HandlersDone
}
