// Package config loads the relay configuration from the environment and an
// optional .env file in the profile directory. It is intentionally minimal;
// anything more elaborate belongs in the event store itself where protocol
// events can change it.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-simpler.org/env"

	"github.com/joinnextblock/attn-protocol-sub001/appdata"
	"github.com/joinnextblock/attn-protocol-sub001/config/keyvalue"
)

// C is the relay configuration.
type C struct {
	AppName        st            `env:"APP_NAME" default:"attnrelay"`
	Profile        st            `env:"PROFILE" usage:"directory for configuration and the event store (defaults to an OS specific location based on APP_NAME)"`
	LogLevel       st            `env:"LOG_LEVEL" default:"info" usage:"log level: off fatal error warn info debug trace"`
	DbLogLevel     st            `env:"DB_LOG_LEVEL" default:"info" usage:"event store log level: off fatal error warn info debug trace"`
	AuthRequired   bo            `env:"AUTH_REQUIRED" default:"false" usage:"require auth before accepting events"`
	Whitelist      []st          `env:"WHITELIST" usage:"hex pubkeys exempt from rate limiting"`
	RateWindow     time.Duration `env:"RATE_WINDOW" default:"1m" usage:"rate limit accounting window"`
	RateQuota      no            `env:"RATE_QUOTA" default:"60" usage:"default events per window for kinds without a specific quota"`
	RateKindQuotas []st          `env:"RATE_KIND_QUOTAS" usage:"per kind quota overrides as kind:count pairs, eg 38003:240,8000:1200"`
	HookTimeout    time.Duration `env:"HOOK_TIMEOUT" default:"5s" usage:"total time allowed for an event's admission hooks and storage write"`
	MaxLimit       no            `env:"MAX_LIMIT" default:"500" usage:"hard cap on events returned by one query"`
	Pprof          bo            `env:"PPROF" default:"false" usage:"enable pprof on 127.0.0.1:6060"`
	MemLimit       int64         `env:"MEM_LIMIT" default:"250000000" usage:"go runtime soft memory limit in bytes"`
}

// KindQuotas parses the RATE_KIND_QUOTAS kind:count pairs into a quota
// override table keyed by event kind.
func (cfg *C) KindQuotas() (quotas map[uint16]no, err er) {
	quotas = make(map[uint16]no)
	for _, pair := range cfg.RateKindQuotas {
		k, v, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found {
			return nil, errorf.E("malformed kind quota '%s', want kind:count",
				pair)
		}
		var kn uint64
		if kn, err = strconv.ParseUint(k, 10, 16); chk.E(err) {
			return nil, errorf.E("kind quota '%s' has invalid kind: %s",
				pair, err)
		}
		var count no
		if count, err = strconv.Atoi(v); chk.E(err) {
			return nil, errorf.E("kind quota '%s' has invalid count: %s",
				pair, err)
		}
		if count < 1 {
			return nil, errorf.E("kind quota '%s' must allow at least one "+
				"event per window", pair)
		}
		quotas[uint16(kn)] = count
	}
	return
}

// New loads the configuration from the environment, then overlays values
// from PROFILE/.env when that file exists. Environment variables win over
// the file.
func New() (cfg *C, err er) {
	cfg = &C{}
	if err = env.Load(cfg, &env.Options{SliceSep: ","}); chk.T(err) {
		return
	}
	if cfg.Profile == "" {
		cfg.Profile = appdata.Dir(cfg.AppName, true)
	}
	envPath := filepath.Join(cfg.Profile, ".env")
	if _, serr := os.Stat(envPath); serr == nil {
		var e Env
		if e, err = GetEnv(envPath); chk.T(err) {
			return
		}
		if err = env.Load(cfg, &env.Options{Source: e, SliceSep: ","}); chk.E(err) {
			return
		}
	}
	return
}

// Env is a key/value source loaded from a .env file, satisfying the
// go-simpler/env Source interface.
type Env map[st]st

// LookupEnv looks up a key in the loaded .env values.
func (e Env) LookupEnv(key st) (value st, ok bo) {
	value, ok = e[key]
	return
}

// GetEnv reads a .env style file of KEY=VALUE lines. Blank lines and lines
// starting with # are skipped, as is an optional leading "export ".
func GetEnv(path st) (e Env, err er) {
	var f *os.File
	if f, err = os.Open(path); chk.E(err) {
		return
	}
	defer f.Close()
	e = make(Env)
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		e[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	err = scan.Err()
	chk.E(err)
	return
}

// HelpRequested returns true if any of the common help invocations is the
// first command line parameter.
func HelpRequested() (help bo) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// GetEnvRequested returns true if the first command line parameter is "env",
// requesting a dump of the current configuration.
func GetEnvRequested() (requested bo) {
	return len(os.Args) > 1 && strings.ToLower(os.Args[1]) == "env"
}

// PrintEnv renders the current configuration as a shell script.
func PrintEnv(cfg *C, printer io.Writer) { keyvalue.PrintEnv(*cfg, printer) }

// PrintHelp outputs the configuration options and their defaults.
func PrintHelp(cfg *C, printer io.Writer) {
	_, _ = fmt.Fprintf(printer,
		"Environment variables that configure %s:\n\n", cfg.AppName)
	env.Usage(cfg, printer, &env.Options{SliceSep: ","})
	_, _ = fmt.Fprintf(printer,
		"\nCLI parameter 'help' also prints this information\n\n"+
			"a .env file at the PROFILE path is loaded automatically; "+
			"the environment overrides it\n\n"+
			"use the parameter 'env' to print the current configuration:\n\n"+
			"\t%s env>%s/.env\n\n", os.Args[0], cfg.Profile)
}
