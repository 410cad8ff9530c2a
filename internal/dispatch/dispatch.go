// Package dispatch is the single entry point the engine calls for every
// adapter request. It decodes the request, sets up logging for the call
// from the schema properties, looks up the configured adapter in an explicit
// registry and hands the request to it.
//
// Usage:
//
//	reg := dispatch.NewRegistry()
//	reg.Register("describe", dispatch.NewDescribeAdapter)
//	d := dispatch.New(reg, "describe", logger.DefaultConfig())
//	resp, err := d.AdapterCall(ctx, exaMeta, rawJSON)
package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/koustreak/vschema/internal/logger"
	"github.com/koustreak/vschema/internal/request"
)

// Version is reported in the debug log of every call.
const Version = "0.1.0"

// Dispatcher routes raw requests to the configured adapter.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	adapter  string
	logCfg   *logger.Config
	version  string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithVersion overrides the version string written to the log.
func WithVersion(v string) Option {
	return func(d *Dispatcher) { d.version = v }
}

// New creates a Dispatcher that serves every call with the adapter
// registered under adapter. logCfg is the baseline logging setup; nil uses
// logger.DefaultConfig.
func New(reg *Registry, adapter string, logCfg *logger.Config, opts ...Option) *Dispatcher {
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
	}
	d := &Dispatcher{registry: reg, adapter: adapter, logCfg: logCfg, version: Version}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AdapterCall decodes raw and executes it with the configured adapter.
//
// Each call gets its own logger: LOG_LEVEL and DEBUG_ADDRESS from the schema
// properties override the baseline, and every line carries a fresh call_id.
// Decode failures are returned as *errs.Error and logged at error level.
func (d *Dispatcher) AdapterCall(ctx context.Context, exaMeta any, raw string) (string, error) {
	callID := uuid.NewString()

	req, err := request.Decode([]byte(raw))
	if err != nil {
		log := logger.New(d.logCfg).With().Str("call_id", callID).Logger()
		log.ErrorWith("failed to decode adapter request", err, map[string]any{"length": len(raw)})
		return "", err
	}

	info := req.SchemaMetadataInfo()
	root := logger.NewRemote(logger.ConfigFromProperties(info.Properties, d.logCfg))
	defer root.Close()
	log := root.With().
		Str("call_id", callID).
		Str("schema", info.Name).
		Str("request_type", string(req.Type())).
		Logger()

	if level, ok := info.Property(logger.PropertyLogLevel); ok && level != "" && !logger.ValidLevel(level) {
		log.With().Str("log_level", level).Logger().Warn("unknown LOG_LEVEL, using info")
	}
	log.Debugf("Adapter %s, dispatcher version %s", d.adapter, d.version)
	log.DebugWith("raw request", map[string]any{"request": raw})

	a, err := d.registry.New(d.adapter, log)
	if err != nil {
		log.ErrorWith("adapter lookup failed", err, nil)
		return "", err
	}

	resp, err := a.Handle(log.WithContext(ctx), exaMeta, req)
	if err != nil {
		log.ErrorWith("adapter failed", err, nil)
		return "", err
	}
	log.Debug("request handled")
	return resp, nil
}
