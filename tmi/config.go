// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package tmi

import (
	"errors"
	"fmt"
	"io/ioutil"
	"math/rand"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ergochat/tmi-go/tmi/caps"
	"github.com/ergochat/tmi-go/tmi/logger"
	"github.com/ergochat/tmi-go/tmi/ratelimit"
)

const (
	// DefaultServerAddress is the standard TLS endpoint of the chat service.
	DefaultServerAddress = "irc.chat.twitch.tv:6697"

	defaultNegotiationTimeout = 5 * time.Second
	defaultQueueSize          = 64
)

// DispatchPolicy selects how the dispatcher behaves when the subscriber
// falls behind and its queue fills up.
type DispatchPolicy string

const (
	// DispatchBlock stalls the read loop until the subscriber catches up
	// (backpressure propagates to the TCP window).
	DispatchBlock DispatchPolicy = "block"
	// DispatchDropOldest evicts the oldest queued event to admit the newest.
	DispatchDropOldest DispatchPolicy = "drop-oldest"
)

var (
	ErrServerAddressMissing  = errors.New("server address is missing from the config")
	ErrInvalidDispatchPolicy = errors.New("dispatch policy must be 'block' or 'drop-oldest'")
)

// ServerConfig locates the server and selects the transport.
type ServerConfig struct {
	Address   string `yaml:"address"`
	TLS       bool   `yaml:"tls"`
	Websocket bool   `yaml:"websocket"`
}

// DispatchConfig bounds the inbound event queue.
type DispatchConfig struct {
	QueueSize int            `yaml:"queue-size"`
	Policy    DispatchPolicy `yaml:"policy"`
}

// RateLimitConfig carries the two outbound buckets. The defaults correspond
// to the documented limits for an ordinary (non-verified) account.
type RateLimitConfig struct {
	Default ratelimit.BucketConfig `yaml:"default"`
	Join    ratelimit.BucketConfig `yaml:"join"`
}

// Config is the root of the YAML configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`

	// Nick is the login name. Leave it empty for a read-only anonymous
	// session under a justinfan nick.
	Nick string `yaml:"nick"`
	// Pass is the OAuth token, with or without the oauth: prefix.
	Pass string `yaml:"pass"`

	Caps []caps.Capability `yaml:"caps"`

	NegotiationTimeout time.Duration `yaml:"negotiation-timeout"`

	RateLimits RateLimitConfig `yaml:"rate-limits"`

	Dispatch DispatchConfig `yaml:"dispatch"`

	Logging []logger.LoggingConfig `yaml:"logging"`

	// Filename is the source path of the config, for error messages.
	Filename string `yaml:"-"`
}

// DefaultConfig returns the configuration of an anonymous read-only
// session against the public endpoint.
func DefaultConfig() *Config {
	config := &Config{}
	if err := config.postprocess(); err != nil {
		// a zero config always postprocesses cleanly
		panic(err)
	}
	return config
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.Filename = filename

	if err = config.postprocess(); err != nil {
		return nil, err
	}
	return config, nil
}

// postprocess fills in defaults and rejects inconsistencies. A zero Config
// postprocesses into a working anonymous connection to the public endpoint.
func (config *Config) postprocess() error {
	if config.Server.Address == "" {
		config.Server.Address = DefaultServerAddress
		config.Server.TLS = true
	}

	if config.Nick == "" {
		config.Nick = anonymousNick()
		config.Pass = ""
	}
	if config.Pass != "" && !strings.HasPrefix(config.Pass, "oauth:") {
		config.Pass = "oauth:" + config.Pass
	}

	if config.Caps == nil {
		config.Caps = caps.Supported()
	}

	if config.NegotiationTimeout == 0 {
		config.NegotiationTimeout = defaultNegotiationTimeout
	}

	if config.RateLimits.Default.Capacity == 0 {
		config.RateLimits.Default = ratelimit.BucketConfig{Capacity: 20, Window: 30 * time.Second}
	}
	if config.RateLimits.Join.Capacity == 0 {
		config.RateLimits.Join = ratelimit.BucketConfig{Capacity: 20, Window: 10 * time.Second}
	}

	if config.Dispatch.QueueSize <= 0 {
		config.Dispatch.QueueSize = defaultQueueSize
	}
	switch config.Dispatch.Policy {
	case "":
		config.Dispatch.Policy = DispatchBlock
	case DispatchBlock, DispatchDropOldest:
	default:
		return ErrInvalidDispatchPolicy
	}

	return nil
}

// anonymousNick generates a justinfan nick; the server accepts any such
// nick without credentials and grants a read-only session.
func anonymousNick() string {
	return fmt.Sprintf("justinfan%d", 10000+rand.Intn(80000))
}
