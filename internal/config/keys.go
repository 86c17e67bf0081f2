package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key   string
	typ   keyType
	env   string
	apply func(cfg *Config, v any)
}

var specs = []keySpec{
	{
		key: "groq.api_key", typ: kString, env: "GROQ_API_KEY",
		apply: func(cfg *Config, v any) { cfg.Groq.APIKey = v.(string) },
	},
	{
		key: "groq.model", typ: kString, env: "GROQ_MODEL",
		apply: func(cfg *Config, v any) { cfg.Groq.Model = v.(string) },
	},
	{
		key: "groq.base_url", typ: kString, env: "DOCASK_GROQ_BASE_URL",
		apply: func(cfg *Config, v any) { cfg.Groq.BaseURL = v.(string) },
	},
	{
		key: "groq.timeout", typ: kString, env: "DOCASK_GROQ_TIMEOUT",
		apply: func(cfg *Config, v any) { cfg.Groq.Timeout = v.(string) },
	},
	{
		key: "storage.data_dir", typ: kString, env: "DOCASK_STORAGE_DATA_DIR",
		apply: func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
	},
	{
		key: "storage.users_file", typ: kString, env: "DOCASK_STORAGE_USERS_FILE",
		apply: func(cfg *Config, v any) { cfg.Storage.UsersFile = v.(string) },
	},
	{
		key: "server.port", typ: kInt, env: "DOCASK_SERVER_PORT",
		apply: func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
	},
	{
		key: "server.token", typ: kString, env: "DOCASK_SERVER_TOKEN",
		apply: func(cfg *Config, v any) { cfg.Server.Token = v.(string) },
	},
	{
		key: "log.level", typ: kString, env: "DOCASK_LOG_LEVEL",
		apply: func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
