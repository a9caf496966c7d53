package weave

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the serializable form of an Environment's settings, loaded
// from a YAML file so deployments can tune syntax, whitespace handling
// and caching without a rebuild.
type Config struct {
	Syntax struct {
		BlockStart          string `yaml:"block_start"`
		BlockEnd            string `yaml:"block_end"`
		VarStart            string `yaml:"var_start"`
		VarEnd              string `yaml:"var_end"`
		CommentStart        string `yaml:"comment_start"`
		CommentEnd          string `yaml:"comment_end"`
		LineStatementPrefix string `yaml:"line_statement_prefix"`
	} `yaml:"syntax"`

	Whitespace struct {
		TrimBlocks   bool `yaml:"trim_blocks"`
		LstripBlocks bool `yaml:"lstrip_blocks"`
	} `yaml:"whitespace"`

	Graceful bool `yaml:"graceful"`

	Cache struct {
		Enabled            bool          `yaml:"enabled"`
		TTL                time.Duration `yaml:"ttl"`
		MaxEntries         int           `yaml:"max_entries"`
		CacheVoidCallbacks bool          `yaml:"cache_void_callbacks"`
	} `yaml:"cache"`

	TemplateDir string `yaml:"template_dir"`
}

// LoadConfigFile reads and applies a YAML config file to env.
func (env *Environment) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewError(ErrFileIO, err.Error())
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return NewError(ErrConfiguration, err.Error())
	}
	return env.ApplyConfig(&cfg)
}

// ApplyConfig applies cfg's settings to env.
func (env *Environment) ApplyConfig(cfg *Config) error {
	syn := env.syntaxConfig
	if cfg.Syntax.BlockStart != "" {
		syn.BlockStart = cfg.Syntax.BlockStart
	}
	if cfg.Syntax.BlockEnd != "" {
		syn.BlockEnd = cfg.Syntax.BlockEnd
	}
	if cfg.Syntax.VarStart != "" {
		syn.VarStart = cfg.Syntax.VarStart
	}
	if cfg.Syntax.VarEnd != "" {
		syn.VarEnd = cfg.Syntax.VarEnd
	}
	if cfg.Syntax.CommentStart != "" {
		syn.CommentStart = cfg.Syntax.CommentStart
	}
	if cfg.Syntax.CommentEnd != "" {
		syn.CommentEnd = cfg.Syntax.CommentEnd
	}
	if cfg.Syntax.LineStatementPrefix != "" {
		syn.LineStatementPrefix = cfg.Syntax.LineStatementPrefix
	}
	env.SetSyntax(syn)

	ws := env.wsConfig
	ws.TrimBlocks = cfg.Whitespace.TrimBlocks
	ws.LstripBlocks = cfg.Whitespace.LstripBlocks
	env.SetWhitespace(ws)

	env.SetGraceful(cfg.Graceful)

	if cfg.Cache.Enabled {
		cacheCfg := DefaultCallbackCacheConfig()
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		if cfg.Cache.MaxEntries > 0 {
			cacheCfg.MaxEntries = cfg.Cache.MaxEntries
		}
		cacheCfg.CacheVoidCallbacks = cfg.Cache.CacheVoidCallbacks
		env.cache = NewCallbackCache(cacheCfg)
	}

	if cfg.TemplateDir != "" {
		if err := env.AddTemplateDir(cfg.TemplateDir); err != nil {
			return err
		}
	}

	return nil
}
