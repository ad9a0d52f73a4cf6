package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/medprep-cli/internal/clean"
	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/prep"
)

// Global configuration structure.
type Global struct {
	TargetColumn       string   `mapstructure:"target_column" yaml:"target_column"`
	IDColumn           string   `mapstructure:"id_column" yaml:"id_column"`
	NumericTextColumns []string `mapstructure:"numeric_text_columns" yaml:"numeric_text_columns"`
	CategoricalColumns []string `mapstructure:"categorical_columns" yaml:"categorical_columns"`
	TextListColumns    []string `mapstructure:"text_list_columns" yaml:"text_list_columns"`
	HealthColumns      []string `mapstructure:"health_columns" yaml:"health_columns"`
	AgeColumn          string   `mapstructure:"age_column" yaml:"age_column"`

	// Preprocessing
	KNNNeighbors    int      `mapstructure:"knn_neighbors" yaml:"knn_neighbors"`
	OutlierMethod   string   `mapstructure:"outlier_method" yaml:"outlier_method"`
	ScalingMethod   string   `mapstructure:"scaling_method" yaml:"scaling_method"`
	TestSize        float64  `mapstructure:"test_size" yaml:"test_size"`
	RandomSeed      int64    `mapstructure:"random_seed" yaml:"random_seed"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	EncodeTextLists bool     `mapstructure:"encode_text_lists" yaml:"encode_text_lists"`

	// Input/output
	ResultsDir string `mapstructure:"results_dir" yaml:"results_dir"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the recognised configuration keys in display order.
var Keys = []string{
	"target_column", "id_column", "numeric_text_columns", "categorical_columns",
	"text_list_columns", "health_columns", "age_column", "knn_neighbors",
	"outlier_method", "scaling_method", "test_size", "random_seed",
	"exclude_patterns", "encode_text_lists", "results_dir", "delimiter",
	"sheet_name", "sheet_index", "log_level", "log_format",
}

// configDir returns ~/.medprep.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".medprep"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.medprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	s := dataset.DefaultSchema()
	p := prep.DefaultOptions()
	v.SetDefault("target_column", s.Target)
	v.SetDefault("id_column", s.Identifier)
	v.SetDefault("numeric_text_columns", s.NumericText)
	v.SetDefault("categorical_columns", s.Categorical)
	v.SetDefault("text_list_columns", s.TextList)
	v.SetDefault("health_columns", p.HealthColumns)
	v.SetDefault("age_column", p.AgeColumn)
	v.SetDefault("knn_neighbors", p.KNNNeighbors)
	v.SetDefault("outlier_method", string(p.OutlierMethod))
	v.SetDefault("scaling_method", string(p.ScalingMethod))
	v.SetDefault("test_size", p.TestSize)
	v.SetDefault("random_seed", p.RandomSeed)
	v.SetDefault("exclude_patterns", p.ExcludePatterns)
	v.SetDefault("encode_text_lists", p.EncodeTextLists)
	v.SetDefault("results_dir", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MEDPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ResultsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ResultsDir = filepath.Join(dir, "results")
	}
	return &c, nil
}

// Validate rejects unknown methods and out-of-range values before any data is read.
func (c *Global) Validate() error {
	if err := c.Prep().Validate(); err != nil {
		return err
	}
	if _, err := c.delimiter(); err != nil {
		return err
	}
	if c.SheetIndex < 0 {
		return fmt.Errorf("%w: sheet index %d must be >= 0", prep.ErrInvalidConfig, c.SheetIndex)
	}
	return nil
}

func (c *Global) delimiter() (rune, error) {
	switch d := c.Delimiter; {
	case d == "":
		return 0, nil
	case d == `\t` || strings.EqualFold(d, "tab"):
		return '\t', nil
	case utf8.RuneCountInString(d) == 1:
		r, _ := utf8.DecodeRuneInString(d)
		return r, nil
	default:
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", prep.ErrInvalidConfig, d)
	}
}

// Schema returns the column-name conventions.
func (c *Global) Schema() dataset.Schema {
	return dataset.Schema{
		Target:      c.TargetColumn,
		Identifier:  c.IDColumn,
		NumericText: c.NumericTextColumns,
		Categorical: c.CategoricalColumns,
		TextList:    c.TextListColumns,
	}
}

// LoadOptions returns the loader settings. Call Validate first.
func (c *Global) LoadOptions() dataset.LoadOptions {
	d, _ := c.delimiter()
	return dataset.LoadOptions{
		Delimiter:  d,
		SheetName:  c.SheetName,
		SheetIndex: c.SheetIndex,
		Schema:     c.Schema(),
	}
}

// Clean returns the cleaning options.
func (c *Global) Clean() clean.Options {
	return clean.OptionsFromSchema(c.Schema())
}

// Prep returns the preprocessing options.
func (c *Global) Prep() prep.Options {
	return prep.Options{
		Target:          c.TargetColumn,
		Identifier:      c.IDColumn,
		AgeColumn:       c.AgeColumn,
		HealthColumns:   c.HealthColumns,
		KNNNeighbors:    c.KNNNeighbors,
		OutlierMethod:   prep.OutlierMethod(strings.ToLower(c.OutlierMethod)),
		ScalingMethod:   prep.ScalingMethod(strings.ToLower(c.ScalingMethod)),
		TestSize:        c.TestSize,
		RandomSeed:      c.RandomSeed,
		ExcludePatterns: c.ExcludePatterns,
		EncodeTextLists: c.EncodeTextLists,
	}
}

// Map returns the configuration keyed by its YAML names.
func (c *Global) Map() (map[string]any, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return out, nil
}

// Set assigns one key from its string form, as typed on the command line.
// List values are comma-separated.
func (c *Global) Set(key, value string) error {
	m, err := c.Map()
	if err != nil {
		return err
	}
	known := false
	for _, k := range Keys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown key: %s", key)
	}
	switch m[key].(type) {
	case string:
		m[key] = value
	case []any, nil:
		if isListKey(key) {
			var items []string
			for _, s := range strings.Split(value, ",") {
				if s = strings.TrimSpace(s); s != "" {
					items = append(items, s)
				}
			}
			m[key] = items
		} else {
			m[key] = value
		}
	default:
		var parsed any
		if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
			parsed = value
		}
		m[key] = parsed
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	var next Global
	if err := yaml.Unmarshal(b, &next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*c = next
	return nil
}

func isListKey(key string) bool {
	return strings.HasSuffix(key, "_columns") || key == "exclude_patterns"
}
