package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Battle BattleConfig `mapstructure:"battle"`
	Sim    SimConfig    `mapstructure:"sim"`
	Report ReportConfig `mapstructure:"report"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type BattleConfig struct {
	Length       float64 `mapstructure:"length"`
	AutoHeal     bool    `mapstructure:"auto_heal"`
	Verbose      bool    `mapstructure:"verbose"` // print the transcript of the first trial
	LapDistance  float64 `mapstructure:"lap_distance"`
	InitialSP    int     `mapstructure:"initial_sp"`
	SPCap        int     `mapstructure:"sp_cap"`
	MaxReactions int     `mapstructure:"max_reactions"`
	MaxSteps     int     `mapstructure:"max_steps"`
	MaxMiniTurns int     `mapstructure:"max_mini_turns"`
	ExpectedCrit bool    `mapstructure:"expected_crit"`
}

type SimConfig struct {
	Trials     int    `mapstructure:"trials"`
	Seed       int64  `mapstructure:"seed"` // 0 picks a random seed
	Workers    int    `mapstructure:"workers"`
	RosterPath string `mapstructure:"roster_path"`
}

type ReportConfig struct {
	Mode          string        `mapstructure:"mode"` // none | sqlite | mysql
	SQLitePath    string        `mapstructure:"sqlite_path"`
	MySQLDSN      string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen  int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle  int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife  time.Duration `mapstructure:"mysql_max_life"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.debug", false)
	v.SetDefault("battle.length", 850)
	v.SetDefault("battle.auto_heal", false)
	v.SetDefault("battle.verbose", false)
	v.SetDefault("battle.lap_distance", 10000)
	v.SetDefault("battle.initial_sp", 3)
	v.SetDefault("battle.sp_cap", 5)
	v.SetDefault("battle.max_reactions", 10000)
	v.SetDefault("battle.max_steps", 64)
	v.SetDefault("battle.max_mini_turns", 16)
	v.SetDefault("battle.expected_crit", true)
	v.SetDefault("sim.trials", 1)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("sim.roster_path", "./data/roster.yaml")
	v.SetDefault("report.mode", "none")
	v.SetDefault("report.sqlite_path", "./data/railsim.db")
	v.SetDefault("report.mysql_max_open", 10)
	v.SetDefault("report.mysql_max_idle", 5)
	v.SetDefault("report.mysql_max_life", "1h")
	v.SetDefault("report.batch_size", 100)
	v.SetDefault("report.flush_interval", "2s")
}

// Load reads config from the given YAML file path. Every key can be
// overridden from the environment as RAILSIM_<SECTION>_<KEY>.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("railsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the configuration with every key at its default.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
