// Package config loads the service settings and the run parameters with viper.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/askiada/go-anvio/pkg/anvio"
)

// EnvPrefix prefixes the environment variables overriding the settings.
const EnvPrefix = "ANVIO"

// Service holds everything the command line needs besides the run parameters.
type Service struct {
	Settings    anvio.Settings `mapstructure:",squash"`
	CallbackURL string         `mapstructure:"callback_url"`
	Token       string         `mapstructure:"token"`
	Local       bool           `mapstructure:"local"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	Graph       string         `mapstructure:"graph"`
	LogLevel    string         `mapstructure:"log_level"`
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	s := anvio.DefaultSettings()
	v.SetDefault("scratch", s.Scratch)
	v.SetDefault("result_dir_name", s.ResultDirName)
	v.SetDefault("anvio_threads", s.AnvioThreads)
	v.SetDefault("annotation_threads", s.AnnotationThreads)
	v.SetDefault("mapping_threads", s.MappingThreads)
	v.SetDefault("bbmap_memory", s.BBMapMemory)
	v.SetDefault("cog_data_dir", s.COGDataDir)
	v.SetDefault("pfam_data_dir", s.PfamDataDir)
	v.SetDefault("kegg_data_dir", s.KEGGDataDir)
	v.SetDefault("interacdome_data_dir", s.InteracDomeDir)
	v.SetDefault("template", s.Template)
	v.SetDefault("callback_url", "")
	v.SetDefault("token", "")
	v.SetDefault("local", false)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("graph", "")
	v.SetDefault("log_level", "info")
}

// NewViper returns a viper instance reading the defaults and the environment.
// SDK_CALLBACK_URL and KB_AUTH_TOKEN are honoured as well as their prefixed names.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("callback_url", EnvPrefix+"_CALLBACK_URL", "SDK_CALLBACK_URL")
	_ = v.BindEnv("token", EnvPrefix+"_TOKEN", "KB_AUTH_TOKEN")

	return v
}

// LoadService reads the optional settings file at path into v and decodes the result.
// Values already bound on v, such as command line flags, take precedence over the file.
func LoadService(v *viper.Viper, path string) (*Service, error) {
	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read settings %s", path)
		}
	}

	svc := &Service{}
	err := v.Unmarshal(svc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode settings")
	}

	err = svc.Settings.Validate()
	if err != nil {
		return nil, err
	}

	return svc, nil
}

// LoadRunConfig reads the run parameters at path. Every key of anvio.RequiredParams must be
// present; the parameters are then validated.
func LoadRunConfig(path string) (anvio.RunConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	err := v.ReadInConfig()
	if err != nil {
		return anvio.RunConfig{}, errors.Wrapf(err, "unable to read parameters %s", path)
	}

	for _, key := range anvio.RequiredParams {
		if !v.IsSet(key) {
			return anvio.RunConfig{}, &anvio.ValidationError{Field: key}
		}
	}

	var cfg anvio.RunConfig
	err = v.Unmarshal(&cfg)
	if err != nil {
		return anvio.RunConfig{}, errors.Wrapf(err, "unable to decode parameters %s", path)
	}

	return cfg, cfg.Validate()
}
