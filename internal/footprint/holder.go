package footprint

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PolicyHolder keeps the active policy and swaps it when footprint.yml changes.
type PolicyHolder struct {
	current atomic.Value // holds Policy
	log     *zap.Logger
	source  string
}

// NewPolicyHolder reads footprint.yml from dir (and the usual system paths).
// A missing file yields DefaultPolicy; a present but invalid file is an error.
func NewPolicyHolder(dir string, log *zap.Logger) (*PolicyHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	v := viper.New()
	v.SetConfigName("footprint")
	v.SetConfigType("yml")
	if dir = strings.TrimSpace(dir); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/eltrackr")
	v.AddConfigPath(".")

	setPolicyDefaults(v, DefaultPolicy())

	h := &PolicyHolder{log: log.Named("footprint.policy")}

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	policy, err := decodePolicy(v)
	if err != nil {
		return nil, err
	}
	h.current.Store(policy)

	if !found {
		h.source = "builtin"
		h.log.Info("using built-in footprint policy", zap.String("policy", policy.Name))
		return h, nil
	}

	h.source = v.ConfigFileUsed()
	h.log.Info("footprint policy loaded",
		zap.String("policy", policy.Name),
		zap.String("file", h.source),
	)

	v.OnConfigChange(func(e fsnotify.Event) {
		// Editors and shell redirection truncate before writing; an empty
		// read would otherwise decode to the defaults and replace the policy.
		if !v.InConfig("footprint") {
			h.log.Debug("footprint policy file has no footprint section, keeping current policy", zap.String("file", e.Name))
			return
		}
		updated, err := decodePolicy(v)
		if err != nil {
			h.log.Warn("footprint policy change ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		h.current.Store(updated)
		h.log.Info("footprint policy reloaded", zap.String("policy", updated.Name), zap.String("file", e.Name))
	})
	v.WatchConfig()

	return h, nil
}

// Current returns the policy in force.
func (h *PolicyHolder) Current() Policy {
	return h.current.Load().(Policy)
}

// Source is the file the policy was read from, or "builtin".
func (h *PolicyHolder) Source() string {
	return h.source
}

type policyFile struct {
	Footprint Policy `mapstructure:"footprint"`
}

// decodePolicy goes through Unmarshal rather than UnmarshalKey so that keys
// missing from the file fall back to their defaults one by one.
func decodePolicy(v *viper.Viper) (Policy, error) {
	var f policyFile
	if err := v.Unmarshal(&f); err != nil {
		return Policy{}, err
	}
	if err := f.Footprint.Validate(); err != nil {
		return Policy{}, err
	}
	return f.Footprint, nil
}

func setPolicyDefaults(v *viper.Viper, p Policy) {
	v.SetDefault("footprint.name", p.Name)
	v.SetDefault("footprint.energyWeight", p.EnergyWeight)
	v.SetDefault("footprint.waterWeight", p.WaterWeight)
	v.SetDefault("footprint.transportWeight", p.TransportWeight)
	v.SetDefault("footprint.highTotal", p.HighTotal)
	v.SetDefault("footprint.moderateTotal", p.ModerateTotal)
	v.SetDefault("footprint.energyThreshold", p.EnergyThreshold)
	v.SetDefault("footprint.waterThreshold", p.WaterThreshold)
	v.SetDefault("footprint.transportThreshold", p.TransportThreshold)
	v.SetDefault("footprint.treeOffsetDivisor", p.TreeOffsetDivisor)
}
