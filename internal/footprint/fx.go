package footprint

import (
	"github.com/smallbiznis/eltrackr/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("footprint",
	fx.Provide(
		providePolicyHolder,
		provideCalculator,
	),
)

func providePolicyHolder(cfg config.Config, log *zap.Logger) (*PolicyHolder, error) {
	return NewPolicyHolder(cfg.FootprintConfigPath, log)
}

func provideCalculator(h *PolicyHolder) *Calculator {
	return NewCalculator(h)
}
