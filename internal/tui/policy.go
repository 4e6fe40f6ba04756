package tui

import (
	"strings"

	"github.com/orenlev/tabwell/internal/config"
	"github.com/orenlev/tabwell/internal/stacks"
)

// ConfigPolicy adapts live configuration to the stacks placement policy.
// Values are read per call, so settings changes apply to the next open.
type ConfigPolicy struct {
	cfg *config.Config
}

func NewConfigPolicy(cfg *config.Config) ConfigPolicy {
	return ConfigPolicy{cfg: cfg}
}

func (p ConfigPolicy) OpenSide() stacks.OpenSide {
	if strings.EqualFold(strings.TrimSpace(p.cfg.Editor.OpenSide), "left") {
		return stacks.OpenLeft
	}
	return stacks.OpenRight
}

func (p ConfigPolicy) PreviewEnabled() bool {
	return p.cfg.Editor.EnablePreview
}
