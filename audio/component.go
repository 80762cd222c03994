package audio

import (
	"context"
	"strings"

	"github.com/kbukum/jumptube/component"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/process"
)

// ToolsComponent checks that the resolver and transcoder are installed.
// A missing tool is a deployment error: the service still starts, but
// health reports unhealthy and every extraction fails with TOOL_NOT_FOUND.
type ToolsComponent struct {
	cfg     Config
	log     *logger.Logger
	missing []string
}

// NewToolsComponent creates the tool check for cfg.
func NewToolsComponent(cfg Config, log *logger.Logger) *ToolsComponent {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &ToolsComponent{cfg: cfg, log: log.WithComponent("audio-tools")}
}

func (t *ToolsComponent) Name() string { return "audio-tools" }

func (t *ToolsComponent) Start(ctx context.Context) error {
	t.missing = t.check()
	for _, tool := range t.missing {
		t.log.Error("required tool not found on PATH", logger.Fields(logger.FieldTool, tool))
	}
	return nil
}

func (t *ToolsComponent) Stop(ctx context.Context) error { return nil }

func (t *ToolsComponent) Health(ctx context.Context) component.Health {
	missing := t.check()
	if len(missing) > 0 {
		return component.Health{
			Name:    t.Name(),
			Status:  component.StatusUnhealthy,
			Message: "missing: " + strings.Join(missing, ", "),
		}
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}

// Describe reports the configured tools for the startup summary.
func (t *ToolsComponent) Describe() component.Description {
	return component.Description{
		Name:    "Audio tools",
		Type:    "subprocess",
		Details: t.cfg.ResolverBinary + " + " + t.cfg.TranscoderBinary,
	}
}

func (t *ToolsComponent) check() []string {
	var missing []string
	for _, tool := range []string{t.cfg.ResolverBinary, t.cfg.TranscoderBinary} {
		if _, err := process.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
