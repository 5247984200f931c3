package app

import (
	"github.com/sirupsen/logrus"

	"github.com/vburojevic/registrar/internal/app/tui"
	"github.com/vburojevic/registrar/internal/app/tui/theme"
	applog "github.com/vburojevic/registrar/internal/log"
)

// runTUI opens the console with one tab per entity. The screen owns stdout,
// so logs only go to the configured log file.
func (c *cli) runTUI(startTab string) error {
	logger, closeLog, err := applog.New(applog.Options{
		File:    c.cfg.LogFile,
		Level:   c.cfg.LogLevel,
		Discard: c.cfg.LogFile == "",
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	b, err := openBackend(c.cfg, logger.WithField("tenant", c.cfg.Tenant))
	if err != nil {
		return err
	}
	tuiCfg, screens, err := buildTUI(c.cfg, b, logger, startTab)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"source": b.source(), "tabs": len(screens)}).Info("starting tui")
	return tui.Run(tuiCfg, screens...)
}

func buildTUI(cfg Config, b *backend, logger logrus.FieldLogger, startTab string) (tui.Config, []tui.Screen, error) {
	name := cfg.Theme
	if cfg.NoColor {
		name = theme.Plain.Name
	}
	styles := theme.NewStyles(theme.ThemeByName(name))
	keys := tui.DefaultKeyMap()

	opts := tui.ScreenOptions{
		PageSize:       cfg.PageSize,
		PruneSelection: cfg.PruneSelection,
		Timeout:        cfg.Timeout,
		Styles:         styles,
		Keys:           keys,
	}
	var screens []tui.Screen
	for _, bnd := range bindings() {
		opts.Logger = logger.WithField("entity", bnd.Name())
		s, err := bnd.Screen(b, opts)
		if err != nil {
			return tui.Config{}, nil, err
		}
		screens = append(screens, s)
	}
	return tui.Config{
		Tenant:   cfg.Tenant,
		Source:   b.source(),
		StartTab: startTab,
		Styles:   styles,
		Keys:     keys,
		Logger:   logger,
	}, screens, nil
}
