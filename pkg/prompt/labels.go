package prompt

import (
	"errors"
	"fmt"
	"strings"

	"ghbootstrap/pkg/config"
)

// Questionnaire asks how many labels to configure, then a name and a hex
// color for each one. Colors are stored with a leading '#'.
func Questionnaire(p *Prompter) (*config.Config, error) {
	count, err := p.Int("How many labels would you like to configure?", 0)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{Labels: make(config.Labels, 0, count)}
	seen := make(map[string]bool, count)

	for i := 1; i <= count; i++ {
		name, err := p.Input(fmt.Sprintf("Label %d name:", i), func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("a label name is required")
			}
			if seen[s] {
				return fmt.Errorf("label %q is already configured", s)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		seen[name] = true

		color, err := p.Input(fmt.Sprintf("Label %d hex value:", i), func(s string) error {
			if !config.IsValidColor(s) {
				return errors.New("enter 3 to 6 hex digits, optionally prefixed with #")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		cfg.Labels = append(cfg.Labels, config.Label{Name: name, Color: config.NormalizeColor(color)})
	}

	return cfg, nil
}
