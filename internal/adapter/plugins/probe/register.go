package probe

import (
	"fmt"
	"time"

	"github.com/Strob0t/NetForge/internal/port/plugin"
)

func init() {
	plugin.RegisterFactory("probe", func(params map[string]string) (plugin.Component, error) {
		interval := DefaultInterval
		if v, ok := params["interval"]; ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("probe: bad interval %q: %w", v, err)
			}
			interval = d
		}
		return New(interval), nil
	})
}
