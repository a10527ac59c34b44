package auditlog

import (
	"fmt"
	"strconv"

	"github.com/Strob0t/NetForge/internal/port/plugin"
)

func init() {
	plugin.RegisterFactory("auditlog", func(params map[string]string) (plugin.Component, error) {
		capacity := DefaultCapacity
		if v, ok := params["capacity"]; ok {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("auditlog: bad capacity %q", v)
			}
			capacity = n
		}
		return New(capacity), nil
	})
}
