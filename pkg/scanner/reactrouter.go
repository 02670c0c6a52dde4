package scanner

import (
	"strings"
)

// discoverReactRouter expands the route config tree into route templates.
func discoverReactRouter(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		return templateRoutes(opts.Pages), nil
	}
	if opts.RouterConfig == nil {
		return nil, ErrMissingRouterConfig
	}

	var templates []string
	for _, entry := range opts.RouterConfig {
		templates = expandRouteEntry(templates, entry, nil)
	}
	return templateRoutes(templates), nil
}

// expandRouteEntry appends the route templates declared by entry and its
// children. Every optional ("name?") segment doubles the combinations along
// the branch: one without the segment and one with it.
func expandRouteEntry(out []string, entry RouteConfigEntry, parent []string) []string {
	fullPath := append(append([]string{}, parent...), strings.Split(entry.Path, "/")...)

	if entry.Path != "" {
		combinations := [][]string{{}}
		push := func(item string, optional bool) {
			if optional {
				n := len(combinations)
				for i := 0; i < n; i++ {
					combinations = append(combinations, append(append([]string{}, combinations[i]...), item))
				}
				return
			}
			for i := range combinations {
				combinations[i] = append(combinations[i], item)
			}
		}

		for _, name := range fullPath {
			if name == "" {
				continue
			}
			optional := strings.HasSuffix(name, "?")
			name = strings.TrimSuffix(name, "?")

			switch {
			case strings.HasPrefix(name, ":"):
				push("["+name[1:]+"]", optional)
			case name == "*":
				push("[[...splat]]", optional)
			default:
				push(name, optional)
			}
		}

		for _, c := range combinations {
			out = append(out, strings.Join(c, "/"))
		}
	}

	for _, child := range entry.Children {
		out = expandRouteEntry(out, child, fullPath)
	}
	return out
}
