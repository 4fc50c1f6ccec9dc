package loader

// Overlay returns base with over laid on top of it. Tables present in both
// merge key by key; any other value from over wins. Neither map is
// modified, so the defaults map can be reused.
func Overlay(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if table, ok := v.(map[string]any); ok {
			if under, ok := out[k].(map[string]any); ok {
				out[k] = Overlay(under, table)
				continue
			}
		}
		out[k] = v
	}
	return out
}
