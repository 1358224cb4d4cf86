package config

import "strings"

// envPrefix marks structured overrides, e.g. APP_CATALOG_BATCH_SIZE.
const envPrefix = "APP_"

// envKeyMapper resolves an APP_ variable against the known keys, so
// APP_CLIENT_RETRY_MAX_ATTEMPTS sets client.retry.max_attempts rather than
// client.retry.max.attempts. Unknown names map every "_" to ".".
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := byEnv[name]; ok {
			return key
		}
		return strings.ReplaceAll(name, "_", ".")
	}
}

// legacyEnv maps the flat variables of earlier deployments onto config keys.
// Millisecond values get an "ms" suffix so they parse as durations.
var legacyEnv = map[string]struct {
	key  string
	conv func(string) any
}{
	"POKEAPI_BASE":    {key: "services.pokeapi.base_url", conv: asString},
	"CACHE_TTL_MS":    {key: "catalog.cache_ttl", conv: asMillis},
	"BATCH_SIZE":      {key: "catalog.batch_size", conv: asString},
	"HTTP_TIMEOUT_MS": {key: "client.timeout", conv: asMillis},
	"PORT":            {key: "server.port", conv: asString},
	"FRONTEND_URL":    {key: "cors.allowed_origins", conv: asList},
}

// legacyOverrides picks the legacy variables out of environ ("NAME=value"
// pairs, as from os.Environ). Blank values are dropped.
func legacyOverrides(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		name, value, _ := strings.Cut(kv, "=")
		legacy, ok := legacyEnv[name]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		out[legacy.key] = legacy.conv(value)
	}
	return out
}

func asString(v string) any { return v }

func asMillis(v string) any { return strings.TrimSpace(v) + "ms" }

func asList(v string) any {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
