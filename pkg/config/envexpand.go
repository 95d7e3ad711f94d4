package config

import "os"

// ExpandEnv expands ${VAR}/$VAR references in a raw YAML document before
// parsing, so a config file can read `api_key_env: OPENAI_API_KEY` while
// other fields reference environment values directly.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
