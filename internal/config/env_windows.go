//go:build windows

package config

// windowsEnv maps the Unix variable names used in configs to their
// Windows equivalents.
var windowsEnv = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"HOME":     "USERPROFILE",
	"USER":     "USERNAME",
}

func mapEnvKey(key string) string {
	if mapped, ok := windowsEnv[key]; ok {
		return mapped
	}
	return key
}
