package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/core"
)

const (
	EnvPrefix        = "ADDONPACK"
	CurseforgeKeyEnv = "CURSEFORGE_API_KEY"
	GithubTokenEnv   = "GITHUB_TOKEN"
)

var (
	Version  string
	cfApiKey string
	ghApiKey string
)

func SetVersion(version string) {
	Version = version
}

// SetCurseforgeApiKey sets the base64 encoded key embedded at build time.
func SetCurseforgeApiKey(key string) {
	cfApiKey = key
}

func SetGitHubApiKey(key string) {
	ghApiKey = key
}

func DecodeCfApiKey() (string, error) {
	k, err := base64.StdEncoding.DecodeString(cfApiKey)
	if err != nil || len(k) == 0 {
		return "", fmt.Errorf("failed to decode CF API key: %v", err)
	}
	return string(k), nil
}

// Load reads a .env file from projectDir, if any, then the optional user config file
// and ADDONPACK_* environment variables. Values already in the environment win over .env.
func Load(projectDir string) error {
	if err := godotenv.Load(filepath.Join(projectDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("resolve.policy", string(core.ResolveEagerFail))

	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "addonpack"))
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// CurseforgeApiKey picks the key from CURSEFORGE_API_KEY, then the curseforge.api-key
// setting, then the key embedded at build time. Empty means CurseForge is unavailable.
func CurseforgeApiKey() string {
	if k := os.Getenv(CurseforgeKeyEnv); k != "" {
		return k
	}
	if k := viper.GetString("curseforge.api-key"); k != "" {
		return k
	}
	if cfApiKey == "" {
		return ""
	}
	k, err := DecodeCfApiKey()
	if err != nil {
		return ""
	}
	return k
}

func GetGhApiKey() string {
	if k := os.Getenv(GithubTokenEnv); k != "" {
		return k
	}
	if k := viper.GetString("github.token"); k != "" {
		return k
	}
	return ghApiKey
}

// ResolvePolicy is the configured dependency resolution policy.
func ResolvePolicy() (core.ResolvePolicy, error) {
	if viper.GetBool("best-effort") {
		return core.ResolveBestEffort, nil
	}
	return core.ParseResolvePolicy(viper.GetString("resolve.policy"))
}
