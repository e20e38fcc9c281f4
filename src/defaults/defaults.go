// Package defaults lets gorig start without a config file on disk.
//
// gorig reads ./_bin/<mode>.yaml or ./<mode>.yaml while it initializes and
// exits when neither exists. Import this package for its side effect before
// any gorig package: when no file is found, gorig's viper is pointed at an
// in-memory copy of Config so that commands run from any directory on
// environment variables alone. A file on disk always wins.
package defaults

import (
	"errors"
	"fmt"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
)

// Mode returns the gorig config name, GORIG_SYS_MODE or local.
func Mode() string {
	if m := os.Getenv("GORIG_SYS_MODE"); m != "" {
		return m
	}
	return "local"
}

// Config is the built-in configuration. Logs go to the temp dir instead of
// the working directory.
func Config() string {
	root := filepath.Join(os.TempDir(), "gorig-prof", "logs")
	return fmt.Sprintf(`sys:
  name: gorig-prof
logger:
  commons:
    root: %[1]s/commons/
    level: info
  console:
    root: %[1]s/console/
    level: info
  rest:
    root: %[1]s/rest/
    level: info
`, filepath.ToSlash(root))
}

func init() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	if Missing(dir, Mode()) {
		viper.SetFs(Fs(dir, Mode()))
	}
}

// Missing reports whether gorig would find no config file for mode in dir.
func Missing(dir, mode string) bool {
	v := viper.New()
	v.AddConfigPath(filepath.Join(dir, "_bin"))
	v.AddConfigPath(dir)
	v.SetConfigName(mode)
	v.SetConfigType("yaml")
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// Fs holds Config at dir/_bin/<mode>.yaml.
func Fs(dir, mode string) afero.Fs {
	fs := afero.NewMemMapFs()
	path := filepath.Join(dir, "_bin", mode+".yaml")
	_ = afero.WriteFile(fs, path, []byte(Config()), 0o644)
	return fs
}
