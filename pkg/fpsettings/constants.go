package fpsettings

import (
	"os"
	"path/filepath"
)

const UserDir = "~/.filepick"

const (
	yamlConfigFileName = "config.yaml"
	tomlConfigFileName = "config.toml"
	LogFileName        = "filepick.log"
)

var osUserHomeDir = os.UserHomeDir

func GetUserDir() (string, error) {
	userHomeDir, err := osUserHomeDir()
	if err != nil {
		return UserDir, err
	}
	return filepath.Join(userHomeDir, UserDir[2:]), nil
}
