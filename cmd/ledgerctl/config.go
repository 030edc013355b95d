// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aronisstav/learn-blockchain/common/util"
	"github.com/aronisstav/learn-blockchain/config"
)

const (
	defaultDataDirname = "data"
	defaultLogLevel    = "info"
	defaultFileName    = "blocks.dat"
)

var (
	defaultHomeDir = util.AppDataDir("ledgerd", false)
	defaultDataDir = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultDbType  = "bdb"
	defaultMiner   = "local"
)

type Config struct {
	HomeDir    string
	DataDir    string
	DbType     string
	Miner      string
	DebugLevel string

	OutputPath string
	InputPath  string
	DisableBar bool
}

func (c *Config) load() error {

	// Create the home directory if it doesn't already exist.
	funcName := "loadConfig"
	err := os.MkdirAll(c.HomeDir, 0700)
	if err != nil {
		// Show a nicer error message if it's because a symlink is
		// linked to a directory that does not exist (probably because
		// it's not mounted).
		if e, ok := err.(*os.PathError); ok && os.IsExist(err) {
			if link, lerr := os.Readlink(e.Path); lerr == nil {
				str := "is symlink %s -> %s mounted?"
				err = fmt.Errorf(str, e.Path, link)
			}
		}
		str := "%s: failed to create home directory: %v"
		err := fmt.Errorf(str, funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if c.Miner == "" {
		return fmt.Errorf("%s: the miner address must not be empty", funcName)
	}

	c.DataDir = util.CleanAndExpandPath(c.DataDir)

	return config.ParseAndSetDebugLevels(c.DebugLevel)
}

// GetArchiveFilePath completes path into the location of a chain archive,
// appending the default file name when path points at a directory.
func GetArchiveFilePath(path string) (string, error) {
	if len(path) <= 0 {
		return "", fmt.Errorf("path error")
	}
	if len(path) >= 4 {
		if path[len(path)-4:] == ".dat" {
			return path, nil
		}
	}
	return strings.TrimRight(strings.TrimRight(path, "/"), "\\") + "/" + defaultFileName, nil
}
