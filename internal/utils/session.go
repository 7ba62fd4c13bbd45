package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"

	"github.com/misterclayt0n/repcoach/internal/config"
	"github.com/misterclayt0n/repcoach/internal/models"
)

// ErrNoSession is returned when no coaching run is waiting to be saved.
var ErrNoSession = errors.New("no pending session")

func getSessionPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "current_session.toml"), nil
}

// withSessionLock serializes access to the pending session file across processes.
func withSessionLock(fn func(path string) error) error {
	path, err := getSessionPath()
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock session file: %w", err)
	}
	defer lock.Unlock()

	return fn(path)
}

func SaveSessionState(state *models.SessionState) error {
	return withSessionLock(func(path string) error {
		tmp := path + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(f).Encode(state); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, path)
	})
}

func LoadSessionState() (*models.SessionState, error) {
	var state models.SessionState
	err := withSessionLock(func(path string) error {
		_, err := toml.DecodeFile(path, &state)
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSession
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func ClearSessionState() error {
	return withSessionLock(func(path string) error {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSession
		}
		return err
	})
}

func SessionExists() bool {
	path, err := getSessionPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return !os.IsNotExist(err)
}
