package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"vincit.fi/picture-triage/common/logger"
)

// Replaced in tests to simulate a rename across file systems.
var renameFunc = os.Rename

var (
	ErrFileExists   = errors.New("target file already exists")
	ErrNotDirectory = errors.New("not a directory")
)

// MakeDirectoriesIfNotExist creates targetDir with the permissions of
// sourceDir. An existing targetDir that is not a directory is an error.
func MakeDirectoriesIfNotExist(sourceDir string, targetDir string) error {
	if info, err := os.Stat(targetDir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", targetDir, ErrNotDirectory)
		}
		return nil
	}
	mode := os.FileMode(0o755)
	if info, err := os.Stat(sourceDir); err == nil {
		mode = info.Mode().Perm()
	}
	logger.Debug.Printf("Creating directory '%s'", targetDir)
	return os.MkdirAll(targetDir, mode)
}

func copyFile(src string, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, sourceFileStat.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err = io.Copy(destination, source); err != nil {
		destination.Close()
		_ = os.Remove(dst)
		return err
	}
	return destination.Close()
}

func RemoveFile(src string) error {
	logger.Debug.Printf("Deleting '%s'", src)
	return os.Remove(src)
}

// MoveFile moves src into dstDir keeping the base name. An existing target is
// never overwritten. A rename that crosses file systems falls back to copy and
// remove.
func MoveFile(src string, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if _, err := os.Lstat(dst); err == nil {
		return dst, fmt.Errorf("%s: %w", dst, ErrFileExists)
	} else if !os.IsNotExist(err) {
		return dst, err
	}

	logger.Debug.Printf("Moving '%s' to '%s'", src, dst)
	err := renameFunc(src, dst)
	if err == nil {
		return dst, nil
	}
	if !IsCrossDevice(err) {
		return dst, err
	}

	logger.Debug.Printf("'%s' is on another device, copying instead", dst)
	if err := copyFile(src, dst); err != nil {
		return dst, err
	}
	if err := RemoveFile(src); err != nil {
		_ = os.Remove(dst)
		return dst, err
	}
	return dst, nil
}

func IsCrossDevice(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	return errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV)
}
