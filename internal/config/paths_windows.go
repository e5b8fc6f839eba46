//go:build windows

package config

import "golang.org/x/sys/windows"

// PicturesDir returns the user's Pictures known folder, which may have been
// redirected away from the profile directory.
func PicturesDir() string {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_Pictures, 0)
	if err != nil || dir == "" {
		return homePictures()
	}
	return dir
}
