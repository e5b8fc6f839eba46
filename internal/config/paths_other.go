//go:build !windows

package config

func PicturesDir() string {
	return homePictures()
}
