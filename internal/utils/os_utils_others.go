// Misc Other OS related info

//go:build !linux

package utils

import "os"

func getPageSize() (int64, error) {
	return int64(os.Getpagesize()), nil
}
