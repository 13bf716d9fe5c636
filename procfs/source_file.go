// Helpers for checking and streaming /proc sources

package procfs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	// Sanity bound against abnormal /proc entries:
	SOURCE_FILE_MAX_SIZE_DEFAULT = 0x100000

	// bufio.Scanner max token size; TcpExt heading lines are the longest, at a
	// few kB:
	SOURCE_FILE_MAX_LINE_SIZE = 0x10000
)

var ErrSourceTooLarge = errors.New("source exceeds the size ceiling")

// Verify that a source exists, it is a file, it is readable and it is within
// the size ceiling. Note that most /proc files report a size of 0, therefore
// the ceiling is also enforced while reading.
func CheckSourceFile(filePath string, maxSize int64) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: not found", filePath)
		}
		return fmt.Errorf("%s: %w", filePath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", filePath)
	}
	if err = unix.Access(filePath, unix.R_OK); err != nil {
		return fmt.Errorf("%s: not readable: %w", filePath, err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("%s: size %d: %w (%d)", filePath, info.Size(), ErrSourceTooLarge, maxSize)
	}
	return nil
}

// Stream a source line by line, invoking lineFn for each line; lineFn should
// return false to stop the scan. The context is checked before every line and a
// cancelled scan returns w/o error, the caller keeps whatever was parsed so
// far. The number of lines scanned is returned.
func scanSourceLines(
	ctx context.Context,
	filePath string,
	maxSize int64,
	lineFn func(lineNum int, line string) bool,
) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), SOURCE_FILE_MAX_LINE_SIZE)

	lineNum, readSize := 0, int64(0)
	for ctx.Err() == nil && scanner.Scan() {
		line := scanner.Text()
		readSize += int64(len(line)) + 1
		if maxSize > 0 && readSize > maxSize {
			return lineNum, fmt.Errorf("%s#%d: %w (%d)", filePath, lineNum+1, ErrSourceTooLarge, maxSize)
		}
		lineNum++
		if !lineFn(lineNum, line) {
			return lineNum, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return lineNum, fmt.Errorf("%s#%d: %w", filePath, lineNum+1, err)
	}
	return lineNum, nil
}
