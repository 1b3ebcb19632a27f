package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
const sniffLength = 8000

// nonPrintableThreshold is the fraction of non-printable bytes above which a
// sniffed prefix is treated as binary even when it is valid UTF-8.
const nonPrintableThreshold = 0.3

// IsBinary reports whether the provided byte slice appears to contain binary data.
// The check is deterministic for identical input bytes.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	nonPrintableCount := 0
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
		if byteValue < 32 && byteValue != '\n' && byteValue != '\r' && byteValue != '\t' && byteValue != '\f' {
			nonPrintableCount++
		}
	}
	return float64(nonPrintableCount)/float64(len(data)) > nonPrintableThreshold
}

// IsFileBinary reads up to sniffLength bytes from the file at path and determines
// if the content appears to be binary.
func IsFileBinary(path string) (bool, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return false, readError
	}
	return IsBinary(buffer[:bytesRead]), nil
}
