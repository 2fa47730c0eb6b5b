package collector

import "fmt"

// DirectoryNotFoundError is returned when the root does not exist or is not
// a directory. No output is produced in that case.
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory not found at '%s'", e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() error {
	return e.Err
}

// readErrorContent is the placeholder stored for a file that could not be read.
func readErrorContent(err error) string {
	return fmt.Sprintf("Error reading file: %v", err)
}
