package sink

import "github.com/lixenwraith/sinklog/core"

// BasicFile writes every record to a single file
type BasicFile struct {
	base
	file *FileHelper
}

// NewBasicFile opens filename and returns a sink writing to it
func NewBasicFile(filename string, opts ...Option) (*BasicFile, error) {
	o := newOptions(opts)
	s := &BasicFile{file: NewFileHelper(o.events)}
	s.init(o)
	if err := s.file.Open(filename, o.truncate); err != nil {
		return nil, err
	}
	return s, nil
}

// Log formats and writes rec
func (s *BasicFile) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.file.IsOpen() {
		if err := s.file.Reopen(false); err != nil {
			return err
		}
	}
	return s.file.Write(s.formatter.Format(rec))
}

// Flush pushes buffered data to the OS
func (s *BasicFile) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Flush()
}

// Sync flushes and fsyncs the file
func (s *BasicFile) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Sync()
}

// Truncate empties the file and continues writing at its start
func (s *BasicFile) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Reopen(true)
}

// Filename returns the path being written
func (s *BasicFile) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Filename()
}

// Close flushes and closes the file
func (s *BasicFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
