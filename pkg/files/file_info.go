package files

import (
	"os"
	"time"
)

var _ os.FileInfo = (*FileInfo)(nil)

type FileInfo struct {
	DirEntry
	sys any
}

func NewFileInfo(dirEntry DirEntry) *FileInfo {
	return &FileInfo{DirEntry: dirEntry}
}

func (f *FileInfo) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}
func (f *FileInfo) Size() int64 {
	if f == nil {
		return 0
	}
	return f.size
}
func (f *FileInfo) Mode() os.FileMode {
	if f == nil {
		return 0
	}
	return f.Type()
}
func (f *FileInfo) ModTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.modTime
}
func (f *FileInfo) IsDir() bool {
	if f == nil {
		return false
	}
	return f.kind == KindDirectory
}
func (f *FileInfo) Sys() any {
	if f == nil {
		return nil
	}
	return f.sys
}
