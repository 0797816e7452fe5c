package plugin

// FileID identifies the file behind a mapped library independently of the
// path used to open it.
type FileID struct {
	Dev uint64
	Ino uint64
}
