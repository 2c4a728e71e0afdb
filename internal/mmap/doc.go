// Package mmap maps artifact files read-only into memory.
//
//	m, err := mmap.Open("runs/1/artifact.bin")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and ignores
// access hints. Close is idempotent. Bytes must not be used after Close.
package mmap
