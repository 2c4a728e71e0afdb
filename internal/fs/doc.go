// Package fs abstracts the file operations behind a durable local write so
// that tests can inject I/O failures.
//
// Production code uses [Default]. Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("artifact.bin", fs.Fault{FailOnSync: true, FailAfterBytes: -1, Times: 1})
package fs
